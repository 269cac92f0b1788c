package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lanternsec/facegate/internal/domain"
	"github.com/lanternsec/facegate/internal/repository"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 64
	minPasswordLen = 8
)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// UserService manages account lifecycle.
type UserService struct {
	users      repository.UserRepositoryInterface
	bcryptCost int
}

func NewUserService(users repository.UserRepositoryInterface, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		users:      users,
		bcryptCost: bcryptCost,
	}
}

// Register validates the input, hashes the password and creates the
// account. New accounts start active with the user role; faces are
// enrolled separately.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     strings.ToLower(strings.TrimSpace(input.Username)),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(input.FullName),
		Role:         domain.RoleUser,
		Active:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID fetches one account.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// List pages through accounts. Limit is clamped to [1, 200] with a
// default of 50.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	return s.users.List(ctx, limit, offset)
}

func validateRegisterInput(input RegisterInput) error {
	username := strings.TrimSpace(input.Username)
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return domain.ErrValidationFailed.WithError(
			fmt.Errorf("username must be between %d and %d characters", minUsernameLen, maxUsernameLen))
	}

	email := strings.TrimSpace(input.Email)
	if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return domain.ErrValidationFailed.WithError(fmt.Errorf("invalid email address"))
	}

	if len(input.Password) < minPasswordLen {
		return domain.ErrValidationFailed.WithError(
			fmt.Errorf("password must be at least %d characters", minPasswordLen))
	}

	return nil
}
