package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/lanternsec/facegate/internal/domain"
	"github.com/lanternsec/facegate/internal/service"
)

// AuthService interface for the service
type AuthService interface {
	LoginPassword(ctx context.Context, username, password, clientIP string) (*service.PasswordLoginResult, error)
	LoginFace(ctx context.Context, probe []float64, clientIP string) (*service.FaceLoginResult, error)
	LoginFaceImage(ctx context.Context, image []byte, clientIP string) (*service.FaceLoginResult, error)
	RefreshToken(token string) (string, error)
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

func NewAuthHandler(service AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// PasswordLoginRequest is the body of POST /v1/auth/login
type PasswordLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// FaceLoginRequest is the body of POST /v1/auth/face
type FaceLoginRequest struct {
	Embedding []float64 `json:"embedding"`
}

// TokenResponse carries an issued session token
type TokenResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user,omitempty"`
}

// FaceLoginResponse carries the token plus the match decision detail
type FaceLoginResponse struct {
	Token string              `json:"token"`
	User  *domain.User        `json:"user"`
	Match *domain.MatchResult `json:"match"`
}

// RefreshRequest is the body of POST /v1/auth/refresh
type RefreshRequest struct {
	Token string `json:"token"`
}

// LoginPassword POST /v1/auth/login - authenticate with credentials
func (h *AuthHandler) LoginPassword(c *fiber.Ctx) error {
	var req PasswordLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if req.Username == "" || req.Password == "" {
		return domain.ErrValidationFailed.WithError(errors.New("username and password are required"))
	}

	result, err := h.service.LoginPassword(c.Context(), req.Username, req.Password, c.IP())
	if err != nil {
		return err
	}

	return c.JSON(TokenResponse{
		Token: result.Token,
		User:  result.User,
	})
}

// LoginFace POST /v1/auth/face - authenticate with a probe embedding
func (h *AuthHandler) LoginFace(c *fiber.Ctx) error {
	var req FaceLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if len(req.Embedding) == 0 {
		return domain.ErrValidationFailed.WithError(errors.New("embedding is required"))
	}

	result, err := h.service.LoginFace(c.Context(), req.Embedding, c.IP())
	if err != nil {
		return err
	}

	return c.JSON(FaceLoginResponse{
		Token: result.Token,
		User:  result.User,
		Match: result.Match,
	})
}

// LoginFaceImage POST /v1/auth/face/image - authenticate with a captured
// image
func (h *AuthHandler) LoginFaceImage(c *fiber.Ctx) error {
	imageBytes, err := extractImage(c, "image")
	if err != nil {
		return err
	}

	result, err := h.service.LoginFaceImage(c.Context(), imageBytes, c.IP())
	if err != nil {
		return err
	}

	return c.JSON(FaceLoginResponse{
		Token: result.Token,
		User:  result.User,
		Match: result.Match,
	})
}

// Refresh POST /v1/auth/refresh - exchange a valid token for a fresh one
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if req.Token == "" {
		return domain.ErrValidationFailed.WithError(errors.New("token is required"))
	}

	token, err := h.service.RefreshToken(req.Token)
	if err != nil {
		return err
	}

	return c.JSON(TokenResponse{Token: token})
}
