package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lanternsec/facegate/internal/audit"
	"github.com/lanternsec/facegate/internal/detector"
	"github.com/lanternsec/facegate/internal/domain"
	"github.com/lanternsec/facegate/internal/match"
	"github.com/lanternsec/facegate/internal/metrics"
	"github.com/lanternsec/facegate/internal/repository"
	"github.com/lanternsec/facegate/internal/session"
)

// FaceLoginResult is the outcome of a successful face authentication.
type FaceLoginResult struct {
	Token string              `json:"token"`
	User  *domain.User        `json:"user"`
	Match *domain.MatchResult `json:"match"`
}

// PasswordLoginResult is the outcome of a successful credential
// authentication.
type PasswordLoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// AuthService authenticates users by password or live face capture and
// issues session tokens.
type AuthService struct {
	users    repository.UserRepositoryInterface
	faces    repository.FaceRepositoryInterface
	searcher *match.Searcher
	provider detector.Provider
	jwt      *session.JWTService
	audit    audit.Recorder

	maxFailedLogins int
	lockoutDuration time.Duration
}

func NewAuthService(
	users repository.UserRepositoryInterface,
	faces repository.FaceRepositoryInterface,
	searcher *match.Searcher,
	provider detector.Provider,
	jwt *session.JWTService,
	recorder audit.Recorder,
	maxFailedLogins int,
	lockoutDuration time.Duration,
) *AuthService {
	return &AuthService{
		users:           users,
		faces:           faces,
		searcher:        searcher,
		provider:        provider,
		jwt:             jwt,
		audit:           recorder,
		maxFailedLogins: maxFailedLogins,
		lockoutDuration: lockoutDuration,
	}
}

// LoginPassword authenticates with username and password. Unknown
// accounts and wrong passwords are indistinguishable to the caller.
// Repeated failures lock the account for the configured window.
func (s *AuthService) LoginPassword(ctx context.Context, username, password, clientIP string) (*PasswordLoginResult, error) {
	start := time.Now()

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.RecordAuthAttempt(metrics.MethodPassword, metrics.OutcomeRejected)
			s.recordEvent(ctx, nil, username, domain.MethodPassword, false, 0, "", "unknown account", clientIP, start)
			return nil, domain.ErrInvalidCredentials
		}
		metrics.RecordAuthAttempt(metrics.MethodPassword, metrics.OutcomeError)
		return nil, err
	}

	if user.Locked(time.Now()) {
		metrics.RecordAuthAttempt(metrics.MethodPassword, metrics.OutcomeLocked)
		s.recordEvent(ctx, &user.ID, user.Username, domain.MethodPassword, false, 0, "", "account locked", clientIP, start)
		return nil, domain.ErrAccountLocked
	}

	if !user.Active {
		metrics.RecordAuthAttempt(metrics.MethodPassword, metrics.OutcomeRejected)
		s.recordEvent(ctx, &user.ID, user.Username, domain.MethodPassword, false, 0, "", "inactive account", clientIP, start)
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.registerFailure(ctx, user)
		metrics.RecordAuthAttempt(metrics.MethodPassword, metrics.OutcomeRejected)
		s.recordEvent(ctx, &user.ID, user.Username, domain.MethodPassword, false, 0, "", "invalid credentials", clientIP, start)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.users.ResetLoginState(ctx, user.ID); err != nil {
		metrics.RecordAuthAttempt(metrics.MethodPassword, metrics.OutcomeError)
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user, domain.MethodPassword, "")
	if err != nil {
		metrics.RecordAuthAttempt(metrics.MethodPassword, metrics.OutcomeError)
		return nil, err
	}

	metrics.RecordAuthAttempt(metrics.MethodPassword, metrics.OutcomeMatched)
	s.recordEvent(ctx, &user.ID, user.Username, domain.MethodPassword, true, 0, "", "", clientIP, start)

	return &PasswordLoginResult{Token: token, User: user}, nil
}

// LoginFace authenticates with a live probe embedding. The probe is
// compared against every enrolled face of every active account; the best
// match above the policy threshold wins.
func (s *AuthService) LoginFace(ctx context.Context, probe []float64, clientIP string) (*FaceLoginResult, error) {
	start := time.Now()

	candidates, err := s.faces.ListCandidates(ctx)
	if err != nil {
		metrics.RecordAuthAttempt(metrics.MethodFace, metrics.OutcomeError)
		return nil, domain.ErrInternal.WithError(err)
	}

	result, err := s.searcher.Search(probe, candidates)
	if err != nil {
		outcome := metrics.OutcomeBadProbe
		if errors.Is(err, domain.ErrNoFacesEnrolled) {
			outcome = metrics.OutcomeNoFaces
		}
		metrics.RecordAuthAttempt(metrics.MethodFace, outcome)
		s.recordEvent(ctx, nil, "", domain.MethodFace, false, 0, "", err.Error(), clientIP, start)
		return nil, err
	}

	metrics.RecordCandidatesCompared(result.Compared)
	metrics.RecordAuthBestScore(result.Similarity)

	if !result.Matched {
		metrics.RecordAuthAttempt(metrics.MethodFace, metrics.OutcomeRejected)
		s.recordEvent(ctx, nil, "", domain.MethodFace, false, result.Similarity, "", result.Reason, clientIP, start)
		return nil, domain.ErrFaceNotMatched
	}

	user, err := s.users.GetByID(ctx, result.UserID)
	if err != nil {
		metrics.RecordAuthAttempt(metrics.MethodFace, metrics.OutcomeError)
		return nil, err
	}

	if user.Locked(time.Now()) {
		metrics.RecordAuthAttempt(metrics.MethodFace, metrics.OutcomeLocked)
		s.recordEvent(ctx, &user.ID, user.Username, domain.MethodFace, false, result.Similarity, result.Tier, "account locked", clientIP, start)
		return nil, domain.ErrAccountLocked
	}

	if err := s.users.ResetLoginState(ctx, user.ID); err != nil {
		metrics.RecordAuthAttempt(metrics.MethodFace, metrics.OutcomeError)
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user, domain.MethodFace, result.Tier)
	if err != nil {
		metrics.RecordAuthAttempt(metrics.MethodFace, metrics.OutcomeError)
		return nil, err
	}

	metrics.RecordAuthAttempt(metrics.MethodFace, metrics.OutcomeMatched)
	metrics.RecordAuthLatency(float64(time.Since(start).Milliseconds()))
	s.recordEvent(ctx, &user.ID, user.Username, domain.MethodFace, true, result.Similarity, result.Tier, "", clientIP, start)

	return &FaceLoginResult{Token: token, User: user, Match: result}, nil
}

// LoginFaceImage extracts the embedding from a submitted image and runs
// the face login with it.
func (s *AuthService) LoginFaceImage(ctx context.Context, image []byte, clientIP string) (*FaceLoginResult, error) {
	capture, err := s.provider.ExtractEmbedding(ctx, image)
	if err != nil {
		metrics.RecordAuthAttempt(metrics.MethodFace, metrics.OutcomeBadProbe)
		return nil, err
	}

	return s.LoginFace(ctx, capture.Embedding, clientIP)
}

// RefreshToken exchanges a valid token for a fresh one with extended
// expiry.
func (s *AuthService) RefreshToken(token string) (string, error) {
	refreshed, err := s.jwt.RefreshToken(token)
	if err != nil {
		if errors.Is(err, session.ErrExpiredToken) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	return refreshed, nil
}

// registerFailure bumps the failure counter and locks the account when
// it crosses the configured limit.
func (s *AuthService) registerFailure(ctx context.Context, user *domain.User) {
	var lockedUntil *time.Time
	if s.maxFailedLogins > 0 && user.FailedLogins+1 >= s.maxFailedLogins {
		deadline := time.Now().Add(s.lockoutDuration)
		lockedUntil = &deadline
		metrics.RecordAccountLockout()
	}

	// Best effort: a failed counter update must not mask the original
	// rejection.
	_ = s.users.RecordLoginFailure(ctx, user.ID, lockedUntil)
}

func (s *AuthService) recordEvent(
	ctx context.Context,
	userID *uuid.UUID,
	username, method string,
	success bool,
	confidence float64,
	tier, reason, clientIP string,
	start time.Time,
) {
	// Fire-and-forget: a broken audit trail never fails a login.
	_ = s.audit.Record(ctx, domain.AuthEvent{
		UserID:     userID,
		Username:   username,
		Method:     method,
		Success:    success,
		Confidence: confidence,
		Tier:       tier,
		Reason:     reason,
		ClientIP:   clientIP,
		LatencyMs:  time.Since(start).Milliseconds(),
	})
}
