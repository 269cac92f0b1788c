package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/lanternsec/facegate/internal/api/middleware"
	"github.com/lanternsec/facegate/internal/domain"
	"github.com/lanternsec/facegate/internal/enroll"
	"github.com/lanternsec/facegate/internal/service"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(testLogger()),
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSession injects an authenticated user without a real JWT.
func fakeSession(userID uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, userID)
		return c.Next()
	}
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) LoginPassword(ctx context.Context, username, password, clientIP string) (*service.PasswordLoginResult, error) {
	args := m.Called(ctx, username, password, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PasswordLoginResult), args.Error(1)
}

func (m *MockAuthService) LoginFace(ctx context.Context, probe []float64, clientIP string) (*service.FaceLoginResult, error) {
	args := m.Called(ctx, probe, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FaceLoginResult), args.Error(1)
}

func (m *MockAuthService) LoginFaceImage(ctx context.Context, image []byte, clientIP string) (*service.FaceLoginResult, error) {
	args := m.Called(ctx, image, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FaceLoginResult), args.Error(1)
}

func (m *MockAuthService) RefreshToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type MockEnrollService struct {
	mock.Mock
}

func (m *MockEnrollService) Enroll(ctx context.Context, userID uuid.UUID, samples []enroll.Sample) (*domain.EnrollmentReport, error) {
	args := m.Called(ctx, userID, samples)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EnrollmentReport), args.Error(1)
}

func (m *MockEnrollService) EnrollImages(ctx context.Context, userID uuid.UUID, images [][]byte) (*domain.EnrollmentReport, error) {
	args := m.Called(ctx, userID, images)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EnrollmentReport), args.Error(1)
}

func (m *MockEnrollService) Status(ctx context.Context, userID uuid.UUID) ([]domain.Face, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Face), args.Error(1)
}

func (m *MockEnrollService) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) Overview(ctx context.Context) (*domain.SystemStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SystemStats), args.Error(1)
}

func (m *MockStatsService) RecentEvents(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuthEvent, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuthEvent), args.Error(1)
}
