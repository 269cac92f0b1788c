package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lanternsec/facegate/internal/domain"
)

// PgxPool is the slice of pgxpool.Pool the repositories use. pgxmock
// implements the same surface, so tests can swap the pool without touching
// repository code.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UserRepositoryInterface defines operations for user data access
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	RecordLoginFailure(ctx context.Context, id uuid.UUID, lockedUntil *time.Time) error
	ResetLoginState(ctx context.Context, id uuid.UUID) error
}

// FaceRepositoryInterface defines operations for enrolled face data access
type FaceRepositoryInterface interface {
	ReplaceAll(ctx context.Context, userID uuid.UUID, faces []domain.Face) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Face, error)
	ListCandidates(ctx context.Context) ([]domain.Face, error)
	ListAll(ctx context.Context) ([]domain.Face, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// AuthEventRepositoryInterface defines operations for the authentication
// audit trail
type AuthEventRepositoryInterface interface {
	Create(ctx context.Context, event *domain.AuthEvent) error
	RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuthEvent, error)
}

// StatsRepositoryInterface defines the aggregate queries behind the admin
// overview
type StatsRepositoryInterface interface {
	Overview(ctx context.Context) (*domain.SystemStats, error)
}
