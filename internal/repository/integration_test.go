//go:build integration

package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lanternsec/facegate/internal/domain"
)

func setupIntegrationTest(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "facegate_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/facegate_test?sslmode=disable", host, port.Port())

	db, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
		CREATE EXTENSION IF NOT EXISTS "vector";

		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			username VARCHAR(64) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(32) NOT NULL DEFAULT 'user',
			is_active BOOLEAN NOT NULL DEFAULT true,
			failed_logins INT NOT NULL DEFAULT 0,
			locked_until TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS faces (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			embedding vector(128),
			capture_type VARCHAR(16) NOT NULL DEFAULT 'normal',
			quality FLOAT NOT NULL DEFAULT 0,
			sample_idx INT NOT NULL DEFAULT 0,
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_faces_user_id ON faces(user_id);

		CREATE TABLE IF NOT EXISTS auth_events (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE SET NULL,
			username VARCHAR(64) NOT NULL DEFAULT '',
			method VARCHAR(16) NOT NULL,
			success BOOLEAN NOT NULL,
			confidence FLOAT NOT NULL DEFAULT 0,
			tier VARCHAR(16) NOT NULL DEFAULT '',
			reason TEXT NOT NULL DEFAULT '',
			client_ip VARCHAR(64) NOT NULL DEFAULT '',
			latency_ms BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func createIntegrationUser(t *testing.T, db *pgxpool.Pool, username string) *domain.User {
	t.Helper()

	repo := NewUserRepository(db)
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$2a$12$integration",
		Active:       true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func integrationEmbedding(seed float64) []float64 {
	v := make([]float64, 128)
	for i := range v {
		v[i] = seed + float64(i)/256.0
	}
	return v
}

func TestReplaceAll_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewFaceRepository(db)
	user := createIntegrationUser(t, db, "replace-all")

	t.Run("first enrollment persists every row", func(t *testing.T) {
		faces := []domain.Face{
			{Embedding: integrationEmbedding(0.1), Quality: 0.9, SampleIdx: 0},
			{Embedding: integrationEmbedding(0.2), Quality: 0.8, SampleIdx: 1},
			{Embedding: integrationEmbedding(0.3), Quality: 0.7, SampleIdx: 2, Metadata: map[string]interface{}{"device": "kiosk-1"}},
		}

		persisted, err := repo.ReplaceAll(ctx, user.ID, faces)
		require.NoError(t, err)
		assert.Equal(t, 3, persisted)

		stored, err := repo.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, stored, 3)

		// Vectors survive the float32 round trip within tolerance.
		for i, f := range stored {
			assert.Equal(t, i, f.SampleIdx)
			require.Len(t, f.Embedding, 128)
			assert.InDelta(t, faces[i].Embedding[0], f.Embedding[0], 1e-6)
			assert.InDelta(t, faces[i].Embedding[127], f.Embedding[127], 1e-6)
		}
		assert.Equal(t, "kiosk-1", stored[2].Metadata["device"])
	})

	t.Run("re-enrollment discards the previous set", func(t *testing.T) {
		replacement := []domain.Face{
			{Embedding: integrationEmbedding(0.5), Quality: 0.95, SampleIdx: 0},
			{Embedding: integrationEmbedding(0.6), Quality: 0.9, SampleIdx: 1},
		}

		persisted, err := repo.ReplaceAll(ctx, user.ID, replacement)
		require.NoError(t, err)
		assert.Equal(t, 2, persisted)

		count, err := repo.CountByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		stored, err := repo.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, stored[0].Embedding[0], 1e-6)
	})

	t.Run("delete clears the set", func(t *testing.T) {
		require.NoError(t, repo.DeleteByUser(ctx, user.ID))

		count, err := repo.CountByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Zero(t, count)

		assert.ErrorIs(t, repo.DeleteByUser(ctx, user.ID), domain.ErrNoFacesEnrolled)
	})
}

func TestUserLoginState_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewUserRepository(db)
	user := createIntegrationUser(t, db, "lockout")

	until := time.Now().Add(15 * time.Minute).UTC()
	require.NoError(t, repo.RecordLoginFailure(ctx, user.ID, nil))
	require.NoError(t, repo.RecordLoginFailure(ctx, user.ID, &until))

	loaded, err := repo.GetByUsername(ctx, "lockout")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.FailedLogins)
	require.NotNil(t, loaded.LockedUntil)
	assert.WithinDuration(t, until, *loaded.LockedUntil, time.Second)
	assert.True(t, loaded.Locked(time.Now()))

	require.NoError(t, repo.ResetLoginState(ctx, user.ID))

	loaded, err = repo.GetByUsername(ctx, "lockout")
	require.NoError(t, err)
	assert.Zero(t, loaded.FailedLogins)
	assert.Nil(t, loaded.LockedUntil)
}

func TestAuthEvents_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewAuthEventRepository(db)
	user := createIntegrationUser(t, db, "audited")

	for i := 0; i < 3; i++ {
		event := &domain.AuthEvent{
			UserID:     &user.ID,
			Username:   user.Username,
			Method:     domain.MethodFace,
			Success:    i%2 == 0,
			Confidence: 0.9,
			Tier:       domain.TierHigh,
			ClientIP:   "203.0.113.9",
			LatencyMs:  int64(10 + i),
		}
		require.NoError(t, repo.Create(ctx, event))
	}

	events, err := repo.RecentByUser(ctx, user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	stats, err := NewStatsRepository(db).Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Users)
	assert.Equal(t, 3, stats.Events24h)
	assert.Equal(t, 2, stats.Success24h)
}

func TestMain(m *testing.M) {
	// Run tests
	code := m.Run()
	os.Exit(code)
}
