package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanternsec/facegate/internal/domain"
)

func testEmbedding(seed float64) []float64 {
	v := make([]float64, 128)
	for i := range v {
		v[i] = seed + float64(i)/128.0
	}
	return v
}

// UserRepository tests

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful insert",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				now := time.Now()
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), "avery", "avery@example.com", pgxmock.AnyArg(), "Avery Quinn", "user", true).
					WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
			},
			wantErr: nil,
		},
		{
			name: "duplicate username",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), "avery", "avery@example.com", pgxmock.AnyArg(), "Avery Quinn", "user", true).
					WillReturnError(errors.New(`duplicate key value violates unique constraint "users_username_key" (SQLSTATE 23505)`))
			},
			wantErr: domain.ErrUserExists,
		},
		{
			name: "database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs(pgxmock.AnyArg(), "avery", "avery@example.com", pgxmock.AnyArg(), "Avery Quinn", "user", true).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("create user: connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewUserRepository(mock)
			user := &domain.User{
				Username:     "avery",
				Email:        "avery@example.com",
				PasswordHash: "$2a$12$hash",
				FullName:     "Avery Quinn",
				Active:       true,
			}
			err = repo.Create(context.Background(), user)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrUserExists) {
					assert.ErrorIs(t, err, domain.ErrUserExists)
				} else {
					assert.Contains(t, err.Error(), "create user")
				}
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, user.ID)
				assert.Equal(t, domain.RoleUser, user.Role)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		want      *domain.User
		wantErr   error
	}{
		{
			name: "successful retrieval",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{
					"id", "username", "email", "password_hash", "full_name", "role", "is_active", "failed_logins", "locked_until", "created_at", "updated_at",
				}).AddRow(
					userID,
					"avery",
					"avery@example.com",
					"$2a$12$hash",
					"Avery Quinn",
					"user",
					true,
					0,
					nil,
					now,
					now,
				)

				mock.ExpectQuery(`SELECT id, username, email, password_hash`).
					WithArgs("avery").
					WillReturnRows(rows)
			},
			want: &domain.User{
				ID:       userID,
				Username: "avery",
				Email:    "avery@example.com",
				Role:     "user",
				Active:   true,
			},
		},
		{
			name: "user not found",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, username, email, password_hash`).
					WithArgs("nobody").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "database error",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT id, username, email, password_hash`).
					WithArgs("avery").
					WillReturnError(errors.New("database connection error"))
			},
			wantErr: errors.New("get user by username: database connection error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewUserRepository(mock)
			username := "avery"
			if tt.wantErr != nil && errors.Is(tt.wantErr, domain.ErrUserNotFound) {
				username = "nobody"
			}
			got, err := repo.GetByUsername(context.Background(), username)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrUserNotFound) {
					assert.ErrorIs(t, err, domain.ErrUserNotFound)
				} else {
					assert.Contains(t, err.Error(), "get user by username")
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tt.want.ID, got.ID)
				assert.Equal(t, tt.want.Username, got.Username)
				assert.Equal(t, tt.want.Email, got.Email)
				assert.Equal(t, tt.want.Active, got.Active)
				assert.Nil(t, got.LockedUntil)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_RecordLoginFailure(t *testing.T) {
	userID := uuid.New()
	until := time.Now().Add(15 * time.Minute)

	t.Run("increments counter and locks", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE users`).
			WithArgs(userID, &until).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := NewUserRepository(mock)
		require.NoError(t, repo.RecordLoginFailure(context.Background(), userID, &until))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown user", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`UPDATE users`).
			WithArgs(userID, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := NewUserRepository(mock)
		err = repo.RecordLoginFailure(context.Background(), userID, nil)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserRepository_ResetLoginState(t *testing.T) {
	userID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE users`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewUserRepository(mock)
	require.NoError(t, repo.ResetLoginState(context.Background(), userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// FaceRepository tests

func TestFaceRepository_ReplaceAll(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	newFaces := func() []domain.Face {
		return []domain.Face{
			{Embedding: testEmbedding(0.1), Quality: 0.9, SampleIdx: 0},
			{Embedding: testEmbedding(0.2), Quality: 0.8, SampleIdx: 1},
		}
	}

	t.Run("replaces the whole set", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM faces WHERE user_id = \$1`).
			WithArgs(userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))
		for i := 0; i < 2; i++ {
			mock.ExpectBegin()
			mock.ExpectQuery(`INSERT INTO faces`).
				WithArgs(pgxmock.AnyArg(), userID, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), i, pgxmock.AnyArg()).
				WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
			mock.ExpectCommit()
		}
		mock.ExpectCommit()

		repo := NewFaceRepository(mock)
		persisted, err := repo.ReplaceAll(context.Background(), userID, newFaces())

		require.NoError(t, err)
		assert.Equal(t, 2, persisted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("tolerates a single bad row", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM faces WHERE user_id = \$1`).
			WithArgs(userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		// First row lands.
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO faces`).
			WithArgs(pgxmock.AnyArg(), userID, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 0, pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
		mock.ExpectCommit()

		// Second row fails inside its savepoint and is rolled back alone.
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO faces`).
			WithArgs(pgxmock.AnyArg(), userID, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 1, pgxmock.AnyArg()).
			WillReturnError(errors.New("value too long"))
		mock.ExpectRollback()

		mock.ExpectCommit()

		repo := NewFaceRepository(mock)
		persisted, err := repo.ReplaceAll(context.Background(), userID, newFaces())

		require.NoError(t, err)
		assert.Equal(t, 1, persisted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when nothing persists", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM faces WHERE user_id = \$1`).
			WithArgs(userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 2))
		for i := 0; i < 2; i++ {
			mock.ExpectBegin()
			mock.ExpectQuery(`INSERT INTO faces`).
				WithArgs(pgxmock.AnyArg(), userID, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), i, pgxmock.AnyArg()).
				WillReturnError(errors.New("disk full"))
			mock.ExpectRollback()
		}
		mock.ExpectRollback()

		repo := NewFaceRepository(mock)
		persisted, err := repo.ReplaceAll(context.Background(), userID, newFaces())

		require.Error(t, err)
		assert.Zero(t, persisted)
		assert.Contains(t, err.Error(), "none of 2 rows persisted")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		repo := NewFaceRepository(mock)
		_, err = repo.ReplaceAll(context.Background(), userID, newFaces())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "begin replace faces")
	})
}

func TestFaceRepository_ListByUser(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	t.Run("decodes stored vectors", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		vec := pgvector.NewVector([]float32{0.5, -0.25, 0.125})
		rows := pgxmock.NewRows([]string{
			"id", "user_id", "embedding", "capture_type", "quality", "sample_idx", "metadata", "created_at",
		}).AddRow(
			uuid.New(),
			userID,
			&vec,
			domain.CaptureSmile,
			0.9,
			0,
			map[string]interface{}{"device": "kiosk-1"},
			now,
		)

		mock.ExpectQuery(`SELECT id, user_id, embedding`).
			WithArgs(userID).
			WillReturnRows(rows)

		repo := NewFaceRepository(mock)
		faces, err := repo.ListByUser(context.Background(), userID)

		require.NoError(t, err)
		require.Len(t, faces, 1)
		assert.Equal(t, []float64{0.5, -0.25, 0.125}, faces[0].Embedding)
		assert.Equal(t, domain.CaptureSmile, faces[0].CaptureType)
		assert.Equal(t, 0.9, faces[0].Quality)
		assert.Equal(t, "kiosk-1", faces[0].Metadata["device"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty set", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, user_id, embedding`).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "user_id", "embedding", "capture_type", "quality", "sample_idx", "metadata", "created_at",
			}))

		repo := NewFaceRepository(mock)
		faces, err := repo.ListByUser(context.Background(), userID)

		require.NoError(t, err)
		assert.Empty(t, faces)
	})
}

func TestFaceRepository_CountByUser(t *testing.T) {
	userID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	repo := NewFaceRepository(mock)
	count, err := repo.CountByUser(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestFaceRepository_DeleteByUser(t *testing.T) {
	userID := uuid.New()

	t.Run("deletes the set", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM faces`).
			WithArgs(userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 3))

		repo := NewFaceRepository(mock)
		require.NoError(t, repo.DeleteByUser(context.Background(), userID))
	})

	t.Run("nothing enrolled", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM faces`).
			WithArgs(userID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewFaceRepository(mock)
		err = repo.DeleteByUser(context.Background(), userID)
		assert.ErrorIs(t, err, domain.ErrNoFacesEnrolled)
	})
}

// AuthEventRepository tests

func TestAuthEventRepository_Create(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO auth_events`).
		WithArgs(pgxmock.AnyArg(), &userID, "avery", "face", true, 0.97, "high", "", "203.0.113.9", int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	repo := NewAuthEventRepository(mock)
	event := &domain.AuthEvent{
		UserID:     &userID,
		Username:   "avery",
		Method:     domain.MethodFace,
		Success:    true,
		Confidence: 0.97,
		Tier:       domain.TierHigh,
		ClientIP:   "203.0.113.9",
		LatencyMs:  42,
	}

	require.NoError(t, repo.Create(context.Background(), event))
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthEventRepository_RecentByUser(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "username", "method", "success", "confidence", "tier", "reason", "client_ip", "latency_ms", "created_at",
	}).AddRow(
		uuid.New(), &userID, "avery", "face", true, 0.97, "high", "", "203.0.113.9", int64(42), now,
	).AddRow(
		uuid.New(), &userID, "avery", "password", false, 0.0, "", "invalid password", "203.0.113.9", int64(5), now.Add(-time.Hour),
	)

	mock.ExpectQuery(`SELECT id, user_id, username, method`).
		WithArgs(userID, 10).
		WillReturnRows(rows)

	repo := NewAuthEventRepository(mock)
	events, err := repo.RecentByUser(context.Background(), userID, 10)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].Success)
	assert.Equal(t, "invalid password", events[1].Reason)
}

// StatsRepository tests

func TestStatsRepository_Overview(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{
		"users", "active", "enrolled", "faces", "avg_quality", "events", "successes", "avg_latency",
	}).AddRow(120, 118, 90, 310, 0.87, 4200, 4000, 38.5)

	mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

	repo := NewStatsRepository(mock)
	stats, err := repo.Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 120, stats.Users)
	assert.Equal(t, 90, stats.EnrolledUsers)
	assert.Equal(t, 310, stats.Faces)
	assert.InDelta(t, 0.87, stats.AvgQuality, 1e-9)
	assert.Equal(t, 4200, stats.Events24h)
	assert.InDelta(t, 38.5, stats.AvgLatencyMs, 1e-9)
}
