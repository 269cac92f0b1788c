package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lanternsec/facegate/internal/domain"
)

type AuthEventRepository struct {
	pool PgxPool
}

func NewAuthEventRepository(pool PgxPool) *AuthEventRepository {
	return &AuthEventRepository{pool: pool}
}

func (r *AuthEventRepository) Create(ctx context.Context, event *domain.AuthEvent) error {
	query := `
		INSERT INTO auth_events (id, user_id, username, method, success, confidence, tier, reason, client_ip, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING created_at
	`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		event.ID,
		event.UserID,
		event.Username,
		event.Method,
		event.Success,
		event.Confidence,
		event.Tier,
		event.Reason,
		event.ClientIP,
		event.LatencyMs,
	).Scan(&event.CreatedAt)

	if err != nil {
		return fmt.Errorf("create auth event: %w", err)
	}

	return nil
}

func (r *AuthEventRepository) RecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuthEvent, error) {
	query := `
		SELECT id, user_id, username, method, success, confidence, tier, reason, client_ip, latency_ms, created_at
		FROM auth_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	defer rows.Close()

	var events []domain.AuthEvent
	for rows.Next() {
		var e domain.AuthEvent
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Username,
			&e.Method,
			&e.Success,
			&e.Confidence,
			&e.Tier,
			&e.Reason,
			&e.ClientIP,
			&e.LatencyMs,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan auth event row: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}

	return events, nil
}
