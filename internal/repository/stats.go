package repository

import (
	"context"
	"fmt"

	"github.com/lanternsec/facegate/internal/domain"
)

type StatsRepository struct {
	pool PgxPool
}

func NewStatsRepository(pool PgxPool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// Overview aggregates the admin dashboard figures in a single round trip.
func (r *StatsRepository) Overview(ctx context.Context) (*domain.SystemStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_active = true),
			(SELECT COUNT(DISTINCT user_id) FROM faces),
			(SELECT COUNT(*) FROM faces),
			(SELECT COALESCE(AVG(quality), 0) FROM faces),
			(SELECT COUNT(*) FROM auth_events WHERE created_at > NOW() - INTERVAL '24 hours'),
			(SELECT COUNT(*) FROM auth_events WHERE success = true AND created_at > NOW() - INTERVAL '24 hours'),
			(SELECT COALESCE(AVG(latency_ms), 0) FROM auth_events WHERE created_at > NOW() - INTERVAL '24 hours')
	`

	var stats domain.SystemStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Users,
		&stats.ActiveUsers,
		&stats.EnrolledUsers,
		&stats.Faces,
		&stats.AvgQuality,
		&stats.Events24h,
		&stats.Success24h,
		&stats.AvgLatencyMs,
	)
	if err != nil {
		return nil, fmt.Errorf("load system stats: %w", err)
	}

	return &stats, nil
}
