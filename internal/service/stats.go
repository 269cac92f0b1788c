package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/lanternsec/facegate/internal/domain"
	"github.com/lanternsec/facegate/internal/repository"
)

// StatsService serves the administrative overview and per-user audit
// history.
type StatsService struct {
	stats  repository.StatsRepositoryInterface
	events repository.AuthEventRepositoryInterface
}

func NewStatsService(stats repository.StatsRepositoryInterface, events repository.AuthEventRepositoryInterface) *StatsService {
	return &StatsService{
		stats:  stats,
		events: events,
	}
}

// Overview returns system-wide aggregates.
func (s *StatsService) Overview(ctx context.Context) (*domain.SystemStats, error) {
	return s.stats.Overview(ctx)
}

// RecentEvents returns the user's latest authentication events, newest
// first. Limit is clamped to [1, 100] with a default of 20.
func (s *StatsService) RecentEvents(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuthEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return s.events.RecentByUser(ctx, userID, limit)
}
