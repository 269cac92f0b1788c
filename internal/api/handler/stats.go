package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lanternsec/facegate/internal/api/middleware"
	"github.com/lanternsec/facegate/internal/domain"
)

// StatsService interface for the service
type StatsService interface {
	Overview(ctx context.Context) (*domain.SystemStats, error)
	RecentEvents(ctx context.Context, userID uuid.UUID, limit int) ([]domain.AuthEvent, error)
}

// StatsHandler serves the admin overview and the per-user auth history
type StatsHandler struct {
	service StatsService
	logger  *slog.Logger
}

func NewStatsHandler(service StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger,
	}
}

// Overview GET /v1/admin/stats - system-wide aggregates (admin only)
func (h *StatsHandler) Overview(c *fiber.Ctx) error {
	stats, err := h.service.Overview(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

// RecentEvents GET /v1/auth/events - the authenticated user's latest
// authentication attempts
func (h *StatsHandler) RecentEvents(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 20)
	events, err := h.service.RecentEvents(c.Context(), userID, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"events": events,
		"count":  len(events),
	})
}
