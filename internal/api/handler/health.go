package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lanternsec/facegate/internal/domain"
)

// Pinger is the slice of the database pool the readiness check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: "0.1.0",
	})
}

// Ready reports 503 until the database answers a ping.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    domain.ErrInternal.Code,
					"message": "database unreachable",
				},
			})
		}
	}

	return c.JSON(HealthResponse{
		Status: "ready",
	})
}
