// Package audit records every authentication attempt, successful or not,
// in the database and the structured log.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lanternsec/facegate/internal/domain"
)

// Recorder defines the interface for the authentication audit trail.
type Recorder interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}

// EventStore persists audit events.
type EventStore interface {
	Create(ctx context.Context, event *domain.AuthEvent) error
}

// Trail implements Recorder on top of a store and slog. A failed store
// write is logged but never fails the caller; losing one audit row must
// not break a login.
type Trail struct {
	store  EventStore
	logger *slog.Logger
}

// NewTrail creates an audit trail.
func NewTrail(store EventStore, logger *slog.Logger) *Trail {
	return &Trail{
		store:  store,
		logger: logger.With("component", "audit"),
	}
}

// Record persists one authentication event.
func (t *Trail) Record(ctx context.Context, event domain.AuthEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("username", event.Username),
		slog.String("method", event.Method),
		slog.Bool("success", event.Success),
		slog.String("client_ip", event.ClientIP),
		slog.Int64("latency_ms", event.LatencyMs),
	}
	if event.Method == domain.MethodFace {
		attrs = append(attrs,
			slog.Float64("confidence", event.Confidence),
			slog.String("tier", event.Tier),
		)
	}
	if event.Reason != "" {
		attrs = append(attrs, slog.String("reason", event.Reason))
	}
	t.logger.InfoContext(ctx, "auth_event", attrs...)

	if err := t.store.Create(ctx, &event); err != nil {
		t.logger.ErrorContext(ctx, "failed to persist audit event",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()),
		)
		return err
	}

	return nil
}

// NoOpRecorder is a recorder that does nothing (for testing or when the
// audit trail is disabled).
type NoOpRecorder struct{}

// Record does nothing and returns nil
func (NoOpRecorder) Record(_ context.Context, _ domain.AuthEvent) error {
	return nil
}
