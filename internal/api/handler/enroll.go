package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lanternsec/facegate/internal/api/middleware"
	"github.com/lanternsec/facegate/internal/domain"
	"github.com/lanternsec/facegate/internal/enroll"
)

// EnrollService interface for the service
type EnrollService interface {
	Enroll(ctx context.Context, userID uuid.UUID, samples []enroll.Sample) (*domain.EnrollmentReport, error)
	EnrollImages(ctx context.Context, userID uuid.UUID, images [][]byte) (*domain.EnrollmentReport, error)
	Status(ctx context.Context, userID uuid.UUID) ([]domain.Face, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// EnrollHandler handles enrollment requests
type EnrollHandler struct {
	service EnrollService
	logger  *slog.Logger
}

func NewEnrollHandler(service EnrollService, logger *slog.Logger) *EnrollHandler {
	return &EnrollHandler{
		service: service,
		logger:  logger,
	}
}

// EnrollSampleRequest is one candidate sample in an enrollment batch
type EnrollSampleRequest struct {
	Embedding   []float64              `json:"embedding"`
	CaptureType string                 `json:"capture_type,omitempty"`
	QualityHint float64                `json:"quality_hint,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// EnrollRequest is the body of POST /v1/faces/enroll
type EnrollRequest struct {
	Samples []EnrollSampleRequest `json:"samples"`
}

// StatusResponse is the body of GET /v1/faces
type StatusResponse struct {
	Faces []domain.Face `json:"faces"`
	Count int           `json:"count"`
}

// Enroll POST /v1/faces/enroll - submit an enrollment batch of embeddings
func (h *EnrollHandler) Enroll(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if len(req.Samples) == 0 {
		return domain.ErrValidationFailed.WithError(errors.New("samples are required"))
	}

	samples := make([]enroll.Sample, 0, len(req.Samples))
	for i, s := range req.Samples {
		captureType, ok := domain.ParseCaptureType(s.CaptureType)
		if !ok {
			return domain.ErrValidationFailed.WithError(
				fmt.Errorf("sample %d: unknown capture_type %q", i, s.CaptureType))
		}

		samples = append(samples, enroll.Sample{
			Embedding:   s.Embedding,
			CaptureType: captureType,
			QualityHint: s.QualityHint,
			Metadata:    s.Metadata,
		})
	}

	report, err := h.service.Enroll(c.Context(), userID, samples)
	if err != nil {
		// A rejected batch still carries the per-sample reasons; surface
		// them alongside the error status.
		if report != nil && errors.Is(err, domain.ErrEnrollmentRejected) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    domain.ErrEnrollmentRejected.Code,
					"message": domain.ErrEnrollmentRejected.Message,
				},
				"report": report,
			})
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// EnrollImages POST /v1/faces/enroll/images - submit an enrollment batch
// of captured images
func (h *EnrollHandler) EnrollImages(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	images, err := extractImages(c, "images")
	if err != nil {
		return err
	}

	report, err := h.service.EnrollImages(c.Context(), userID, images)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(report)
}

// Status GET /v1/faces - list the authenticated user's enrollment set
func (h *EnrollHandler) Status(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	faces, err := h.service.Status(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(StatusResponse{
		Faces: faces,
		Count: len(faces),
	})
}

// Delete DELETE /v1/faces - remove the authenticated user's enrollment set
func (h *EnrollHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), userID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
