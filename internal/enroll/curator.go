// Package enroll curates batches of candidate face samples into a user's
// stored enrollment set.
package enroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lanternsec/facegate/internal/domain"
	"github.com/lanternsec/facegate/internal/embedding"
	"github.com/lanternsec/facegate/internal/policy"
)

// ReasonLowQuality is reported for samples that pass structural validation
// but score below the policy quality floor.
const ReasonLowQuality = "quality below threshold"

// FaceStore persists enrollment sets. ReplaceAll swaps the user's stored
// samples for the given ones in a single transaction and reports how many
// rows were written.
type FaceStore interface {
	ReplaceAll(ctx context.Context, userID uuid.UUID, faces []domain.Face) (int, error)
}

// Sample is one candidate reference embedding submitted for enrollment.
// CaptureType has already been mapped onto the closed set at the API
// boundary.
type Sample struct {
	Embedding   []float64
	CaptureType domain.CaptureType
	QualityHint float64
	Metadata    map[string]interface{}
}

// Curator validates and scores submitted samples, rejects the batch when
// too few survive, and replaces the user's stored set with the survivors.
type Curator struct {
	store   FaceStore
	profile embedding.Profile
	scorer  *embedding.QualityScorer
	rules   policy.EnrollPolicy
}

// NewCurator builds a curator from the active policy.
func NewCurator(store FaceStore, pol *policy.Policy) *Curator {
	return &Curator{
		store:   store,
		profile: pol.StoredProfile(),
		scorer:  embedding.NewQualityScorer(pol.QualityConfig()),
		rules:   pol.Enroll,
	}
}

// Curate processes one enrollment batch for the user. Samples are judged
// independently and rejections keep the index they had in the submitted
// batch. When fewer than the policy minimum survive, nothing is persisted
// and the report carries every rejection alongside ErrEnrollmentRejected.
// On success the user's previous set is replaced atomically.
func (c *Curator) Curate(ctx context.Context, userID uuid.UUID, samples []Sample) (*domain.EnrollmentReport, error) {
	report := &domain.EnrollmentReport{
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if len(samples) > c.rules.MaxBatch {
		return report, domain.ErrValidationFailed.WithError(
			fmt.Errorf("batch of %d samples exceeds limit of %d", len(samples), c.rules.MaxBatch))
	}

	accepted := make([]domain.Face, 0, len(samples))
	for i, s := range samples {
		captureType := s.CaptureType
		if captureType == "" {
			captureType = domain.CaptureNormal
		}

		assessment := c.profile.Validate(s.Embedding)
		if !assessment.Valid {
			report.Rejected = append(report.Rejected, domain.RejectedSample{
				Index:       i,
				Reason:      assessment.Reason,
				CaptureType: captureType,
			})
			continue
		}

		quality := c.scorer.ScoreWithHint(s.Embedding, s.QualityHint)
		if quality < c.rules.MinQuality {
			report.Rejected = append(report.Rejected, domain.RejectedSample{
				Index:       i,
				Reason:      ReasonLowQuality,
				CaptureType: captureType,
			})
			continue
		}

		accepted = append(accepted, domain.Face{
			UserID:      userID,
			Embedding:   s.Embedding,
			CaptureType: captureType,
			Quality:     quality,
			SampleIdx:   i,
			Metadata:    s.Metadata,
		})
	}

	report.Accepted = len(accepted)
	if len(accepted) < c.rules.MinSamples {
		return report, domain.ErrEnrollmentRejected.WithError(
			fmt.Errorf("%d of %d samples accepted, need %d", len(accepted), len(samples), c.rules.MinSamples))
	}

	persisted, err := c.store.ReplaceAll(ctx, userID, accepted)
	if err != nil {
		return report, domain.ErrPersistenceFailure.WithError(err)
	}
	if persisted == 0 {
		return report, domain.ErrPersistenceFailure.WithError(
			fmt.Errorf("no samples persisted for user %s", userID))
	}

	report.Persisted = persisted
	return report, nil
}
