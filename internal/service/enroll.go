package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lanternsec/facegate/internal/detector"
	"github.com/lanternsec/facegate/internal/domain"
	"github.com/lanternsec/facegate/internal/embedding"
	"github.com/lanternsec/facegate/internal/enroll"
	"github.com/lanternsec/facegate/internal/faceindex"
	"github.com/lanternsec/facegate/internal/metrics"
	"github.com/lanternsec/facegate/internal/policy"
	"github.com/lanternsec/facegate/internal/repository"
)

// EnrollService curates enrollment batches, guards against the same face
// landing in two accounts, and keeps the duplicate index in sync with
// what is persisted.
type EnrollService struct {
	users    repository.UserRepositoryInterface
	faces    repository.FaceRepositoryInterface
	curator  *enroll.Curator
	engine   *embedding.Engine
	index    *faceindex.Index
	provider detector.Provider
	rules    policy.EnrollPolicy
}

func NewEnrollService(
	users repository.UserRepositoryInterface,
	faces repository.FaceRepositoryInterface,
	curator *enroll.Curator,
	index *faceindex.Index,
	provider detector.Provider,
	pol *policy.Policy,
) *EnrollService {
	return &EnrollService{
		users:    users,
		faces:    faces,
		curator:  curator,
		engine:   embedding.NewEngine(pol.Match.Weights),
		index:    index,
		provider: provider,
		rules:    pol.Enroll,
	}
}

// Enroll runs one enrollment batch for the user: duplicate guard first,
// then curation, then index refresh. The previous enrollment set
// survives any failure.
func (s *EnrollService) Enroll(ctx context.Context, userID uuid.UUID, samples []enroll.Sample) (*domain.EnrollmentReport, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrForbidden.WithError(fmt.Errorf("account %s is inactive", userID))
	}

	if s.rules.DuplicateGuard {
		if err := s.checkDuplicates(ctx, userID, samples); err != nil {
			metrics.RecordEnrollAttempt(metrics.OutcomeDuplicate)
			return nil, err
		}
	}

	report, err := s.curator.Curate(ctx, userID, samples)
	if report != nil {
		for _, rej := range report.Rejected {
			metrics.RecordSampleRejected(rej.Reason)
		}
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEnrollmentRejected):
			metrics.RecordEnrollAttempt(metrics.OutcomeTooFew)
		case errors.Is(err, domain.ErrPersistenceFailure):
			metrics.RecordEnrollAttempt(metrics.OutcomePersistErr)
		default:
			metrics.RecordEnrollAttempt(metrics.OutcomeError)
		}
		return report, err
	}

	metrics.RecordEnrollAttempt(metrics.OutcomeAccepted)
	metrics.RecordSamplesAccepted(report.Persisted)
	s.refreshIndex(ctx)

	return report, nil
}

// EnrollImages extracts embeddings from submitted images and enrolls
// them. A single unusable image fails the whole request so the client
// can fix the capture set and retry.
func (s *EnrollService) EnrollImages(ctx context.Context, userID uuid.UUID, images [][]byte) (*domain.EnrollmentReport, error) {
	if len(images) == 0 {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("no images submitted"))
	}

	samples := make([]enroll.Sample, 0, len(images))
	for i, image := range images {
		capture, err := s.provider.ExtractEmbedding(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}

		samples = append(samples, enroll.Sample{
			Embedding:   capture.Embedding,
			CaptureType: capture.CaptureType,
			QualityHint: capture.QualityHint,
		})
	}

	return s.Enroll(ctx, userID, samples)
}

// Status returns the user's current enrollment set.
func (s *EnrollService) Status(ctx context.Context, userID uuid.UUID) ([]domain.Face, error) {
	return s.faces.ListByUser(ctx, userID)
}

// Delete removes every enrolled face of the user.
func (s *EnrollService) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.faces.DeleteByUser(ctx, userID); err != nil {
		return err
	}

	s.index.RemoveUser(userID)
	metrics.UpdateIndexEntries(s.index.Count())

	return nil
}

// checkDuplicates rejects the batch when any sample is already enrolled
// under another account. The index narrows the search; the verdict
// always comes from an exact comparison against the suspect's stored
// set.
func (s *EnrollService) checkDuplicates(ctx context.Context, userID uuid.UUID, samples []enroll.Sample) error {
	for _, sample := range samples {
		hit, ok := s.index.Nearest(sample.Embedding, userID)
		if !ok || hit.Similarity < s.rules.DuplicateThreshold {
			continue
		}

		suspect, err := s.faces.ListByUser(ctx, hit.UserID)
		if err != nil {
			return domain.ErrInternal.WithError(err)
		}

		for i := range suspect {
			if s.engine.Similarity(sample.Embedding, suspect[i].Embedding) >= s.rules.DuplicateThreshold {
				metrics.RecordDuplicateCaught()
				return domain.ErrDuplicateBiometric
			}
		}
	}

	return nil
}

// refreshIndex rebuilds the duplicate index from what is actually
// persisted. Best effort: a stale index weakens the guard but never
// blocks a finished enrollment.
func (s *EnrollService) refreshIndex(ctx context.Context) {
	all, err := s.faces.ListAll(ctx)
	if err != nil {
		return
	}

	s.index.Rebuild(all)
	metrics.UpdateEnrolledFaces(len(all))
	metrics.UpdateIndexEntries(s.index.Count())
}
