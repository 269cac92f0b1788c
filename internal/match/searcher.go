// Package match decides which enrolled identity, if any, a live probe
// embedding belongs to by scanning the candidate population.
package match

import (
	"fmt"

	"github.com/lanternsec/facegate/internal/domain"
	"github.com/lanternsec/facegate/internal/embedding"
	"github.com/lanternsec/facegate/internal/policy"
)

// Reasons attached to negative match results.
const (
	ReasonBelowThreshold    = "no candidate reached the similarity threshold"
	ReasonNoValidCandidates = "no valid candidates in the reference set"
)

// Searcher compares a probe against every enrolled sample and picks the
// best one. It holds no mutable state: the same probe and population
// always produce the same result, regardless of callers racing.
type Searcher struct {
	engine  *embedding.Engine
	capture embedding.Profile
	stored  embedding.Profile
	rules   policy.MatchPolicy
}

// NewSearcher builds a searcher from the active policy.
func NewSearcher(pol *policy.Policy) *Searcher {
	return &Searcher{
		engine:  embedding.NewEngine(pol.Match.Weights),
		capture: pol.CaptureProfile(),
		stored:  pol.StoredProfile(),
		rules:   pol.Match,
	}
}

// Search validates the probe, scans the population linearly and returns
// the match decision. Stored candidates that fail validation are skipped
// and counted rather than aborting the scan; ties on similarity keep the
// earliest candidate. Errors are reserved for unusable probes and an empty
// population, a probe that simply matches nothing yields a negative
// result.
func (s *Searcher) Search(probe []float64, population []domain.Face) (*domain.MatchResult, error) {
	if a := s.capture.Validate(probe); !a.Valid {
		if a.Reason == embedding.ReasonWrongDimension {
			return nil, domain.ErrMalformedEmbedding
		}
		return nil, domain.ErrDegenerateEmbedding.WithError(
			fmt.Errorf("probe rejected: %s", a.Reason))
	}

	if len(population) == 0 {
		return nil, domain.ErrNoFacesEnrolled
	}

	result := &domain.MatchResult{}

	var (
		best      embedding.Scores
		bestFace  *domain.Face
		bestIdx   int
		foundBest bool
	)

	for i := range population {
		cand := &population[i]
		if a := s.stored.Validate(cand.Embedding); !a.Valid {
			result.Skipped++
			continue
		}

		scores := s.engine.Score(probe, cand.Embedding)
		result.Compared++

		if !foundBest || scores.Composite > best.Composite {
			best = scores
			bestFace = cand
			bestIdx = cand.SampleIdx
			foundBest = true
		}
	}

	if !foundBest {
		result.Reason = ReasonNoValidCandidates
		return result, nil
	}

	result.Similarity = best.Composite
	result.Breakdown = domain.ScoreBreakdown{
		Cosine:    best.Cosine,
		Euclidean: best.Euclidean,
		Pearson:   best.Pearson,
		Composite: best.Composite,
	}

	if best.Composite < s.rules.SimilarityThreshold {
		result.Reason = ReasonBelowThreshold
		return result, nil
	}

	result.Matched = true
	result.UserID = bestFace.UserID
	result.FaceID = bestFace.ID
	result.SampleIdx = bestIdx
	result.Tier = domain.TierMedium
	if best.Composite >= s.rules.HighTierThreshold {
		result.Tier = domain.TierHigh
	}
	return result, nil
}
