package embedding

import (
	"math"
)

// QualityConfig holds the normalization constants for the enrollment
// quality score. The defaults were tuned against embeddings produced by
// the detection pipeline; a unit-length vector with healthy component
// spread lands around 0.9.
type QualityConfig struct {
	// MagnitudeNorm divides the vector magnitude before weighting.
	MagnitudeNorm float64

	// SpreadNorm divides the component standard deviation before
	// weighting.
	SpreadNorm float64

	MagnitudeWeight float64
	SpreadWeight    float64
}

// DefaultQualityConfig returns the production quality constants.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		MagnitudeNorm:   1.0,
		SpreadNorm:      0.1,
		MagnitudeWeight: 0.6,
		SpreadWeight:    0.4,
	}
}

// QualityScorer estimates how usable a validated embedding is as a stored
// reference. Magnitude indicates signal strength, component spread
// indicates information content; both are normalized, weighted and capped
// at 1.
type QualityScorer struct {
	cfg QualityConfig
}

// NewQualityScorer creates a scorer with the given constants.
func NewQualityScorer(cfg QualityConfig) *QualityScorer {
	return &QualityScorer{cfg: cfg}
}

// Score returns the intrinsic quality of the embedding in [0, 1].
func (s *QualityScorer) Score(v []float64) float64 {
	mag := Magnitude(v) / s.cfg.MagnitudeNorm
	spread := math.Sqrt(populationVariance(v)) / s.cfg.SpreadNorm

	return math.Min(1, mag*s.cfg.MagnitudeWeight+spread*s.cfg.SpreadWeight)
}

// ScoreWithHint combines the intrinsic score with a quality value declared
// by the capture source. The declared hint acts as a floor, never a
// penalty: a sample is stored with the better of the two figures.
func (s *QualityScorer) ScoreWithHint(v []float64, hint float64) float64 {
	return math.Max(s.Score(v), clamp01(hint))
}

func populationVariance(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}

	var mean float64
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))

	var sum float64
	for _, x := range v {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(v))
}
