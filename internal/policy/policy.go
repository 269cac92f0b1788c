// Package policy centralizes the tunable thresholds behind face matching:
// similarity cutoffs, metric weights, validation profiles and enrollment
// rules. Defaults ship embedded in the binary; a deployment can override
// them with a YAML file named by FACEGATE_POLICY_FILE.
package policy

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lanternsec/facegate/internal/embedding"
)

//go:embed policy.yaml
var defaultPolicy []byte

// EnvOverride names the environment variable holding the path of an
// optional policy override file.
const EnvOverride = "FACEGATE_POLICY_FILE"

type Policy struct {
	Match      MatchPolicy      `yaml:"match"`
	Enroll     EnrollPolicy     `yaml:"enroll"`
	Quality    QualityPolicy    `yaml:"quality"`
	Validation ValidationPolicy `yaml:"validation"`
}

// MatchPolicy controls the authentication decision.
type MatchPolicy struct {
	// SimilarityThreshold is the minimum composite similarity for a
	// positive match.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// HighTierThreshold separates high-confidence matches from medium
	// ones. Matches at or above it are tier "high".
	HighTierThreshold float64 `yaml:"high_tier_threshold"`

	Weights embedding.Weights `yaml:"weights"`
}

// EnrollPolicy controls how enrollment batches are curated.
type EnrollPolicy struct {
	// MinSamples is the minimum number of accepted samples required to
	// build an enrollment set. Below it the whole batch is rejected.
	MinSamples int `yaml:"min_samples"`

	// MaxBatch caps the number of samples accepted in one request.
	MaxBatch int `yaml:"max_batch"`

	// MinQuality is the lowest quality score a sample may carry and
	// still be stored.
	MinQuality float64 `yaml:"min_quality"`

	// DuplicateGuard enables the cross-account duplicate check at
	// enrollment time.
	DuplicateGuard bool `yaml:"duplicate_guard"`

	// DuplicateThreshold is the similarity above which a new sample is
	// considered the same face as one enrolled under another account.
	DuplicateThreshold float64 `yaml:"duplicate_threshold"`
}

type QualityPolicy struct {
	MagnitudeNorm   float64 `yaml:"magnitude_norm"`
	SpreadNorm      float64 `yaml:"spread_norm"`
	MagnitudeWeight float64 `yaml:"magnitude_weight"`
	SpreadWeight    float64 `yaml:"spread_weight"`
}

type ValidationPolicy struct {
	Stored  ProfilePolicy `yaml:"stored"`
	Capture ProfilePolicy `yaml:"capture"`
}

type ProfilePolicy struct {
	MinMagnitude  float64 `yaml:"min_magnitude"`
	MinDistinct   int     `yaml:"min_distinct"`
	MaxComponent  float64 `yaml:"max_component"`
	RoundDecimals int     `yaml:"round_decimals"`
}

// Load parses the embedded defaults and, when EnvOverride names a file,
// applies that file on top of them.
func Load() (*Policy, error) {
	p := &Policy{}
	if err := yaml.Unmarshal(defaultPolicy, p); err != nil {
		return nil, fmt.Errorf("parse embedded policy: %w", err)
	}

	if path := os.Getenv(EnvOverride); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read policy override %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("parse policy override %s: %w", path, err)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate rejects policies that would make matching meaningless.
func (p *Policy) Validate() error {
	if p.Match.SimilarityThreshold < 0 || p.Match.SimilarityThreshold > 1 {
		return fmt.Errorf("match.similarity_threshold must be in [0, 1], got %v", p.Match.SimilarityThreshold)
	}
	if p.Match.HighTierThreshold < p.Match.SimilarityThreshold || p.Match.HighTierThreshold > 1 {
		return fmt.Errorf("match.high_tier_threshold must be in [%v, 1], got %v",
			p.Match.SimilarityThreshold, p.Match.HighTierThreshold)
	}

	w := p.Match.Weights
	if sum := w.Cosine + w.Euclidean + w.Pearson; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("match.weights must sum to 1, got %v", sum)
	}

	if p.Enroll.MinSamples < 2 {
		return fmt.Errorf("enroll.min_samples must be at least 2, got %d", p.Enroll.MinSamples)
	}
	if p.Enroll.MaxBatch < p.Enroll.MinSamples {
		return fmt.Errorf("enroll.max_batch must be at least enroll.min_samples, got %d", p.Enroll.MaxBatch)
	}
	if p.Enroll.DuplicateThreshold <= p.Match.SimilarityThreshold {
		return fmt.Errorf("enroll.duplicate_threshold must exceed match.similarity_threshold, got %v",
			p.Enroll.DuplicateThreshold)
	}

	return nil
}

// StoredProfile converts the stored-reference validation block into an
// embedding profile.
func (p *Policy) StoredProfile() embedding.Profile {
	return profileFrom(p.Validation.Stored)
}

// CaptureProfile converts the live-capture validation block into an
// embedding profile.
func (p *Policy) CaptureProfile() embedding.Profile {
	return profileFrom(p.Validation.Capture)
}

// QualityConfig converts the quality block into scorer constants.
func (p *Policy) QualityConfig() embedding.QualityConfig {
	return embedding.QualityConfig{
		MagnitudeNorm:   p.Quality.MagnitudeNorm,
		SpreadNorm:      p.Quality.SpreadNorm,
		MagnitudeWeight: p.Quality.MagnitudeWeight,
		SpreadWeight:    p.Quality.SpreadWeight,
	}
}

func profileFrom(pp ProfilePolicy) embedding.Profile {
	return embedding.Profile{
		MinMagnitude:  pp.MinMagnitude,
		MinDistinct:   pp.MinDistinct,
		MaxComponent:  pp.MaxComponent,
		RoundDecimals: pp.RoundDecimals,
	}
}
