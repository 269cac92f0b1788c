package embedding

import (
	"math"
)

// Rejection reasons reported by Profile.Validate. Callers persist these
// verbatim in enrollment rejection records, so the strings are part of the
// API surface and must stay stable.
const (
	ReasonWrongDimension    = "wrong dimension"
	ReasonNearZeroMagnitude = "near-zero magnitude"
	ReasonLowVariability    = "insufficient variability"
	ReasonExtremeValues     = "extreme values present"
)

// Profile holds the structural thresholds applied when validating an
// embedding. Enrollment and authentication use different profiles: stored
// references must clear a stricter magnitude floor than live captures.
type Profile struct {
	// MinMagnitude is the Euclidean norm below which a vector is treated
	// as near-zero noise.
	MinMagnitude float64

	// MinDistinct is the minimum number of distinct component values,
	// counted after rounding to RoundDecimals places. Vectors with fewer
	// are repeated-value artifacts, not real face signatures.
	MinDistinct int

	// MaxComponent bounds the absolute value of every component.
	MaxComponent float64

	// RoundDecimals is the precision used for the distinct-value count.
	RoundDecimals int
}

// StoredProfile returns the validation profile for reference embeddings
// accepted into a user's enrollment set.
func StoredProfile() Profile {
	return Profile{
		MinMagnitude:  0.01,
		MinDistinct:   10,
		MaxComponent:  10.0,
		RoundDecimals: 4,
	}
}

// CaptureProfile returns the validation profile for live authentication
// probes. The magnitude floor is looser than StoredProfile so that dim or
// noisy captures still reach the matching stage instead of being rejected
// at the door.
func CaptureProfile() Profile {
	return Profile{
		MinMagnitude:  0.001,
		MinDistinct:   10,
		MaxComponent:  10.0,
		RoundDecimals: 4,
	}
}

// Assessment is the outcome of validating one embedding. Score is filled in
// by QualityScorer for vectors that pass validation; it stays zero for
// rejected ones.
type Assessment struct {
	Valid  bool    `json:"valid"`
	Reason string  `json:"reason,omitempty"`
	Score  float64 `json:"score"`
}

// Validate runs the structural checks against the profile in a fixed order
// and stops at the first failure: dimension, magnitude, variability, then
// component range. A nil vector fails the dimension check.
func (p Profile) Validate(v []float64) Assessment {
	if len(v) != Dim {
		return Assessment{Reason: ReasonWrongDimension}
	}

	if Magnitude(v) < p.MinMagnitude {
		return Assessment{Reason: ReasonNearZeroMagnitude}
	}

	if p.distinctValues(v) < p.MinDistinct {
		return Assessment{Reason: ReasonLowVariability}
	}

	for _, x := range v {
		// NaN compares false against every bound, so it needs its own
		// clause to land in the extreme bucket.
		if math.IsNaN(x) || math.Abs(x) > p.MaxComponent {
			return Assessment{Reason: ReasonExtremeValues}
		}
	}

	return Assessment{Valid: true}
}

func (p Profile) distinctValues(v []float64) int {
	scale := math.Pow(10, float64(p.RoundDecimals))
	seen := make(map[float64]struct{}, len(v))
	for _, x := range v {
		seen[math.Round(x*scale)/scale] = struct{}{}
	}
	return len(seen)
}
