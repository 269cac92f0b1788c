package domain

import (
	"github.com/google/uuid"
)

// Confidence tiers assigned to a successful face match.
const (
	TierHigh   = "high"
	TierMedium = "medium"
)

// ScoreBreakdown carries every similarity metric computed for the winning
// comparison so the decision can be audited after the fact.
type ScoreBreakdown struct {
	Cosine    float64 `json:"cosine"`
	Euclidean float64 `json:"euclidean"`
	Pearson   float64 `json:"pearson"`
	Composite float64 `json:"composite"`
}

// MatchResult is the outcome of comparing one probe embedding against a
// candidate population. UserID identifies the owner of the winning face
// and stays zero when unmatched; FaceID and Breakdown are only meaningful
// when Matched is true; Reason explains a negative outcome.
type MatchResult struct {
	Matched    bool           `json:"matched"`
	UserID     uuid.UUID      `json:"user_id,omitempty"`
	FaceID     uuid.UUID      `json:"face_id,omitempty"`
	SampleIdx  int            `json:"sample_idx"`
	Similarity float64        `json:"similarity"`
	Tier       string         `json:"tier,omitempty"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
	Compared   int            `json:"compared"`
	Skipped    int            `json:"skipped"`
	Reason     string         `json:"reason,omitempty"`
}
