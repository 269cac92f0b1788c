package domain

import (
	"time"

	"github.com/google/uuid"
)

// CaptureType names the gesture the user performed for one enrollment
// capture. The set is closed: freeform tags from clients are mapped onto
// it at the API boundary and never reach persistence.
type CaptureType string

const (
	CaptureNormal    CaptureType = "normal"
	CaptureSmile     CaptureType = "smile"
	CaptureNod       CaptureType = "nod"
	CaptureHeadRaise CaptureType = "head_raise"
)

// ParseCaptureType maps a client-supplied tag onto the closed capture set.
// An empty tag defaults to CaptureNormal; anything else unknown reports
// false so the boundary can reject it.
func ParseCaptureType(s string) (CaptureType, bool) {
	switch CaptureType(s) {
	case "":
		return CaptureNormal, true
	case CaptureNormal, CaptureSmile, CaptureNod, CaptureHeadRaise:
		return CaptureType(s), true
	default:
		return CaptureNormal, false
	}
}

// Face is one enrolled reference sample for a user. A user's enrollment set
// holds several faces; authentication compares a live capture against all
// of them.
type Face struct {
	ID          uuid.UUID              `json:"id"`
	UserID      uuid.UUID              `json:"-"`
	Embedding   []float64              `json:"-"`
	CaptureType CaptureType            `json:"capture_type"`
	Quality     float64                `json:"quality"`
	SampleIdx   int                    `json:"sample_idx"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// RejectedSample records one submitted sample that failed validation during
// enrollment, keyed by its position in the submitted batch.
type RejectedSample struct {
	Index       int         `json:"index"`
	Reason      string      `json:"reason"`
	CaptureType CaptureType `json:"capture_type"`
}

// EnrollmentReport summarizes the outcome of one enrollment request: how
// many samples were accepted and persisted, and why the rest were turned
// away.
type EnrollmentReport struct {
	UserID    uuid.UUID        `json:"user_id"`
	Accepted  int              `json:"accepted"`
	Persisted int              `json:"persisted"`
	Rejected  []RejectedSample `json:"rejected,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
