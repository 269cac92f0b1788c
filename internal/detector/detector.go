// Package detector defines the boundary to the external vision pipeline
// that turns a face image into a 128-dimension embedding. The matching
// core never sees images; everything behind this interface is a
// collaborator.
package detector

import (
	"context"

	"github.com/lanternsec/facegate/internal/domain"
)

// Capture is one embedding extracted from a submitted image, together
// with whatever the pipeline could tell us about the shot.
type Capture struct {
	// Embedding is the raw 128-dimension feature vector. Structural
	// validation happens downstream, not here.
	Embedding []float64 `json:"embedding"`

	// CaptureType is the gesture the pipeline recognized, already mapped
	// onto the closed set. Defaults to normal when the pipeline does not
	// classify gestures.
	CaptureType domain.CaptureType `json:"capture_type"`

	// QualityHint is the pipeline's own estimate of capture quality in
	// [0, 1], or 0 when it offers none. Stored sample quality treats it
	// as a floor, never a penalty.
	QualityHint float64 `json:"quality_hint"`
}

// Provider extracts the embedding for the single face in an image.
// Implementations must reject images containing zero or multiple faces
// with the corresponding domain errors.
type Provider interface {
	ExtractEmbedding(ctx context.Context, image []byte) (*Capture, error)

	// Name identifies the provider in logs and health output.
	Name() string
}
