// Package mock provides a deterministic detector.Provider for tests and
// local development. The embedding is derived from the image bytes, so the
// same picture always produces the same vector without any external
// service.
package mock

import (
	"context"
	"crypto/sha256"
	"math"

	"github.com/lanternsec/facegate/internal/detector"
	"github.com/lanternsec/facegate/internal/domain"
	"github.com/lanternsec/facegate/internal/embedding"
)

// minImageSize filters out payloads too small to be a real photo.
const minImageSize = 1000

type Provider struct{}

func New() *Provider {
	return &Provider{}
}

// ExtractEmbedding hashes the image and expands the digest into a unit
// vector of embedding.Dim components.
func (p *Provider) ExtractEmbedding(ctx context.Context, image []byte) (*detector.Capture, error) {
	if len(image) < minImageSize {
		return nil, domain.ErrInvalidImage
	}

	return &detector.Capture{
		Embedding:   generateEmbedding(image),
		CaptureType: domain.CaptureNormal,
		QualityHint: 0.95,
	}, nil
}

func (p *Provider) Name() string {
	return "mock"
}

func generateEmbedding(image []byte) []float64 {
	hash := sha256.Sum256(image)
	vec := make([]float64, embedding.Dim)
	hashLen := len(hash)

	for i := 0; i < embedding.Dim; i++ {
		idx := i % hashLen
		vec[i] = (float64(hash[idx])/255.0)*2 - 1
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	for i := range vec {
		vec[i] /= norm
	}

	return vec
}

var _ detector.Provider = (*Provider)(nil)
