package httpvision

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"

	"github.com/lanternsec/facegate/internal/detector"
	"github.com/lanternsec/facegate/internal/domain"
)

const (
	// minFaceArea is the minimum face area (in pixels²) for a usable crop
	minFaceArea = 2500 // 50x50 pixels
	// maxFaceArea is used for quality scaling
	maxFaceArea = 250000 // 500x500 pixels
)

// Provider implements detector.Provider against an HTTP vision service.
type Provider struct {
	client *Client
}

// NewProvider creates a vision service backed provider.
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// ExtractEmbedding sends the image to the vision service and returns the
// single face's embedding. Zero or multiple faces are rejected.
func (p *Provider) ExtractEmbedding(ctx context.Context, image []byte) (*detector.Capture, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidImage
	}

	imageBase64 := base64.StdEncoding.EncodeToString(image)

	resp, err := p.client.Embed(ctx, imageBase64)
	if err != nil {
		return nil, fmt.Errorf("extract embedding: %w", err)
	}

	switch len(resp.Results) {
	case 0:
		return nil, domain.ErrNoFaceDetected
	case 1:
	default:
		return nil, domain.ErrMultipleFaces
	}

	result := resp.Results[0]
	captureType, _ := domain.ParseCaptureType(result.Gesture)

	quality := result.Quality
	if quality <= 0 {
		// Older service versions report no quality; estimate from the
		// crop area, larger faces yield cleaner embeddings.
		quality = estimateQuality(float64(result.FacialArea.W * result.FacialArea.H))
	}

	return &detector.Capture{
		Embedding:   result.Embedding,
		CaptureType: captureType,
		QualityHint: quality,
	}, nil
}

func (p *Provider) Name() string {
	return "httpvision"
}

func estimateQuality(faceArea float64) float64 {
	if faceArea < minFaceArea {
		return 0.4
	}
	normalized := math.Min(1.0, (faceArea-minFaceArea)/(maxFaceArea-minFaceArea))
	return 0.6 + normalized*0.35
}

var _ detector.Provider = (*Provider)(nil)
