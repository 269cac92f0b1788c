// Package face wires the configured capture pipeline into a
// detector.Provider.
package face

import (
	"context"
	"fmt"

	"github.com/lanternsec/facegate/internal/config"
	"github.com/lanternsec/facegate/internal/detector"
	"github.com/lanternsec/facegate/internal/detector/httpvision"
	"github.com/lanternsec/facegate/internal/detector/mock"
	"github.com/lanternsec/facegate/internal/detector/rekognition"
)

// ProviderType defines supported embedding provider types
type ProviderType string

const (
	// ProviderTypeHTTPVision is the HTTP vision service provider
	ProviderTypeHTTPVision ProviderType = "httpvision"
	// ProviderTypeMock is the deterministic in-process provider (dev/test)
	ProviderTypeMock ProviderType = "mock"
)

// NewProvider creates a detector.Provider based on configuration.
// When cfg.RekognitionGate is set the base provider is wrapped with an
// AWS Rekognition capture quality gate.
//
// Environment variables:
//   - DETECTOR_TYPE: "httpvision" or "mock" (default: "httpvision")
//   - VISION_URL: vision service URL (default: "http://localhost:5000")
//   - REKOGNITION_GATE: "true" to screen captures with AWS Rekognition
//   - AWS_REGION: AWS region for the gate (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: via AWS SDK credential chain
func NewProvider(ctx context.Context, cfg *config.Config) (detector.Provider, error) {
	var base detector.Provider

	switch ProviderType(cfg.DetectorType) {
	case ProviderTypeHTTPVision, "":
		base = createHTTPVisionProvider(cfg)

	case ProviderTypeMock:
		base = mock.New()

	default:
		return nil, fmt.Errorf("unknown detector type: %s (supported: %s, %s)",
			cfg.DetectorType, ProviderTypeHTTPVision, ProviderTypeMock)
	}

	if !cfg.RekognitionGate {
		return base, nil
	}

	gateConfig := rekognition.DefaultConfig()
	gateConfig.Region = cfg.AWSRegion

	api, err := rekognition.NewDetectFacesAPI(ctx, gateConfig)
	if err != nil {
		return nil, fmt.Errorf("create rekognition gate: %w", err)
	}

	return rekognition.NewGate(api, base, gateConfig), nil
}

func createHTTPVisionProvider(cfg *config.Config) detector.Provider {
	visionConfig := httpvision.DefaultConfig()
	if cfg.VisionURL != "" {
		visionConfig.BaseURL = cfg.VisionURL
	}

	return httpvision.NewProvider(visionConfig)
}
