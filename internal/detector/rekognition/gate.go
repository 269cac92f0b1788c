// Package rekognition is a capture quality gate in front of another
// embedding provider. Rekognition never produces the embedding itself;
// it only vets the shot — single face, acceptable pose, enough
// brightness and sharpness — before the inner provider runs.
package rekognition

import (
	"context"
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/lanternsec/facegate/internal/detector"
	"github.com/lanternsec/facegate/internal/domain"
)

const (
	// maxImageSize is the maximum image size accepted by Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
)

// Gate implements detector.Provider by screening the image with
// Rekognition DetectFaces and delegating extraction to the inner
// provider when the capture passes.
type Gate struct {
	api    DetectFacesAPI
	inner  detector.Provider
	config Config
}

// NewGate wraps inner with a Rekognition capture check.
func NewGate(api DetectFacesAPI, inner detector.Provider, config Config) *Gate {
	return &Gate{
		api:    api,
		inner:  inner,
		config: config,
	}
}

func validateImage(image []byte) error {
	if len(image) == 0 {
		return domain.ErrInvalidImage
	}
	if len(image) < minImageSize {
		return domain.ErrInvalidImage.WithError(fmt.Errorf("image too small (%d bytes, minimum %d)", len(image), minImageSize))
	}
	if len(image) > maxImageSize {
		return domain.ErrInvalidImage.WithError(fmt.Errorf("image too large (%d bytes, maximum %d)", len(image), maxImageSize))
	}
	return nil
}

// ExtractEmbedding runs the capture gate and, on success, the inner
// provider. The gate's quality estimate is forwarded as a floor on the
// inner provider's own hint.
func (g *Gate) ExtractEmbedding(ctx context.Context, image []byte) (*detector.Capture, error) {
	if err := validateImage(image); err != nil {
		return nil, err
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: image,
		},
		Attributes: []types.Attribute{types.AttributeAll},
	}

	output, err := g.api.DetectFaces(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", translateAPIError(err))
	}

	switch len(output.FaceDetails) {
	case 0:
		return nil, domain.ErrNoFaceDetected
	case 1:
	default:
		return nil, domain.ErrMultipleFaces
	}

	detail := output.FaceDetails[0]

	if !poseAcceptable(detail.Pose, g.config.MaxPoseDegrees) {
		return nil, domain.ErrLowQualityImage.WithError(fmt.Errorf("face pose exceeds %.0f degrees", g.config.MaxPoseDegrees))
	}

	quality := calculateQualityScore(detail.Quality)
	if quality < g.config.MinQuality {
		return nil, domain.ErrLowQualityImage.WithError(fmt.Errorf("capture quality %.2f below %.2f", quality, g.config.MinQuality))
	}

	capture, err := g.inner.ExtractEmbedding(ctx, image)
	if err != nil {
		return nil, err
	}

	if quality > capture.QualityHint {
		capture.QualityHint = quality
	}

	return capture, nil
}

func (g *Gate) Name() string {
	return "rekognition+" + g.inner.Name()
}

func poseAcceptable(pose *types.Pose, maxDegrees float64) bool {
	if pose == nil {
		return true
	}
	if pose.Yaw != nil && math.Abs(float64(*pose.Yaw)) > maxDegrees {
		return false
	}
	if pose.Pitch != nil && math.Abs(float64(*pose.Pitch)) > maxDegrees {
		return false
	}
	return true
}

// calculateQualityScore combines Rekognition brightness and sharpness
// (each 0-100) into one 0-1 score. Sharpness weighs heavier, it matters
// more for embedding extraction.
func calculateQualityScore(quality *types.ImageQuality) float64 {
	if quality == nil {
		return 0.0
	}

	brightness := 0.0
	sharpness := 0.0

	if quality.Brightness != nil {
		brightness = float64(*quality.Brightness) / 100.0
	}

	if quality.Sharpness != nil {
		sharpness = float64(*quality.Sharpness) / 100.0
	}

	return brightness*0.3 + sharpness*0.7
}

var _ detector.Provider = (*Gate)(nil)
