package rekognition

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/smithy-go"
)

const (
	errCodeAccessDenied     = "AccessDeniedException"
	errCodeInvalidParameter = "InvalidParameterException"
	errCodeThrottling       = "ThrottlingException"
	errCodeThroughput       = "ProvisionedThroughputExceededException"
)

// DetectFacesAPI is the slice of the Rekognition API the gate needs.
type DetectFacesAPI interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

// NewDetectFacesAPI builds a real Rekognition client using the AWS
// default credential chain.
func NewDetectFacesAPI(ctx context.Context, cfg Config) (DetectFacesAPI, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return rekognition.NewFromConfig(awsCfg), nil
}

// translateAPIError maps well-known AWS error codes onto local sentinels.
// Unrecognized errors pass through unchanged.
func translateAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeAccessDenied:
			return ErrInvalidCredentials
		case errCodeThrottling, errCodeThroughput:
			return ErrThrottled
		}
	}

	return err
}
