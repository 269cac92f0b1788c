package rekognition

import "errors"

var (
	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")

	// ErrThrottled indicates the AWS request rate limit was hit
	ErrThrottled = errors.New("rekognition request throttled")
)
