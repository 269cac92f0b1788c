package httpvision

import "errors"

var (
	ErrVisionUnavailable = errors.New("vision service unavailable")
	ErrInvalidResponse   = errors.New("invalid response from vision service")
)
