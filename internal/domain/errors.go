package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is match any AppError carrying the same code, so a
// sentinel still matches after WithError attached a cause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Missing or invalid authentication token",
		StatusCode: 401,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Access denied",
		StatusCode: 403,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}

	// Account errors
	ErrUserNotFound = &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "User not found",
		StatusCode: 404,
	}

	ErrUserExists = &AppError{
		Code:       "USER_ALREADY_EXISTS",
		Message:    "Username or email already registered",
		StatusCode: 409,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid username or password",
		StatusCode: 401,
	}

	ErrAccountLocked = &AppError{
		Code:       "ACCOUNT_LOCKED",
		Message:    "Account temporarily locked after repeated failed attempts",
		StatusCode: 423,
	}

	ErrTokenExpired = &AppError{
		Code:       "TOKEN_EXPIRED",
		Message:    "Session token has expired",
		StatusCode: 401,
	}

	ErrTokenInvalid = &AppError{
		Code:       "TOKEN_INVALID",
		Message:    "Session token is malformed or has a bad signature",
		StatusCode: 401,
	}

	// Embedding errors
	ErrMalformedEmbedding = &AppError{
		Code:       "MALFORMED_EMBEDDING",
		Message:    "Embedding is missing or does not have the expected dimension",
		StatusCode: 422,
	}

	ErrDegenerateEmbedding = &AppError{
		Code:       "DEGENERATE_EMBEDDING",
		Message:    "Embedding is structurally degenerate and cannot be matched",
		StatusCode: 422,
	}

	ErrInsufficientQuality = &AppError{
		Code:       "INSUFFICIENT_QUALITY",
		Message:    "Sample quality is below the acceptance threshold",
		StatusCode: 422,
	}

	// Enrollment errors
	ErrEnrollmentRejected = &AppError{
		Code:       "ENROLLMENT_REJECTED",
		Message:    "Too few samples passed validation to build an enrollment set",
		StatusCode: 422,
	}

	ErrDuplicateBiometric = &AppError{
		Code:       "DUPLICATE_BIOMETRIC",
		Message:    "This face is already enrolled with another account",
		StatusCode: 409,
	}

	ErrPersistenceFailure = &AppError{
		Code:       "PERSISTENCE_FAILURE",
		Message:    "Failed to persist the enrollment set",
		StatusCode: 500,
	}

	// Authentication errors
	ErrNoFacesEnrolled = &AppError{
		Code:       "NO_FACES_ENROLLED",
		Message:    "No face samples enrolled for this account",
		StatusCode: 404,
	}

	ErrFaceNotMatched = &AppError{
		Code:       "FACE_NOT_MATCHED",
		Message:    "Face did not match any enrolled sample",
		StatusCode: 401,
	}

	// Image capture errors
	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: 422,
	}

	ErrMultipleFaces = &AppError{
		Code:       "MULTIPLE_FACES",
		Message:    "Multiple faces detected, please provide image with single face",
		StatusCode: 422,
	}

	ErrLowQualityImage = &AppError{
		Code:       "LOW_QUALITY_IMAGE",
		Message:    "Image quality too low for reliable recognition",
		StatusCode: 422,
	}
)
