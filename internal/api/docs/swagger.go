// Package docs builds the OpenAPI document served at /swagger.
package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// RegisterUserRequest represents a request to create an account
type RegisterUserRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"correct horse battery"`
	FullName string `json:"full_name,omitempty" example:"Alice Doe"`
}

// UserResponse represents an account in responses
type UserResponse struct {
	ID        string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Username  string `json:"username" example:"alice"`
	Email     string `json:"email" example:"alice@example.com"`
	FullName  string `json:"full_name,omitempty" example:"Alice Doe"`
	Role      string `json:"role" example:"user"`
	Active    bool   `json:"active" example:"true"`
	CreatedAt string `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// PasswordLoginRequest represents a credential login request
type PasswordLoginRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"correct horse battery"`
}

// FaceLoginRequest represents a face login request with a raw embedding
type FaceLoginRequest struct {
	Embedding []float64 `json:"embedding"`
}

// TokenResponse represents an issued session token
type TokenResponse struct {
	Token string       `json:"token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	User  UserResponse `json:"user"`
}

// MatchDetail represents the decision detail of a face match
type MatchDetail struct {
	Matched    bool    `json:"matched" example:"true"`
	Similarity float64 `json:"similarity" example:"0.93"`
	Tier       string  `json:"tier" example:"high"`
	Compared   int     `json:"compared" example:"42"`
}

// FaceLoginResponse represents a successful face authentication
type FaceLoginResponse struct {
	Token string       `json:"token" example:"eyJhbGciOiJIUzI1NiJ9..."`
	User  UserResponse `json:"user"`
	Match MatchDetail  `json:"match"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiJ9..."`
}

// EnrollSample represents one candidate sample in an enrollment batch
type EnrollSample struct {
	Embedding   []float64              `json:"embedding"`
	CaptureType string                 `json:"capture_type,omitempty" example:"smile"`
	QualityHint float64                `json:"quality_hint,omitempty" example:"0.9"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// EnrollRequest represents an enrollment batch
type EnrollRequest struct {
	Samples []EnrollSample `json:"samples"`
}

// RejectedSample represents one sample turned away during enrollment
type RejectedSample struct {
	Index       int    `json:"index" example:"2"`
	Reason      string `json:"reason" example:"quality below threshold"`
	CaptureType string `json:"capture_type" example:"normal"`
}

// EnrollmentReportResponse represents the outcome of an enrollment batch
type EnrollmentReportResponse struct {
	UserID    string           `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Accepted  int              `json:"accepted" example:"3"`
	Persisted int              `json:"persisted" example:"3"`
	Rejected  []RejectedSample `json:"rejected,omitempty"`
	CreatedAt string           `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// FaceSummary represents one enrolled face
type FaceSummary struct {
	ID          string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CaptureType string  `json:"capture_type" example:"normal"`
	Quality     float64 `json:"quality" example:"0.87"`
	SampleIdx   int     `json:"sample_idx" example:"0"`
	CreatedAt   string  `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// EnrollmentStatusResponse represents the user's current enrollment set
type EnrollmentStatusResponse struct {
	Faces []FaceSummary `json:"faces"`
	Count int           `json:"count" example:"3"`
}

// AuthEventResponse represents one audit record
type AuthEventResponse struct {
	ID         string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Method     string  `json:"method" example:"face"`
	Success    bool    `json:"success" example:"true"`
	Confidence float64 `json:"confidence" example:"0.93"`
	Tier       string  `json:"tier,omitempty" example:"high"`
	Reason     string  `json:"reason,omitempty"`
	ClientIP   string  `json:"client_ip" example:"203.0.113.4"`
	LatencyMs  int64   `json:"latency_ms" example:"12"`
	CreatedAt  string  `json:"created_at" example:"2024-01-01T00:00:00Z"`
}

// AuthEventsResponse wraps a list of audit records
type AuthEventsResponse struct {
	Events []AuthEventResponse `json:"events"`
	Count  int                 `json:"count" example:"5"`
}

// SystemStatsResponse represents the admin overview
type SystemStatsResponse struct {
	Users         int     `json:"users" example:"120"`
	ActiveUsers   int     `json:"active_users" example:"115"`
	EnrolledUsers int     `json:"enrolled_users" example:"98"`
	Faces         int     `json:"faces" example:"310"`
	AvgQuality    float64 `json:"avg_quality" example:"0.88"`
	Events24h     int     `json:"events_24h" example:"560"`
	Success24h    int     `json:"success_24h" example:"540"`
	AvgLatencyMs  float64 `json:"avg_latency_ms" example:"14.2"`
}

func authErrors() []response.Response {
	return []response.Response{
		response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request"),
		response.New(ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password"}, "401", "Unauthorized"),
		response.New(ErrorResponse{Code: "ACCOUNT_LOCKED", Message: "Account temporarily locked"}, "423", "Locked"),
		response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded"}, "429", "Too Many Requests"),
		response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
	}
}

func sessionErrors() []response.Response {
	return []response.Response{
		response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Missing or invalid authentication token"}, "401", "Unauthorized"),
		response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
	}
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Facegate API",
		Version:     "v1.0.0",
		Description: "Face-embedding authentication service: credential login, face login with confidence tiers, and curated enrollment",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/users - Register account
		endpoint.New(
			endpoint.POST,
			"/users",
			endpoint.WithTags("Accounts"),
			endpoint.WithSummary("Create an account"),
			endpoint.WithDescription("Registers a new account with username, email and password"),
			endpoint.WithBody(RegisterUserRequest{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UserResponse{}, "201", "Account created"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "USER_ALREADY_EXISTS", Message: "Username or email already registered"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/users/me - Current account
		endpoint.New(
			endpoint.GET,
			"/users/me",
			endpoint.WithTags("Accounts"),
			endpoint.WithSummary("Get the authenticated account"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UserResponse{}, "200", "Account retrieved"),
			}),
			endpoint.WithErrors(sessionErrors()),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/auth/login - Credential login
		endpoint.New(
			endpoint.POST,
			"/auth/login",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Authenticate with username and password"),
			endpoint.WithBody(PasswordLoginRequest{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(TokenResponse{}, "200", "Session issued"),
			}),
			endpoint.WithErrors(authErrors()),
		),

		// POST /v1/auth/face - Face login with a probe embedding
		endpoint.New(
			endpoint.POST,
			"/auth/face",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Authenticate with a probe embedding"),
			endpoint.WithDescription("Compares the submitted embedding against every enrolled face; the best match above the policy threshold wins"),
			endpoint.WithBody(FaceLoginRequest{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FaceLoginResponse{}, "200", "Session issued"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "MALFORMED_EMBEDDING", Message: "Embedding is missing or has the wrong dimension"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "NO_FACES_ENROLLED", Message: "No face samples enrolled"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "FACE_NOT_MATCHED", Message: "Face did not match any enrolled sample"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "ACCOUNT_LOCKED", Message: "Account temporarily locked"}, "423", "Locked"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/auth/face/image - Face login with a captured image
		endpoint.New(
			endpoint.POST,
			"/auth/face/image",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Authenticate with a captured image"),
			endpoint.WithDescription("Extracts the embedding from the uploaded image through the vision pipeline and runs the face login with it"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(FaceLoginResponse{}, "200", "Session issued"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_IMAGE", Message: "Invalid image format or corrupted file"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "MULTIPLE_FACES", Message: "Multiple faces detected"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "FACE_NOT_MATCHED", Message: "Face did not match any enrolled sample"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "RATE_LIMIT_EXCEEDED", Message: "Rate limit exceeded"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/auth/refresh - Refresh session
		endpoint.New(
			endpoint.POST,
			"/auth/refresh",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Exchange a valid token for a fresh one"),
			endpoint.WithBody(RefreshRequest{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(TokenResponse{}, "200", "Session refreshed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "TOKEN_EXPIRED", Message: "Session token has expired"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "TOKEN_INVALID", Message: "Session token is malformed"}, "401", "Unauthorized"),
			}),
		),

		// GET /v1/auth/events - Recent authentication events
		endpoint.New(
			endpoint.GET,
			"/auth/events",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("List the authenticated user's recent authentication events"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum number of events (default: 20, max: 100)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AuthEventsResponse{}, "200", "Events retrieved"),
			}),
			endpoint.WithErrors(sessionErrors()),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/faces/enroll - Enroll embedding batch
		endpoint.New(
			endpoint.POST,
			"/faces/enroll",
			endpoint.WithTags("Enrollment"),
			endpoint.WithSummary("Enroll a batch of candidate embeddings"),
			endpoint.WithDescription("Validates and scores every sample, rejects the batch when too few survive, and replaces the previous enrollment set atomically"),
			endpoint.WithBody(EnrollRequest{}),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EnrollmentReportResponse{}, "201", "Enrollment set replaced"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "ENROLLMENT_REJECTED", Message: "Too few samples passed validation"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "DUPLICATE_BIOMETRIC", Message: "This face is already enrolled with another account"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Missing or invalid authentication token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /v1/faces/enroll/images - Enroll image batch
		endpoint.New(
			endpoint.POST,
			"/faces/enroll/images",
			endpoint.WithTags("Enrollment"),
			endpoint.WithSummary("Enroll a batch of captured images"),
			endpoint.WithDescription("Extracts an embedding from every uploaded image and enrolls the batch; a single unusable image fails the request"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EnrollmentReportResponse{}, "201", "Enrollment set replaced"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "DUPLICATE_BIOMETRIC", Message: "This face is already enrolled with another account"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Missing or invalid authentication token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/faces - Enrollment status
		endpoint.New(
			endpoint.GET,
			"/faces",
			endpoint.WithTags("Enrollment"),
			endpoint.WithSummary("List the authenticated user's enrollment set"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EnrollmentStatusResponse{}, "200", "Enrollment set retrieved"),
			}),
			endpoint.WithErrors(sessionErrors()),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// DELETE /v1/faces - Delete enrollment set
		endpoint.New(
			endpoint.DELETE,
			"/faces",
			endpoint.WithTags("Enrollment"),
			endpoint.WithSummary("Delete the authenticated user's enrollment set"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Enrollment set deleted"),
			}),
			endpoint.WithErrors(sessionErrors()),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/admin/stats - Admin overview
		endpoint.New(
			endpoint.GET,
			"/admin/stats",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("Get system-wide aggregates"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SystemStatsResponse{}, "200", "Stats retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Missing or invalid authentication token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "FORBIDDEN", Message: "Access denied"}, "403", "Forbidden"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /v1/admin/users - List accounts
		endpoint.New(
			endpoint.GET,
			"/admin/users",
			endpoint.WithTags("Admin"),
			endpoint.WithSummary("List accounts"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum number of accounts (default: 50, max: 200)")),
				parameter.IntParam("offset", parameter.Query, parameter.WithDescription("Offset for pagination (default: 0)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]UserResponse{}, "200", "Accounts retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Missing or invalid authentication token"}, "401", "Unauthorized"),
				response.New(ErrorResponse{Code: "FORBIDDEN", Message: "Access denied"}, "403", "Forbidden"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
