package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"growthcli/internal/pipeline"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes one rejected request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeBatchTooLarge    = "BATCH_TOO_LARGE"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeScoringFailed    = "SCORING_FAILED"
	CodeTablesMissing    = "TABLES_NOT_LOADED"
)

var (
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded. Please retry after 60 seconds")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeTablesMissing, "Reference tables are not loaded")
)

// PayloadTooLarge reports a request body larger than limit bytes
func PayloadTooLarge(limit int64) *APIError {
	return NewWithDetails(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Request body too large",
		map[string]int64{"limit_bytes": limit})
}

// InvalidRequestWithError creates an invalid request error carrying the decode failure
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error for a single field
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationErrors{
		Errors: []ValidationError{{Field: field, Message: message}},
	})
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errs},
	)
}

// BatchTooLarge rejects a batch request with more subjects than allowed
func BatchTooLarge(size, limit int) *APIError {
	return NewWithDetails(
		http.StatusRequestEntityTooLarge,
		CodeBatchTooLarge,
		fmt.Sprintf("batch of %d subjects exceeds the limit of %d", size, limit),
		map[string]int{"size": size, "limit": limit},
	)
}

// ScoringFailed reports a single measurement that could not be scored
func ScoringFailed(res pipeline.Result) *APIError {
	msg := fmt.Sprintf("%s could not be scored", res.Measurement)
	if res.Err != nil {
		msg = res.Err.Error()
	}
	return NewWithDetails(
		http.StatusUnprocessableEntity,
		CodeScoringFailed,
		msg,
		map[string]string{
			"measurement": res.Measurement.String(),
			"status":      string(res.Status),
		},
	)
}
