package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/render"

	"growthcli/internal/infrastructure"
	"growthcli/internal/lms"
)

// Problem types following RFC 7807
const (
	TypeValidation      = "/errors/validation"
	TypeNotFound        = "/errors/not-found"
	TypeMethod          = "/errors/method-not-allowed"
	TypeRateLimit       = "/errors/rate-limit"
	TypeInternal        = "/errors/internal"
	TypeServiceDown     = "/errors/service-unavailable"
	TypeTimeout         = "/errors/timeout"
	TypePayloadTooLarge = "/errors/payload-too-large"
)

// Scoring problem types
const (
	TypeReferenceNotFound = "/errors/scoring/reference-not-found"
	TypeInvalidInput      = "/errors/scoring/invalid-input"
	TypeNonFinite         = "/errors/scoring/non-finite"
	TypeInvalidTable      = "/errors/scoring/invalid-table"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	traceID := infrastructure.GetTraceID(r.Context())
	problem := h.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", getStackTrace())
	}

	_ = render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var problem *ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return APIErrorToProblem(apiErr, r.URL.Path)
	}

	switch {
	case errors.Is(err, lms.ErrNotFound):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeReferenceNotFound,
			"Reference Row Not Found",
			err.Error(),
			r.URL.Path,
		)

	case errors.Is(err, lms.ErrNonFinite):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeNonFinite,
			"Non-Finite Result",
			err.Error(),
			r.URL.Path,
		)

	case errors.Is(err, lms.ErrInvalidInput), errors.Is(err, lms.ErrDegenerateParameters):
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeInvalidInput,
			"Invalid Input",
			err.Error(),
			r.URL.Path,
		)

	case errors.Is(err, lms.ErrInvalidRow), errors.Is(err, lms.ErrUnorderedTable), errors.Is(err, lms.ErrEmptyTable):
		return NewProblemDetails(
			http.StatusInternalServerError,
			TypeInvalidTable,
			"Invalid Reference Table",
			err.Error(),
			r.URL.Path,
		)

	default:
		return NewProblemDetails(
			http.StatusInternalServerError,
			TypeInternal,
			"Internal Server Error",
			"An unexpected error occurred while processing your request",
			r.URL.Path,
		)
	}
}

// APIErrorToProblem converts an APIError to ProblemDetails for instance
func APIErrorToProblem(apiErr *APIError, instance string) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case CodeInvalidRequest, CodeValidationFailed:
		problemType = TypeValidation
	case CodeRateLimited:
		problemType = TypeRateLimit
	case CodeBatchTooLarge, CodePayloadTooLarge:
		problemType = TypePayloadTooLarge
	case CodeTablesMissing:
		problemType = TypeServiceDown
	case CodeScoringFailed:
		problemType = scoringProblemType(apiErr.Details)
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		instance,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}

func scoringProblemType(details interface{}) string {
	d, ok := details.(map[string]string)
	if !ok {
		return TypeInvalidInput
	}
	switch d["status"] {
	case "not_found":
		return TypeReferenceNotFound
	case "non_finite":
		return TypeNonFinite
	default:
		return TypeInvalidInput
	}
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	traceID := infrastructure.GetTraceID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	)
	if traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", getStackTrace())
	}

	_ = render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	)
	_ = render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeMethod,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	)
	_ = render.Render(w, r, problem)
}

// RecoveryMiddleware provides panic recovery with problem+json responses
func RecoveryMiddleware(handler *ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					handler.HandlePanic(w, r, rec)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
