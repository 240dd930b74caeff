package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthcli/internal/infrastructure"
	"growthcli/internal/lms"
	"growthcli/internal/pipeline"
	"growthcli/internal/shared/testutil"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "deadline exceeded",
			err:        fmt.Errorf("process weight: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "canceled",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "validation api error",
			err:        ErrValidation("sex", "sex is required"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "batch too large",
			err:        BatchTooLarge(3, 2),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
		},
		{
			name:       "scoring failure not found",
			err:        ScoringFailed(pipeline.Result{Measurement: pipeline.Weight, Status: pipeline.StatusNotFound}),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeReferenceNotFound,
		},
		{
			name:       "scoring failure non finite",
			err:        ScoringFailed(pipeline.Result{Measurement: pipeline.Weight, Status: pipeline.StatusNonFinite}),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeNonFinite,
		},
		{
			name:       "wrapped lookup miss",
			err:        fmt.Errorf("lookup: %w", lms.ErrNotFound),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeReferenceNotFound,
		},
		{
			name:       "invalid input",
			err:        lms.ErrInvalidInput,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeInvalidInput,
		},
		{
			name:       "degenerate parameters",
			err:        lms.ErrDegenerateParameters,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeInvalidInput,
		},
		{
			name:       "non finite",
			err:        lms.ErrNonFinite,
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeNonFinite,
		},
		{
			name:       "invalid table",
			err:        fmt.Errorf("weight-for-age: %w", lms.ErrUnorderedTable),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInvalidTable,
		},
		{
			name:       "problem passthrough",
			err:        NewProblemDetails(http.StatusTeapot, "/errors/teapot", "Teapot", "short and stout", "/"),
			wantStatus: http.StatusTeapot,
			wantType:   "/errors/teapot",
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/score", nil)
			rec := httptest.NewRecorder()
			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.NotContains(t, body, "stack")
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Zero(t, rec.Body.Len())
	assert.Zero(t, handler.Count())
}

func TestErrorHandler_TraceAndStack(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-123"))
	rec := httptest.NewRecorder()
	h.HandleError(rec, req, fmt.Errorf("boom"))

	body := decodeProblem(t, rec)
	assert.Equal(t, "trace-123", body["trace_id"])
	assert.Contains(t, body, "stack")
	testutil.AssertLogContains(t, handler, slog.LevelError, "request failed")
	testutil.AssertLogAttr(t, handler, "component", "error_handler")
}

func TestErrorHandler_ClientErrorsLogAtWarn(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	h.HandleError(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil),
		New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format"))

	testutil.AssertLogContains(t, handler, slog.LevelWarn, "request failed")
	testutil.AssertNoErrors(t, handler)
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("table exploded")
	})

	rec := httptest.NewRecorder()
	RecoveryMiddleware(h)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, body["type"])
	assert.NotContains(t, body, "panic")
	testutil.AssertLogContains(t, handler, slog.LevelError, "panic recovered")
}

func TestRecoveryMiddlewareAbortHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		RecoveryMiddleware(h)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/missing", decodeProblem(t, rec)["instance"])

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/score", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "DELETE")
}
