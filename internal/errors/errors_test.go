package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growthcli/internal/lms"
	"growthcli/internal/pipeline"
)

func TestAPIErrorConstructors(t *testing.T) {
	err := New(http.StatusBadRequest, CodeInvalidRequest, "bad body")
	assert.Equal(t, "bad body", err.Error())
	assert.Nil(t, err.Details)

	withDetails := NewWithDetails(http.StatusConflict, "CONFLICT", "conflict", "extra")
	assert.Equal(t, http.StatusConflict, withDetails.StatusCode)
	assert.Equal(t, "extra", withDetails.Details)

	decode := InvalidRequestWithError(fmt.Errorf("unexpected EOF"))
	assert.Equal(t, CodeInvalidRequest, decode.ErrorCode)
	assert.Equal(t, "unexpected EOF", decode.Details)
}

func TestValidationErrors(t *testing.T) {
	single := ErrValidation("sex", "sex is required")
	require.IsType(t, ValidationErrors{}, single.Details)
	assert.Len(t, single.Details.(ValidationErrors).Errors, 1)

	multi := NewValidationErrors([]ValidationError{
		{Field: "sex", Message: "sex is required"},
		{Field: "age_days", Message: "age_days must be greater than or equal to 0"},
	})
	assert.Equal(t, http.StatusBadRequest, multi.StatusCode)
	assert.Equal(t, CodeValidationFailed, multi.ErrorCode)

	data, err := json.Marshal(multi)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"field":"age_days"`)
}

func TestBatchTooLarge(t *testing.T) {
	err := BatchTooLarge(12, 10)
	assert.Equal(t, http.StatusRequestEntityTooLarge, err.StatusCode)
	assert.Equal(t, CodeBatchTooLarge, err.ErrorCode)
	assert.Contains(t, err.Message, "12")
	assert.Equal(t, map[string]int{"size": 12, "limit": 10}, err.Details)
}

func TestPayloadTooLarge(t *testing.T) {
	err := PayloadTooLarge(1024)
	assert.Equal(t, http.StatusRequestEntityTooLarge, err.StatusCode)
	assert.Equal(t, CodePayloadTooLarge, err.ErrorCode)
	assert.NotEqual(t, CodeBatchTooLarge, err.ErrorCode)
	assert.Equal(t, map[string]int64{"limit_bytes": 1024}, err.Details)

	problem := APIErrorToProblem(err, "/api/v1/score")
	assert.Equal(t, TypePayloadTooLarge, problem.Type)
	assert.Equal(t, "/api/v1/score", problem.Instance)
	assert.Equal(t, CodePayloadTooLarge, problem.Extensions["error_code"])
}

func TestScoringFailed(t *testing.T) {
	res := pipeline.Result{
		Measurement: pipeline.Height,
		Status:      pipeline.StatusNotFound,
		Err:         fmt.Errorf("height: %w", lms.ErrNotFound),
	}

	err := ScoringFailed(res)
	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, CodeScoringFailed, err.ErrorCode)
	assert.Equal(t, res.Err.Error(), err.Message)
	assert.Equal(t, map[string]string{"measurement": "height", "status": "not_found"}, err.Details)

	noErr := ScoringFailed(pipeline.Result{Measurement: pipeline.Weight, Status: pipeline.StatusInvalidInput})
	assert.Equal(t, "weight could not be scored", noErr.Message)
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNotFound, "Not Found", "", "/api/v1/nope").
		WithExtension("trace_id", "abc").
		WithExtension("status", 999)

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, TypeNotFound, got["type"])
	assert.Equal(t, "Not Found", got["title"])
	assert.Equal(t, float64(http.StatusNotFound), got["status"], "standard members win over extensions")
	assert.Equal(t, "/api/v1/nope", got["instance"])
	assert.Equal(t, "abc", got["trace_id"])
	assert.NotContains(t, got, "detail")
}

func TestProblemDetailsError(t *testing.T) {
	assert.Equal(t, "Not Found", NewProblemDetails(404, TypeNotFound, "Not Found", "", "").Error())
	assert.Equal(t, "Not Found: gone", NewProblemDetails(404, TypeNotFound, "Not Found", "gone", "").Error())

	var pd ProblemDetails
	pd.WithExtension("k", "v")
	assert.Equal(t, "v", pd.Extensions["k"])
}
