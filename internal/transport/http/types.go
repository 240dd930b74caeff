package http

import (
	"math"

	apierrors "growthcli/internal/errors"
	"growthcli/internal/pipeline"
)

// ScoreRequest is the body of POST /api/v1/score. Value is pounds for weight and
// inches for height; a negative value is a missing-measurement sentinel.
type ScoreRequest struct {
	Measurement string   `json:"measurement" validate:"required,measurement"`
	Value       *float64 `json:"value" validate:"required"`
	AgeDays     *float64 `json:"age_days" validate:"required"`
	Sex         *int     `json:"sex" validate:"required"`
	Mode        string   `json:"mode,omitempty" validate:"omitempty,output_mode"`
}

// SubjectRequest is one subject of a batch request
type SubjectRequest struct {
	Weight  *float64 `json:"weight" validate:"required"`
	Height  *float64 `json:"height" validate:"required"`
	AgeDays *float64 `json:"age_days" validate:"required"`
	Sex     *int     `json:"sex" validate:"required"`
}

// BatchRequest is the body of POST /api/v1/batch
type BatchRequest struct {
	Mode     string           `json:"mode,omitempty" validate:"omitempty,output_mode"`
	Subjects []SubjectRequest `json:"subjects" validate:"required,min=1,dive"`
}

// ResultResponse is one scored measurement. Values that could not be computed are null.
type ResultResponse struct {
	Value      *float64 `json:"value"`
	ZScore     *float64 `json:"z_score"`
	Percentile *float64 `json:"percentile"`
	Status     string   `json:"status"`
	Error      string   `json:"error,omitempty"`
}

// BatchRow pairs the weight and height results of one subject
type BatchRow struct {
	Index  int            `json:"index"`
	Weight ResultResponse `json:"weight"`
	Height ResultResponse `json:"height"`
}

// BatchResponse is the body returned by POST /api/v1/batch
type BatchResponse struct {
	RunID      string                     `json:"run_id"`
	Mode       string                     `json:"mode"`
	DurationMS int64                      `json:"duration_ms"`
	Rows       []BatchRow                 `json:"rows"`
	Summary    map[string]pipeline.Counts `json:"summary"`
}

// HealthResponse is the body returned by GET /healthz
type HealthResponse struct {
	Status string         `json:"status"`
	Policy string         `json:"policy"`
	Tables map[string]int `json:"tables"`
	// Error is set while the service cannot score
	Error *apierrors.APIError `json:"error,omitempty"`
}

func (s SubjectRequest) subject() pipeline.Subject {
	return pipeline.Subject{
		Weight:  *s.Weight,
		Height:  *s.Height,
		AgeDays: *s.AgeDays,
		SexCode: *s.Sex,
	}
}

func (s ScoreRequest) subject(m pipeline.Measurement) pipeline.Subject {
	subject := pipeline.Subject{
		Weight:  -1,
		Height:  -1,
		AgeDays: *s.AgeDays,
		SexCode: *s.Sex,
	}
	if m == pipeline.Height {
		subject.Height = *s.Value
	} else {
		subject.Weight = *s.Value
	}
	return subject
}

func newResultResponse(r pipeline.Result) ResultResponse {
	resp := ResultResponse{
		Value:      nullable(r.Value),
		ZScore:     nullable(r.ZScore),
		Percentile: nullable(r.Percentile),
		Status:     string(r.Status),
	}
	if r.Err != nil {
		resp.Error = r.Err.Error()
	}
	return resp
}

// nullable maps NaN and infinities to null, which encoding/json cannot represent
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
