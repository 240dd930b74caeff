package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "growthcli/internal/errors"
	"growthcli/internal/infrastructure"
	"growthcli/internal/middleware"
	"growthcli/internal/pipeline"
)

// ScoreHandler scores single measurements and batches of subjects
type ScoreHandler struct {
	processor    *pipeline.Processor
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
	maxBatchSize int
}

// NewScoreHandler creates a new score handler. maxBatchSize < 1 disables the limit.
func NewScoreHandler(processor *pipeline.Processor, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, maxBatchSize int, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{
		processor:    processor,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "score")),
		maxBatchSize: maxBatchSize,
	}
}

// Routes returns the scoring routes
func (h *ScoreHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(middleware.ContentTypeValidator("application/json"))

	r.Post("/score", h.Score)
	r.Post("/batch", h.Batch)
	return r
}

// Score handles POST /api/v1/score
func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	m, err := pipeline.ParseMeasurement(req.Measurement)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("measurement", err.Error()))
		return
	}
	p, err := h.processorFor(req.Mode)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("mode", err.Error()))
		return
	}

	res := p.Score(r.Context(), m, req.subject(m))
	if res.Failed() {
		h.errorHandler.HandleError(w, r, apierrors.ScoringFailed(res))
		return
	}

	render.JSON(w, r, newResultResponse(res))
}

// Batch handles POST /api/v1/batch
func (h *ScoreHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if h.maxBatchSize > 0 && len(req.Subjects) > h.maxBatchSize {
		h.errorHandler.HandleError(w, r, apierrors.BatchTooLarge(len(req.Subjects), h.maxBatchSize))
		return
	}

	p, err := h.processorFor(req.Mode)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("mode", err.Error()))
		return
	}

	subjects := make([]pipeline.Subject, len(req.Subjects))
	for i, s := range req.Subjects {
		subjects[i] = s.subject()
	}

	// The request ID doubles as the run ID so logs of one batch share a key
	ctx := r.Context()
	if reqID := middleware.GetRequestID(ctx); reqID != "" {
		ctx = infrastructure.WithRunID(ctx, reqID)
	}

	batch, err := p.Process(ctx, subjects)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp := BatchResponse{
		RunID:      batch.RunID,
		Mode:       batch.Mode.String(),
		DurationMS: batch.Duration.Milliseconds(),
		Rows:       make([]BatchRow, len(subjects)),
		Summary: map[string]pipeline.Counts{
			pipeline.Weight.String(): pipeline.Count(batch.Weight),
			pipeline.Height.String(): pipeline.Count(batch.Height),
		},
	}
	for i := range subjects {
		resp.Rows[i] = BatchRow{
			Index:  i,
			Weight: newResultResponse(batch.Weight[i]),
			Height: newResultResponse(batch.Height[i]),
		}
	}

	render.JSON(w, r, resp)
}

func (h *ScoreHandler) processorFor(mode string) (*pipeline.Processor, error) {
	if mode == "" {
		return h.processor, nil
	}
	m, err := pipeline.ParseOutputMode(mode)
	if err != nil {
		return nil, err
	}
	return h.processor.WithMode(m), nil
}
