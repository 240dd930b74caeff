package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "growthcli/internal/errors"
	"growthcli/internal/pipeline"
)

// HealthHandler reports whether the reference tables are loaded
type HealthHandler struct {
	tables pipeline.Tables
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(tables pipeline.Tables, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		tables: tables,
		logger: logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /healthz
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Tables: map[string]int{"weight": 0, "height": 0},
	}
	if h.tables.Weight != nil {
		resp.Tables["weight"] = h.tables.Weight.Len()
		resp.Policy = h.tables.Weight.Policy().String()
	}
	if h.tables.Height != nil {
		resp.Tables["height"] = h.tables.Height.Len()
	}

	if resp.Tables["weight"] == 0 || resp.Tables["height"] == 0 {
		h.logger.WarnContext(r.Context(), "health check with missing reference table")
		resp.Status = "unavailable"
		resp.Error = apierrors.ErrServiceUnavailable
		render.Status(r, resp.Error.StatusCode)
	}
	render.JSON(w, r, resp)
}
