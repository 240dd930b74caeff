package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"growthcli/internal/config"
	apierrors "growthcli/internal/errors"
	"growthcli/internal/middleware"
	"growthcli/internal/pipeline"
)

// RouterOptions wires the scoring service
type RouterOptions struct {
	Processor *pipeline.Processor
	Server    config.ServerConfig
	Logger    *slog.Logger
	// Metrics serves /metrics when set
	Metrics http.Handler
	// OTel instruments every request when set
	OTel         *middleware.OTelMiddleware
	IncludeStack bool
}

// NewRouter builds the chi router of the scoring service
func NewRouter(opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	errorHandler := apierrors.NewErrorHandler(logger, opts.IncludeStack)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if opts.OTel != nil {
		r.Use(opts.OTel.Handler)
	}
	r.Use(middleware.StructuredLogger(logger))
	r.Use(apierrors.RecoveryMiddleware(errorHandler))
	r.Use(middleware.SecurityHeaders)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	health := NewHealthHandler(opts.Processor.Tables(), logger)
	r.Get("/healthz", health.HealthCheck)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		if rl := opts.Server.RateLimit; rl.Enabled {
			r.Use(middleware.NewRateLimiter(rl.RPS, rl.Burst, logger).Handler)
		}

		validator := middleware.NewValidator(logger, middleware.DefaultMaxBodySize)
		score := NewScoreHandler(opts.Processor, validator, errorHandler, opts.Server.MaxBatchSize, logger)
		r.Mount("/api/v1", score.Routes())
	})

	return r
}
