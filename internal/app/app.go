package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"growthcli/internal/config"
	"growthcli/internal/dataprocessing"
	"growthcli/internal/exporter"
	"growthcli/internal/infrastructure"
	"growthcli/internal/lms"
	"growthcli/internal/middleware"
	"growthcli/internal/pipeline"
	"growthcli/internal/validation"
	handlers "growthcli/internal/transport/http"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Telemetry     *pipeline.Telemetry
	Tables        pipeline.Tables
	Processor     *pipeline.Processor

	// Router and Server are created on first use by Handler and Run
	Router *chi.Mux
	Server *http.Server
}

// New builds an application from cfg. Reference tables are loaded here, so a table that
// fails validation is reported before any record is scored.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mode, err := pipeline.ParseOutputMode(cfg.Output.Mode)
	if err != nil {
		return nil, err
	}

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	telemetry, err := pipeline.NewTelemetry(providers)
	if err != nil {
		_ = providers.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create growth metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Telemetry:     telemetry,
	}

	if err := a.initializeProcessor(ctx, mode); err != nil {
		_ = providers.Shutdown(ctx)
		return nil, err
	}

	return a, nil
}

func (a *Application) initializeProcessor(ctx context.Context, mode pipeline.OutputMode) error {
	policy := lms.PolicyFirstRowAtBirth
	if a.Config.Processing.SexFilterAtBirth {
		policy = lms.PolicySexFilterAtBirth
	}

	tables, err := dataprocessing.LoadTables(ctx, a.Config.Tables, dataprocessing.TableOptions{
		Policy:  policy,
		Logger:  a.Logger,
		Metrics: a.Telemetry.Metrics,
	})
	if err != nil {
		return err
	}

	processor, err := pipeline.NewProcessor(tables, pipeline.Options{
		Mode:        mode,
		Concurrency: a.Config.Processing.Concurrency,
		Logger:      a.Logger,
		Telemetry:   a.Telemetry,
	})
	if err != nil {
		return fmt.Errorf("failed to create processor: %w", err)
	}

	a.Tables = tables
	a.Processor = processor
	return nil
}

// BatchReport describes a finished batch run
type BatchReport struct {
	RunID      string
	OutputPath string
	Records    int
	Invalid    int
	Weight     pipeline.Counts
	Height     pipeline.Counts
}

// RunBatch scores the configured subject dataset and writes the result
func (a *Application) RunBatch(ctx context.Context) (*BatchReport, error) {
	out := a.Config.Output
	format, err := exporter.ParseFormat(out.Format)
	if err != nil {
		return nil, err
	}

	files := validation.NewFileValidator(a.Logger)
	if err := files.ValidateInputFile(a.Config.Subjects.Path); err != nil {
		return nil, fmt.Errorf("invalid subjects file: %w", err)
	}
	if err := files.ValidateOutputFile(out.Path, string(format)); err != nil {
		return nil, err
	}

	ds, err := dataprocessing.LoadDataset(a.Config.Subjects.Path, a.Config.Subjects.Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	a.Logger.InfoContext(ctx, "subjects loaded",
		"path", a.Config.Subjects.Path,
		"sheet", ds.Sheet,
		"records", ds.Len(),
		"invalid_records", ds.InvalidRecords(),
	)

	batch, err := a.Processor.Process(ctx, ds.Subjects)
	if err != nil {
		return nil, err
	}

	scored, err := exporter.BuildScored(ds, batch, out.ErrorColumns)
	if err != nil {
		return nil, err
	}

	err = exporter.New(a.Logger).Export(ctx, scored, exporter.Options{
		Path:      out.Path,
		Format:    format,
		Sheet:     exporter.DefaultSheet,
		BOMPrefix: out.BOMPrefix,
		Summary:   out.Summary,
	})
	if err != nil {
		return nil, err
	}

	return &BatchReport{
		RunID:      batch.RunID,
		OutputPath: out.Path,
		Records:    ds.Len(),
		Invalid:    ds.InvalidRecords(),
		Weight:     pipeline.Count(batch.Weight),
		Height:     pipeline.Count(batch.Height),
	}, nil
}

// Handler returns the HTTP handler of the scoring service
func (a *Application) Handler() http.Handler {
	if a.Router != nil {
		return a.Router
	}

	opts := handlers.RouterOptions{
		Processor:    a.Processor,
		Server:       a.Config.Server,
		Logger:       a.Logger,
		Metrics:      a.OTelProviders.PrometheusHTTP,
		IncludeStack: a.Config.Telemetry.Environment == "development",
	}

	otelMiddleware, err := middleware.NewOTelMiddleware(a.OTelProviders)
	if err != nil {
		a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
	} else {
		opts.OTel = otelMiddleware
	}

	a.Router = handlers.NewRouter(opts)
	return a.Router
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Handler(),
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Serve accepts connections on ln until ctx is done, then shuts the server down
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if a.Server == nil {
		a.createServer()
	}

	a.Logger.InfoContext(ctx, "scoring service listening",
		slog.String("addr", ln.Addr().String()),
		slog.String("version", infrastructure.ServiceVersion),
		slog.Int("weight_rows", a.Tables.Weight.Len()),
		slog.Int("height_rows", a.Tables.Height.Len()),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "shutdown requested")
	}

	if err := a.Stop(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Run serves the API on the configured port until interrupted
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", a.Config.Server.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", a.Config.Server.Port, err)
	}
	return a.Serve(ctx, ln)
}

// Stop shuts the HTTP server down within the configured timeout
func (a *Application) Stop(ctx context.Context) error {
	if a.Server == nil {
		return nil
	}
	a.Logger.InfoContext(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Close flushes telemetry. It is safe to call after Stop.
func (a *Application) Close(ctx context.Context) error {
	if a.OTelProviders == nil {
		return nil
	}
	if err := a.OTelProviders.Shutdown(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		return err
	}
	return nil
}
