// Package app wires configuration, logging, telemetry, reference tables and the scoring
// processor into the two programs of this module.
//
// # Initialization Flow
//
//	1. Load configuration (cmd: config.Load plus flag overrides)
//	2. Initialize the slog logger
//	3. Initialize OpenTelemetry providers and growth metrics
//	4. Load and validate both reference tables; a bad table aborts startup
//	5. Build the pipeline.Processor in the configured output mode
//
// After that, RunBatch scores a subject dataset and exports it, while Run serves the
// HTTP API until SIGINT or SIGTERM and shuts down gracefully.
//
// # Usage
//
//	application, err := app.New(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	defer application.Close(ctx)
//	report, err := application.RunBatch(ctx)
package app
