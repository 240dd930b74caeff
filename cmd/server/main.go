// Command server exposes the growth scoring engine over HTTP.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"growthcli/internal/app"
	"growthcli/internal/config"
	"growthcli/internal/infrastructure"
)

func main() {
	configFile := flag.String("config", "", "YAML configuration file (default $GROWTH_CONFIG_FILE or growth.yaml)")
	port := flag.Int("port", 0, "listen port (overrides GROWTH_SERVER_PORT)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	ctx := context.Background()
	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer application.Close(ctx)

	if err := application.Run(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
