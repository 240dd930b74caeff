// Command zscore scores a subject dataset against the weight-for-age and
// length/stature-for-age reference tables and writes it back with derived columns.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"growthcli/internal/app"
	"growthcli/internal/config"
	"growthcli/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("zscore failed", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
	infrastructure.CloseLogFile()
}

// run parses args, applies them over the loaded configuration and scores the dataset
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("zscore", flag.ContinueOnError)
	configFile := fs.String("config", "", "YAML configuration file (default $GROWTH_CONFIG_FILE or growth.yaml)")
	in := fs.String("in", "", "subject dataset (.xlsx or .csv) with WEIGHT, HEIGHT, AGE_DAYS and SEX columns")
	sheet := fs.String("sheet", "", "dataset sheet name")
	out := fs.String("out", "", "output path")
	format := fs.String("format", "", "output format: csv or xlsx")
	mode := fs.String("mode", "", "derived value: zscore or percentile")
	weight := fs.String("weight", "", "weight-for-age reference table")
	height := fs.String("height", "", "length/stature-for-age reference table")
	summary := fs.Bool("summary", false, "also write <out>.summary.csv")
	errorColumns := fs.Bool("error-columns", true, "add a status column per derived column")
	bom := fs.Bool("bom", false, "prefix CSV output with a UTF-8 BOM")
	concurrency := fs.Int("concurrency", 0, "records scored at once (0 means GOMAXPROCS)")
	sexFilter := fs.Bool("sex-filter-at-birth", false, "apply the sex filter to lookups at zero months")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags override the configuration only when given
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.Subjects.Path = *in
		case "sheet":
			cfg.Subjects.Sheet = *sheet
		case "out":
			cfg.Output.Path = *out
		case "format":
			cfg.Output.Format = *format
		case "mode":
			cfg.Output.Mode = *mode
		case "weight":
			cfg.Tables.WeightPath = *weight
		case "height":
			cfg.Tables.HeightPath = *height
		case "summary":
			cfg.Output.Summary = *summary
		case "error-columns":
			cfg.Output.ErrorColumns = *errorColumns
		case "bom":
			cfg.Output.BOMPrefix = *bom
		case "concurrency":
			cfg.Processing.Concurrency = *concurrency
		case "sex-filter-at-birth":
			cfg.Processing.SexFilterAtBirth = *sexFilter
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Subjects.Path == "" {
		return fmt.Errorf("no subject dataset: pass -in or set GROWTH_SUBJECTS_PATH")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close(context.WithoutCancel(ctx))

	report, err := application.RunBatch(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "scored %d records (run %s) -> %s\n", report.Records, report.RunID, report.OutputPath)
	fmt.Fprintf(stdout, "  weight: ok=%d missing=%d failed=%d\n", report.Weight.OK, report.Weight.Missing, report.Weight.Failed())
	fmt.Fprintf(stdout, "  height: ok=%d missing=%d failed=%d\n", report.Height.OK, report.Height.Missing, report.Height.Failed())
	if report.Invalid > 0 {
		fmt.Fprintf(stdout, "  %d records had unreadable AGE_DAYS or SEX\n", report.Invalid)
	}
	return nil
}
