package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"growthcli/internal/config"
	"growthcli/internal/infrastructure"
	"growthcli/internal/lms"
	"growthcli/internal/pipeline"
	"growthcli/internal/validation"
)

// TableOptions configures LoadTables
type TableOptions struct {
	Policy  lms.LookupPolicy
	Logger  *slog.Logger
	Metrics *infrastructure.GrowthMetrics
}

// LoadTable reads one reference file and builds a validated table of kind
func LoadTable(kind lms.Kind, path, sheet string, policy lms.LookupPolicy) (*lms.Table, error) {
	rows, err := LoadReference(path, sheet)
	if err != nil {
		return nil, err
	}
	table, err := lms.NewTable(kind, rows, lms.WithLookupPolicy(policy))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// LoadTables loads the weight and height reference tables named in cfg. Any integrity
// error aborts the load.
func LoadTables(ctx context.Context, cfg config.TablesConfig, opts TableOptions) (pipeline.Tables, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sources := []struct {
		kind  lms.Kind
		path  string
		sheet string
	}{
		{lms.WeightForAge, cfg.WeightPath, cfg.WeightSheet},
		{lms.LengthForAge, cfg.HeightPath, cfg.HeightSheet},
	}

	files := validation.NewFileValidator(logger)

	var tables pipeline.Tables
	for _, src := range sources {
		var table *lms.Table
		err := files.ValidateInputFile(src.path)
		if err == nil {
			table, err = LoadTable(src.kind, src.path, src.sheet, opts.Policy)
		}
		recordTableLoad(ctx, opts.Metrics, src.kind, err)
		if err != nil {
			logger.ErrorContext(ctx, "reference table rejected",
				"kind", src.kind.String(),
				"path", src.path,
				"error", err,
			)
			return pipeline.Tables{}, fmt.Errorf("load %s table: %w", src.kind, err)
		}

		logger.InfoContext(ctx, "reference table loaded",
			"kind", src.kind.String(),
			"path", src.path,
			"rows", table.Len(),
			"policy", table.Policy().String(),
		)

		if src.kind == lms.WeightForAge {
			tables.Weight = table
		} else {
			tables.Height = table
		}
	}

	return tables, nil
}

func recordTableLoad(ctx context.Context, metrics *infrastructure.GrowthMetrics, kind lms.Kind, err error) {
	if metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.TablesLoaded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind.String()),
		attribute.String("outcome", outcome),
	))
}
