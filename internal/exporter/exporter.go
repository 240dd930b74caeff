package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Format selects the export file type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat converts "csv" or "xlsx" into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Options configures an export
type Options struct {
	Path      string
	Format    Format
	Sheet     string
	BOMPrefix bool
	// Summary also writes the column summary report next to Path
	Summary bool
}

// Exporter writes scored datasets and their summaries
type Exporter struct {
	csv    *CSVWriter
	logger *slog.Logger
}

// New creates an exporter
func New(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		csv:    NewCSVWriter(),
		logger: logger.With("component", "exporter"),
	}
}

// Export writes s according to opts and, when requested, its summary report
func (e *Exporter) Export(ctx context.Context, s *Scored, opts Options) error {
	if opts.Path == "" {
		return fmt.Errorf("export path is required")
	}

	e.logger.InfoContext(ctx, "writing scored dataset",
		"path", opts.Path,
		"format", string(opts.Format),
		"records", len(s.Records),
		"columns", len(s.Headers),
	)

	var err error
	switch opts.Format {
	case FormatXLSX:
		err = WriteXLSX(opts.Path, opts.Sheet, s)
	case FormatCSV, "":
		err = e.csv.WriteCSV(opts.Path, WriteOptions{
			Headers:   s.Headers,
			Records:   s.Records,
			BOMPrefix: opts.BOMPrefix,
		})
	default:
		err = fmt.Errorf("unsupported export format %q", opts.Format)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", opts.Path, err)
	}

	if !opts.Summary || s.Batch == nil {
		return nil
	}

	summaryPath := SummaryPath(opts.Path)
	if err := e.WriteSummary(summaryPath, Summarize(s.Batch), opts.BOMPrefix); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "summary report written", "path", summaryPath)

	return nil
}

// WriteSummary writes summaries as CSV to path
func (e *Exporter) WriteSummary(path string, summaries []ColumnSummary, bom bool) error {
	err := e.csv.WriteCSV(path, WriteOptions{
		Headers:   summaryHeaders,
		Records:   summaryRecords(summaries),
		BOMPrefix: bom,
	})
	if err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	return nil
}
