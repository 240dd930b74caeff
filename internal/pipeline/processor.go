package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"growthcli/internal/infrastructure"
	"growthcli/internal/lms"
)

// Tables holds the reference table for each measurement
type Tables struct {
	Weight *lms.Table
	Height *lms.Table
}

// For returns the table scored against m
func (t Tables) For(m Measurement) *lms.Table {
	if m == Height {
		return t.Height
	}
	return t.Weight
}

// Options configures a Processor
type Options struct {
	Mode OutputMode
	// Concurrency bounds concurrent scoring; values below 1 mean GOMAXPROCS
	Concurrency int
	Logger      *slog.Logger
	Telemetry   *Telemetry
}

// Processor scores subjects against immutable reference tables. It is safe for
// concurrent use.
type Processor struct {
	tables      Tables
	mode        OutputMode
	concurrency int
	logger      *slog.Logger
	telemetry   *Telemetry
}

// Batch is the outcome of scoring every measurement of a subject set
type Batch struct {
	RunID    string
	Mode     OutputMode
	Weight   []Result
	Height   []Result
	Duration time.Duration
}

// Results returns the results for m
func (b *Batch) Results(m Measurement) []Result {
	if m == Height {
		return b.Height
	}
	return b.Weight
}

// NewProcessor creates a processor over both reference tables
func NewProcessor(tables Tables, opts Options) (*Processor, error) {
	if tables.Weight == nil || tables.Height == nil {
		return nil, errors.New("pipeline: weight and height tables are required")
	}
	if tables.Weight.Kind() != lms.WeightForAge {
		return nil, fmt.Errorf("pipeline: weight table is %s", tables.Weight.Kind())
	}
	if tables.Height.Kind() != lms.LengthForAge {
		return nil, fmt.Errorf("pipeline: height table is %s", tables.Height.Kind())
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Processor{
		tables:      tables,
		mode:        opts.Mode,
		concurrency: concurrency,
		logger:      logger.With("component", "pipeline"),
		telemetry:   opts.Telemetry,
	}, nil
}

// Mode returns the configured output mode
func (p *Processor) Mode() OutputMode {
	return p.mode
}

// Tables returns the reference tables
func (p *Processor) Tables() Tables {
	return p.tables
}

// WithMode returns a processor sharing p's tables that emits values in mode
func (p *Processor) WithMode(mode OutputMode) *Processor {
	cp := *p
	cp.mode = mode
	return &cp
}

// Score scores one measurement of one subject
func (p *Processor) Score(ctx context.Context, m Measurement, s Subject) Result {
	raw := s.Value(m)

	// negative values mark a measurement as not recorded
	if raw < 0 {
		return missingResult(m, raw)
	}

	if s.Err != nil {
		return failedResult(m, raw, s.Err)
	}

	if math.IsNaN(s.AgeDays) || math.IsInf(s.AgeDays, 0) || s.AgeDays < 0 {
		return failedResult(m, raw, fmt.Errorf("age %v days: %w", s.AgeDays, lms.ErrInvalidInput))
	}

	sex := lms.SexFromCode(s.SexCode)
	params, err := p.tables.For(m).Lookup(lms.AgeInMonths(s.AgeDays), sex)
	if err != nil {
		return failedResult(m, raw, err)
	}

	z, err := lms.ZScore(m.Convert(raw), params)
	if err != nil {
		return failedResult(m, raw, fmt.Errorf("%s: %w", m, err))
	}

	percentile, err := lms.Percentile(z)
	if err != nil {
		return failedResult(m, raw, err)
	}

	value := z
	if p.mode == ModePercentile {
		value = percentile
	}

	return Result{
		Measurement: m,
		Raw:         raw,
		Value:       value,
		ZScore:      z,
		Percentile:  percentile,
		Status:      StatusOK,
	}
}

// ProcessMeasurement scores m for every subject. The returned slice is index-aligned
// with subjects. Only context cancellation produces an error.
func (p *Processor) ProcessMeasurement(ctx context.Context, m Measurement, subjects []Subject) ([]Result, error) {
	ctx, span := p.telemetry.startSpan(ctx, m, len(subjects))

	results := make([]Result, len(subjects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i := range subjects {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.Score(gctx, m, subjects[i])
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		p.telemetry.endSpan(span, Counts{}, err)
		return nil, err
	}

	counts := Counts{}
	for i, r := range results {
		counts.Add(r.Status)
		p.telemetry.recordResult(ctx, r)
		if r.Failed() {
			p.logger.DebugContext(ctx, "record not scored",
				"measurement", m.String(),
				"index", i,
				"status", string(r.Status),
				"error", r.Err,
			)
		}
	}
	p.telemetry.endSpan(span, counts, nil)

	return results, nil
}

// Process scores both measurements for every subject and tags the run with a run ID
func (p *Processor) Process(ctx context.Context, subjects []Subject) (*Batch, error) {
	start := time.Now()

	runID := infrastructure.GetRunID(ctx)
	if runID == "" {
		ctx, runID = infrastructure.NewRunContext(ctx)
	}

	p.logger.InfoContext(ctx, "starting scoring run",
		"records", len(subjects),
		"mode", p.mode.String(),
		"concurrency", p.concurrency,
	)

	batch := &Batch{RunID: runID, Mode: p.mode}
	for _, m := range Measurements {
		results, err := p.ProcessMeasurement(ctx, m, subjects)
		if err != nil {
			p.logger.WarnContext(ctx, "scoring run cancelled",
				"measurement", m.String(),
				"error", err,
			)
			return nil, fmt.Errorf("process %s: %w", m, err)
		}
		if m == Height {
			batch.Height = results
		} else {
			batch.Weight = results
		}

		counts := Count(results)
		p.logger.InfoContext(ctx, "measurement scored",
			"measurement", m.String(),
			"ok", counts.OK,
			"missing", counts.Missing,
			"not_found", counts.NotFound,
			"invalid_input", counts.InvalidInput,
			"non_finite", counts.NonFinite,
		)
	}

	batch.Duration = time.Since(start)
	p.telemetry.recordBatch(ctx, len(subjects), batch.Duration)

	p.logger.InfoContext(ctx, "scoring run complete",
		"records", len(subjects),
		"duration", batch.Duration,
	)

	return batch, nil
}
