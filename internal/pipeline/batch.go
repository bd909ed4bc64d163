package pipeline

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/nao1215/gdpdash/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of years processed at once.
const DefaultConcurrency = 4

// BatchProcessor runs one pipeline per year over a shared dataset.
//
// Design decision: We keep batch work out of Pipeline so that a pipeline
// stays a description of a single run. The dataset is loaded once by the
// caller and attached to every report; steps only read it.
type BatchProcessor struct {
	pipelineFactory func() *Pipeline
	concurrency     int
	logger          *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent runs.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor. pipelineFactory is called once
// per year so that no pipeline state is shared between runs.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessYears runs the pipeline for base with each of years, in parallel.
// Reports are returned in the order of years. A failed year records its
// error in its report and does not stop the others; the returned error is
// only set when ctx is cancelled, in which case years that never started
// have a nil report.
func (bp *BatchProcessor) ProcessYears(ctx context.Context, ds *model.Dataset, base model.RunConfig, years []string) ([]*model.RunReport, error) {
	bp.logger.Debug("starting year sweep",
		"years", len(years),
		"concurrency", bp.concurrency,
	)
	start := time.Now()

	// Each goroutine writes only its own index.
	reports := make([]*model.RunReport, len(years))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, year := range years {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			cfg := base
			cfg.Year = year
			report := model.NewRunReport(cfg)
			Attach(report, ds)

			if err := bp.pipelineFactory().Execute(ctx, report); err != nil {
				bp.logger.Debug("year failed", "year", year, "error", err)
			}
			reports[i] = report
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Debug("year sweep complete",
		"years", len(years),
		"elapsed", time.Since(start),
	)
	return reports, err
}

// YearsBetween lists the years from start to end inclusive as strings.
func YearsBetween(start, end int) []string {
	if end < start {
		return nil
	}
	years := make([]string, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, strconv.Itoa(y))
	}
	return years
}
