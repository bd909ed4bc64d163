package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/gdpdash/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// report from previous steps.
type Step interface {
	// Do executes the step. A returned error stops the pipeline unless it
	// was created WithContinueOnError.
	Do(ctx context.Context, report *model.RunReport) error

	// Name returns the step's name for logging and for RunReport.Steps.
	Name() string
}

// Skipper is implemented by steps that only apply to some runs.
// A skipped step is neither executed nor recorded in RunReport.Steps.
type Skipper interface {
	Skip(report *model.RunReport) bool
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
	afterStep       func(step string, report *model.RunReport)
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to run the remaining steps
// after one fails. The failure is still recorded in the report.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// WithAfterStep registers fn to be called after every step that succeeds,
// with the step name and the report as the step left it. It lets callers
// print progress while the remaining steps still run.
func WithAfterStep(fn func(step string, report *model.RunReport)) Option {
	return func(p *Pipeline) {
		p.afterStep = fn
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// Cancellation is checked before each step. The first error is returned
// and recorded in report.Error; with continueOnError the remaining steps
// still run. report.FinishedAt is set when Execute returns.
func (p *Pipeline) Execute(ctx context.Context, report *model.RunReport) error {
	defer func() {
		report.FinishedAt = time.Now().UTC()
	}()

	var firstErr error
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			report.Error = ctx.Err().Error()
			return ctx.Err()
		default:
		}

		if s, ok := step.(Skipper); ok && s.Skip(report) {
			p.logger.Debug("step skipped", "step", step.Name(), "run", report.ID)
			continue
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"run", report.ID,
			"year", report.Config.Year,
		)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Debug("step failed",
				"step", step.Name(),
				"run", report.ID,
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
				report.Error = err.Error()
			}
			if !p.continueOnError {
				return err
			}
		} else if p.afterStep != nil {
			p.afterStep(step.Name(), report)
		}

		report.Steps = append(report.Steps, step.Name())
	}
	return firstErr
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
