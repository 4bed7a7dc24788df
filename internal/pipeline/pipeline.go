package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/simprofile/internal/model"
	"golang.org/x/sync/errgroup"
)

// Step defines the interface that all pipeline steps must implement.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides Name() and Flow() for logging and error attribution
type Step interface {
	// Do executes the step, writing its results into state.
	// The returned error is recorded against Flow() and never stops
	// other steps.
	Do(ctx context.Context, state *model.ProfileState) error

	// Name returns the step's name for logging purposes.
	Name() string

	// Flow returns the profile region the step fills.
	Flow() model.Flow
}

// Pipeline orchestrates the concurrent execution of isolated steps.
type Pipeline struct {
	// steps contains the steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
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

// Execute runs every step concurrently and waits for all of them.
//
// A failing step is logged and its error recorded on state under the
// step's flow; the remaining steps keep running. Execute itself only
// returns an error when ctx was cancelled before every step finished.
func (p *Pipeline) Execute(ctx context.Context, state *model.ProfileState) error {
	start := time.Now()
	username := state.Identity().Username

	var g errgroup.Group
	for _, step := range p.steps {
		g.Go(func() error {
			p.logger.Debug("executing step",
				"step", step.Name(),
				"user", username,
			)

			if err := step.Do(ctx, state); err != nil {
				p.logger.Error("step failed",
					"step", step.Name(),
					"user", username,
					"error", err,
				)
				state.RecordError(step.Flow(), err)
				return nil
			}

			p.logger.Debug("step completed",
				"step", step.Name(),
				"user", username,
			)
			return nil
		})
	}
	_ = g.Wait() // steps never return errors to the group

	p.logger.Debug("pipeline complete",
		"user", username,
		"steps", len(p.steps),
		"elapsed", time.Since(start),
	)

	if err := ctx.Err(); err != nil {
		p.logger.Warn("pipeline cancelled",
			"user", username,
			"reason", err,
		)
		return err
	}
	return nil
}

// StepNames returns the names of all steps in the order they were added.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
