package stats

import (
	"context"
	"log/slog"

	"github.com/nao1215/simprofile/internal/api"
	"github.com/nao1215/simprofile/internal/model"
	"golang.org/x/sync/errgroup"
)

// Source loads the tip total of one project.
// *api.Client implements it.
type Source interface {
	TipTotal(ctx context.Context, projectID string) (int64, error)
}

var _ Source = (*api.Client)(nil)

// Recorder stores the tips of a project. *model.Catalog implements it.
type Recorder interface {
	SetTips(id string, tips int64) bool
}

var _ Recorder = (*model.Catalog)(nil)

// Summary is the outcome of an aggregation.
type Summary struct {
	// Total is the sum of all successfully loaded tips.
	Total int64

	// Succeeded and Failed count the settled requests.
	Succeeded int
	Failed    int
}

// Complete reports whether every project's stats were loaded.
func (s Summary) Complete() bool {
	return s.Failed == 0
}

// outcome is one settled stats request.
type outcome struct {
	id   string
	tips int64
	err  error
}

// Aggregator loads per-project stats concurrently.
type Aggregator struct {
	src         Source
	concurrency int
	observer    Observer
	logger      *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency bounds the number of in-flight stats requests.
// Zero or less means unbounded: one request per project at once.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.concurrency = n
	}
}

// WithObserver sets the observer notified as results arrive.
func WithObserver(o Observer) Option {
	return func(a *Aggregator) {
		if o != nil {
			a.observer = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAggregator creates an aggregator that reads stats from src.
//
// Design decision: the default fan-out is unbounded, matching the page
// behavior of firing every stats request at once. Large profiles can
// bound it with WithConcurrency.
func NewAggregator(src Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		src:      src,
		observer: NopObserver{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate loads the stats of every entry and returns once all requests
// have settled. Results are applied in arrival order: rec.SetTips and the
// observer are called from the calling goroutine only.
func (a *Aggregator) Aggregate(ctx context.Context, entries []model.ProjectEntry, rec Recorder) Summary {
	results := make(chan outcome)

	go func() {
		var g errgroup.Group
		if a.concurrency > 0 {
			g.SetLimit(a.concurrency)
		}
		for _, e := range entries {
			id := e.Project.ID
			g.Go(func() error {
				tips, err := a.src.TipTotal(ctx, id)
				results <- outcome{id: id, tips: tips, err: err}
				return nil
			})
		}
		_ = g.Wait() // workers never return errors
		close(results)
	}()

	var summary Summary
	for o := range results {
		if o.err != nil {
			summary.Failed++
			a.logger.Warn("could not fetch project stats",
				"project", o.id,
				"error", o.err,
			)
			a.observer.ProjectFailed(o.id, o.err)
			continue
		}

		summary.Succeeded++
		summary.Total += o.tips
		a.observer.TotalUpdated(summary.Total)
		a.observer.ProjectUpdated(o.id, o.tips)
		if rec != nil {
			rec.SetTips(o.id, o.tips)
		}
	}

	a.logger.Debug("stats aggregation complete",
		"projects", len(entries),
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"total", summary.Total,
	)
	return summary
}
