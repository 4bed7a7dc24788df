package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/simprofile/internal/api"
	"github.com/nao1215/simprofile/internal/fetch"
	"github.com/nao1215/simprofile/internal/model"
	"github.com/nao1215/simprofile/internal/paginate"
	"github.com/nao1215/simprofile/internal/stats"
)

// Source is the part of the API the load steps consume.
// *api.Client implements it.
type Source interface {
	fetch.Source
	stats.Source
}

var _ Source = (*api.Client)(nil)

// CountStep loads the follower or following count.
// On failure the count stays unset and renders as not available.
type CountStep struct {
	src  fetch.Source
	kind model.RelationKind
}

// NewCountStep creates a step that loads the count of kind.
func NewCountStep(src fetch.Source, kind model.RelationKind) *CountStep {
	return &CountStep{src: src, kind: kind}
}

// Name implements Step.
func (s *CountStep) Name() string {
	return s.kind.String() + "-count"
}

// Flow implements Step.
func (s *CountStep) Flow() model.Flow {
	return model.CountFlow(s.kind)
}

// Do implements Step.
func (s *CountStep) Do(ctx context.Context, state *model.ProfileState) error {
	n, err := fetch.Count(ctx, s.src, s.kind, state.Identity().Username)
	if err != nil {
		return err
	}
	state.SetCount(s.kind, n)
	return nil
}

// ProjectsStep loads the project list and then aggregates its stats.
//
// The list is published to the state as soon as it is fetched, with zero
// tips on every entry. The stats follow progressively: the running total
// on the state and each entry's tips are updated as results arrive.
type ProjectsStep struct {
	src       Source
	pageOpts  []paginate.Option
	statsOpts []stats.Option
	observer  stats.Observer
	onListed  func(entries []model.ProjectEntry)
	logger    *slog.Logger
}

// ProjectsStepOption configures a ProjectsStep.
type ProjectsStepOption func(*ProjectsStep)

// WithPageOptions sets options applied to the project walk.
func WithPageOptions(opts ...paginate.Option) ProjectsStepOption {
	return func(s *ProjectsStep) {
		s.pageOpts = append(s.pageOpts, opts...)
	}
}

// WithStatsOptions sets options applied to the stats aggregator.
func WithStatsOptions(opts ...stats.Option) ProjectsStepOption {
	return func(s *ProjectsStep) {
		s.statsOpts = append(s.statsOpts, opts...)
	}
}

// WithStatsObserver registers an observer of the stats events, in
// addition to the state itself.
func WithStatsObserver(o stats.Observer) ProjectsStepOption {
	return func(s *ProjectsStep) {
		s.observer = o
	}
}

// WithListedCallback registers a function called with the entries as soon
// as the project list is published, before any stats are requested.
func WithListedCallback(fn func(entries []model.ProjectEntry)) ProjectsStepOption {
	return func(s *ProjectsStep) {
		s.onListed = fn
	}
}

// WithProjectsLogger sets a custom logger for the projects step.
func WithProjectsLogger(logger *slog.Logger) ProjectsStepOption {
	return func(s *ProjectsStep) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewProjectsStep creates the projects and stats step.
func NewProjectsStep(src Source, opts ...ProjectsStepOption) *ProjectsStep {
	s := &ProjectsStep{
		src:    src,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Step.
func (s *ProjectsStep) Name() string {
	return "projects"
}

// Flow implements Step.
func (s *ProjectsStep) Flow() model.Flow {
	return model.FlowProjects
}

// Do implements Step.
//
// A walk that stopped early still publishes and aggregates the projects it
// fetched; the walk error is returned so the projects region can flag the
// list as incomplete. Stats failures are recorded under the stats flow.
func (s *ProjectsStep) Do(ctx context.Context, state *model.ProfileState) error {
	username := state.Identity().Username
	pageOpts := append([]paginate.Option{paginate.WithLogger(s.logger)}, s.pageOpts...)

	result := fetch.Projects(ctx, s.src, username, pageOpts...)
	state.SetProjects(result.Entries, result.ProfileProjects)

	catalog := state.Catalog()
	entries := catalog.Snapshot()
	if s.onListed != nil {
		s.onListed(entries)
	}

	s.logger.Debug("projects listed",
		"user", username,
		"projects", len(entries),
		"profile_projects", len(result.ProfileProjects),
		"pages", result.Pages,
	)

	statsOpts := append([]stats.Option{stats.WithLogger(s.logger)}, s.statsOpts...)
	statsOpts = append(statsOpts, stats.WithObserver(stats.Observers(stateObserver{state: state}, s.observer)))
	summary := stats.NewAggregator(s.src, statsOpts...).Aggregate(ctx, entries, catalog)

	state.SetTotalCredits(summary.Total)
	state.MarkStatsComplete()
	if summary.Failed > 0 {
		state.RecordError(model.FlowStats,
			fmt.Errorf("stats of %d of %d projects could not be loaded", summary.Failed, len(entries)))
	}

	if result.Err != nil {
		return fmt.Errorf("project list incomplete: %w", result.Err)
	}
	return nil
}

// stateObserver publishes the running total onto the profile state.
type stateObserver struct {
	stats.NopObserver
	state *model.ProfileState
}

func (o stateObserver) TotalUpdated(total int64) {
	o.state.SetTotalCredits(total)
}
