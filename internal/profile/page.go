package profile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nao1215/simprofile/internal/api"
	"github.com/nao1215/simprofile/internal/browser"
	"github.com/nao1215/simprofile/internal/cache"
	"github.com/nao1215/simprofile/internal/fetch"
	"github.com/nao1215/simprofile/internal/identity"
	"github.com/nao1215/simprofile/internal/model"
	"github.com/nao1215/simprofile/internal/paginate"
	"github.com/nao1215/simprofile/internal/pipeline"
	"github.com/nao1215/simprofile/internal/stats"
	"github.com/nao1215/simprofile/internal/view"
)

// Tip defaults.
const (
	// TipMessage is the content of the comment that carries a tip.
	TipMessage = "Tipping 1000 credits to this amazing profile!"

	// TipCredits is the amount of credits sent with a tip.
	TipCredits = 1000
)

// Source is the API surface a page consumes.
// *api.Client implements it.
type Source interface {
	pipeline.Source
	PostComment(ctx context.Context, projectID string, comment api.Comment) error
}

var _ Source = (*api.Client)(nil)

// Page is the controller of one profile page. It is safe for concurrent use.
type Page struct {
	src      Source
	resolver identity.Resolver
	logger   *slog.Logger

	pageSize         int
	statsConcurrency int
	observer         stats.Observer
	onListed         func(entries []model.ProjectEntry)
	onPage           func(page, items int)

	mu        sync.Mutex
	sort      model.SortState
	id        *model.Identity
	state     *model.ProfileState
	relations *fetch.Relations
	browser   *browser.Browser
}

// Option configures a Page.
type Option func(*Page)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Page) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSortState sets the initial sort state.
func WithSortState(s model.SortState) Option {
	return func(p *Page) {
		p.sort = s
	}
}

// WithPageSize sets the page size of every collection walk.
func WithPageSize(n int) Option {
	return func(p *Page) {
		p.pageSize = n
	}
}

// WithStatsConcurrency bounds the in-flight stats requests.
// Zero means unbounded.
func WithStatsConcurrency(n int) Option {
	return func(p *Page) {
		p.statsConcurrency = n
	}
}

// WithStatsObserver registers an observer of the stats events.
func WithStatsObserver(o stats.Observer) Option {
	return func(p *Page) {
		p.observer = o
	}
}

// WithListedCallback registers a function called with the project list as
// soon as it is fetched, before any stats arrive.
func WithListedCallback(fn func(entries []model.ProjectEntry)) Option {
	return func(p *Page) {
		p.onListed = fn
	}
}

// WithPageCallback registers a function called after each page of the
// project list with the number of projects fetched so far.
func WithPageCallback(fn func(page, items int)) Option {
	return func(p *Page) {
		p.onPage = fn
	}
}

// New creates an unloaded page.
func New(src Source, resolver identity.Resolver, opts ...Option) *Page {
	p := &Page{
		src:      src,
		resolver: resolver,
		logger:   slog.Default(),
		pageSize: paginate.MaxPageSize,
		sort:     model.DefaultSortState(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve resolves the profile owner once and returns it.
//
// The first successful call creates the relation browser and its cache,
// which then live as long as the page. A failed resolution is not kept.
func (p *Page) Resolve(ctx context.Context) (model.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.id != nil {
		return *p.id, nil
	}

	id, err := p.resolver.Resolve(ctx)
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to resolve profile owner: %w", err)
	}

	p.id = &id
	p.relations = fetch.NewRelations(p.src, cache.NewRelations(),
		fetch.WithRelationsLogger(p.logger),
		fetch.WithPageOptions(p.pageOptions()...),
	)
	p.browser = browser.New(p.relations, id.Username, browser.WithLogger(p.logger))
	return id, nil
}

// pageOptions returns the options of every collection walk.
func (p *Page) pageOptions() []paginate.Option {
	return []paginate.Option{paginate.WithPageSize(p.pageSize)}
}

// Load resolves the profile owner and runs the load flows.
//
// Failing to resolve the owner is fatal and returned. Every other failure
// degrades its own region and is recorded on the profile instead; Load
// then returns nil unless ctx was cancelled.
//
// Loading again replaces the profile state only. Relation lists fetched
// before stay cached.
func (p *Page) Load(ctx context.Context) error {
	id, err := p.Resolve(ctx)
	if err != nil {
		return err
	}

	state := model.NewProfileState(id)
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()

	projectPages := p.pageOptions()
	if p.onPage != nil {
		projectPages = append(projectPages, paginate.WithPageCallback(p.onPage))
	}

	pl := pipeline.New(pipeline.WithLogger(p.logger))
	pl.AddSteps(
		pipeline.NewCountStep(p.src, model.RelationFollowers),
		pipeline.NewCountStep(p.src, model.RelationFollowing),
		pipeline.NewProjectsStep(p.src,
			pipeline.WithProjectsLogger(p.logger),
			pipeline.WithPageOptions(projectPages...),
			pipeline.WithStatsOptions(stats.WithConcurrency(p.statsConcurrency)),
			pipeline.WithStatsObserver(p.observer),
			pipeline.WithListedCallback(p.onListed),
		),
	)

	p.logger.Info("loading profile", "user", id.Username, "flows", pl.StepNames())
	return pl.Execute(ctx, state)
}

// loaded returns the state, or ErrNotLoaded.
func (p *Page) loaded() (*model.ProfileState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil {
		return nil, ErrNotLoaded
	}
	return p.state, nil
}

// Identity returns the profile owner, or false before it was resolved.
func (p *Page) Identity() (model.Identity, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.id == nil {
		return model.Identity{}, false
	}
	return *p.id, true
}

// Sort returns the current sort state.
func (p *Page) Sort() model.SortState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sort
}

// SetSortKey changes the sort key and keeps the order.
func (p *Page) SetSortKey(key model.SortKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sort.By = key
}

// ToggleOrder flips the sort order and returns the new one.
func (p *Page) ToggleOrder() model.SortOrder {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sort.Order = p.sort.Order.Toggle()
	return p.sort.Order
}

// SetSortState replaces the sort state.
func (p *Page) SetSortState(s model.SortState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sort = s
}

// Projects returns the project entries in the current display order.
// It reflects every stats result received so far.
func (p *Page) Projects() []model.ProjectEntry {
	state, err := p.loaded()
	if err != nil {
		return []model.ProjectEntry{}
	}
	return view.Project(state.Catalog().Snapshot(), p.Sort())
}

// Snapshot returns the profile with its projects in display order.
func (p *Page) Snapshot() (model.Profile, error) {
	state, err := p.loaded()
	if err != nil {
		return model.Profile{}, err
	}
	sort := p.Sort()
	profile := state.Snapshot()
	profile.Projects = view.Project(profile.Projects, sort)
	profile.Sort = sort
	return profile, nil
}

// OpenRelations opens the followers or following list.
// It needs the profile owner only, not a loaded page.
// A fetch error is returned with the partial view.
func (p *Page) OpenRelations(ctx context.Context, kind model.RelationKind) (*browser.View, error) {
	if _, err := p.Resolve(ctx); err != nil {
		return nil, err
	}
	return p.Browser().Open(ctx, kind)
}

// CloseRelations closes the relation list. It reports false when no list
// was open.
func (p *Page) CloseRelations() bool {
	b := p.Browser()
	if b == nil {
		return false
	}
	return b.Close()
}

// Browser returns the relation browser, or nil before the owner was
// resolved.
func (p *Page) Browser() *browser.Browser {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.browser
}

// TipTarget returns the project a tip goes to: projectID when set,
// otherwise the first profile-container project of the owner.
//
// A loaded page answers from its project list. Otherwise the list is
// fetched for this call.
func (p *Page) TipTarget(ctx context.Context, projectID string) (string, error) {
	if projectID != "" {
		return projectID, nil
	}

	if state, err := p.loaded(); err == nil {
		if containers := state.ProfileProjects(); len(containers) > 0 {
			return containers[0].ID, nil
		}
		return "", ErrNoTipTarget
	}

	id, err := p.Resolve(ctx)
	if err != nil {
		return "", err
	}
	projects := fetch.Projects(ctx, p.src, id.Username, p.pageOptions()...)
	if len(projects.ProfileProjects) > 0 {
		return projects.ProfileProjects[0].ID, nil
	}
	if projects.Err != nil {
		return "", fmt.Errorf("failed to find the profile project of @%s: %w", id.Username, projects.Err)
	}
	return "", ErrNoTipTarget
}

// Tip sends TipCredits to a project with TipMessage and returns the
// project it went to. An empty projectID tips the owner's profile project.
// Errors are never retried.
func (p *Page) Tip(ctx context.Context, projectID string) (string, error) {
	target, err := p.TipTarget(ctx, projectID)
	if err != nil {
		return "", err
	}

	comment := api.Comment{Content: TipMessage, Credits: TipCredits}
	if err := p.src.PostComment(ctx, target, comment); err != nil {
		p.logger.Error("error tipping credits", "project", target, "error", err)
		return target, fmt.Errorf("failed to tip project %s: %w", target, err)
	}

	p.logger.Info("tipped project", "project", target, "credits", TipCredits)
	return target, nil
}
