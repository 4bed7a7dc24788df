// Package browser models the followers/following modal of a profile page.
//
// The modal is a two-state machine: closed, or open on one relation kind.
// Opening loads the kind's users through the relation fetcher (which
// caches them) and builds the kind's view the first time only; later
// opens show the same view again. While the modal is open background
// scrolling is locked.
package browser

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nao1215/simprofile/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fetcher loads a relation list. *fetch.Relations implements it.
type Fetcher interface {
	Fetch(ctx context.Context, kind model.RelationKind, username string) ([]model.UserSummary, error)
}

// View is the rendered content of the modal for one relation kind.
type View struct {
	Kind  model.RelationKind
	Title string
	Users []model.UserSummary
}

// Browser is the modal state machine. It is safe for concurrent use.
type Browser struct {
	fetcher  Fetcher
	username string
	logger   *slog.Logger
	onScroll func(locked bool)

	mu       sync.Mutex
	open     model.RelationKind // empty when closed
	locked   bool
	views    map[model.RelationKind]*View
	titleFor cases.Caser
}

// Option configures a Browser.
type Option func(*Browser)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Browser) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithScrollHook registers a function called whenever the scroll lock
// changes.
func WithScrollHook(fn func(locked bool)) Option {
	return func(b *Browser) {
		b.onScroll = fn
	}
}

// New creates a closed browser for the relations of username.
func New(fetcher Fetcher, username string, opts ...Option) *Browser {
	b := &Browser{
		fetcher:  fetcher,
		username: username,
		logger:   slog.Default(),
		views:    make(map[model.RelationKind]*View, 2),
		titleFor: cases.Title(language.English),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open opens the modal on kind and returns its view.
//
// The users are always requested from the fetcher, which answers from its
// cache when it can. The view itself is built on the first open of kind and
// reused afterwards. A fetch error is returned alongside the view: the
// modal still opens with whatever users were loaded.
func (b *Browser) Open(ctx context.Context, kind model.RelationKind) (*View, error) {
	users, fetchErr := b.fetcher.Fetch(ctx, kind, b.username)
	if fetchErr != nil {
		b.logger.Error("failed to fetch relation list",
			"kind", kind.String(),
			"users", len(users),
			"error", fetchErr,
		)
	}

	b.mu.Lock()
	view, ok := b.views[kind]
	if !ok {
		view = &View{
			Kind:  kind,
			Title: b.titleFor.String(kind.String()),
			Users: users,
		}
		b.views[kind] = view
	}
	b.open = kind
	changed := !b.locked
	b.locked = true
	b.mu.Unlock()

	if changed && b.onScroll != nil {
		b.onScroll(true)
	}
	return view, fetchErr
}

// Close closes the modal and unlocks scrolling.
// It reports false when the modal was already closed.
func (b *Browser) Close() bool {
	b.mu.Lock()
	if b.open == "" {
		b.mu.Unlock()
		return false
	}
	b.open = ""
	b.locked = false
	b.mu.Unlock()

	if b.onScroll != nil {
		b.onScroll(false)
	}
	return true
}

// Current returns the open kind, or false when the modal is closed.
func (b *Browser) Current() (model.RelationKind, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open, b.open != ""
}

// ScrollLocked reports whether background scrolling is locked.
func (b *Browser) ScrollLocked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Built reports whether the view of kind has been built.
func (b *Browser) Built(kind model.RelationKind) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.views[kind]
	return ok
}
