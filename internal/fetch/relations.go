package fetch

import (
	"context"
	"log/slog"

	"github.com/nao1215/simprofile/internal/cache"
	"github.com/nao1215/simprofile/internal/model"
	"github.com/nao1215/simprofile/internal/paginate"
)

// Relations fetches followers and following lists through a cache.
//
// Design decision: the cache is keyed by relation kind only, so one
// Relations value serves one profile. The page controller owns one per
// profile it renders.
type Relations struct {
	src      Source
	cache    *cache.Relations
	logger   *slog.Logger
	pageOpts []paginate.Option
}

// RelationsOption configures Relations.
type RelationsOption func(*Relations)

// WithRelationsLogger sets the logger.
func WithRelationsLogger(logger *slog.Logger) RelationsOption {
	return func(r *Relations) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPageOptions sets options applied to every walk.
func WithPageOptions(opts ...paginate.Option) RelationsOption {
	return func(r *Relations) {
		r.pageOpts = append(r.pageOpts, opts...)
	}
}

// NewRelations creates a relations fetcher backed by c.
// A nil cache gets a fresh one.
func NewRelations(src Source, c *cache.Relations, opts ...RelationsOption) *Relations {
	if c == nil {
		c = cache.NewRelations()
	}
	r := &Relations{
		src:    src,
		cache:  c,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the backing cache.
func (r *Relations) Cache() *cache.Relations {
	return r.cache
}

// Fetch returns the kind list of username.
//
// A cached non-empty list is returned without any request. Otherwise the
// collection is walked and whatever was fetched, partial or not, replaces
// the cached list. The returned error reports an early stop; the users
// are valid either way.
func (r *Relations) Fetch(ctx context.Context, kind model.RelationKind, username string) ([]model.UserSummary, error) {
	if users, ok := r.cache.Get(kind); ok {
		r.logger.Debug("relation cache hit", "kind", kind.String(), "users", len(users))
		return users, nil
	}

	opts := append([]paginate.Option{
		paginate.WithName(kind.String()),
		paginate.WithLogger(r.logger),
	}, r.pageOpts...)
	walk := paginate.Walk(ctx, r.src.RelationsURL(kind, username), r.src.RelationPage(kind), opts...)

	r.cache.Put(kind, walk.Items)
	return walk.Items, walk.Err
}
