package fetch

import (
	"context"

	"github.com/nao1215/simprofile/internal/api"
	"github.com/nao1215/simprofile/internal/model"
	"github.com/nao1215/simprofile/internal/paginate"
)

// Source is the part of the API the fetchers consume.
// *api.Client implements it.
type Source interface {
	ProjectsURL(username string) paginate.URLBuilder
	ProjectPage() paginate.FetchFunc[api.ProjectItem]
	RelationsURL(kind model.RelationKind, username string) paginate.URLBuilder
	RelationPage(kind model.RelationKind) paginate.FetchFunc[model.UserSummary]
	Count(ctx context.Context, kind model.RelationKind, username string) (int64, error)
}

var _ Source = (*api.Client)(nil)
