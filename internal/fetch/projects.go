package fetch

import (
	"context"

	"github.com/nao1215/simprofile/internal/model"
	"github.com/nao1215/simprofile/internal/paginate"
)

// ProjectsResult is the outcome of loading a user's projects.
type ProjectsResult struct {
	// Entries are the user's content projects in fetch order, with zero tips.
	Entries []model.ProjectEntry

	// ProfileProjects are the profile-container projects that were
	// filtered out of Entries.
	ProfileProjects []model.Project

	// Pages is the number of pages fetched successfully.
	Pages int

	// Err is the error that ended the walk early, or nil.
	Err error
}

// Projects fetches every posted project of username.
//
// Profile-container projects (slug containing "profile") are removed from
// the entries and reported separately. Every entry starts with zero tips.
func Projects(ctx context.Context, src Source, username string, opts ...paginate.Option) ProjectsResult {
	opts = append([]paginate.Option{paginate.WithName("projects")}, opts...)
	walk := paginate.Walk(ctx, src.ProjectsURL(username), src.ProjectPage(), opts...)

	result := ProjectsResult{
		Entries: make([]model.ProjectEntry, 0, len(walk.Items)),
		Pages:   walk.Pages,
		Err:     walk.Err,
	}
	for _, item := range walk.Items {
		if item.Project.IsProfileContainer() {
			result.ProfileProjects = append(result.ProfileProjects, item.Project)
			continue
		}
		result.Entries = append(result.Entries, item.Entry())
	}
	return result
}
