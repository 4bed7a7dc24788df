package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nao1215/simprofile/internal/model"
	"github.com/nao1215/simprofile/internal/paginate"
)

// Comment is the body of a comment posted on a project.
// A non-zero Credits turns the comment into a tip.
type Comment struct {
	Content string `json:"content"`
	Credits int64  `json:"credits,omitempty"`
}

// usersPath returns /api/v1/users/{username}/{resource}.
func usersPath(username, resource string) string {
	return "/api/v1/users/" + url.PathEscape(username) + "/" + resource
}

// projectsPath returns /api/v1/projects/{id}/{resource}.
func projectsPath(id, resource string) string {
	return "/api/v1/projects/" + url.PathEscape(id) + "/" + resource
}

// pageURL builds a paginated URL for path with extra fixed query values.
func (c *Client) pageURL(path string, fixed url.Values) paginate.URLBuilder {
	return func(first int, after string) string {
		q := url.Values{}
		for k, v := range fixed {
			q[k] = append([]string(nil), v...)
		}
		q.Set("first", strconv.Itoa(first))
		if after != "" {
			q.Set("after", after)
		}
		return c.endpoint(path, q)
	}
}

// ProjectsURL builds page URLs of the user's posted projects.
func (c *Client) ProjectsURL(username string) paginate.URLBuilder {
	return c.pageURL(usersPath(username, collectionProjects), url.Values{"posted": {"true"}})
}

// RelationsURL builds page URLs of the user's followers or following list.
func (c *Client) RelationsURL(kind model.RelationKind, username string) paginate.URLBuilder {
	return c.pageURL(usersPath(username, kind.String()), nil)
}

// CountURL returns the count-mode URL of a relation collection.
func (c *Client) CountURL(kind model.RelationKind, username string) string {
	return c.endpoint(usersPath(username, kind.String()), url.Values{"count": {"true"}})
}

// StatsURL returns the stats URL of a project.
func (c *Client) StatsURL(projectID string) string {
	return c.endpoint(projectsPath(projectID, "stats"), nil)
}

// CommentsURL returns the comments URL of a project.
func (c *Client) CommentsURL(projectID string) string {
	return c.endpoint(projectsPath(projectID, "comments"), nil)
}

// ListPage returns a fetch function that decodes pages of the collection
// stored under name, e.g. "projects" or "followers".
func ListPage[T any](c *Client, name string) paginate.FetchFunc[T] {
	return func(ctx context.Context, rawURL string) (paginate.Page[T], error) {
		body, err := c.getJSON(ctx, rawURL)
		if err != nil {
			return paginate.Page[T]{}, err
		}
		return decodePage[T](body, name)
	}
}

// ProjectPage fetches one page of projects.
func (c *Client) ProjectPage() paginate.FetchFunc[ProjectItem] {
	return ListPage[ProjectItem](c, collectionProjects)
}

// RelationPage fetches one page of a relation collection and maps every
// item into a user summary. A malformed item fails the whole page.
func (c *Client) RelationPage(kind model.RelationKind) paginate.FetchFunc[model.UserSummary] {
	raw := ListPage[RelationItem](c, kind.String())
	return func(ctx context.Context, rawURL string) (paginate.Page[model.UserSummary], error) {
		page, err := raw(ctx, rawURL)
		if err != nil {
			return paginate.Page[model.UserSummary]{}, err
		}
		users := make([]model.UserSummary, 0, len(page.Items))
		for _, item := range page.Items {
			u, err := item.Summary()
			if err != nil {
				return paginate.Page[model.UserSummary]{}, err
			}
			users = append(users, u)
		}
		return paginate.Page[model.UserSummary]{
			Items:       users,
			HasNextPage: page.HasNextPage,
			EndCursor:   page.EndCursor,
		}, nil
	}
}

// Count returns the size of the user's followers or following collection.
func (c *Client) Count(ctx context.Context, kind model.RelationKind, username string) (int64, error) {
	body, err := c.getJSON(ctx, c.CountURL(kind, username))
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", kind, err)
	}
	n, err := decodeCount(body, kind.String())
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", kind, err)
	}
	return n, nil
}

// TipTotal returns the total credits tipped to a project.
func (c *Client) TipTotal(ctx context.Context, projectID string) (int64, error) {
	body, err := c.getJSON(ctx, c.StatsURL(projectID))
	if err != nil {
		return 0, err
	}
	var s statsBody
	if err := decodeJSON(body, &s); err != nil {
		return 0, err
	}
	return s.tips()
}

// PostComment posts a comment on a project. It requires a token.
func (c *Client) PostComment(ctx context.Context, projectID string, comment Comment) error {
	if projectID == "" {
		return fmt.Errorf("%w: empty project ID", ErrMissingProject)
	}
	if _, err := c.postJSON(ctx, c.CommentsURL(projectID), comment); err != nil {
		return fmt.Errorf("failed to post comment on project %s: %w", projectID, err)
	}
	return nil
}
