package api

import (
	"encoding/json"
	"math"

	"github.com/nao1215/simprofile/internal/model"
	"github.com/nao1215/simprofile/internal/paginate"
)

// Collection names used as the top-level envelope keys.
const (
	collectionProjects = "projects"
)

// PageMeta is the pagination block of a list envelope.
type PageMeta struct {
	HasNextPage bool    `json:"has_next_page"`
	EndCursor   *string `json:"end_cursor"`
}

// collection is the body under the envelope key of a list response:
// {"<name>": {"data": [...], "meta": {...}}}.
type collection[T any] struct {
	Data []T       `json:"data"`
	Meta *PageMeta `json:"meta"`
}

// CountMeta is the meta block of a count-mode response.
type CountMeta struct {
	Count *int64 `json:"count"`
}

// countBody is the body under the envelope key of a count response:
// {"<name>": {"meta": {"count": N}}}.
type countBody struct {
	Meta *CountMeta `json:"meta"`
}

// ProjectItem is one element of the projects collection.
type ProjectItem struct {
	Project         model.Project         `json:"project"`
	ProjectRevision model.ProjectRevision `json:"project_revision"`
}

// Entry converts the item into a project entry with zero tips.
func (i ProjectItem) Entry() model.ProjectEntry {
	return model.NewProjectEntry(i.Project, i.ProjectRevision)
}

// RelationUser is the user embedded in a relation item.
type RelationUser struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	IsAdmin   bool   `json:"is_admin"`
}

// RelationItem is one element of a followers or following collection.
type RelationItem struct {
	Cursor string `json:"cursor"`
	Follow *struct {
		User *RelationUser `json:"user"`
	} `json:"follow"`
}

// Summary maps the item into a user summary. An absent avatar defaults to
// the avatar service URL of the username.
func (i RelationItem) Summary() (model.UserSummary, error) {
	if i.Follow == nil || i.Follow.User == nil {
		return model.UserSummary{}, malformed("relation item %q has no follow.user", i.Cursor)
	}
	u := i.Follow.User
	avatar := u.AvatarURL
	if avatar == "" {
		avatar = model.AvatarURL(u.Username)
	}
	return model.UserSummary{
		Cursor:    i.Cursor,
		Username:  u.Username,
		AvatarURL: avatar,
		IsAdmin:   u.IsAdmin,
	}, nil
}

// statsBody is the response of the project stats endpoint.
type statsBody struct {
	TotalTipAmount *json.Number `json:"total_tip_amount"`
}

// tips returns total_tip_amount, 0 when absent or null.
// Fractional amounts are rounded to the nearest credit.
func (s statsBody) tips() (int64, error) {
	if s.TotalTipAmount == nil || *s.TotalTipAmount == "" {
		return 0, nil
	}
	if n, err := s.TotalTipAmount.Int64(); err == nil {
		return n, nil
	}
	f, err := s.TotalTipAmount.Float64()
	if err != nil {
		return 0, malformed("total_tip_amount %q is not a number", s.TotalTipAmount.String())
	}
	return int64(math.Round(f)), nil
}

// decodeEnvelope extracts the body stored under name in a top-level object.
func decodeEnvelope(body []byte, name string, v any) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return malformed("%s: %v", name, err)
	}
	raw, ok := envelope[name]
	if !ok || string(raw) == "null" {
		return malformed("missing %q object", name)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return malformed("%s: %v", name, err)
	}
	return nil
}

// decodePage decodes a list envelope into a page of raw items.
func decodePage[T any](body []byte, name string) (paginate.Page[T], error) {
	var c collection[T]
	if err := decodeEnvelope(body, name, &c); err != nil {
		return paginate.Page[T]{}, err
	}
	if c.Data == nil {
		return paginate.Page[T]{}, malformed("%s.data is missing", name)
	}
	if c.Meta == nil {
		return paginate.Page[T]{}, malformed("%s.meta is missing", name)
	}

	page := paginate.Page[T]{
		Items:       c.Data,
		HasNextPage: c.Meta.HasNextPage,
	}
	if c.Meta.EndCursor != nil {
		page.EndCursor = *c.Meta.EndCursor
	}
	return page, nil
}

// decodeCount decodes a count-mode envelope.
func decodeCount(body []byte, name string) (int64, error) {
	var c countBody
	if err := decodeEnvelope(body, name, &c); err != nil {
		return 0, err
	}
	if c.Meta == nil || c.Meta.Count == nil {
		return 0, malformed("%s.meta.count is missing", name)
	}
	return *c.Meta.Count, nil
}

// decodeJSON decodes a top-level object.
func decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return malformed("%v", err)
	}
	return nil
}
