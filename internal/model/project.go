package model

import (
	"net/url"
	"strings"
	"time"
)

// profileSlugMarker marks synthetic profile-container projects.
// These hold the profile page itself rather than user content.
const profileSlugMarker = "profile"

// untitledProject is shown for projects without a title.
const untitledProject = "Untitled Project"

// ProjectStats holds the counters the API embeds in each project.
type ProjectStats struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// Domain is a custom domain attached to a project.
type Domain struct {
	Name string `json:"name"`
}

// Project is a published project owned by the profile user.
// It is immutable once fetched; tips are tracked on ProjectEntry instead.
type Project struct {
	ID          string       `json:"id"`
	Slug        string       `json:"slug,omitempty"`
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Stats       ProjectStats `json:"stats"`
	Domains     []Domain     `json:"domains,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsProfileContainer reports whether the project is a profile-container
// project (its slug contains "profile") rather than user content.
func (p Project) IsProfileContainer() bool {
	return strings.Contains(p.Slug, profileSlugMarker)
}

// DisplayTitle returns the title, or "Untitled Project" when empty.
func (p Project) DisplayTitle() string {
	if strings.TrimSpace(p.Title) == "" {
		return untitledProject
	}
	return p.Title
}

// Link returns the public URL of the project.
// The first custom domain wins, rewritten from .websim.ai to .websim.com.
func (p Project) Link() string {
	if len(p.Domains) > 0 && p.Domains[0].Name != "" {
		return "https://" + strings.Replace(p.Domains[0].Name, ".websim.ai", ".websim.com", 1)
	}
	return siteBaseURL + "/p/" + url.PathEscape(p.ID)
}

// ProjectRevision is the latest published version of a project.
type ProjectRevision struct {
	CreatedAt            time.Time `json:"created_at"`
	CurrentScreenshotURL string    `json:"current_screenshot_url,omitempty"`
	SiteID               string    `json:"site_id,omitempty"`
}

// ThumbnailURL returns the screenshot of the revision, falling back to the
// site image service.
func (r ProjectRevision) ThumbnailURL() string {
	if r.CurrentScreenshotURL != "" {
		return r.CurrentScreenshotURL
	}
	return "https://images.websim.com/v1/site/" + url.PathEscape(r.SiteID) + "/600"
}

// ProjectEntry is the unit the project grid manipulates.
// TipsReceived starts at 0 and is written once, when the project's
// stats arrive.
type ProjectEntry struct {
	Project      Project         `json:"project"`
	Revision     ProjectRevision `json:"project_revision"`
	TipsReceived int64           `json:"tips_received"`
}

// NewProjectEntry creates an entry with zero tips.
func NewProjectEntry(p Project, r ProjectRevision) ProjectEntry {
	return ProjectEntry{Project: p, Revision: r}
}
