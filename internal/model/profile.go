package model

import (
	"sync"
	"time"
)

// Flow names one of the independent regions of a profile.
// A failure in one flow degrades only that region.
type Flow string

const (
	FlowIdentity       Flow = "identity"
	FlowFollowerCount  Flow = "follower_count"
	FlowFollowingCount Flow = "following_count"
	FlowProjects       Flow = "projects"
	FlowStats          Flow = "stats"
)

// CountFlow returns the flow that loads the count of a relation kind.
func CountFlow(kind RelationKind) Flow {
	if kind == RelationFollowing {
		return FlowFollowingCount
	}
	return FlowFollowerCount
}

// ProfileState is the live state of one profile page.
// It is the context object the load flows write into; every accessor is
// safe for concurrent use.
type ProfileState struct {
	mu sync.Mutex

	identity        Identity
	followerCount   *int64
	followingCount  *int64
	catalog         *Catalog
	profileProjects []Project
	totalCredits    int64
	statsComplete   bool
	errors          map[Flow]string
}

// NewProfileState creates the state for an identity with an empty catalog.
func NewProfileState(identity Identity) *ProfileState {
	return &ProfileState{
		identity: identity,
		catalog:  NewCatalog(nil),
		errors:   make(map[Flow]string),
	}
}

// Identity returns the profile owner.
func (s *ProfileState) Identity() Identity {
	return s.identity
}

// SetCount records the follower or following count.
func (s *ProfileState) SetCount(kind RelationKind, n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == RelationFollowing {
		s.followingCount = &n
		return
	}
	s.followerCount = &n
}

// SetProjects replaces the catalog with freshly fetched entries.
// profileProjects are the profile-container projects filtered out of the grid.
func (s *ProfileState) SetProjects(entries []ProjectEntry, profileProjects []Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = NewCatalog(entries)
	s.profileProjects = append([]Project(nil), profileProjects...)
	s.totalCredits = 0
	s.statsComplete = false
}

// Catalog returns the current catalog.
func (s *ProfileState) Catalog() *Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// ProfileProjects returns the profile-container projects.
func (s *ProfileState) ProfileProjects() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Project(nil), s.profileProjects...)
}

// SetTotalCredits records the running total of tips.
func (s *ProfileState) SetTotalCredits(total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalCredits = total
}

// MarkStatsComplete records that every stats request has settled.
func (s *ProfileState) MarkStatsComplete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsComplete = true
}

// RecordError records the failure of a flow.
func (s *ProfileState) RecordError(flow Flow, err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[flow] = err.Error()
}

// Snapshot returns an immutable copy of the state with projects in fetch order.
func (s *ProfileState) Snapshot() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	views, likes, _ := s.catalog.Totals()
	p := Profile{
		Username:        s.identity.Username,
		AvatarURL:       s.identity.AvatarURL(),
		FollowerCount:   copyCount(s.followerCount),
		FollowingCount:  copyCount(s.followingCount),
		TotalViews:      views,
		TotalLikes:      likes,
		TotalCredits:    s.totalCredits,
		Projects:        s.catalog.Snapshot(),
		ProfileProjects: append([]Project(nil), s.profileProjects...),
		StatsComplete:   s.statsComplete,
		GeneratedAt:     time.Now(),
	}
	if len(s.errors) > 0 {
		p.Errors = make(map[Flow]string, len(s.errors))
		for k, v := range s.errors {
			p.Errors[k] = v
		}
	}
	return p
}

func copyCount(n *int64) *int64 {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

// Profile is an immutable snapshot of a profile page, ready for rendering.
// A nil count means the count could not be loaded and renders as "N/A".
type Profile struct {
	Username        string          `json:"username"`
	AvatarURL       string          `json:"avatar_url"`
	FollowerCount   *int64          `json:"follower_count"`
	FollowingCount  *int64          `json:"following_count"`
	TotalViews      int64           `json:"total_views"`
	TotalLikes      int64           `json:"total_likes"`
	TotalCredits    int64           `json:"total_credits"`
	Projects        []ProjectEntry  `json:"projects"`
	ProfileProjects []Project       `json:"profile_projects,omitempty"`
	Sort            SortState       `json:"sort"`
	StatsComplete   bool            `json:"stats_complete"`
	Errors          map[Flow]string `json:"errors,omitempty"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// Handle returns the username prefixed with "@".
func (p *Profile) Handle() string {
	return "@" + p.Username
}

// HasErrors reports whether any flow failed.
func (p *Profile) HasErrors() bool {
	return len(p.Errors) > 0
}

// ErrorFor returns the recorded error of a flow, or "".
func (p *Profile) ErrorFor(flow Flow) string {
	return p.Errors[flow]
}
