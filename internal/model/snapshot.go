package model

import "time"

// Snapshot is the stored summary of one rendered profile.
// Snapshots of the same user form the user's history.
type Snapshot struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	CapturedAt     time.Time `json:"captured_at"`
	FollowerCount  *int64    `json:"follower_count"`
	FollowingCount *int64    `json:"following_count"`
	ProjectCount   int       `json:"project_count"`
	TotalViews     int64     `json:"total_views"`
	TotalLikes     int64     `json:"total_likes"`
	TotalCredits   int64     `json:"total_credits"`
	StatsComplete  bool      `json:"stats_complete"`

	// Digest fingerprints the project list, so two snapshots with the same
	// digest show the same projects with the same numbers.
	Digest string `json:"digest"`
}

// NewSnapshot summarizes a profile. ID and Digest are assigned on save.
func NewSnapshot(p Profile) Snapshot {
	return Snapshot{
		Username:       p.Username,
		CapturedAt:     p.GeneratedAt,
		FollowerCount:  copyCount(p.FollowerCount),
		FollowingCount: copyCount(p.FollowingCount),
		ProjectCount:   len(p.Projects),
		TotalViews:     p.TotalViews,
		TotalLikes:     p.TotalLikes,
		TotalCredits:   p.TotalCredits,
		StatsComplete:  p.StatsComplete,
	}
}
