package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// RelationKind is one of the two symmetric social-graph collections.
type RelationKind string

const (
	// RelationFollowers lists users who follow the profile user.
	RelationFollowers RelationKind = "followers"
	// RelationFollowing lists users the profile user follows.
	RelationFollowing RelationKind = "following"
)

// ErrUnknownRelationKind is returned by ParseRelationKind.
var ErrUnknownRelationKind = errors.New("unknown relation kind: must be followers or following")

// RelationKinds returns both kinds in display order.
func RelationKinds() []RelationKind {
	return []RelationKind{RelationFollowers, RelationFollowing}
}

// ParseRelationKind parses "followers" or "following" (case-insensitive).
func ParseRelationKind(s string) (RelationKind, error) {
	switch RelationKind(strings.ToLower(strings.TrimSpace(s))) {
	case RelationFollowers:
		return RelationFollowers, nil
	case RelationFollowing:
		return RelationFollowing, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRelationKind, s)
	}
}

// String returns the kind as used in API paths.
func (k RelationKind) String() string {
	return string(k)
}

// UserSummary is one entry of a followers or following list.
type UserSummary struct {
	Cursor    string `json:"cursor,omitempty"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	IsAdmin   bool   `json:"is_admin"`
}

// Handle returns the username prefixed with "@".
func (u UserSummary) Handle() string {
	return "@" + u.Username
}

// ProfileURL returns the public profile page of the user.
func (u UserSummary) ProfileURL() string {
	return siteBaseURL + "/@" + url.PathEscape(u.Username)
}
