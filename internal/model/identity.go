package model

import (
	"net/url"
	"strings"
)

// avatarBaseURL is the avatar service used when the API omits an avatar.
const avatarBaseURL = "https://images.websim.com/avatar/"

// siteBaseURL is the public site used for profile and project links.
const siteBaseURL = "https://websim.com"

// Identity identifies the user whose profile is being rendered.
// It is resolved once per session and never changes afterwards.
type Identity struct {
	// Username is the handle without the leading "@".
	Username string `json:"username"`
}

// Handle returns the username prefixed with "@".
func (i Identity) Handle() string {
	return "@" + i.Username
}

// AvatarURL returns the avatar of the identity.
func (i Identity) AvatarURL() string {
	return AvatarURL(i.Username)
}

// AvatarURL returns the deterministic avatar-service URL for a username.
func AvatarURL(username string) string {
	return avatarBaseURL + url.PathEscape(username)
}

// NormalizeUsername trims whitespace, a leading "@" and a profile URL prefix.
// "https://websim.com/@alice", "@alice" and "alice" all normalize to "alice".
func NormalizeUsername(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, siteBaseURL+"/")
	s = strings.TrimPrefix(s, "@")
	return strings.TrimSuffix(s, "/")
}
