package config

import (
	"fmt"
	"maps"
	"strings"

	"github.com/nao1215/simprofile/internal/model"
)

// ProfileConfig holds the settings for one profile username.
type ProfileConfig struct {
	// Cookie is an HTTP cookie to send when loading this profile.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests for this profile.
	Headers map[string]string `yaml:"headers,omitempty"`

	// SortBy is the initial sort key of the project grid, e.g. "credits".
	SortBy string `yaml:"sortBy,omitempty"`

	// SortOrder is the initial sort order, "asc" or "desc".
	SortOrder string `yaml:"sortOrder,omitempty"`

	// TipProject is the project that receives tips sent to this profile.
	// When empty, the profile's own profile project is tipped.
	TipProject string `yaml:"tipProject,omitempty"`
}

// File represents the structure of the .simprofile configuration file.
type File struct {
	// BaseURL overrides the API base URL.
	BaseURL string `yaml:"baseURL,omitempty"`

	// Proxy is an optional SOCKS5 proxy address.
	Proxy string `yaml:"proxy,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// StatsConcurrency bounds concurrent stats requests; 0 keeps the default.
	StatsConcurrency int `yaml:"statsConcurrency,omitempty"`

	// Defaults contains settings applied to all profiles
	// unless overridden in the profile-specific configuration.
	Defaults ProfileConfig `yaml:"defaults,omitempty"`

	// Profiles maps usernames to their profile-specific configurations.
	Profiles map[string]ProfileConfig `yaml:"profiles,omitempty"`
}

// ProfileConfig returns the configuration for a username.
// It merges the profile-specific configuration with defaults.
// Usernames are matched case-insensitively.
func (f *File) ProfileConfig(username string) ProfileConfig {
	result := f.Defaults
	result.Headers = maps.Clone(f.Defaults.Headers)

	profile, ok := f.Profiles[username]
	if !ok {
		for name, p := range f.Profiles {
			if strings.EqualFold(name, username) {
				profile, ok = p, true
				break
			}
		}
	}
	if !ok {
		return result
	}

	if profile.Cookie != "" {
		result.Cookie = profile.Cookie
	}
	if len(profile.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		maps.Copy(result.Headers, profile.Headers)
	}
	if profile.SortBy != "" {
		result.SortBy = profile.SortBy
	}
	if profile.SortOrder != "" {
		result.SortOrder = profile.SortOrder
	}
	if profile.TipProject != "" {
		result.TipProject = profile.TipProject
	}

	return result
}

// SortState applies the configured sort key and order to base.
func (p ProfileConfig) SortState(base model.SortState) (model.SortState, error) {
	state := base
	if p.SortBy != "" {
		key, err := model.ParseSortKey(p.SortBy)
		if err != nil {
			return base, fmt.Errorf("sortBy: %w", err)
		}
		state.By = key
	}
	if p.SortOrder != "" {
		order, err := model.ParseSortOrder(p.SortOrder)
		if err != nil {
			return base, fmt.Errorf("sortOrder: %w", err)
		}
		state.Order = order
	}
	return state, nil
}

// ApplyFile copies the connection settings of the file into the config.
// Per-profile settings stay in the file and are resolved per username.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	c.Profiles = f
	if f.BaseURL != "" {
		c.BaseURL = f.BaseURL
	}
	if f.Proxy != "" {
		c.ProxyAddress = f.Proxy
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.StatsConcurrency > 0 {
		c.StatsConcurrency = f.StatsConcurrency
	}
}

// ProfileConfig returns the file settings for a username, or the zero
// value when no file was loaded.
func (c *Config) ProfileConfig(username string) ProfileConfig {
	if c.Profiles == nil {
		return ProfileConfig{}
	}
	return c.Profiles.ProfileConfig(username)
}
