// Package config provides configuration structures and utilities for simprofile.
// It defines the API connection settings, the load and rendering preferences,
// the per-user settings of the .simprofile file, and the environment overrides.
package config
