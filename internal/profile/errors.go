package profile

import "errors"

var (
	// ErrNotLoaded is returned by operations that need a loaded page.
	ErrNotLoaded = errors.New("profile page is not loaded")

	// ErrNoTipTarget is returned when a tip has no project to go to.
	ErrNoTipTarget = errors.New("no project to tip: pass a project ID or configure tipProject")
)
