// Package view derives the display order of the project grid.
//
// Project is a pure function of the catalog and the sort state. It is
// re-run whenever either changes and is the only thing that reorders
// the grid; it never fetches.
package view

import (
	"cmp"
	"slices"
	"time"

	"github.com/nao1215/simprofile/internal/model"
)

// Project returns the entries ordered by state.
//
// The input is never modified; the result is a new slice. Entries with
// equal keys keep their relative input order in both directions. Zero
// timestamps compare as the oldest value. An unknown key leaves the
// input order unchanged.
func Project(entries []model.ProjectEntry, state model.SortState) []model.ProjectEntry {
	out := slices.Clone(entries)
	if out == nil {
		out = []model.ProjectEntry{}
	}

	compare := comparator(state.By)
	if compare == nil {
		return out
	}
	if state.Order == model.SortDesc {
		asc := compare
		compare = func(a, b model.ProjectEntry) int { return asc(b, a) }
	}

	slices.SortStableFunc(out, compare)
	return out
}

// comparator returns the ascending comparison for key, or nil.
func comparator(key model.SortKey) func(a, b model.ProjectEntry) int {
	switch key {
	case model.SortLastUpdated:
		return byTime(func(e model.ProjectEntry) time.Time { return e.Project.UpdatedAt })
	case model.SortLastPublished:
		return byTime(func(e model.ProjectEntry) time.Time { return e.Revision.CreatedAt })
	case model.SortViewCount:
		return byInt(func(e model.ProjectEntry) int64 { return e.Project.Stats.Views })
	case model.SortLikes:
		return byInt(func(e model.ProjectEntry) int64 { return e.Project.Stats.Likes })
	case model.SortComments:
		return byInt(func(e model.ProjectEntry) int64 { return e.Project.Stats.Comments })
	case model.SortCredits:
		return byInt(func(e model.ProjectEntry) int64 { return e.TipsReceived })
	default:
		return nil
	}
}

func byInt(key func(model.ProjectEntry) int64) func(a, b model.ProjectEntry) int {
	return func(a, b model.ProjectEntry) int {
		return cmp.Compare(key(a), key(b))
	}
}

func byTime(key func(model.ProjectEntry) time.Time) func(a, b model.ProjectEntry) int {
	return func(a, b model.ProjectEntry) int {
		return key(a).Compare(key(b))
	}
}
