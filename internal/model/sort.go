package model

import (
	"errors"
	"fmt"
	"strings"
)

// SortKey selects the value the project grid is ordered by.
type SortKey string

const (
	SortLastUpdated   SortKey = "last_updated"
	SortLastPublished SortKey = "last_published"
	SortViewCount     SortKey = "view_count"
	SortLikes         SortKey = "likes"
	SortComments      SortKey = "comments"
	SortCredits       SortKey = "credits"
)

// SortOrder is the direction of the project grid.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

var (
	// ErrUnknownSortKey is returned by ParseSortKey.
	ErrUnknownSortKey = errors.New("unknown sort key")
	// ErrUnknownSortOrder is returned by ParseSortOrder.
	ErrUnknownSortOrder = errors.New("unknown sort order: must be asc or desc")
)

// SortKeys returns every sort key in the order the sort control lists them.
func SortKeys() []SortKey {
	return []SortKey{
		SortLastUpdated,
		SortLastPublished,
		SortViewCount,
		SortLikes,
		SortComments,
		SortCredits,
	}
}

// ParseSortKey parses a sort key such as "view_count".
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range SortKeys() {
		if k == key {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// ParseSortOrder parses "asc" or "desc".
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortOrder, s)
	}
}

// Toggle returns the opposite direction.
func (o SortOrder) Toggle() SortOrder {
	if o == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// SortState is the current order of the project grid.
type SortState struct {
	By    SortKey   `json:"by"`
	Order SortOrder `json:"order"`
}

// DefaultSortState returns the initial order: most recently updated first.
func DefaultSortState() SortState {
	return SortState{By: SortLastUpdated, Order: SortDesc}
}

// String returns "key order", e.g. "likes desc".
func (s SortState) String() string {
	return string(s.By) + " " + string(s.Order)
}
