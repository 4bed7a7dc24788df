// Package cache holds the relation lists fetched during a session.
//
// Entries live for the lifetime of the process and are never
// invalidated: a list opened twice shows the same users, even if the
// server changed in between.
package cache

import (
	"slices"
	"sync"

	"github.com/nao1215/simprofile/internal/model"
)

// Relations caches one user list per relation kind.
// It is safe for concurrent use.
type Relations struct {
	mu      sync.RWMutex
	entries map[model.RelationKind][]model.UserSummary
}

// NewRelations creates an empty cache.
func NewRelations() *Relations {
	return &Relations{
		entries: make(map[model.RelationKind][]model.UserSummary),
	}
}

// Get returns the cached list for kind.
// Absent and empty lists are both misses, so an empty result is refetched
// on the next request.
func (r *Relations) Get(kind model.RelationKind) ([]model.UserSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users, ok := r.entries[kind]
	if !ok || len(users) == 0 {
		return nil, false
	}
	return slices.Clone(users), true
}

// Put stores users for kind, replacing any previous list.
func (r *Relations) Put(kind model.RelationKind, users []model.UserSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[kind] = slices.Clone(users)
}

// Len returns the number of cached users for kind.
func (r *Relations) Len(kind model.RelationKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries[kind])
}
