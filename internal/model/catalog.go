package model

import "sync"

// Catalog is the canonical, ordered list of project entries for one profile.
// Entries keep their fetch order; the only mutation after construction is
// SetTips, which the stats aggregator calls once per project.
type Catalog struct {
	mu      sync.RWMutex
	entries []ProjectEntry
	// index maps a project ID to its first position in entries.
	index map[string]int
}

// NewCatalog creates a catalog holding a copy of entries.
func NewCatalog(entries []ProjectEntry) *Catalog {
	c := &Catalog{
		entries: make([]ProjectEntry, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	copy(c.entries, entries)
	for i, e := range c.entries {
		if _, ok := c.index[e.Project.ID]; !ok {
			c.index[e.Project.ID] = i
		}
	}
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot returns a copy of the entries in fetch order.
func (c *Catalog) Snapshot() []ProjectEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ProjectEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// SetTips records the tips received by a project.
// It reports false when no entry has the given ID.
func (c *Catalog) SetTips(id string, tips int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.entries[i].TipsReceived = tips
	return true
}

// Totals sums views, likes and tips over all entries.
func (c *Catalog) Totals() (views, likes, tips int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries {
		views += e.Project.Stats.Views
		likes += e.Project.Stats.Likes
		tips += e.TipsReceived
	}
	return views, likes, tips
}
