package expansion

import (
	"sort"
	"sync"
)

// Tracker records which node ids are currently expanded.
// All operations are idempotent and safe for concurrent use.
type Tracker struct {
	mu sync.RWMutex

	// expanded is the membership set: present means expanded.
	expanded map[string]struct{}

	// seenRoots records root ids that have already received their
	// first-load default, so collapsing a root sticks across reloads.
	seenRoots map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		expanded:  make(map[string]struct{}),
		seenRoots: make(map[string]struct{}),
	}
}

// Expand marks the node as expanded.
func (t *Tracker) Expand(nodeID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expanded[nodeID] = struct{}{}
}

// Collapse marks the node as collapsed.
func (t *Tracker) Collapse(nodeID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.expanded, nodeID)
}

// Toggle flips the node's expansion state and returns the new state.
func (t *Tracker) Toggle(nodeID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.expanded[nodeID]; ok {
		delete(t.expanded, nodeID)
		return false
	}
	t.expanded[nodeID] = struct{}{}
	return true
}

// IsExpanded reports whether the node is expanded.
func (t *Tracker) IsExpanded(nodeID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.expanded[nodeID]
	return ok
}

// SeedRoots applies the first-load default to root ids: a root never seen
// before is expanded, a root seen before keeps its current state.
func (t *Tracker) SeedRoots(rootIDs []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, id := range rootIDs {
		if _, seen := t.seenRoots[id]; seen {
			continue
		}
		t.seenRoots[id] = struct{}{}
		t.expanded[id] = struct{}{}
	}
}

// ExpandedIDs returns the expanded ids in sorted order.
func (t *Tracker) ExpandedIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.expanded))
	for id := range t.expanded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Restore replaces the expansion set, e.g. from persisted view state.
// Restored ids also count as seen roots so they are not re-defaulted.
func (t *Tracker) Restore(ids []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.expanded = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		t.expanded[id] = struct{}{}
		t.seenRoots[id] = struct{}{}
	}
}

// Clear collapses everything and forgets seen roots.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expanded = make(map[string]struct{})
	t.seenRoots = make(map[string]struct{})
}

// Count returns the number of expanded nodes.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.expanded)
}
