// Package persistence stores per-view state that should survive dashboard
// restarts: the set of expanded node ids and the last selection.
//
// State is a small versioned JSON file. The asset tree itself is never
// persisted; it is rebuilt from a provider snapshot on every load.
package persistence
