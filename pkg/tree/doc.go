// Package tree implements the hierarchical asset-tree engine core.
//
// The Forest is an arena of asset.Node entities indexed by identifier.
// Parent/child links are stored as identifier references rather than
// ownership pointers, which keeps the acyclicity invariant independently
// checkable (Verify) and makes reparenting a link update instead of a
// structural reshuffle.
//
// # Invariants
//
// After every operation on a Forest:
//  1. The structure is a forest of rooted trees: no cycles, each non-root
//     node has exactly one parent reachable upward to a root.
//  2. A child's kind rank is exactly one greater than its parent's rank.
//  3. Node ids are unique across the whole forest.
//  4. Each node appears in the child list of exactly one parent.
//
// # Assembly
//
// Builder converts flat provider records into a Forest. Locations and Areas
// are created lazily, in first-seen order, from the device records that
// reference them; devices with no location or area are normalized to the
// default sentinels so no device is ever dropped. Building the same input
// twice produces structurally identical output.
//
// # Filtering
//
// Filter produces an ancestor-preserving filtered view: a node is retained
// if its own name matches the query (case-insensitive substring) or any
// node in its subtree matches. The input forest is never mutated.
package tree
