// Package plantview is the root of the PlantView tree engine module.
//
// The engine turns flat device and data point records from an industrial
// gateway into a navigable Location -> Area -> Device -> DataPoint tree,
// with ancestor-preserving search, per-node expansion state, and
// drag-and-drop reparenting with optimistic local moves and rollback.
//
// Entry points:
//
//   - pkg/engine: the tree engine facade applications embed
//   - pkg/provider: fixture, HTTP gateway, and mDNS discovery providers
//   - pkg/tree: forest structure, builder, search filter, CBOR codec
//   - pkg/move: move validation and the drag/drop coordinator
//   - cmd/plantview-tree: interactive explorer CLI
package plantview
