// Package asset defines the node model of the PlantView asset hierarchy.
//
// # Hierarchy
//
// Assets form a strict four-level tree:
//
//	Location -> Area -> Device -> DataPoint
//
// Every node carries the same Node envelope (id, name, kind, parent and
// child links); Device and DataPoint nodes additionally carry a typed
// payload with their operational state.
//
// # Records and Views
//
// Providers deliver flat DeviceRecord and DataPointRecord rows; the tree
// package assembles them into nodes. NodeView is the read-only nested
// counterpart of Node handed to consumers: views are deep copies and stay
// valid across reloads. Views serialize to CBOR with integer keys and to
// JSON with snake_case keys.
package asset
