// Package move implements reparenting for the asset tree: the pure
// validation rules for drag targets and the coordinator that commits a
// move against the external collaborator.
//
// # Validation
//
// CanMove is the single source of truth for which drop targets are legal.
// The same check that highlights a target during hover is re-run at drop
// time, so stale hover state can never let an illegal move through.
//
// # The move state machine
//
// One reparent gesture walks through:
//
//	Idle -> Dragging -> (HoverValid | HoverInvalid) -> Dropped
//	     -> Committing -> (Committed | RolledBack)
//
// On drop the coordinator re-validates, applies an optimistic local move,
// and invokes the external commit. Success leaves the optimistic move in
// place (the engine then reloads to reconcile); failure restores the node
// to its exact pre-move position, including its index in the old parent's
// child list.
//
// A drag may be canceled at any point before Dropped with no side effects.
// Once dropped, the operation runs to completion; only one move may be in
// flight at a time.
package move
