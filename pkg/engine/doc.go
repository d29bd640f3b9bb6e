// Package engine provides the owned asset-tree engine instance.
//
// An Engine is constructed with a Provider dependency and owns the Node
// tree exclusively: consumers receive read-only snapshot views and route
// all mutations through the engine. Lifecycle is one engine per active
// view, torn down with Close when the view closes.
//
// # Loading
//
// The tree is rebuilt wholesale on every Load from a full provider
// snapshot; there is no incremental diffing. A failed load keeps the
// prior tree visible and marks it stale.
//
// # Moves
//
// Drag-and-drop reparenting goes through BeginDrag / HoverTarget / Drop,
// backed by the move.Coordinator state machine. A reload is never issued
// while a move is committing: Drop holds the operation lock across the
// commit and the reconciling reload that follows a successful commit.
package engine
