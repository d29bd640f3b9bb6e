package move

import (
	"github.com/plantview/plantview-go/pkg/asset"
	"github.com/plantview/plantview-go/pkg/tree"
)

// CanMove reports whether the dragged node may be reparented under target.
//
// Rules, checked in order:
//  1. Locations are roots and never movable.
//  2. The current parent is not a target (no-op move).
//  3. The dragged node itself and anything in its subtree is not a target
//     (cycle prevention).
//  4. The target's kind must be exactly one rank above the dragged kind:
//     Area->Location, Device->Area, DataPoint->Device.
//
// Unknown ids fail validation. CanMove never mutates the forest.
func CanMove(f *tree.Forest, draggedID, targetID string) bool {
	dragged, ok := f.Node(draggedID)
	if !ok {
		return false
	}
	target, ok := f.Node(targetID)
	if !ok {
		return false
	}

	if dragged.Kind == asset.KindLocation {
		return false
	}
	if target.ID == dragged.ParentID {
		return false
	}
	if f.IsDescendant(draggedID, targetID) {
		return false
	}

	want, ok := dragged.Kind.ParentKind()
	return ok && target.Kind == want
}
