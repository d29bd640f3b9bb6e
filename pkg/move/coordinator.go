package move

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plantview/plantview-go/pkg/asset"
	"github.com/plantview/plantview-go/pkg/log"
	"github.com/plantview/plantview-go/pkg/tree"
)

// Coordinator errors.
var (
	ErrMoveInFlight  = errors.New("a move is already committing")
	ErrDragActive    = errors.New("a drag gesture is already active")
	ErrNotDragging   = errors.New("no drag gesture active")
	ErrNotMovable    = errors.New("node is not movable")
	ErrNoValidTarget = errors.New("no valid drop target")
)

// MoveError reports a failed commit after an optimistic move.
// The local tree has already been rolled back when this is returned.
type MoveError struct {
	NodeID   string
	TargetID string
	Err      error
}

// Error returns the error message.
func (e *MoveError) Error() string {
	return fmt.Sprintf("move of %q to %q failed: %v", e.NodeID, e.TargetID, e.Err)
}

// Unwrap returns the underlying commit error.
func (e *MoveError) Unwrap() error {
	return e.Err
}

// State represents the coordinator state for one reparent gesture.
type State uint8

const (
	// StateIdle - no gesture active.
	StateIdle State = iota

	// StateDragging - a node has been picked up, no target yet.
	StateDragging

	// StateHoverValid - the current candidate target accepts the node.
	StateHoverValid

	// StateHoverInvalid - the current candidate target rejects the node.
	StateHoverInvalid

	// StateDropped - the drop was accepted; transient within Drop.
	StateDropped

	// StateCommitting - the optimistic move is applied and the external
	// commit is in flight.
	StateCommitting

	// StateCommitted - the external commit succeeded.
	StateCommitted

	// StateRolledBack - the external commit failed and the local tree was
	// restored to its pre-move shape.
	StateRolledBack
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateDragging:
		return "DRAGGING"
	case StateHoverValid:
		return "HOVER_VALID"
	case StateHoverInvalid:
		return "HOVER_INVALID"
	case StateDropped:
		return "DROPPED"
	case StateCommitting:
		return "COMMITTING"
	case StateCommitted:
		return "COMMITTED"
	case StateRolledBack:
		return "ROLLED_BACK"
	default:
		return "UNKNOWN"
	}
}

// MoveFunc commits a reparent with the external collaborator.
// It must not be called twice for one gesture; idempotency is not assumed.
type MoveFunc func(ctx context.Context, nodeID, newParentID string) error

// Coordinator orchestrates one reparent gesture at a time: validation,
// optimistic local mutation, external commit, and rollback on failure.
type Coordinator struct {
	mu sync.Mutex

	commit   MoveFunc
	logger   log.Logger
	engineID string

	state  State
	forest *tree.Forest

	// Gesture bookkeeping, valid while state != StateIdle.
	opID         string
	draggedID    string
	hoverID      string
	prevParentID string
	prevIndex    int

	onStateChange func(old, new State)
}

// NewCoordinator creates a coordinator with logging disabled.
func NewCoordinator(commit MoveFunc) *Coordinator {
	return NewCoordinatorWithLogger(commit, log.NoopLogger{}, "")
}

// NewCoordinatorWithLogger creates a coordinator that reports state
// transitions and move outcomes to the given logger. engineID tags the
// emitted events.
func NewCoordinatorWithLogger(commit MoveFunc, logger log.Logger, engineID string) *Coordinator {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Coordinator{
		commit:   commit,
		logger:   logger,
		engineID: engineID,
		state:    StateIdle,
	}
}

// OnStateChange registers a callback invoked on every state transition.
func (c *Coordinator) OnStateChange(fn func(old, new State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStateChange = fn
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dragging returns the dragged node id, or false if no gesture is active.
func (c *Coordinator) Dragging() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateDragging, StateHoverValid, StateHoverInvalid, StateDropped, StateCommitting:
		return c.draggedID, true
	default:
		return "", false
	}
}

// Begin starts a drag gesture for the given node on the given forest.
// The forest must stay the engine's current tree for the whole gesture;
// reloads are sequenced after the gesture by the engine.
//
// Returns ErrMoveInFlight while a commit is pending, ErrDragActive if a
// gesture is already running, and ErrNotMovable for roots and unknown ids.
func (c *Coordinator) Begin(f *tree.Forest, nodeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateCommitting:
		return ErrMoveInFlight
	case StateDragging, StateHoverValid, StateHoverInvalid, StateDropped:
		return ErrDragActive
	}

	n, ok := f.Node(nodeID)
	if !ok {
		return fmt.Errorf("%w: %q", tree.ErrNodeNotFound, nodeID)
	}
	if n.Kind == asset.KindLocation {
		return fmt.Errorf("%w: %q is a location", ErrNotMovable, nodeID)
	}

	c.forest = f
	c.opID = uuid.New().String()
	c.draggedID = nodeID
	c.hoverID = ""
	c.prevParentID = n.ParentID
	c.prevIndex = f.ChildIndex(nodeID)
	c.setState(StateDragging, "")
	return nil
}

// Hover records a candidate drop target and reports whether it is valid.
// Validity is recomputed on every call; only a valid hover permits a drop.
// Returns false if no gesture is active.
func (c *Coordinator) Hover(targetID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateDragging, StateHoverValid, StateHoverInvalid:
	default:
		return false
	}

	c.hoverID = targetID
	if CanMove(c.forest, c.draggedID, targetID) {
		c.setState(StateHoverValid, "")
		return true
	}
	c.setState(StateHoverInvalid, "")
	return false
}

// Cancel aborts the gesture with no side effects. It does nothing once the
// drop has been accepted; a dropped move always runs to completion.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateDragging, StateHoverValid, StateHoverInvalid:
		c.clearGesture()
		c.setState(StateIdle, "canceled")
	}
}

// Drop commits the gesture onto the current hover target.
//
// The target is re-validated first; a stale hover that no longer passes
// validation resets the gesture and returns ErrNoValidTarget (the move is
// a no-op, nothing changed). Otherwise the node is moved locally, the
// external commit is invoked and awaited, and on failure the local move is
// rolled back to the exact pre-move position and a *MoveError is returned.
func (c *Coordinator) Drop(ctx context.Context) error {
	c.mu.Lock()

	switch c.state {
	case StateCommitting:
		c.mu.Unlock()
		return ErrMoveInFlight
	case StateHoverValid, StateHoverInvalid, StateDragging:
	default:
		c.mu.Unlock()
		return ErrNotDragging
	}

	nodeID, targetID := c.draggedID, c.hoverID

	// Defend against stale hover state: hover validity may predate tree
	// changes, so the drop decision only trusts a fresh check.
	if !CanMove(c.forest, nodeID, targetID) {
		c.clearGesture()
		c.setState(StateIdle, "drop target rejected")
		c.mu.Unlock()
		return ErrNoValidTarget
	}

	c.setState(StateDropped, "")

	if err := c.forest.Reparent(nodeID, targetID); err != nil {
		c.clearGesture()
		c.setState(StateIdle, "optimistic move failed")
		c.mu.Unlock()
		return fmt.Errorf("optimistic move of %q: %w", nodeID, err)
	}

	c.setState(StateCommitting, "")
	opID := c.opID
	prevParent, prevIndex := c.prevParentID, c.prevIndex
	c.mu.Unlock()

	// The external commit is awaited; the gesture cannot be canceled past
	// this point and no second commit is issued for it.
	err := c.commit(ctx, nodeID, targetID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		// Restore the exact pre-move position so the tree is value-identical
		// to its state before the gesture.
		if rbErr := c.forest.RestoreAt(nodeID, prevParent, prevIndex); rbErr != nil {
			c.logError(opID, rbErr, "rollback")
		}
		c.logMove(opID, nodeID, prevParent, targetID, false)
		c.clearGesture()
		c.setState(StateRolledBack, err.Error())
		return &MoveError{NodeID: nodeID, TargetID: targetID, Err: err}
	}

	c.logMove(opID, nodeID, prevParent, targetID, true)
	c.clearGesture()
	c.setState(StateCommitted, "")
	return nil
}

// clearGesture resets the per-gesture bookkeeping. Caller holds the lock.
func (c *Coordinator) clearGesture() {
	c.forest = nil
	c.draggedID = ""
	c.hoverID = ""
	c.prevParentID = ""
	c.prevIndex = -1
}

// setState transitions the state machine. Caller holds the lock.
func (c *Coordinator) setState(s State, reason string) {
	if s == c.state {
		return
	}
	old := c.state
	c.state = s

	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		EngineID:  c.engineID,
		OpID:      c.opID,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: old.String(),
			NewState: s.String(),
			NodeID:   c.draggedID,
			Reason:   reason,
		},
	})

	if c.onStateChange != nil {
		c.onStateChange(old, s)
	}
}

func (c *Coordinator) logMove(opID, nodeID, oldParent, newParent string, committed bool) {
	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		EngineID:  c.engineID,
		OpID:      opID,
		Category:  log.CategoryMove,
		Move: &log.MoveEvent{
			NodeID:      nodeID,
			OldParentID: oldParent,
			NewParentID: newParent,
			Committed:   committed,
		},
	})
}

func (c *Coordinator) logError(opID string, err error, context string) {
	c.logger.Log(log.Event{
		Timestamp: time.Now(),
		EngineID:  c.engineID,
		OpID:      opID,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Message: err.Error(),
			Context: context,
		},
	})
}
