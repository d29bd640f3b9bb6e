package move

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantview/plantview-go/pkg/tree"
)

// commitRecorder is a MoveFunc that records calls and optionally fails.
type commitRecorder struct {
	calls []MoveRecordCall
	err   error
}

type MoveRecordCall struct {
	NodeID      string
	NewParentID string
}

func (r *commitRecorder) commit(_ context.Context, nodeID, newParentID string) error {
	r.calls = append(r.calls, MoveRecordCall{nodeID, newParentID})
	return r.err
}

func TestCoordinatorHappyPath(t *testing.T) {
	f := validatorForest(t)
	rec := &commitRecorder{}
	c := NewCoordinator(rec.commit)

	var transitions []State
	c.OnStateChange(func(_, new State) {
		transitions = append(transitions, new)
	})

	require.Equal(t, StateIdle, c.State())

	require.NoError(t, c.Begin(f, "dev1"))
	require.Equal(t, StateDragging, c.State())

	id, ok := c.Dragging()
	require.True(t, ok)
	assert.Equal(t, "dev1", id)

	assert.True(t, c.Hover("L1:A2"))
	assert.Equal(t, StateHoverValid, c.State())

	require.NoError(t, c.Drop(context.Background()))
	assert.Equal(t, StateCommitted, c.State())

	require.Len(t, rec.calls, 1)
	assert.Equal(t, MoveRecordCall{"dev1", "L1:A2"}, rec.calls[0])

	n, _ := f.Node("dev1")
	assert.Equal(t, "L1:A2", n.ParentID)
	assert.NoError(t, f.Verify())

	assert.Equal(t, []State{
		StateDragging, StateHoverValid, StateDropped, StateCommitting, StateCommitted,
	}, transitions)
}

func TestCoordinatorRollback(t *testing.T) {
	f := validatorForest(t)
	commitErr := errors.New("backend rejected")
	rec := &commitRecorder{err: commitErr}
	c := NewCoordinator(rec.commit)

	before, err := tree.ExportCBOR(f)
	require.NoError(t, err)

	require.NoError(t, c.Begin(f, "dev1"))
	require.True(t, c.Hover("L1:A2"))

	dropErr := c.Drop(context.Background())
	require.Error(t, dropErr)

	var moveErr *MoveError
	require.ErrorAs(t, dropErr, &moveErr)
	assert.Equal(t, "dev1", moveErr.NodeID)
	assert.Equal(t, "L1:A2", moveErr.TargetID)
	assert.ErrorIs(t, dropErr, commitErr)

	assert.Equal(t, StateRolledBack, c.State())

	// The tree is value-identical to before the gesture, including the
	// node's position among its siblings.
	after, err := tree.ExportCBOR(f)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCoordinatorRollbackRestoresChildOrder(t *testing.T) {
	f := validatorForest(t)
	rec := &commitRecorder{err: errors.New("nope")}
	c := NewCoordinator(rec.commit)

	// dev1 is the first of two children under L1:A1
	require.NoError(t, c.Begin(f, "dev1"))
	require.True(t, c.Hover("L2:A1"))
	require.Error(t, c.Drop(context.Background()))

	area, _ := f.Node("L1:A1")
	assert.Equal(t, []string{"dev1", "dev2"}, area.Children)
}

func TestCoordinatorBeginRejections(t *testing.T) {
	f := validatorForest(t)
	c := NewCoordinator((&commitRecorder{}).commit)

	t.Run("unknown node", func(t *testing.T) {
		assert.ErrorIs(t, c.Begin(f, "missing"), tree.ErrNodeNotFound)
	})

	t.Run("location", func(t *testing.T) {
		assert.ErrorIs(t, c.Begin(f, "L1"), ErrNotMovable)
	})

	t.Run("second gesture", func(t *testing.T) {
		require.NoError(t, c.Begin(f, "dev1"))
		assert.ErrorIs(t, c.Begin(f, "dev2"), ErrDragActive)
		c.Cancel()
	})
}

func TestCoordinatorCancel(t *testing.T) {
	f := validatorForest(t)
	rec := &commitRecorder{}
	c := NewCoordinator(rec.commit)

	require.NoError(t, c.Begin(f, "dev1"))
	c.Hover("L1:A2")
	c.Cancel()

	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, rec.calls)

	n, _ := f.Node("dev1")
	assert.Equal(t, "L1:A1", n.ParentID)

	// Cancel with no gesture is a no-op
	c.Cancel()
	assert.Equal(t, StateIdle, c.State())
}

func TestCoordinatorDropWithoutGesture(t *testing.T) {
	c := NewCoordinator((&commitRecorder{}).commit)
	assert.ErrorIs(t, c.Drop(context.Background()), ErrNotDragging)
}

func TestCoordinatorDropWithoutValidHover(t *testing.T) {
	f := validatorForest(t)
	rec := &commitRecorder{}
	c := NewCoordinator(rec.commit)

	t.Run("no hover at all", func(t *testing.T) {
		require.NoError(t, c.Begin(f, "dev1"))
		assert.ErrorIs(t, c.Drop(context.Background()), ErrNoValidTarget)
		assert.Equal(t, StateIdle, c.State())
	})

	t.Run("invalid hover", func(t *testing.T) {
		require.NoError(t, c.Begin(f, "dev1"))
		assert.False(t, c.Hover("L1"))
		assert.Equal(t, StateHoverInvalid, c.State())

		assert.ErrorIs(t, c.Drop(context.Background()), ErrNoValidTarget)
		assert.Equal(t, StateIdle, c.State())
	})

	assert.Empty(t, rec.calls, "no commit may be issued for a rejected drop")
}

func TestCoordinatorHoverRevalidates(t *testing.T) {
	f := validatorForest(t)
	c := NewCoordinator((&commitRecorder{}).commit)

	require.NoError(t, c.Begin(f, "dp1"))

	assert.True(t, c.Hover("dev2"))
	assert.False(t, c.Hover("L1:A1"))
	assert.Equal(t, StateHoverInvalid, c.State())

	// Hovering back to a valid target recovers
	assert.True(t, c.Hover("dev2"))
	assert.Equal(t, StateHoverValid, c.State())
}

func TestCoordinatorStaleHoverRejectedAtDrop(t *testing.T) {
	f := validatorForest(t)
	rec := &commitRecorder{}
	c := NewCoordinator(rec.commit)

	require.NoError(t, c.Begin(f, "dp1"))
	require.True(t, c.Hover("dev2"))

	// The tree changes under the gesture: the hover target is now inside
	// the dragged node's own device after an external reparent.
	require.NoError(t, f.Reparent("dp1", "dev2"))

	assert.ErrorIs(t, c.Drop(context.Background()), ErrNoValidTarget)
	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, rec.calls)
}

func TestCoordinatorSingleFlight(t *testing.T) {
	f := validatorForest(t)

	started := make(chan struct{})
	release := make(chan struct{})
	blocking := func(_ context.Context, _, _ string) error {
		close(started)
		<-release
		return nil
	}
	c := NewCoordinator(blocking)

	require.NoError(t, c.Begin(f, "dev1"))
	require.True(t, c.Hover("L1:A2"))

	done := make(chan error, 1)
	go func() {
		done <- c.Drop(context.Background())
	}()

	<-started
	assert.Equal(t, StateCommitting, c.State())

	// While the commit is in flight, new gestures and drops are refused
	assert.ErrorIs(t, c.Begin(f, "dev2"), ErrMoveInFlight)
	assert.ErrorIs(t, c.Drop(context.Background()), ErrMoveInFlight)
	assert.False(t, c.Hover("L1:A1"), "hover is inert while committing")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateCommitted, c.State())

	// The next gesture starts cleanly
	require.NoError(t, c.Begin(f, "dev2"))
	c.Cancel()
}

func TestCoordinatorCancelIgnoredWhileCommitting(t *testing.T) {
	f := validatorForest(t)

	started := make(chan struct{})
	release := make(chan struct{})
	c := NewCoordinator(func(_ context.Context, _, _ string) error {
		close(started)
		<-release
		return nil
	})

	require.NoError(t, c.Begin(f, "dev1"))
	require.True(t, c.Hover("L1:A2"))

	done := make(chan error, 1)
	go func() { done <- c.Drop(context.Background()) }()

	<-started
	c.Cancel() // must not abort a committing move
	assert.Equal(t, StateCommitting, c.State())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateCommitted, c.State())
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "IDLE"},
		{StateDragging, "DRAGGING"},
		{StateHoverValid, "HOVER_VALID"},
		{StateHoverInvalid, "HOVER_INVALID"},
		{StateDropped, "DROPPED"},
		{StateCommitting, "COMMITTING"},
		{StateCommitted, "COMMITTED"},
		{StateRolledBack, "ROLLED_BACK"},
		{State(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
