package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plantview/plantview-go/pkg/asset"
	"github.com/plantview/plantview-go/pkg/expansion"
	"github.com/plantview/plantview-go/pkg/log"
	"github.com/plantview/plantview-go/pkg/move"
	"github.com/plantview/plantview-go/pkg/persistence"
	"github.com/plantview/plantview-go/pkg/tree"
)

// Engine errors.
var (
	ErrNotLoaded        = errors.New("no tree loaded")
	ErrClosed           = errors.New("engine closed")
	ErrEditDisabled     = errors.New("editing is disabled")
	ErrDragDropDisabled = errors.New("drag and drop is disabled")
)

// LoadError reports a failed provider fetch. The prior tree, if any,
// remains visible but is marked stale.
type LoadError struct {
	// Stage names the fetch that failed ("devices" or "data_points").
	Stage string
	Err   error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying provider error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Callbacks are the engine's hooks to external collaborators.
// All callbacks are optional.
type Callbacks struct {
	// OnNodeSelect fires when a node is selected.
	OnNodeSelect func(node *asset.NodeView)

	// OnNodeEdit fires when the edit affordance is used.
	OnNodeEdit func(node *asset.NodeView)

	// OnNodeDelete fires when the delete affordance is used.
	OnNodeDelete func(node *asset.NodeView)

	// OnNodeMove fires after a reparent has been committed with the
	// provider.
	OnNodeMove func(nodeID, newParentID string)
}

// Engine owns one asset tree and all state attached to it: the forest,
// the expansion set, and the move coordinator. It is safe for concurrent
// use; provider interactions (loads and move commits) are serialized.
type Engine struct {
	id       string
	provider Provider
	config   Config
	logger   log.Logger

	builder *tree.Builder
	coord   *move.Coordinator
	exp     *expansion.Tracker

	// opMu serializes provider interactions so a reload never overlaps a
	// committing move.
	opMu sync.Mutex

	mu         sync.RWMutex
	forest     *tree.Forest
	report     tree.BuildReport
	stale      bool
	loaded     bool
	closed     bool
	selectedID string
	callbacks  Callbacks
}

// New creates an engine bound to the given provider.
func New(provider Provider, cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}

	e := &Engine{
		id:       uuid.New().String(),
		provider: provider,
		config:   cfg,
		logger:   cfg.Logger,
		builder:  tree.NewBuilderWithLogger(cfg.Logger),
		exp:      expansion.NewTracker(),
	}
	e.coord = move.NewCoordinatorWithLogger(e.commitMove, cfg.Logger, e.id)
	return e
}

// ID returns the unique engine instance id.
func (e *Engine) ID() string {
	return e.id
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// SetCallbacks installs the collaborator hooks.
func (e *Engine) SetCallbacks(cb Callbacks) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callbacks = cb
}

// Load fetches a full snapshot from the provider and rebuilds the tree.
// On failure the prior tree remains visible and is marked stale; the
// returned error is a *LoadError. Load is sequenced after any move that
// is currently committing.
func (e *Engine) Load(ctx context.Context) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	return e.load(ctx)
}

// load performs one snapshot fetch and rebuild. Caller holds opMu.
func (e *Engine) load(ctx context.Context) error {
	e.mu.RLock()
	closed := e.closed
	e.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	start := time.Now()

	devices, err := e.provider.LoadDeviceTree(ctx)
	if err != nil {
		return e.failLoad("devices", err, start)
	}
	points, err := e.provider.LoadDataPoints(ctx)
	if err != nil {
		return e.failLoad("data_points", err, start)
	}

	f, report := e.builder.Build(devices, points)

	e.mu.Lock()
	e.forest = f
	e.report = report
	e.stale = false
	e.loaded = true
	e.mu.Unlock()

	// Ids recurring across reloads keep their expansion state; new roots
	// start expanded.
	e.exp.SeedRoots(f.RootIDs())

	e.logger.Log(log.Event{
		Timestamp: time.Now(),
		EngineID:  e.id,
		Category:  log.CategoryLoad,
		Load: &log.LoadEvent{
			Devices:    len(devices),
			DataPoints: len(points),
			Duration:   time.Since(start),
		},
	})
	return nil
}

func (e *Engine) failLoad(stage string, err error, start time.Time) error {
	e.mu.Lock()
	if e.loaded {
		e.stale = true
	}
	e.mu.Unlock()

	e.logger.Log(log.Event{
		Timestamp: time.Now(),
		EngineID:  e.id,
		Category:  log.CategoryLoad,
		Load: &log.LoadEvent{
			Failed:   true,
			Duration: time.Since(start),
		},
	})
	return &LoadError{Stage: stage, Err: err}
}

// Snapshot returns a read-only nested view of the current tree, or nil if
// nothing has been loaded yet.
func (e *Engine) Snapshot() []*asset.NodeView {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.forest == nil {
		return nil
	}
	return e.forest.Snapshot()
}

// Filtered returns a read-only view of the tree filtered by the query,
// preserving the ancestors of every match. An empty query is equivalent
// to Snapshot.
func (e *Engine) Filtered(query string) []*asset.NodeView {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.forest == nil {
		return nil
	}
	return tree.Filter(e.forest, query).Snapshot()
}

// ExportCBOR serializes the current tree to the canonical CBOR snapshot
// format. It returns ErrNotLoaded if nothing has been loaded yet.
func (e *Engine) ExportCBOR() ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.forest == nil {
		return nil, ErrNotLoaded
	}
	return tree.ExportCBOR(e.forest)
}

// Report returns the build report of the last successful load.
func (e *Engine) Report() tree.BuildReport {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.report
}

// Stale reports whether the visible tree predates a failed reload.
func (e *Engine) Stale() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stale
}

// Loaded reports whether a tree has ever been loaded.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

// Expansion returns the engine's expansion state tracker.
func (e *Engine) Expansion() *expansion.Tracker {
	return e.exp
}

// MoveState returns the current move state machine state.
func (e *Engine) MoveState() move.State {
	return e.coord.State()
}

// OnMoveStateChange registers a callback for move state transitions.
func (e *Engine) OnMoveStateChange(fn func(old, new move.State)) {
	e.coord.OnStateChange(fn)
}

// Select marks a node as selected and fires OnNodeSelect.
func (e *Engine) Select(nodeID string) error {
	v, err := e.view(nodeID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.selectedID = nodeID
	cb := e.callbacks.OnNodeSelect
	e.mu.Unlock()

	if cb != nil {
		cb(v)
	}
	return nil
}

// Edit fires OnNodeEdit for the node. Requires AllowEdit.
func (e *Engine) Edit(nodeID string) error {
	if !e.config.AllowEdit {
		return ErrEditDisabled
	}
	v, err := e.view(nodeID)
	if err != nil {
		return err
	}
	e.mu.RLock()
	cb := e.callbacks.OnNodeEdit
	e.mu.RUnlock()
	if cb != nil {
		cb(v)
	}
	return nil
}

// Delete fires OnNodeDelete for the node. Requires AllowEdit.
// The engine itself never removes nodes; deletion is the external
// collaborator's responsibility and surfaces at the next reload.
func (e *Engine) Delete(nodeID string) error {
	if !e.config.AllowEdit {
		return ErrEditDisabled
	}
	v, err := e.view(nodeID)
	if err != nil {
		return err
	}
	e.mu.RLock()
	cb := e.callbacks.OnNodeDelete
	e.mu.RUnlock()
	if cb != nil {
		cb(v)
	}
	return nil
}

func (e *Engine) view(nodeID string) (*asset.NodeView, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.forest == nil {
		return nil, ErrNotLoaded
	}
	n, ok := e.forest.Node(nodeID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", tree.ErrNodeNotFound, nodeID)
	}
	return n.View(), nil
}

// BeginDrag starts a drag gesture for the node. Requires AllowDragDrop.
func (e *Engine) BeginDrag(nodeID string) error {
	if !e.config.AllowDragDrop {
		return ErrDragDropDisabled
	}

	e.mu.RLock()
	f, closed := e.forest, e.closed
	e.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if f == nil {
		return ErrNotLoaded
	}
	return e.coord.Begin(f, nodeID)
}

// HoverTarget records a candidate drop target and reports whether it would
// accept the dragged node.
func (e *Engine) HoverTarget(targetID string) bool {
	if !e.config.AllowDragDrop {
		return false
	}
	return e.coord.Hover(targetID)
}

// CancelDrag aborts the current drag gesture, if any, with no side effects.
func (e *Engine) CancelDrag() {
	e.coord.Cancel()
}

// Drop commits the current drag gesture. On a successful commit the engine
// reloads the tree from the provider to reconcile server-side effects; a
// failed commit rolls the local tree back and returns a *move.MoveError.
func (e *Engine) Drop(ctx context.Context) error {
	if !e.config.AllowDragDrop {
		return ErrDragDropDisabled
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	if err := e.coord.Drop(ctx); err != nil {
		return err
	}

	// Reconciling reload, sequenced inside the same operation so no other
	// provider interaction interleaves. Failure here leaves the
	// optimistically moved tree visible but stale.
	return e.load(ctx)
}

// commitMove is the coordinator's commit hook: it performs the provider
// call and notifies OnNodeMove once the move is durable.
func (e *Engine) commitMove(ctx context.Context, nodeID, newParentID string) error {
	if err := e.provider.MoveNode(ctx, nodeID, newParentID); err != nil {
		return err
	}

	e.mu.RLock()
	cb := e.callbacks.OnNodeMove
	e.mu.RUnlock()
	if cb != nil {
		cb(nodeID, newParentID)
	}
	return nil
}

// SaveViewState persists the expansion set and current selection.
func (e *Engine) SaveViewState(store *persistence.ViewStateStore) error {
	e.mu.RLock()
	selected := e.selectedID
	e.mu.RUnlock()

	return store.Save(&persistence.ViewState{
		ExpandedIDs: e.exp.ExpandedIDs(),
		SelectedID:  selected,
	})
}

// RestoreViewState restores the expansion set and selection from disk.
// A missing state file is not an error; the engine keeps its defaults.
func (e *Engine) RestoreViewState(store *persistence.ViewStateStore) error {
	state, err := store.Load()
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}

	e.exp.Restore(state.ExpandedIDs)

	e.mu.Lock()
	e.selectedID = state.SelectedID
	e.mu.Unlock()
	return nil
}

// SelectedID returns the currently selected node id, if any.
func (e *Engine) SelectedID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selectedID
}

// Close tears the engine down. Subsequent loads and drags fail with
// ErrClosed; snapshot accessors return nil.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.forest = nil
	e.loaded = false
}
