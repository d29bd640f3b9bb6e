package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantview/plantview-go/pkg/asset"
	"github.com/plantview/plantview-go/pkg/move"
	"github.com/plantview/plantview-go/pkg/persistence"
)

// mockProvider serves canned records and scripts failures.
type mockProvider struct {
	mu sync.Mutex

	devices []asset.DeviceRecord
	points  []asset.DataPointRecord

	deviceErr error
	pointsErr error
	moveErr   error

	loads int
	moves []string
}

func (m *mockProvider) LoadDeviceTree(context.Context) ([]asset.DeviceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.deviceErr != nil {
		return nil, m.deviceErr
	}
	return m.devices, nil
}

func (m *mockProvider) LoadDataPoints(context.Context) ([]asset.DataPointRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pointsErr != nil {
		return nil, m.pointsErr
	}
	return m.points, nil
}

func (m *mockProvider) MoveNode(_ context.Context, nodeID, newParentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.moveErr != nil {
		return m.moveErr
	}
	m.moves = append(m.moves, nodeID+"->"+newParentID)
	return nil
}

func (m *mockProvider) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

func (m *mockProvider) setDeviceErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deviceErr = err
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		devices: []asset.DeviceRecord{
			{ID: "dev1", Name: "Pump", LocationID: "L1", LocationName: "North", AreaID: "A1", AreaName: "Hall"},
			{ID: "dev2", Name: "Fan", LocationID: "L1", LocationName: "North", AreaID: "A2", AreaName: "Yard"},
		},
		points: []asset.DataPointRecord{
			{ID: "dp1", Name: "Flow", DeviceID: "dev1"},
		},
	}
}

func newTestEngine(t *testing.T) (*Engine, *mockProvider) {
	t.Helper()
	p := newMockProvider()
	e := New(p, DefaultConfig())
	t.Cleanup(e.Close)
	return e, p
}

func TestEngineLoad(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.False(t, e.Loaded())
	assert.Nil(t, e.Snapshot())

	require.NoError(t, e.Load(context.Background()))

	assert.True(t, e.Loaded())
	assert.False(t, e.Stale())

	report := e.Report()
	assert.Equal(t, 2, report.Devices)
	assert.Equal(t, 1, report.DataPoints)

	views := e.Snapshot()
	require.Len(t, views, 1)
	assert.Equal(t, "L1", views[0].ID)

	// Roots default to expanded on first load
	assert.True(t, e.Expansion().IsExpanded("L1"))
}

func TestEngineLoadFailure(t *testing.T) {
	e, p := newTestEngine(t)
	p.setDeviceErr(errors.New("gateway down"))

	err := e.Load(context.Background())
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "devices", loadErr.Stage)

	assert.False(t, e.Loaded())
	assert.False(t, e.Stale(), "nothing to be stale before the first load")
}

func TestEngineReloadFailureKeepsStaleTree(t *testing.T) {
	e, p := newTestEngine(t)
	require.NoError(t, e.Load(context.Background()))

	p.setDeviceErr(errors.New("gateway down"))
	require.Error(t, e.Load(context.Background()))

	// The old tree remains visible, flagged stale
	assert.True(t, e.Stale())
	assert.NotNil(t, e.Snapshot())

	p.setDeviceErr(nil)
	require.NoError(t, e.Load(context.Background()))
	assert.False(t, e.Stale())
}

func TestEngineFiltered(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Load(context.Background()))

	views := e.Filtered("fan")
	require.Len(t, views, 1)
	require.Len(t, views[0].Children, 1)
	assert.Equal(t, "Yard", views[0].Children[0].Name)

	assert.Empty(t, e.Filtered("zzz"))
}

func TestEngineSelect(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Load(context.Background()))

	var selected *asset.NodeView
	e.SetCallbacks(Callbacks{
		OnNodeSelect: func(v *asset.NodeView) { selected = v },
	})

	require.NoError(t, e.Select("dev1"))
	assert.Equal(t, "dev1", e.SelectedID())
	require.NotNil(t, selected)
	assert.Equal(t, "Pump", selected.Name)

	assert.Error(t, e.Select("missing"))
}

func TestEngineEditGates(t *testing.T) {
	p := newMockProvider()
	cfg := DefaultConfig()
	cfg.AllowEdit = false
	e := New(p, cfg)
	defer e.Close()
	require.NoError(t, e.Load(context.Background()))

	assert.ErrorIs(t, e.Edit("dev1"), ErrEditDisabled)
	assert.ErrorIs(t, e.Delete("dev1"), ErrEditDisabled)
}

func TestEngineDeleteIsDelegated(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Load(context.Background()))

	var deleted string
	e.SetCallbacks(Callbacks{
		OnNodeDelete: func(v *asset.NodeView) { deleted = v.ID },
	})

	require.NoError(t, e.Delete("dev1"))
	assert.Equal(t, "dev1", deleted)

	// The engine itself never removes nodes
	views := e.Snapshot()
	require.Len(t, views, 1)
	found := false
	var walk func(v *asset.NodeView)
	walk = func(v *asset.NodeView) {
		if v.ID == "dev1" {
			found = true
		}
		for _, c := range v.Children {
			walk(c)
		}
	}
	walk(views[0])
	assert.True(t, found)
}

func TestEngineDragDropCommit(t *testing.T) {
	e, p := newTestEngine(t)
	require.NoError(t, e.Load(context.Background()))

	var moved []string
	e.SetCallbacks(Callbacks{
		OnNodeMove: func(nodeID, newParentID string) {
			moved = append(moved, nodeID+"->"+newParentID)
		},
	})

	loadsBefore := p.loadCount()

	require.NoError(t, e.BeginDrag("dev1"))
	assert.Equal(t, move.StateDragging, e.MoveState())

	assert.True(t, e.HoverTarget("L1:A2"))
	require.NoError(t, e.Drop(context.Background()))

	assert.Equal(t, []string{"dev1->L1:A2"}, p.moves)
	assert.Equal(t, []string{"dev1->L1:A2"}, moved)

	// A committed drop triggers a reconciling reload
	assert.Equal(t, loadsBefore+1, p.loadCount())
	assert.Equal(t, move.StateCommitted, e.MoveState())
}

func TestEngineDragDropRollback(t *testing.T) {
	e, p := newTestEngine(t)
	require.NoError(t, e.Load(context.Background()))
	p.moveErr = errors.New("rejected")

	loadsBefore := p.loadCount()

	require.NoError(t, e.BeginDrag("dev1"))
	require.True(t, e.HoverTarget("L1:A2"))

	err := e.Drop(context.Background())
	require.Error(t, err)

	var moveErr *move.MoveError
	assert.ErrorAs(t, err, &moveErr)
	assert.Equal(t, move.StateRolledBack, e.MoveState())

	// No reload after a failed commit, and the tree shows the old shape
	assert.Equal(t, loadsBefore, p.loadCount())
	views := e.Filtered("pump")
	require.Len(t, views, 1)
	assert.Equal(t, "Hall", views[0].Children[0].Name)
}

func TestEngineDragDropGates(t *testing.T) {
	p := newMockProvider()
	cfg := DefaultConfig()
	cfg.AllowDragDrop = false
	e := New(p, cfg)
	defer e.Close()
	require.NoError(t, e.Load(context.Background()))

	assert.ErrorIs(t, e.BeginDrag("dev1"), ErrDragDropDisabled)
	assert.False(t, e.HoverTarget("L1:A2"))
	assert.ErrorIs(t, e.Drop(context.Background()), ErrDragDropDisabled)
}

func TestEngineDragBeforeLoad(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.ErrorIs(t, e.BeginDrag("dev1"), ErrNotLoaded)
}

func TestEngineViewState(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Load(context.Background()))
	require.NoError(t, e.Select("dev1"))
	e.Expansion().Expand("L1:A1")

	store := persistence.NewViewStateStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, e.SaveViewState(store))

	// A fresh engine restores the same view
	e2, _ := newTestEngine(t)
	require.NoError(t, e2.Load(context.Background()))
	require.NoError(t, e2.RestoreViewState(store))

	assert.Equal(t, "dev1", e2.SelectedID())
	assert.True(t, e2.Expansion().IsExpanded("L1:A1"))
	assert.True(t, e2.Expansion().IsExpanded("L1"))
}

func TestEngineClose(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.Load(context.Background()))

	e.Close()

	assert.Nil(t, e.Snapshot())
	assert.ErrorIs(t, e.Load(context.Background()), ErrClosed)
	assert.ErrorIs(t, e.BeginDrag("dev1"), ErrClosed)
}

func TestEngineExportCBOR(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.ExportCBOR()
	assert.ErrorIs(t, err, ErrNotLoaded)

	require.NoError(t, e.Load(context.Background()))
	data, err := e.ExportCBOR()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
