package provider

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/plantview/plantview-go/pkg/asset"
)

// ErrMoveRejected is returned by a FixtureProvider configured to fail
// move commits.
var ErrMoveRejected = errors.New("move rejected by fixture")

// Fixture is the on-disk YAML document a FixtureProvider reads.
type Fixture struct {
	// Devices holds the flat device records, optionally with nested
	// data points.
	Devices []asset.DeviceRecord `yaml:"devices"`

	// DataPoints holds standalone data point records keyed by device_id.
	DataPoints []asset.DataPointRecord `yaml:"data_points,omitempty"`
}

// FixtureProvider implements engine.Provider from a YAML fixture file.
// The file is re-read on every load, matching the full-snapshot reload
// semantics of a real gateway.
type FixtureProvider struct {
	path string

	mu sync.Mutex

	// moves records committed MoveNode calls in order.
	moves []MoveRecord

	// failMoves makes MoveNode fail, for exercising rollback.
	failMoves bool
}

// MoveRecord is one committed reparent.
type MoveRecord struct {
	NodeID      string
	NewParentID string
}

// NewFixtureProvider creates a provider reading from the given YAML path.
func NewFixtureProvider(path string) *FixtureProvider {
	return &FixtureProvider{path: path}
}

// SetFailMoves toggles move commit failure.
func (p *FixtureProvider) SetFailMoves(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failMoves = fail
}

// Moves returns the committed move records in order.
func (p *FixtureProvider) Moves() []MoveRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]MoveRecord(nil), p.moves...)
}

func (p *FixtureProvider) read() (*Fixture, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", p.path, err)
	}
	return &fx, nil
}

// LoadDeviceTree reads the fixture and returns its device records.
func (p *FixtureProvider) LoadDeviceTree(ctx context.Context) ([]asset.DeviceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fx, err := p.read()
	if err != nil {
		return nil, err
	}
	return fx.Devices, nil
}

// LoadDataPoints reads the fixture and returns its standalone data points.
func (p *FixtureProvider) LoadDataPoints(ctx context.Context) ([]asset.DataPointRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fx, err := p.read()
	if err != nil {
		return nil, err
	}
	return fx.DataPoints, nil
}

// MoveNode records the reparent. The fixture file itself is not rewritten;
// a subsequent load reflects the file, not the move, which is exactly the
// reconciliation behavior a stateless backend exhibits.
func (p *FixtureProvider) MoveNode(ctx context.Context, nodeID, newParentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failMoves {
		return ErrMoveRejected
	}
	p.moves = append(p.moves, MoveRecord{NodeID: nodeID, NewParentID: newParentID})
	return nil
}
