package engine

import (
	"context"

	"github.com/plantview/plantview-go/pkg/asset"
)

// Provider supplies asset snapshots and commits structural changes.
// It is the engine's only boundary to the outside system; implementations
// typically wrap the dashboard gateway's REST API.
type Provider interface {
	// LoadDeviceTree fetches the full flat device snapshot.
	LoadDeviceTree(ctx context.Context) ([]asset.DeviceRecord, error)

	// LoadDataPoints fetches data point records not nested in the
	// device snapshot.
	LoadDataPoints(ctx context.Context) ([]asset.DataPointRecord, error)

	// MoveNode commits a reparent. Idempotency is not assumed; the
	// engine never calls it twice for one user gesture.
	MoveNode(ctx context.Context, nodeID, newParentID string) error
}
