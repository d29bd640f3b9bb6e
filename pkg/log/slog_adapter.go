package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes engine events to an slog.Logger.
// Useful for development when you want to see engine events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("engine_id", event.EngineID),
		slog.String("category", event.Category.String()),
	}

	if event.OpID != "" {
		attrs = append(attrs, slog.String("op_id", event.OpID))
	}

	// Add type-specific attributes
	switch {
	case event.Load != nil:
		attrs = append(attrs,
			slog.Int("devices", event.Load.Devices),
			slog.Int("data_points", event.Load.DataPoints),
			slog.Bool("failed", event.Load.Failed),
		)
		if event.Load.Duration > 0 {
			attrs = append(attrs, slog.Duration("duration", event.Load.Duration))
		}
	case event.Build != nil:
		attrs = append(attrs,
			slog.Int("devices", event.Build.Devices),
			slog.Int("data_points", event.Build.DataPoints),
		)
		if event.Build.Skipped > 0 {
			attrs = append(attrs, slog.Int("skipped", event.Build.Skipped))
		}
		if event.Build.Orphaned > 0 {
			attrs = append(attrs, slog.Int("orphaned", event.Build.Orphaned))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.NodeID != "" {
			attrs = append(attrs, slog.String("node_id", event.StateChange.NodeID))
		}
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Move != nil:
		attrs = append(attrs,
			slog.String("node_id", event.Move.NodeID),
			slog.String("old_parent", event.Move.OldParentID),
			slog.String("new_parent", event.Move.NewParentID),
			slog.Bool("committed", event.Move.Committed),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "tree", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
