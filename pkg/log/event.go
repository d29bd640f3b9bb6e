package log

import "time"

// Event represents an engine log event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// EngineID uniquely identifies the engine instance (UUID).
	EngineID string `cbor:"2,keyasint"`

	// OpID correlates events belonging to one move gesture (UUID).
	OpID string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	Load        *LoadEvent        `cbor:"5,keyasint,omitempty"` // Provider fetch
	Build       *BuildEvent       `cbor:"6,keyasint,omitempty"` // Tree assembly
	StateChange *StateChangeEvent `cbor:"7,keyasint,omitempty"` // Move state machine
	Move        *MoveEvent        `cbor:"8,keyasint,omitempty"` // Reparent outcome
	Error       *ErrorEventData   `cbor:"9,keyasint,omitempty"` // Errors at any layer
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryLoad indicates a provider snapshot fetch.
	CategoryLoad Category = 0
	// CategoryBuild indicates a tree assembly pass.
	CategoryBuild Category = 1
	// CategoryState indicates a move state machine transition.
	CategoryState Category = 2
	// CategoryMove indicates a reparent commit or rollback.
	CategoryMove Category = 3
	// CategoryError indicates an error event.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryLoad:
		return "LOAD"
	case CategoryBuild:
		return "BUILD"
	case CategoryState:
		return "STATE"
	case CategoryMove:
		return "MOVE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoadEvent captures a provider snapshot fetch.
type LoadEvent struct {
	// Devices is the number of device records fetched.
	Devices int `cbor:"1,keyasint"`

	// DataPoints is the number of data point records fetched.
	DataPoints int `cbor:"2,keyasint"`

	// Failed indicates the fetch failed and the prior tree was kept.
	Failed bool `cbor:"3,keyasint,omitempty"`

	// Duration is how long the fetch took.
	Duration time.Duration `cbor:"4,keyasint,omitempty"`
}

// BuildEvent captures a tree assembly pass.
type BuildEvent struct {
	// Devices is the number of device nodes attached.
	Devices int `cbor:"1,keyasint"`

	// DataPoints is the number of data point nodes attached.
	DataPoints int `cbor:"2,keyasint"`

	// Skipped is the number of malformed records rejected.
	Skipped int `cbor:"3,keyasint,omitempty"`

	// Orphaned is the number of data points whose device was absent.
	Orphaned int `cbor:"4,keyasint,omitempty"`
}

// StateChangeEvent captures a move state machine transition.
type StateChangeEvent struct {
	// OldState is the previous state name.
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state name.
	NewState string `cbor:"2,keyasint"`

	// NodeID is the dragged node, if a gesture is active.
	NodeID string `cbor:"3,keyasint,omitempty"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// MoveEvent captures the outcome of a reparent operation.
type MoveEvent struct {
	// NodeID is the moved node.
	NodeID string `cbor:"1,keyasint"`

	// OldParentID is the parent before the move.
	OldParentID string `cbor:"2,keyasint"`

	// NewParentID is the parent after the move.
	NewParentID string `cbor:"3,keyasint"`

	// Committed indicates the external commit succeeded.
	// False means the local tree was rolled back.
	Committed bool `cbor:"4,keyasint"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
