package engine

import "github.com/plantview/plantview-go/pkg/log"

// Config configures an Engine.
type Config struct {
	// AllowEdit enables the edit and delete affordances.
	AllowEdit bool

	// AllowDragDrop enables drag-and-drop reparenting. When false the
	// move coordinator is not reachable at all.
	AllowDragDrop bool

	// ShowAddButtons is cosmetic only and carried through for the
	// rendering layer; it has no engine effect.
	ShowAddButtons bool

	// Logger receives engine events. Nil disables logging.
	Logger log.Logger
}

// DefaultConfig returns the default engine configuration: everything
// enabled, logging disabled.
func DefaultConfig() Config {
	return Config{
		AllowEdit:      true,
		AllowDragDrop:  true,
		ShowAddButtons: true,
		Logger:         log.NoopLogger{},
	}
}
