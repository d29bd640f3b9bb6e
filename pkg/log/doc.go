// Package log provides structured event logging for the PlantView engine.
//
// This package defines the Logger interface and Event types for capturing
// engine-level events: snapshot loads, tree assembly, drag state changes,
// move commits and rollbacks, and errors. It is separate from operational
// logging (slog) - engine capture provides a complete machine-readable
// trace of what the tree engine did and why.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/plantview/tree.tlog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Each Event carries exactly one typed payload:
//   - Load: a provider snapshot fetch (success or failure)
//   - Build: a tree assembly pass with record counts
//   - StateChange: a drag/move state machine transition
//   - Move: an optimistic move with its commit outcome
//   - Error: errors at any layer
//
// # File Format
//
// Log files use CBOR encoding with integer keys and a .tlog extension.
package log
