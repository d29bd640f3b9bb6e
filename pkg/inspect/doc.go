// Package inspect renders asset trees as indented text for CLIs,
// debugging, and log output.
package inspect
