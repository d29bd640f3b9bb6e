// Command plantview-tree is an interactive explorer for the PlantView
// asset tree engine.
//
// It drives a full engine instance against either a local YAML fixture or
// a PlantView gateway, and exposes the engine's operations (load, search,
// expand/collapse, drag-and-drop reparenting) as shell commands.
//
// Usage:
//
//	plantview-tree [flags]
//
// Flags:
//
//	-fixture string   Path to a YAML asset fixture
//	-gateway string   Gateway base URL (e.g. http://gateway.local:8086)
//	-discover         Discover a gateway via mDNS and connect to it
//	-state string     View state file (default "plantview-state.json")
//	-log string       Write engine events to a .tlog file
//	-verbose          Echo engine events to the console via slog
//	-no-dragdrop      Disable drag-and-drop reparenting
//
// Examples:
//
//	# Explore a fixture offline
//	plantview-tree -fixture testdata/assets.yaml
//
//	# Connect to a known gateway with event logging
//	plantview-tree -gateway http://10.0.0.12:8086 -log tree.tlog
//
//	# Find a gateway on the local network
//	plantview-tree -discover -verbose
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plantview/plantview-go/cmd/plantview-tree/interactive"
	"github.com/plantview/plantview-go/pkg/engine"
	"github.com/plantview/plantview-go/pkg/log"
	"github.com/plantview/plantview-go/pkg/provider"
)

func main() {
	var (
		fixturePath = flag.String("fixture", "", "path to a YAML asset fixture")
		gatewayURL  = flag.String("gateway", "", "gateway base URL")
		discover    = flag.Bool("discover", false, "discover a gateway via mDNS")
		statePath   = flag.String("state", "plantview-state.json", "view state file")
		logPath     = flag.String("log", "", "write engine events to a .tlog file")
		verbose     = flag.Bool("verbose", false, "echo engine events to the console")
		noDragDrop  = flag.Bool("no-dragdrop", false, "disable drag-and-drop reparenting")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Shut down cleanly on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	prov, err := buildProvider(ctx, *fixturePath, *gatewayURL, *discover)
	if err != nil {
		stdlog.Fatalf("Failed to set up provider: %v", err)
	}

	cfg := engine.DefaultConfig()
	cfg.AllowDragDrop = !*noDragDrop

	var loggers []log.Logger
	if *verbose {
		loggers = append(loggers, log.NewSlogAdapter(slog.Default()))
	}
	if *logPath != "" {
		fl, err := log.NewFileLogger(*logPath)
		if err != nil {
			stdlog.Fatalf("Failed to open event log: %v", err)
		}
		defer fl.Close()
		loggers = append(loggers, fl)
	}
	if len(loggers) > 0 {
		cfg.Logger = log.NewMultiLogger(loggers...)
	}

	eng := engine.New(prov, cfg)
	defer eng.Close()

	explorer, err := interactive.New(eng, *statePath)
	if err != nil {
		stdlog.Fatalf("Failed to start explorer: %v", err)
	}

	if err := eng.Load(ctx); err != nil {
		// Not fatal: the explorer can retry with `reload`.
		fmt.Fprintf(os.Stderr, "Initial load failed: %v\n", err)
	}

	explorer.Run(ctx, cancel)
}

// buildProvider picks the provider implementation from the flags.
func buildProvider(ctx context.Context, fixturePath, gatewayURL string, discover bool) (engine.Provider, error) {
	switch {
	case fixturePath != "":
		return provider.NewFixtureProvider(fixturePath), nil

	case gatewayURL != "":
		return provider.NewHTTPProvider(gatewayURL), nil

	case discover:
		browseCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		gateways, err := provider.DiscoverGateways(browseCtx)
		if err != nil {
			return nil, err
		}
		if len(gateways) == 0 {
			return nil, fmt.Errorf("no gateways found on the local network")
		}
		gw := gateways[0]
		fmt.Printf("Using gateway %q at %s\n", gw.Name, gw.BaseURL())
		return provider.NewHTTPProvider(gw.BaseURL()), nil

	default:
		return nil, fmt.Errorf("one of -fixture, -gateway or -discover is required")
	}
}
