// Package interactive provides the interactive command-line interface
// for the plantview-tree explorer.
package interactive

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/plantview/plantview-go/pkg/engine"
	"github.com/plantview/plantview-go/pkg/inspect"
	"github.com/plantview/plantview-go/pkg/move"
	"github.com/plantview/plantview-go/pkg/persistence"
	"github.com/plantview/plantview-go/pkg/provider"
)

// Explorer handles interactive mode for plantview-tree.
type Explorer struct {
	eng       *engine.Engine
	store     *persistence.ViewStateStore
	formatter *inspect.Formatter
	rl        *readline.Instance
}

// New creates a new interactive explorer.
func New(eng *engine.Engine, statePath string) (*Explorer, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tree> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	e := &Explorer{
		eng:       eng,
		store:     persistence.NewViewStateStore(statePath),
		formatter: inspect.NewFormatter(),
		rl:        rl,
	}

	// Show drag-and-drop progress on the prompt's output writer
	eng.OnMoveStateChange(func(old, new move.State) {
		fmt.Fprintf(rl.Stdout(), "Move: %s -> %s\n", old, new)
	})

	return e, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (e *Explorer) Stdout() io.Writer {
	return e.rl.Stdout()
}

// Run starts the interactive command loop.
func (e *Explorer) Run(ctx context.Context, cancel context.CancelFunc) {
	defer e.rl.Close()

	e.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := e.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(e.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			e.printHelp()

		case "tree", "t":
			e.cmdTree(args)

		case "ids":
			e.formatter.ShowIDs = !e.formatter.ShowIDs
			fmt.Fprintf(e.rl.Stdout(), "Node ids: %v\n", e.formatter.ShowIDs)

		case "reload", "load":
			e.cmdReload(ctx)

		case "report":
			e.cmdReport()

		case "expand", "e":
			e.cmdExpand(args)

		case "collapse", "c":
			e.cmdCollapse(args)

		case "expanded":
			e.cmdExpanded()

		case "select", "sel":
			e.cmdSelect(args)

		case "drag":
			e.cmdDrag(args)

		case "hover":
			e.cmdHover(args)

		case "drop":
			e.cmdDrop(ctx)

		case "cancel":
			e.eng.CancelDrag()
			fmt.Fprintln(e.rl.Stdout(), "Drag cancelled")

		case "state":
			e.cmdState()

		case "export":
			e.cmdExport(args)

		case "save":
			e.cmdSave()

		case "restore":
			e.cmdRestore()

		case "discover":
			e.cmdDiscover(ctx)

		case "quit", "exit", "q":
			fmt.Fprintln(e.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(e.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (e *Explorer) printHelp() {
	fmt.Fprintln(e.rl.Stdout(), `
PlantView Tree Commands:
  Viewing:
    tree [query]       - Print the tree (optionally filtered by a search query)
    ids                - Toggle node id display
    report             - Show the last build report
    state              - Show engine and move state

  Data:
    reload             - Reload devices and data points from the provider
    export <file>      - Export the tree as a CBOR snapshot

  Expansion:
    expand <id>        - Expand a node
    collapse <id>      - Collapse a node
    expanded           - List expanded node ids
    save               - Save expansion and selection to the state file
    restore            - Restore expansion and selection from the state file

  Editing:
    select <id>        - Select a node
    drag <id>          - Start dragging a node
    hover <id>         - Check a drop target while dragging
    drop               - Drop onto the last hovered target
    cancel             - Cancel the current drag

  General:
    discover           - List PlantView gateways on the local network
    help               - Show this help
    quit               - Exit`)
}

func (e *Explorer) cmdTree(args []string) {
	var views = e.eng.Snapshot()
	if len(args) > 0 {
		views = e.eng.Filtered(strings.Join(args, " "))
	}
	if views == nil {
		fmt.Fprintln(e.rl.Stdout(), "No tree loaded (try 'reload')")
		return
	}
	if len(views) == 0 {
		fmt.Fprintln(e.rl.Stdout(), "No matches")
		return
	}
	fmt.Fprint(e.rl.Stdout(), e.formatter.Format(views))
	if e.eng.Stale() {
		fmt.Fprintln(e.rl.Stdout(), "(stale: last reload failed)")
	}
}

func (e *Explorer) cmdReload(ctx context.Context) {
	start := time.Now()
	if err := e.eng.Load(ctx); err != nil {
		fmt.Fprintf(e.rl.Stdout(), "Load failed: %v\n", err)
		return
	}
	r := e.eng.Report()
	fmt.Fprintf(e.rl.Stdout(), "Loaded %d devices, %d data points in %s\n",
		r.Devices, r.DataPoints, time.Since(start).Round(time.Millisecond))
}

func (e *Explorer) cmdReport() {
	if !e.eng.Loaded() {
		fmt.Fprintln(e.rl.Stdout(), "No tree loaded")
		return
	}
	r := e.eng.Report()
	fmt.Fprintf(e.rl.Stdout(), "Devices:     %d\n", r.Devices)
	fmt.Fprintf(e.rl.Stdout(), "Data points: %d\n", r.DataPoints)
	fmt.Fprintf(e.rl.Stdout(), "Skipped:     %d\n", r.Skipped)
	fmt.Fprintf(e.rl.Stdout(), "Orphaned:    %d\n", r.Orphaned)
}

func (e *Explorer) cmdExpand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(e.rl.Stdout(), "Usage: expand <node-id>")
		return
	}
	e.eng.Expansion().Expand(args[0])
}

func (e *Explorer) cmdCollapse(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(e.rl.Stdout(), "Usage: collapse <node-id>")
		return
	}
	e.eng.Expansion().Collapse(args[0])
}

func (e *Explorer) cmdExpanded() {
	ids := e.eng.Expansion().ExpandedIDs()
	if len(ids) == 0 {
		fmt.Fprintln(e.rl.Stdout(), "Nothing expanded")
		return
	}
	for _, id := range ids {
		fmt.Fprintln(e.rl.Stdout(), id)
	}
}

func (e *Explorer) cmdSelect(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(e.rl.Stdout(), "Usage: select <node-id>")
		return
	}
	if err := e.eng.Select(args[0]); err != nil {
		fmt.Fprintf(e.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(e.rl.Stdout(), "Selected %s\n", args[0])
}

func (e *Explorer) cmdDrag(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(e.rl.Stdout(), "Usage: drag <node-id>")
		return
	}
	if err := e.eng.BeginDrag(args[0]); err != nil {
		fmt.Fprintf(e.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(e.rl.Stdout(), "Dragging %s (use 'hover <id>' then 'drop')\n", args[0])
}

func (e *Explorer) cmdHover(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(e.rl.Stdout(), "Usage: hover <node-id>")
		return
	}
	if e.eng.HoverTarget(args[0]) {
		fmt.Fprintf(e.rl.Stdout(), "%s is a valid drop target\n", args[0])
	} else {
		fmt.Fprintf(e.rl.Stdout(), "%s is not a valid drop target\n", args[0])
	}
}

func (e *Explorer) cmdDrop(ctx context.Context) {
	if err := e.eng.Drop(ctx); err != nil {
		fmt.Fprintf(e.rl.Stdout(), "Drop failed: %v\n", err)
		return
	}
	fmt.Fprintln(e.rl.Stdout(), "Move committed")
}

func (e *Explorer) cmdState() {
	fmt.Fprintf(e.rl.Stdout(), "Loaded:   %v\n", e.eng.Loaded())
	fmt.Fprintf(e.rl.Stdout(), "Stale:    %v\n", e.eng.Stale())
	fmt.Fprintf(e.rl.Stdout(), "Move:     %s\n", e.eng.MoveState())
	fmt.Fprintf(e.rl.Stdout(), "Expanded: %d nodes\n", e.eng.Expansion().Count())
	if id := e.eng.SelectedID(); id != "" {
		fmt.Fprintf(e.rl.Stdout(), "Selected: %s\n", id)
	}
}

func (e *Explorer) cmdExport(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(e.rl.Stdout(), "Usage: export <file>")
		return
	}
	data, err := e.eng.ExportCBOR()
	if err != nil {
		fmt.Fprintf(e.rl.Stdout(), "Error: %v\n", err)
		return
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		fmt.Fprintf(e.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(e.rl.Stdout(), "Wrote %d bytes to %s\n", len(data), args[0])
}

func (e *Explorer) cmdSave() {
	if err := e.eng.SaveViewState(e.store); err != nil {
		fmt.Fprintf(e.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(e.rl.Stdout(), "Saved view state to %s\n", e.store.Path())
}

func (e *Explorer) cmdRestore() {
	if err := e.eng.RestoreViewState(e.store); err != nil {
		fmt.Fprintf(e.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(e.rl.Stdout(), "Restored view state from %s\n", e.store.Path())
}

func (e *Explorer) cmdDiscover(ctx context.Context) {
	browseCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fmt.Fprintln(e.rl.Stdout(), "Browsing for gateways (5s)...")
	gateways, err := provider.DiscoverGateways(browseCtx)
	if err != nil {
		fmt.Fprintf(e.rl.Stdout(), "Error: %v\n", err)
		return
	}
	if len(gateways) == 0 {
		fmt.Fprintln(e.rl.Stdout(), "No gateways found")
		return
	}
	for _, gw := range gateways {
		fmt.Fprintf(e.rl.Stdout(), "%s at %s\n", gw.Name, gw.BaseURL())
	}
}
