package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/scratchrt/internal/config"
	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/runtime"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Run loads, resolves and runs a project for Cmd.Frames scheduler frames of
// Cmd.DT seconds each, starting from a simulated green-flag click, then
// prints every target's variable and list state.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	p, err := runtime.Load(f)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	cfg := config.Default()
	rt := runtime.New(p, cfg, nil)
	if err := rt.Initialize(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	rt.BroadcastGreenFlag()
	for i := 0; i < c.Frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		rt.Update(c.DT)
	}

	printState(stdio, p)
	return nil
}

// printState prints every target's variable/list state in a deterministic
// order: Go map iteration order is randomized, and this output must be
// stable across runs for it to be scriptable or golden-file testable.
func printState(stdio mainer.Stdio, p *project.Project) {
	for _, t := range p.Targets {
		fmt.Fprintf(stdio.Stdout, "target %s:\n", t.Name)
		ids := maps.Keys(t.Variables)
		slices.Sort(ids)
		for _, id := range ids {
			v := t.Variables[id]
			switch v.Kind {
			case project.KindScalar:
				fmt.Fprintf(stdio.Stdout, "  %s = %s\n", v.Name, v.Value.String())
			case project.KindList:
				fmt.Fprintf(stdio.Stdout, "  %s = %v\n", v.Name, v.List)
			}
		}
	}
}
