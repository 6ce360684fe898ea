package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/resolver"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Inspect loads and resolves a project without running it, printing its
// target list and the static active-keys index collected by lang/resolver,
// mirroring the teacher's tokenize/parse/resolve introspection commands.
func (c *Cmd) Inspect(ctx context.Context, stdio mainer.Stdio, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	p, err := project.Decode(f)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	linked, err := resolver.Resolve(p)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	for _, t := range p.Targets {
		kind := "sprite"
		if t.IsStage {
			kind = "stage"
		}
		fmt.Fprintf(stdio.Stdout, "%s %q: %d blocks, %d scripts\n", kind, t.Name, len(t.Blocks), len(t.Scripts))
	}

	fmt.Fprintln(stdio.Stdout, "static active keys:")
	keys := maps.Keys(linked.StaticActiveKeys)
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(stdio.Stdout, "  %s\n", k)
	}
	return nil
}
