// Package maincmd wires the CLI flag parser to the runtime package,
// grounded on the teacher's internal/maincmd.Cmd: a mainer.Cmd-shaped
// struct with a reflection-discovered command table built from its own
// exported methods.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "scratchrt"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> <project.json>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <project.json>
       %[1]s -h|--help
       %[1]s -v|--version

Host driver for the %[1]s Scratch 3 execution engine core.

The <command> can be one of:
       run                       Load, resolve and run a project for a
                                 fixed number of frames, then print the
                                 final variable/list state.
       inspect                   Load and resolve a project and print its
                                 target list and static active-keys index.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Valid flag options for the <run> command are:
       --frames N                Number of scheduler frames to run
                                 (default 60).
       --dt SECONDS              Virtual seconds per frame (default 0.02).

More information on the %[1]s repository:
       https://github.com/mna/scratchrt
`, binName)
)

// Cmd is the top-level CLI command, parsed by github.com/mna/mainer.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Frames int     `flag:"frames"`
	DT     float64 `flag:"dt"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string)        { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) { c.flags = flags }

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	if len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: a project.json path must be provided", cmdName)
	}
	if c.Frames == 0 {
		c.Frames = 60
	}
	if c.DT == 0 {
		c.DT = 0.02
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{EnvVars: false, EnvPrefix: binName + "_"}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds discovers every exported method of v shaped like a subcommand
// handler (ctx, stdio, args) error, keyed by lowercased method name.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
