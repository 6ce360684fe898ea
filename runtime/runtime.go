// Package runtime is the Runtime Facade (spec.md §4.5): the single entry
// point a host driver uses to load a project, start it, feed it input, and
// step its virtual clock, without reaching into lang/resolver or
// lang/machine directly. Grounded on the teacher's internal/maincmd wiring
// style (a thin command layer gluing scanner/parser/resolver together
// behind a couple of exported entry points) plus the teacher's
// lang/machine.Thread.RunProgram as the single "drive this to completion
// or suspension" call.
package runtime

import (
	"fmt"
	"io"

	"github.com/mna/scratchrt/internal/config"
	"github.com/mna/scratchrt/internal/rtlog"
	"github.com/mna/scratchrt/lang/blockop"
	"github.com/mna/scratchrt/lang/machine"
	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/resolver"
	"go.uber.org/zap"
)

// Runtime is a single loaded, resolved, runnable SB3 project.
type Runtime struct {
	project *project.Project
	linked  *resolver.Linked
	sched   *machine.Scheduler
	log     *rtlog.Logger
	cfg     config.Config
}

// Load decodes an SB3 project.json document. It does not resolve or
// validate cross-references yet; call Initialize for that.
func Load(r io.Reader) (*project.Project, error) {
	return project.Decode(r)
}

// New builds a Runtime around an already-decoded project. Pass a nil
// *zap.Logger to run with no log output (the default for tests).
func New(p *project.Project, cfg config.Config, zlog *zap.Logger) *Runtime {
	log := rtlog.New(zlog)
	return &Runtime{project: p, log: log, cfg: cfg}
}

// Initialize resolves every block-id reference in the project (rejecting
// dangling ids and Next/Substack cycles), builds the static active-keys
// index and the scheduler, per spec.md §7: a malformed project never gets
// past this point. It starts no script; BroadcastGreenFlag does that.
func (rt *Runtime) Initialize() error {
	linked, err := resolver.Resolve(rt.project)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	rt.linked = linked
	rt.sched = machine.New(linked, rt.cfg, rt.log)
	rt.sched.Initialize()
	return nil
}

// BroadcastGreenFlag stops everything currently running and starts every
// "when green flag clicked" script fresh, mirroring a click of Scratch's
// green flag button.
func (rt *Runtime) BroadcastGreenFlag() { rt.sched.BroadcastGreenFlag() }

// BroadcastKey reports a key's press/release transition to the scheduler,
// activating any "when key pressed" hats on a press edge. name is
// normalized internally via the same rule lang/blockop.NormalizeKey
// applies to hat key fields, so callers may pass a raw key name.
func (rt *Runtime) BroadcastKey(name string, pressed bool) {
	rt.sched.BroadcastKey(blockop.NormalizeKey(name), pressed)
}

// SetMousePosition updates the mouse coordinates sensing_mousex/y report.
func (rt *Runtime) SetMousePosition(x, y float64) { rt.sched.SetMousePosition(x, y) }

// SetMouseDown updates the mouse button state sensing_mousedown reports.
func (rt *Runtime) SetMouseDown(down bool) { rt.sched.SetMouseDown(down) }

// Update advances the virtual clock by dtSeconds and runs one scheduler
// frame: every active thread executes up to its work budget or its next
// suspension point, per spec.md §4.3.
func (rt *Runtime) Update(dtSeconds float64) { rt.sched.Update(dtSeconds) }

// GetActiveThreads returns the number of threads not yet finished.
func (rt *Runtime) GetActiveThreads() int { return rt.sched.ActiveThreadCount() }

// Stage returns the project's unique Stage target.
func (rt *Runtime) Stage() *project.Target { return rt.project.Stage() }

// GetSpriteTargetByName returns the first non-stage target with the given
// name (a clone's Name equals its prototype's, so this only ever finds
// the original; clones are reached through Target.Clones).
func (rt *Runtime) GetSpriteTargetByName(name string) *project.Target {
	return rt.project.SpriteByName(name)
}

// LookupVariableByNameAndType resolves a variable or list by display name
// on t, falling back to the Stage for global visibility, per spec.md §4.5.
func (rt *Runtime) LookupVariableByNameAndType(t *project.Target, name string, kind project.VarKind) (*project.Variable, bool) {
	return t.Lookup(rt.project.Stage(), name, kind)
}
