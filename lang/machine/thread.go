// Package machine is the Thread & Scheduler (spec.md §4.3) and Event/Hat
// Activation (spec.md §4.4) module: a cooperative, single-threaded
// round-robin scheduler that steps every active script's thread once per
// frame up to a per-thread work budget, suspending at waits, loop
// iteration boundaries and an exhausted work budget; a procedure return
// does not suspend. Grounded on the teacher's
// Thread/Frame/Call shape (lang/machine/thread.go, frame.go in the
// original), generalized from a single compiled-program call stack to one
// cooperative coroutine per running Scratch script.
package machine

import (
	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/value"
)

// Status is a Thread's scheduling state.
type Status int

const (
	// StatusRunning is eligible to execute blocks this frame.
	StatusRunning Status = iota
	// StatusYielded has suspended until the next frame (a loop iteration
	// boundary outside warp mode, or an exhausted per-frame work budget).
	StatusYielded
	// StatusWaitingSeconds is asleep until the scheduler's clock reaches
	// wakeAt (control_wait).
	StatusWaitingSeconds
	// StatusWaitingUntil is asleep until waitCond evaluates true
	// (control_wait_until).
	StatusWaitingUntil
	// StatusWaitingThreads is asleep until every thread in awaiting has
	// reached StatusDone (event_broadcastandwait).
	StatusWaitingThreads
	// StatusDone has finished (normally, or via a stop_* construct) and is
	// removed from the scheduler at the next cleanup pass.
	StatusDone
)

type frameKind int

const (
	frameLoopRepeat frameKind = iota
	frameLoopForever
	frameLoopRepeatUntil
	frameProcedure
	// frameBlock is a plain "resume after" continuation pushed when entering
	// a C-block's substack (control_if/control_if_else): no loop re-entry, no
	// locals/warp bookkeeping, just resume at after once the substack ends.
	frameBlock
)

// frame is a suspended continuation: a loop waiting to re-enter its body,
// a procedure call waiting to restore the caller's locals, or a plain
// C-block continuation (frameBlock).
type frame struct {
	kind frameKind

	// loop frames
	body      *project.Block
	remaining int
	cond      *project.Block

	// procedure frames
	savedLocals map[string]value.Value
	warp        bool

	// after is the block to resume at once this frame is retired.
	after *project.Block
}

// Thread is one running script instance: a Target plus a Script and a
// cursor into its block graph, with a stack of suspended loop/procedure
// frames. Grounded on the teacher's Thread (a call stack of Frames bound
// to a single compiled Function); here the "function" is a Scratch script
// and a "call" is either a loop re-entry or a custom-block invocation.
type Thread struct {
	ID     int
	Target *project.Target
	Script *project.Script

	cur    *project.Block
	frames []*frame
	locals map[string]value.Value

	// warpDepth counts nested warp (screen-refresh-skipping) custom block
	// calls currently on the stack; loop iteration boundaries only yield
	// when this is zero, per real Scratch "run without screen refresh"
	// semantics.
	warpDepth int

	// callDepth counts nested procedure (custom block) calls currently on
	// the stack, checked against config.Config.MaxCallDepth so unbounded
	// recursion terminates the thread instead of growing frames forever.
	callDepth int

	status Status

	wakeAt     float64
	waitCond   *project.Block
	waitResume *project.Block
	awaiting   []*Thread
}

// Status reports the thread's current scheduling state.
func (t *Thread) Status() Status { return t.status }

// Done reports whether the thread has finished and can be reaped.
func (t *Thread) Done() bool { return t.status == StatusDone }

func newThread(id int, target *project.Target, script *project.Script) *Thread {
	return &Thread{
		ID:     id,
		Target: target,
		Script: script,
		cur:    script.Hat.NextResolved(),
		locals: map[string]value.Value{},
		status: StatusRunning,
	}
}

func (t *Thread) pushFrame(f *frame) { t.frames = append(t.frames, f) }

func (t *Thread) topFrame() *frame {
	if len(t.frames) == 0 {
		return nil
	}
	return t.frames[len(t.frames)-1]
}

func (t *Thread) popFrame() { t.frames = t.frames[:len(t.frames)-1] }

func allDone(threads []*Thread) bool {
	for _, th := range threads {
		if th.status != StatusDone {
			return false
		}
	}
	return true
}
