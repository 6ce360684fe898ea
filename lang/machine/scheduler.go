package machine

import (
	"github.com/dolthub/swiss"
	"github.com/google/uuid"
	"github.com/mna/scratchrt/internal/config"
	"github.com/mna/scratchrt/internal/rtlog"
	"github.com/mna/scratchrt/lang/blockop"
	"github.com/mna/scratchrt/lang/ops"
	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/resolver"
	"github.com/mna/scratchrt/lang/value"
)

// Scheduler is the cooperative round-robin scheduler: one frame tick steps
// every running thread up to its work budget, and the Scheduler implements
// the key/mouse/timer HostHooks lang/ops needs. Hat activations are not
// queued for a later tick: BroadcastGreenFlag, BroadcastKey and broadcasts
// start their threads when they are called. Grounded on the teacher's lang/machine.Machine, the top-level
// driver owning the set of live threads, generalized to Scratch's
// multi-thread-per-frame cooperative model instead of a single call stack.
type Scheduler struct {
	linked *resolver.Linked
	stage  *project.Target
	cfg    config.Config
	log    *rtlog.Logger
	table  *ops.Table

	threads []*Thread
	nextID  int

	clock float64

	// heldKeys tracks which normalized key names are currently pressed. It
	// is consulted on every sensing_keypressed evaluation and every
	// keyboard event, so it uses the teacher's swiss.Map rather than a
	// built-in map, exactly as the teacher's lang/machine.Machine does for
	// its hot-path lookups.
	//
	// dynamicKeys is the per-frame set of keys a non-constant
	// sensing_keypressed argument resolved to, reset every Update per
	// spec.md §3's "cleared each frame" dynamic half of the active-keys
	// index; it is rebuilt from scratch every frame, so the teacher's
	// buckets-plus-load-factor swiss.Map would just add reallocation
	// overhead here and a plain map is kept instead.
	heldKeys    *swiss.Map[string, bool]
	dynamicKeys map[string]struct{}

	// keyScripts indexes every event_whenkeypressed script by its static,
	// resolve-time-known key name, built once at Initialize so a key press
	// activates its hats in O(matching scripts) instead of a full rescan.
	keyScripts map[string][]scriptRef

	mouseX, mouseY float64
	mouseDown      bool
	timerStart     float64

	cloneTargets *swiss.Map[*project.Target, struct{}]
}

type scriptRef struct {
	target *project.Target
	script *project.Script
}

// New builds a Scheduler bound to a resolved project, ready for Initialize.
func New(linked *resolver.Linked, cfg config.Config, log *rtlog.Logger) *Scheduler {
	return &Scheduler{
		linked:       linked,
		stage:        linked.Project.Stage(),
		cfg:          cfg,
		log:          log,
		table:        ops.NewTable(),
		heldKeys:     swiss.NewMap[string, bool](16),
		dynamicKeys:  map[string]struct{}{},
		keyScripts:   map[string][]scriptRef{},
		cloneTargets: swiss.NewMap[*project.Target, struct{}](4),
	}
}

// Initialize builds the static key->scripts dispatch index from every
// target's event_whenkeypressed scripts, keyed by their normalized key, per
// spec.md §4.4.
func (s *Scheduler) Initialize() {
	for _, t := range s.linked.Project.Targets {
		for _, sc := range t.Scripts {
			if sc.Kind == project.HatKeyPressed {
				s.keyScripts[sc.Arg] = append(s.keyScripts[sc.Arg], scriptRef{t, sc})
			}
		}
	}
}

// ActiveThreadCount returns the number of threads not yet StatusDone.
func (s *Scheduler) ActiveThreadCount() int {
	n := 0
	for _, th := range s.threads {
		if th.status != StatusDone {
			n++
		}
	}
	return n
}

// BroadcastGreenFlag stops every running thread and starts one fresh thread
// per HatGreenFlag script across every target, per spec.md §4.5.
func (s *Scheduler) BroadcastGreenFlag() {
	s.threads = s.threads[:0]
	s.timerStart = s.clock
	for _, t := range s.linked.Project.Targets {
		s.startScriptsOfKind(t, project.HatGreenFlag, "")
	}
	s.cloneTargets.Iter(func(ct *project.Target, _ struct{}) bool {
		s.startScriptsOfKind(ct, project.HatGreenFlag, "")
		return false
	})
}

// BroadcastKey transitions the named (already-normalized) key's held state
// and, on a press edge, activates every script listening for it via the
// static key->scripts index, per spec.md §4.4's keyboard fast path.
func (s *Scheduler) BroadcastKey(name string, pressed bool) {
	wasHeld, _ := s.heldKeys.Get(name)
	s.heldKeys.Put(name, pressed)
	if pressed && !wasHeld {
		for _, ref := range s.keyScripts[name] {
			s.startScript(ref.target, ref.script)
		}
	}
}

// startScriptsOfKind starts every script of t matching kind whose Arg (if
// any) equals arg; arg is ignored (matches any) when kind never carries
// one.
func (s *Scheduler) startScriptsOfKind(t *project.Target, kind project.HatKind, arg string) {
	for _, sc := range t.Scripts {
		if sc.Kind != kind {
			continue
		}
		if kind == project.HatBroadcastReceived && sc.Arg != arg {
			continue
		}
		s.startScript(t, sc)
	}
}

// startScript spawns a new Thread for sc on t unless one is already active,
// the usual "broadcast while already running" no-restart rule.
func (s *Scheduler) startScript(t *project.Target, sc *project.Script) *Thread {
	for _, th := range s.threads {
		if th.Target == t && th.Script == sc && th.status != StatusDone {
			return th
		}
	}
	th := newThread(s.nextID, t, sc)
	s.nextID++
	s.threads = append(s.threads, th)
	return th
}

// broadcast activates every script across every live target (prototypes
// and clones) listening for name, implementing the ops.HostHooks.Broadcast
// contract (fire-and-forget).
func (s *Scheduler) broadcast(name string) {
	for _, t := range s.linked.Project.Targets {
		s.startScriptsOfKind(t, project.HatBroadcastReceived, name)
	}
	s.cloneTargets.Iter(func(ct *project.Target, _ struct{}) bool {
		s.startScriptsOfKind(ct, project.HatBroadcastReceived, name)
		return false
	})
}

// broadcastAndWait is like broadcast but returns the set of threads it
// started or that were already running for name, for
// event_broadcastandwait's suspend-until-all-done semantics.
func (s *Scheduler) broadcastAndWait(name string) []*Thread {
	var started []*Thread
	for _, t := range s.linked.Project.Targets {
		for _, sc := range t.Scripts {
			if sc.Kind == project.HatBroadcastReceived && sc.Arg == name {
				started = append(started, s.startScript(t, sc))
			}
		}
	}
	s.cloneTargets.Iter(func(ct *project.Target, _ struct{}) bool {
		for _, sc := range ct.Scripts {
			if sc.Kind == project.HatBroadcastReceived && sc.Arg == name {
				started = append(started, s.startScript(ct, sc))
			}
		}
		return false
	})
	return started
}

// Update advances the virtual clock by dt seconds and runs one scheduler
// frame: clear the dynamic-key set, wake any threads whose wait condition
// is now satisfied, then round-robin every running thread to its next
// suspension point, per spec.md §4.3.
func (s *Scheduler) Update(dt float64) {
	s.clock += dt
	s.dynamicKeys = map[string]struct{}{}

	for i := 0; i < len(s.threads); i++ {
		th := s.threads[i]
		s.wakeIfReady(th)
		if th.status == StatusRunning || th.status == StatusYielded {
			th.status = StatusRunning
			s.runThread(th)
		}
	}

	s.reap()
}

// wakeIfReady transitions a waiting thread back to StatusRunning once its
// condition holds.
func (s *Scheduler) wakeIfReady(th *Thread) {
	switch th.status {
	case StatusWaitingSeconds:
		if s.clock >= th.wakeAt {
			th.cur = th.waitResume
			th.status = StatusRunning
		}
	case StatusWaitingUntil:
		if bool(s.evalBool(th, th.waitCond)) {
			th.cur = th.waitResume
			th.status = StatusRunning
		}
	case StatusWaitingThreads:
		if allDone(th.awaiting) {
			th.cur = th.waitResume
			th.status = StatusRunning
		}
	}
}

// runThread executes th's block chain until it suspends, finishes, or
// exhausts its per-frame work budget.
func (s *Scheduler) runThread(th *Thread) {
	steps := 0
	for th.status == StatusRunning {
		if steps >= s.cfg.WorkBudget {
			th.status = StatusYielded
			return
		}
		steps++
		if th.cur == nil {
			f := th.topFrame()
			if f == nil {
				th.status = StatusDone
				return
			}
			s.retireOrReenter(th, f)
			continue
		}
		b := th.cur
		if err := s.execBlock(th, b); err != nil {
			s.log.WarnOnce("exec:"+b.Opcode, "block execution error", "opcode", b.Opcode, "error", err)
			th.status = StatusDone
			return
		}
	}
}

// retireOrReenter is called when a thread's cursor runs off the end of a
// block chain with at least one frame on the stack: a loop frame either
// re-enters its body (yielding once per iteration unless inside a warp
// procedure) or, once exhausted, is popped and execution resumes after it;
// a procedure frame always restores the caller and resumes after the call.
func (s *Scheduler) retireOrReenter(th *Thread, f *frame) {
	switch f.kind {
	case frameLoopRepeat:
		if f.remaining > 0 {
			f.remaining--
			th.cur = f.body
			if th.warpDepth == 0 {
				th.status = StatusYielded
			}
			return
		}
		th.popFrame()
		th.cur = f.after
	case frameLoopForever:
		th.cur = f.body
		if th.warpDepth == 0 {
			th.status = StatusYielded
		}
	case frameLoopRepeatUntil:
		if bool(s.evalBool(th, f.cond)) {
			th.popFrame()
			th.cur = f.after
			return
		}
		th.cur = f.body
		if th.warpDepth == 0 {
			th.status = StatusYielded
		}
	case frameProcedure:
		th.popFrame()
		th.callDepth--
		th.locals = f.savedLocals
		if f.warp {
			th.warpDepth--
		}
		th.cur = f.after
	case frameBlock:
		th.popFrame()
		th.cur = f.after
	}
}

// reap drops every thread that reached StatusDone, including clone
// deletions, keeping the active set compact.
func (s *Scheduler) reap() {
	kept := s.threads[:0]
	for _, th := range s.threads {
		if th.status != StatusDone {
			kept = append(kept, th)
		}
	}
	s.threads = kept
}

// evalBool evaluates a boolean reporter input block, treating a missing
// block (an empty hexagonal slot) as false, matching Scratch's forgiving
// defaults.
func (s *Scheduler) evalBool(th *Thread, b *project.Block) value.Boolean {
	if b == nil {
		return false
	}
	v, err := s.evalReporter(th, b)
	if err != nil {
		s.log.WarnOnce("eval:"+b.Opcode, "reporter evaluation error", "opcode", b.Opcode, "error", err)
		return false
	}
	return value.ToBoolean(v)
}

func (s *Scheduler) evalReporter(th *Thread, b *project.Block) (value.Value, error) {
	op := blockop.Opcode(b.Opcode)
	fn, ok := s.table.Reporters[op]
	if !ok {
		s.log.WarnOnce("reporter:"+b.Opcode, "unknown reporter opcode", "opcode", b.Opcode)
		return value.String(""), nil
	}
	return fn(s.newCtx(th, b))
}

func (s *Scheduler) newCtx(th *Thread, b *project.Block) *ops.EvalContext {
	return &ops.EvalContext{
		Block:  b,
		Target: th.Target,
		Stage:  s.stage,
		Hooks:  hostHooks{s, th},
		Locals: th.locals,
		Eval:   func(rb *project.Block) (value.Value, error) { return s.evalReporter(th, rb) },
	}
}

// hostHooks adapts a (Scheduler, Thread) pair to ops.HostHooks.
type hostHooks struct {
	s  *Scheduler
	th *Thread
}

func (h hostHooks) Now() float64 { return h.s.clock }
func (h hostHooks) KeyPressed(n string) bool {
	held, _ := h.s.heldKeys.Get(n)
	return held
}
func (h hostHooks) RegisterDynamicKey(n string) { h.s.dynamicKeys[n] = struct{}{} }
func (h hostHooks) MouseX() float64             { return h.s.mouseX }
func (h hostHooks) MouseY() float64             { return h.s.mouseY }
func (h hostHooks) MouseDown() bool             { return h.s.mouseDown }
func (h hostHooks) Timer() float64              { return h.s.clock - h.s.timerStart }
func (h hostHooks) ResetTimer()                 { h.s.timerStart = h.s.clock }
func (h hostHooks) Broadcast(name string)       { h.s.broadcast(name) }
func (h hostHooks) TargetByName(name string) (*project.Target, bool) {
	t := h.s.linked.Project.SpriteByName(name)
	return t, t != nil
}

// SetMousePosition updates the mouse x/y state the sensing_mousex/y
// reporters read.
func (s *Scheduler) SetMousePosition(x, y float64) { s.mouseX, s.mouseY = x, y }

// SetMouseDown updates the mouse button state sensing_mousedown reads.
func (s *Scheduler) SetMouseDown(down bool) { s.mouseDown = down }

// newCloneID returns a fresh, globally-unique clone identifier.
func newCloneID() string { return uuid.NewString() }
