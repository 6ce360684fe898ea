package machine

import (
	"github.com/mna/scratchrt/lang/blockop"
	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/value"
)

// execBlock executes one statement block and advances th.cur, or leaves a
// control construct to set up the thread's next suspension/continuation
// itself. Control constructs are dispatched here rather than through
// lang/ops.Table because they need direct access to the thread's frame
// stack and status, which lang/ops intentionally has no visibility into
// (see lang/ops package doc).
func (s *Scheduler) execBlock(th *Thread, b *project.Block) error {
	switch b.Opcode {
	case "control_if":
		return s.execIf(th, b)
	case "control_if_else":
		return s.execIfElse(th, b)
	case "control_repeat":
		return s.execRepeat(th, b)
	case "control_forever":
		return s.execForever(th, b)
	case "control_repeat_until":
		return s.execRepeatUntil(th, b)
	case "control_wait":
		return s.execWait(th, b)
	case "control_wait_until":
		return s.execWaitUntil(th, b)
	case "control_stop":
		return s.execStop(th, b)
	case "control_create_clone_of":
		return s.execCreateClone(th, b)
	case "control_delete_this_clone":
		return s.execDeleteClone(th, b)
	case "procedures_call":
		return s.execProcedureCall(th, b)
	case "event_broadcastandwait":
		return s.execBroadcastAndWait(th, b)
	}

	ctx := s.newCtx(th, b)
	fn, ok := s.table.Statements[blockop.Opcode(b.Opcode)]
	if !ok {
		s.log.WarnOnce("statement:"+b.Opcode, "unknown statement opcode", "opcode", b.Opcode)
		th.cur = b.NextResolved()
		return nil
	}
	if err := fn(ctx); err != nil {
		return err
	}
	th.cur = b.NextResolved()
	return nil
}

func substackOf(b *project.Block, name string) *project.Block {
	link, ok := b.Inputs[name]
	if !ok || link.Kind != project.InputSubstack {
		return nil
	}
	return link.Resolved()
}

func (s *Scheduler) execIf(th *Thread, b *project.Block) error {
	cond := s.evalBool(th, conditionOf(b))
	if !cond {
		th.cur = b.NextResolved()
		return nil
	}
	body := substackOf(b, "SUBSTACK")
	if body == nil {
		th.cur = b.NextResolved()
		return nil
	}
	th.pushFrame(&frame{kind: frameBlock, after: b.NextResolved()})
	th.cur = body
	return nil
}

// conditionOf returns the resolved CONDITION reporter block for evalBool to
// evaluate; nil means "no condition plugged in", which Scratch treats as
// false.
func conditionOf(b *project.Block) *project.Block {
	link, ok := b.Inputs["CONDITION"]
	if !ok || link.Kind != project.InputReporter {
		return nil
	}
	return link.Resolved()
}

func (s *Scheduler) execIfElse(th *Thread, b *project.Block) error {
	cond := s.evalBool(th, conditionOf(b))
	branch := "SUBSTACK2"
	if cond {
		branch = "SUBSTACK"
	}
	body := substackOf(b, branch)
	if body == nil {
		th.cur = b.NextResolved()
		return nil
	}
	th.pushFrame(&frame{kind: frameBlock, after: b.NextResolved()})
	th.cur = body
	return nil
}

func (s *Scheduler) execRepeat(th *Thread, b *project.Block) error {
	ctx := s.newCtx(th, b)
	n, err := ctx.InputNumber("TIMES")
	if err != nil {
		return err
	}
	count := int(n)
	body := substackOf(b, "SUBSTACK")
	if count <= 0 || body == nil {
		th.cur = b.NextResolved()
		return nil
	}
	th.pushFrame(&frame{kind: frameLoopRepeat, body: body, remaining: count - 1, after: b.NextResolved()})
	th.cur = body
	return nil
}

func (s *Scheduler) execForever(th *Thread, b *project.Block) error {
	body := substackOf(b, "SUBSTACK")
	if body == nil {
		// An empty forever loop still never completes; park the thread by
		// re-pushing a frame whose body is nil so retireOrReenter keeps
		// yielding every frame instead of looping this call forever.
		th.pushFrame(&frame{kind: frameLoopForever, body: nil, after: b.NextResolved()})
		th.cur = nil
		return nil
	}
	th.pushFrame(&frame{kind: frameLoopForever, body: body, after: b.NextResolved()})
	th.cur = body
	return nil
}

func (s *Scheduler) execRepeatUntil(th *Thread, b *project.Block) error {
	cond := conditionOf(b)
	if bool(s.evalBool(th, cond)) {
		th.cur = b.NextResolved()
		return nil
	}
	body := substackOf(b, "SUBSTACK")
	th.pushFrame(&frame{kind: frameLoopRepeatUntil, body: body, cond: cond, after: b.NextResolved()})
	th.cur = body
	return nil
}

func (s *Scheduler) execWait(th *Thread, b *project.Block) error {
	ctx := s.newCtx(th, b)
	n, err := ctx.InputNumber("DURATION")
	if err != nil {
		return err
	}
	th.wakeAt = s.clock + float64(n)
	th.waitResume = b.NextResolved()
	th.status = StatusWaitingSeconds
	th.cur = nil
	return nil
}

func (s *Scheduler) execWaitUntil(th *Thread, b *project.Block) error {
	cond := conditionOf(b)
	if bool(s.evalBool(th, cond)) {
		th.cur = b.NextResolved()
		return nil
	}
	th.waitCond = cond
	th.waitResume = b.NextResolved()
	th.status = StatusWaitingUntil
	th.cur = nil
	return nil
}

func (s *Scheduler) execStop(th *Thread, b *project.Block) error {
	switch b.Fields["STOP_OPTION"].Name {
	case "all":
		for _, t := range s.threads {
			t.status = StatusDone
		}
	case "this script":
		th.status = StatusDone
	case "other scripts in sprite":
		for _, t := range s.threads {
			if t != th && t.Target == th.Target {
				t.status = StatusDone
			}
		}
		th.cur = b.NextResolved()
	default:
		th.cur = b.NextResolved()
	}
	return nil
}

func (s *Scheduler) execProcedureCall(th *Thread, b *project.Block) error {
	if b.Mutation == nil || b.Mutation.ProcCode == "" {
		th.cur = b.NextResolved()
		return nil
	}
	proc := th.Target.Procedures[b.Mutation.ProcCode]
	if proc == nil {
		s.log.WarnOnce("proc:"+b.Mutation.ProcCode, "call to unknown procedure", "proccode", b.Mutation.ProcCode)
		th.cur = b.NextResolved()
		return nil
	}
	if th.callDepth >= s.cfg.MaxCallDepth {
		s.log.WarnOnce("proc:overflow:"+b.Mutation.ProcCode, "procedure call depth exceeded, terminating thread", "proccode", b.Mutation.ProcCode, "depth", th.callDepth)
		th.status = StatusDone
		th.cur = nil
		return nil
	}
	ctx := s.newCtx(th, b)
	newLocals := make(map[string]value.Value, len(proc.ArgNames))
	for i, argID := range b.Mutation.ArgumentIDs {
		if i >= len(proc.ArgNames) {
			break
		}
		v, err := ctx.Input(argID)
		if err != nil {
			return err
		}
		newLocals[proc.ArgNames[i]] = v
	}

	th.pushFrame(&frame{kind: frameProcedure, after: b.NextResolved(), savedLocals: th.locals, warp: proc.Warp})
	th.callDepth++
	th.locals = newLocals
	if proc.Warp {
		th.warpDepth++
	}
	th.cur = proc.Body
	return nil
}

func (s *Scheduler) execBroadcastAndWait(th *Thread, b *project.Block) error {
	ctx := s.newCtx(th, b)
	name, err := ctx.BroadcastName("BROADCAST_INPUT")
	if err != nil {
		return err
	}
	started := s.broadcastAndWait(name)
	if len(started) == 0 {
		th.cur = b.NextResolved()
		return nil
	}
	th.awaiting = started
	th.waitResume = b.NextResolved()
	th.status = StatusWaitingThreads
	th.cur = nil
	return nil
}
