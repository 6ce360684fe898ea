package compiler

import "github.com/mna/scratchrt/lang/project"

// Instruction is one entry of a lowered Program. Addr is an index into the
// owning Program's Instructions, meaningful only for JMP/CJMP/REPEATDEC.
type Instruction struct {
	Op    Opcode
	Block *project.Block // meaningful for EXEC/CJMP/REPEATINIT/CALL
	Addr  int            // meaningful for JMP/CJMP/REPEATDEC
}

// Program is a script flattened into a linear instruction sequence.
type Program struct {
	Instructions []Instruction
}

// Lower flattens script's reachable block graph (following Next and
// Substack edges; Reporter edges are left as block pointers evaluated
// in-place by EXEC/CJMP, exactly as lang/ops.EvalContext.Eval does for the
// tree-walking path) into a Program. The resolver must have already run
// (script's blocks carry resolved Next/Substack pointers).
func Lower(script *project.Script) *Program {
	p := &Program{}
	lowerChain(p, script.Hat.NextResolved())
	p.Instructions = append(p.Instructions, Instruction{Op: RETURN})
	return p
}

func lowerChain(p *Program, b *project.Block) {
	for b != nil {
		lowerBlock(p, b)
		b = b.NextResolved()
	}
}

func lowerBlock(p *Program, b *project.Block) {
	switch b.Opcode {
	case "control_if":
		emitIf(p, b, "SUBSTACK", "")
	case "control_if_else":
		emitIf(p, b, "SUBSTACK", "SUBSTACK2")
	case "control_repeat":
		emitRepeat(p, b)
	case "control_forever":
		emitForever(p, b)
	case "control_repeat_until":
		emitRepeatUntil(p, b)
	case "procedures_call":
		p.Instructions = append(p.Instructions, Instruction{Op: CALL, Block: b})
	default:
		p.Instructions = append(p.Instructions, Instruction{Op: EXEC, Block: b})
	}
}

func substackBlock(b *project.Block, name string) *project.Block {
	link, ok := b.Inputs[name]
	if !ok || link.Kind != project.InputSubstack {
		return nil
	}
	return link.Resolved()
}

// emitIf lowers control_if/control_if_else: CJMP skips the then-branch
// (jumping to the else-branch, or past it, if the condition is false).
func emitIf(p *Program, b *project.Block, thenName, elseName string) {
	cjmp := len(p.Instructions)
	p.Instructions = append(p.Instructions, Instruction{Op: CJMP, Block: b})

	lowerChain(p, substackBlock(b, thenName))

	if elseName == "" {
		p.Instructions[cjmp].Addr = len(p.Instructions)
		return
	}

	jmp := len(p.Instructions)
	p.Instructions = append(p.Instructions, Instruction{Op: JMP})
	p.Instructions[cjmp].Addr = len(p.Instructions)

	lowerChain(p, substackBlock(b, elseName))
	p.Instructions[jmp].Addr = len(p.Instructions)
}

// emitRepeat lowers control_repeat: REPEATINIT evaluates TIMES once, the
// body runs, then REPEATDEC loops back while the counter remains positive.
func emitRepeat(p *Program, b *project.Block) {
	p.Instructions = append(p.Instructions, Instruction{Op: REPEATINIT, Block: b})
	top := len(p.Instructions)
	lowerChain(p, substackBlock(b, "SUBSTACK"))
	p.Instructions = append(p.Instructions, Instruction{Op: YIELD})
	p.Instructions = append(p.Instructions, Instruction{Op: REPEATDEC, Addr: top})
}

// emitForever lowers control_forever: an unconditional jump back to the
// top of the body after every iteration, yielding once per pass.
func emitForever(p *Program, b *project.Block) {
	top := len(p.Instructions)
	lowerChain(p, substackBlock(b, "SUBSTACK"))
	p.Instructions = append(p.Instructions, Instruction{Op: YIELD})
	p.Instructions = append(p.Instructions, Instruction{Op: JMP, Addr: top})
}

// emitRepeatUntil lowers control_repeat_until: CJMP re-checks the
// condition before every iteration (including the first) and exits the
// loop once it is true.
func emitRepeatUntil(p *Program, b *project.Block) {
	top := len(p.Instructions)
	p.Instructions = append(p.Instructions, Instruction{Op: CJMP, Block: b})
	cjmp := len(p.Instructions) - 1

	lowerChain(p, substackBlock(b, "SUBSTACK"))
	p.Instructions = append(p.Instructions, Instruction{Op: YIELD})
	p.Instructions = append(p.Instructions, Instruction{Op: JMP, Addr: top})
	p.Instructions[cjmp].Addr = len(p.Instructions)
}
