package compiler_test

import (
	"testing"

	"github.com/mna/scratchrt/lang/compiler"
	"github.com/mna/scratchrt/lang/project"
	"github.com/stretchr/testify/require"
)

func link(blocks ...*project.Block) {
	for i := 0; i < len(blocks)-1; i++ {
		blocks[i].SetNextResolved(blocks[i+1])
	}
}

func TestLowerLinearChain(t *testing.T) {
	hat := &project.Block{Opcode: "event_whenflagclicked"}
	a := &project.Block{Opcode: "motion_movesteps"}
	b := &project.Block{Opcode: "looks_show"}
	link(hat, a, b)

	prog := compiler.Lower(&project.Script{Hat: hat})
	require.Len(t, prog.Instructions, 3)
	require.Equal(t, compiler.EXEC, prog.Instructions[0].Op)
	require.Same(t, a, prog.Instructions[0].Block)
	require.Equal(t, compiler.EXEC, prog.Instructions[1].Op)
	require.Same(t, b, prog.Instructions[1].Block)
	require.Equal(t, compiler.RETURN, prog.Instructions[2].Op)
}

func TestLowerIfElse(t *testing.T) {
	thenBlock := &project.Block{Opcode: "looks_show"}
	elseBlock := &project.Block{Opcode: "looks_hide"}
	ifBlock := &project.Block{
		Opcode: "control_if_else",
		Inputs: map[string]project.InputLink{
			"SUBSTACK":  {Kind: project.InputSubstack},
			"SUBSTACK2": {Kind: project.InputSubstack},
		},
	}
	setResolvedInput(ifBlock, "SUBSTACK", thenBlock)
	setResolvedInput(ifBlock, "SUBSTACK2", elseBlock)

	hat := &project.Block{Opcode: "event_whenflagclicked"}
	link(hat, ifBlock)

	prog := compiler.Lower(&project.Script{Hat: hat})
	// CJMP, EXEC(then), JMP, EXEC(else), RETURN
	require.Len(t, prog.Instructions, 5)
	require.Equal(t, compiler.CJMP, prog.Instructions[0].Op)
	require.Equal(t, 3, prog.Instructions[0].Addr)
	require.Equal(t, compiler.EXEC, prog.Instructions[1].Op)
	require.Equal(t, compiler.JMP, prog.Instructions[2].Op)
	require.Equal(t, 4, prog.Instructions[2].Addr)
	require.Equal(t, compiler.EXEC, prog.Instructions[3].Op)
	require.Equal(t, compiler.RETURN, prog.Instructions[4].Op)
}

func setResolvedInput(b *project.Block, name string, target *project.Block) {
	il := b.Inputs[name]
	il.SetResolved(target)
	b.Inputs[name] = il
}
