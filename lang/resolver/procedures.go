package resolver

import "github.com/mna/scratchrt/lang/project"

// linkProcedures finds every procedures_definition block in t and registers
// a project.Procedure for it, keyed by proccode, so procedures_call sites
// anywhere in the project can resolve their callee without re-walking the
// block table on every call (the direct-handle lowering spec.md §4.2
// requires, applied to the "procedures" opcode category).
//
// A procedures_definition's "custom_block" input references a (shadow)
// procedures_prototype block that alone carries the Mutation describing the
// proccode and argument names; the definition's own Next is the first
// block of the custom block's body.
func linkProcedures(t *project.Target) {
	t.Procedures = map[string]*project.Procedure{}
	for _, b := range t.Blocks {
		if b.Opcode != "procedures_definition" {
			continue
		}
		proto := prototypeOf(t, b)
		if proto == nil || proto.Mutation == nil || proto.Mutation.ProcCode == "" {
			continue
		}
		t.Procedures[proto.Mutation.ProcCode] = &project.Procedure{
			ProcCode: proto.Mutation.ProcCode,
			ArgNames: proto.Mutation.ArgumentNames,
			Body:     b.NextResolved(),
			Warp:     proto.Mutation.Warp,
		}
	}
}

func prototypeOf(t *project.Target, def *project.Block) *project.Block {
	link, ok := def.Inputs["custom_block"]
	if !ok {
		return nil
	}
	if link.Resolved() != nil {
		return link.Resolved()
	}
	return t.Blocks[link.Block]
}
