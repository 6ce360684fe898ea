package ops

import "github.com/mna/scratchrt/lang/value"

// registerProcedures wires the two custom-block reporters that read a call's
// bound arguments. procedures_call itself is a control construct dispatched
// by lang/machine (see package doc): it pushes a call frame and redirects
// execution into the callee's body, which only lang/machine can do.
func registerProcedures(t *Table) {
	t.Reporters["argument_reporter_string_number"] = rpArgument
	t.Reporters["argument_reporter_boolean"] = rpArgument
}

// rpArgument looks up the current call frame's binding for this reporter's
// argument name (carried in its VALUE field), returning empty string for an
// argument not in scope, matching Scratch's forgiving-reporter convention
// (e.g. a dangling reporter left over from a deleted custom-block argument).
func rpArgument(ctx *EvalContext) (value.Value, error) {
	name := ctx.Field("VALUE").Name
	if ctx.Locals == nil {
		return value.String(""), nil
	}
	if v, ok := ctx.Locals[name]; ok {
		return v, nil
	}
	return value.String(""), nil
}
