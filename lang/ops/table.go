package ops

import (
	"github.com/mna/scratchrt/lang/blockop"
	"github.com/mna/scratchrt/lang/value"
)

// ReporterFunc evaluates a reporter block and returns its Value.
type ReporterFunc func(ctx *EvalContext) (value.Value, error)

// StatementFunc executes a statement block's effect. It does not decide
// control flow: the caller (lang/machine) always advances to Block.Next
// afterward unless the statement itself is a control construct, which
// lang/machine dispatches separately (see package doc).
type StatementFunc func(ctx *EvalContext) error

// Table is the opcode -> handler dispatch table, grounded on the teacher's
// flat opcode-table style in lang/machine/opcode.go.
type Table struct {
	Reporters  map[blockop.Opcode]ReporterFunc
	Statements map[blockop.Opcode]StatementFunc
}

// NewTable builds the complete dispatch table for every opcode category
// spec.md §2 names, except the control-flow subset lang/machine owns
// directly.
func NewTable() *Table {
	t := &Table{
		Reporters:  map[blockop.Opcode]ReporterFunc{},
		Statements: map[blockop.Opcode]StatementFunc{},
	}
	registerMotion(t)
	registerLooks(t)
	registerSound(t)
	registerEvents(t)
	registerSensing(t)
	registerOperators(t)
	registerData(t)
	registerProcedures(t)
	return t
}
