// Package ops is the Block Semantics Library (spec.md §4.1): one handler per
// opcode for every motion, looks, sound, events, sensing, operators and data
// primitive, plus the non-flow-control half of procedures. Control
// constructs that must suspend or redirect a thread (if, repeat, wait,
// stop_*, procedure calls) are dispatched by lang/machine instead, since
// they need direct access to the thread's frame stack; see DESIGN.md.
//
// Each handler is grounded on the teacher's opcode-table dispatch style in
// lang/machine/opcode.go: a flat map from opcode to Go function, rather than
// a type switch or a visitor, so the table is open to new opcodes without
// touching a giant switch statement.
package ops

import (
	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/value"
)

// HostHooks is the narrow interface lang/ops needs from the thread/scheduler
// (lang/machine) to implement sensing and event-effect opcodes, without
// importing lang/machine (which imports lang/ops), avoiding a cycle.
type HostHooks interface {
	// Now returns the scheduler's current virtual clock, in seconds.
	Now() float64
	// KeyPressed reports whether the named (already-normalized) key is
	// currently held.
	KeyPressed(name string) bool
	// RegisterDynamicKey records name in the per-frame dynamic active-keys
	// set (spec.md §4.1's sensing_keypressed dynamic registration rule).
	RegisterDynamicKey(name string)
	MouseX() float64
	MouseY() float64
	MouseDown() bool
	Timer() float64
	ResetTimer()
	// TargetByName finds a live sprite target by its display name, for
	// sensing_of's cross-target read; ok is false if no such sprite exists.
	TargetByName(name string) (*project.Target, bool)
	// Broadcast enqueues activation of every hat listening for name; it does
	// not wait for spawned threads to finish (that is event_broadcast, a
	// fire-and-forget statement opcode).
	Broadcast(name string)
}

// EvalContext is passed to every handler. It carries the executing block,
// its owning Target and the project's Stage (for global variable lookup),
// and an Eval callback the handler uses to evaluate a nested reporter input
// left-to-right, in applicative order, per spec.md §4.1.
type EvalContext struct {
	Block  *project.Block
	Target *project.Target
	Stage  *project.Target
	Hooks  HostHooks

	// Locals holds the current procedure call frame's argument bindings,
	// keyed by argument name, so argument_reporter_string_number/_boolean can
	// read them without lang/ops knowing anything about the call stack
	// itself. Nil outside a procedure body.
	Locals map[string]value.Value

	// Eval evaluates a reporter sub-block and returns its Value. Supplied by
	// the interpreter (lang/machine) so lang/ops never needs to know how
	// suspension or the call stack works.
	Eval func(b *project.Block) (value.Value, error)
}

// Input evaluates the named input: a literal is returned directly, a
// reporter is evaluated via Eval, and a missing input coerces to empty
// string (Scratch never errors on a missing plug).
func (c *EvalContext) Input(name string) (value.Value, error) {
	link, ok := c.Block.Inputs[name]
	if !ok {
		return value.String(""), nil
	}
	switch link.Kind {
	case project.InputLiteral:
		return link.Literal, nil
	case project.InputReporter:
		if link.Resolved() == nil {
			return value.String(""), nil
		}
		return c.Eval(link.Resolved())
	default:
		return value.String(""), nil
	}
}

// InputNumber evaluates the named input and coerces it to Number.
func (c *EvalContext) InputNumber(name string) (value.Number, error) {
	v, err := c.Input(name)
	if err != nil {
		return 0, err
	}
	return value.ToNumber(v), nil
}

// InputBoolean evaluates the named input and coerces it to Boolean.
func (c *EvalContext) InputBoolean(name string) (value.Boolean, error) {
	v, err := c.Input(name)
	if err != nil {
		return false, err
	}
	return value.ToBoolean(v), nil
}

// InputString evaluates the named input and coerces it to a string.
func (c *EvalContext) InputString(name string) (string, error) {
	v, err := c.Input(name)
	if err != nil {
		return "", err
	}
	return value.ToString(v), nil
}

// Field returns the named field literal, or the zero value if absent.
func (c *EvalContext) Field(name string) project.FieldLiteral {
	return c.Block.Fields[name]
}

// Variable resolves the named field as a scalar variable reference,
// checking the target then falling back to the Stage for global
// visibility, per spec.md §4.5.
func (c *EvalContext) Variable(fieldName string) (*project.Variable, bool) {
	f := c.Field(fieldName)
	if f.ID == "" {
		return nil, false
	}
	if v, ok := c.Target.Variables[f.ID]; ok && v.Kind == project.KindScalar {
		return v, true
	}
	if c.Stage != nil && c.Stage != c.Target {
		if v, ok := c.Stage.Variables[f.ID]; ok && v.Kind == project.KindScalar {
			return v, true
		}
	}
	return nil, false
}

// List resolves the named field as a list reference, with the same
// target-then-Stage fallback as Variable.
func (c *EvalContext) List(fieldName string) (*project.Variable, bool) {
	f := c.Field(fieldName)
	if f.ID == "" {
		return nil, false
	}
	if v, ok := c.Target.Variables[f.ID]; ok && v.Kind == project.KindList {
		return v, true
	}
	if c.Stage != nil && c.Stage != c.Target {
		if v, ok := c.Stage.Variables[f.ID]; ok && v.Kind == project.KindList {
			return v, true
		}
	}
	return nil, false
}
