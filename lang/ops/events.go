package ops

import "github.com/mna/scratchrt/lang/project"

// event_broadcastandwait is a control construct (it suspends the thread
// until every spawned thread terminates) and is dispatched by lang/machine,
// not here; see package doc. event_broadcast is fire-and-forget and needs
// no suspension, so it lives here as a plain statement.
func registerEvents(t *Table) {
	t.Statements["event_broadcast"] = stBroadcast
}

func stBroadcast(ctx *EvalContext) error {
	name, err := ctx.BroadcastName("BROADCAST_INPUT")
	if err != nil {
		return err
	}
	ctx.Hooks.Broadcast(name)
	return nil
}

// BroadcastName evaluates a BROADCAST_INPUT-shaped input: the canonical SB3
// shape is either an inline broadcast primitive ([11, name, id], decoded as
// an InputLiteral) or a reference to an event_broadcast_menu shadow block
// carrying the name in its own BROADCAST_OPTION field; a real reporter
// plugged into the slot is evaluated directly. Exported so lang/machine can
// resolve the same shape for event_broadcastandwait, the suspending sibling
// of event_broadcast that lang/machine dispatches directly.
func (c *EvalContext) BroadcastName(inputName string) (string, error) {
	link, ok := c.Block.Inputs[inputName]
	if !ok {
		return "", nil
	}
	if name, ok := link.MenuOption("BROADCAST_OPTION"); ok {
		return name, nil
	}
	if link.Kind == project.InputReporter && link.Resolved() != nil {
		v, err := c.Eval(link.Resolved())
		if err != nil {
			return "", err
		}
		return v.String(), nil
	}
	return "", nil
}
