package ops

import "github.com/mna/scratchrt/lang/value"

func registerLooks(t *Table) {
	t.Statements["looks_show"] = stShow
	t.Statements["looks_hide"] = stHide
	t.Statements["looks_changesizeby"] = stChangeSizeBy
	t.Statements["looks_setsizeto"] = stSetSizeTo
	t.Statements["looks_nextcostume"] = stNextCostume

	t.Reporters["looks_size"] = rpSize
	t.Reporters["looks_costumenumber"] = rpCostumeNumber
}

func stShow(ctx *EvalContext) error { ctx.Target.Visible = true; return nil }
func stHide(ctx *EvalContext) error { ctx.Target.Visible = false; return nil }

func stChangeSizeBy(ctx *EvalContext) error {
	d, err := ctx.InputNumber("CHANGE")
	if err != nil {
		return err
	}
	ctx.Target.Size += float64(d)
	return nil
}

func stSetSizeTo(ctx *EvalContext) error {
	s, err := ctx.InputNumber("SIZE")
	if err != nil {
		return err
	}
	ctx.Target.Size = float64(s)
	return nil
}

// stNextCostume advances to the next costume. The actual costume list is an
// opaque, external-collaborator concern (spec.md §1); the core only tracks
// the numeric index other blocks read, incrementing without a known upper
// bound here (the host driver/renderer owns wraparound against its costume
// count).
func stNextCostume(ctx *EvalContext) error {
	ctx.Target.CurrentCostume++
	return nil
}

func rpSize(ctx *EvalContext) (value.Value, error) { return value.Number(ctx.Target.Size), nil }

// rpCostumeNumber is a known inlining candidate per spec.md §4.1
// ("looks_costumenumber -> target.currentCostume"): it reads state directly
// rather than dispatching through a more general mechanism, since there is
// no cheaper equivalent path and no generality to preserve.
func rpCostumeNumber(ctx *EvalContext) (value.Value, error) {
	return value.Number(ctx.Target.CurrentCostume + 1), nil
}
