package ops

import (
	"math"

	"github.com/mna/scratchrt/lang/blockop"
	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/value"
)

func registerSensing(t *Table) {
	r := t.Reporters
	r["sensing_keypressed"] = rpKeyPressed
	r["sensing_mousex"] = rpMouseX
	r["sensing_mousey"] = rpMouseY
	r["sensing_mousedown"] = rpMouseDown
	r["sensing_timer"] = rpTimer
	r["sensing_distanceto"] = rpDistanceTo
	r["sensing_of"] = rpSensingOf

	t.Statements["sensing_resettimer"] = stResetTimer
}

// rpKeyPressed implements spec.md §4.1's key-sensing contract: a constant
// argument (a bare literal, or a sensing_keyoptions menu shadow — both are
// dropdown values fixed at export time) was already folded into the static
// index at resolve time (lang/resolver), so evaluation here only needs to
// register the dynamic case, a genuine reporter plugged into the slot,
// before querying key state.
func rpKeyPressed(ctx *EvalContext) (value.Value, error) {
	link, ok := ctx.Block.Inputs["KEY_OPTION"]
	if !ok {
		return value.Boolean(false), nil
	}
	name, dynamic, err := resolveKeyOption(ctx, link)
	if err != nil {
		return nil, err
	}
	name = blockop.NormalizeKey(name)
	if dynamic {
		ctx.Hooks.RegisterDynamicKey(name)
	}
	return value.Boolean(ctx.Hooks.KeyPressed(name)), nil
}

// resolveKeyOption evaluates a KEY_OPTION-shaped input, reporting whether it
// was a genuine reporter (dynamic: not known until this frame) rather than a
// constant dropdown value (a bare literal or a menu shadow), matching the
// literal-vs-reporter split lang/resolver's collectConstantKeySensing makes
// for the static active-keys index.
func resolveKeyOption(ctx *EvalContext, link project.InputLink) (string, bool, error) {
	if name, ok := link.MenuOption("KEY_OPTION"); ok {
		return name, false, nil
	}
	if link.Kind == project.InputReporter && link.Resolved() != nil {
		v, err := ctx.Eval(link.Resolved())
		if err != nil {
			return "", false, err
		}
		return value.ToString(v), true, nil
	}
	return "", false, nil
}

func rpMouseX(ctx *EvalContext) (value.Value, error) { return value.Number(ctx.Hooks.MouseX()), nil }
func rpMouseY(ctx *EvalContext) (value.Value, error) { return value.Number(ctx.Hooks.MouseY()), nil }
func rpMouseDown(ctx *EvalContext) (value.Value, error) {
	return value.Boolean(ctx.Hooks.MouseDown()), nil
}
func rpTimer(ctx *EvalContext) (value.Value, error) { return value.Number(ctx.Hooks.Timer()), nil }
func stResetTimer(ctx *EvalContext) error           { ctx.Hooks.ResetTimer(); return nil }

func rpDistanceTo(ctx *EvalContext) (value.Value, error) {
	// Only "_mouse_" and another sprite's name are meaningful: "_mouse_"
	// measures to the host-reported mouse x/y, a sprite name to that
	// sprite's position, and anything else that cannot be resolved to a live
	// target reports 0, matching Scratch's behavior of never erroring on
	// sensing of a deleted sprite.
	f := ctx.Field("DISTANCETOMENU")
	if f.Name == "_mouse_" {
		dx := ctx.Target.X - ctx.Hooks.MouseX()
		dy := ctx.Target.Y - ctx.Hooks.MouseY()
		return value.Number(math.Hypot(dx, dy)), nil
	}
	if other, ok := ctx.Hooks.TargetByName(f.Name); ok && other != nil {
		return value.Number(math.Hypot(ctx.Target.X-other.X, ctx.Target.Y-other.Y)), nil
	}
	return value.Number(0), nil
}

// rpSensingOf reads a variable or built-in motion/looks attribute off
// another target (or the Stage, via "_stage_"), the cross-target read
// spec.md §2 item 3 and SPEC_FULL.md §3.5 call for. OBJECT names the target,
// carried either as a bare literal or (the canonical SB3 export shape) a
// reference to a sensing_of_object_menu shadow block; PROPERTY is a plain
// dropdown field naming the variable or attribute. A target that no longer
// exists (a deleted sprite named by a stale project) reports 0, matching
// Scratch's forgiving sensing defaults rather than erroring.
func rpSensingOf(ctx *EvalContext) (value.Value, error) {
	objName := "_stage_"
	if link, ok := ctx.Block.Inputs["OBJECT"]; ok {
		if name, ok := link.MenuOption("OBJECT"); ok {
			objName = name
		}
	}

	var target *project.Target
	if objName == "_stage_" {
		target = ctx.Stage
	} else {
		target, _ = ctx.Hooks.TargetByName(objName)
	}
	if target == nil {
		return value.Number(0), nil
	}

	prop := ctx.Field("PROPERTY").Name
	if v, ok := target.Lookup(ctx.Stage, prop, project.KindScalar); ok {
		return v.Value, nil
	}
	switch prop {
	case "x position":
		return value.Number(target.X), nil
	case "y position":
		return value.Number(target.Y), nil
	case "direction":
		return value.Number(target.Direction), nil
	case "costume #":
		return value.Number(float64(target.CurrentCostume + 1)), nil
	case "size":
		return value.Number(target.Size), nil
	case "volume":
		return value.Number(target.Volume), nil
	default:
		return value.Number(0), nil
	}
}
