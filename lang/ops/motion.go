package ops

import (
	"math"

	"github.com/mna/scratchrt/lang/value"
)

func registerMotion(t *Table) {
	t.Statements["motion_movesteps"] = stMoveSteps
	t.Statements["motion_gotoxy"] = stGotoXY
	t.Statements["motion_changexby"] = stChangeXBy
	t.Statements["motion_changeyby"] = stChangeYBy
	t.Statements["motion_setx"] = stSetX
	t.Statements["motion_sety"] = stSetY
	t.Statements["motion_pointindirection"] = stPointInDirection
	t.Statements["motion_turnright"] = stTurnRight
	t.Statements["motion_turnleft"] = stTurnLeft

	t.Reporters["motion_xposition"] = rpXPosition
	t.Reporters["motion_yposition"] = rpYPosition
	t.Reporters["motion_direction"] = rpDirection
}

func stMoveSteps(ctx *EvalContext) error {
	steps, err := ctx.InputNumber("STEPS")
	if err != nil {
		return err
	}
	rad := (90 - ctx.Target.Direction) * math.Pi / 180
	ctx.Target.X += float64(steps) * math.Cos(rad)
	ctx.Target.Y += float64(steps) * math.Sin(rad)
	return nil
}

func stGotoXY(ctx *EvalContext) error {
	x, err := ctx.InputNumber("X")
	if err != nil {
		return err
	}
	y, err := ctx.InputNumber("Y")
	if err != nil {
		return err
	}
	ctx.Target.X, ctx.Target.Y = float64(x), float64(y)
	return nil
}

func stChangeXBy(ctx *EvalContext) error {
	dx, err := ctx.InputNumber("DX")
	if err != nil {
		return err
	}
	ctx.Target.X += float64(dx)
	return nil
}

func stChangeYBy(ctx *EvalContext) error {
	dy, err := ctx.InputNumber("DY")
	if err != nil {
		return err
	}
	ctx.Target.Y += float64(dy)
	return nil
}

func stSetX(ctx *EvalContext) error {
	x, err := ctx.InputNumber("X")
	if err != nil {
		return err
	}
	ctx.Target.X = float64(x)
	return nil
}

func stSetY(ctx *EvalContext) error {
	y, err := ctx.InputNumber("Y")
	if err != nil {
		return err
	}
	ctx.Target.Y = float64(y)
	return nil
}

func stPointInDirection(ctx *EvalContext) error {
	d, err := ctx.InputNumber("DIRECTION")
	if err != nil {
		return err
	}
	ctx.Target.Direction = normalizeDirection(float64(d))
	return nil
}

func stTurnRight(ctx *EvalContext) error {
	d, err := ctx.InputNumber("DEGREES")
	if err != nil {
		return err
	}
	ctx.Target.Direction = normalizeDirection(ctx.Target.Direction + float64(d))
	return nil
}

func stTurnLeft(ctx *EvalContext) error {
	d, err := ctx.InputNumber("DEGREES")
	if err != nil {
		return err
	}
	ctx.Target.Direction = normalizeDirection(ctx.Target.Direction - float64(d))
	return nil
}

// normalizeDirection keeps a sprite's heading within Scratch's (-180, 180]
// convention.
func normalizeDirection(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

func rpXPosition(ctx *EvalContext) (value.Value, error) { return value.Number(ctx.Target.X), nil }
func rpYPosition(ctx *EvalContext) (value.Value, error) { return value.Number(ctx.Target.Y), nil }
func rpDirection(ctx *EvalContext) (value.Value, error) {
	return value.Number(ctx.Target.Direction), nil
}
