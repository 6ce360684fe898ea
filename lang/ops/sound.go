package ops

import "github.com/mna/scratchrt/lang/value"

// The sound subsystem itself (mixing, playback) is an external collaborator
// per spec.md §1; the core only owns the per-target volume state that other
// blocks read and write, the same way it owns size/position for motion and
// looks.
func registerSound(t *Table) {
	t.Statements["sound_changevolumeby"] = stChangeVolumeBy
	t.Statements["sound_setvolumeto"] = stSetVolumeTo
	t.Reporters["sound_volume"] = rpVolume
}

func stChangeVolumeBy(ctx *EvalContext) error {
	d, err := ctx.InputNumber("VOLUME")
	if err != nil {
		return err
	}
	ctx.Target.Volume = clampVolume(ctx.Target.Volume + float64(d))
	return nil
}

func stSetVolumeTo(ctx *EvalContext) error {
	v, err := ctx.InputNumber("VOLUME")
	if err != nil {
		return err
	}
	ctx.Target.Volume = clampVolume(float64(v))
	return nil
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func rpVolume(ctx *EvalContext) (value.Value, error) { return value.Number(ctx.Target.Volume), nil }
