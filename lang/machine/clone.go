package machine

import (
	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/value"
)

// cloneCount returns the number of live clones across the whole project,
// for enforcing spec.md §3's 300-clone cap.
func (s *Scheduler) cloneCount() int { return int(s.cloneTargets.Count()) }

// cloneOptionName reads control_create_clone_of's CLONE_OPTION dropdown. The
// canonical SB3 export shape carries it as an input referencing a
// control_create_clone_of_menu shadow block with its own CLONE_OPTION field;
// a bare CLONE_OPTION field directly on the block is accepted too, for
// exporters that inline the dropdown.
func cloneOptionName(b *project.Block) string {
	if link, ok := b.Inputs["CLONE_OPTION"]; ok {
		if name, ok := link.MenuOption("CLONE_OPTION"); ok {
			return name
		}
	}
	return b.Fields["CLONE_OPTION"].Name
}

func (s *Scheduler) execCreateClone(th *Thread, b *project.Block) error {
	if s.cloneCount() >= s.cfg.CloneCap {
		th.cur = b.NextResolved()
		return nil
	}

	name := cloneOptionName(b)
	var base *project.Target
	if name == "_myself_" {
		base = th.Target
	} else {
		base = s.linked.Project.SpriteByName(name)
	}
	if base == nil {
		th.cur = b.NextResolved()
		return nil
	}
	if base.CloneOf != nil {
		base = base.CloneOf
	}

	clone := cloneTarget(base)
	base.Clones = append(base.Clones, clone)
	s.cloneTargets.Put(clone, struct{}{})
	s.startScriptsOfKind(clone, project.HatCloneStart, "")

	th.cur = b.NextResolved()
	return nil
}

// cloneTarget builds a new Target sharing base's immutable block graph and
// procedures but with independently-mutable variables/lists and motion
// state, per spec.md §3 "Clones are Sprites spawned at runtime ... each
// with independent variable/list state".
func cloneTarget(base *project.Target) *project.Target {
	vars := make(map[string]*project.Variable, len(base.Variables))
	for id, v := range base.Variables {
		nv := &project.Variable{ID: v.ID, Name: v.Name, Kind: v.Kind, Value: v.Value}
		if v.Kind == project.KindList {
			nv.List = append([]value.Value(nil), v.List...)
		}
		vars[id] = nv
	}
	return &project.Target{
		Name:           base.Name,
		IsStage:        false,
		Variables:      vars,
		Blocks:         base.Blocks,
		Scripts:        base.Scripts,
		Procedures:     base.Procedures,
		CurrentCostume: base.CurrentCostume,
		Volume:         base.Volume,
		CloneOf:        base,
		CloneID:        newCloneID(),
		Costumes:       base.Costumes,
		Sounds:         base.Sounds,
		X:              base.X,
		Y:              base.Y,
		Direction:      base.Direction,
		Visible:        base.Visible,
		Size:           base.Size,
	}
}

func (s *Scheduler) execDeleteClone(th *Thread, b *project.Block) error {
	target := th.Target
	if target.CloneOf == nil {
		// The original sprite cannot delete itself; matches Scratch's no-op.
		th.cur = b.NextResolved()
		return nil
	}

	s.cloneTargets.Delete(target)
	base := target.CloneOf
	for i, c := range base.Clones {
		if c == target {
			base.Clones = append(base.Clones[:i], base.Clones[i+1:]...)
			break
		}
	}
	for _, t := range s.threads {
		if t.Target == target {
			t.status = StatusDone
		}
	}
	return nil
}
