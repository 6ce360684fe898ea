package resolver

import "github.com/mna/scratchrt/lang/project"

// BindVariable resolves a field naming a variable or list id to its direct
// *project.Variable, checking t first and falling back to stage for global
// visibility (spec.md §3: "Stage variables are globally readable by all
// Targets"). No package in this module calls it: lang/ops'
// EvalContext.Variable and EvalContext.List do the same target-then-Stage
// id lookup inline, with an added Kind check.
func BindVariable(t, stage *project.Target, id string) (*project.Variable, bool) {
	if v, ok := t.Variables[id]; ok {
		return v, true
	}
	if stage != nil && stage != t {
		if v, ok := stage.Variables[id]; ok {
			return v, true
		}
	}
	return nil, false
}
