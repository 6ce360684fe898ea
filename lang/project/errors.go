package project

import "fmt"

// MalformedProjectError is returned by Decode and by lang/resolver when the
// input does not satisfy the invariants spec.md §7 requires before a runtime
// may start: missing required block fields, dangling id references, or a
// cycle in the Next/Substack edges. It always halts initialization; unlike
// every other error kind in this system, it is never recovered.
type MalformedProjectError struct {
	// Target, if non-empty, names the target the problem was found in.
	Target string
	// Reason describes the specific structural problem.
	Reason string
}

func (e *MalformedProjectError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("malformed project: %s", e.Reason)
	}
	return fmt.Sprintf("malformed project: target %q: %s", e.Target, e.Reason)
}
