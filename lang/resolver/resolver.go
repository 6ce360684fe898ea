// Package resolver performs the single linking pass spec.md §4.2 requires
// before a project may run: resolving every block-id reference in the
// Project Model into a direct pointer, and collecting the static
// active-keys index (spec.md §3) used by the keyboard-input fast path. It
// is grounded on the teacher's lang/resolver, which performs an analogous
// single-pass binding of identifiers to declarations before the compiler
// runs.
package resolver

import (
	"fmt"

	"github.com/mna/scratchrt/lang/blockop"
	"github.com/mna/scratchrt/lang/project"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Linked is the result of a successful Resolve: the (now internally
// pointer-linked) Project plus the static active-keys index.
type Linked struct {
	Project          *project.Project
	StaticActiveKeys map[string]struct{}
}

// Resolve links p's block graph and builds the static active-keys index. It
// returns a *project.MalformedProjectError on any dangling reference or
// cycle, per spec.md §7 ("Surfaced at initialize; the runtime refuses to
// start").
func Resolve(p *project.Project) (*Linked, error) {
	keys := map[string]struct{}{}

	for _, t := range p.Targets {
		if err := linkTarget(t); err != nil {
			return nil, err
		}
		if err := detectCycles(t); err != nil {
			return nil, err
		}
		if err := buildScripts(t); err != nil {
			return nil, err
		}
		linkProcedures(t)
		for _, s := range t.Scripts {
			if s.Kind == project.HatKeyPressed {
				keys[s.Arg] = struct{}{}
			}
		}
		collectConstantKeySensing(t, keys)
	}

	return &Linked{Project: p, StaticActiveKeys: keys}, nil
}

// linkTarget resolves every InputLink and every Block.Next within a single
// target to direct pointers, failing if any id names a block that does not
// exist in this target's block table.
func linkTarget(t *project.Target) error {
	for id, b := range t.Blocks {
		if b.Next != "" {
			next, ok := t.Blocks[b.Next]
			if !ok {
				return &project.MalformedProjectError{Target: t.Name,
					Reason: fmt.Sprintf("block %q has dangling next %q", id, b.Next)}
			}
			b.SetNextResolved(next)
		}
		for name, link := range b.Inputs {
			switch link.Kind {
			case project.InputReporter, project.InputSubstack:
				target, ok := t.Blocks[link.Block]
				if !ok {
					return &project.MalformedProjectError{Target: t.Name,
						Reason: fmt.Sprintf("block %q input %q has dangling reference %q", id, name, link.Block)}
				}
				link.SetResolved(target)
				b.Inputs[name] = link
			}
		}
	}
	return nil
}

// detectCycles walks every top-level block's Next/Substack graph looking
// for a block revisited on its own path, which would violate spec.md §3's
// "block graph has no cycles along next/substack edges" invariant.
func detectCycles(t *project.Target) error {
	visiting := map[project.BlockID]bool{}
	var walk func(b *project.Block) error
	walk = func(b *project.Block) error {
		if b == nil {
			return nil
		}
		if visiting[b.ID] {
			return &project.MalformedProjectError{Target: t.Name,
				Reason: fmt.Sprintf("cycle detected at block %q", b.ID)}
		}
		visiting[b.ID] = true
		defer delete(visiting, b.ID)

		for _, name := range sortedKeys(b.Inputs) {
			link := b.Inputs[name]
			if link.Kind == project.InputSubstack && link.Resolved() != nil {
				if err := walk(link.Resolved()); err != nil {
					return err
				}
			}
		}
		if b.NextResolved() != nil {
			if err := walk(b.NextResolved()); err != nil {
				return err
			}
		}
		return nil
	}

	for _, b := range t.Blocks {
		if b.TopLevel {
			if err := walk(b); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildScripts finds every top-level hat block in t and records a Script
// for it, classifying the hat's HatKind and extracting its broadcast/key
// argument, if any.
func buildScripts(t *project.Target) error {
	t.Scripts = t.Scripts[:0]
	for _, id := range sortedBlockIDs(t.Blocks) {
		b := t.Blocks[id]
		if !b.TopLevel {
			continue
		}
		op := blockop.Opcode(b.Opcode)
		if !blockop.IsHat(op) {
			continue
		}
		script := &project.Script{Hat: b}
		switch blockop.HatKindOf(op) {
		case blockop.HatGreenFlag:
			script.Kind = project.HatGreenFlag
		case blockop.HatBroadcastReceived:
			script.Kind = project.HatBroadcastReceived
			script.Arg = broadcastArg(b)
		case blockop.HatKeyPressed:
			script.Kind = project.HatKeyPressed
			script.Arg = blockop.NormalizeKey(keyArg(b))
		case blockop.HatSpriteClicked:
			script.Kind = project.HatSpriteClicked
		case blockop.HatCloneStart:
			script.Kind = project.HatCloneStart
		case blockop.HatBackdropSwitch:
			script.Kind = project.HatBackdropSwitch
		case blockop.HatGreaterThan:
			script.Kind = project.HatGreaterThan
		default:
			script.Kind = project.HatUnknown
		}
		t.Scripts = append(t.Scripts, script)
	}
	return nil
}

// collectConstantKeySensing finds every sensing_keypressed block whose
// KEY_OPTION input names a constant key (a bare literal, or a reference to a
// sensing_keyoptions menu shadow — both are dropdown values fixed at export
// time) and adds its normalized key name to the static active-keys index,
// per spec.md §4.1(a): "if the argument is a constant literal, the key name
// is known at compile time and contributes to the static index." This scans
// all blocks in the target regardless of reachability from a script's hat,
// matching spec.md §3's "collected once during initialize ... across all
// targets."
func collectConstantKeySensing(t *project.Target, keys map[string]struct{}) {
	for _, b := range t.Blocks {
		if b.Opcode != "sensing_keypressed" {
			continue
		}
		link, ok := b.Inputs["KEY_OPTION"]
		if !ok {
			continue
		}
		name, ok := link.MenuOption("KEY_OPTION")
		if !ok {
			continue
		}
		keys[blockop.NormalizeKey(name)] = struct{}{}
	}
}

// sortedKeys returns m's keys in deterministic order, needed because
// detectCycles walks InputLinks in map iteration order otherwise, which
// would make a malformed-project error's reported path nondeterministic
// between runs.
func sortedKeys(m map[string]project.InputLink) []string {
	out := maps.Keys(m)
	slices.Sort(out)
	return out
}

// sortedBlockIDs returns m's keys in deterministic order, so buildScripts
// appends Scripts in the same order on every run regardless of the
// project's block-map iteration order.
func sortedBlockIDs(m map[project.BlockID]*project.Block) []project.BlockID {
	out := maps.Keys(m)
	slices.Sort(out)
	return out
}
