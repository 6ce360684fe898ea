// Package project is the in-memory representation of a parsed SB3 project:
// targets, blocks, scripts, variables, lists and broadcasts. It is built
// once from JSON (see decode.go) and is immutable afterward except for
// mutable Variable/List contents and clone creation/destruction, per
// spec.md §3.
package project

import (
	"encoding/json"

	"github.com/mna/scratchrt/lang/value"
)

// BlockID identifies a block within a single target's block table. Ids are
// opaque strings in the SB3 source format; the resolver (lang/resolver)
// turns them into direct pointers for fast repeated traversal.
type BlockID string

// VarKind distinguishes a scalar Variable from a List.
type VarKind int

const (
	KindScalar VarKind = iota
	KindList
)

// Variable is a named, identified storage cell owned by exactly one Target.
// Stage variables are globally readable by all targets (see
// Target.Lookup and runtime.LookupVariableByNameAndType).
type Variable struct {
	ID    string
	Name  string
	Kind  VarKind
	Value value.Value   // meaningful when Kind == KindScalar
	List  []value.Value // meaningful when Kind == KindList; 1-indexed externally
}

// InputLinkKind distinguishes the three shapes an input can take.
type InputLinkKind int

const (
	// InputLiteral is a shadow value baked directly into the block (a literal
	// the user typed or the default shown before a reporter is plugged in).
	InputLiteral InputLinkKind = iota
	// InputReporter references another block id whose evaluation produces the
	// value.
	InputReporter
	// InputSubstack references the first block id of a C-shaped block's body.
	InputSubstack
)

// InputLink is the value of one entry in Block.Inputs.
type InputLink struct {
	Kind    InputLinkKind
	Literal value.Value
	Block   BlockID // meaningful when Kind is InputReporter or InputSubstack

	// resolved is filled in by lang/resolver and used by the tree-walking
	// evaluator and the compiler to skip a second id->pointer lookup.
	resolved *Block
}

// Resolved returns the direct *Block handle set by the resolver, or nil if
// the project has not been resolved yet (or the link is a literal).
func (l InputLink) Resolved() *Block { return l.resolved }

// SetResolved is called by lang/resolver only.
func (l *InputLink) SetResolved(b *Block) { l.resolved = b }

// MenuOption reads a dropdown-shaped input: SB3 represents a dropdown either
// as a literal baked directly into the block (the inline primitive shape,
// e.g. a broadcast's [11, name, id]) or as a reference to a resolved "menu"
// shadow block whose only content is a field named fieldName (e.g.
// event_broadcast_menu's BROADCAST_OPTION, control_create_clone_of_menu's
// CLONE_OPTION, sensing_keyoptions' KEY_OPTION). Every dropdown input in the
// schema takes one of these two shapes; ok is false if neither matches
// (a real reporter is plugged in, or the input is altogether absent).
func (l InputLink) MenuOption(fieldName string) (string, bool) {
	switch l.Kind {
	case InputLiteral:
		if l.Literal == nil {
			return "", false
		}
		return value.ToString(l.Literal), true
	case InputReporter:
		if l.resolved != nil && l.resolved.Shadow {
			if f, ok := l.resolved.Fields[fieldName]; ok {
				return f.Name, true
			}
		}
	}
	return "", false
}

// FieldLiteral holds a constant token carried by a block field: a variable
// id, a key name, a broadcast name, or a plain literal like a costume name.
type FieldLiteral struct {
	Name  string // human-readable name, e.g. the variable's display name
	ID    string // id reference, e.g. the variable/list/broadcast id, if any
}

// Mutation carries a custom block's (procedure's) calling convention, SB3's
// "mutation" sub-object on procedures_call/procedures_definition/
// procedures_prototype blocks. SB3 encodes the array fields as JSON-within-
// JSON strings; Decode un-nests them into plain string slices.
type Mutation struct {
	ProcCode         string
	ArgumentIDs      []string
	ArgumentNames    []string
	ArgumentDefaults []string
	Warp             bool
}

// Block is one node of the block graph, keyed by opcode plus its inputs and
// fields. The block graph has no cycles along Next/Substack edges; reporter
// references form a DAG rooted at effectful (statement/hat) blocks.
type Block struct {
	ID       BlockID
	Opcode   string
	Inputs   map[string]InputLink
	Fields   map[string]FieldLiteral
	Next     BlockID
	Parent   BlockID
	TopLevel bool
	Shadow   bool
	Mutation *Mutation

	nextResolved *Block
}

// Procedure is a custom block's calling convention plus its resolved body,
// built by lang/resolver from a procedures_definition/procedures_prototype
// pair.
type Procedure struct {
	ProcCode string
	ArgNames []string
	Body     *Block
	Warp     bool
}

// NextResolved returns the direct handle for Next, set by lang/resolver.
func (b *Block) NextResolved() *Block { return b.nextResolved }

// SetNextResolved is called by lang/resolver only.
func (b *Block) SetNextResolved(n *Block) { b.nextResolved = n }

// HatKind names the activation kind of a script's hat block.
type HatKind int

const (
	HatUnknown HatKind = iota
	HatGreenFlag
	HatBroadcastReceived
	HatKeyPressed
	HatSpriteClicked
	HatCloneStart
	HatBackdropSwitch
	HatGreaterThan
)

// Script is a top-level block chain beginning at a hat block.
type Script struct {
	Hat  *Block
	Kind HatKind
	// Arg carries the broadcast name for HatBroadcastReceived or the
	// normalized key name for HatKeyPressed.
	Arg string
}

// Target is the Stage or a Sprite. Stage is unique; there is exactly one
// per Project.
type Target struct {
	Name           string
	IsStage        bool
	Variables      map[string]*Variable // keyed by SB3 variable/list id
	Blocks         map[BlockID]*Block
	Scripts        []*Script
	Clones         []*Target
	Procedures     map[string]*Procedure // keyed by proccode
	CurrentCostume int
	Volume         float64

	// CloneOf points at the prototype sprite this target was cloned from, nil
	// for non-clones. CloneID is a runtime-assigned identifier distinct from
	// the prototype's static SB3 name, used for log correlation and identity.
	CloneOf *Target
	CloneID string

	// Costumes and Sounds are retained verbatim and are opaque to the core;
	// rendering/audio subsystems interpret them.
	Costumes json.RawMessage
	Sounds   json.RawMessage

	// X, Y, Direction, Visible and Size are the subset of sprite motion state
	// the block semantics library reads/writes directly (see lang/ops/motion.go
	// and lang/ops/looks.go); actual rendering/physics is an external
	// collaborator per spec.md §1.
	X, Y      float64
	Direction float64
	Visible   bool
	Size      float64
}

// Lookup finds a variable by name in this target, falling back to the Stage
// for global visibility, per spec.md §4.5.
func (t *Target) Lookup(stage *Target, name string, kind VarKind) (*Variable, bool) {
	for _, v := range t.Variables {
		if v.Name == name && v.Kind == kind {
			return v, true
		}
	}
	if stage != nil && stage != t {
		for _, v := range stage.Variables {
			if v.Name == name && v.Kind == kind {
				return v, true
			}
		}
	}
	return nil, false
}

// Project is the complete, decoded representation of an SB3 archive's
// project.json, with costume/sound bytes out of scope (external collaborator
// per spec.md §1).
type Project struct {
	Targets []*Target
	// Broadcasts maps broadcast id -> broadcast name (SB3 stores broadcasts as
	// an id/name table shared project-wide).
	Broadcasts map[string]string

	// Monitors and Extensions are retained verbatim; monitor layout is a
	// rendering concern and extensions are an explicit Non-goal (spec.md §1),
	// but a faithful project model keeps them for round-tripping.
	Monitors   json.RawMessage
	Extensions json.RawMessage
}

// Stage returns the project's unique Stage target, or nil if malformed.
func (p *Project) Stage() *Target {
	for _, t := range p.Targets {
		if t.IsStage {
			return t
		}
	}
	return nil
}

// SpriteByName returns the first non-stage target with the given name.
func (p *Project) SpriteByName(name string) *Target {
	for _, t := range p.Targets {
		if !t.IsStage && t.Name == name {
			return t
		}
	}
	return nil
}
