package project

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mna/scratchrt/lang/value"
)

// sb3Project mirrors the public Scratch 3 project.json top-level shape
// (spec.md §6): { targets, monitors, extensions, meta }.
type sb3Project struct {
	Targets    []sb3Target     `json:"targets"`
	Monitors   json.RawMessage `json:"monitors"`
	Extensions json.RawMessage `json:"extensions"`
}

type sb3Target struct {
	IsStage        bool                       `json:"isStage"`
	Name           string                     `json:"name"`
	Variables      map[string][2]any          `json:"variables"`
	Lists          map[string]sb3List         `json:"lists"`
	Broadcasts     map[string]string          `json:"broadcasts"`
	Blocks         map[string]sb3Block        `json:"blocks"`
	Costumes       json.RawMessage            `json:"costumes"`
	Sounds         json.RawMessage            `json:"sounds"`
	CurrentCostume int                        `json:"currentCostume"`
	Volume         float64                    `json:"volume"`
	X              float64                    `json:"x"`
	Y              float64                    `json:"y"`
	Direction      float64                    `json:"direction"`
	Visible        bool                       `json:"visible"`
	Size           float64                    `json:"size"`
}

// sb3List decodes the SB3 list shape: [name, [elements...]].
type sb3List struct {
	Name     string
	Elements []any
}

func (l *sb3List) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &l.Name); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &l.Elements)
}

// sb3Block mirrors one entry of a target's "blocks" map.
type sb3Block struct {
	Opcode   string                     `json:"opcode"`
	Next     *string                    `json:"next"`
	Parent   *string                    `json:"parent"`
	Inputs   map[string]json.RawMessage `json:"inputs"`
	Fields   map[string]json.RawMessage `json:"fields"`
	TopLevel bool                       `json:"topLevel"`
	Shadow   bool                       `json:"shadow"`
	Mutation *sb3Mutation               `json:"mutation"`
}

// sb3Mutation mirrors SB3's custom-block mutation shape. The array-valued
// fields are themselves encoded as JSON strings (a JSON-in-JSON quirk of the
// public SB3 schema), and warp may be serialized as either a JSON bool or
// the strings "true"/"false" depending on the exporter, so both are decoded
// leniently here.
type sb3Mutation struct {
	ProcCode         string          `json:"proccode"`
	ArgumentIDs      string          `json:"argumentids"`
	ArgumentNames    string          `json:"argumentnames"`
	ArgumentDefaults string          `json:"argumentdefaults"`
	Warp             json.RawMessage `json:"warp"`
}

// Decode reads an SB3 project.json document and builds the in-memory
// Project model. Decoding never partially succeeds: the first structural
// problem (invalid JSON, a missing or second Stage, a block without an
// opcode, a malformed input or field) aborts with a *MalformedProjectError,
// per spec.md §7. Block references are not checked here: dangling ids and
// cycles are rejected later by lang/resolver.Resolve.
func Decode(r io.Reader) (*Project, error) {
	var raw sb3Project
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, &MalformedProjectError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	proj := &Project{
		Broadcasts: map[string]string{},
		Monitors:   raw.Monitors,
		Extensions: raw.Extensions,
	}

	var stageSeen bool
	for _, rt := range raw.Targets {
		if rt.IsStage {
			if stageSeen {
				return nil, &MalformedProjectError{Reason: "more than one Stage target"}
			}
			stageSeen = true
		}
		for id, name := range rt.Broadcasts {
			proj.Broadcasts[id] = name
		}

		t := &Target{
			Name:           rt.Name,
			IsStage:        rt.IsStage,
			Variables:      map[string]*Variable{},
			Blocks:         map[BlockID]*Block{},
			Costumes:       rt.Costumes,
			Sounds:         rt.Sounds,
			CurrentCostume: rt.CurrentCostume,
			Volume:         rt.Volume,
			X:              rt.X,
			Y:              rt.Y,
			Direction:      rt.Direction,
			Visible:        rt.Visible,
			Size:           rt.Size,
		}
		if t.Direction == 0 {
			t.Direction = 90
		}
		if t.Size == 0 {
			t.Size = 100
		}

		for id, pair := range rt.Variables {
			name, _ := pair[0].(string)
			val := decodeScalarJSON(pair[1])
			t.Variables[id] = &Variable{ID: id, Name: name, Kind: KindScalar, Value: val}
		}
		for id, l := range rt.Lists {
			vals := make([]value.Value, len(l.Elements))
			for i, e := range l.Elements {
				vals[i] = decodeScalarAny(e)
			}
			t.Variables[id] = &Variable{ID: id, Name: l.Name, Kind: KindList, List: vals}
		}

		for id, rb := range rt.Blocks {
			b, err := decodeBlock(BlockID(id), rb)
			if err != nil {
				return nil, &MalformedProjectError{Target: t.Name, Reason: err.Error()}
			}
			t.Blocks[BlockID(id)] = b
		}

		proj.Targets = append(proj.Targets, t)
	}

	if !stageSeen {
		return nil, &MalformedProjectError{Reason: "no Stage target present"}
	}
	return proj, nil
}

func decodeBlock(id BlockID, rb sb3Block) (*Block, error) {
	if rb.Opcode == "" {
		return nil, fmt.Errorf("block %q missing opcode", id)
	}
	b := &Block{
		ID:       id,
		Opcode:   rb.Opcode,
		TopLevel: rb.TopLevel,
		Shadow:   rb.Shadow,
		Inputs:   map[string]InputLink{},
		Fields:   map[string]FieldLiteral{},
	}
	if rb.Next != nil {
		b.Next = BlockID(*rb.Next)
	}
	if rb.Parent != nil {
		b.Parent = BlockID(*rb.Parent)
	}

	for name, raw := range rb.Inputs {
		link, err := decodeInput(name, raw)
		if err != nil {
			return nil, fmt.Errorf("block %q input %q: %w", id, name, err)
		}
		b.Inputs[name] = link
	}
	for name, raw := range rb.Fields {
		var pair [2]json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil {
			return nil, fmt.Errorf("block %q field %q: %w", id, name, err)
		}
		var fieldName string
		if err := json.Unmarshal(pair[0], &fieldName); err != nil {
			return nil, fmt.Errorf("block %q field %q: %w", id, name, err)
		}
		fl := FieldLiteral{Name: fieldName}
		var idStr string
		if json.Unmarshal(pair[1], &idStr) == nil {
			fl.ID = idStr
		}
		b.Fields[name] = fl
	}
	if rb.Mutation != nil {
		b.Mutation = &Mutation{
			ProcCode:         rb.Mutation.ProcCode,
			ArgumentIDs:      decodeJSONStringArray(rb.Mutation.ArgumentIDs),
			ArgumentNames:    decodeJSONStringArray(rb.Mutation.ArgumentNames),
			ArgumentDefaults: decodeJSONStringArray(rb.Mutation.ArgumentDefaults),
			Warp:             decodeWarp(rb.Mutation.Warp),
		}
	}
	return b, nil
}

// decodeJSONStringArray un-nests SB3's JSON-encoded-as-a-string array
// fields (argumentids, argumentnames, argumentdefaults). An empty or
// unparseable value decodes to an empty slice rather than an error: a
// mutation with a malformed argument list still names a callable
// proccode, and the call simply binds no arguments.
func decodeJSONStringArray(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

func decodeWarp(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s == "true"
	}
	return false
}

// isSubstackInput reports whether name is one of SB3's fixed C-block body
// slots. SB3 never marks a substack input differently from a reporter input
// in the tuple shape itself (both are [shadowKind, blockIDString]); the only
// signal is the input's name, the same convention scratch-vm's block
// primitives rely on.
func isSubstackInput(name string) bool {
	return name == "SUBSTACK" || name == "SUBSTACK2"
}

// decodeInput decodes one entry of a block's "inputs" map. SB3 encodes an
// input as a tuple [shadowKind, value]. When value is a string it is a
// reporter/substack block id; when it is itself an array, it is an inline
// shadow literal [type, value, ...].
func decodeInput(name string, raw json.RawMessage) (InputLink, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal(raw, &tuple); err != nil {
		return InputLink{}, err
	}
	if len(tuple) < 2 {
		return InputLink{}, fmt.Errorf("malformed input tuple")
	}

	// tuple[1] is either a block id string, null, or a shadow literal array.
	var asStr string
	if err := json.Unmarshal(tuple[1], &asStr); err == nil {
		kind := InputReporter
		if isSubstackInput(name) {
			kind = InputSubstack
		}
		return InputLink{Kind: kind, Block: BlockID(asStr)}, nil
	}

	var asArr []json.RawMessage
	if err := json.Unmarshal(tuple[1], &asArr); err == nil && len(asArr) >= 2 {
		return InputLink{Kind: InputLiteral, Literal: decodeScalarJSON(asArr[1])}, nil
	}

	// null shadow with no value plugged in; treat as empty string literal.
	return InputLink{Kind: InputLiteral, Literal: value.String("")}, nil
}

func decodeScalarJSON(raw json.RawMessage) value.Value {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return value.String("")
	}
	return decodeScalarAny(v)
}

func decodeScalarAny(v any) value.Value {
	switch v := v.(type) {
	case nil:
		return value.String("")
	case bool:
		return value.Boolean(v)
	case float64:
		return value.Number(v)
	case string:
		return value.String(v)
	default:
		return value.String(fmt.Sprint(v))
	}
}
