package ops_test

import (
	"testing"

	"github.com/mna/scratchrt/lang/ops"
	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/value"
	"github.com/stretchr/testify/require"
)

func newListTarget(id string, elems ...string) *project.Target {
	vals := make([]value.Value, len(elems))
	for i, e := range elems {
		vals[i] = value.String(e)
	}
	return &project.Target{
		Variables: map[string]*project.Variable{
			id: {ID: id, Name: "list", Kind: project.KindList, List: vals},
		},
	}
}

func listBlock(fieldID string) *project.Block {
	return &project.Block{
		Opcode: "data_listcontents",
		Fields: map[string]project.FieldLiteral{"LIST": {Name: "list", ID: fieldID}},
		Inputs: map[string]project.InputLink{},
	}
}

func TestListContentsJoin(t *testing.T) {
	table := ops.NewTable()

	cases := []struct {
		elems []string
		want  string
	}{
		{[]string{"a", "b", "c"}, "abc"},
		{[]string{"hello", "world", "test"}, "hello world test"},
		{[]string{"a", "hello", "b"}, "a hello b"},
	}
	for _, c := range cases {
		target := newListTarget("list1", c.elems...)
		b := listBlock("list1")
		ctx := &ops.EvalContext{Block: b, Target: target, Stage: target}
		v, err := table.Reporters["data_listcontents"](ctx)
		require.NoError(t, err)
		require.Equal(t, c.want, value.ToString(v))
	}
}

func TestItemNumOfListCrossType(t *testing.T) {
	table := ops.NewTable()
	target := newListTarget("list1", "123", "123", "800", "800")
	// overwrite with mixed types directly since newListTarget only makes strings
	target.Variables["list1"].List = []value.Value{
		value.String("123"), value.Number(123), value.Number(800), value.String("800"),
	}
	b := &project.Block{
		Opcode: "data_itemnumoflist",
		Fields: map[string]project.FieldLiteral{"LIST": {ID: "list1"}},
		Inputs: map[string]project.InputLink{
			"ITEM": {Kind: project.InputLiteral, Literal: value.Number(123)},
		},
	}
	ctx := &ops.EvalContext{Block: b, Target: target, Stage: target}
	v, err := table.Reporters["data_itemnumoflist"](ctx)
	require.NoError(t, err)
	require.Equal(t, value.Number(1), v)

	b.Inputs["ITEM"] = project.InputLink{Kind: project.InputLiteral, Literal: value.String("123")}
	v, err = table.Reporters["data_itemnumoflist"](ctx)
	require.NoError(t, err)
	require.Equal(t, value.Number(1), v)

	b.Inputs["ITEM"] = project.InputLink{Kind: project.InputLiteral, Literal: value.String("800")}
	v, err = table.Reporters["data_itemnumoflist"](ctx)
	require.NoError(t, err)
	require.Equal(t, value.Number(3), v)

	target.Variables["list1"].List = []value.Value{
		value.String("jump"), value.String("Jump"), value.String("JUMP"),
	}
	b.Inputs["ITEM"] = project.InputLink{Kind: project.InputLiteral, Literal: value.String("JUMP")}
	v, err = table.Reporters["data_itemnumoflist"](ctx)
	require.NoError(t, err)
	require.Equal(t, value.Number(1), v)
}

func TestListOutOfRange(t *testing.T) {
	table := ops.NewTable()
	target := newListTarget("list1", "a", "b", "c")
	b := &project.Block{
		Opcode: "data_itemoflist",
		Fields: map[string]project.FieldLiteral{"LIST": {ID: "list1"}},
		Inputs: map[string]project.InputLink{
			"INDEX": {Kind: project.InputLiteral, Literal: value.Number(0)},
		},
	}
	ctx := &ops.EvalContext{Block: b, Target: target, Stage: target}
	v, err := table.Reporters["data_itemoflist"](ctx)
	require.NoError(t, err)
	require.Equal(t, value.String(""), v)

	b.Inputs["INDEX"] = project.InputLink{Kind: project.InputLiteral, Literal: value.Number(-1)}
	v, err = table.Reporters["data_itemoflist"](ctx)
	require.NoError(t, err)
	require.Equal(t, value.String(""), v)

	b.Inputs["INDEX"] = project.InputLink{Kind: project.InputLiteral, Literal: value.Number(4)}
	v, err = table.Reporters["data_itemoflist"](ctx)
	require.NoError(t, err)
	require.Equal(t, value.String(""), v)

	lenBlock := &project.Block{
		Opcode: "data_lengthoflist",
		Fields: map[string]project.FieldLiteral{"LIST": {ID: "list1"}},
		Inputs: map[string]project.InputLink{},
	}
	ctxLen := &ops.EvalContext{Block: lenBlock, Target: target, Stage: target}
	lv, err := table.Reporters["data_lengthoflist"](ctxLen)
	require.NoError(t, err)
	require.Equal(t, value.Number(3), lv)
}

func TestChangeVariableByCoercion(t *testing.T) {
	table := ops.NewTable()
	target := &project.Target{Variables: map[string]*project.Variable{
		"v1": {ID: "v1", Name: "var", Kind: project.KindScalar, Value: value.String("10")},
	}}
	b := &project.Block{
		Opcode: "data_changevariableby",
		Fields: map[string]project.FieldLiteral{"VARIABLE": {ID: "v1"}},
		Inputs: map[string]project.InputLink{
			"VALUE": {Kind: project.InputLiteral, Literal: value.Number(5)},
		},
	}
	ctx := &ops.EvalContext{Block: b, Target: target, Stage: target}
	err := table.Statements["data_changevariableby"](ctx)
	require.NoError(t, err)
	require.Equal(t, value.Number(15), target.Variables["v1"].Value)
}

func TestSetVariableToPreservesTag(t *testing.T) {
	table := ops.NewTable()
	target := &project.Target{Variables: map[string]*project.Variable{
		"v1": {ID: "v1", Name: "var", Kind: project.KindScalar, Value: value.Number(0)},
	}}
	b := &project.Block{
		Opcode: "data_setvariableto",
		Fields: map[string]project.FieldLiteral{"VARIABLE": {ID: "v1"}},
		Inputs: map[string]project.InputLink{
			"VALUE": {Kind: project.InputLiteral, Literal: value.Boolean(true)},
		},
	}
	ctx := &ops.EvalContext{Block: b, Target: target, Stage: target}
	err := table.Statements["data_setvariableto"](ctx)
	require.NoError(t, err)
	require.Equal(t, value.Boolean(true), target.Variables["v1"].Value)
}
