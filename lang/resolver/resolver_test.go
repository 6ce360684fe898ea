package resolver_test

import (
	"testing"

	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/resolver"
	"github.com/mna/scratchrt/lang/value"
	"github.com/stretchr/testify/require"
)

func block(id project.BlockID, opcode string) *project.Block {
	return &project.Block{
		ID:     id,
		Opcode: opcode,
		Inputs: map[string]project.InputLink{},
		Fields: map[string]project.FieldLiteral{},
	}
}

func stageAndSprite() (*project.Target, *project.Target) {
	stage := &project.Target{Name: "Stage", IsStage: true, Blocks: map[project.BlockID]*project.Block{}}
	sprite := &project.Target{Name: "Sprite1", Blocks: map[project.BlockID]*project.Block{}}
	return stage, sprite
}

func TestResolveLinksNextAndSubstack(t *testing.T) {
	stage, sprite := stageAndSprite()

	hat := block("hat1", "event_whenflagclicked")
	hat.TopLevel = true
	ifb := block("if1", "control_if")
	show := block("show1", "looks_show")

	hat.Next = "if1"
	ifb.Inputs["SUBSTACK"] = project.InputLink{Kind: project.InputSubstack, Block: "show1"}

	sprite.Blocks["hat1"] = hat
	sprite.Blocks["if1"] = ifb
	sprite.Blocks["show1"] = show

	_, err := resolver.Resolve(&project.Project{Targets: []*project.Target{stage, sprite}})
	require.NoError(t, err)
	require.Same(t, ifb, hat.NextResolved())
	require.Same(t, show, ifb.Inputs["SUBSTACK"].Resolved())

	require.Len(t, sprite.Scripts, 1)
	require.Equal(t, project.HatGreenFlag, sprite.Scripts[0].Kind)
}

func TestResolveDetectsDanglingNext(t *testing.T) {
	stage, sprite := stageAndSprite()
	hat := block("hat1", "event_whenflagclicked")
	hat.TopLevel = true
	hat.Next = "missing"
	sprite.Blocks["hat1"] = hat

	_, err := resolver.Resolve(&project.Project{Targets: []*project.Target{stage, sprite}})
	require.Error(t, err)
	var malformed *project.MalformedProjectError
	require.ErrorAs(t, err, &malformed)
}

func TestResolveDetectsCycle(t *testing.T) {
	stage, sprite := stageAndSprite()
	hat := block("hat1", "event_whenflagclicked")
	hat.TopLevel = true
	a := block("a", "motion_movesteps")
	b := block("b", "motion_movesteps")
	hat.Next = "a"
	a.Next = "b"
	b.Next = "a" // cycle back to a

	sprite.Blocks["hat1"] = hat
	sprite.Blocks["a"] = a
	sprite.Blocks["b"] = b

	_, err := resolver.Resolve(&project.Project{Targets: []*project.Target{stage, sprite}})
	require.Error(t, err)
}

func TestResolveStaticActiveKeys(t *testing.T) {
	stage, sprite := stageAndSprite()

	hat := block("hat1", "event_whenkeypressed")
	hat.TopLevel = true
	hat.Fields["KEY_OPTION"] = project.FieldLiteral{Name: "space"}
	sprite.Blocks["hat1"] = hat

	sensing := block("s1", "sensing_keypressed")
	sensing.Inputs["KEY_OPTION"] = project.InputLink{Kind: project.InputLiteral, Literal: value.String("a")}
	sprite.Blocks["s1"] = sensing

	linked, err := resolver.Resolve(&project.Project{Targets: []*project.Target{stage, sprite}})
	require.NoError(t, err)
	require.Contains(t, linked.StaticActiveKeys, "space")
	require.Contains(t, linked.StaticActiveKeys, "A")
}

func TestResolveStaticActiveKeysThroughMenuShadow(t *testing.T) {
	// Canonical SB3 export shape: sensing_keypressed's KEY_OPTION is not
	// always a bare literal, it may reference a sensing_keyoptions menu
	// shadow block carrying the dropdown value in its own KEY_OPTION field.
	// That is still a compile-time constant and must reach the static index.
	stage, sprite := stageAndSprite()

	sensing := block("s1", "sensing_keypressed")
	sensing.Inputs["KEY_OPTION"] = project.InputLink{Kind: project.InputReporter, Block: "menu1"}
	sprite.Blocks["s1"] = sensing

	menu := block("menu1", "sensing_keyoptions")
	menu.Shadow = true
	menu.Fields["KEY_OPTION"] = project.FieldLiteral{Name: "a"}
	sprite.Blocks["menu1"] = menu

	linked, err := resolver.Resolve(&project.Project{Targets: []*project.Target{stage, sprite}})
	require.NoError(t, err)
	require.Contains(t, linked.StaticActiveKeys, "A")
}

func TestResolveLinksProcedures(t *testing.T) {
	stage, sprite := stageAndSprite()

	def := block("def1", "procedures_definition")
	def.TopLevel = true
	def.Inputs["custom_block"] = project.InputLink{Kind: project.InputReporter, Block: "proto1"}

	proto := block("proto1", "procedures_prototype")
	proto.Shadow = true
	proto.Mutation = &project.Mutation{
		ProcCode:      "jump %s",
		ArgumentIDs:   []string{"arg1"},
		ArgumentNames: []string{"height"},
		Warp:          true,
	}

	body := block("body1", "motion_movesteps")
	def.Next = "body1"

	sprite.Blocks["def1"] = def
	sprite.Blocks["proto1"] = proto
	sprite.Blocks["body1"] = body

	_, err := resolver.Resolve(&project.Project{Targets: []*project.Target{stage, sprite}})
	require.NoError(t, err)

	proc, ok := sprite.Procedures["jump %s"]
	require.True(t, ok)
	require.Equal(t, []string{"height"}, proc.ArgNames)
	require.True(t, proc.Warp)
	require.Same(t, body, proc.Body)
}
