package project_test

import (
	"testing"

	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/value"
	"github.com/stretchr/testify/require"
)

func TestInputLinkMenuOptionLiteral(t *testing.T) {
	link := project.InputLink{Kind: project.InputLiteral, Literal: value.String("go")}
	name, ok := link.MenuOption("BROADCAST_OPTION")
	require.True(t, ok)
	require.Equal(t, "go", name)
}

func TestInputLinkMenuOptionShadowBlock(t *testing.T) {
	menu := &project.Block{
		Opcode: "event_broadcast_menu",
		Shadow: true,
		Fields: map[string]project.FieldLiteral{"BROADCAST_OPTION": {Name: "go", ID: "b1"}},
	}
	link := project.InputLink{Kind: project.InputReporter}
	link.SetResolved(menu)

	name, ok := link.MenuOption("BROADCAST_OPTION")
	require.True(t, ok)
	require.Equal(t, "go", name)
}

func TestInputLinkMenuOptionRealReporterIsNotAMenu(t *testing.T) {
	// A non-shadow block plugged into the same slot (a real reporter, e.g.
	// operator_join) is not a constant dropdown value.
	reporter := &project.Block{Opcode: "operator_join", Shadow: false}
	link := project.InputLink{Kind: project.InputReporter}
	link.SetResolved(reporter)

	_, ok := link.MenuOption("BROADCAST_OPTION")
	require.False(t, ok)
}

func TestInputLinkMenuOptionAbsent(t *testing.T) {
	var link project.InputLink
	_, ok := link.MenuOption("BROADCAST_OPTION")
	require.False(t, ok)
}
