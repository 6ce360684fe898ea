package project_test

import (
	"strings"
	"testing"

	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/value"
	"github.com/stretchr/testify/require"
)

const minimalProject = `{
  "targets": [
    {
      "isStage": true,
      "name": "Stage",
      "variables": {"v1": ["score", 0]},
      "lists": {"l1": ["things", ["a", "b"]]},
      "broadcasts": {"b1": "go"},
      "blocks": {}
    },
    {
      "isStage": false,
      "name": "Sprite1",
      "variables": {},
      "lists": {},
      "broadcasts": {},
      "blocks": {
        "hat1": {
          "opcode": "event_whenflagclicked",
          "next": "if1",
          "parent": null,
          "inputs": {},
          "fields": {},
          "topLevel": true,
          "shadow": false
        },
        "if1": {
          "opcode": "control_if",
          "next": null,
          "parent": "hat1",
          "inputs": {
            "CONDITION": [2, "cond1"],
            "SUBSTACK": [2, "show1"]
          },
          "fields": {},
          "topLevel": false,
          "shadow": false
        },
        "cond1": {
          "opcode": "operators_gt",
          "next": null,
          "parent": "if1",
          "inputs": {
            "OPERAND1": [1, [10, "1"]],
            "OPERAND2": [1, [10, "0"]]
          },
          "fields": {},
          "topLevel": false,
          "shadow": false
        },
        "show1": {
          "opcode": "looks_show",
          "next": null,
          "parent": "if1",
          "inputs": {},
          "fields": {},
          "topLevel": false,
          "shadow": false
        }
      }
    }
  ]
}`

func TestDecodeMinimalProject(t *testing.T) {
	p, err := project.Decode(strings.NewReader(minimalProject))
	require.NoError(t, err)
	require.Len(t, p.Targets, 2)

	stage := p.Stage()
	require.NotNil(t, stage)
	require.Equal(t, "Stage", stage.Name)
	require.Equal(t, value.Number(0), stage.Variables["v1"].Value)
	require.Equal(t, project.KindList, stage.Variables["l1"].Kind)
	require.Equal(t, []value.Value{value.String("a"), value.String("b")}, stage.Variables["l1"].List)
	require.Equal(t, "go", p.Broadcasts["b1"])

	sprite := p.SpriteByName("Sprite1")
	require.NotNil(t, sprite)
	require.Len(t, sprite.Blocks, 4)

	ifBlock := sprite.Blocks["if1"]
	require.Equal(t, "control_if", ifBlock.Opcode)
	require.Equal(t, project.InputSubstack, ifBlock.Inputs["SUBSTACK"].Kind)
	require.Equal(t, project.BlockID("show1"), ifBlock.Inputs["SUBSTACK"].Block)
	require.Equal(t, project.InputReporter, ifBlock.Inputs["CONDITION"].Kind)
}

func TestDecodeRejectsMissingStage(t *testing.T) {
	_, err := project.Decode(strings.NewReader(`{"targets":[{"isStage":false,"name":"Sprite1","blocks":{}}]}`))
	require.Error(t, err)
	var malformed *project.MalformedProjectError
	require.ErrorAs(t, err, &malformed)
}

func TestDecodeRejectsMultipleStages(t *testing.T) {
	doc := `{"targets":[
		{"isStage":true,"name":"Stage","blocks":{}},
		{"isStage":true,"name":"Stage2","blocks":{}}
	]}`
	_, err := project.Decode(strings.NewReader(doc))
	require.Error(t, err)
}

func TestDecodeRejectsMissingOpcode(t *testing.T) {
	doc := `{"targets":[
		{"isStage":true,"name":"Stage","blocks":{"b1":{"opcode":"","topLevel":true}}}
	]}`
	_, err := project.Decode(strings.NewReader(doc))
	require.Error(t, err)
}

func TestDecodeMutation(t *testing.T) {
	doc := `{"targets":[{"isStage":true,"name":"Stage","blocks":{
		"def1": {
			"opcode": "procedures_definition",
			"inputs": {"custom_block": [1, "proto1"]},
			"topLevel": true
		},
		"proto1": {
			"opcode": "procedures_prototype",
			"shadow": true,
			"mutation": {
				"proccode": "jump %s",
				"argumentids": "[\"arg1\"]",
				"argumentnames": "[\"height\"]",
				"argumentdefaults": "[\"10\"]",
				"warp": "true"
			}
		}
	}}]}`
	p, err := project.Decode(strings.NewReader(doc))
	require.NoError(t, err)
	proto := p.Stage().Blocks["proto1"]
	require.NotNil(t, proto.Mutation)
	require.Equal(t, "jump %s", proto.Mutation.ProcCode)
	require.Equal(t, []string{"arg1"}, proto.Mutation.ArgumentIDs)
	require.Equal(t, []string{"height"}, proto.Mutation.ArgumentNames)
	require.True(t, proto.Mutation.Warp)
}
