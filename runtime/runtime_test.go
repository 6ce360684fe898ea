package runtime_test

import (
	"strings"
	"testing"

	"github.com/mna/scratchrt/internal/config"
	"github.com/mna/scratchrt/lang/project"
	"github.com/mna/scratchrt/lang/value"
	"github.com/mna/scratchrt/runtime"
	"github.com/stretchr/testify/require"
)

// countToThree is a minimal project: Stage plus one Sprite whose green-flag
// script repeats "change counter by 1" three times.
const countToThree = `{
  "targets": [
    {"isStage": true, "name": "Stage", "variables": {}, "lists": {}, "broadcasts": {}, "blocks": {}},
    {
      "isStage": false,
      "name": "Sprite1",
      "variables": {"counter": ["counter", 0]},
      "lists": {},
      "broadcasts": {},
      "blocks": {
        "hat1": {
          "opcode": "event_whenflagclicked",
          "next": "repeat1",
          "inputs": {},
          "fields": {},
          "topLevel": true
        },
        "repeat1": {
          "opcode": "control_repeat",
          "inputs": {
            "TIMES": [1, [4, "3"]],
            "SUBSTACK": [2, "change1"]
          },
          "fields": {},
          "topLevel": false
        },
        "change1": {
          "opcode": "data_changevariableby",
          "inputs": {"VALUE": [1, [4, "1"]]},
          "fields": {"VARIABLE": ["counter", "counter"]},
          "topLevel": false
        }
      }
    }
  ]
}`

func TestRuntimeLoadInitializeAndRunGreenFlag(t *testing.T) {
	p, err := runtime.Load(strings.NewReader(countToThree))
	require.NoError(t, err)

	rt := runtime.New(p, config.Default(), nil)
	require.NoError(t, rt.Initialize())

	rt.BroadcastGreenFlag()
	require.Equal(t, 1, rt.GetActiveThreads())

	for i := 0; i < 4; i++ {
		rt.Update(0.02)
	}
	require.Equal(t, 0, rt.GetActiveThreads())

	sprite := rt.GetSpriteTargetByName("Sprite1")
	require.NotNil(t, sprite)
	v, ok := rt.LookupVariableByNameAndType(sprite, "counter", project.KindScalar)
	require.True(t, ok)
	require.Equal(t, value.Number(3), v.Value)
}

func TestRuntimeLoadRejectsMalformedProject(t *testing.T) {
	p, err := runtime.Load(strings.NewReader(`{"targets":[{"isStage":false,"name":"Sprite1","blocks":{}}]}`))
	require.Error(t, err)
	require.Nil(t, p)
}

func TestRuntimeBroadcastSendAndReceive(t *testing.T) {
	// Canonical SB3 export shape: event_broadcast's BROADCAST_INPUT
	// references an event_broadcast_menu shadow block rather than carrying
	// the name inline, and event_whenbroadcastreceived names it via a
	// BROADCAST_OPTION field directly on the hat.
	doc := `{
	  "targets": [
	    {"isStage": true, "name": "Stage", "variables": {}, "lists": {}, "broadcasts": {"b1": "go"}, "blocks": {}},
	    {
	      "isStage": false,
	      "name": "Sender",
	      "variables": {},
	      "lists": {},
	      "broadcasts": {},
	      "blocks": {
	        "hat1": {
	          "opcode": "event_whenflagclicked",
	          "next": "bcast1",
	          "inputs": {},
	          "fields": {},
	          "topLevel": true
	        },
	        "bcast1": {
	          "opcode": "event_broadcast",
	          "inputs": {"BROADCAST_INPUT": [1, "menu1"]},
	          "fields": {},
	          "topLevel": false
	        },
	        "menu1": {
	          "opcode": "event_broadcast_menu",
	          "inputs": {},
	          "fields": {"BROADCAST_OPTION": ["go", "b1"]},
	          "topLevel": false,
	          "shadow": true
	        }
	      }
	    },
	    {
	      "isStage": false,
	      "name": "Receiver",
	      "variables": {"received": ["received", 0]},
	      "lists": {},
	      "broadcasts": {},
	      "blocks": {
	        "hat2": {
	          "opcode": "event_whenbroadcastreceived",
	          "next": "set1",
	          "inputs": {},
	          "fields": {"BROADCAST_OPTION": ["go", "b1"]},
	          "topLevel": true
	        },
	        "set1": {
	          "opcode": "data_setvariableto",
	          "inputs": {"VALUE": [1, [4, "1"]]},
	          "fields": {"VARIABLE": ["received", "received"]},
	          "topLevel": false
	        }
	      }
	    }
	  ]
	}`
	p, err := runtime.Load(strings.NewReader(doc))
	require.NoError(t, err)

	rt := runtime.New(p, config.Default(), nil)
	require.NoError(t, rt.Initialize())

	rt.BroadcastGreenFlag()
	require.Equal(t, 1, rt.GetActiveThreads())

	// event_broadcast is fire-and-forget, not a suspension point: the
	// receiver's thread is spawned and picked up by the scheduler's own
	// round-robin loop within the same frame, so a single Update drains both.
	rt.Update(0.02)
	require.Equal(t, 0, rt.GetActiveThreads())

	receiver := rt.GetSpriteTargetByName("Receiver")
	require.NotNil(t, receiver)
	v, ok := rt.LookupVariableByNameAndType(receiver, "received", project.KindScalar)
	require.True(t, ok)
	require.Equal(t, value.Number(1), v.Value)
}

func TestRuntimeBroadcastKeyActivatesScript(t *testing.T) {
	doc := `{
	  "targets": [
	    {"isStage": true, "name": "Stage", "variables": {}, "lists": {}, "broadcasts": {}, "blocks": {}},
	    {
	      "isStage": false,
	      "name": "Sprite1",
	      "variables": {"pressed": ["pressed", 0]},
	      "lists": {},
	      "broadcasts": {},
	      "blocks": {
	        "hat1": {
	          "opcode": "event_whenkeypressed",
	          "next": "set1",
	          "inputs": {},
	          "fields": {"KEY_OPTION": ["space", null]},
	          "topLevel": true
	        },
	        "set1": {
	          "opcode": "data_setvariableto",
	          "inputs": {"VALUE": [1, [4, "1"]]},
	          "fields": {"VARIABLE": ["pressed", "pressed"]},
	          "topLevel": false
	        }
	      }
	    }
	  ]
	}`
	p, err := runtime.Load(strings.NewReader(doc))
	require.NoError(t, err)

	rt := runtime.New(p, config.Default(), nil)
	require.NoError(t, rt.Initialize())

	rt.BroadcastKey("space", true)
	require.Equal(t, 1, rt.GetActiveThreads())

	rt.Update(0.02)
	sprite := rt.GetSpriteTargetByName("Sprite1")
	v, ok := rt.LookupVariableByNameAndType(sprite, "pressed", project.KindScalar)
	require.True(t, ok)
	require.Equal(t, value.Number(1), v.Value)
}
