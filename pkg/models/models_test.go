package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutomationFlow_EffectiveTrigger(t *testing.T) {
	tests := []struct {
		name          string
		flow          AutomationFlow
		data          map[string]any
		expectedType  TriggerType
		expectedValue string
	}{
		{
			name:          "node data wins",
			flow:          AutomationFlow{TriggerType: TriggerTypeExact, TriggerValue: "flow"},
			data:          map[string]any{"trigger_type": "regex", "trigger_value": "^oi"},
			expectedType:  TriggerTypeRegex,
			expectedValue: "^oi",
		},
		{
			name:          "falls back to flow fields",
			flow:          AutomationFlow{TriggerType: TriggerTypeStartsWith, TriggerValue: "menu"},
			data:          map[string]any{},
			expectedType:  TriggerTypeStartsWith,
			expectedValue: "menu",
		},
		{
			name:          "defaults to empty keyword",
			flow:          AutomationFlow{},
			data:          nil,
			expectedType:  TriggerTypeKeyword,
			expectedValue: "",
		},
		{
			name:          "empty node strings fall back",
			flow:          AutomationFlow{TriggerValue: "preco"},
			data:          map[string]any{"trigger_type": "", "trigger_value": ""},
			expectedType:  TriggerTypeKeyword,
			expectedValue: "preco",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &FlowNode{ID: "t1", Type: NodeTypeTrigger, Data: tt.data}
			matchType, value := tt.flow.EffectiveTrigger(node)
			assert.Equal(t, tt.expectedType, matchType)
			assert.Equal(t, tt.expectedValue, value)
		})
	}
}

func TestAutomationFlow_GraphLookups(t *testing.T) {
	flow := AutomationFlow{
		Nodes: []*FlowNode{
			{ID: "a", Type: NodeTypeSendText},
			nil,
			{ID: "t1", Type: NodeTypeTrigger},
			{ID: "t2", Type: NodeTypeTrigger},
		},
		Edges: []*FlowEdge{
			{ID: "e1", Source: "t1", Target: "b"},
			{ID: "e2", Source: "a", Target: "c"},
			nil,
			{ID: "e3", Source: "t1", Target: "a"},
		},
	}

	require.NotNil(t, flow.FirstTrigger())
	assert.Equal(t, "t1", flow.FirstTrigger().ID)
	assert.Len(t, flow.TriggerNodes(), 2)
	assert.Nil(t, flow.NodeByID("missing"))
	assert.Equal(t, NodeTypeSendText, flow.NodeByID("a").Type)

	edges := flow.OutgoingEdges("t1")
	require.Len(t, edges, 2)
	assert.Equal(t, "e1", edges[0].ID)
	assert.Equal(t, "e3", edges[1].ID)
}

func TestFlowNode_DataString(t *testing.T) {
	node := &FlowNode{Data: map[string]any{"text": "oi", "seconds": 3, "nil": nil, "list": []any{"a"}}}

	assert.Equal(t, "oi", node.DataString("text"))
	assert.Equal(t, "3", node.DataString("seconds"))
	assert.Empty(t, node.DataString("nil"))
	assert.Empty(t, node.DataString("missing"))
	assert.Empty(t, node.DataString("list"))
}

func TestNewVariables_ReservedKeysOverrideSeed(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	vars := NewVariables(map[string]any{"_jid": "spoof", "name": "Ana"}, "5511@s.whatsapp.net", "Oi", now)

	assert.Equal(t, "5511@s.whatsapp.net", vars.JID())
	assert.Equal(t, "Oi", vars.Message())
	assert.Equal(t, int64(1700000000123), vars[VarTimestamp])
	assert.Equal(t, "Ana", vars["name"])
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(false))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(0))
	assert.False(t, Truthy(0.0))
	assert.False(t, Truthy(math.NaN()))
	assert.True(t, Truthy(true))
	assert.True(t, Truthy("false"))
	assert.True(t, Truthy(-1))
	assert.True(t, Truthy(map[string]any{}))
}

func TestInboundMessage_Classification(t *testing.T) {
	assert.True(t, InboundMessage{JID: "123@g.us"}.IsGroup())
	assert.False(t, InboundMessage{JID: "5511@s.whatsapp.net"}.IsGroup())
	assert.True(t, InboundMessage{JID: "1@newsletter"}.IsBroadcast())
	assert.True(t, InboundMessage{JID: "status@broadcast"}.IsBroadcast())
	assert.True(t, InboundMessage{MediaType: "video"}.CarriesMedia())
	assert.False(t, InboundMessage{MediaType: "sticker"}.CarriesMedia())
}

func TestCronJob_NextRun(t *testing.T) {
	job := &CronJob{Schedule: "0 9 * * *"}
	reference := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	next, err := job.NextRun(reference)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), next)

	job.Schedule = "not a cron"
	_, err = job.NextRun(reference)
	require.ErrorIs(t, err, ErrInvalidCronSchedule)
}
