package conditional

import (
	"context"
	"math"
	"testing"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionalNode_Operators(t *testing.T) {
	vars := models.Variables{
		models.VarMessage: "preciso de ajuda",
		"idade":           "21",
		"preco":           "12.5 reais",
		"nome":            "Ana",
	}

	tests := []struct {
		name     string
		data     map[string]any
		expected bool
	}{
		{"contains true", map[string]any{"left": "{{_message}}", "operator": "contains", "right": "ajuda"}, true},
		{"contains false", map[string]any{"left": "{{_message}}", "operator": "contains", "right": "preço"}, false},
		{"not_contains", map[string]any{"left": "{{_message}}", "operator": "not_contains", "right": "preço"}, true},
		{"equals", map[string]any{"left": "{{nome}}", "operator": "==", "right": "Ana"}, true},
		{"default operator is equals", map[string]any{"left": "{{nome}}", "right": "Bia"}, false},
		{"not equals", map[string]any{"left": "{{nome}}", "operator": "!=", "right": "Bia"}, true},
		{"greater numeric", map[string]any{"left": "{{idade}}", "operator": ">", "right": "17"}, true},
		{"less numeric prefix", map[string]any{"left": "{{preco}}", "operator": "<", "right": "13"}, true},
		{"greater is numeric not lexical", map[string]any{"left": "9", "operator": ">", "right": "10"}, false},
		{"NaN greater is false", map[string]any{"left": "abc", "operator": ">", "right": "1"}, false},
		{"NaN less is false", map[string]any{"left": "abc", "operator": "<", "right": "1"}, false},
		{"unknown operator is false", map[string]any{"left": "a", "operator": "~=", "right": "a"}, false},
		{"empty operands are equal", map[string]any{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := NewConditionalNode("c", tt.data)
			require.NoError(t, err)

			run := models.Variables{}
			for k, v := range vars {
				run[k] = v
			}

			require.NoError(t, node.Execute(context.Background(), "jid", run))
			assert.Equal(t, tt.expected, run[models.VarConditionResult])
		})
	}
}

func TestConditionalNode_Expression(t *testing.T) {
	node, err := NewConditionalNode("c", map[string]any{
		"left":     `_httpStatus == 200 && _message contains "pix"`,
		"operator": "expr",
	})
	require.NoError(t, err)

	vars := models.Variables{models.VarHTTPStatus: 200, models.VarMessage: "quero pagar no pix"}
	require.NoError(t, node.Execute(context.Background(), "jid", vars))
	assert.Equal(t, true, vars[models.VarConditionResult])

	vars[models.VarHTTPStatus] = 500
	require.NoError(t, node.Execute(context.Background(), "jid", vars))
	assert.Equal(t, false, vars[models.VarConditionResult])
}

func TestConditionalNode_InvalidExpression(t *testing.T) {
	node, err := NewConditionalNode("c", map[string]any{"left": "(((", "operator": "expr"})
	require.NoError(t, err)

	vars := models.Variables{models.VarConditionResult: true}
	require.Error(t, node.Execute(context.Background(), "jid", vars))
	assert.Equal(t, false, vars[models.VarConditionResult])
}

func TestParseNumber(t *testing.T) {
	assert.InDelta(t, 42, parseNumber("42"), 0)
	assert.InDelta(t, 3.5, parseNumber("  3.5kg"), 0)
	assert.InDelta(t, -0.25, parseNumber("-.25"), 0)
	assert.InDelta(t, 1000, parseNumber("1e3"), 0)
	assert.True(t, math.IsNaN(parseNumber("")))
	assert.True(t, math.IsNaN(parseNumber("R$ 10")))
	assert.True(t, math.IsInf(parseNumber("Infinity"), 1))
}
