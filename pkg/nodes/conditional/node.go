// Package conditional provides the condition node that selects the true or false branch of a flow.
package conditional

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/nodes"
	"github.com/Matheusbritto77/WBot/pkg/template"
	"github.com/expr-lang/expr"
)

// Operator compares the interpolated left and right operands.
type Operator string

const (
	OperatorEquals      Operator = "=="
	OperatorNotEquals   Operator = "!="
	OperatorContains    Operator = "contains"
	OperatorNotContains Operator = "not_contains"
	OperatorGreater     Operator = ">"
	OperatorLess        Operator = "<"
	// OperatorExpr evaluates left as a boolean expression over the run variables.
	OperatorExpr Operator = "expr"
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

type Config struct {
	Left     string   `json:"left"`
	Operator Operator `json:"operator"`
	Right    string   `json:"right"`
}

// ConditionalNode evaluates a comparison and stores the outcome in _conditionResult.
type ConditionalNode struct {
	id     string
	config Config
}

// NewConditionalNode creates a new condition node. A missing operator means ==.
func NewConditionalNode(id string, data map[string]any) (*ConditionalNode, error) {
	var config Config
	if err := nodes.Decode(data, &config); err != nil {
		return nil, err
	}

	if config.Operator == "" {
		config.Operator = OperatorEquals
	}

	return &ConditionalNode{id: id, config: config}, nil
}

// ID returns the node ID.
func (n *ConditionalNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *ConditionalNode) Type() models.NodeType {
	return models.NodeTypeCondition
}

// Execute evaluates the condition. When evaluation fails the result is false
// and the error is returned.
func (n *ConditionalNode) Execute(_ context.Context, _ string, vars models.Variables) error {
	result, err := n.Evaluate(vars)
	vars[models.VarConditionResult] = result

	return err
}

// Evaluate computes the condition against vars without storing it.
func (n *ConditionalNode) Evaluate(vars models.Variables) (bool, error) {
	if n.config.Operator == OperatorExpr {
		return evaluateExpression(n.config.Left, vars)
	}

	left := template.Interpolate(n.config.Left, vars)
	right := template.Interpolate(n.config.Right, vars)

	switch n.config.Operator {
	case OperatorEquals:
		return left == right, nil
	case OperatorNotEquals:
		return left != right, nil
	case OperatorContains:
		return strings.Contains(left, right), nil
	case OperatorNotContains:
		return !strings.Contains(left, right), nil
	case OperatorGreater:
		return parseNumber(left) > parseNumber(right), nil
	case OperatorLess:
		return parseNumber(left) < parseNumber(right), nil
	default:
		return false, nil
	}
}

func evaluateExpression(code string, vars models.Variables) (bool, error) {
	env := map[string]any(vars)

	program, err := expr.Compile(code, expr.Env(env), expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("invalid condition expression: %w", err)
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating condition expression: %w", err)
	}

	result, _ := output.(bool)

	return result, nil
}

// parseNumber reads the longest numeric prefix of s after leading spaces.
// Text without a numeric prefix is NaN, which makes every comparison false.
func parseNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r")

	switch {
	case strings.HasPrefix(s, "Infinity"), strings.HasPrefix(s, "+Infinity"):
		return math.Inf(1)
	case strings.HasPrefix(s, "-Infinity"):
		return math.Inf(-1)
	}

	match := leadingNumber.FindString(s)
	if match == "" {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return math.NaN()
	}

	return f
}
