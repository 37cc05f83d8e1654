// Package delay provides the node that pauses a flow run before it continues.
package delay

import (
	"context"
	"errors"
	"time"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/nodes"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
)

// DefaultSeconds is used when seconds is missing, invalid or not positive.
const DefaultSeconds = 1

var ErrNoTimer = errors.New("delay node requires a timer")

// DelayNode suspends the current run for a fixed duration.
type DelayNode struct {
	id       string
	duration time.Duration
	timer    protocol.Timer
}

// NewDelayNode creates a new delay node.
func NewDelayNode(id string, data map[string]any, timer protocol.Timer) *DelayNode {
	seconds := nodes.Seconds(data["seconds"], DefaultSeconds)

	return &DelayNode{
		id:       id,
		duration: time.Duration(seconds * float64(time.Second)),
		timer:    timer,
	}
}

// ID returns the node ID.
func (n *DelayNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *DelayNode) Type() models.NodeType {
	return models.NodeTypeDelay
}

// Duration returns how long the node waits.
func (n *DelayNode) Duration() time.Duration {
	return n.duration
}

// Execute blocks until the duration elapses or ctx ends.
func (n *DelayNode) Execute(ctx context.Context, _ string, _ models.Variables) error {
	if n.timer == nil {
		return ErrNoTimer
	}

	return n.timer.Sleep(ctx, n.duration)
}
