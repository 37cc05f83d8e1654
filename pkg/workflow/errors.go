package workflow

import (
	"errors"
	"fmt"

	"github.com/Matheusbritto77/WBot/pkg/models"
)

var ErrNodePanic = errors.New("node panicked")

// NodeError reports a failure of a single node. The executor records it and
// keeps traversing the graph.
type NodeError struct {
	NodeID   string
	NodeType models.NodeType
	Err      error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s (%s): %v", e.NodeID, e.NodeType, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
