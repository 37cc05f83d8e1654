package registry

import (
	"fmt"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ValidateNodeData checks data against the schema of nodeType and returns one
// message per violation. Unregistered types have no schema and never fail.
func (r *Registry) ValidateNodeData(nodeType models.NodeType, data map[string]any) ([]string, error) {
	r.mu.RLock()
	factory, ok := r.nodeFactories[nodeType]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	if data == nil {
		data = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(factory.Schema()),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validating %s data: %w", nodeType, err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, violation := range result.Errors() {
		violations = append(violations, violation.String())
	}

	return violations, nil
}
