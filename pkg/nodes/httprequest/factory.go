package httprequest

import (
	"context"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
)

// HTTPRequestNodeFactory creates HTTPRequestNode instances.
type HTTPRequestNodeFactory struct {
	client protocol.HTTPClient
}

// NewHTTPRequestNodeFactory creates a new HTTP request node factory.
func NewHTTPRequestNodeFactory(client protocol.HTTPClient) protocol.NodeFactory {
	return &HTTPRequestNodeFactory{client: client}
}

// Create creates a new HTTPRequestNode instance.
func (f *HTTPRequestNodeFactory) Create(_ context.Context, id string, data map[string]any) (protocol.Node, error) {
	return NewHTTPRequestNode(id, data, f.client)
}

// Type returns the node type built by the factory.
func (f *HTTPRequestNodeFactory) Type() models.NodeType {
	return models.NodeTypeHTTPRequest
}

// Name returns the factory name.
func (f *HTTPRequestNodeFactory) Name() string {
	return "HTTP Request"
}

// Description returns the factory description.
func (f *HTTPRequestNodeFactory) Description() string {
	return "Calls an HTTP endpoint and stores the response in {{_httpResponse}} and {{_httpStatus}}"
}

// Schema returns the JSON schema for HTTP request node data.
func (f *HTTPRequestNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Target URL. Supports {{variable}} placeholders.",
				"examples":    []string{"https://api.example.com/pedidos/{{pedido}}"},
			},
			"method": map[string]any{
				"type":     "string",
				"default":  DefaultMethod,
				"examples": []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			},
			"headers": map[string]any{
				"type":        []string{"string", "object"},
				"description": "JSON object of headers, as text or object. Invalid JSON fails the node.",
				"examples":    []string{`{"Authorization": "Bearer {{token}}"}`},
			},
			"body": map[string]any{
				"type":        []string{"string", "object", "array"},
				"description": "Request body. Supports {{variable}} placeholders.",
			},
			"json_path": map[string]any{
				"type":        "string",
				"description": "Dot separated path read from a JSON response",
				"examples":    []string{"data.status", "items.0.name"},
			},
			"save_as": map[string]any{
				"type":        "string",
				"description": "Variable receiving the json_path value",
				"default":     models.VarHTTPValue,
			},
		},
	}
}
