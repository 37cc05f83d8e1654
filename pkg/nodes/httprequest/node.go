// Package httprequest provides the node that calls an external HTTP endpoint from a flow.
package httprequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Jeffail/gabs/v2"
	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/nodes"
	"github.com/Matheusbritto77/WBot/pkg/protocol"
	"github.com/Matheusbritto77/WBot/pkg/template"
)

const DefaultMethod = "GET"

var (
	ErrNoClient       = errors.New("http_request node requires an HTTP client")
	ErrInvalidHeaders = errors.New("invalid headers")
)

// HTTPRequestConfig defines the data of http_request nodes. Headers is either
// a JSON object encoded as text or an object.
type HTTPRequestConfig struct {
	URL      string `json:"url"`
	Method   string `json:"method"`
	Headers  any    `json:"headers"`
	Body     any    `json:"body"`
	JSONPath string `json:"json_path"`
	SaveAs   string `json:"save_as"`
}

// HTTPRequestNode issues the request and stores the response text and status
// in _httpResponse and _httpStatus. With json_path set, the addressed value of a
// JSON response is also stored under save_as.
type HTTPRequestNode struct {
	id     string
	config HTTPRequestConfig
	client protocol.HTTPClient
}

// NewHTTPRequestNode creates a new HTTP request node.
func NewHTTPRequestNode(id string, data map[string]any, client protocol.HTTPClient) (*HTTPRequestNode, error) {
	var config HTTPRequestConfig
	if err := nodes.Decode(data, &config); err != nil {
		return nil, err
	}

	if config.Method == "" {
		config.Method = DefaultMethod
	}

	if config.SaveAs == "" {
		config.SaveAs = models.VarHTTPValue
	}

	return &HTTPRequestNode{id: id, config: config, client: client}, nil
}

// ID returns the node ID.
func (n *HTTPRequestNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *HTTPRequestNode) Type() models.NodeType {
	return models.NodeTypeHTTPRequest
}

// Execute performs the request.
func (n *HTTPRequestNode) Execute(ctx context.Context, _ string, vars models.Variables) error {
	if n.client == nil {
		return ErrNoClient
	}

	request, err := n.Request(vars)
	if err != nil {
		return err
	}

	response, err := n.client.Fetch(ctx, request)
	if err != nil {
		return fmt.Errorf("%s %s: %w", request.Method, request.URL, err)
	}

	vars[models.VarHTTPResponse] = response.Body
	vars[models.VarHTTPStatus] = response.Status

	if n.config.JSONPath == "" {
		return nil
	}

	parsed, err := gabs.ParseJSON([]byte(response.Body))
	if err != nil {
		return fmt.Errorf("response is not JSON, cannot read %q: %w", n.config.JSONPath, err)
	}

	vars[n.config.SaveAs] = parsed.Path(template.Interpolate(n.config.JSONPath, vars)).Data()

	return nil
}

// Request renders the request for the current variables.
func (n *HTTPRequestNode) Request(vars models.Variables) (models.HTTPRequest, error) {
	headers, err := n.headers(vars)
	if err != nil {
		return models.HTTPRequest{}, err
	}

	body, err := n.body(vars)
	if err != nil {
		return models.HTTPRequest{}, err
	}

	return models.HTTPRequest{
		URL:     template.Interpolate(n.config.URL, vars),
		Method:  strings.ToUpper(template.Interpolate(n.config.Method, vars)),
		Headers: headers,
		Body:    body,
	}, nil
}

func (n *HTTPRequestNode) headers(vars models.Variables) (map[string]string, error) {
	var raw map[string]any

	switch h := n.config.Headers.(type) {
	case nil:
		return map[string]string{}, nil
	case string:
		if h == "" {
			return map[string]string{}, nil
		}

		if err := json.Unmarshal([]byte(template.Interpolate(h, vars)), &raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidHeaders, err)
		}
	case map[string]any:
		raw = h
	default:
		return nil, fmt.Errorf("%w: expected JSON object, got %T", ErrInvalidHeaders, h)
	}

	headers := make(map[string]string, len(raw))
	for key, value := range raw {
		headers[key] = template.Interpolate(template.Stringify(value), vars)
	}

	return headers, nil
}

func (n *HTTPRequestNode) body(vars models.Variables) (string, error) {
	switch b := n.config.Body.(type) {
	case nil:
		return "", nil
	case string:
		return template.Interpolate(b, vars), nil
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return "", fmt.Errorf("invalid body: %w", err)
		}

		return template.Interpolate(string(encoded), vars), nil
	}
}
