package models

// HTTPRequest is an outbound request issued by an http_request node.
type HTTPRequest struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string
}

// HTTPResponse is the status and raw body text of an HTTPRequest.
type HTTPResponse struct {
	Status int
	Body   string
}
