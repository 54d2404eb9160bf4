package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Request is the transport-agnostic outbound request. The body is an opaque
// pass-through: the client never inspects or logs it.
type Request struct {
	// Method is the HTTP method. Empty means GET.
	Method string

	// Path is appended to the service's base URL.
	Path string

	// Header holds additional request headers.
	Header http.Header

	// Body is the raw request payload, if any.
	Body []byte
}

// Response is the transport-agnostic result of one attempt.
type Response struct {
	// StatusCode is the upstream status code.
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// Body is the raw response payload.
	Body []byte
}

// Transport performs one attempt against a service endpoint.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: the attempt must respect ctx cancellation and deadline; an
//   expired ctx must surface as an error wrapping the context error.
// - Errors: a received response, whatever its status, is not an error;
//   errors mean the exchange itself failed.
type Transport interface {
	RoundTrip(ctx context.Context, baseURL string, req Request) (*Response, error)
}

// HTTPTransport is the net/http-backed Transport.
type HTTPTransport struct {
	client *http.Client
}

// HTTPTransportOption configures an HTTPTransport.
type HTTPTransportOption func(*HTTPTransport)

// WithHTTPClient overrides the underlying http.Client. The client must not
// set its own Timeout; per-attempt budgets arrive via context.
func WithHTTPClient(c *http.Client) HTTPTransportOption {
	return func(t *HTTPTransport) {
		t.client = c
	}
}

// NewHTTPTransport creates an HTTP transport.
func NewHTTPTransport(opts ...HTTPTransportOption) *HTTPTransport {
	t := &HTTPTransport{client: &http.Client{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RoundTrip issues one HTTP request against baseURL+path.
func (t *HTTPTransport) RoundTrip(ctx context.Context, baseURL string, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, joinURL(baseURL, req.Path), body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}

func joinURL(baseURL, path string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
