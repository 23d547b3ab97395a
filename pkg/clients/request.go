package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request describes an HTTP request independently of a single attempt, so
// it can be rebuilt for every retry.
type Request struct {
	Method       string
	BaseURL      string
	PathElements []string
	Query        url.Values
	Headers      http.Header
	Body         []byte
	ContentType  string
}

// NewGet creates a GET request against baseURL
func NewGet(baseURL string) *Request {
	return newRequest(http.MethodGet, baseURL)
}

// NewPost creates a POST request against baseURL
func NewPost(baseURL string) *Request {
	return newRequest(http.MethodPost, baseURL)
}

func newRequest(method, baseURL string) *Request {
	return &Request{
		Method:  method,
		BaseURL: baseURL,
		Query:   make(url.Values),
		Headers: make(http.Header),
	}
}

// WithPathElements appends path elements. Elements are escaped when the URL is built.
func (r *Request) WithPathElements(elements ...string) *Request {
	r.PathElements = append(r.PathElements, elements...)
	return r
}

// WithQueryParameter sets a query parameter
func (r *Request) WithQueryParameter(name string, value interface{}) *Request {
	r.Query.Set(name, fmt.Sprint(value))
	return r
}

// WithHeader sets a request header
func (r *Request) WithHeader(name, value string) *Request {
	r.Headers.Set(name, value)
	return r
}

// WithData sets the request body and its content type
func (r *Request) WithData(data, contentType string) *Request {
	r.Body = []byte(data)
	r.ContentType = contentType
	return r
}

// Path returns the escaped path, e.g. /api/documents/similar/e70a69a1
func (r *Request) Path() string {
	escaped := make([]string, len(r.PathElements))
	for i, element := range r.PathElements {
		escaped[i] = url.PathEscape(element)
	}
	return "/" + strings.Join(escaped, "/")
}

// URL returns the full request URL including the query string
func (r *Request) URL() string {
	u := strings.TrimRight(r.BaseURL, "/") + r.Path()
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}

// Build creates a fresh *http.Request bound to ctx
func (r *Request) Build(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL(), body)
	if err != nil {
		return nil, err
	}

	for name, values := range r.Headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}

	return req, nil
}

// PathBuilder binds named {variables} in a path template
type PathBuilder struct {
	template string
	values   map[string]string
}

// NewPathBuilder creates a builder for template, e.g. /api/documents/similar/{articleId}
func NewPathBuilder(template string) *PathBuilder {
	return &PathBuilder{
		template: template,
		values:   make(map[string]string),
	}
}

// Bind sets the value of a path variable
func (pb *PathBuilder) Bind(name, value string) *PathBuilder {
	pb.values[name] = value
	return pb
}

// Build returns the path elements with variables substituted.
// Unbound variables are left as-is.
func (pb *PathBuilder) Build() []string {
	parts := strings.Split(strings.Trim(pb.template, "/"), "/")
	elements := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			if value, ok := pb.values[part[1:len(part)-1]]; ok {
				part = value
			}
		}
		elements = append(elements, part)
	}
	return elements
}
