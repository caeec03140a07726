package response

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the canonical, fully materialized HTTP response produced by a
// dispatch: status code, headers and body. It is a plain value so after
// hooks can inspect or replace it before anything touches the wire.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// New creates an empty response with the given status code.
func New(status int) *Response {
	return &Response{
		StatusCode: status,
		Header:     make(http.Header),
	}
}

// Write serializes the response onto the transport. Headers are copied in
// order, duplicate keys preserved. A zero status code defaults to 200.
func (r *Response) Write(w http.ResponseWriter) error {
	for key, values := range r.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}

	status := r.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(r.Body) > 0 {
		if _, err := w.Write(r.Body); err != nil {
			return fmt.Errorf("write response body: %w", err)
		}
	}
	return nil
}

// Clone returns a deep copy. After hooks that mutate headers on a shared
// response should clone first.
func (r *Response) Clone() *Response {
	cp := &Response{
		StatusCode: r.StatusCode,
		Header:     make(http.Header, len(r.Header)),
		Body:       append([]byte(nil), r.Body...),
	}
	for key, values := range r.Header {
		cp.Header[key] = append([]string(nil), values...)
	}
	return cp
}

// String creates a text/plain response with 200 OK status.
func String(content string) *Response {
	return StringWithStatus(content, http.StatusOK)
}

// StringWithStatus creates a text/plain response with a custom status code.
func StringWithStatus(content string, status int) *Response {
	r := New(status)
	r.Header.Set("Content-Type", "text/plain; charset=utf-8")
	r.Body = []byte(content)
	return r
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) *Response {
	return HTMLWithStatus(content, http.StatusOK)
}

// HTMLWithStatus creates a text/html response with a custom status code.
func HTMLWithStatus(content string, status int) *Response {
	r := New(status)
	r.Header.Set("Content-Type", "text/html; charset=utf-8")
	r.Body = []byte(content)
	return r
}

// Bytes creates a response with a custom content type and 200 OK status.
func Bytes(content []byte, contentType string) *Response {
	r := New(http.StatusOK)
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	r.Body = content
	return r
}

// JSON marshals v into an application/json response with 200 OK status.
func JSON(v any) (*Response, error) {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus marshals v into an application/json response with a custom
// status code.
func JSONWithStatus(v any, status int) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json response: %w", err)
	}
	r := New(status)
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	r.Body = body
	return r, nil
}

// NoContent creates a 204 No Content response.
func NoContent() *Response {
	return New(http.StatusNoContent)
}

// Status creates an empty response with the specified status code.
func Status(code int) *Response {
	return New(code)
}

// Redirect creates a 302 Found (temporary redirect) response.
func Redirect(url string) *Response {
	return RedirectWithStatus(url, http.StatusFound)
}

// RedirectPermanent creates a 301 Moved Permanently response.
func RedirectPermanent(url string) *Response {
	return RedirectWithStatus(url, http.StatusMovedPermanently)
}

// RedirectSeeOther creates a 303 See Other response.
// Useful after a POST request to redirect to a GET request.
func RedirectSeeOther(url string) *Response {
	return RedirectWithStatus(url, http.StatusSeeOther)
}

// RedirectWithStatus creates a redirect with a custom status code.
// Statuses outside the 3xx range fall back to 302 Found.
func RedirectWithStatus(url string, status int) *Response {
	if status < 300 || status >= 400 {
		status = http.StatusFound
	}
	r := New(status)
	r.Header.Set("Location", url)
	return r
}
