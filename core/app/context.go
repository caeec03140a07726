package app

import (
	"net/http"
	"time"

	"github.com/flintframework/flint/core/router"
)

// RouteInfo carries the routing outcome into context construction.
// Route is nil when routing failed; the failure surfaces during dispatch.
type RouteInfo struct {
	Route  *router.Route
	Params map[string]string
}

// Context is the default per-request context implementation. It is created
// by the dispatcher, owned exclusively by the dispatch that created it, and
// discarded when the dispatch ends. It delegates context.Context methods to
// the request's context.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	route  *router.Route
	params map[string]string
	values map[any]any
}

// newContext creates a new Context instance.
func newContext(w http.ResponseWriter, r *http.Request, info RouteInfo) *Context {
	return &Context{
		w:      w,
		r:      r,
		route:  info.Route,
		params: info.Params,
	}
}

// Deadline delegates to the request's context.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done delegates to the request's context.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err delegates to the request's context.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value returns values stored with SetValue, falling back to the request's
// context.
func (c *Context) Value(key any) any {
	if v, ok := c.values[key]; ok {
		return v
	}
	return c.r.Context().Value(key)
}

// Request returns the *http.Request associated with the context.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the http.ResponseWriter associated with the context.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value of the URL parameter by key.
func (c *Context) Param(key string) string {
	return c.params[key]
}

// Params returns all URL parameters extracted from the matched route.
func (c *Context) Params() map[string]string {
	return c.params
}

// SetValue stores a request-scoped value retrievable via Value.
func (c *Context) SetValue(key, val any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}

// Route returns the matched route, or nil when routing failed.
func (c *Context) Route() *router.Route {
	return c.route
}

// Endpoint returns the matched route's endpoint identifier, or "".
func (c *Context) Endpoint() string {
	if c.route == nil {
		return ""
	}
	return c.route.Endpoint
}

// Scope returns the matched route's blueprint scope, or "".
func (c *Context) Scope() string {
	if c.route == nil {
		return ""
	}
	return c.route.Scope
}
