package handler

import (
	"context"
	"net/http"

	"github.com/flintframework/flint/core/router"
)

// Context is the per-request contract handlers and hooks are written
// against. Use app.Context for the default implementation.
//
// The routing accessors reflect the dispatch's routing outcome: Route is
// nil and Scope/Endpoint are empty for requests no pattern covered, so
// scope-aware hooks can branch without depending on a concrete context
// type.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter

	// Param returns one extracted placeholder value, Params all of them.
	Param(key string) string
	Params() map[string]string

	Route() *router.Route
	Endpoint() string
	Scope() string

	// SetValue stores a request-scoped value retrievable via Value.
	SetValue(key, val any)
}
