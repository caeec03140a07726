package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/flintframework/flint/core/handler"
	"github.com/flintframework/flint/core/router"
)

// Blueprint is a deferred group of registrations: routes, hooks and error
// handlers that become active only when the blueprint is registered on an
// App. Its name prefixes the endpoints it binds and scopes its hooks, so a
// blueprint-local before hook never fires for routes outside it.
type Blueprint[C handler.Context] struct {
	name   string
	prefix string

	routes         []bpRoute[C]
	before         []handler.BeforeHook[C]
	after          []handler.AfterHook[C]
	teardown       []handler.TeardownHook[C]
	errorHandlers  []errorHandlerEntry[C]
	statusHandlers []bpStatusHandler[C]
}

type bpRoute[C handler.Context] struct {
	pattern  string
	endpoint string
	h        handler.HandlerFunc[C]
	opts     []router.RouteOption
}

type bpStatusHandler[C handler.Context] struct {
	code int
	fn   handler.ErrorHandlerFunc[C]
}

// NewBlueprint creates a blueprint with the given name and URL prefix.
// The prefix must be empty or begin with "/".
func NewBlueprint[C handler.Context](name, prefix string) (*Blueprint[C], error) {
	if name == "" || strings.Contains(name, ".") {
		return nil, fmt.Errorf("%w: name %q", ErrInvalidBlueprint, name)
	}
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		return nil, fmt.Errorf("%w: prefix %q must start with /", ErrInvalidBlueprint, prefix)
	}
	return &Blueprint[C]{name: name, prefix: strings.TrimSuffix(prefix, "/")}, nil
}

// Name returns the blueprint's name.
func (b *Blueprint[C]) Name() string { return b.name }

// Route records a route for registration. The endpoint is local to the
// blueprint and gets namespaced as "name.endpoint" on registration.
func (b *Blueprint[C]) Route(pattern, endpoint string, h handler.HandlerFunc[C], opts ...router.RouteOption) {
	b.routes = append(b.routes, bpRoute[C]{pattern: pattern, endpoint: endpoint, h: h, opts: opts})
}

// Get records a GET route.
func (b *Blueprint[C]) Get(pattern, endpoint string, h handler.HandlerFunc[C]) {
	b.Route(pattern, endpoint, h, router.WithMethods(http.MethodGet))
}

// Post records a POST route.
func (b *Blueprint[C]) Post(pattern, endpoint string, h handler.HandlerFunc[C]) {
	b.Route(pattern, endpoint, h, router.WithMethods(http.MethodPost))
}

// Put records a PUT route.
func (b *Blueprint[C]) Put(pattern, endpoint string, h handler.HandlerFunc[C]) {
	b.Route(pattern, endpoint, h, router.WithMethods(http.MethodPut))
}

// Delete records a DELETE route.
func (b *Blueprint[C]) Delete(pattern, endpoint string, h handler.HandlerFunc[C]) {
	b.Route(pattern, endpoint, h, router.WithMethods(http.MethodDelete))
}

// Patch records a PATCH route.
func (b *Blueprint[C]) Patch(pattern, endpoint string, h handler.HandlerFunc[C]) {
	b.Route(pattern, endpoint, h, router.WithMethods(http.MethodPatch))
}

// BeforeRequest registers a before hook scoped to this blueprint's routes.
func (b *Blueprint[C]) BeforeRequest(fn handler.BeforeHook[C]) {
	b.before = append(b.before, fn)
}

// AfterRequest registers an after hook scoped to this blueprint's routes.
func (b *Blueprint[C]) AfterRequest(fn handler.AfterHook[C]) {
	b.after = append(b.after, fn)
}

// TeardownRequest registers a teardown hook scoped to this blueprint's
// routes.
func (b *Blueprint[C]) TeardownRequest(fn handler.TeardownHook[C]) {
	b.teardown = append(b.teardown, fn)
}

// HandleError registers a scoped handler for errors matching target via
// errors.Is. Scoped handlers are consulted before the app's global ones.
func (b *Blueprint[C]) HandleError(target error, fn handler.ErrorHandlerFunc[C]) {
	b.errorHandlers = append(b.errorHandlers, errorHandlerEntry[C]{
		match: func(err error) bool { return errors.Is(err, target) },
		fn:    fn,
	})
}

// HandleStatus registers a scoped handler for faults carrying the given
// HTTP status code.
func (b *Blueprint[C]) HandleStatus(code int, fn handler.ErrorHandlerFunc[C]) {
	b.statusHandlers = append(b.statusHandlers, bpStatusHandler[C]{code: code, fn: fn})
}

// BlueprintErrorType registers a scoped handler for errors matching the
// type E via errors.As.
func BlueprintErrorType[E error, C handler.Context](b *Blueprint[C], fn handler.ErrorHandlerFunc[C]) {
	b.errorHandlers = append(b.errorHandlers, errorHandlerEntry[C]{
		match: func(err error) bool {
			var e E
			return errors.As(err, &e)
		},
		fn: fn,
	})
}

// RegisterBlueprint activates the blueprint's deferred registrations on the
// app: endpoints become "name.endpoint", patterns gain the prefix, and the
// hooks and error handlers attach to the blueprint's scope. Registering the
// same name twice fails with ErrDuplicateBlueprint.
func (a *App[C]) RegisterBlueprint(b *Blueprint[C]) error {
	a.checkSetup()
	if a.blueprints[b.name] {
		return fmt.Errorf("%w: %q", ErrDuplicateBlueprint, b.name)
	}

	for _, r := range b.routes {
		endpoint := b.name + "." + r.endpoint
		pattern := b.prefix + r.pattern
		if err := a.Bind(endpoint, r.h); err != nil {
			return err
		}
		opts := append([]router.RouteOption{router.WithScope(b.name)}, r.opts...)
		if err := a.AddRoute(pattern, endpoint, opts...); err != nil {
			return err
		}
	}

	for _, fn := range b.before {
		a.pipeline.Before(b.name, fn)
	}
	for _, fn := range b.after {
		a.pipeline.After(b.name, fn)
	}
	for _, fn := range b.teardown {
		a.pipeline.Teardown(b.name, fn)
	}

	for _, e := range b.errorHandlers {
		e.scope = b.name
		a.errorHandlers = append(a.errorHandlers, e)
	}
	for _, s := range b.statusHandlers {
		a.statusHandlers[statusKey{scope: b.name, code: s.code}] = s.fn
	}

	a.blueprints[b.name] = true
	return nil
}
