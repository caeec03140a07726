package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/flintframework/flint/core/handler"
	"github.com/flintframework/flint/core/hooks"
	"github.com/flintframework/flint/core/logger"
	"github.com/flintframework/flint/core/router"
)

// ContextFactory builds the per-request context handed to hooks and
// handlers. RouteInfo carries the routing outcome, which may be empty when
// routing failed.
type ContextFactory[C handler.Context] func(w http.ResponseWriter, r *http.Request, info RouteInfo) C

// errorHandlerEntry is one registered (matcher, handler) pair. Entries are
// tested in registration order, scoped entries before global ones.
type errorHandlerEntry[C handler.Context] struct {
	scope string
	match func(error) bool
	fn    handler.ErrorHandlerFunc[C]
}

// statusKey addresses status-code error handlers per scope.
type statusKey struct {
	scope string
	code  int
}

// App ties the route table, the handler registry, the hook pipeline and
// error-handler resolution into one dispatcher. All registration happens
// at startup; an App is safe for concurrent dispatches afterwards.
type App[C handler.Context] struct {
	table          *router.Table
	endpoints      map[string]handler.HandlerFunc[C]
	pipeline       *hooks.Pipeline[C]
	errorHandlers  []errorHandlerEntry[C]
	statusHandlers map[statusKey]handler.ErrorHandlerFunc[C]
	blueprints     map[string]bool
	newContext     ContextFactory[C]
	logger         *slog.Logger
	cfg            Config

	firstHooks      []func() error
	firstRequestMu  sync.Mutex
	gotFirstRequest atomic.Bool
}

// New creates an application with the given options.
func New[C handler.Context](opts ...Option[C]) *App[C] {
	a := &App[C]{
		table:          router.NewTable(),
		endpoints:      make(map[string]handler.HandlerFunc[C]),
		statusHandlers: make(map[statusKey]handler.ErrorHandlerFunc[C]),
		blueprints:     make(map[string]bool),
		logger:         logger.Discard(), // No-op logger by default
	}

	for _, opt := range opts {
		opt(a)
	}

	a.pipeline = hooks.NewPipeline[C](a.logger)

	// Only support the default *Context type without a factory; custom
	// contexts require one.
	if a.newContext == nil {
		a.newContext = func(w http.ResponseWriter, r *http.Request, info RouteInfo) C {
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r, info)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return a
}

// Bind associates an endpoint identifier with a handler. Rebinding an
// endpoint fails with ErrDuplicateEndpoint.
func (a *App[C]) Bind(endpoint string, h handler.HandlerFunc[C]) error {
	a.checkSetup()
	if h == nil {
		return fmt.Errorf("%w: endpoint %q", ErrNilHandler, endpoint)
	}
	if _, exists := a.endpoints[endpoint]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateEndpoint, endpoint)
	}
	a.endpoints[endpoint] = h
	return nil
}

// AddRoute registers a pattern for an already-bound endpoint. Several
// routes may share one endpoint.
func (a *App[C]) AddRoute(pattern, endpoint string, opts ...router.RouteOption) error {
	a.checkSetup()
	_, err := a.table.Register(pattern, endpoint, opts...)
	return err
}

// Route binds the handler to the endpoint and registers the pattern for it
// in one step. Defaults to GET unless router.WithMethods says otherwise.
func (a *App[C]) Route(pattern, endpoint string, h handler.HandlerFunc[C], opts ...router.RouteOption) error {
	if err := a.Bind(endpoint, h); err != nil {
		return err
	}
	return a.AddRoute(pattern, endpoint, opts...)
}

// Get registers a GET handler, panicking on registration errors.
func (a *App[C]) Get(pattern, endpoint string, h handler.HandlerFunc[C]) {
	a.must(a.Route(pattern, endpoint, h, router.WithMethods(http.MethodGet)))
}

// Post registers a POST handler, panicking on registration errors.
func (a *App[C]) Post(pattern, endpoint string, h handler.HandlerFunc[C]) {
	a.must(a.Route(pattern, endpoint, h, router.WithMethods(http.MethodPost)))
}

// Put registers a PUT handler, panicking on registration errors.
func (a *App[C]) Put(pattern, endpoint string, h handler.HandlerFunc[C]) {
	a.must(a.Route(pattern, endpoint, h, router.WithMethods(http.MethodPut)))
}

// Delete registers a DELETE handler, panicking on registration errors.
func (a *App[C]) Delete(pattern, endpoint string, h handler.HandlerFunc[C]) {
	a.must(a.Route(pattern, endpoint, h, router.WithMethods(http.MethodDelete)))
}

// Patch registers a PATCH handler, panicking on registration errors.
func (a *App[C]) Patch(pattern, endpoint string, h handler.HandlerFunc[C]) {
	a.must(a.Route(pattern, endpoint, h, router.WithMethods(http.MethodPatch)))
}

// Head registers a HEAD handler, panicking on registration errors.
func (a *App[C]) Head(pattern, endpoint string, h handler.HandlerFunc[C]) {
	a.must(a.Route(pattern, endpoint, h, router.WithMethods(http.MethodHead)))
}

// Options registers an OPTIONS handler, panicking on registration errors.
// Explicit OPTIONS registration replaces the automatic handling.
func (a *App[C]) Options(pattern, endpoint string, h handler.HandlerFunc[C]) {
	a.must(a.Route(pattern, endpoint, h, router.WithMethods(http.MethodOptions)))
}

// BeforeRequest registers a global before hook.
func (a *App[C]) BeforeRequest(fn handler.BeforeHook[C]) {
	a.checkSetup()
	a.pipeline.Before(hooks.GlobalScope, fn)
}

// AfterRequest registers a global after hook.
func (a *App[C]) AfterRequest(fn handler.AfterHook[C]) {
	a.checkSetup()
	a.pipeline.After(hooks.GlobalScope, fn)
}

// TeardownRequest registers a global teardown hook.
func (a *App[C]) TeardownRequest(fn handler.TeardownHook[C]) {
	a.checkSetup()
	a.pipeline.Teardown(hooks.GlobalScope, fn)
}

// BeforeFirstRequest registers a hook that runs at most once per process,
// before the first dispatched request. An error keeps the first-request
// flag unset, so the hooks are retried on the next dispatch.
func (a *App[C]) BeforeFirstRequest(fn func() error) {
	a.checkSetup()
	a.firstHooks = append(a.firstHooks, fn)
}

// Hooks exposes the pipeline for shipped hook installers such as
// hooks.RequestID and hooks.RequestLogger.
func (a *App[C]) Hooks() *hooks.Pipeline[C] {
	return a.pipeline
}

// HandleError registers a handler for errors matching target via errors.Is.
func (a *App[C]) HandleError(target error, fn handler.ErrorHandlerFunc[C]) {
	a.checkSetup()
	a.errorHandlers = append(a.errorHandlers, errorHandlerEntry[C]{
		match: func(err error) bool { return errors.Is(err, target) },
		fn:    fn,
	})
}

// HandleStatus registers a handler for faults carrying the given HTTP
// status code. Re-registering a code replaces the previous handler.
func (a *App[C]) HandleStatus(code int, fn handler.ErrorHandlerFunc[C]) {
	a.checkSetup()
	a.statusHandlers[statusKey{code: code}] = fn
}

// HandleErrorType registers a handler for errors matching the type E via
// errors.As. Type matchers take precedence over status-code handlers.
func HandleErrorType[E error, C handler.Context](a *App[C], fn handler.ErrorHandlerFunc[C]) {
	a.checkSetup()
	a.errorHandlers = append(a.errorHandlers, errorHandlerEntry[C]{
		match: func(err error) bool {
			var e E
			return errors.As(err, &e)
		},
		fn: fn,
	})
}

// Routes returns the registered routes in match-precedence order.
func (a *App[C]) Routes() []*router.Route {
	return a.table.Routes()
}

// triggerFirstRequest runs the first-request hooks at most once per
// process. The fast path is a lock-free flag check; the slow path holds a
// mutex so concurrent first requests cannot double-invoke the hooks.
func (a *App[C]) triggerFirstRequest() error {
	if a.gotFirstRequest.Load() {
		return nil
	}
	a.firstRequestMu.Lock()
	defer a.firstRequestMu.Unlock()
	if a.gotFirstRequest.Load() {
		return nil
	}
	for _, fn := range a.firstHooks {
		if err := fn(); err != nil {
			return err
		}
	}
	a.gotFirstRequest.Store(true)
	return nil
}

// checkSetup guards against late registration: in debug mode, adding
// routes or hooks after the first request was handled panics, since the
// registration structures are not safe to mutate concurrently with
// dispatches.
func (a *App[C]) checkSetup() {
	if a.cfg.Debug && a.gotFirstRequest.Load() {
		panic("flint: a setup function was called after the first request was handled")
	}
}

func (a *App[C]) must(err error) {
	if err != nil {
		panic(err)
	}
}
