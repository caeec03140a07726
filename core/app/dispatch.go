package app

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/flintframework/flint/core/handler"
	"github.com/flintframework/flint/core/hooks"
	"github.com/flintframework/flint/core/logger"
	"github.com/flintframework/flint/core/response"
	"github.com/flintframework/flint/core/router"
)

// ServeHTTP implements http.Handler: the transport boundary. Routing is
// resolved up front so the context knows its route and scope; the routing
// error, if any, only surfaces after before hooks have run.
func (a *App[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	// Matching operates on the decoded path: /users/%31 routes like
	// /users/1 and placeholder values come out decoded.
	path := r.URL.Path
	if path == "" {
		path = "/"
	}

	m, routingErr := a.table.Match(r.Method, path)
	var info RouteInfo
	if m != nil {
		info = RouteInfo{Route: m.Route, Params: m.Params}
	}
	ctx := a.newContext(ww, r, info)

	resp := a.dispatch(ctx, info, routingErr, r.Method, path)

	// A handler may have written to the transport directly; the finalized
	// response is dropped in that case rather than corrupting the stream.
	if ww.Written() {
		return
	}
	if err := resp.Write(ww); err != nil {
		a.logger.Error("failed to write response",
			logger.Error(err),
			logger.Method(r.Method),
			logger.Path(path),
		)
	}
}

// dispatch runs the request lifecycle: before hooks, routing, handler
// invocation, normalization, error-handler resolution, after hooks.
// Teardown hooks run exactly once on every path out, including panics.
func (a *App[C]) dispatch(ctx C, info RouteInfo, routingErr error, method, path string) *response.Response {
	scope := hooks.GlobalScope
	if info.Route != nil {
		scope = info.Route.Scope
	}

	var dispatchErr error
	defer func() {
		a.pipeline.RunTeardown(ctx, scope, dispatchErr)
	}()

	rv, err := a.runToHandler(ctx, scope, info, routingErr, method, path)

	var resp *response.Response
	if err == nil {
		resp, err = response.Normalize(rv)
	}
	if err != nil {
		// A resolved error handler's response still flows through the
		// after hooks below.
		dispatchErr = err
		resp = a.handleDispatchError(ctx, scope, err)
	}

	resp, afterErr := a.pipeline.RunAfter(ctx, scope, resp)
	if afterErr != nil {
		dispatchErr = afterErr
		return a.handleDispatchError(ctx, scope, afterErr)
	}
	return resp
}

// runToHandler covers everything up to and including handler invocation:
// first-request hooks, before hooks (which may short-circuit), surfacing
// the routing outcome, automatic OPTIONS, endpoint resolution.
func (a *App[C]) runToHandler(ctx C, scope string, info RouteInfo, routingErr error, method, path string) (any, error) {
	if err := a.triggerFirstRequest(); err != nil {
		return nil, err
	}

	rv, err := a.pipeline.RunBefore(ctx, scope)
	if err != nil {
		return nil, err
	}
	if rv != nil {
		return rv, nil
	}

	if routingErr != nil {
		return nil, routingErr
	}

	route := info.Route
	if route.AutoOptions && method == http.MethodOptions {
		resp := response.Status(http.StatusOK)
		resp.Header.Set("Allow", strings.Join(a.table.Allowed(path), ", "))
		return resp, nil
	}

	h, ok := a.endpoints[route.Endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEndpoint, route.Endpoint)
	}
	return a.invoke(ctx, h)
}

// invoke runs the handler, converting panics into errors with the stack
// captured at the panic point.
func (a *App[C]) invoke(ctx C, h handler.HandlerFunc[C]) (rv any, err error) {
	defer func() {
		if p := recover(); p != nil {
			rv, err = nil, &panicError{value: p, stack: debug.Stack()}
		}
	}()
	return h(ctx)
}

// handleDispatchError resolves a fault into a response. It never fails:
// when no handler matches, or the matched handler itself errors, the
// dispatch degrades to the generic fault response.
func (a *App[C]) handleDispatchError(ctx C, scope string, err error) *response.Response {
	if fn := a.resolveErrorHandler(scope, err); fn != nil {
		resp, herr := a.invokeErrorHandler(ctx, fn, err)
		if herr == nil {
			return a.finalizeErrorResponse(resp, err)
		}
		a.logger.Error("error handler failed",
			logger.Error(fmt.Errorf("%w: %v", ErrUnresolvedHandler, herr)),
			logger.Cause(err),
		)
	}
	return a.genericFaultResponse(err)
}

// resolveErrorHandler walks the registered matchers: scoped type matchers,
// global type matchers, scoped status handlers, global status handlers.
func (a *App[C]) resolveErrorHandler(scope string, err error) handler.ErrorHandlerFunc[C] {
	if scope != hooks.GlobalScope {
		for _, e := range a.errorHandlers {
			if e.scope == scope && e.match(err) {
				return e.fn
			}
		}
	}
	for _, e := range a.errorHandlers {
		if e.scope == "" && e.match(err) {
			return e.fn
		}
	}

	code := statusFor(err)
	if scope != hooks.GlobalScope {
		if fn, ok := a.statusHandlers[statusKey{scope: scope, code: code}]; ok {
			return fn
		}
	}
	if fn, ok := a.statusHandlers[statusKey{code: code}]; ok {
		return fn
	}
	return nil
}

// invokeErrorHandler calls the error handler with panic recovery and
// normalizes its result.
func (a *App[C]) invokeErrorHandler(ctx C, fn handler.ErrorHandlerFunc[C], cause error) (resp *response.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp, err = nil, &panicError{value: p, stack: debug.Stack()}
		}
	}()
	rv, err := fn(ctx, cause)
	if err != nil {
		return nil, err
	}
	return response.Normalize(rv)
}

// genericFaultResponse builds the last-resort response for a fault.
// Internal error detail is only exposed in debug mode.
func (a *App[C]) genericFaultResponse(err error) *response.Response {
	httpErr := toHTTPError(err)
	body := httpErr.Message
	if a.cfg.Debug && httpErr.Status >= http.StatusInternalServerError {
		body = err.Error()
	}
	return a.finalizeErrorResponse(response.StringWithStatus(body, httpErr.Status), err)
}

// finalizeErrorResponse guarantees protocol-level invariants on error
// responses, currently the Allow header on 405s.
func (a *App[C]) finalizeErrorResponse(resp *response.Response, err error) *response.Response {
	var mna *router.MethodNotAllowedError
	if errors.As(err, &mna) && resp.Header.Get("Allow") == "" {
		resp.Header.Set("Allow", strings.Join(mna.Allow, ", "))
	}
	return resp
}

// statusCoder is implemented by errors that carry an HTTP status code.
type statusCoder interface {
	StatusCode() int
}

// statusFor maps a fault to its HTTP status code, defaulting to 500.
func statusFor(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	if errors.Is(err, router.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// toHTTPError converts any fault to a structured HTTPError for response
// building.
func toHTTPError(err error) response.HTTPError {
	var httpErr response.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return response.ByStatus(statusFor(err))
}
