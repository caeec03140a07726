// Package app ties the routing, handler and hook packages into a request
// dispatcher that implements http.Handler.
//
// Every request moves through a fixed lifecycle: the route table is
// consulted, a per-request context is built, before hooks run (global ones
// first, then the matched blueprint's), the handler executes, its return
// value is normalized into a response, after hooks run in reverse
// registration order, and teardown hooks run exactly once regardless of
// how the dispatch ended. A before hook that returns a non-nil value
// short-circuits the handler; its value is normalized like a handler
// return. Routing failures surface after the before hooks, so
// cross-cutting hooks observe every request including 404s.
//
// Faults at any point resolve through registered error handlers: type
// matchers via errors.Is and errors.As in registration order, blueprint
// scope before global, then status-code handlers, then a built-in generic
// response. Handler panics are recovered into a PanicError carrying the
// stack.
//
// Registration is a startup-time activity. Endpoints bind to handlers once
// (rebinding fails), routes may share endpoints, and blueprints group
// routes, hooks and error handlers under a namespaced scope.
//
// Usage:
//
//	a := app.New[*app.Context]()
//	a.Get("/users/{id:int}", "users.get", func(ctx *app.Context) (any, error) {
//		return response.JSON(map[string]string{"id": ctx.Param("id")})
//	})
//	http.ListenAndServe(":8080", a)
package app
