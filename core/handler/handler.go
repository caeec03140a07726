package handler

import (
	"github.com/flintframework/flint/core/response"
)

// HandlerFunc is a request handler with custom context support. The returned
// value is converted into a *response.Response by the dispatcher's
// normalization step; a returned error enters error-handler resolution.
type HandlerFunc[C Context] func(ctx C) (any, error)

// ErrorHandlerFunc produces a replacement result for a failed dispatch.
// The error argument is the fault being handled; the returned value goes
// through the same normalization as a regular handler result.
type ErrorHandlerFunc[C Context] func(ctx C, err error) (any, error)

// BeforeHook runs before routing errors surface and before the handler is
// invoked. A non-nil return value short-circuits dispatch and is treated as
// the handler result; a non-nil error aborts remaining before hooks and
// enters error-handler resolution.
type BeforeHook[C Context] func(ctx C) (any, error)

// AfterHook post-processes the finalized response. It may return a
// replacement response; returning the input unchanged is also valid.
type AfterHook[C Context] func(ctx C, resp *response.Response) (*response.Response, error)

// TeardownHook runs unconditionally at the end of every dispatch. The error
// argument is the unhandled dispatch error, or nil on the happy path.
// Returned errors are logged and never propagated.
type TeardownHook[C Context] func(ctx C, err error) error
