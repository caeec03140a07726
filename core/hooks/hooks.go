package hooks

import (
	"log/slog"

	"github.com/flintframework/flint/core/handler"
	"github.com/flintframework/flint/core/logger"
	"github.com/flintframework/flint/core/response"
)

// GlobalScope is the key for hooks that apply to every dispatch. Named
// scopes correspond to blueprint names.
const GlobalScope = ""

// Pipeline holds the ordered before/after/teardown hook lists, keyed by
// scope. Registration lists are immutable after application startup;
// the Run methods are safe for concurrent dispatches.
type Pipeline[C handler.Context] struct {
	logger   *slog.Logger
	before   map[string][]handler.BeforeHook[C]
	after    map[string][]handler.AfterHook[C]
	teardown map[string][]handler.TeardownHook[C]
}

// NewPipeline creates an empty pipeline. Teardown failures are reported
// through the given logger; nil means discard.
func NewPipeline[C handler.Context](log *slog.Logger) *Pipeline[C] {
	if log == nil {
		log = logger.Discard()
	}
	return &Pipeline[C]{
		logger:   log,
		before:   make(map[string][]handler.BeforeHook[C]),
		after:    make(map[string][]handler.AfterHook[C]),
		teardown: make(map[string][]handler.TeardownHook[C]),
	}
}

// Before appends a before hook to the given scope.
func (p *Pipeline[C]) Before(scope string, fn handler.BeforeHook[C]) {
	p.before[scope] = append(p.before[scope], fn)
}

// After appends an after hook to the given scope.
func (p *Pipeline[C]) After(scope string, fn handler.AfterHook[C]) {
	p.after[scope] = append(p.after[scope], fn)
}

// Teardown appends a teardown hook to the given scope.
func (p *Pipeline[C]) Teardown(scope string, fn handler.TeardownHook[C]) {
	p.teardown[scope] = append(p.teardown[scope], fn)
}

// RunBefore executes global hooks then the active scope's hooks, in
// registration order. A hook error aborts the remaining hooks and becomes
// the dispatch result; a non-nil hook value short-circuits the same way
// but is treated as the handler result.
func (p *Pipeline[C]) RunBefore(ctx C, scope string) (any, error) {
	run := func(owner string) (any, error) {
		for _, fn := range p.before[owner] {
			rv, err := callBefore(ctx, fn)
			if err != nil {
				return nil, &HookError{Phase: PhaseBefore, Scope: owner, Err: err}
			}
			if rv != nil {
				return rv, nil
			}
		}
		return nil, nil
	}

	if rv, err := run(GlobalScope); rv != nil || err != nil {
		return rv, err
	}
	if scope != GlobalScope {
		return run(scope)
	}
	return nil, nil
}

// RunAfter executes hooks in reverse registration order, active scope
// first, then global. Each hook may replace the response. A hook error
// stops the remaining after hooks and propagates; the response accumulated
// so far is returned alongside it.
func (p *Pipeline[C]) RunAfter(ctx C, scope string, resp *response.Response) (*response.Response, error) {
	run := func(owner string) error {
		fns := p.after[owner]
		for i := len(fns) - 1; i >= 0; i-- {
			next, err := callAfter(ctx, fns[i], resp)
			if err != nil {
				return &HookError{Phase: PhaseAfter, Scope: owner, Err: err}
			}
			if next != nil {
				resp = next
			}
		}
		return nil
	}

	if scope != GlobalScope {
		if err := run(scope); err != nil {
			return resp, err
		}
	}
	if err := run(GlobalScope); err != nil {
		return resp, err
	}
	return resp, nil
}

// RunTeardown executes teardown hooks unconditionally: global hooks in
// reverse registration order, then the active scope's in reverse order.
// Failures (errors and panics alike) are logged and swallowed so one
// misbehaving hook never blocks its siblings.
func (p *Pipeline[C]) RunTeardown(ctx C, scope string, dispatchErr error) {
	run := func(owner string) {
		fns := p.teardown[owner]
		for i := len(fns) - 1; i >= 0; i-- {
			if err := callTeardown(ctx, fns[i], dispatchErr); err != nil {
				p.logger.Error("teardown hook failed",
					logger.Scope(owner),
					logger.Error(err),
					logger.Method(ctx.Request().Method),
					logger.Path(ctx.Request().URL.Path),
				)
			}
		}
	}

	run(GlobalScope)
	if scope != GlobalScope {
		run(scope)
	}
}

func callBefore[C handler.Context](ctx C, fn handler.BeforeHook[C]) (rv any, err error) {
	defer func() {
		if p := recover(); p != nil {
			rv, err = nil, toError(p)
		}
	}()
	return fn(ctx)
}

func callAfter[C handler.Context](ctx C, fn handler.AfterHook[C], resp *response.Response) (next *response.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			next, err = nil, toError(p)
		}
	}()
	return fn(ctx, resp)
}

func callTeardown[C handler.Context](ctx C, fn handler.TeardownHook[C], dispatchErr error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = toError(p)
		}
	}()
	return fn(ctx, dispatchErr)
}
