package hooks_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintframework/flint/core/handler"
	"github.com/flintframework/flint/core/hooks"
	"github.com/flintframework/flint/core/response"
	"github.com/flintframework/flint/core/router"
)

// testContext is a minimal handler.Context for exercising the pipeline
// without the full dispatcher.
type testContext struct {
	r      *http.Request
	w      http.ResponseWriter
	values map[any]any
}

func newTestContext() *testContext {
	return &testContext{
		r:      httptest.NewRequest(http.MethodGet, "/test", nil),
		w:      httptest.NewRecorder(),
		values: make(map[any]any),
	}
}

func (c *testContext) Deadline() (time.Time, bool)         { return c.r.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}               { return c.r.Context().Done() }
func (c *testContext) Err() error                          { return c.r.Context().Err() }
func (c *testContext) Request() *http.Request              { return c.r }
func (c *testContext) ResponseWriter() http.ResponseWriter { return c.w }
func (c *testContext) Param(string) string                 { return "" }
func (c *testContext) Params() map[string]string           { return nil }
func (c *testContext) Route() *router.Route                { return nil }
func (c *testContext) Endpoint() string                    { return "" }
func (c *testContext) Scope() string                       { return "" }
func (c *testContext) SetValue(key, val any)               { c.values[key] = val }

func (c *testContext) Value(key any) any {
	if v, ok := c.values[key]; ok {
		return v
	}
	return c.r.Context().Value(key)
}

var _ handler.Context = (*testContext)(nil)

func TestRunBefore(t *testing.T) {
	t.Parallel()

	t.Run("runs global hooks before scoped ones", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		var order []string
		p.Before(hooks.GlobalScope, func(ctx *testContext) (any, error) {
			order = append(order, "global1")
			return nil, nil
		})
		p.Before("admin", func(ctx *testContext) (any, error) {
			order = append(order, "admin")
			return nil, nil
		})
		p.Before(hooks.GlobalScope, func(ctx *testContext) (any, error) {
			order = append(order, "global2")
			return nil, nil
		})

		rv, err := p.RunBefore(newTestContext(), "admin")
		require.NoError(t, err)
		assert.Nil(t, rv)
		assert.Equal(t, []string{"global1", "global2", "admin"}, order)
	})

	t.Run("scoped hooks only run for their scope", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		called := false
		p.Before("admin", func(ctx *testContext) (any, error) {
			called = true
			return nil, nil
		})

		_, err := p.RunBefore(newTestContext(), hooks.GlobalScope)
		require.NoError(t, err)
		assert.False(t, called)
	})

	t.Run("error aborts remaining hooks", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		boom := errors.New("boom")
		var secondRan bool
		p.Before(hooks.GlobalScope, func(ctx *testContext) (any, error) {
			return nil, boom
		})
		p.Before(hooks.GlobalScope, func(ctx *testContext) (any, error) {
			secondRan = true
			return nil, nil
		})

		_, err := p.RunBefore(newTestContext(), hooks.GlobalScope)
		require.ErrorIs(t, err, boom)
		assert.False(t, secondRan)

		var hookErr *hooks.HookError
		require.ErrorAs(t, err, &hookErr)
		assert.Equal(t, hooks.PhaseBefore, hookErr.Phase)
	})

	t.Run("non-nil value short-circuits", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		var secondRan bool
		p.Before(hooks.GlobalScope, func(ctx *testContext) (any, error) {
			return "cached", nil
		})
		p.Before(hooks.GlobalScope, func(ctx *testContext) (any, error) {
			secondRan = true
			return nil, nil
		})

		rv, err := p.RunBefore(newTestContext(), hooks.GlobalScope)
		require.NoError(t, err)
		assert.Equal(t, "cached", rv)
		assert.False(t, secondRan)
	})

	t.Run("panic becomes a hook error", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		p.Before(hooks.GlobalScope, func(ctx *testContext) (any, error) {
			panic("unexpected state")
		})

		_, err := p.RunBefore(newTestContext(), hooks.GlobalScope)
		var hookErr *hooks.HookError
		require.ErrorAs(t, err, &hookErr)
		assert.Contains(t, hookErr.Error(), "unexpected state")
	})
}

func TestRunAfter(t *testing.T) {
	t.Parallel()

	t.Run("runs scoped hooks first then global in reverse order", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		var order []string
		p.After(hooks.GlobalScope, func(ctx *testContext, resp *response.Response) (*response.Response, error) {
			order = append(order, "global1")
			return resp, nil
		})
		p.After(hooks.GlobalScope, func(ctx *testContext, resp *response.Response) (*response.Response, error) {
			order = append(order, "global2")
			return resp, nil
		})
		p.After("admin", func(ctx *testContext, resp *response.Response) (*response.Response, error) {
			order = append(order, "admin1")
			return resp, nil
		})
		p.After("admin", func(ctx *testContext, resp *response.Response) (*response.Response, error) {
			order = append(order, "admin2")
			return resp, nil
		})

		_, err := p.RunAfter(newTestContext(), "admin", response.String("ok"))
		require.NoError(t, err)
		assert.Equal(t, []string{"admin2", "admin1", "global2", "global1"}, order)
	})

	t.Run("each hook may replace the response", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		p.After(hooks.GlobalScope, func(ctx *testContext, resp *response.Response) (*response.Response, error) {
			resp.Header.Set("X-First", "1")
			return resp, nil
		})
		p.After(hooks.GlobalScope, func(ctx *testContext, resp *response.Response) (*response.Response, error) {
			return response.StringWithStatus("replaced", http.StatusAccepted), nil
		})

		resp, err := p.RunAfter(newTestContext(), hooks.GlobalScope, response.String("orig"))
		require.NoError(t, err)
		// Reverse order: the replacement runs first, the header lands on it.
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		assert.Equal(t, "replaced", string(resp.Body))
		assert.Equal(t, "1", resp.Header.Get("X-First"))
	})

	t.Run("error stops remaining hooks and keeps the response so far", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		boom := errors.New("after boom")
		var globalRan bool
		p.After(hooks.GlobalScope, func(ctx *testContext, resp *response.Response) (*response.Response, error) {
			globalRan = true
			return resp, nil
		})
		p.After("admin", func(ctx *testContext, resp *response.Response) (*response.Response, error) {
			return nil, boom
		})

		resp, err := p.RunAfter(newTestContext(), "admin", response.String("orig"))
		require.ErrorIs(t, err, boom)
		assert.False(t, globalRan)
		assert.Equal(t, "orig", string(resp.Body))
	})
}

func TestRunTeardown(t *testing.T) {
	t.Parallel()

	t.Run("runs global reversed then scope reversed", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		var order []string
		p.Teardown(hooks.GlobalScope, func(ctx *testContext, err error) error {
			order = append(order, "global1")
			return nil
		})
		p.Teardown(hooks.GlobalScope, func(ctx *testContext, err error) error {
			order = append(order, "global2")
			return nil
		})
		p.Teardown("admin", func(ctx *testContext, err error) error {
			order = append(order, "admin1")
			return nil
		})
		p.Teardown("admin", func(ctx *testContext, err error) error {
			order = append(order, "admin2")
			return nil
		})

		p.RunTeardown(newTestContext(), "admin", nil)
		assert.Equal(t, []string{"global2", "global1", "admin2", "admin1"}, order)
	})

	t.Run("receives the dispatch error", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		boom := errors.New("dispatch failed")
		var seen error
		p.Teardown(hooks.GlobalScope, func(ctx *testContext, err error) error {
			seen = err
			return nil
		})

		p.RunTeardown(newTestContext(), hooks.GlobalScope, boom)
		assert.ErrorIs(t, seen, boom)
	})

	t.Run("a failing hook never blocks its siblings", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		var ran []string
		p.Teardown(hooks.GlobalScope, func(ctx *testContext, err error) error {
			ran = append(ran, "first")
			return nil
		})
		p.Teardown(hooks.GlobalScope, func(ctx *testContext, err error) error {
			panic("teardown panic")
		})
		p.Teardown(hooks.GlobalScope, func(ctx *testContext, err error) error {
			ran = append(ran, "third")
			return errors.New("teardown error")
		})

		// Runs in reverse: third, panicking, first. All complete.
		p.RunTeardown(newTestContext(), hooks.GlobalScope, nil)
		assert.Equal(t, []string{"third", "first"}, ran)
	})
}
