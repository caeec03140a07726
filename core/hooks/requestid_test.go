package hooks_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintframework/flint/core/handler"
	"github.com/flintframework/flint/core/hooks"
	"github.com/flintframework/flint/core/response"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("assigns a uuid and reflects it on the response", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		hooks.RequestID(p)

		ctx := newTestContext()
		_, err := p.RunBefore(ctx, hooks.GlobalScope)
		require.NoError(t, err)

		id, ok := hooks.GetRequestID(ctx)
		require.True(t, ok)
		_, err = uuid.Parse(id)
		require.NoError(t, err)

		resp, err := p.RunAfter(ctx, hooks.GlobalScope, response.String("ok"))
		require.NoError(t, err)
		assert.Equal(t, id, resp.Header.Get("X-Request-ID"))
	})

	t.Run("reuses the client id when configured", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		hooks.RequestIDWithConfig(p, hooks.RequestIDConfig{UseExisting: true})

		ctx := newTestContext()
		ctx.r.Header.Set("X-Request-ID", "client-supplied")

		_, err := p.RunBefore(ctx, hooks.GlobalScope)
		require.NoError(t, err)

		id, ok := hooks.GetRequestID(ctx)
		require.True(t, ok)
		assert.Equal(t, "client-supplied", id)
	})

	t.Run("ignores the client id by default", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		hooks.RequestID(p)

		ctx := newTestContext()
		ctx.r.Header.Set("X-Request-ID", "client-supplied")

		_, err := p.RunBefore(ctx, hooks.GlobalScope)
		require.NoError(t, err)

		id, _ := hooks.GetRequestID(ctx)
		assert.NotEqual(t, "client-supplied", id)
	})

	t.Run("custom generator and header", func(t *testing.T) {
		t.Parallel()

		p := hooks.NewPipeline[*testContext](nil)
		hooks.RequestIDWithConfig(p, hooks.RequestIDConfig{
			Generator:  func() string { return "fixed" },
			HeaderName: "X-Trace-ID",
		})

		ctx := newTestContext()
		_, err := p.RunBefore(ctx, hooks.GlobalScope)
		require.NoError(t, err)

		resp, err := p.RunAfter(ctx, hooks.GlobalScope, response.String("ok"))
		require.NoError(t, err)
		assert.Equal(t, "fixed", resp.Header.Get("X-Trace-ID"))
	})
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("logs one line per completed dispatch", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		p := hooks.NewPipeline[*testContext](nil)
		hooks.RequestLogger(p, logger)

		ctx := newTestContext()
		_, err := p.RunBefore(ctx, hooks.GlobalScope)
		require.NoError(t, err)
		_, err = p.RunAfter(ctx, hooks.GlobalScope, response.StringWithStatus("ok", http.StatusCreated))
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "request completed")
		assert.Contains(t, out, "method=GET")
		assert.Contains(t, out, "path=/test")
		assert.Contains(t, out, "status=201")
	})

	t.Run("skip suppresses the entry", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		p := hooks.NewPipeline[*testContext](nil)
		hooks.RequestLoggerWithConfig(p, hooks.RequestLoggerConfig{
			Logger: logger,
			Skip:   func(ctx handler.Context) bool { return true },
		})

		ctx := newTestContext()
		_, err := p.RunBefore(ctx, hooks.GlobalScope)
		require.NoError(t, err)
		_, err = p.RunAfter(ctx, hooks.GlobalScope, response.String("ok"))
		require.NoError(t, err)

		assert.Empty(t, buf.String())
	})
}
