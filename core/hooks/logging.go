package hooks

import (
	"log/slog"
	"time"

	"github.com/flintframework/flint/core/handler"
	"github.com/flintframework/flint/core/logger"
	"github.com/flintframework/flint/core/response"
)

// requestStartKey stores the dispatch start time in the context.
type requestStartKey struct{}

// statusWriter is implemented by the dispatcher's response writer. A
// handler may write to the transport directly, in which case the finalized
// response never hits the wire and its status would be a lie.
type statusWriter interface {
	Written() bool
	Status() int
}

// RequestLoggerConfig configures the request logging hooks.
type RequestLoggerConfig struct {
	// Skip defines a function to skip logging for specific requests
	Skip func(ctx handler.Context) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// Level for request completion entries (default: slog.LevelInfo)
	Level slog.Level
}

// RequestLogger installs global hooks that log one line per completed
// dispatch with method, path, status and duration.
func RequestLogger[C handler.Context](p *Pipeline[C], logger *slog.Logger) {
	RequestLoggerWithConfig(p, RequestLoggerConfig{Logger: logger})
}

// RequestLoggerWithConfig installs the request logging hooks with custom
// configuration.
func RequestLoggerWithConfig[C handler.Context](p *Pipeline[C], cfg RequestLoggerConfig) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	p.Before(GlobalScope, func(ctx C) (any, error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return nil, nil
		}
		ctx.SetValue(requestStartKey{}, time.Now())
		return nil, nil
	})

	p.After(GlobalScope, func(ctx C, resp *response.Response) (*response.Response, error) {
		start, ok := ctx.Value(requestStartKey{}).(time.Time)
		if !ok {
			return resp, nil
		}

		status := resp.StatusCode
		if sw, ok := ctx.ResponseWriter().(statusWriter); ok && sw.Written() {
			status = sw.Status()
		}

		attrs := []any{
			logger.Method(ctx.Request().Method),
			logger.Path(ctx.Request().URL.Path),
			logger.Status(status),
			logger.Duration(time.Since(start)),
		}
		if id, found := GetRequestID(ctx); found {
			attrs = append(attrs, logger.RequestID(id))
		}
		cfg.Logger.Log(ctx, cfg.Level, "request completed", attrs...)
		return resp, nil
	})
}
