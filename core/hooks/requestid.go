package hooks

import (
	"github.com/google/uuid"

	"github.com/flintframework/flint/core/handler"
	"github.com/flintframework/flint/core/response"
)

// requestIDKey is used as a key for storing the request ID in the context.
type requestIDKey struct{}

// RequestIDConfig configures the request ID hooks.
type RequestIDConfig struct {
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName specifies the header name for the request ID (default: "X-Request-ID")
	HeaderName string
	// UseExisting determines whether to reuse a request ID sent by the client
	UseExisting bool
}

// RequestID installs global hooks that assign each request a unique
// identifier: a before hook stores the ID in the context, an after hook
// reflects it on the response headers.
func RequestID[C handler.Context](p *Pipeline[C]) {
	RequestIDWithConfig(p, RequestIDConfig{})
}

// RequestIDWithConfig installs the request ID hooks with custom configuration.
func RequestIDWithConfig[C handler.Context](p *Pipeline[C], cfg RequestIDConfig) {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	p.Before(GlobalScope, func(ctx C) (any, error) {
		var requestID string
		if cfg.UseExisting {
			requestID = ctx.Request().Header.Get(cfg.HeaderName)
		}
		if requestID == "" {
			requestID = cfg.Generator()
		}
		ctx.SetValue(requestIDKey{}, requestID)
		return nil, nil
	})

	p.After(GlobalScope, func(ctx C, resp *response.Response) (*response.Response, error) {
		if id, ok := GetRequestID(ctx); ok {
			resp.Header.Set(cfg.HeaderName, id)
		}
		return resp, nil
	})
}

// GetRequestID retrieves the request ID from the request context.
// Returns the ID and a boolean indicating whether it was found.
func GetRequestID(ctx handler.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}
