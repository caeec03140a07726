package logger

import (
	"log/slog"
	"runtime"
	"time"
)

// Attribute helpers return the empty Attr for absent values, so call sites
// never need nil checks: log.Error("msg", logger.Error(err)) is safe even
// when err is nil.

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Cause records the originating error of a secondary failure.
func Cause(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("cause", err)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Method creates an attribute for HTTP methods.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// Path creates an attribute for URL paths.
func Path(path string) slog.Attr {
	return slog.String("path", path)
}

// Status creates an attribute for HTTP status codes.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// RequestID creates an attribute for request identifiers.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Scope creates an attribute for the hook or handler scope. The empty
// global scope is rendered as "global".
func Scope(scope string) slog.Attr {
	if scope == "" {
		scope = "global"
	}
	return slog.String("scope", scope)
}

// Endpoint creates an attribute for endpoint identifiers.
func Endpoint(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("endpoint", name)
}

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Key creates a generic key-value attribute.
func Key(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}

// Stack captures and returns the current stack trace.
func Stack() slog.Attr {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	return slog.String("stack", string(buf))
}
