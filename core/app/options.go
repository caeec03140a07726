package app

import (
	"log/slog"

	"github.com/flintframework/flint/core/handler"
)

// Option configures an App during creation.
type Option[C handler.Context] func(*App[C])

// WithLogger sets the logger used for teardown failures, unresolvable
// faults and response write errors. Defaults to a no-op logger.
func WithLogger[C handler.Context](logger *slog.Logger) Option[C] {
	return func(a *App[C]) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithContextFactory sets a custom context factory for the app.
func WithContextFactory[C handler.Context](f ContextFactory[C]) Option[C] {
	return func(a *App[C]) {
		a.newContext = f
	}
}

// WithConfig applies application configuration.
func WithConfig[C handler.Context](cfg Config) Option[C] {
	return func(a *App[C]) {
		a.cfg = cfg
	}
}

// Config holds the application settings, loadable from the environment
// via core/config.
type Config struct {
	// Env names the deployment environment.
	Env string `env:"APP_ENV" envDefault:"production"`

	// Debug enables development-time behavior: fault responses include the
	// underlying error text and setup calls after the first request panic.
	Debug bool `env:"APP_DEBUG" envDefault:"false"`
}
