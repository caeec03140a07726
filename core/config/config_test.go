package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintframework/flint/core/config"
)

func TestLoad(t *testing.T) {
	t.Run("parses environment variables", func(t *testing.T) {
		type serverConfig struct {
			Host string `env:"TEST_LOAD_HOST" envDefault:"localhost"`
			Port int    `env:"TEST_LOAD_PORT" envDefault:"8080"`
		}

		t.Setenv("TEST_LOAD_HOST", "example.com")
		t.Setenv("TEST_LOAD_PORT", "9090")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "example.com", cfg.Host)
		assert.Equal(t, 9090, cfg.Port)
	})

	t.Run("applies defaults for unset variables", func(t *testing.T) {
		type defaultsConfig struct {
			Env   string `env:"TEST_DEFAULTS_ENV" envDefault:"production"`
			Debug bool   `env:"TEST_DEFAULTS_DEBUG" envDefault:"false"`
		}

		var cfg defaultsConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "production", cfg.Env)
		assert.False(t, cfg.Debug)
	})

	t.Run("fails on missing required variables", func(t *testing.T) {
		type requiredConfig struct {
			Secret string `env:"TEST_REQUIRED_SECRET,required"`
		}

		var cfg requiredConfig
		assert.Error(t, config.Load(&cfg))
	})

	t.Run("caches per type", func(t *testing.T) {
		type cachedConfig struct {
			Value string `env:"TEST_CACHED_VALUE" envDefault:"first"`
		}

		var first cachedConfig
		require.NoError(t, config.Load(&first))
		assert.Equal(t, "first", first.Value)

		// A later environment change does not affect the cached value.
		t.Setenv("TEST_CACHED_VALUE", "second")
		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "first", second.Value)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on failure", func(t *testing.T) {
		type mustConfig struct {
			Token string `env:"TEST_MUST_TOKEN,required"`
		}

		assert.Panics(t, func() {
			var cfg mustConfig
			config.MustLoad(&cfg)
		})
	})

	t.Run("returns the parsed config", func(t *testing.T) {
		type okConfig struct {
			Name string `env:"TEST_MUSTOK_NAME" envDefault:"flint"`
		}

		var cfg okConfig
		assert.NotPanics(t, func() { config.MustLoad(&cfg) })
		assert.Equal(t, "flint", cfg.Name)
	})
}
