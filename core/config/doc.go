// Package config provides type-safe environment variable loading with
// caching using Go generics. Each configuration type is loaded once and
// cached for subsequent calls.
//
// The package loads a .env file on first use and parses environment
// variables into struct fields via the caarlos0/env library.
//
// Basic usage:
//
//	type AppConfig struct {
//		Env   string `env:"APP_ENV" envDefault:"production"`
//		Debug bool   `env:"APP_DEBUG" envDefault:"false"`
//	}
//
//	var cfg AppConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Each configuration type is loaded only once per process; subsequent
// Load calls for the same type return the cached value.
package config
