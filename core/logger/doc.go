// Package logger provides structured logging utilities built on Go's
// standard slog package: a factory for configured loggers and typed
// attribute helpers for the values the dispatcher logs.
//
// Attribute helpers return the empty Attr for absent values, so call
// sites never need nil checks:
//
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithAttr(logger.Component("api")),
//	)
//
//	log.Error("dispatch failed",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.Error(err),
//	)
package logger
