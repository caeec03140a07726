package app

import (
	"errors"
	"fmt"
)

var (
	// Registry errors. Registration-time, fatal to startup.
	ErrDuplicateEndpoint  = errors.New("endpoint already bound")
	ErrNilHandler         = errors.New("nil handler")
	ErrDuplicateBlueprint = errors.New("blueprint already registered")
	ErrInvalidBlueprint   = errors.New("invalid blueprint")

	// ErrUnknownEndpoint is a defensive check: unreachable while the route
	// table and the registry are kept consistent.
	ErrUnknownEndpoint = errors.New("no handler bound for endpoint")

	// ErrUnresolvedHandler marks a fault whose error handler itself failed;
	// the dispatch degrades to the generic fault response.
	ErrUnresolvedHandler = errors.New("error handler failed to produce a response")

	// ErrNoContextFactory is raised when a custom context type is used
	// without providing a factory.
	ErrNoContextFactory = errors.New("no context factory provided")
)

// PanicError provides access to the original panic value and the stack
// trace captured when the dispatcher recovered a handler panic.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

// panicError is the private implementation of PanicError interface.
type panicError struct {
	value any
	stack []byte
}

// Error implements the error interface.
func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// Value returns the original panic value.
func (e *panicError) Value() any {
	return e.value
}

// Stack returns the stack trace.
func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to work with wrapped panics.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
