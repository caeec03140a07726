package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// Registration errors. Fatal to startup, never recoverable per request.
	ErrInvalidPattern = errors.New("invalid route pattern")
	ErrInvalidMethod  = errors.New("invalid http method")
	ErrRouteConflict  = errors.New("conflicting route registration")

	// Matching errors.
	ErrNotFound         = errors.New("no route matches the requested path")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// MethodNotAllowedError reports that the path matched a pattern registered
// for other methods. Allow carries the valid method set, sorted.
type MethodNotAllowedError struct {
	Allow []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method not allowed (allow: %s)", strings.Join(e.Allow, ", "))
}

// Is makes errors.Is(err, ErrMethodNotAllowed) hold for matching errors.
func (e *MethodNotAllowedError) Is(target error) bool {
	return target == ErrMethodNotAllowed
}

// StatusCode reports the HTTP status associated with the error.
func (e *MethodNotAllowedError) StatusCode() int {
	return http.StatusMethodNotAllowed
}
