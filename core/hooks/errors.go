package hooks

import (
	"errors"
	"fmt"
)

// Phase identifies which hook list a failure originated from.
type Phase string

const (
	PhaseBefore   Phase = "before"
	PhaseAfter    Phase = "after"
	PhaseTeardown Phase = "teardown"
)

// HookError wraps an error raised by a registered hook, recording the
// phase and scope it came from.
type HookError struct {
	Phase Phase
	Scope string
	Err   error
}

func (e *HookError) Error() string {
	if e.Scope == GlobalScope {
		return fmt.Sprintf("%s hook failed: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("%s hook failed in scope %q: %v", e.Phase, e.Scope, e.Err)
}

// Unwrap exposes the hook's original error to errors.Is and errors.As.
func (e *HookError) Unwrap() error {
	return e.Err
}

// toError converts a recovered panic value to an error.
func toError(v any) error {
	switch e := v.(type) {
	case error:
		return e
	case string:
		return errors.New(e)
	default:
		return fmt.Errorf("panic: %v", e)
	}
}
