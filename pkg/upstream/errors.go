package upstream

import "fmt"

// Error wraps a transport-level failure talking to an upstream. Status-coded
// upstream responses are never wrapped in an Error; they pass through to the
// client as-is.
type Error struct {
	Domain string
	Op     string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("upstream %s: %s: %v", e.Domain, e.Op, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}
