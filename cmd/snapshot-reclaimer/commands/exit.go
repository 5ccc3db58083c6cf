package commands

import "fmt"

// Exit codes form the contract with schedulers and operators.
const (
	ExitSuccess       = 0
	ExitInvalidConfig = 2
	ExitPartial       = 3 // run completed but some deletions failed (only with --strict)
	ExitRuntimeError  = 4
)

// ExitError carries the process exit code for main.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

func exitErr(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

func exitErrf(code int, format string, args ...any) error {
	return exitErr(code, fmt.Errorf(format, args...))
}
