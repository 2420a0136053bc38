package cli

import (
	"errors"
	"strconv"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// exitError carries an exit code. A nil err means the failure was already
// reported and nothing more is printed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return "exit status " + strconv.Itoa(e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error { return &exitError{code: ExitUsage, err: err} }

// reported marks a failure whose diagnostics already went to stderr.
func reported(code int) error { return &exitError{code: code} }

// exitCode classifies an error returned by the command tree. Usage errors are
// wrapped where they arise: flag parsing (SetFlagErrorFunc), positional
// arguments and unknown commands (usageArgs) and config loading.
func exitCode(err error) (int, bool) {
	if err == nil {
		return ExitOK, false
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code, ee.err != nil
	}
	return ExitFailure, true
}
