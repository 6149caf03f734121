package cmd

import (
	"errors"

	"github.com/jessevdk/go-flags"
)

// Exit codes of the massunpack command.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitFatal       = 2
	ExitInterrupted = 130
)

// ExitError carries the exit code of a finished command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps the error returned by the parser to the exit code of the process.
func ExitCode(err error) int {
	var ee *ExitError
	switch {
	case err == nil, flags.WroteHelp(err):
		return ExitOK
	case errors.As(err, &ee):
		return ee.Code
	default:
		return ExitFatal
	}
}
