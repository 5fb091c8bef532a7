package cli

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/docgraph/pkg/errors"
)

// Process exit codes.
const (
	ExitOK          = 0   // no error-severity findings
	ExitFindings    = 1   // at least one error-severity finding
	ExitUsage       = 2   // bad flags, arguments or configuration
	ExitFailure     = 3   // I/O or internal failure
	ExitInterrupted = 130 // standard shell convention for SIGINT
)

// errFindings is returned by commands whose report contains errors. The
// report itself has already been printed.
var errFindings = stderrors.New("documentation has errors")

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	case stderrors.Is(err, errFindings):
		return ExitFindings
	case errors.IsUsage(err):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Reported reports whether err was already surfaced to the user by the
// command that returned it.
func Reported(err error) bool {
	return stderrors.Is(err, errFindings) || stderrors.Is(err, context.Canceled)
}
