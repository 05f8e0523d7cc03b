package interp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Exit codes for the distinct failure classes of line execution. They
// stand in for the statuses the original design's forked children died
// with, so diagnostics stay distinguishable.
const (
	ExitRedirect = 1   // redirection target could not be opened
	ExitSyntax   = 2   // operator with no operand, or an empty command
	ExitFork     = 3   // process creation hit resource exhaustion
	ExitPipe     = 4   // pipe creation failed
	ExitNoExec   = 126 // target exists but cannot be executed
	ExitNotFound = 127 // target executable is missing
)

// ExitError carries the exit code a failed line resolves to.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error from this package to the line's exit code.
func ExitCode(err error) int {
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	return 1
}

// start launches args as a new process with the given stream table. There
// is no PATH search: args[0] must name the executable directly, as the
// shell requires absolute paths. Each stage gets its own process group so
// a terminal-generated SIGINT reaches only the shell, which relays it to
// the recorded foreground process and nothing else.
func start(args []string, s Streams) (*os.Process, error) {
	proc, err := os.StartProcess(args[0], args, &os.ProcAttr{
		Files: s.files(),
		Sys: &syscall.SysProcAttr{
			Setpgid: true,
		},
	})
	if err != nil {
		return nil, classifyStartErr(args[0], err)
	}
	return proc, nil
}

func classifyStartErr(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &ExitError{Code: ExitNotFound, Err: fmt.Errorf("%s: command not found", path)}
	case errors.Is(err, syscall.EAGAIN), errors.Is(err, syscall.ENOMEM):
		return &ExitError{Code: ExitFork, Err: fmt.Errorf("fork: %w", err)}
	case errors.Is(err, fs.ErrPermission):
		return &ExitError{Code: ExitNoExec, Err: fmt.Errorf("%s: permission denied", path)}
	default:
		return &ExitError{Code: ExitNoExec, Err: fmt.Errorf("%s: %w", path, err)}
	}
}
