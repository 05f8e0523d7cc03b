package interp

import (
	"fmt"
	"os"
)

// Created redirection targets get owner read/write/execute bits, matching
// the original shell's S_IRWXU.
const redirectPerm = 0700

// openRedirect opens the target file for the given redirection operator:
//
//	>   create, truncate, write-only
//	>>  create, append, write-only
//	2>  create, truncate, write-only
//	&>  create, truncate, write-only
//	<   read-only, the file must exist
func openRedirect(op Op, name string) (*os.File, error) {
	var f *os.File
	var err error

	switch op {
	case OpAppend:
		f, err = os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, redirectPerm)
	case OpStdout, OpStderr, OpStdoutStderr:
		f, err = os.OpenFile(name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, redirectPerm)
	case OpStdin:
		f, err = os.OpenFile(name, os.O_RDONLY, 0)
	default:
		err = fmt.Errorf("not a redirection operator: %v", op)
	}

	if err != nil {
		return nil, &ExitError{Code: ExitRedirect, Err: err}
	}
	return f, nil
}

// rebind points the stream slot(s) named by the operator at file. A later
// redirection of the same stream supersedes an earlier one; &> binds
// stdout and stderr to the same descriptor.
func rebind(s Streams, op Op, file *os.File) Streams {
	switch op {
	case OpAppend, OpStdout:
		s.Out = file
	case OpStderr:
		s.Err = file
	case OpStdoutStderr:
		s.Out = file
		s.Err = file
	case OpStdin:
		s.In = file
	}
	return s
}
