// Package interp executes one tokenized command line as a chain of OS
// processes connected by pipes and redirected file descriptors.
//
// The interpreter walks the token slice left to right with a cursor that
// only ever advances. Plain tokens accumulate into the pending command;
// a redirection operator rebinds one slot of the working stream table;
// a pipe operator launches the pending command with its stdout bound to
// a fresh pipe and continues interpreting with stdin bound to the pipe's
// read end. When the tokens run out, the pending command is launched as
// the foreground stage.
package interp

import (
	"fmt"
	"os"
)

// Op identifies a control operator token.
type Op int

const (
	OpNone Op = iota
	OpAppend       // >>
	OpStdout       // >
	OpStderr       // 2>
	OpStdoutStderr // &>
	OpStdin        // <
	OpPipe         // |
)

// ParseOp reports whether tok is exactly one of the six operator forms.
// Any other token, including near misses like "2>>" or ">>>", is a plain
// argument.
func ParseOp(tok string) (Op, bool) {
	switch tok {
	case ">>":
		return OpAppend, true
	case ">":
		return OpStdout, true
	case "2>":
		return OpStderr, true
	case "&>":
		return OpStdoutStderr, true
	case "<":
		return OpStdin, true
	case "|":
		return OpPipe, true
	}
	return OpNone, false
}

// IsOp reports whether tok is an operator token.
func IsOp(tok string) bool {
	_, ok := ParseOp(tok)
	return ok
}

// Args collects consecutive plain-argument tokens starting at *cur into a
// command, stopping at the first operator token or the end of the line.
// The cursor is left on the stopping token. The result is a sub-slice of
// tokens, not a copy.
func Args(tokens []string, cur *int) []string {
	start := *cur
	for *cur < len(tokens) && !IsOp(tokens[*cur]) {
		*cur++
	}
	return tokens[start:*cur:*cur]
}

// Streams is a process's standard stream table. The zero slot order
// matches the descriptor numbers the child will see.
type Streams struct {
	In, Out, Err *os.File
}

// Stdio returns the interpreter's own standard streams.
func Stdio() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

func (s Streams) files() []*os.File {
	return []*os.File{s.In, s.Out, s.Err}
}

// Line holds the processes started for one command line. The last stage
// is the foreground process the supervisor waits on; earlier stages are
// the left-hand sides of pipes, in launch order.
type Line struct {
	Procs []*os.Process
}

// Foreground returns the rightmost stage, or nil if nothing started.
func (l *Line) Foreground() *os.Process {
	if len(l.Procs) == 0 {
		return nil
	}
	return l.Procs[len(l.Procs)-1]
}

// state is the working set of one interpretation pass: the current stream
// table plus every descriptor the interpreter itself opened and must
// therefore close before the supervisor starts waiting.
type state struct {
	streams Streams
	owned   []*os.File
}

func (st *state) adopt(f *os.File) {
	st.owned = append(st.owned, f)
}

// release closes f and forgets it if the interpreter owns it.
func (st *state) release(f *os.File) {
	for i, o := range st.owned {
		if o == f {
			o.Close()
			st.owned = append(st.owned[:i], st.owned[i+1:]...)
			return
		}
	}
}

// sweep closes owned descriptors that are no longer referenced by any
// stream slot. Called after a rebind so a superseded redirection target
// does not leak (last-write-wins).
func (st *state) sweep() {
	kept := st.owned[:0]
	for _, o := range st.owned {
		if o == st.streams.In || o == st.streams.Out || o == st.streams.Err {
			kept = append(kept, o)
			continue
		}
		o.Close()
	}
	st.owned = kept
}

func (st *state) closeAll() {
	for _, o := range st.owned {
		o.Close()
	}
	st.owned = nil
}

func syntaxErr(near string) error {
	return &ExitError{Code: ExitSyntax, Err: fmt.Errorf("syntax error near unexpected token %q", near)}
}

// Run interprets one tokenized command line against the given base stream
// table and starts every stage of it. It returns the started processes
// even on error so the caller can reap any stages that were already
// launched before the failure.
//
// Every descriptor Run opens (redirection targets and pipe ends) is closed
// in the calling process before Run returns: a pipe's write end
// immediately after the producing stage starts, everything else once the
// final stage is up. A reader therefore always sees EOF once its writers
// exit.
func Run(tokens []string, base Streams) (*Line, error) {
	line := &Line{}
	st := state{streams: base}
	defer st.closeAll()

	cur := 0
	args := Args(tokens, &cur)

	for cur < len(tokens) {
		op, ok := ParseOp(tokens[cur])
		if !ok {
			// Plain tokens are consumed by Args before each transition;
			// one here means arguments follow a redirection filename.
			return line, syntaxErr(tokens[cur])
		}

		if op != OpPipe {
			// Redirection: the operator must be followed by a filename.
			if cur+1 >= len(tokens) {
				return line, syntaxErr(tokens[cur])
			}
			file, err := openRedirect(op, tokens[cur+1])
			if err != nil {
				return line, err
			}
			cur += 2
			st.adopt(file)
			st.streams = rebind(st.streams, op, file)
			st.sweep()
			continue
		}

		// Pipe: launch the accumulated left-hand command with its output
		// feeding the pipe, then keep interpreting with our working stdin
		// bound to the read end.
		if len(args) == 0 {
			return line, syntaxErr("|")
		}
		if cur+1 >= len(tokens) {
			return line, syntaxErr("|")
		}
		cur++

		r, w, err := os.Pipe()
		if err != nil {
			return line, &ExitError{Code: ExitPipe, Err: fmt.Errorf("pipe: %w", err)}
		}
		st.adopt(r)
		st.adopt(w)

		proc, err := start(args, Streams{In: st.streams.In, Out: w, Err: st.streams.Err})
		if err != nil {
			return line, err
		}
		line.Procs = append(line.Procs, proc)

		// The producer holds its own copy of the write end now; ours must
		// go away or the reader never sees EOF.
		st.release(w)
		st.streams.In = r
		st.sweep()

		args = Args(tokens, &cur)
	}

	if len(args) == 0 {
		return line, syntaxErr("newline")
	}

	proc, err := start(args, st.streams)
	if err != nil {
		return line, err
	}
	line.Procs = append(line.Procs, proc)
	return line, nil
}
