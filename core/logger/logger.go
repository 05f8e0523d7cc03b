// Package logger is a standardized event logging framework for the shell.
// Events are recorded as newline delimited JSON objects with exactly one
// event payload set per entry.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// LogEntry is one record of the execution log. Exactly one of the event
// pointers is non-nil.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart *SessionStart `json:"session_start,omitempty"`
	RunCommand   *RunCommand   `json:"run_command,omitempty"`
	RunBuiltin   *RunBuiltin   `json:"run_builtin,omitempty"`
	CommandExit  *CommandExit  `json:"command_exit,omitempty"`
	Interrupt    *Interrupt    `json:"interrupt,omitempty"`
	SyntaxError  *SyntaxError  `json:"syntax_error,omitempty"`
}

// LogType is implemented by every event payload.
type LogType interface {
	isLogType()
}

// SessionStart marks the beginning of an interactive session.
type SessionStart struct {
	User     string `json:"user"`
	Hostname string `json:"hostname"`
}

// RunCommand records a command line handed to the executor.
type RunCommand struct {
	Command []string `json:"command"`
}

// RunBuiltin records a built-in dispatched in the shell's own process.
type RunBuiltin struct {
	Name       string   `json:"name"`
	Command    []string `json:"command"`
	ExitStatus int      `json:"exit_status"`
}

// CommandExit records the terminal state of a foreground command.
type CommandExit struct {
	PID        int    `json:"pid"`
	ExitStatus int    `json:"exit_status"`
	Signal     string `json:"signal,omitempty"`
}

// Interrupt records a SIGINT relayed to the foreground process.
type Interrupt struct {
	PID int `json:"pid"`
}

// SyntaxError records a line rejected before anything was launched.
type SyntaxError struct {
	Near string `json:"near"`
}

func (*SessionStart) isLogType() {}
func (*RunCommand) isLogType()   {}
func (*RunBuiltin) isLogType()   {}
func (*CommandExit) isLogType()  {}
func (*Interrupt) isLogType()    {}
func (*SyntaxError) isLogType()  {}

func (le *LogEntry) setLogType(event LogType) {
	switch event := event.(type) {
	case *SessionStart:
		le.SessionStart = event
	case *RunCommand:
		le.RunCommand = event
	case *RunBuiltin:
		le.RunBuiltin = event
	case *CommandExit:
		le.CommandExit = event
	case *Interrupt:
		le.Interrupt = event
	case *SyntaxError:
		le.SyntaxError = event
	}
}

// GetLogType returns the entry's event payload, or nil for an empty entry.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.SessionStart != nil:
		return le.SessionStart
	case le.RunCommand != nil:
		return le.RunCommand
	case le.RunBuiltin != nil:
		return le.RunBuiltin
	case le.CommandExit != nil:
		return le.CommandExit
	case le.Interrupt != nil:
		return le.Interrupt
	case le.SyntaxError != nil:
		return le.SyntaxError
	}
	return nil
}

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures shell interaction events.
type Logger struct {
	Record LogRecorder
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogRecorder creates a Logger that discards everything.
func NewNopLogRecorder() *Logger {
	return &Logger{
		Record: func(le *LogEntry) error { return nil },
	}
}

func (l *Logger) recordLogType(sessionID string, event LogType) error {
	le := &LogEntry{}
	le.TimestampMicros = time.Now().UnixMicro()
	le.SessionID = sessionID
	le.setLogType(event)

	return l.Record(le)
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

func (l *SessionLogger) Record(event LogType) error {
	return l.recordLogType(l.sessionID, event)
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}
