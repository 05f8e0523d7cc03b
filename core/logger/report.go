package logger

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Sessions    int               `json:"sessions"`
	RunCommand  RunCommandReport  `json:"run_command_report"`
	RunBuiltin  RunBuiltinReport  `json:"run_builtin_report"`
	CommandExit CommandExitReport `json:"command_exit_report"`
	Interrupts  int               `json:"interrupts"`
	SyntaxError SyntaxErrorReport `json:"syntax_error_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.GetLogType().(type) {
	case *SessionStart:
		r.Sessions++
	case *RunCommand:
		r.RunCommand.update(event)
	case *RunBuiltin:
		r.RunBuiltin.update(event)
	case *CommandExit:
		r.CommandExit.update(event)
	case *Interrupt:
		r.Interrupts++
	case *SyntaxError:
		r.SyntaxError.update(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type RunCommandReport struct {
	// Name of the executable, i.e. the first command token.
	CommandNames StrCounter `json:"command_names"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	if len(rc.Command) > 0 {
		r.CommandNames.Increment(rc.Command[0])
	}
}

type RunBuiltinReport struct {
	BuiltinNames StrCounter `json:"builtin_names"`
}

func (r *RunBuiltinReport) update(rb *RunBuiltin) {
	r.BuiltinNames.Increment(rb.Name)
}

type CommandExitReport struct {
	ExitStatuses StrCounter `json:"exit_statuses"`
	Signals      StrCounter `json:"signals,omitempty"`
}

func (r *CommandExitReport) update(ce *CommandExit) {
	r.ExitStatuses.Increment(strconv.Itoa(ce.ExitStatus))
	if ce.Signal != "" {
		r.Signals.Increment(ce.Signal)
	}
}

type SyntaxErrorReport struct {
	Tokens StrCounter `json:"tokens"`
}

func (r *SyntaxErrorReport) update(se *SyntaxError) {
	r.Tokens.Increment(se.Near)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Count returns the number of times the key was seen.
func (s *StrCounter) Count(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}
