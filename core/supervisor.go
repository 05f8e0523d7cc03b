package core

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/earoland/Basic-Shell/core/interp"
	"golang.org/x/sys/unix"
)

// Status is the terminal state of a foreground command line.
type Status struct {
	PID      int
	Code     int
	Signaled bool
	Signal   unix.Signal
}

func (s Status) String() string {
	if s.Signaled {
		return fmt.Sprintf("terminated by signal %s", s.SignalName())
	}
	return fmt.Sprintf("exit status %d", s.Code)
}

// SignalName returns the terminating signal's name, e.g. "SIGINT".
func (s Status) SignalName() string {
	if !s.Signaled {
		return ""
	}
	return unix.SignalName(s.Signal)
}

// Supervisor tracks the shell's current foreground process and relays
// interactive interrupts to it. The foreground PID is the only state
// shared with the relay goroutine; it is a single atomic word, zero
// meaning no active child.
type Supervisor struct {
	fg      atomic.Int64
	onRelay func(pid int)
}

// ForegroundPID returns the PID of the process currently being waited
// on, or zero if there is none.
func (sv *Supervisor) ForegroundPID() int {
	return int(sv.fg.Load())
}

// StartRelay installs the SIGINT relay: while a foreground process is
// recorded, interrupts delivered to the shell are forwarded to it;
// otherwise they are ignored. The returned function uninstalls it.
func (sv *Supervisor) StartRelay() (stop func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)

	go func() {
		for range sigs {
			pid := sv.ForegroundPID()
			if pid == 0 {
				continue
			}
			_ = unix.Kill(pid, unix.SIGINT)
			if sv.onRelay != nil {
				sv.onRelay(pid)
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(sigs)
	}
}

// Wait blocks until the line's foreground stage reaches a terminal state,
// then reaps the remaining stages in the background. Stop notifications
// (WUNTRACED) and interrupted waits restart the loop, mirroring the
// waitpid loop of a classic shell.
func (sv *Supervisor) Wait(line *interp.Line) (Status, error) {
	fg := line.Foreground()
	if fg == nil {
		return Status{}, fmt.Errorf("no foreground process")
	}

	sv.fg.Store(int64(fg.Pid))
	defer sv.fg.Store(0)

	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(fg.Pid, &ws, unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return Status{}, fmt.Errorf("wait4 %d: %w", fg.Pid, err)
		}
		if ws.Exited() || ws.Signaled() {
			break
		}
	}
	fg.Release()

	// Left-hand pipeline stages exit on their own once the pipe chain
	// unwinds; collect them without blocking the prompt.
	for _, proc := range line.Procs[:len(line.Procs)-1] {
		proc := proc
		go func() { _, _ = proc.Wait() }()
	}

	st := Status{PID: fg.Pid}
	if ws.Signaled() {
		st.Signaled = true
		st.Signal = ws.Signal()
		st.Code = 128 + int(ws.Signal())
	} else {
		st.Code = ws.ExitStatus()
	}
	return st, nil
}

// Reap collects stages that were started before a line failed part-way.
func (sv *Supervisor) Reap(line *interp.Line) {
	if line == nil {
		return
	}
	for _, proc := range line.Procs {
		proc := proc
		go func() { _, _ = proc.Wait() }()
	}
}
