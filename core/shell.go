package core

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/anmitsu/go-shlex"
	"github.com/earoland/Basic-Shell/core/config"
	"github.com/earoland/Basic-Shell/core/interp"
	"github.com/earoland/Basic-Shell/core/logger"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

const (
	EnvHome = "HOME"
	EnvUser = "USER"
)

var errColor = color.New(color.FgRed, color.Bold)

// Shell is the interactive prompt loop: it reads lines, tokenizes them,
// dispatches built-ins in-process, and hands everything else to the
// interpreter under the supervisor's watch.
type Shell struct {
	Config     *config.Configuration
	Readline   *readline.Instance
	Supervisor *Supervisor

	// stdio is the descriptor table inherited by child processes.
	stdio interp.Streams
	// stdout/stderr are the shell's own output, used by built-ins and
	// diagnostics. They alias stdio in production and buffers in tests.
	stdout io.Writer
	stderr io.Writer

	fs      afero.Fs
	log     *logger.SessionLogger
	history []string
	isTTY   bool
	quit    bool
	toClose listCloser
}

// NewShell builds a shell attached to the process's own standard streams.
func NewShell(configuration *config.Configuration) (*Shell, error) {
	execLog, err := configuration.OpenExecLog()
	if err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:     configuration.HistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		execLog.Close()
		return nil, err
	}

	shell := &Shell{
		Config:     configuration,
		Readline:   rl,
		Supervisor: &Supervisor{},
		stdio:      interp.Stdio(),
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		fs:         afero.NewOsFs(),
		log:        logger.NewJsonLinesLogRecorder(execLog).NewSession(),
		isTTY:      term.IsTerminal(int(os.Stdout.Fd())),
	}
	shell.toClose = append(shell.toClose, execLog, rl)
	shell.Supervisor.onRelay = func(pid int) {
		_ = shell.log.Record(&logger.Interrupt{PID: pid})
	}

	return shell, nil
}

// Prompt expands the configured PS1-style template.
func (s *Shell) Prompt() string {
	prompt := s.Config.Prompt

	prompt = strings.ReplaceAll(prompt, `\u`, os.Getenv(EnvUser))
	host, _ := os.Hostname()
	prompt = strings.ReplaceAll(prompt, `\h`, host)

	pwd, _ := os.Getwd()
	if home := os.Getenv(EnvHome); home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)
	prompt = strings.ReplaceAll(prompt, `\p`, fmt.Sprintf("%d", os.Getpid()))

	if os.Getuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run is the top-level control loop, one iteration per input line.
func (s *Shell) Run() error {
	stopRelay := s.Supervisor.StartRelay()
	defer stopRelay()

	if s.Config.Motd != "" {
		fmt.Fprintln(s.stdout, s.Config.Motd)
	}
	host, _ := os.Hostname()
	_ = s.log.Record(&logger.SessionStart{User: os.Getenv(EnvUser), Hostname: host})

	for !s.quit {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			return err

		case strings.TrimSpace(line) == "":
			continue // blank line
		}

		s.history = append(s.history, line)
		s.Execute(line)
	}
	return nil
}

// Execute runs one raw input line and returns its exit code.
func (s *Shell) Execute(line string) int {
	tokens, err := shlex.Split(line, true)
	if err != nil {
		s.errorf("syntax error: %v", err)
		_ = s.log.Record(&logger.SyntaxError{Near: line})
		return interp.ExitSyntax
	}
	if len(tokens) == 0 {
		return 0
	}

	// Built-ins run synchronously in the shell's own process, with no
	// forking and no redirection support.
	cur := 0
	args := interp.Args(tokens, &cur)
	if len(args) > 0 {
		if builtin, ok := AllBuiltins[args[0]]; ok {
			code := builtin.Main(s, args)
			_ = s.log.Record(&logger.RunBuiltin{Name: args[0], Command: args, ExitStatus: code})
			return code
		}
	}

	_ = s.log.Record(&logger.RunCommand{Command: tokens})

	pipeline, err := interp.Run(tokens, s.stdio)
	if err != nil {
		s.Supervisor.Reap(pipeline)
		s.errorf("%v", err)
		code := interp.ExitCode(err)
		if code == interp.ExitSyntax {
			_ = s.log.Record(&logger.SyntaxError{Near: line})
		}
		return code
	}

	status, err := s.Supervisor.Wait(pipeline)
	if err != nil {
		s.errorf("%v", err)
		return 1
	}

	s.report(status)
	exit := &logger.CommandExit{PID: status.PID, ExitStatus: status.Code}
	if status.Signaled {
		exit.Signal = status.SignalName()
	}
	_ = s.log.Record(exit)
	return status.Code
}

func (s *Shell) report(status Status) {
	fmt.Fprintf(s.stderr, "[%d] %s\n", status.PID, status)
}

func (s *Shell) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if s.isTTY {
		errColor.Fprintf(s.stderr, "bsh: %s\n", msg)
		return
	}
	fmt.Fprintf(s.stderr, "bsh: %s\n", msg)
}

func (s *Shell) Close() error {
	return s.toClose.Close()
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
