package core

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/pborman/getopt/v2"
	"github.com/spf13/afero"
)

// AllBuiltins holds a list of all registered shell builtins. A command
// whose first argument matches a key here is dispatched in-process, never
// forked or exec'd.
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

var dirColor = color.New(color.FgBlue, color.Bold)

// Ls lists a directory, one entry per line, defaulting to the current
// directory.
func Ls(s *Shell, args []string) int {
	opts := getopt.New()
	all := opts.Bool('a', "do not ignore entries starting with .")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: ls [-a] [DIR]")
		fmt.Fprintln(w, "List directory contents.")
		if err != nil {
			return 1
		}
		return 0
	}

	dir := "."
	if rest := opts.Args(); len(rest) > 0 {
		dir = rest[0]
	}

	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		fmt.Fprintf(s.stderr, "ls: %v\n", err)
		return 1
	}

	for _, info := range infos {
		if !*all && strings.HasPrefix(info.Name(), ".") {
			continue
		}
		name := info.Name()
		if info.IsDir() && s.isTTY {
			name = dirColor.Sprint(name)
		}
		fmt.Fprintln(s.stdout, name)
	}
	return 0
}

// Rm unlinks each named file.
func Rm(s *Shell, args []string) int {
	opts := getopt.New()
	force := opts.Bool('f', "ignore nonexistent files")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: rm [-f] FILE...")
		fmt.Fprintln(w, "Unlink the named files.")
		if err != nil {
			return 1
		}
		return 0
	}

	rest := opts.Args()
	if len(rest) == 0 {
		fmt.Fprintln(s.stderr, "rm: missing operand")
		return 1
	}

	code := 0
	for _, name := range rest {
		if err := s.fs.Remove(name); err != nil && !*force {
			fmt.Fprintf(s.stderr, "rm: %v\n", err)
			code = 1
		}
	}
	return code
}

// Cd is the cd shell builtin. It changes the shell's real working
// directory so child processes start there too.
func Cd(s *Shell, args []string) int {
	switch len(args) {
	case 1:
		args = append(args, os.Getenv(EnvHome))
		fallthrough
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			fmt.Fprintf(s.stderr, "%s: %v\n", args[0], err)
			return 1
		}
	default:
		fmt.Fprintf(s.stderr, "%s: too many arguments\n", args[0])
		return 1
	}
	return 0
}

// Pwd prints the current working directory.
func Pwd(s *Shell, args []string) int {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(s.stderr, "pwd: %v\n", err)
		return 1
	}
	fmt.Fprintln(s.stdout, wd)
	return 0
}

// History displays or clears the session's line history.
func History(s *Shell, args []string) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: history [-c]")
		fmt.Fprintln(w, "Display or manipulate the history list.")
		if err != nil {
			return 1
		}
		return 0
	}

	if *clear {
		if s.Readline != nil {
			s.Readline.Operation.ResetHistory()
		}
		s.history = nil
		return 0
	}

	for i, line := range s.history {
		fmt.Fprintf(s.stdout, "% 5d  %s\n", i+1, line)
	}
	return 0
}

// Help lists the registered builtins.
func Help(s *Shell, args []string) int {
	w := s.stdout
	fmt.Fprintln(w, "bsh, a basic shell")
	fmt.Fprintln(w, "These commands are implemented by the shell itself; everything else")
	fmt.Fprintln(w, "must be an absolute path to an executable.")
	fmt.Fprintln(w)

	var builtins []string
	for k := range AllBuiltins {
		builtins = append(builtins, k)
	}
	sort.Strings(builtins)

	fmt.Fprintln(w, strings.Join(builtins, "\n"))

	return 0
}

// Exit quits the shell.
func Exit(s *Shell, args []string) int {
	s.quit = true
	return 0
}

func init() {
	AllBuiltins["ls"] = ShellBuiltinFunc(Ls)
	AllBuiltins["rm"] = ShellBuiltinFunc(Rm)
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["pwd"] = ShellBuiltinFunc(Pwd)
	AllBuiltins["history"] = ShellBuiltinFunc(History)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
}
