// Package shell executes tokenized command lines: builtins first, then
// external programs.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// ErrExit is returned by the exit builtin to end the session.
var ErrExit = errors.New("exit")

const name = "MOshell"

// Builtin runs in the shell process itself.
type Builtin func(s *Shell, args []string) error

// HistoryLister exposes retained commands for the history builtin.
type HistoryLister interface {
	Entries() ([]string, error)
}

type Shell struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	builtins map[string]Builtin
	executor Executor
	history  HistoryLister

	lastStatus int
}

type Option func(*Shell)

func WithExecutor(e Executor) Option {
	return func(s *Shell) { s.executor = e }
}

func WithHistory(h HistoryLister) Option {
	return func(s *Shell) { s.history = h }
}

func New(in io.Reader, out, errw io.Writer, opts ...Option) *Shell {
	s := &Shell{
		In:       in,
		Out:      out,
		Err:      errw,
		builtins: make(map[string]Builtin),
		executor: &DefaultExecutor{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerBuiltins()
	return s
}

// Execute runs one tokenized command. It returns ErrExit when the session
// should end; every other failure is reported on Err and swallowed.
func (s *Shell) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if fn, ok := s.builtins[args[0]]; ok {
		err := fn(s, args[1:])
		if errors.Is(err, ErrExit) {
			return err
		}
		if err != nil {
			fmt.Fprintf(s.Err, "%s: %v\n", name, err)
			s.lastStatus = 1
			return nil
		}
		s.lastStatus = 0
		return nil
	}

	status, err := s.executor.Execute(ctx, args[0], args[1:], IOBindings{
		Stdin:  s.In,
		Stdout: s.Out,
		Stderr: s.Err,
	})
	if err != nil {
		fmt.Fprintf(s.Err, "%s: %v\n", name, err)
	}
	s.lastStatus = status
	return nil
}

// LastStatus is the exit status of the most recent command.
func (s *Shell) LastStatus() int { return s.lastStatus }

// Builtins lists builtin names in sorted order.
func (s *Shell) Builtins() []string {
	names := make([]string, 0, len(s.builtins))
	for n := range s.builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Shell) registerBuiltins() {
	s.builtins["cd"] = func(s *Shell, args []string) error {
		if len(args) == 0 {
			return errors.New(`expected argument to "cd"`)
		}
		return os.Chdir(args[0])
	}

	s.builtins["pwd"] = func(s *Shell, args []string) error {
		dir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getcwd: %w", err)
		}
		fmt.Fprintln(s.Out, dir)
		return nil
	}

	s.builtins["help"] = func(s *Shell, args []string) error {
		fmt.Fprintln(s.Out, "MOshell: The Minimalistic OS Shell")
		fmt.Fprintln(s.Out, "Type program names and arguments, then press enter.")
		fmt.Fprintln(s.Out, "Press TAB to accept the grey suggestion from history.")
		fmt.Fprintln(s.Out, "Built-in commands:")
		for _, n := range s.Builtins() {
			fmt.Fprintf(s.Out, "  %s\n", n)
		}
		fmt.Fprintln(s.Out, "Use the man command for information on other programs.")
		return nil
	}

	s.builtins["history"] = func(s *Shell, args []string) error {
		if s.history == nil {
			return nil
		}
		entries, err := s.history.Entries()
		if err != nil {
			return err
		}
		for i, e := range entries {
			fmt.Fprintf(s.Out, "%5d  %s\n", i+1, e)
		}
		return nil
	}

	s.builtins["exit"] = func(s *Shell, args []string) error {
		fmt.Fprintln(s.Out, "Exiting MOshell.")
		return ErrExit
	}
}
