package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/flowave-io/moshell/internal/config"
)

func printHelp(w io.Writer) {
	fmt.Fprint(w, `MOshell is a small interactive shell with inline history suggestions.

Usage: moshell [global options] [subcommand] [args]

Global options:
  -config path  HCL configuration file (default ~/.moshell.hcl)

Available commands:
  shell    Start the interactive shell (default)
  history  Print the retained command history
  help     Show this help output, or the help for a specified subcommand
  version  Show the current MOshell version
`)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches one invocation and returns the process exit code.
func run(argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("moshell", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printHelp(stderr) }
	flagHelp := fs.Bool("help", false, "Show help")
	flagConfig := fs.String("config", "", "Path to the HCL configuration file")
	if err := fs.Parse(argv); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	args := fs.Args()
	var global []string
	if *flagConfig != "" {
		global = []string{"-config", *flagConfig}
	}

	if *flagHelp {
		printHelp(stdout)
		return 0
	}

	if len(args) == 0 {
		return shellCmd(global)
	}

	switch args[0] {
	case "help":
		return helpCmd(stdout, stderr, args[1:])
	case "version":
		fmt.Fprintln(stdout, "MOshell", config.Version)
		return 0
	case "shell":
		return shellCmd(append(global, args[1:]...))
	case "history":
		return historyCmd(append(global, args[1:]...))
	}

	fmt.Fprintln(stderr, "Unknown command: ", args[0])
	printHelp(stderr)
	return 1
}
