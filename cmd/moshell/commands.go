package main

import (
	"fmt"
	"io"

	"github.com/flowave-io/moshell/internal/cli"
)

func shellCmd(args []string) int {
	return cli.RunShellCommand(args)
}

func historyCmd(args []string) int {
	return cli.RunHistoryCommand(args)
}

func helpCmd(stdout, stderr io.Writer, args []string) int {
	if len(args) == 0 {
		printHelp(stdout)
		return 0
	}
	switch args[0] {
	case "shell":
		cli.PrintShellHelp()
	case "history":
		fmt.Fprint(stdout, `moshell history: print the retained command history

Options:
  -config path   HCL configuration file (default ~/.moshell.hcl)
  -json          Print entries as a JSON array of {"n", "command"}
`)
	default:
		fmt.Fprintln(stderr, "No help for: ", args[0])
		return 1
	}
	return 0
}
