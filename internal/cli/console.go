package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/go-homedir"

	"github.com/flowave-io/moshell/internal/config"
	"github.com/flowave-io/moshell/internal/encoding/jsonx"
	"github.com/flowave-io/moshell/internal/history"
	"github.com/flowave-io/moshell/internal/monitor"
	"github.com/flowave-io/moshell/pkg/log"
)

// loadConfig reads and validates the config at path. Problems are logged and
// replaced by defaults; the shell always starts.
func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Warn("config:", err)
		return config.Default()
	}
	if err := cfg.Validate(); err != nil {
		log.Warn("config:", err)
		return config.Default()
	}
	return cfg
}

// RunShellCommand runs the interactive shell and returns the process exit code.
func RunShellCommand(args []string) int {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cfgPath := fs.String("config", config.DefaultPath, "Path to the HCL configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := loadConfig(*cfgPath)

	mode := NewTerminalMode(os.Stdin)
	reloadCh := make(chan struct{}, 1)
	var watcher *monitor.Watcher
	if p, err := homedir.Expand(*cfgPath); err == nil {
		if watcher, err = monitor.WatchFile(p, reloadCh); err != nil {
			log.Warn("config watch:", err)
		}
	}

	session := NewSession(*cfgPath, cfg, os.Stdin, os.Stdout, os.Stderr, mode, reloadCh)
	stopSignals := WatchSignals(session.Editor().Interrupt, mode, os.Exit)

	runErr := session.Run(context.Background())

	var result *multierror.Error
	stopSignals()
	if err := mode.Restore(); err != nil {
		result = multierror.Append(result, err)
	}
	if watcher != nil {
		if err := watcher.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		log.Warn("shutdown:", err)
	}
	if runErr != nil {
		log.Error(runErr)
		return 1
	}
	return 0
}

// RunHistoryCommand prints the retained history, optionally as JSON.
func RunHistoryCommand(args []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cfgPath := fs.String("config", config.DefaultPath, "Path to the HCL configuration file")
	asJSON := fs.Bool("json", false, "Print entries as a JSON array")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := loadConfig(*cfgPath)
	store := history.NewStore(cfg.History.File, cfg.History.MaxLines)
	entries, err := store.Entries()
	if err != nil {
		log.Error(err)
		return 1
	}

	if *asJSON {
		type entry struct {
			N       int    `json:"n"`
			Command string `json:"command"`
		}
		out := make([]entry, len(entries))
		for i, e := range entries {
			out[i] = entry{N: i + 1, Command: e}
		}
		b, err := jsonx.Marshal(out)
		if err != nil {
			log.Error(err)
			return 1
		}
		fmt.Println(string(b))
		return 0
	}
	for i, e := range entries {
		fmt.Printf("%5d  %s\n", i+1, e)
	}
	return 0
}

// PrintShellHelp describes the interactive shell.
func PrintShellHelp() {
	fmt.Print(`moshell shell: interactive shell with history suggestions

Reads commands one keystroke at a time. The first earlier command that starts
with what you have typed is shown in grey; press TAB to accept it. Left and
right arrows move the cursor, Backspace deletes, Ctrl+D on an empty line or
the exit builtin ends the session, and Ctrl+C asks for confirmation.

Options:
  -config path   HCL configuration file (default ~/.moshell.hcl)

The configuration file is reloaded automatically when it changes.
`)
}
