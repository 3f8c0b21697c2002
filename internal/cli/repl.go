package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/flowave-io/moshell/internal/config"
	"github.com/flowave-io/moshell/internal/history"
	"github.com/flowave-io/moshell/internal/shell"
	"github.com/flowave-io/moshell/pkg/log"
)

// Session ties the editor, the history store and the command runner together
// for one interactive run.
type Session struct {
	cfgPath string
	cfg     *config.Config
	store   *history.Store

	editor *Editor
	sh     *shell.Shell
	reload <-chan struct{}

	// cwd and user feed the prompt; replaced in tests.
	cwd  func() (string, error)
	user string
}

// NewSession builds a session over in/out. mode may be nil when in is not a
// terminal. reload, if non-nil, triggers a config reload before the next
// prompt.
func NewSession(cfgPath string, cfg *config.Config, in io.Reader, out, errw io.Writer, mode ModeController, reload <-chan struct{}) *Session {
	s := &Session{
		cfgPath: cfgPath,
		cfg:     cfg,
		store:   history.NewStore(cfg.History.File, cfg.History.MaxLines),
		reload:  reload,
		cwd:     os.Getwd,
		user:    os.Getenv("USER"),
	}
	h := sessionHistory{s}
	opts := []Option{WithHistory(h)}
	if mode != nil {
		opts = append(opts, WithModeController(mode))
	}
	s.editor = NewEditor(in, out, opts...)
	s.sh = shell.New(in, out, errw, shell.WithHistory(h))
	return s
}

func (s *Session) Editor() *Editor { return s.editor }

// Run loops prompt, read, execute. It returns nil when the user ends the
// session with end of input, the exit builtin, or a confirmed interrupt.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-s.reload:
			s.reloadConfig()
		default:
		}

		s.editor.SetPrompt(s.prompt())
		line, err := s.editor.ReadLine()
		if errors.Is(err, io.EOF) || errors.Is(err, ErrInterrupted) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.sh.Execute(ctx, shell.SplitLine(line)); errors.Is(err, shell.ErrExit) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (s *Session) prompt() Prompt {
	symbol := " " + s.cfg.Prompt.Symbol + " "
	cwd, err := s.cwd()
	if err != nil {
		return PlainPrompt(s.cfg.Prompt.Symbol + " ")
	}
	path := shell.ShortenPath(cwd, shell.HomeDir(s.user), s.cfg.Prompt.MaxPath)
	return StyledPrompt(s.cfg.PathStyle(), path, symbol)
}

// reloadConfig swaps in a changed config file. An invalid file keeps the
// running configuration.
func (s *Session) reloadConfig() {
	cfg, err := config.Load(s.cfgPath)
	if err != nil {
		log.Warn("config reload:", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Warn("config reload:", err)
		return
	}
	s.cfg = cfg
	if cfg.History.File != s.store.Path() || cfg.History.MaxLines != s.store.MaxLines() {
		s.store = history.NewStore(cfg.History.File, cfg.History.MaxLines)
	}
	log.Info("config reloaded from", s.cfgPath)
}

// sessionHistory follows the session's current store across reloads.
type sessionHistory struct{ s *Session }

func (h sessionHistory) FindPrefixMatch(prefix string) (string, bool) {
	return h.s.store.FindPrefixMatch(prefix)
}

func (h sessionHistory) Append(command string) error { return h.s.store.Append(command) }

func (h sessionHistory) Entries() ([]string, error) { return h.s.store.Entries() }
