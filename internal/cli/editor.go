package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/flowave-io/moshell/pkg/log"
)

const (
	keyEOT       = 4
	keyBS        = 8
	keyTab       = 9
	keyEnter     = '\n'
	keyEscape    = 27
	keyBackspace = 127
)

// Editor reads one line at a time from a terminal, offering the first
// matching history entry as a muted suggestion that Tab accepts.
// An Editor is not safe for concurrent or reentrant ReadLine calls.
type Editor struct {
	in      *bufio.Reader
	out     *lockedWriter
	r       *renderer
	history History
	mode    ModeController
	prompt  Prompt
	guard   *interruptGuard

	rawWarned     bool
	restoreWarned bool
}

type Option func(*Editor)

// WithHistory sets the store used for suggestions and for recording lines.
func WithHistory(h History) Option {
	return func(e *Editor) { e.history = h }
}

// WithModeController sets the terminal switched into raw mode while reading.
func WithModeController(m ModeController) Option {
	return func(e *Editor) { e.mode = m }
}

func WithPrompt(p Prompt) Option {
	return func(e *Editor) { e.prompt = p }
}

func NewEditor(in io.Reader, out io.Writer, opts ...Option) *Editor {
	lw := &lockedWriter{w: out}
	e := &Editor{
		in:     bufio.NewReader(in),
		out:    lw,
		r:      newRenderer(lw),
		prompt: PlainPrompt("> "),
		guard:  &interruptGuard{out: lw},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Editor) SetPrompt(p Prompt) { e.prompt = p }

// Interrupt delivers a Ctrl+C. It may be called from any goroutine.
func (e *Editor) Interrupt() { e.guard.notify() }

// ReadLine reads keystrokes until Enter and returns the typed line, which is
// also appended to history. At end of input on an empty line it returns
// io.EOF; a line that is submitted empty returns "" and a nil error.
func (e *Editor) ReadLine() (string, error) {
	e.enterRaw()
	defer e.restore()
	e.guard.reading.Store(true)
	defer e.guard.reading.Store(false)

	buf := newEditBuffer()
	var suggestion string
	var hasSuggestion bool
	e.redraw(buf, suggestion, hasSuggestion)

	for {
		c, err := e.in.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				_ = e.r.newline()
				return "", fmt.Errorf("read input: %w", err)
			}
			if buf.Len() == 0 {
				_ = e.r.newline()
				return "", io.EOF
			}
			return e.finish(buf), nil
		}

		if e.guard.takePending() {
			if c == 'y' || c == 'Y' {
				_ = e.r.newline()
				return "", ErrInterrupted
			}
			_ = e.r.newline()
			e.redraw(buf, suggestion, hasSuggestion)
			continue
		}

		switch {
		case c == keyBackspace || c == keyBS:
			buf.Backspace()
		case c == keyTab:
			if hasSuggestion && len(suggestion) >= buf.Len() {
				buf.Replace(suggestion)
			}
		case c == keyEnter:
			return e.finish(buf), nil
		case c == keyEOT:
			if buf.Len() == 0 {
				_ = e.r.newline()
				return "", io.EOF
			}
		case c == keyEscape:
			e.readEscape(buf)
		case c >= 0x20 && c <= 0x7e:
			buf.Insert(c)
		}

		suggestion, hasSuggestion = suggest(e.history, buf.Bytes())
		e.redraw(buf, suggestion, hasSuggestion)
	}
}

// finish clears the suggestion from screen, leaves raw mode and records the
// line before it is handed to the caller.
func (e *Editor) finish(buf *editBuffer) string {
	line := buf.String()
	_ = e.r.draw(e.prompt, buf.Bytes(), buf.Len(), "", false)
	_ = e.r.newline()
	e.restore()
	if e.history != nil {
		if err := e.history.Append(line); err != nil {
			log.Warn(err)
		}
	}
	return line
}

// readEscape consumes one escape sequence. Only the left and right cursor keys
// act; anything else, including truncated or malformed sequences, is dropped
// without touching the buffer.
func (e *Editor) readEscape(buf *editBuffer) {
	c, err := e.in.ReadByte()
	if err != nil {
		return
	}
	switch c {
	case '[':
		params := 0
		for {
			f, err := e.in.ReadByte()
			if err != nil {
				return
			}
			switch {
			case f >= 0x40 && f <= 0x7e:
				if params == 0 {
					cursorKey(buf, f)
				}
				return
			case f >= 0x20 && f <= 0x3f:
				params++
			default:
				return
			}
		}
	case 'O':
		if f, err := e.in.ReadByte(); err == nil {
			cursorKey(buf, f)
		}
	}
}

func cursorKey(buf *editBuffer, final byte) {
	switch final {
	case 'C':
		buf.Right()
	case 'D':
		buf.Left()
	}
}

func (e *Editor) redraw(buf *editBuffer, suggestion string, ok bool) {
	_ = e.r.draw(e.prompt, buf.Bytes(), buf.Cursor(), suggestion, ok)
}

func (e *Editor) enterRaw() {
	if e.mode == nil {
		return
	}
	if err := e.mode.EnterRaw(); err != nil && !errors.Is(err, ErrNotTerminal) && !e.rawWarned {
		e.rawWarned = true
		log.Warn(err)
	}
}

func (e *Editor) restore() {
	if e.mode == nil {
		return
	}
	if err := e.mode.Restore(); err != nil && !e.restoreWarned {
		e.restoreWarned = true
		log.Warn(err)
	}
}
