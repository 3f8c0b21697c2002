package cli

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const (
	ansiClearLine = "\x1b[K"
)

// Prompt is the text drawn before the buffer. Width is the number of columns
// it occupies on screen, which differs from len(Text) when Text carries ANSI
// styling.
type Prompt struct {
	Text  string
	Width int
}

// PlainPrompt builds a Prompt from unstyled text.
func PlainPrompt(s string) Prompt {
	return Prompt{Text: s, Width: runewidth.StringWidth(s)}
}

// StyledPrompt renders plain with c and keeps the width of the plain text.
func StyledPrompt(c *color.Color, plain, suffix string) Prompt {
	return Prompt{
		Text:  c.Sprint(plain) + suffix,
		Width: runewidth.StringWidth(plain + suffix),
	}
}

// renderer redraws the prompt line. Each call writes the full line, so two
// calls with the same input leave the terminal in the same state.
type renderer struct {
	w     *bufio.Writer
	muted *color.Color
}

func newRenderer(out io.Writer) *renderer {
	muted := color.New(color.FgHiBlack)
	muted.EnableColor()
	return &renderer{w: bufio.NewWriter(out), muted: muted}
}

// draw repaints prompt, buffer and the advisory suggestion tail, then places
// the terminal cursor over the buffer cursor.
func (r *renderer) draw(p Prompt, buf []byte, cursor int, suggestion string, hasSuggestion bool) error {
	r.w.WriteString("\r")
	r.w.WriteString(ansiClearLine)
	r.w.WriteString(p.Text)
	r.w.Write(buf)
	if hasSuggestion {
		if tail, ok := suggestionTail(buf, suggestion); ok {
			r.w.WriteString(r.muted.Sprint(tail))
		}
	}
	r.w.WriteString("\r")
	if col := cursor + p.Width; col > 0 {
		r.w.WriteString("\x1b[" + strconv.Itoa(col) + "C")
	}
	return r.w.Flush()
}

// newline ends the current line on screen.
func (r *renderer) newline() error {
	r.w.WriteString("\n")
	return r.w.Flush()
}

// suggestionTail is the part of suggestion past buf, when buf is a strict
// prefix of it.
func suggestionTail(buf []byte, suggestion string) (string, bool) {
	if len(suggestion) <= len(buf) || !strings.HasPrefix(suggestion, string(buf)) {
		return "", false
	}
	return suggestion[len(buf):], true
}
