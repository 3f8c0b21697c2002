package cli

import "errors"

// ErrNotTerminal is returned by EnterRaw when the input is not a terminal.
// The editor keeps working without raw mode in that case.
var ErrNotTerminal = errors.New("not a terminal")

// ModeController switches the terminal between cooked and raw input.
type ModeController interface {
	EnterRaw() error
	Restore() error
}
