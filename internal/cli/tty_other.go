//go:build !darwin && !linux

package cli

import "os"

// TerminalMode on platforms without termios support never enters raw mode.
type TerminalMode struct{}

func NewTerminalMode(_ *os.File) *TerminalMode { return &TerminalMode{} }

func (m *TerminalMode) EnterRaw() error { return ErrNotTerminal }
func (m *TerminalMode) Restore() error  { return nil }
