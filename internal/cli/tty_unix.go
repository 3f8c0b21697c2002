//go:build darwin || linux

package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// TerminalMode owns the attribute snapshot of one terminal. The snapshot is
// taken on the first EnterRaw and reapplied by every Restore.
type TerminalMode struct {
	fd int

	mu    sync.Mutex
	saved *unix.Termios
}

// NewTerminalMode controls the terminal behind f, usually os.Stdin.
func NewTerminalMode(f *os.File) *TerminalMode {
	return &TerminalMode{fd: int(f.Fd())}
}

// EnterRaw turns off line buffering and echo and makes reads return as soon
// as one byte is available. Signal generation (Ctrl+C) stays enabled.
func (m *TerminalMode) EnterRaw() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !isatty.IsTerminal(uintptr(m.fd)) {
		return ErrNotTerminal
	}
	if m.saved == nil {
		st, err := unix.IoctlGetTermios(m.fd, ioctlGetTermios)
		if err != nil {
			return fmt.Errorf("get terminal attributes: %w", err)
		}
		m.saved = st
	}
	raw := *m.saved
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(m.fd, ioctlSetTermios, &raw); err != nil {
		return fmt.Errorf("set raw mode: %w", err)
	}
	return nil
}

// Restore reapplies the snapshot. It is a no-op before the first EnterRaw and
// safe to call any number of times, from any goroutine.
func (m *TerminalMode) Restore() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saved == nil {
		return nil
	}
	if err := unix.IoctlSetTermios(m.fd, ioctlSetTermios, m.saved); err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}
