package cli

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/flowave-io/moshell/pkg/log"
)

// ErrInterrupted is returned by ReadLine when the user answered yes to the
// exit confirmation shown after Ctrl+C.
var ErrInterrupted = errors.New("interrupted")

const confirmExitPrompt = "\r\nAre you sure you want to exit (Y/N)? "

// lockedWriter serializes output from the renderer and the signal goroutine.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// interruptGuard is the only state shared between the signal goroutine and the
// editor loop. The goroutine never touches the edit buffer: it prints the
// confirmation and marks an answer as expected; the editor reads the answer as
// its next byte.
type interruptGuard struct {
	out     io.Writer
	reading atomic.Bool
	pending atomic.Bool
}

// notify handles one SIGINT. Outside ReadLine the signal belongs to the
// foreground child and is ignored here.
func (g *interruptGuard) notify() {
	if !g.reading.Load() {
		return
	}
	if g.pending.Swap(true) {
		return
	}
	_, _ = io.WriteString(g.out, confirmExitPrompt)
}

func (g *interruptGuard) takePending() bool {
	return g.pending.Swap(false)
}

// WatchSignals routes SIGINT to onInterrupt and, on SIGTERM, SIGHUP or
// SIGQUIT, restores the terminal before calling exit with 128+signal.
// The returned func stops watching.
func WatchSignals(onInterrupt func(), mode ModeController, exit func(code int)) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-ch:
				if sig == os.Interrupt {
					onInterrupt()
					continue
				}
				if mode != nil {
					if err := mode.Restore(); err != nil {
						log.Warn(err)
					}
				}
				code := 128
				if s, ok := sig.(syscall.Signal); ok {
					code += int(s)
				}
				exit(code)
				return
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
