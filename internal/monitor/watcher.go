package monitor

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/flowave-io/moshell/pkg/log"
)

const debounce = 75 * time.Millisecond

// Watcher signals a channel whenever one file changes. Bursts of events
// (editors writing through a temp file and rename) collapse into one signal.
type Watcher struct {
	w    *fsnotify.Watcher
	done chan struct{}
}

// WatchFile watches path. The parent directory is watched so that a file
// replaced by rename, or created later, is still seen. notify is sent to
// without blocking; a full channel drops the signal.
func WatchFile(path string, notify chan<- struct{}) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	fw := &Watcher{w: w, done: make(chan struct{})}
	go fw.loop(abs, notify)
	return fw, nil
}

func (fw *Watcher) loop(target string, notify chan<- struct{}) {
	defer close(fw.done)
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				timer.Stop()
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			select {
			case notify <- struct{}{}:
			default:
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				timer.Stop()
				return
			}
			log.Warn("[watch] error:", err)
		}
	}
}

// Close stops watching and waits for the event loop to exit.
func (fw *Watcher) Close() error {
	err := fw.w.Close()
	<-fw.done
	return err
}
