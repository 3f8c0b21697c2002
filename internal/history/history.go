// Package history persists entered commands in a flat, line-oriented file and
// answers prefix queries against it. The file is reopened on every call; no
// entries are cached between calls.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/go-safetemp"

	"github.com/flowave-io/moshell/pkg/log"
)

// DefaultMaxLines is the number of entries kept after every write.
const DefaultMaxLines = 300

// MaxEntryLen caps a stored command. Longer lines already in the file are
// skipped when reading.
const MaxEntryLen = 1 << 20

// ErrEntryTooLong is returned by Append for commands over MaxEntryLen.
var ErrEntryTooLong = errors.New("entry too long")

// Store is a history file capped at MaxLines entries, oldest first.
type Store struct {
	path     string
	maxLines int

	// warned suppresses repeated read failures; lookups run on every keystroke.
	warnMu sync.Mutex
	warned bool
}

// NewStore returns a store backed by path. A non-positive maxLines selects
// DefaultMaxLines.
func NewStore(path string, maxLines int) *Store {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}
	return &Store{path: path, maxLines: maxLines}
}

func (s *Store) Path() string  { return s.path }
func (s *Store) MaxLines() int { return s.maxLines }

// Append records command as the newest entry. Blank commands are ignored.
// The file is rewritten whole; a missing file counts as empty history.
func (s *Store) Append(command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil
	}
	if len(command) > MaxEntryLen {
		return fmt.Errorf("history entry of %d bytes: %w", len(command), ErrEntryTooLong)
	}
	lines, err := s.read(2 * s.maxLines)
	if err != nil {
		return err
	}
	if len(lines) == 2*s.maxLines {
		lines = lines[1:]
	}
	lines = append(lines, command)
	lines = trim(lines, s.maxLines)
	return s.rewrite(lines)
}

// FindPrefixMatch returns the first entry, in file order, that starts with
// prefix. An empty prefix never matches.
func (s *Store) FindPrefixMatch(prefix string) (string, bool) {
	if prefix == "" {
		return "", false
	}
	f, err := os.Open(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.warnOnce(fmt.Errorf("open history: %w", err))
		}
		return "", false
	}
	defer f.Close()

	var match string
	found := false
	err = eachEntry(f, func(line string) bool {
		if strings.HasPrefix(line, prefix) {
			match, found = line, true
			return false
		}
		return true
	})
	if err != nil {
		s.warnOnce(fmt.Errorf("read history: %w", err))
	}
	return match, found
}

// Entries returns the retained entries, oldest first.
func (s *Store) Entries() ([]string, error) {
	lines, err := s.read(2 * s.maxLines)
	if err != nil {
		return nil, err
	}
	return trim(lines, s.maxLines), nil
}

// read loads at most limit entries from the top of the file.
func (s *Store) read(limit int) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	lines := make([]string, 0, s.maxLines+1)
	err = eachEntry(f, func(line string) bool {
		lines = append(lines, line)
		return len(lines) < limit
	})
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return lines, nil
}

// rewrite replaces the history file with lines. The new content is written in
// a private directory beside the file and renamed over it. A symlinked history
// file stays a symlink, and an existing file keeps its permissions.
func (s *Store) rewrite(lines []string) error {
	target, perm, err := resolveTarget(s.path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmpDir, cleanup, err := safetemp.Dir(dir, ".moshell-history-")
	if err != nil {
		return fmt.Errorf("history temp dir: %w", err)
	}
	defer func() { _ = cleanup.Close() }()
	// safetemp names a path inside its directory but does not create it
	if err := os.Mkdir(tmpDir, 0o700); err != nil {
		return fmt.Errorf("history temp dir: %w", err)
	}

	tmp := filepath.Join(tmpDir, filepath.Base(target))
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := writeLines(f, lines); err != nil {
		f.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := f.Chmod(perm); err != nil {
		f.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("finalize history: %w", err)
	}
	return nil
}

// resolveTarget follows symlinks at path and returns the file to replace and
// the permissions it should end up with. A new file gets 0600.
func resolveTarget(path string) (string, fs.FileMode, error) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", 0, fmt.Errorf("resolve history path: %w", err)
		}
		// a dangling link is written through to where it points
		if dest, lerr := os.Readlink(path); lerr == nil {
			if !filepath.IsAbs(dest) {
				dest = filepath.Join(filepath.Dir(path), dest)
			}
			return dest, 0o600, nil
		}
		return path, 0o600, nil
	}
	fi, err := os.Stat(target)
	if err != nil {
		return "", 0, fmt.Errorf("stat history: %w", err)
	}
	return target, fi.Mode().Perm(), nil
}

func (s *Store) warnOnce(err error) {
	s.warnMu.Lock()
	defer s.warnMu.Unlock()
	if s.warned {
		return
	}
	s.warned = true
	log.Warn(err)
}

// trim drops the oldest entries so at most max remain.
func trim(lines []string, max int) []string {
	if len(lines) <= max {
		return lines
	}
	return lines[len(lines)-max:]
}

func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, ln := range lines {
		if _, err := bw.WriteString(ln); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// eachEntry calls fn with every non-blank, trimmed line of r until fn returns
// false. Lines longer than MaxEntryLen are skipped whole.
func eachEntry(r io.Reader, fn func(line string) bool) error {
	br := bufio.NewReader(r)
	var cur []byte
	tooLong := false
	for {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !tooLong {
			cur = append(cur, frag...)
			if len(cur) > MaxEntryLen {
				tooLong, cur = true, cur[:0]
			}
		}
		if isPrefix {
			continue
		}
		if !tooLong {
			if line := strings.TrimSpace(string(cur)); line != "" && !fn(line) {
				return nil
			}
		}
		cur, tooLong = cur[:0], false
	}
}
