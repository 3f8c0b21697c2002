package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T, maxLines int) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "MOshell.history"), maxLines)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestAppend_ToExistingFile(t *testing.T) {
	s := newTestStore(t, 300)
	if err := os.WriteFile(s.Path(), []byte("a\nb\nc\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("d"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := readFile(t, s.Path()); got != "a\nb\nc\nd\n" {
		t.Fatalf("got %q", got)
	}
}

func TestAppend_CreatesMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "hist"), 10)
	if err := s.Append("ls -la"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := readFile(t, s.Path()); got != "ls -la\n" {
		t.Fatalf("got %q", got)
	}
	// the temporary rewrite directory must not be left behind
	ents, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 1 {
		t.Fatalf("expected only the history file, found %d entries", len(ents))
	}
}

func TestAppend_BlankIsNoop(t *testing.T) {
	s := newTestStore(t, 300)
	if err := os.WriteFile(s.Path(), []byte("pwd\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	for _, in := range []string{"", "   ", "\t\n"} {
		if err := s.Append(in); err != nil {
			t.Fatalf("append %q: %v", in, err)
		}
	}
	if got := readFile(t, s.Path()); got != "pwd\n" {
		t.Fatalf("store changed: %q", got)
	}

	empty := newTestStore(t, 300)
	if err := empty.Append("  "); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(empty.Path()); !os.IsNotExist(err) {
		t.Fatalf("blank append should not create the file, stat err=%v", err)
	}
}

func TestAppend_KeepsMostRecentMaxLines(t *testing.T) {
	const maxLines, extra = 5, 3
	s := newTestStore(t, maxLines)
	var appended []string
	for i := 0; i < maxLines+extra; i++ {
		cmd := fmt.Sprintf("echo %d", i)
		appended = append(appended, cmd)
		if err := s.Append(cmd); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	got, err := s.Entries()
	if err != nil {
		t.Fatal(err)
	}
	want := appended[extra:]
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %v want %v", got, want)
	}
	if lines := strings.Count(readFile(t, s.Path()), "\n"); lines != maxLines {
		t.Fatalf("file has %d lines, want %d", lines, maxLines)
	}
}

func TestAppend_TrimsOversizedFile(t *testing.T) {
	const maxLines = 3
	s := newTestStore(t, maxLines)
	// Externally edited file with more than 2x max entries: only the first
	// 2x max are read back, then the oldest are dropped.
	var b strings.Builder
	for i := 0; i < 2*maxLines+4; i++ {
		fmt.Fprintf(&b, "cmd%d\n", i)
	}
	if err := os.WriteFile(s.Path(), []byte(b.String()), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("new"); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, s.Path()); got != "cmd4\ncmd5\nnew\n" {
		t.Fatalf("got %q", got)
	}
}

func TestAppend_CleansStoredEntries(t *testing.T) {
	s := newTestStore(t, 300)
	if err := os.WriteFile(s.Path(), []byte("  ls\r\n\n\ncd /tmp  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := s.Append("pwd"); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, s.Path()); got != "ls\ncd /tmp\npwd\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFindPrefixMatch(t *testing.T) {
	s := newTestStore(t, 300)
	if _, ok := s.FindPrefixMatch("ls"); ok {
		t.Fatalf("missing store should not match")
	}
	if err := os.WriteFile(s.Path(), []byte("ls -la\nls -l\npwd\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		prefix string
		want   string
		ok     bool
	}{
		{"ls", "ls -la", true},
		{"ls -l", "ls -la", true},
		{"p", "pwd", true},
		{"pwd", "pwd", true},
		{"LS", "", false},
		{"cd", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := s.FindPrefixMatch(tt.prefix)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("FindPrefixMatch(%q) = %q, %v; want %q, %v", tt.prefix, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFindPrefixMatch_FirstNotMostRecent(t *testing.T) {
	s := newTestStore(t, 300)
	for _, c := range []string{"git status", "git stash", "git stage"} {
		if err := s.Append(c); err != nil {
			t.Fatal(err)
		}
	}
	if got, _ := s.FindPrefixMatch("git st"); got != "git status" {
		t.Fatalf("expected oldest match, got %q", got)
	}
}

func TestNewStore_DefaultMaxLines(t *testing.T) {
	if s := NewStore("x", 0); s.MaxLines() != DefaultMaxLines {
		t.Fatalf("got %d", s.MaxLines())
	}
}

func TestAppend_WritesThroughOnFreshDir(t *testing.T) {
	s := newTestStore(t, 300)
	for _, c := range []string{"ls -la", "pwd"} {
		if err := s.Append(c); err != nil {
			t.Fatalf("append %q: %v", c, err)
		}
	}
	fi, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("history file missing: %v", err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Fatalf("mode %v, want 0600", fi.Mode().Perm())
	}
	if got, ok := s.FindPrefixMatch("ls"); !ok || got != "ls -la" {
		t.Fatalf("FindPrefixMatch(ls) = %q, %v", got, ok)
	}
}

func TestAppend_RejectsOversizedEntry(t *testing.T) {
	s := newTestStore(t, 300)
	if err := s.Append("ls -la"); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(strings.Repeat("x", MaxEntryLen+10)); !errors.Is(err, ErrEntryTooLong) {
		t.Fatalf("got %v, want ErrEntryTooLong", err)
	}
	if err := s.Append("pwd"); err != nil {
		t.Fatalf("append after rejected entry: %v", err)
	}
	if got := readFile(t, s.Path()); got != "ls -la\npwd\n" {
		t.Fatalf("got %q", got)
	}
}

func TestStore_SkipsOversizedLinesInFile(t *testing.T) {
	s := newTestStore(t, 300)
	body := "ls -la\n" + strings.Repeat("y", MaxEntryLen+10) + "\npwd\n"
	if err := os.WriteFile(s.Path(), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	if got, ok := s.FindPrefixMatch("pw"); !ok || got != "pwd" {
		t.Fatalf("FindPrefixMatch(pw) = %q, %v", got, ok)
	}
	if err := s.Append("cd /tmp"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := readFile(t, s.Path()); got != "ls -la\npwd\ncd /tmp\n" {
		t.Fatalf("got %q", got)
	}
}

func TestAppend_KeepsSymlinkAndMode(t *testing.T) {
	dir := t.TempDir()
	realPath := filepath.Join(dir, "real.history")
	if err := os.WriteFile(realPath, []byte("a\n"), 0o640); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(realPath, 0o640); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link.history")
	if err := os.Symlink("real.history", link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	s := NewStore(link, 300)
	if err := s.Append("b"); err != nil {
		t.Fatalf("append: %v", err)
	}
	fi, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("history symlink replaced by a regular file")
	}
	if got := readFile(t, realPath); got != "a\nb\n" {
		t.Fatalf("got %q", got)
	}
	rfi, err := os.Stat(realPath)
	if err != nil {
		t.Fatal(err)
	}
	if rfi.Mode().Perm() != 0o640 {
		t.Fatalf("mode %v, want 0640", rfi.Mode().Perm())
	}
}
