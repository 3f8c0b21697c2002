package cli

// PrefixMatcher finds a stored command starting with a given prefix.
type PrefixMatcher interface {
	FindPrefixMatch(prefix string) (string, bool)
}

// History is what the editor needs from the history store.
type History interface {
	PrefixMatcher
	Append(command string) error
}

// suggest returns the history entry to offer for the current buffer, if any.
func suggest(m PrefixMatcher, buf []byte) (string, bool) {
	if m == nil || len(buf) == 0 {
		return "", false
	}
	return m.FindPrefixMatch(string(buf))
}
