package shell

import (
	"strings"
)

// DefaultMaxPath is the longest working directory shown unabbreviated.
const DefaultMaxPath = 30

// HomeDir is the home directory prompts abbreviate to "~" for user.
func HomeDir(user string) string {
	if user == "" {
		user = "user"
	}
	return "/home/" + user
}

// ShortenPath abbreviates path for the prompt. A path under home is shown
// relative to "~". A path longer than maxLen keeps its last component and
// cuts every other component to its first byte.
func ShortenPath(path, home string, maxLen int) string {
	rel, underHome := path, false
	if home != "" && (path == home || strings.HasPrefix(path, home+"/")) {
		rel, underHome = path[len(home):], true
	}

	if len(path) <= maxLen {
		if underHome {
			return "~" + rel
		}
		return path
	}

	parts := strings.FieldsFunc(rel, func(r rune) bool { return r == '/' })
	var b strings.Builder
	if underHome {
		b.WriteByte('~')
	}
	for i, p := range parts {
		b.WriteByte('/')
		if i == len(parts)-1 {
			b.WriteString(p)
		} else {
			b.WriteString(p[:1])
		}
	}
	return b.String()
}
