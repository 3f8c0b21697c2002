package shell

import "strings"

const tokenDelimiters = " \t\r\n\a"

// SplitLine breaks a command line into arguments on blanks. There is no
// quoting or escaping.
func SplitLine(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return strings.ContainsRune(tokenDelimiters, r)
	})
}
