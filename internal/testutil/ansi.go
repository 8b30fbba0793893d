// Package testutil holds helpers shared by the test suites.
package testutil

import "regexp"

// ansiPattern matches CSI escape sequences such as the color codes of the
// ui themes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes terminal escape sequences so colored output can be
// compared as plain text.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// HasANSI reports whether s contains a terminal escape sequence.
func HasANSI(s string) bool {
	return ansiPattern.MatchString(s)
}
