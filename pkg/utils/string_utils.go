// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"regexp"
	"strings"
)

var (
	ansiRegex    = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
	controlRegex = regexp.MustCompile(`[\x00-\x08\x0B-\x0C\x0E-\x1F]`)
)

// RemoveLineCleanChars removes ANSI escape codes and other terminal control
// characters from a string. This is useful for cleaning up the output of
// invoked tools (compilers, interpreters, configure scripts) before
// pattern matching on it.
func RemoveLineCleanChars(s string) string {
	s = ansiRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\r", "")
	return controlRegex.ReplaceAllString(s, "")
}

// FirstLine returns the first line of s with surrounding whitespace
// trimmed. Version banners from interpreters and compilers often carry
// trailing newlines or extra lines.
func FirstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
