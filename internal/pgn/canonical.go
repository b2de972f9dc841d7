package pgn

import (
	"errors"
	"strings"
)

// ErrNotPGN is returned when text does not start with a header line.
var ErrNotPGN = errors.New("content is not a PGN game")

// CollapseBlankLines replaces runs of three or more newlines by exactly two.
func CollapseBlankLines(s string) string {
	for {
		n := strings.ReplaceAll(s, "\n\n\n", "\n\n")
		if len(n) == len(s) {
			return n
		}
		s = n
	}
}

// FirstGame keeps the text before the first blank line followed by a new
// header block.
func FirstGame(s string) string {
	if i := strings.Index(s, "\n\n["); i != -1 {
		return s[:i]
	}
	return s
}

// Canonicalize trims raw game text, checks that it starts with a header,
// normalizes blank lines, keeps the first game only and finally converts
// line endings to lineEnding. An empty lineEnding keeps "\n".
func Canonicalize(raw, lineEnding string) (string, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "[") {
		return "", ErrNotPGN
	}
	s = FirstGame(CollapseBlankLines(s))
	if lineEnding != "" && lineEnding != "\n" {
		s = strings.ReplaceAll(s, "\n", lineEnding)
	}
	return s, nil
}
