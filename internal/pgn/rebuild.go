package pgn

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMoves is returned when a record carries no move text.
var ErrNoMoves = errors.New("game record has no moves")

// Rebuild renders a record as PGN text.
//
// Every non-reserved tag with a non-empty value becomes a header line in
// insertion order. When no header survives, an Annotator tag naming the
// agent is written instead so the output still starts with '['.
func Rebuild(rec *Record, annotator string) (string, error) {
	if rec == nil || rec.Get(KeyMoves) == "" {
		return "", ErrNoMoves
	}

	var b strings.Builder
	for _, tag := range rec.Tags() {
		if v := rec.Get(tag); v != "" {
			fmt.Fprintf(&b, "[%s \"%s\"]\n", tag, v)
		}
	}
	if b.Len() == 0 {
		fmt.Fprintf(&b, "[Annotator \"%s\"]\n", annotator)
	}
	b.WriteString("\n")

	if rec.Has(KeyURL) {
		fmt.Fprintf(&b, "{%s}\n", rec.Get(KeyURL))
	}
	b.WriteString(rec.Get(KeyMoves))
	b.WriteString(" ")
	if rec.Has(KeyReason) {
		fmt.Fprintf(&b, "{%s} ", rec.Get(KeyReason))
	}
	if rec.Has("Result") {
		b.WriteString(rec.Get("Result"))
		b.WriteString(" ")
	}
	return strings.TrimSpace(b.String()), nil
}
