package transport

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// DecodeBody turns raw bytes into normalized text. A declared charset is
// authoritative; otherwise UTF-8 is tried before Latin-1. The result has its
// byte order marks and carriage returns removed and is trimmed.
func DecodeBody(raw []byte, charset string) (string, error) {
	var text string
	switch {
	case charset != "":
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return "", fmt.Errorf("%w: unknown charset %q", ErrDecode, charset)
		}
		b, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrDecode, err)
		}
		text = string(b)
	case utf8.Valid(raw):
		text = string(raw)
	default:
		b, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrDecode, err)
		}
		text = string(b)
	}
	return Normalize(text), nil
}

// Normalize strips byte order marks and carriage returns, then trims.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\ufeff", "")
	text = strings.ReplaceAll(text, "\r", "")
	return strings.TrimSpace(text)
}
