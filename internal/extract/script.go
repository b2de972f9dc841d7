package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// ErrNotStringLiteral is returned when a script fragment does not evaluate
// to a string.
var ErrNotStringLiteral = errors.New("not a string literal")

// JSString evaluates a single JavaScript string literal (quotes included)
// and returns its value with every escape sequence resolved.
func JSString(literal string) (string, error) {
	literal = strings.TrimSpace(literal)
	if len(literal) < 2 {
		return "", ErrNotStringLiteral
	}
	q := literal[0]
	if (q != '"' && q != '\'' && q != '`') || literal[len(literal)-1] != q {
		return "", ErrNotStringLiteral
	}

	vm := goja.New()
	v, err := vm.RunString("(" + literal + ")")
	if err != nil {
		return "", fmt.Errorf("evaluate literal: %w", err)
	}
	s, ok := v.Export().(string)
	if !ok {
		return "", ErrNotStringLiteral
	}
	return s, nil
}

// StringLiteralAt returns the string literal opened by the quote at
// text[start], quotes included. Escaped quotes do not close it.
func StringLiteralAt(text string, start int) (string, bool) {
	if start < 0 || start >= len(text) {
		return "", false
	}
	q := text[start]
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case q:
			return text[start : i+1], true
		}
	}
	return "", false
}

// Variables reads simple "name = value" assignments out of a script split
// on ';'. For each wanted name, quoted values are taken between the first
// pair of single quotes; other values are taken after '=' and kept only
// when they are neither empty nor "0". The last assignment wins.
func Variables(script string, wanted map[string]bool) map[string]string {
	out := make(map[string]string, len(wanted))
	for _, stmt := range strings.Split(script, ";") {
		for name, quoted := range wanted {
			pos := strings.Index(stmt, name)
			if pos == -1 {
				continue
			}
			rest := stmt[pos+1:]
			if quoted {
				q1 := strings.IndexByte(rest, '\'')
				if q1 == -1 {
					continue
				}
				q2 := strings.IndexByte(rest[q1+1:], '\'')
				if q2 != -1 {
					out[name] = rest[q1+1 : q1+1+q2]
				}
				continue
			}
			eq := strings.IndexByte(rest, '=')
			if eq == -1 {
				continue
			}
			if txt := strings.TrimSpace(rest[eq+1:]); txt != "" && txt != "0" {
				out[name] = txt
			}
		}
	}
	return out
}
