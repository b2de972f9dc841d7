package extract

import "strings"

// ExtractBalanced locates marker in text and returns the brace-balanced
// object that starts at the first '{' following it, braces included.
//
// Braces are counted without regard to string literals, so an unbalanced
// brace inside a quoted value breaks the extraction.
func ExtractBalanced(text, marker string) (string, bool) {
	pos := strings.Index(text, marker)
	if pos == -1 {
		return "", false
	}
	open := strings.IndexByte(text[pos+len(marker):], '{')
	if open == -1 {
		return "", false
	}
	return BalancedAt(text, pos+len(marker)+open)
}

// BalancedAt returns the brace-balanced object starting at text[open].
func BalancedAt(text string, open int) (string, bool) {
	if open < 0 || open >= len(text) || text[open] != '{' {
		return "", false
	}
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[open : i+1], true
			}
		}
	}
	return "", false
}

// Between returns the text enclosed by the first occurrence of left and the
// next occurrence of right after it.
func Between(text, left, right string) (string, bool) {
	pos := strings.Index(text, left)
	if pos == -1 {
		return "", false
	}
	start := pos + len(left)
	end := strings.Index(text[start:], right)
	if end == -1 {
		return "", false
	}
	return text[start : start+end], true
}

// Quoted returns the text between the first pair of quote characters found
// after marker.
func Quoted(text, marker string, quote byte) (string, bool) {
	pos := strings.Index(text, marker)
	if pos == -1 {
		return "", false
	}
	q1 := strings.IndexByte(text[pos:], quote)
	if q1 == -1 {
		return "", false
	}
	q1 += pos
	q2 := strings.IndexByte(text[q1+1:], quote)
	if q2 == -1 {
		return "", false
	}
	return text[q1+1 : q1+1+q2], true
}
