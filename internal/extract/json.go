// Package extract pulls structured data out of JSON documents, HTML pages
// and inline scripts.
package extract

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/titanous/json5"
)

// ErrEmptyDocument is returned when there is nothing to decode.
var ErrEmptyDocument = errors.New("empty document")

// Decode parses a strict JSON document. Numbers are kept as json.Number so
// that identifiers and ratings render exactly as published.
func Decode(data string) (any, error) {
	if strings.TrimSpace(data) == "" {
		return nil, ErrEmptyDocument
	}
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeLoose parses a JSON document and falls back to JSON5 for object
// literals lifted out of scripts (single quotes, trailing commas, bare keys).
func DecodeLoose(data string) (any, error) {
	v, err := Decode(data)
	if err == nil || errors.Is(err, ErrEmptyDocument) {
		return v, err
	}
	var loose any
	if err5 := json5.Unmarshal([]byte(data), &loose); err5 != nil {
		return nil, err
	}
	return loose, nil
}

// Path walks a decoded document along a slash separated list of keys.
// Array steps take decimal indices. A missing step or a null value yields
// the empty string, which callers treat as "absent".
func Path(data any, path string) any {
	if data == nil {
		return ""
	}
	value := data
	for _, key := range strings.Split(path, "/") {
		switch node := value.(type) {
		case map[string]any:
			next, ok := node[key]
			if !ok {
				return ""
			}
			value = next
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return ""
			}
			value = node[i]
		default:
			return ""
		}
		if value == nil {
			return ""
		}
	}
	return value
}

// String returns the scalar found at path rendered as text, or "".
func String(data any, path string) string {
	return Text(Path(data, path))
}

// Text renders a decoded scalar as text. Composite values render as "".
func Text(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// List returns the array found at path, or nil.
func List(data any, path string) []any {
	if l, ok := Path(data, path).([]any); ok {
		return l
	}
	return nil
}

// Map returns the object found at path, or nil.
func Map(data any, path string) map[string]any {
	if m, ok := Path(data, path).(map[string]any); ok {
		return m
	}
	return nil
}

// Absent reports whether v is the absence sentinel returned by Path.
func Absent(v any) bool {
	s, ok := v.(string)
	return ok && s == ""
}

// Int reads the integer at path. The boolean is false when the value is
// absent or not integral.
func Int(data any, path string) (int, bool) {
	switch n := Path(data, path).(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
