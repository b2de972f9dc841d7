// Package pgn assembles and normalizes portable game notation text.
package pgn

import "strings"

// Reserved pseudo-fields. They never become header lines.
const (
	KeyURL    = "_url"
	KeyMoves  = "_moves"
	KeyReason = "_reason"
)

// Standard values shared by the providers
const (
	// Chess960 is the Variant value written for shuffled start positions.
	Chess960 = "Fischerandom"
	// DefaultBoard is the FEN of the standard starting position.
	DefaultBoard = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Record is an ordered tag/value mapping used as an intermediate game
// representation. Header order follows first insertion.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord returns an empty record
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set stores a value, keeping the original position of an existing key
func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value of a key, or "" when absent
func (r *Record) Get(key string) string {
	return r.values[key]
}

// Has reports whether the key was ever set
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Delete removes a key
func (r *Record) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Tags returns the header keys, skipping reserved pseudo-fields
func (r *Record) Tags() []string {
	var out []string
	for _, k := range r.keys {
		if !IsReserved(k) {
			out = append(out, k)
		}
	}
	return out
}

// IsReserved reports whether a key is a pseudo-field
func IsReserved(key string) bool {
	return strings.HasPrefix(key, "_")
}
