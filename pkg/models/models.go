package models

import "time"

// GameData represents one resolved game as reported to the caller
type GameData struct {
	URL          string    `json:"url"`
	Provider     string    `json:"provider,omitempty"`
	PGN          string    `json:"pgn,omitempty"`
	Error        string    `json:"error,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
	ResponseTime int64     `json:"response_time_ms"`
}

// OK reports whether the game was resolved
func (g *GameData) OK() bool {
	return g != nil && g.Error == "" && g.PGN != ""
}

// ResolveResult pairs a resolved game with the error that prevented it, if any
type ResolveResult struct {
	Data  *GameData
	Error error
}

// ResolveOptions contains options for resolving a single URL
type ResolveOptions struct {
	URL        string
	Timeout    time.Duration
	LineEnding string
}
