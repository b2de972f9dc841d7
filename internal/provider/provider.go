// Package provider recognizes game URLs of chess sites and downloads the
// games they point to.
package provider

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/law-makers/pgnfetch/internal/pgn"
	"github.com/law-makers/pgnfetch/internal/transport"
)

// Provider is implemented by every supported site
type Provider interface {
	// Name is a short stable identifier
	Name() string
	// Description is the human readable "Site -- technique" label
	Description() string
	// Recognize inspects url and returns a match token when the provider
	// handles it
	Recognize(rawURL string) (*Match, bool)
	// Fetch downloads the game designated by m. The text returned is raw
	// PGN that still has to be canonicalized.
	Fetch(ctx context.Context, m *Match) (string, error)
}

// Kind tells what a matched URL designates
type Kind string

const (
	KindGame   Kind = "game"
	KindStudy  Kind = "study"
	KindPuzzle Kind = "puzzle"
	KindEvent  Kind = "event"
	KindPage   Kind = "page"
)

// Match is the immutable result of a successful recognition
type Match struct {
	URL  string
	ID   string
	Kind Kind
	// TLD holds the host variant when a site answers on several domains
	TLD string
	// Analysis requests the computer annotated variant when available
	Analysis bool
}

// Techniques used in descriptions
const (
	catDownload = "Download link"
	catHTML     = "HTML parsing"
	catMisc     = "Various techniques"
	catSocket   = "Websockets"
)

// Provider errors
var (
	ErrNotRecognized = errors.New("url not recognized")
	ErrNotFound      = errors.New("game not found")
	ErrMalformed     = errors.New("malformed game data")
	ErrReplay        = errors.New("move replay failed")
)

// Deps are the collaborators shared by providers
type Deps struct {
	Client *transport.Client
	// Annotator is written when a rebuilt game has no header at all
	Annotator string
}

func (d Deps) rebuild(rec *pgn.Record) (string, error) {
	annotator := d.Annotator
	if annotator == "" && d.Client != nil {
		annotator = d.Client.SpoofedUserAgent()
	}
	out, err := pgn.Rebuild(rec, annotator)
	if err != nil {
		return "", errors.Join(ErrMalformed, err)
	}
	return out, nil
}

func description(site, technique string) string {
	return site + " -- " + technique
}

// onHost reports whether rawURL is on host, with or without "www."
func onHost(rawURL, host string) (*url.URL, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, false
	}
	h := strings.ToLower(u.Host)
	host = strings.ToLower(host)
	if h != host && h != "www."+host {
		return nil, false
	}
	return u, true
}

// positiveID reports whether s is made of digits and is not "0"
func positiveID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != "0"
}

// firstQuery returns the first value of a query parameter
func firstQuery(u *url.URL, key string) (string, bool) {
	values, ok := u.Query()[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// rejectMarkers fails when body contains any of the "not found" markers
func rejectMarkers(body string, markers ...string) (string, error) {
	for _, m := range markers {
		if strings.Contains(body, m) {
			return "", ErrNotFound
		}
	}
	return body, nil
}
