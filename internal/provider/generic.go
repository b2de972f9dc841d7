package provider

import (
	"context"
	"fmt"

	"github.com/law-makers/pgnfetch/internal/extract"
	"github.com/law-makers/pgnfetch/internal/transport"
)

// Generic accepts any URL. Chess files are returned as is and web pages
// are scanned for links to PGN files.
type Generic struct {
	Deps
}

func (p *Generic) Name() string { return "generic" }

func (p *Generic) Description() string { return description("Generic", catMisc) }

func (p *Generic) Recognize(rawURL string) (*Match, bool) {
	return &Match{URL: rawURL, ID: rawURL, Kind: KindPage}, true
}

func (p *Generic) Fetch(ctx context.Context, m *Match) (string, error) {
	resp, err := p.Client.Do(ctx, transport.Request{URL: m.ID, SpoofUserAgent: true})
	if err != nil {
		return "", err
	}
	switch resp.ContentType {
	case "application/x-chess-pgn", "application/pgn":
		return resp.Body, nil
	case "text/html":
		links := extract.PGNLinks(resp.Body, m.ID)
		if len(links) == 0 {
			return "", fmt.Errorf("%w: no game link", ErrNotFound)
		}
		return p.Client.FetchMany(ctx, links, false)
	}
	return "", fmt.Errorf("%w: unsupported content %q", ErrNotFound, resp.ContentType)
}
