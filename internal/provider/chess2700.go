package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/law-makers/pgnfetch/internal/extract"
)

// Chess2700 reads the analysis board of 2700chess.com game pages
type Chess2700 struct {
	Deps
}

func (p *Chess2700) Name() string { return "2700chess" }

func (p *Chess2700) Description() string { return description("2700chess.com", catHTML) }

func (p *Chess2700) Recognize(rawURL string) (*Match, bool) {
	u, ok := onHost(rawURL, "2700chess.com")
	if !ok {
		return nil, false
	}
	// Direct download links are turned back into their game page
	if strings.ToLower(u.Path) == "/games/download" {
		if slug, ok := firstQuery(u, "slug"); ok {
			return &Match{URL: rawURL, ID: "https://2700chess.com/games/" + slug, Kind: KindGame}, true
		}
	}
	if !strings.HasPrefix(u.Path, "/games/") {
		return nil, false
	}
	return &Match{URL: rawURL, ID: rawURL, Kind: KindGame}, true
}

func (p *Chess2700) Fetch(ctx context.Context, m *Match) (string, error) {
	page, err := p.Client.Fetch(ctx, m.ID, false)
	if err != nil {
		return "", err
	}
	for _, stmt := range strings.Split(page, ";") {
		if !strings.Contains(stmt, "analysis.setPgn(") {
			continue
		}
		literal, ok := extract.StringLiteralAt(stmt, strings.IndexByte(stmt, '"'))
		if !ok {
			continue
		}
		text, err := extract.JSString(literal)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return strings.TrimSpace(text), nil
	}
	return "", fmt.Errorf("%w: no analysis board", ErrNotFound)
}
