package provider

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/law-makers/pgnfetch/internal/extract"
	"github.com/law-makers/pgnfetch/internal/pgn"
)

var schachSpielenGame = regexp.MustCompile(`(?i)^https?://(www\.)?schach-spielen\.eu/(game|analyse)/([a-z0-9]+)[/?#]?`)

// SchachSpielen reads the PGN export box of schach-spielen.eu
type SchachSpielen struct {
	Deps
}

func (p *SchachSpielen) Name() string { return "schachspielen" }

func (p *SchachSpielen) Description() string { return description("Schach-Spielen.eu", catHTML) }

func (p *SchachSpielen) Recognize(rawURL string) (*Match, bool) {
	m := schachSpielenGame.FindStringSubmatch(rawURL)
	if m == nil || len(m[3]) != 8 {
		return nil, false
	}
	return &Match{URL: rawURL, ID: m[3], Kind: KindGame}, true
}

func (p *SchachSpielen) Fetch(ctx context.Context, m *Match) (string, error) {
	page, err := p.Client.Fetch(ctx, "https://www.schach-spielen.eu/analyse/"+m.ID, false)
	if err != nil {
		return "", err
	}
	text, ok := extract.FirstTagText(page, "textarea", &extract.AttrMatch{Name: "id", Value: "pgnText"})
	if !ok {
		return "", fmt.Errorf("%w: no export box", ErrNotFound)
	}
	return strings.ReplaceAll(text, `[Variant "chess960"]`, `[Variant "`+pgn.Chess960+`"]`), nil
}
