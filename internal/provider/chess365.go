package provider

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/law-makers/pgnfetch/internal/extract"
	"github.com/law-makers/pgnfetch/internal/pgn"
)

var chess365Players = regexp.MustCompile(`(?i)^([\p{L}\p{N}_\-\s]+) \(([0-9]+)\) vs\. ([\p{L}\p{N}_\-\s]+) \(([0-9]+)\)$`)

// Chess365 reads the game viewer of 365chess.com
type Chess365 struct {
	Deps
}

func (p *Chess365) Name() string { return "365chess" }

func (p *Chess365) Description() string { return description("365chess.com", catHTML) }

func (p *Chess365) Recognize(rawURL string) (*Match, bool) {
	u, ok := onHost(rawURL, "365chess.com")
	if !ok || !strings.Contains(strings.ToLower(u.Path), "view_game") {
		return nil, false
	}
	g, ok := firstQuery(u, "g")
	if !ok || !positiveID(g) {
		return nil, false
	}
	return &Match{URL: rawURL, ID: g, Kind: KindGame}, true
}

func (p *Chess365) Fetch(ctx context.Context, m *Match) (string, error) {
	url := "https://www.365chess.com/view_game.php?g=" + m.ID
	page, err := p.Client.Fetch(ctx, url, false)
	if err != nil {
		return "", err
	}

	moves, ok := extract.Between(page, ".ApplyPgnMoveText('", "')")
	if !ok {
		return "", fmt.Errorf("%w: no move text", ErrMalformed)
	}
	rec := pgn.NewRecord()
	rec.Set(pgn.KeyMoves, moves)
	rec.Set(pgn.KeyURL, url)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if h1 := doc.Find("tr > td > h1").First(); h1.Length() > 0 {
		if pm := chess365Players.FindStringSubmatch(strings.TrimSpace(h1.Text())); pm != nil {
			rec.Set("White", pm[1])
			rec.Set("WhiteElo", pm[2])
			rec.Set("Black", pm[3])
			rec.Set("BlackElo", pm[4])
		} else {
			rec.Set("White", "Unknown")
			rec.Set("Black", "Unknown")
		}
	}

	if h2 := doc.Find("tr > td > h2").First(); h2.Length() > 0 {
		fields := strings.Split(strings.TrimSpace(h2.Text()), " · ")
		if len(fields) < 3 {
			return "", fmt.Errorf("%w: incomplete event line", ErrMalformed)
		}
		rec.Set("Event", fields[0])
		rec.Set("Opening", fields[1])
		rec.Set("Result", strings.ReplaceAll(fields[2], "½", "1/2"))
	}

	return p.rebuild(rec)
}
