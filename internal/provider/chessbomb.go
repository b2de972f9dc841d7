package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/law-makers/pgnfetch/internal/extract"
	"github.com/law-makers/pgnfetch/internal/pgn"
)

// ChessBomb decodes the base64 configuration embedded in chessbomb.com
// pages. Any page of the site is accepted.
type ChessBomb struct {
	Deps
}

func (p *ChessBomb) Name() string { return "chessbomb" }

func (p *ChessBomb) Description() string { return description("ChessBomb.com", catHTML) }

func (p *ChessBomb) Recognize(rawURL string) (*Match, bool) {
	if _, ok := onHost(rawURL, "chessbomb.com"); !ok {
		return nil, false
	}
	return &Match{URL: rawURL, ID: rawURL, Kind: KindPage}, true
}

func (p *ChessBomb) Fetch(ctx context.Context, m *Match) (string, error) {
	page, err := p.Client.Fetch(ctx, m.ID, true)
	if err != nil {
		return "", err
	}

	config := chessBombConfig(page)
	if config == nil {
		return "", fmt.Errorf("%w: no configuration", ErrMalformed)
	}
	header := extract.Path(config, "gameData/game")
	room := extract.Path(config, "gameData/room")
	moves := extract.List(config, "gameData/moves")
	if extract.Absent(header) || extract.Absent(room) || moves == nil {
		return "", fmt.Errorf("%w: incomplete game data", ErrMalformed)
	}

	rec := pgn.NewRecord()
	rec.Set(pgn.KeyURL, m.ID)
	rec.Set("Event", extract.String(room, "name"))
	rec.Set("Site", extract.String(room, "officialUrl"))
	date := extract.String(header, "startAt")
	if len(date) > 10 {
		date = date[:10]
	}
	rec.Set("Date", date)
	rec.Set("Round", extract.String(header, "roundSlug"))
	rec.Set("White", extract.String(header, "white/name"))
	rec.Set("WhiteElo", extract.String(header, "white/elo"))
	rec.Set("Black", extract.String(header, "black/name"))
	rec.Set("BlackElo", extract.String(header, "black/elo"))
	rec.Set("Result", extract.String(header, "result"))

	// Each move reads "<id>_<san>"
	var san []string
	for _, move := range moves {
		cbn := extract.String(move, "cbn")
		pos := strings.IndexByte(cbn, '_')
		if pos == -1 {
			break
		}
		san = append(san, cbn[pos+1:])
	}
	rec.Set(pgn.KeyMoves, strings.Join(san, " "))

	return p.rebuild(rec)
}

// chessBombConfig returns the decoded cbConfigData of the first inline
// script carrying it.
func chessBombConfig(page string) any {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}
	var config any
	doc.Find("script").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		encoded, ok := extract.Quoted(sel.Text(), "cbConfigData", '"')
		if !ok {
			return true
		}
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return true
		}
		decoded, err := extract.Decode(strings.TrimSpace(string(raw)))
		if err != nil {
			return true
		}
		config = decoded
		return false
	})
	return config
}
