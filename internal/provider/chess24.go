package provider

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/law-makers/pgnfetch/internal/chess"
	"github.com/law-makers/pgnfetch/internal/extract"
	"github.com/law-makers/pgnfetch/internal/pgn"
)

var chess24Game = regexp.MustCompile(`(?i)^https?://chess24\.com/[a-z]+/(analysis|game|download-game)/([a-z0-9\-_]+)[/?#]?`)

// Chess24 rebuilds games from the session data embedded in chess24.com pages
type Chess24 struct {
	Deps
}

func (p *Chess24) Name() string { return "chess24" }

func (p *Chess24) Description() string { return description("Chess24.com", catHTML) }

func (p *Chess24) Recognize(rawURL string) (*Match, bool) {
	m := chess24Game.FindStringSubmatch(rawURL)
	if m == nil || len(m[2]) != 22 {
		return nil, false
	}
	return &Match{URL: rawURL, ID: m[2], Kind: KindGame}, true
}

func (p *Chess24) Fetch(ctx context.Context, m *Match) (string, error) {
	url := "https://chess24.com/en/game/" + m.ID
	page, err := p.Client.Fetch(ctx, url, true)
	if err != nil {
		return "", err
	}

	const marker = ".initGameSession("
	for _, line := range strings.Split(page, "\n") {
		line = strings.TrimSpace(line)
		pos1 := strings.Index(line, marker+"{")
		if pos1 == -1 {
			continue
		}
		pos2 := strings.Index(line[pos1:], "});")
		if pos2 == -1 {
			continue
		}
		session, err := extract.DecodeLoose(line[pos1+len(marker) : pos1+pos2+1])
		if err != nil {
			continue
		}
		game := extract.Path(session, "chessGame")
		moves := extract.List(game, "moves")
		if extract.Absent(game) || moves == nil {
			continue
		}
		return p.rebuildSession(url, game, moves)
	}
	return "", fmt.Errorf("%w: no game session", ErrMalformed)
}

func (p *Chess24) rebuildSession(url string, game any, moves []any) (string, error) {
	rec := pgn.NewRecord()
	rec.Set(pgn.KeyURL, url)
	for _, tag := range []struct{ name, path string }{
		{"Event", "meta/Event"},
		{"Site", "meta/Site"},
		{"Date", "meta/Date"},
		{"Round", "meta/Round"},
		{"White", "meta/White/Name"},
		{"WhiteElo", "meta/White/Elo"},
		{"Black", "meta/Black/Name"},
		{"BlackElo", "meta/Black/Elo"},
		{"Result", "meta/Result"},
	} {
		rec.Set(tag.name, extract.String(game, tag.path))
	}

	// Knot 0 carries the start array, later knots the moves
	var board *chess.Board
	for _, knot := range moves {
		kid := extract.Path(knot, "knotId")
		if extract.Absent(kid) {
			break
		}
		if extract.Text(kid) == "0" {
			fen := extract.String(knot, "fen")
			if fen == "" {
				break
			}
			b, err := chess.NewBoard(fen, true)
			if err != nil {
				return "", fmt.Errorf("%w: %v", ErrReplay, err)
			}
			board = b
			rec.Set("Variant", pgn.Chess960)
			rec.Set("SetUp", "1")
			rec.Set("FEN", fen)
			continue
		}
		if board == nil {
			return "", fmt.Errorf("%w: move before start position", ErrMalformed)
		}
		move := extract.String(knot, "move")
		if move == "" {
			break
		}
		if _, err := board.Play(move); err != nil {
			return "", fmt.Errorf("%w: %v", ErrReplay, err)
		}
	}
	if board != nil {
		rec.Set(pgn.KeyMoves, board.MoveText())
	}
	return p.rebuild(rec)
}
