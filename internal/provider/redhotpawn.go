package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/law-makers/pgnfetch/internal/extract"
	"github.com/law-makers/pgnfetch/internal/pgn"
)

// RedHotPawn reads games and puzzles of redhotpawn.com
type RedHotPawn struct {
	Deps
}

func (p *RedHotPawn) Name() string { return "redhotpawn" }

func (p *RedHotPawn) Description() string { return description("RedHotPawn.com", catHTML) }

// Recognize accepts game pages by gameid and puzzle pages by puzzleid. A
// served puzzle has no stable identifier so its URL is kept.
func (p *RedHotPawn) Recognize(rawURL string) (*Match, bool) {
	u, ok := onHost(rawURL, "redhotpawn.com")
	if !ok {
		return nil, false
	}
	path := strings.ToLower(u.Path)
	var (
		kind Kind
		key  string
	)
	switch {
	case strings.Contains(path, "chess-game-"):
		kind, key = KindGame, "gameid"
	case strings.Contains(path, "chess-puzzle-"):
		if strings.Contains(strings.ToLower(rawURL), "chess-puzzle-serve") {
			return &Match{URL: rawURL, ID: rawURL, Kind: KindPuzzle}, true
		}
		kind, key = KindPuzzle, "puzzleid"
	default:
		return nil, false
	}
	id, ok := firstQuery(u, key)
	if !ok || !positiveID(id) {
		return nil, false
	}
	return &Match{URL: rawURL, ID: id, Kind: kind}, true
}

func (p *RedHotPawn) Fetch(ctx context.Context, m *Match) (string, error) {
	if m.Kind == KindGame {
		page, err := p.Client.Fetch(ctx, "https://www.redhotpawn.com/pagelet/view/game-pgn.php?gameid="+m.ID, false)
		if err != nil {
			return "", err
		}
		text, ok := extract.FirstTagText(page, "textarea", nil)
		if !ok {
			return "", fmt.Errorf("%w: no export box", ErrNotFound)
		}
		return strings.TrimSpace(text), nil
	}

	url, event := m.ID, "Puzzle"
	if !strings.Contains(m.ID, "://") {
		url = "https://www.redhotpawn.com/chess-puzzles/chess-puzzle-solve.php?puzzleid=" + m.ID
		event = "Puzzle " + m.ID
	}
	page, err := p.Client.Fetch(ctx, url, false)
	if err != nil {
		return "", err
	}

	fen, ok := extract.Quoted(page, "var g_startFenStr", '\'')
	if !ok {
		return "", fmt.Errorf("%w: no start position", ErrNotFound)
	}
	rec := pgn.NewRecord()
	rec.Set(pgn.KeyURL, url)
	rec.Set("FEN", fen)
	rec.Set("SetUp", "1")
	rec.Set("Event", event)
	rec.Set("White", "White")
	rec.Set("Black", "Black")
	if statement, ok := extract.Between(page, "<h4>", "</h4>"); ok {
		text, err := extract.HTMLText(statement)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		rec.Set(pgn.KeyMoves, "{"+text+"}")
	}
	return p.rebuild(rec)
}
