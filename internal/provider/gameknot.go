package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/law-makers/pgnfetch/internal/chess"
	"github.com/law-makers/pgnfetch/internal/extract"
	"github.com/law-makers/pgnfetch/internal/pgn"
)

// GameKnot reads the script variables of gameknot.com game and puzzle pages
type GameKnot struct {
	Deps
}

func (p *GameKnot) Name() string { return "gameknot" }

func (p *GameKnot) Description() string { return description("GameKnot.com", catHTML) }

// Recognize keeps the whole URL as identifier because puzzles are addressed
// by a combination of parameters.
func (p *GameKnot) Recognize(rawURL string) (*Match, bool) {
	u, ok := onHost(rawURL, "gameknot.com")
	if !ok {
		return nil, false
	}
	path := strings.ToLower(u.Path)
	switch {
	case strings.Contains(path, "chess.pl"), strings.Contains(path, "analyze-board.pl"):
		return &Match{URL: rawURL, ID: rawURL, Kind: KindGame}, true
	case strings.Contains(path, "chess-puzzle.pl"):
		return &Match{URL: rawURL, ID: rawURL, Kind: KindPuzzle}, true
	}
	return nil, false
}

func (p *GameKnot) Fetch(ctx context.Context, m *Match) (string, error) {
	page, err := p.Client.Fetch(ctx, m.ID, true)
	if err != nil {
		return "", err
	}

	var rec *pgn.Record
	if m.Kind == KindPuzzle {
		rec = gameKnotPuzzle(page)
	} else if rec, err = gameKnotGame(page); err != nil {
		return "", err
	}

	out, err := p.rebuild(rec)
	if err != nil {
		return "", err
	}
	// Player names and titles are published percent-encoded
	return unquote(out), nil
}

// unquote decodes every valid %XX escape of s and keeps any other '%' as
// is. Invalid UTF-8 left by the decoding becomes U+FFFD.
func unquote(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b = append(b, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		b = append(b, s[i])
	}
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}

func gameKnotPuzzle(page string) *pgn.Record {
	vars := extract.Variables(page, map[string]bool{
		"puzzle_id":      false,
		"puzzle_fen":     true,
		"load_solution(": true,
	})

	rec := pgn.NewRecord()
	rec.Set(pgn.KeyURL, "https://gameknot.com/chess-puzzle.pl?pz="+vars["puzzle_id"])
	rec.Set("White", "White")
	rec.Set("Black", "Black")
	rec.Set("Result", "*")
	if fen := vars["puzzle_fen"]; fen != "" {
		rec.Set("FEN", fen)
		rec.Set("SetUp", "1")
	}

	solution := vars["load_solution("]
	if solution == "" {
		return rec
	}
	// Items read: id, player, previous id, count, SAN, UCI, ?, next id
	moves := " {Solution:"
	next := "0"
	for _, entry := range strings.Split(solution, "|") {
		item := strings.Split(entry, ",")
		if item[0] != next {
			continue
		}
		if len(item) == 4 || len(item) < 8 {
			break
		}
		next = item[7]
		moves += " " + item[4]
	}
	rec.Set(pgn.KeyMoves, moves+"}")
	return rec
}

func gameKnotGame(page string) (*pgn.Record, error) {
	vars := extract.Variables(page, map[string]bool{
		"anbd_movelist":                true,
		"anbd_result":                  false,
		"anbd_player_w":                true,
		"anbd_player_b":                true,
		"anbd_rating_w":                false,
		"anbd_rating_b":                false,
		"anbd_title":                   true,
		"anbd_timestamp":               true,
		"export_web_input_result_text": true,
	})

	rec := pgn.NewRecord()
	switch vars["anbd_result"] {
	case "1":
		rec.Set("Result", "1-0")
	case "2":
		rec.Set("Result", "1/2-1/2")
	case "3":
		rec.Set("Result", "0-1")
	default:
		rec.Set("Result", "*")
	}
	rec.Set("White", vars["anbd_player_w"])
	rec.Set("Black", vars["anbd_player_b"])
	rec.Set("WhiteElo", vars["anbd_rating_w"])
	rec.Set("BlackElo", vars["anbd_rating_b"])
	rec.Set("Event", vars["anbd_title"])
	rec.Set("Date", vars["anbd_timestamp"])
	if reason := vars["export_web_input_result_text"]; reason != "" {
		rec.Set(pgn.KeyReason, reason)
	}

	board, err := chess.NewBoard(pgn.DefaultBoard, false)
	if err != nil {
		return nil, err
	}
	for _, move := range strings.Split(vars["anbd_movelist"], "-") {
		if move == "" {
			break
		}
		if _, err := board.Play(move); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReplay, err)
		}
	}
	rec.Set(pgn.KeyMoves, board.MoveText())
	return rec, nil
}
