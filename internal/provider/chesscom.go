package provider

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/law-makers/pgnfetch/internal/chess"
	"github.com/law-makers/pgnfetch/internal/extract"
	"github.com/law-makers/pgnfetch/internal/pgn"
)

var chessComGame = regexp.MustCompile(`(?i)^https?://(\S+\.)?chess\.com/([a-z]+/)?(live|daily)/game/([0-9]+)[/?#]?`)

// chessComSquares maps each one-character move code of the daily game
// encoding to its square.
const chessComSquares = "aa1ia2qa3ya4Ga5Oa6Wa74a8bb1jb2rb3zb4Hb5Pb6Xb75b8cc1kc2sc3Ac4Ic5Qc6Yc76c8dd1ld2td3Bd4Jd5Rd6Zd77d8ee1me2ue3Ce4Ke5Se60e78e8ff1nf2vf3Df4Lf5Tf61f79f8gg1og2wg3Eg4Mg5Ug62g7!g8hh1ph2xh3Fh4Nh5Vh63h7?h8"

// chessComHeaders fixes the order of the well-known tags
var chessComHeaders = []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"}

// ChessCom reads live and daily games from chess.com
type ChessCom struct {
	Deps
}

func (p *ChessCom) Name() string { return "chesscom" }

func (p *ChessCom) Description() string { return description("Chess.com", catHTML) }

// Recognize stores the game type ("live" or "daily") in Match.TLD.
func (p *ChessCom) Recognize(rawURL string) (*Match, bool) {
	m := chessComGame.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, false
	}
	return &Match{URL: rawURL, ID: m[4], Kind: KindGame, TLD: strings.ToLower(m[3])}, true
}

func (p *ChessCom) Fetch(ctx context.Context, m *Match) (string, error) {
	url := fmt.Sprintf("https://www.chess.com/%s/game/%s", m.TLD, m.ID)
	// Plain agents are answered with 403
	page, err := p.Client.Fetch(ctx, url, true)
	if err != nil {
		return "", err
	}
	if m.TLD == "live" {
		return chessComLive(page)
	}

	game, err := chessComDaily(page)
	if err != nil {
		return "", err
	}
	rec, err := chessComRecord(url, game)
	if err != nil {
		return "", err
	}
	return p.rebuild(rec)
}

func chessComLive(page string) (string, error) {
	page = strings.ReplaceAll(page, "\n", "")
	pos := strings.Index(page, "init('live'")
	if pos == -1 {
		return "", fmt.Errorf("%w: no live game", ErrNotFound)
	}
	// The game object is the second one opened after the marker
	for n := 0; n < 2 && pos != -1; n++ {
		next := strings.IndexByte(page[pos+1:], '{')
		if next == -1 {
			pos = -1
			break
		}
		pos += 1 + next
	}
	if pos == -1 {
		return "", fmt.Errorf("%w: no game object", ErrMalformed)
	}
	object, ok := extract.BalancedAt(page, pos)
	if !ok {
		return "", fmt.Errorf("%w: unbalanced game object", ErrMalformed)
	}
	object = strings.NewReplacer("&quot;", `"`, `\r`, "").Replace(object)
	game, err := extract.Decode(object)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	text := strings.ReplaceAll(extract.String(game, "pgn"), `\n`, "\n")
	if text == "" {
		return "", fmt.Errorf("%w: empty game", ErrNotFound)
	}
	return text, nil
}

func chessComDaily(page string) (any, error) {
	pos := strings.Index(page, "window.chesscom.dailyGame")
	if pos == -1 {
		return nil, fmt.Errorf("%w: no daily game", ErrNotFound)
	}
	open := strings.IndexByte(page[pos:], '(')
	if open == -1 {
		return nil, fmt.Errorf("%w: no daily game", ErrNotFound)
	}
	open += pos
	end := strings.IndexByte(page[open+1:], ')')
	if end == -1 || end < 2 {
		return nil, fmt.Errorf("%w: no daily game", ErrMalformed)
	}
	literal := page[open+1 : open+1+end]

	document, err := extract.JSString(literal)
	if err != nil {
		document = strings.NewReplacer(`\\\/`, "/", `\"`, `"`).Replace(literal[1 : len(literal)-1])
	}
	data, err := extract.Decode(document)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	game := extract.Path(data, "game")
	if extract.Absent(game) {
		return nil, fmt.Errorf("%w: no game", ErrNotFound)
	}
	return game, nil
}

func chessComRecord(url string, game any) (*pgn.Record, error) {
	headers := extract.Map(game, "pgnHeaders")
	rec := pgn.NewRecord()
	for _, tag := range chessComHeaders {
		if v, ok := headers[tag]; ok {
			rec.Set(tag, extract.Text(v))
		}
	}
	var rest []string
	for tag := range headers {
		if !rec.Has(tag) {
			rest = append(rest, tag)
		}
	}
	sort.Strings(rest)
	for _, tag := range rest {
		rec.Set(tag, extract.Text(headers[tag]))
	}
	if rec.Get("Variant") == "Chess960" {
		rec.Set("Variant", pgn.Chess960)
	}
	rec.Set(pgn.KeyURL, url)

	moves := extract.String(game, "moveList")
	if moves == "" {
		return nil, fmt.Errorf("%w: no moves", ErrMalformed)
	}
	if len(moves)%2 != 0 {
		return nil, fmt.Errorf("%w: truncated move list %q", ErrReplay, moves)
	}
	fen := rec.Get("FEN")
	if fen == "" {
		fen = pgn.DefaultBoard
	}
	board, err := chess.NewBoard(fen, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReplay, err)
	}
	for len(moves) >= 2 {
		if _, err := board.Play(decodeChessComMove(moves[:2])); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReplay, err)
		}
		moves = moves[2:]
	}
	rec.Set(pgn.KeyMoves, board.MoveText())
	return rec, nil
}

// decodeChessComMove turns a two-character code into a coordinate move.
// Unknown characters are kept as is.
func decodeChessComMove(code string) string {
	from, to := code[:1], code[1:]
	for i := 0; i+3 <= len(chessComSquares); i += 3 {
		c := chessComSquares[i : i+1]
		if c == from {
			from = chessComSquares[i+1 : i+3]
		}
		if c == to {
			to = chessComSquares[i+1 : i+3]
		}
	}
	return from + to
}
