package provider

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/law-makers/pgnfetch/internal/chess"
	"github.com/law-makers/pgnfetch/internal/extract"
	"github.com/law-makers/pgnfetch/internal/pgn"
	"github.com/law-makers/pgnfetch/internal/transport"
)

var chessOrgGame = regexp.MustCompile(`(?i)^https?://chess\.org/play/([a-f0-9\-]+)[/?#]?`)

const chessOrgSocket = "wss://chess.org:443"

// chessOrgStates maps the game state code to its result and termination
var chessOrgStates = map[int][2]string{
	0:  {"*", "Game started"},
	1:  {"1-0", "White checkmated"},
	2:  {"0-1", "Black checkmated"},
	3:  {"1/2-1/2", "Stalemate"},
	5:  {"1/2-1/2", "Insufficient material"},
	8:  {"1/2-1/2", "Mutual agreement"},
	9:  {"0-1", "White resigned"},
	10: {"1-0", "Black resigned"},
	13: {"1-0", "White out of time"},
	14: {"0-1", "Black out of time"},
}

// ChessOrg asks the chess.org game server for a game over a SockJS
// websocket, using the anonymous name found on the game page.
type ChessOrg struct {
	Deps
	// SocketBase overrides the scheme and host of the game server
	SocketBase string
}

func (p *ChessOrg) Name() string { return "chessorg" }

func (p *ChessOrg) Description() string { return description("Chess.org", catSocket) }

func (p *ChessOrg) Recognize(rawURL string) (*Match, bool) {
	m := chessOrgGame.FindStringSubmatch(rawURL)
	if m == nil || len(m[1]) != 36 {
		return nil, false
	}
	if _, err := uuid.Parse(m[1]); err != nil {
		return nil, false
	}
	return &Match{URL: rawURL, ID: strings.ToLower(m[1]), Kind: KindGame}, true
}

func (p *ChessOrg) Fetch(ctx context.Context, m *Match) (string, error) {
	url := "https://chess.org/play/" + m.ID
	page, err := p.Client.Fetch(ctx, url, false)
	if err != nil {
		return "", err
	}
	name := chessOrgUsername(page)
	if name == "" {
		return "", fmt.Errorf("%w: no session name", ErrMalformed)
	}

	// The server expects a random session path per connection
	server, err := transport.RandomInt(1, 1000)
	if err != nil {
		return "", err
	}
	session, err := transport.RandomToken(8)
	if err != nil {
		return "", err
	}
	base := p.SocketBase
	if base == "" {
		base = chessOrgSocket
	}
	data, err := p.Client.Exchange(ctx, transport.Handshake{
		Endpoint: fmt.Sprintf("%s/play-sockjs/%d/%s/websocket", strings.TrimSuffix(base, "/"), server, session),
		Origin:   "https://chess.org:443",
		Ready:    "o",
		Hello:    fmt.Sprintf(`["%s %s"]`, name, m.ID),
		Extract:  sockJSPayload,
	})
	if err != nil {
		return "", err
	}

	game, err := extract.DecodeLoose(strings.ReplaceAll(data, `\"`, `"`))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	rec, err := chessOrgRecord(url, game)
	if err != nil {
		return "", err
	}
	return p.rebuild(rec)
}

// sockJSPayload unwraps a SockJS array frame: a["..."]
func sockJSPayload(frame string) (string, bool) {
	if !strings.HasPrefix(frame, "a") || len(frame) < 5 {
		return "", false
	}
	return frame[3 : len(frame)-2], true
}

func chessOrgUsername(page string) string {
	for _, line := range strings.Split(page, "\n") {
		if name, ok := extract.Quoted(line, "encryptedUsername", '\''); ok && name != "" {
			return name
		}
	}
	return ""
}

func chessOrgRecord(url string, game any) (*pgn.Record, error) {
	rec := pgn.NewRecord()
	rec.Set(pgn.KeyURL, url)

	creator, opponent := "Black", "White"
	if extract.String(game, "creatorColor") == "1" {
		creator, opponent = "White", "Black"
	}
	rec.Set(creator, extract.String(game, "creatorId"))
	if elo := extract.String(game, "creatorPoint"); elo != "" && elo != "0" {
		rec.Set(creator+"Elo", elo)
	}
	rec.Set(opponent, extract.String(game, "opponentId"))
	if elo := extract.String(game, "opponentPoint"); elo != "" && elo != "0" {
		rec.Set(opponent+"Elo", elo)
	}

	fen := pgn.DefaultBoard
	if start := extract.String(game, "startPos"); start != "" && start != "startpos" {
		rec.Set("SetUp", "1")
		rec.Set("FEN", start)
		rec.Set("Variant", pgn.Chess960)
		fen = start
	}

	clock := extract.String(game, "timeLimitSecs")
	bonus := extract.String(game, "timeBonusSecs")
	if clock != "" && bonus != "" {
		rec.Set("TimeControl", clock+"+"+bonus)
	}

	state, ok := extract.Int(game, "state")
	if !ok {
		return nil, fmt.Errorf("%w: no game state", ErrMalformed)
	}
	result, reason := "*", fmt.Sprintf("Unknown reason %d", state)
	if s, ok := chessOrgStates[state]; ok {
		result, reason = s[0], s[1]
	}
	rec.Set("Result", result)
	rec.Set(pgn.KeyReason, reason)

	lans := extract.String(game, "lans")
	if lans == "" {
		return nil, fmt.Errorf("%w: no moves", ErrMalformed)
	}
	moves, err := chess.Replay(fen, true, strings.Split(lans, " "))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReplay, err)
	}
	rec.Set(pgn.KeyMoves, moves)
	return rec, nil
}
