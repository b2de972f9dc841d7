package provider

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/law-makers/pgnfetch/internal/extract"
	"github.com/law-makers/pgnfetch/internal/pgn"
	"github.com/law-makers/pgnfetch/internal/transport"
)

var (
	lichessStudy  = regexp.MustCompile(`(?i)^https?://(\S+\.)?lichess\.(org|dev)/study/([a-z0-9]+(/[a-z0-9]+)?)(\.pgn)?/?([\S/]+)?$`)
	lichessPuzzle = regexp.MustCompile(`(?i)^https?://(\S+\.)?lichess\.(org|dev)/training/([0-9]+|daily)[/?#]?`)
	lichessGame   = regexp.MustCompile(`(?i)^https?://(\S+\.)?lichess\.(org|dev)/(game/export/)?([a-z0-9]+)/?([\S/]+)?$`)

	lichessVariants = strings.NewReplacer(
		`[Variant "UltraBullet"]`, `[Variant ""]`,
		`[Variant "Bullet"]`, `[Variant ""]`,
		`[Variant "Blitz"]`, `[Variant ""]`,
		`[Variant "Rapid"]`, `[Variant ""]`,
		`[Variant "Classical"]`, `[Variant ""]`,
		`[Variant "Correspondence"]`, `[Variant ""]`,
		`[Variant "Standard"]`, `[Variant ""]`,
		`[Variant "Chess960"]`, `[Variant "`+pgn.Chess960+`"]`,
		`[Variant "ThreeCheck"]`, `[Variant "3check"]`,
		`[Variant "Antichess"]`, `[Variant "Suicide"]`,
	)
)

// Lichess handles games, studies and puzzles of lichess.org and lichess.dev
type Lichess struct {
	Deps
}

func (p *Lichess) Name() string { return "lichess" }

func (p *Lichess) Description() string { return description("Lichess.org", catDownload) }

func (p *Lichess) Recognize(rawURL string) (*Match, bool) {
	if m := lichessStudy.FindStringSubmatch(rawURL); m != nil {
		if id := m[3]; len(id) == 8 || len(id) == 17 {
			return &Match{URL: rawURL, ID: id, Kind: KindStudy, TLD: strings.ToLower(m[2])}, true
		}
	}
	if m := lichessPuzzle.FindStringSubmatch(rawURL); m != nil {
		if id := strings.ToLower(m[3]); positiveID(id) || id == "daily" {
			return &Match{URL: rawURL, ID: id, Kind: KindPuzzle, TLD: strings.ToLower(m[2])}, true
		}
	}
	if m := lichessGame.FindStringSubmatch(rawURL); m != nil {
		if id := m[4]; len(id) == 8 {
			return &Match{URL: rawURL, ID: id, Kind: KindGame, TLD: strings.ToLower(m[2])}, true
		}
	}
	return nil, false
}

func (p *Lichess) Fetch(ctx context.Context, m *Match) (string, error) {
	switch m.Kind {
	case KindGame:
		return p.fetchGame(ctx, m)
	case KindStudy:
		return p.Client.Fetch(ctx, p.site(m)+"/study/"+m.ID+".pgn", true)
	case KindPuzzle:
		return p.fetchPuzzle(ctx, m)
	default:
		return "", ErrNotRecognized
	}
}

func (p *Lichess) site(m *Match) string {
	return "https://lichess." + m.TLD
}

func (p *Lichess) queryAPI(ctx context.Context, m *Match, path string) any {
	resp, err := p.Client.Do(ctx, transport.Request{
		URL: p.site(m) + path,
		Headers: map[string]string{
			"X-Requested-With": "XMLHttpRequest",
			"Accept":           "application/vnd.lichess.v4+json",
		},
	})
	if err != nil {
		return nil
	}
	doc, err := extract.Decode(resp.Body)
	if err != nil {
		return nil
	}
	return doc
}

func (p *Lichess) fetchGame(ctx context.Context, m *Match) (string, error) {
	api := p.queryAPI(ctx, m, "/import/master/"+m.ID+"/white")

	// Only games still in progress are rebuilt from the API
	if extract.String(api, "game/status/name") != "started" {
		body, err := p.Client.Fetch(ctx, p.site(m)+"/game/export/"+m.ID+"?literate=1", false)
		if err != nil {
			return "", err
		}
		return adjustLichessTags(body), nil
	}

	rec := pgn.NewRecord()
	rec.Set(pgn.KeyURL, p.site(m)+extract.String(api, "url/round"))
	rec.Set("Variant", extract.String(api, "game/variant/key"))
	rec.Set("FEN", extract.String(api, "game/initialFen"))
	rec.Set("SetUp", "1")
	rec.Set("White", extract.String(api, "player/user/username"))
	rec.Set("WhiteElo", extract.String(api, "player/rating"))
	rec.Set("Black", extract.String(api, "opponent/user/username"))
	rec.Set("BlackElo", extract.String(api, "opponent/rating"))
	rec.Set("Result", "*")

	var moves strings.Builder
	for _, step := range extract.List(api, "steps") {
		if ply, ok := extract.Int(step, "ply"); ok && ply > 0 {
			moves.WriteString(" ")
			moves.WriteString(extract.String(step, "san"))
		}
	}
	rec.Set(pgn.KeyMoves, moves.String())

	out, err := p.rebuild(rec)
	if err != nil {
		return "", err
	}
	return adjustLichessTags(out), nil
}

func (p *Lichess) fetchPuzzle(ctx context.Context, m *Match) (string, error) {
	page, err := p.Client.Fetch(ctx, p.site(m)+"/training/"+m.ID, false)
	if err != nil {
		return "", err
	}

	page = strings.ReplaceAll(page, "\n", "")
	pos := strings.Index(page, "lichess.puzzle =")
	if pos == -1 {
		return "", fmt.Errorf("%w: puzzle data not found", ErrMalformed)
	}
	game := strings.Index(page[pos+1:], `"game"`)
	if game == -1 {
		return "", fmt.Errorf("%w: puzzle game not found", ErrMalformed)
	}
	bourne, ok := extract.BalancedAt(page, pos+1+game-1)
	if !ok {
		return "", fmt.Errorf("%w: unbalanced puzzle data", ErrMalformed)
	}
	data, err := extract.DecodeLoose(bourne)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	puzzle := extract.Path(data, "puzzle")
	if extract.Absent(puzzle) {
		return "", fmt.Errorf("%w: no puzzle", ErrMalformed)
	}

	rec := pgn.NewRecord()
	rec.Set(pgn.KeyURL, fmt.Sprintf("%s/%s#%s", p.site(m), extract.String(puzzle, "gameId"), extract.String(puzzle, "initialPly")))
	rec.Set("Site", "lichess."+m.TLD)
	rating := extract.String(puzzle, "rating")
	rec.Set("Event", fmt.Sprintf("Puzzle %s, rated %s", extract.String(puzzle, "id"), rating))
	rec.Set("Result", "*")
	rec.Set("X_ID", extract.String(puzzle, "id"))
	rec.Set("X_TimeControl", extract.String(data, "game/clock"))
	rec.Set("X_Rating", rating)
	rec.Set("X_Attempts", extract.String(puzzle, "attempts"))
	rec.Set("X_Vote", extract.String(puzzle, "vote"))

	players := extract.List(data, "game/players")
	if players == nil {
		return "", fmt.Errorf("%w: no players", ErrMalformed)
	}
	for _, player := range players {
		var side string
		switch extract.String(player, "color") {
		case "white":
			side = "White"
		case "black":
			side = "Black"
		default:
			return "", fmt.Errorf("%w: unknown player color", ErrMalformed)
		}
		name, elo := splitRatedName(extract.String(player, "name"))
		rec.Set(side, name)
		if elo != "" {
			rec.Set(side+"Elo", elo)
		}
	}

	parts := extract.List(data, "game/treeParts")
	if parts == nil {
		return "", fmt.Errorf("%w: no moves", ErrMalformed)
	}
	var moves strings.Builder
	for _, part := range parts {
		if extract.String(part, "ply") == "0" {
			rec.Set("SetUp", "1")
			rec.Set("FEN", extract.String(part, "fen"))
			continue
		}
		moves.WriteString(extract.String(part, "san"))
		moves.WriteString(" ")
	}

	moves.WriteString(" {Solution: ")
	node := extract.Path(puzzle, "branch")
	for {
		moves.WriteString(extract.String(node, "san"))
		moves.WriteString(" ")
		children := extract.List(node, "children")
		if len(children) == 0 {
			break
		}
		node = children[0]
	}
	moves.WriteString("}")
	rec.Set(pgn.KeyMoves, moves.String())

	return p.rebuild(rec)
}

// splitRatedName splits "Name (1500)" into its name and rating
func splitRatedName(s string) (string, string) {
	pos := strings.Index(s, " (")
	if pos == -1 {
		return s, ""
	}
	return s[:pos], strings.TrimSuffix(s[pos+2:], ")")
}

// adjustLichessTags maps lichess variant names to the ones used in PGN
// databases and drops the variant tag of standard games.
func adjustLichessTags(text string) string {
	if text == "" {
		return text
	}
	text = lichessVariants.Replace(text)
	return strings.ReplaceAll(text, "[Variant \"\"]\n", "")
}
