package provider

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// ChessGames downloads games of chessgames.com, with the computer analysis
// first when the URL asks for it.
type ChessGames struct {
	Deps
}

func (p *ChessGames) Name() string { return "chessgames" }

func (p *ChessGames) Description() string { return description("ChessGames.com", catDownload) }

func (p *ChessGames) Recognize(rawURL string) (*Match, bool) {
	u, ok := onHost(rawURL, "chessgames.com")
	if !ok {
		return nil, false
	}
	gid, ok := firstQuery(u, "gid")
	if !ok || !positiveID(gid) {
		return nil, false
	}
	comp, _ := firstQuery(u, "comp")
	return &Match{URL: rawURL, ID: gid, Kind: KindGame, Analysis: comp == "1"}, true
}

func (p *ChessGames) Fetch(ctx context.Context, m *Match) (string, error) {
	url := "http://www.chessgames.com/pgn/pgnfetch.pgn?gid=" + m.ID
	if m.Analysis {
		body, err := p.Client.Fetch(ctx, url+"&comp=1", false)
		if err == nil && !strings.Contains(body, "NO SUCH GAME") {
			return body, nil
		}
	}
	body, err := p.Client.Fetch(ctx, url, false)
	if err != nil {
		return "", err
	}
	return rejectMarkers(body, "NO SUCH GAME")
}

// FicsGames downloads games archived by ficsgames.org
type FicsGames struct {
	Deps
}

func (p *FicsGames) Name() string { return "ficsgames" }

func (p *FicsGames) Description() string { return description("FicsGames.org", catDownload) }

func (p *FicsGames) Recognize(rawURL string) (*Match, bool) {
	u, ok := onHost(rawURL, "ficsgames.org")
	if !ok || !strings.Contains(strings.ToLower(u.Path), "show") {
		return nil, false
	}
	id, ok := firstQuery(u, "ID")
	if !ok || !positiveID(id) {
		return nil, false
	}
	return &Match{URL: rawURL, ID: id, Kind: KindGame}, true
}

func (p *FicsGames) Fetch(ctx context.Context, m *Match) (string, error) {
	body, err := p.Client.Fetch(ctx, fmt.Sprintf("http://ficsgames.org/cgi-bin/show.cgi?ID=%s;action=save", m.ID), false)
	if err != nil {
		return "", err
	}
	return rejectMarkers(body, "not found in GGbID")
}

var chessTempoGame = regexp.MustCompile(`(?i)^https?://(\S+\.)?chesstempo\.com/gamedb/game/(\d+)/?([\S/]+)?$`)

// minChessTempoSize rejects the short placeholder served for unknown games
const minChessTempoSize = 128

// ChessTempo downloads games of the chesstempo.com database
type ChessTempo struct {
	Deps
}

func (p *ChessTempo) Name() string { return "chesstempo" }

func (p *ChessTempo) Description() string { return description("ChessTempo.com", catDownload) }

func (p *ChessTempo) Recognize(rawURL string) (*Match, bool) {
	m := chessTempoGame.FindStringSubmatch(rawURL)
	if m == nil || !positiveID(m[2]) {
		return nil, false
	}
	return &Match{URL: rawURL, ID: m[2], Kind: KindGame}, true
}

func (p *ChessTempo) Fetch(ctx context.Context, m *Match) (string, error) {
	// Without a browser agent the site answers with a random game
	body, err := p.Client.Fetch(ctx, "http://chesstempo.com/requests/download_game_pgn.php?gameids="+m.ID, true)
	if err != nil {
		return "", err
	}
	if len(body) <= minChessTempoSize {
		return "", ErrNotFound
	}
	return body, nil
}

var chessSamaraGame = regexp.MustCompile(`(?i)^https?://(\S+\.)?chess-samara\.ru/(\d+)-`)

// ChessSamara downloads games of chess-samara.ru
type ChessSamara struct {
	Deps
}

func (p *ChessSamara) Name() string { return "chesssamara" }

func (p *ChessSamara) Description() string { return description("Chess-Samara.ru", catDownload) }

func (p *ChessSamara) Recognize(rawURL string) (*Match, bool) {
	m := chessSamaraGame.FindStringSubmatch(rawURL)
	if m == nil || !positiveID(m[2]) {
		return nil, false
	}
	return &Match{URL: rawURL, ID: m[2], Kind: KindGame}, true
}

func (p *ChessSamara) Fetch(ctx context.Context, m *Match) (string, error) {
	return p.Client.Fetch(ctx, "https://chess-samara.ru/view/pgn.html?gameid="+m.ID, false)
}

// ICCF downloads single games and whole events of iccf.com
type ICCF struct {
	Deps
}

func (p *ICCF) Name() string { return "iccf" }

func (p *ICCF) Description() string { return description("Iccf.com", catDownload) }

func (p *ICCF) Recognize(rawURL string) (*Match, bool) {
	u, ok := onHost(rawURL, "iccf.com")
	if !ok {
		return nil, false
	}
	var kind Kind
	switch path := strings.ToLower(u.Path); {
	case strings.Contains(path, "game"):
		kind = KindGame
	case strings.Contains(path, "event"):
		kind = KindEvent
	default:
		return nil, false
	}
	id, ok := firstQuery(u, "id")
	if !ok || !positiveID(id) {
		return nil, false
	}
	return &Match{URL: rawURL, ID: id, Kind: kind}, true
}

func (p *ICCF) Fetch(ctx context.Context, m *Match) (string, error) {
	var url string
	switch m.Kind {
	case KindGame:
		url = "https://www.iccf.com/GetPGN.aspx?id=" + m.ID
	case KindEvent:
		url = "https://www.iccf.com/GetEventPGN.aspx?id=" + m.ID
	default:
		return "", ErrNotRecognized
	}
	body, err := p.Client.Fetch(ctx, url, false)
	if err != nil {
		return "", err
	}
	return rejectMarkers(body, "does not exist.", "Invalid event")
}
