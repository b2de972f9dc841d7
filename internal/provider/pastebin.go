package provider

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/law-makers/pgnfetch/internal/extract"
)

var pastebinBoard = regexp.MustCompile(`(?i)<div id="([0-9]+)_board"></div>`)

// ChessPastebin reads games pasted on chesspastebin.com. Any page of the
// site is accepted.
type ChessPastebin struct {
	Deps
}

func (p *ChessPastebin) Name() string { return "chesspastebin" }

func (p *ChessPastebin) Description() string { return description("ChessPastebin.com", catHTML) }

func (p *ChessPastebin) Recognize(rawURL string) (*Match, bool) {
	if _, ok := onHost(rawURL, "chesspastebin.com"); !ok {
		return nil, false
	}
	return &Match{URL: rawURL, ID: rawURL, Kind: KindPage}, true
}

func (p *ChessPastebin) Fetch(ctx context.Context, m *Match) (string, error) {
	page, err := p.Client.Fetch(ctx, m.ID, false)
	if err != nil {
		return "", err
	}

	bm := pastebinBoard.FindStringSubmatch(strings.ReplaceAll(page, "\n", ""))
	if bm == nil {
		return "", fmt.Errorf("%w: no board", ErrNotFound)
	}
	text, ok := extract.FirstTagText(page, "div", &extract.AttrMatch{Name: "id", Value: bm[1]})
	if !ok {
		return "", fmt.Errorf("%w: empty board %s", ErrNotFound, bm[1])
	}
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "[") {
		text = "[Annotator \"ChessPastebin.com\"]\n" + text
	}
	return text, nil
}
