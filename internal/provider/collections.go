package provider

import (
	"context"
	"regexp"
	"strings"
)

var (
	chessWorldURI   = regexp.MustCompile(`(?i)pgn_uri:.*'([^']+)'`)
	europeEchecsDoc = regexp.MustCompile(`(?i)class="cbwidget"\s+id="([0-9a-f]+)_container"`)
)

// TheChessWorld collects the games referenced by thechessworld.com articles
type TheChessWorld struct {
	Deps
}

func (p *TheChessWorld) Name() string { return "thechessworld" }

func (p *TheChessWorld) Description() string { return description("TheChessWorld.com", catDownload) }

func (p *TheChessWorld) Recognize(rawURL string) (*Match, bool) {
	if _, ok := onHost(rawURL, "thechessworld.com"); !ok {
		return nil, false
	}
	return &Match{URL: rawURL, ID: rawURL, Kind: KindPage}, true
}

func (p *TheChessWorld) Fetch(ctx context.Context, m *Match) (string, error) {
	links, err := linksFromPage(ctx, p.Deps, m.ID, chessWorldURI, func(s string) string {
		return "https://www.thechessworld.com" + s
	})
	if err != nil {
		return "", err
	}
	return p.Client.FetchMany(ctx, links, false)
}

// EuropeEchecs collects the games shown in europe-echecs.com widgets
type EuropeEchecs struct {
	Deps
}

func (p *EuropeEchecs) Name() string { return "europeechecs" }

func (p *EuropeEchecs) Description() string { return description("Europe-Echecs.com", catDownload) }

func (p *EuropeEchecs) Recognize(rawURL string) (*Match, bool) {
	if _, ok := onHost(rawURL, "europe-echecs.com"); !ok {
		return nil, false
	}
	return &Match{URL: rawURL, ID: rawURL, Kind: KindPage}, true
}

func (p *EuropeEchecs) Fetch(ctx context.Context, m *Match) (string, error) {
	links, err := linksFromPage(ctx, p.Deps, m.ID, europeEchecsDoc, func(s string) string {
		return "https://www.europe-echecs.com/embed/doc_" + s + ".pgn"
	})
	if err != nil {
		return "", err
	}
	return p.Client.FetchMany(ctx, links, false)
}

// linksFromPage returns pageURL itself when it is a PGN file. Otherwise it
// downloads the page and builds one link per line matched by rx.
func linksFromPage(ctx context.Context, d Deps, pageURL string, rx *regexp.Regexp, build func(string) string) ([]string, error) {
	if strings.HasSuffix(strings.ToLower(pageURL), ".pgn") {
		return []string{pageURL}, nil
	}
	page, err := d.Client.Fetch(ctx, pageURL, false)
	if err != nil {
		return nil, err
	}
	var links []string
	for _, line := range strings.Split(page, "\n") {
		if lm := rx.FindStringSubmatch(line); lm != nil {
			links = append(links, build(lm[1]))
		}
	}
	return links, nil
}
