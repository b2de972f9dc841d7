package provider

import "sort"

// Default returns a fresh registry in recognition order. Generic accepts
// every URL and therefore comes last.
func Default(deps Deps) []Provider {
	return []Provider{
		&Lichess{Deps: deps},
		&ChessGames{Deps: deps},
		&FicsGames{Deps: deps},
		&ChessTempo{Deps: deps},
		&Chess24{Deps: deps},
		&Chess365{Deps: deps},
		&ChessPastebin{Deps: deps},
		&ChessBomb{Deps: deps},
		&TheChessWorld{Deps: deps},
		&ChessOrg{Deps: deps},
		&EuropeEchecs{Deps: deps},
		&GameKnot{Deps: deps},
		&ChessCom{Deps: deps},
		&SchachSpielen{Deps: deps},
		&RedHotPawn{Deps: deps},
		&ChessSamara{Deps: deps},
		&Chess2700{Deps: deps},
		&ICCF{Deps: deps},
		&Generic{Deps: deps},
	}
}

// Find returns the first provider of registry that recognizes rawURL
func Find(registry []Provider, rawURL string) (Provider, *Match, error) {
	for _, p := range registry {
		if m, ok := p.Recognize(rawURL); ok {
			return p, m, nil
		}
	}
	return nil, nil, ErrNotRecognized
}

// Descriptions lists the descriptions of registry, sorted
func Descriptions(registry []Provider) []string {
	out := make([]string, 0, len(registry))
	for _, p := range registry {
		out = append(out, p.Description())
	}
	sort.Strings(out)
	return out
}
