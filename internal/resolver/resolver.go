// Package resolver turns a game URL into canonical PGN text by dispatching
// it to the first provider that recognizes it.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/pgnfetch/internal/pgn"
	"github.com/law-makers/pgnfetch/internal/provider"
	"github.com/law-makers/pgnfetch/internal/reqctx"
	"github.com/law-makers/pgnfetch/internal/transport"
	urlutil "github.com/law-makers/pgnfetch/internal/utils/url"
	"github.com/law-makers/pgnfetch/pkg/models"
)

// Options tune a Resolver
type Options struct {
	// Annotator is written in rebuilt games that have no header
	Annotator string
	// LineEnding of the output; empty means the host convention
	LineEnding string
	// Timeout bounds a single resolution; zero means no bound
	Timeout time.Duration
	// Registry builds the provider list of each resolution
	Registry func(provider.Deps) []provider.Provider
}

// Resolver dispatches URLs to providers. Safe for concurrent use.
type Resolver struct {
	client     *transport.Client
	annotator  string
	lineEnding string
	timeout    time.Duration
	registry   func(provider.Deps) []provider.Provider
}

// New creates a Resolver downloading through client
func New(client *transport.Client, opts Options) *Resolver {
	if opts.LineEnding == "" {
		opts.LineEnding = HostLineEnding()
	}
	if opts.Registry == nil {
		opts.Registry = provider.Default
	}
	return &Resolver{
		client:     client,
		annotator:  opts.Annotator,
		lineEnding: opts.LineEnding,
		timeout:    opts.Timeout,
		registry:   opts.Registry,
	}
}

// HostLineEnding returns the line terminator of the running platform
func HostLineEnding() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Timeout returns the bound applied to each resolution
func (r *Resolver) Timeout() time.Duration { return r.timeout }

// Providers returns the sorted descriptions of the supported sites
func (r *Resolver) Providers() []string {
	return provider.Descriptions(r.registry(r.deps()))
}

// Resolve downloads the game designated by rawURL and returns it as
// canonical PGN text. The result always starts with '['.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	text, _, err := r.resolve(ctx, rawURL, r.lineEnding)
	return text, err
}

// Fetch resolves opts.URL and reports the outcome with timing details
func (r *Resolver) Fetch(ctx context.Context, opts models.ResolveOptions) (*models.GameData, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	lineEnding := opts.LineEnding
	if lineEnding == "" {
		lineEnding = r.lineEnding
	}

	start := time.Now()
	text, name, err := r.resolve(ctx, opts.URL, lineEnding)
	data := &models.GameData{
		URL:          opts.URL,
		Provider:     name,
		PGN:          text,
		FetchedAt:    start,
		ResponseTime: time.Since(start).Milliseconds(),
	}
	if err != nil {
		data.Error = err.Error()
		return data, err
	}
	return data, nil
}

func (r *Resolver) deps() provider.Deps {
	return provider.Deps{Client: r.client, Annotator: r.annotator}
}

func (r *Resolver) resolve(ctx context.Context, rawURL, lineEnding string) (string, string, error) {
	ctx = reqctx.With(ctx, rawURL)
	logger := reqctx.Logger(ctx, log.Logger)

	if err := urlutil.ValidateURL(rawURL); err != nil {
		logger.Debug().Err(err).Str("url", rawURL).Msg("Rejected URL")
		return "", "", reqctx.Wrap(ctx, NewResolveError(ErrCodeInvalidURL, "cannot resolve", err))
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	// A fresh registry per resolution keeps providers free of shared state
	p, m, err := provider.Find(r.registry(r.deps()), rawURL)
	if err != nil {
		return "", "", reqctx.Wrap(ctx, NewResolveError(ErrCodeNoProvider, "cannot resolve", ErrNoProvider))
	}
	logger.Debug().
		Str("url", rawURL).
		Str("provider", p.Name()).
		Str("kind", string(m.Kind)).
		Str("id", m.ID).
		Msg("Provider selected")

	raw, err := safeFetch(ctx, p, m)
	if err != nil {
		code := classify(err)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			code = ErrCodeTimeout
		}
		logger.Debug().Err(err).Str("provider", p.Name()).Str("code", string(code)).Msg("Download failed")
		return "", p.Name(), reqctx.Wrap(ctx, NewResolveError(code, "download failed", err).WithProvider(p.Name()))
	}

	text, err := pgn.Canonicalize(raw, lineEnding)
	if err != nil {
		logger.Debug().Str("provider", p.Name()).Int("bytes", len(raw)).Msg("Downloaded content is not PGN")
		return "", p.Name(), reqctx.Wrap(ctx, NewResolveError(ErrCodeNotPGN, "unexpected content", err).WithProvider(p.Name()))
	}

	logger.Debug().
		Str("provider", p.Name()).
		Dur("elapsed", time.Since(reqctx.From(ctx).StartTime)).
		Msg("Game resolved")
	return text, p.Name(), nil
}

// safeFetch runs the provider and turns a panic into an error
func safeFetch(ctx context.Context, p provider.Provider, m *provider.Match) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger := reqctx.Logger(ctx, log.Logger)
			logger.Warn().
				Str("provider", p.Name()).
				Interface("panic", rec).
				Msg("Provider crashed")
			text, err = "", fmt.Errorf("%w: %v", ErrProviderPanic, rec)
		}
	}()
	return p.Fetch(ctx, m)
}
