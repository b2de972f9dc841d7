package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/law-makers/pgnfetch/internal/provider"
	"github.com/law-makers/pgnfetch/internal/reqctx"
	"github.com/law-makers/pgnfetch/internal/transport"
	"github.com/law-makers/pgnfetch/pkg/models"
)

type stubProvider struct {
	name  string
	fetch func(ctx context.Context, m *provider.Match) (string, error)
	calls atomic.Int32
}

func (s *stubProvider) Name() string        { return s.name }
func (s *stubProvider) Description() string { return s.name + " -- stub" }
func (s *stubProvider) Recognize(rawURL string) (*provider.Match, bool) {
	return &provider.Match{URL: rawURL, ID: rawURL, Kind: provider.KindPage}, true
}
func (s *stubProvider) Fetch(ctx context.Context, m *provider.Match) (string, error) {
	s.calls.Add(1)
	return s.fetch(ctx, m)
}

func stubRegistry(providers ...provider.Provider) func(provider.Deps) []provider.Provider {
	return func(provider.Deps) []provider.Provider { return providers }
}

func pgnServer(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestResolve_Canonical(t *testing.T) {
	body := "\r\n[Event \"A\"]\r\n\r\n\r\n\r\n1. e4 e5 *\r\n\r\n[Event \"B\"]\r\n\r\n1. d4 *\r\n"
	server := pgnServer(t, "application/x-chess-pgn", body)

	tests := []struct {
		name       string
		lineEnding string
		want       string
	}{
		{"unix", "\n", "[Event \"A\"]\n\n1. e4 e5 *"},
		{"windows", "\r\n", "[Event \"A\"]\r\n\r\n1. e4 e5 *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(transport.NewTestClient(server.URL), Options{LineEnding: tt.lineEnding})
			got, err := r.Resolve(context.Background(), "https://example.org/games.pgn")
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResolve_InvalidURL(t *testing.T) {
	r := New(nil, Options{Registry: stubRegistry()})
	for _, u := range []string{"", "lichess.org/CA4bR2b8", "https://", "/game.pgn"} {
		_, err := r.Resolve(context.Background(), u)
		if !errors.Is(err, ErrInvalidURL) {
			t.Errorf("Expected ErrInvalidURL for %q, got %v", u, err)
		}
		if !errors.Is(err, &ResolveError{Code: ErrCodeInvalidURL}) {
			t.Errorf("Expected INVALID_URL code for %q, got %v", u, err)
		}
	}
}

func TestResolve_NotPGN(t *testing.T) {
	server := pgnServer(t, "text/html", "<html><body>Game of the day</body></html>")
	r := New(transport.NewTestClient(server.URL), Options{})

	_, err := r.Resolve(context.Background(), "https://chess-samara.ru/42-game")
	if !errors.Is(err, ErrNotPGN) {
		t.Fatalf("Expected ErrNotPGN, got %v", err)
	}
	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("Expected a ResolveError, got %T", err)
	}
	if re.Provider != "chesssamara" {
		t.Errorf("Expected chesssamara provider, got %q", re.Provider)
	}
	var rq *reqctx.Error
	if !errors.As(err, &rq) || rq.ID == "" {
		t.Errorf("Expected a resolution ID on the error, got %v", err)
	}
}

func TestResolve_NoFallback(t *testing.T) {
	failing := &stubProvider{name: "failing", fetch: func(context.Context, *provider.Match) (string, error) {
		return "", provider.ErrNotFound
	}}
	working := &stubProvider{name: "working", fetch: func(context.Context, *provider.Match) (string, error) {
		return "[Event \"x\"]\n\n1. e4 *", nil
	}}
	r := New(nil, Options{Registry: stubRegistry(failing, working)})

	_, err := r.Resolve(context.Background(), "https://example.org/game")
	if !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if !errors.Is(err, &ResolveError{Code: ErrCodeNotFound}) {
		t.Errorf("Expected NOT_FOUND code, got %v", err)
	}
	if working.calls.Load() != 0 {
		t.Errorf("Expected no fallback, second provider called %d times", working.calls.Load())
	}
}

func TestResolve_Panic(t *testing.T) {
	crashing := &stubProvider{name: "crashing", fetch: func(context.Context, *provider.Match) (string, error) {
		var m map[string]int
		m["boom"]++
		return "", nil
	}}
	r := New(nil, Options{Registry: stubRegistry(crashing)})

	got, err := r.Resolve(context.Background(), "https://example.org/game")
	if got != "" {
		t.Errorf("Expected no output, got %q", got)
	}
	if !errors.Is(err, ErrProviderPanic) {
		t.Errorf("Expected ErrProviderPanic, got %v", err)
	}
}

func TestResolve_NoProvider(t *testing.T) {
	r := New(nil, Options{Registry: stubRegistry()})
	_, err := r.Resolve(context.Background(), "https://example.org/game")
	if !errors.Is(err, ErrNoProvider) {
		t.Errorf("Expected ErrNoProvider, got %v", err)
	}
}

func TestResolve_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	r := New(transport.NewTestClient(server.URL), Options{Timeout: 50 * time.Millisecond})
	_, err := r.Resolve(context.Background(), "https://chess-samara.ru/42-game")
	if !errors.Is(err, &ResolveError{Code: ErrCodeTimeout}) {
		t.Errorf("Expected TIMEOUT code, got %v", err)
	}
}

func TestResolver_Providers(t *testing.T) {
	descs := New(nil, Options{}).Providers()
	if len(descs) != 19 {
		t.Errorf("Expected 19 providers, got %d", len(descs))
	}
	if !sort.StringsAreSorted(descs) {
		t.Errorf("Expected sorted descriptions, got %v", descs)
	}
}

func TestResolver_Fetch(t *testing.T) {
	server := pgnServer(t, "application/x-chess-pgn", "[Event \"A\"]\n\n1. e4 *")
	r := New(transport.NewTestClient(server.URL), Options{})

	data, err := r.Fetch(context.Background(), models.ResolveOptions{URL: "https://example.org/a.pgn", LineEnding: "\n"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !data.OK() {
		t.Errorf("Expected a resolved game, got %+v", data)
	}
	if data.Provider != "generic" {
		t.Errorf("Expected generic provider, got %q", data.Provider)
	}
	if data.FetchedAt.IsZero() {
		t.Error("Expected FetchedAt to be set")
	}
}

func TestResolveBatch(t *testing.T) {
	var inFlight, peak atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		if strings.Contains(r.URL.Path, "missing") {
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, "nothing here")
			return
		}
		w.Header().Set("Content-Type", "application/x-chess-pgn")
		fmt.Fprintf(w, "[Event \"%s\"]\n\n1. e4 *", r.URL.Path)
	}))
	defer server.Close()

	r := New(transport.NewTestClient(server.URL), Options{LineEnding: "\n"})
	requests := []models.ResolveOptions{
		{URL: "https://a.example/1.pgn"},
		{URL: "https://a.example/2.pgn"},
		{URL: "https://b.example/3.pgn"},
		{URL: "https://b.example/missing"},
		{URL: "https://c.example/5.pgn"},
	}

	count, failures := 0, 0
	for res := range r.ResolveBatch(context.Background(), requests, 2) {
		count++
		if res.Error != nil {
			failures++
		}
		if res.Data == nil {
			t.Error("Expected result data even on failure")
		}
	}

	if count != len(requests) {
		t.Errorf("Expected %d results, got %d", len(requests), count)
	}
	if failures != 1 {
		t.Errorf("Expected 1 failure, got %d", failures)
	}
	if peak.Load() > 2 {
		t.Errorf("Expected at most 2 concurrent downloads, got %d", peak.Load())
	}
}

func TestResolveBatch_Cancelled(t *testing.T) {
	slow := &stubProvider{name: "slow", fetch: func(ctx context.Context, m *provider.Match) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	r := New(nil, Options{Registry: stubRegistry(slow)})

	ctx, cancel := context.WithCancel(context.Background())
	requests := make([]models.ResolveOptions, 10)
	for i := range requests {
		requests[i].URL = fmt.Sprintf("https://example.org/%d", i)
	}
	results := r.ResolveBatch(ctx, requests, 1)
	cancel()

	count := 0
	for range results {
		count++
	}
	if count > len(requests) {
		t.Errorf("Expected at most %d results, got %d", len(requests), count)
	}
}

func TestGroupBySite(t *testing.T) {
	order, groups := groupBySite([]models.ResolveOptions{
		{URL: "https://www.lichess.org/a"},
		{URL: "https://chess.com/b"},
		{URL: "https://lichess.org/c"},
	})
	if len(order) != 2 || order[0] != "lichess.org" {
		t.Fatalf("Unexpected site order %v", order)
	}
	if len(groups["lichess.org"]) != 2 {
		t.Errorf("Expected 2 lichess requests, got %d", len(groups["lichess.org"]))
	}
}

func TestClassify_Status(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{&transport.StatusError{Code: http.StatusNotFound}, ErrCodeNotFound},
		{&transport.StatusError{Code: http.StatusGone}, ErrCodeNotFound},
		{fmt.Errorf("page: %w", &transport.StatusError{Code: http.StatusBadGateway}), ErrCodeNetwork},
		{provider.ErrMalformed, ErrCodeParse},
	}
	for _, tt := range tests {
		if got := classify(tt.err); got != tt.want {
			t.Errorf("classify(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
