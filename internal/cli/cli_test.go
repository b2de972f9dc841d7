package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/law-makers/pgnfetch/internal/provider"
)

func pgnSite(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ".pgn") {
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, "nothing here")
			return
		}
		w.Header().Set("Content-Type", "application/x-chess-pgn")
		fmt.Fprintf(w, "[Event \"%s\"]\r\n\r\n1. e4 e5 *\r\n", strings.TrimSuffix(r.URL.Path[1:], ".pgn"))
	}))
	t.Cleanup(server.Close)
	return server
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Value.Type() != "stringArray" {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

// execute runs the root command with args and returns what it printed
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		resetFlags(c.Flags())
		c.SetContext(context.Background())
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--line-ending", "lf"))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestGet(t *testing.T) {
	server := pgnSite(t)

	stdout, _, err := execute(t, "get", server.URL+"/opera.pgn")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	want := "[Event \"opera\"]\n\n1. e4 e5 *\n"
	if stdout != want {
		t.Errorf("Expected %q, got %q", want, stdout)
	}
}

func TestGet_Output(t *testing.T) {
	server := pgnSite(t)
	path := filepath.Join(t.TempDir(), "game.pgn")

	_, stderr, err := execute(t, "get", server.URL+"/opera.pgn", "--output", path)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !strings.Contains(stderr, "Saved generic game") {
		t.Errorf("Expected a confirmation, got %q", stderr)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(content), "[Event \"opera\"]") {
		t.Errorf("Unexpected file content %q", content)
	}
}

func TestGet_NotPGN(t *testing.T) {
	server := pgnSite(t)
	_, _, err := execute(t, "get", server.URL+"/missing")
	if err == nil {
		t.Fatal("Expected an error")
	}
}

func TestProviders(t *testing.T) {
	stdout, _, err := execute(t, "providers")
	if err != nil {
		t.Fatalf("providers failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 19 {
		t.Errorf("Expected 19 providers, got %d", len(lines))
	}
	if !strings.Contains(stdout, "Lichess") {
		t.Errorf("Expected Lichess in the list, got:\n%s", stdout)
	}
}

func TestBatch(t *testing.T) {
	server := pgnSite(t)
	dir := t.TempDir()

	list := filepath.Join(dir, "games.txt")
	content := fmt.Sprintf("# games\n%s/b.pgn\n\n%s/missing\n", server.URL, server.URL)
	if err := os.WriteFile(list, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "games.pgn")

	_, stderr, err := execute(t, "batch", server.URL+"/a.pgn", "--file", list, "--output", out, "-q")
	if err == nil || !strings.Contains(err.Error(), "1 of 3 URLs failed") {
		t.Errorf("Expected one failure, got %v", err)
	}
	if !strings.Contains(stderr, "2 of 3 games resolved") {
		t.Errorf("Expected a summary, got %q", stderr)
	}

	games, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "[Event \"a\"]\n\n1. e4 e5 *\n\n[Event \"b\"]\n\n1. e4 e5 *\n\n"
	if string(games) != want {
		t.Errorf("Expected games in input order, got %q", games)
	}
}

func TestBatch_NoURL(t *testing.T) {
	if _, _, err := execute(t, "batch"); err == nil {
		t.Error("Expected an error without URLs")
	}
}

func TestReadURLList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte("  https://a.example/1 \n#skip\n\nhttps://b.example/2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	urls, err := readURLList(path)
	if err != nil {
		t.Fatalf("readURLList failed: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://a.example/1" {
		t.Errorf("Unexpected URLs %v", urls)
	}
}

func TestHelp(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{Use: "demo", Short: "Demo command", Example: "  # run\n  demo now"}
	cmd.Flags().String("output", "", "Where to write")
	cmd.SetOut(&buf)

	customHelpFunc(cmd, nil)
	help := buf.String()
	for _, want := range []string{"DEMO", "Demo command", "Examples", "$ demo now", "--output"} {
		if !strings.Contains(help, want) {
			t.Errorf("Expected %q in help:\n%s", want, help)
		}
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four\n- item\n\nnext", 9)
	want := "one two\nthree\nfour\n- item\n\nnext"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExamples_Recognized(t *testing.T) {
	registry := provider.Default(provider.Deps{})
	for _, cmd := range []*cobra.Command{getCmd, batchCmd} {
		for _, field := range strings.Fields(cmd.Example) {
			if !strings.HasPrefix(field, "https://") {
				continue
			}
			p, _, err := provider.Find(registry, field)
			if err != nil {
				t.Errorf("Find(%q) failed: %v", field, err)
				continue
			}
			if p.Name() == "generic" {
				t.Errorf("Expected a dedicated provider for %s example %q", cmd.Name(), field)
			}
		}
	}
}
