package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/law-makers/pgnfetch/pkg/models"
)

func sampleGames() []*models.GameData {
	return []*models.GameData{
		{URL: "https://lichess.org/CA4bR2b8", Provider: "lichess", PGN: "[Event \"A\"]\n\n1. e4 *", ResponseTime: 12},
		{URL: "https://example.org/missing", Provider: "generic", Error: "NOT_FOUND: download failed"},
		{URL: "https://example.org/b.pgn", Provider: "generic", PGN: "[Event \"B\"]\n\n1. d4 *"},
	}
}

func TestSavePGN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.pgn")

	n, err := SavePGN(sampleGames(), path, "\n", false)
	if err != nil {
		t.Fatalf("SavePGN failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 games written, got %d", n)
	}
	if _, err := SavePGN(sampleGames()[:1], path, "\n", true); err != nil {
		t.Fatalf("SavePGN append failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "[Event \"A\"]\n\n1. e4 *\n\n[Event \"B\"]\n\n1. d4 *\n\n[Event \"A\"]\n\n1. e4 *\n\n"
	if string(content) != want {
		t.Errorf("Unexpected file content:\n%q", content)
	}
}

func TestSave_Formats(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "games.json")
	if err := Save(sampleGames(), jsonPath, "\n", false); err != nil {
		t.Fatalf("Save JSON failed: %v", err)
	}
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var decoded []models.GameData
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(decoded) != 3 || decoded[1].Error == "" {
		t.Errorf("Unexpected JSON export: %+v", decoded)
	}

	csvPath := filepath.Join(dir, "report.CSV")
	if err := Save(sampleGames(), csvPath, "\n", false); err != nil {
		t.Fatalf("Save CSV failed: %v", err)
	}
	raw, err = os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header and 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[2], "https://example.org/missing,generic,failed,") {
		t.Errorf("Unexpected failed row %q", lines[2])
	}
}

func TestSaveJSON_Single(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	if err := SaveJSON(sampleGames()[:1], path); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var g models.GameData
	if err := json.Unmarshal(raw, &g); err != nil {
		t.Fatalf("Expected a single object: %v", err)
	}
	if g.Provider != "lichess" {
		t.Errorf("Expected lichess, got %q", g.Provider)
	}
}
