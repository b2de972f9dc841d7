package pgn

import (
	"errors"
	"strings"
	"testing"
)

func TestRecord_KeepsInsertionOrder(t *testing.T) {
	rec := NewRecord()
	rec.Set("White", "a")
	rec.Set("Black", "b")
	rec.Set("White", "c")
	rec.Set(KeyMoves, "1. e4")

	keys := rec.Keys()
	want := []string{"White", "Black", KeyMoves}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Fatalf("Expected keys %v, got %v", want, keys)
	}
	if rec.Get("White") != "c" {
		t.Errorf("Expected overwritten value 'c', got '%s'", rec.Get("White"))
	}
	if tags := rec.Tags(); len(tags) != 2 {
		t.Errorf("Expected 2 tags, got %v", tags)
	}

	rec.Delete("Black")
	if rec.Has("Black") || len(rec.Keys()) != 2 {
		t.Errorf("Expected Black to be deleted, got %v", rec.Keys())
	}
}

func TestRebuild(t *testing.T) {
	rec := NewRecord()
	rec.Set("Event", "Casual")
	rec.Set("Site", "")
	rec.Set("Result", "1-0")
	rec.Set(KeyURL, "https://example.com/g/1")
	rec.Set(KeyMoves, "1. e4 e5")
	rec.Set(KeyReason, "White resigned")

	out, err := Rebuild(rec, "agent")
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	want := "[Event \"Casual\"]\n[Result \"1-0\"]\n\n{https://example.com/g/1}\n1. e4 e5 {White resigned} 1-0"
	if out != want {
		t.Errorf("Unexpected output:\n%q\nwant\n%q", out, want)
	}
}

func TestRebuild_AnnotatorFallback(t *testing.T) {
	rec := NewRecord()
	rec.Set(KeyMoves, "1. d4")

	out, err := Rebuild(rec, "Agent/1.0")
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if out != "[Annotator \"Agent/1.0\"]\n\n1. d4" {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestRebuild_RejectsEmptyMoves(t *testing.T) {
	tests := []struct {
		name string
		rec  *Record
	}{
		{"nil record", nil},
		{"absent moves", NewRecord()},
		{"empty moves", func() *Record { r := NewRecord(); r.Set(KeyMoves, ""); r.Set("White", "x"); return r }()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Rebuild(tt.rec, "agent"); !errors.Is(err, ErrNoMoves) {
				t.Errorf("Expected ErrNoMoves, got %v", err)
			}
		})
	}
}

func TestCollapseBlankLines(t *testing.T) {
	in := "[A]\n\n\n\n\n1. e4\n\n\n\n[B]"
	once := CollapseBlankLines(in)
	if once != "[A]\n\n1. e4\n\n[B]" {
		t.Errorf("Unexpected collapse: %q", once)
	}
	if twice := CollapseBlankLines(once); twice != once {
		t.Errorf("Collapse is not idempotent: %q vs %q", once, twice)
	}
}

func TestFirstGame(t *testing.T) {
	if got := FirstGame("[A]\nmoves1\n\n[B]\nmoves2"); got != "[A]\nmoves1" {
		t.Errorf("Expected first game only, got %q", got)
	}
	if got := FirstGame("[A]\n\n1. e4"); got != "[A]\n\n1. e4" {
		t.Errorf("Expected single game untouched, got %q", got)
	}
}

func TestCanonicalize(t *testing.T) {
	out, err := Canonicalize("  \n[A \"1\"]\n\n\n\n1. e4\n\n\n[B \"2\"]\n\n1. d4\n", "\r\n")
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if out != "[A \"1\"]\r\n\r\n1. e4" {
		t.Errorf("Unexpected output: %q", out)
	}

	if _, err := Canonicalize("<html>nope</html>", "\n"); !errors.Is(err, ErrNotPGN) {
		t.Errorf("Expected ErrNotPGN, got %v", err)
	}
	if _, err := Canonicalize("   ", "\n"); !errors.Is(err, ErrNotPGN) {
		t.Errorf("Expected ErrNotPGN for blank input, got %v", err)
	}
}
