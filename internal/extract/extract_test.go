package extract

import (
	"strings"
	"testing"
)

func TestPath(t *testing.T) {
	doc, err := Decode(`{"game":{"status":{"name":"started"},"players":[{"name":"a"},{"name":"b"}],"clock":null,"rating":1500}}`)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	tests := []struct {
		path string
		want string
	}{
		{"game/status/name", "started"},
		{"game/players/1/name", "b"},
		{"game/rating", "1500"},
		{"game/clock", ""},
		{"game/missing/name", ""},
		{"a/b", ""},
		{"game/players/7/name", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := String(doc, tt.path); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	if v := Path(doc, "a/b"); !Absent(v) {
		t.Errorf("Expected absent sentinel, got %#v", v)
	}
	if v := Path(nil, "a"); v != "" {
		t.Errorf("Expected empty string for nil document, got %#v", v)
	}
	if l := List(doc, "game/players"); len(l) != 2 {
		t.Errorf("Expected 2 players, got %d", len(l))
	}
	if n, ok := Int(doc, "game/rating"); !ok || n != 1500 {
		t.Errorf("Expected rating 1500, got %d (%v)", n, ok)
	}
}

func TestDecodeLoose(t *testing.T) {
	if _, err := Decode(`{id: 'x'}`); err == nil {
		t.Fatal("Expected strict decoding to fail")
	}
	doc, err := DecodeLoose(`{id: 'x'}`)
	if err != nil {
		t.Fatalf("DecodeLoose failed: %v", err)
	}
	if got := String(doc, "id"); got != "x" {
		t.Errorf("Expected id 'x', got %q", got)
	}
	if _, err := DecodeLoose("   "); err == nil {
		t.Error("Expected error for empty document")
	}
}

func TestExtractBalanced(t *testing.T) {
	text := `var x = init('live', {"a":{"b":{"c":1}},"d":2}); more {`
	got, ok := ExtractBalanced(text, "init(")
	if !ok {
		t.Fatal("Expected balanced extraction to succeed")
	}
	if got != `{"a":{"b":{"c":1}},"d":2}` {
		t.Errorf("Unexpected substring: %s", got)
	}

	if _, ok := ExtractBalanced(`marker {"a":{"b":1}`, "marker"); ok {
		t.Error("Expected failure on mismatched braces")
	}
	if _, ok := ExtractBalanced(`{"a":1}`, "absent"); ok {
		t.Error("Expected failure when marker is missing")
	}
	if _, ok := BalancedAt("abc", 1); ok {
		t.Error("Expected failure when start is not a brace")
	}
}

func TestBetweenAndQuoted(t *testing.T) {
	if got, ok := Between(`x.ApplyPgnMoveText('1.e4 e5')`, ".ApplyPgnMoveText('", "')"); !ok || got != "1.e4 e5" {
		t.Errorf("Between = %q, %v", got, ok)
	}
	if got, ok := Quoted(`var g_startFenStr = '8/8/8/8/8/8/8/K6k w - - 0 1';`, "g_startFenStr", '\''); !ok || got != "8/8/8/8/8/8/8/K6k w - - 0 1" {
		t.Errorf("Quoted = %q, %v", got, ok)
	}
	if _, ok := Quoted(`var name = 'open`, "name", '\''); ok {
		t.Error("Expected failure on unterminated quote")
	}
}

func TestScanTags(t *testing.T) {
	page := `<html><body>
<div id="12_board"></div>
<div id="12">[Event &quot;Test&quot;]</div>
<DIV ID="13">other</DIV>
<textarea id="pgnText">[White "A"]</textarea>
</body></html>`

	got, ok := FirstTagText(page, "div", &AttrMatch{Name: "id", Value: "12"})
	if !ok || got != `[Event "Test"]` {
		t.Errorf("Expected unescaped div text, got %q (%v)", got, ok)
	}

	tags := ScanTags(page, "div", nil)
	if len(tags) != 3 {
		t.Fatalf("Expected 3 div tags, got %d", len(tags))
	}
	if tags[2].Attrs["id"] != "13" || tags[2].Text != "other" {
		t.Errorf("Expected case insensitive match, got %+v", tags[2])
	}

	if got, ok := FirstTagText(page, "textarea", &AttrMatch{Name: "id", Value: "pgnText"}); !ok || got != `[White "A"]` {
		t.Errorf("Expected textarea content, got %q", got)
	}
	if _, ok := FirstTagText(page, "textarea", &AttrMatch{Name: "id", Value: "nope"}); ok {
		t.Error("Expected no match for unknown id")
	}
}

func TestJSString(t *testing.T) {
	got, err := JSString(`"[Event \"x\"]\n1. e4 \/ done"`)
	if err != nil {
		t.Fatalf("JSString failed: %v", err)
	}
	if got != "[Event \"x\"]\n1. e4 / done" {
		t.Errorf("Unexpected value: %q", got)
	}

	if _, err := JSString(`alert(1)`); err == nil {
		t.Error("Expected error for a non literal")
	}

	lit, ok := StringLiteralAt(`analysis.setPgn("a \"b\" c");`, 16)
	if !ok || lit != `"a \"b\" c"` {
		t.Errorf("StringLiteralAt = %q, %v", lit, ok)
	}
}

func TestVariables(t *testing.T) {
	script := `var anbd_movelist = 'e2e4-e7e5-'; var anbd_result = 1; var anbd_rating_w = 0; var anbd_player_w = 'Bob'`
	vars := Variables(script, map[string]bool{
		"anbd_movelist": true,
		"anbd_result":   false,
		"anbd_rating_w": false,
		"anbd_player_w": true,
	})
	if vars["anbd_movelist"] != "e2e4-e7e5-" {
		t.Errorf("Unexpected movelist %q", vars["anbd_movelist"])
	}
	if vars["anbd_result"] != "1" {
		t.Errorf("Unexpected result %q", vars["anbd_result"])
	}
	if _, ok := vars["anbd_rating_w"]; ok {
		t.Error("Expected zero rating to be skipped")
	}
	if vars["anbd_player_w"] != "Bob" {
		t.Errorf("Unexpected player %q", vars["anbd_player_w"])
	}
}

func TestPGNLinks(t *testing.T) {
	page := `<a href="/files/a.pgn">a</a> <a href=" https://x.org/b.PGN?x=1 ">b</a> <a href="c.html">c</a> <a href="d.pgn">d</a>`
	links := PGNLinks(page, "https://site.com/dir/page.html")
	want := []string{"https://site.com/files/a.pgn", "https://x.org/b.PGN?x=1", "https://site.com/d.pgn"}
	if strings.Join(links, " ") != strings.Join(want, " ") {
		t.Errorf("PGNLinks = %v, want %v", links, want)
	}
}

func TestHTMLText(t *testing.T) {
	got, err := HTMLText("<b>White</b> to play\n and win {mate}")
	if err != nil {
		t.Fatalf("HTMLText failed: %v", err)
	}
	if strings.Contains(got, "<b>") || !strings.Contains(got, "to play and win (mate)") {
		t.Errorf("Unexpected text: %q", got)
	}
}
