package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Tag is an opening tag matched by ScanTags with the first text that
// follows it in the document.
type Tag struct {
	Attrs map[string]string
	Text  string
}

// AttrMatch restricts ScanTags to tags carrying Name=Value. An empty Value
// only requires the attribute to be present.
type AttrMatch struct {
	Name  string
	Value string
}

// ScanTags walks page once and returns every opening tagName (matched case
// insensitively) that satisfies match, paired with the first text token
// seen after it. Nesting is not tracked.
func ScanTags(page, tagName string, match *AttrMatch) []Tag {
	var (
		out     []Tag
		pending []int
	)
	tagName = strings.ToLower(tagName)
	z := html.NewTokenizer(strings.NewReader(page))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if strings.ToLower(tok.Data) != tagName {
				continue
			}
			attrs := make(map[string]string, len(tok.Attr))
			for _, a := range tok.Attr {
				attrs[strings.ToLower(a.Key)] = a.Val
			}
			if match != nil {
				v, ok := attrs[strings.ToLower(match.Name)]
				if !ok || (match.Value != "" && v != match.Value) {
					continue
				}
			}
			out = append(out, Tag{Attrs: attrs})
			pending = append(pending, len(out)-1)
		case html.TextToken:
			if len(pending) == 0 {
				continue
			}
			text := string(z.Text())
			for _, i := range pending {
				out[i].Text = text
			}
			pending = pending[:0]
		}
	}
}

// FirstTagText returns the text following the first matching tag.
func FirstTagText(page, tagName string, match *AttrMatch) (string, bool) {
	tags := ScanTags(page, tagName, match)
	if len(tags) == 0 || tags[0].Text == "" {
		return "", false
	}
	return tags[0].Text, true
}
