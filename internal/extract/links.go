package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	urlutil "github.com/law-makers/pgnfetch/internal/utils/url"
)

// PGNLinks collects the href of every anchor whose path ends in ".pgn".
// Links without a host are rebuilt on the origin of base.
func PGNLinks(page, base string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}
	var links []string
	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		u, err := url.Parse(href)
		if err != nil || !strings.HasSuffix(strings.ToLower(u.Path), ".pgn") {
			return
		}
		links = append(links, urlutil.OnOrigin(base, href))
	})
	return links
}
