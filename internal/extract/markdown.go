package extract

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// HTMLText converts an HTML fragment to readable Markdown text, folded on a
// single line so it can sit inside a PGN comment.
func HTMLText(fragment string) (string, error) {
	converter := md.NewConverter("", true, nil)
	text, err := converter.ConvertString(fragment)
	if err != nil {
		return "", err
	}
	text = strings.NewReplacer("{", "(", "}", ")").Replace(text)
	return strings.Join(strings.Fields(text), " "), nil
}
