package webfetch

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/leofalp/aigotools/internal/utils"
)

// skipped holds elements whose text is never visible.
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
}

// extractText returns the page title and its visible text with every run
// of whitespace, newlines included, collapsed to one space.
func extractText(page []byte) (title, text string) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", utils.CollapseWhitespace(utils.StripHTML(string(page)))
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipped[n.Data] {
				return
			}
			if n.Data == "title" && title == "" && n.FirstChild != nil {
				title = utils.CollapseWhitespace(n.FirstChild.Data)
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title, utils.CollapseWhitespace(b.String())
}
