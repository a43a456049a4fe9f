package googlesearch

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Class names used by the light results layout.
const (
	classResult      = "ezO2md"
	classTitle       = "CVA68e"
	classDescription = "FrIlee"
)

// rawResult is one result block as found on the page. Any field may be
// empty; the mapper decides what is usable.
type rawResult struct {
	Href        string
	Title       string
	Description string
}

// parseResults extracts every result block from a results page.
func parseResults(r io.Reader) ([]rawResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing results page: %w", err)
	}

	var results []rawResult
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, classResult) {
			results = append(results, parseBlock(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results, nil
}

func parseBlock(block *html.Node) rawResult {
	var res rawResult
	if link := find(block, func(n *html.Node) bool { return n.Data == "a" && attr(n, "href") != "" }); link != nil {
		res.Href = attr(link, "href")
		if title := find(link, func(n *html.Node) bool { return n.Data == "span" && hasClass(n, classTitle) }); title != nil {
			res.Title = text(title)
		}
	}
	if desc := find(block, func(n *html.Node) bool { return n.Data == "span" && hasClass(n, classDescription) }); desc != nil {
		res.Description = text(desc)
	}
	return res
}

// find returns the first element below n, in document order, matching fn.
func find(n *html.Node, fn func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && fn(c) {
			return c
		}
		if found := find(c, fn); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
