package textutil

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup reduces pasted rich text to plain visible text. Judges paste
// speech text from docs and web pages; anything that parses as HTML is
// walked and reduced to its text nodes, skipping script/style containers.
// Plain text passes through with whitespace trimmed.
func StripMarkup(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.Contains(trimmed, "<") || !strings.Contains(trimmed, ">") {
		return trimmed
	}

	doc, err := html.Parse(strings.NewReader(trimmed))
	if err != nil {
		return trimmed
	}
	return strings.TrimSpace(visibleText(doc))
}

// visibleText extracts text nodes, skipping invisible containers
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
