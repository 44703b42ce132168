// Package extract pulls readable text out of HTML when the readability
// extractor comes up empty. It keeps paragraph and heading structure while
// skipping navigation, tables, and other boilerplate containers.
package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Text returns the visible text of an HTML document. Parsing failures yield
// an empty string so callers can fall through to the raw body.
func Text(input []byte) string {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return ""
	}
	root := firstElement(node, "main")
	if root == nil {
		root = firstElement(node, "article")
	}
	if root == nil {
		root = firstElement(node, "body")
	}
	if root == nil {
		return ""
	}
	var b strings.Builder
	walk(&b, root)
	return tidy(b.String())
}

// skipTags are containers whose content is navigation, chrome, or tabular
// noise rather than prose.
var skipTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "nav": {}, "header": {},
	"footer": {}, "aside": {}, "iframe": {}, "form": {}, "table": {},
	"button": {}, "svg": {},
}

func walk(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		name := strings.ToLower(n.Data)
		if _, skip := skipTags[name]; skip {
			return
		}
		switch name {
		case "br", "hr", "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n")
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(b, c)
	}
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			b.WriteString("\n")
		}
	}
}

func firstElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// tidy collapses whitespace runs and drops repeated blank lines.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.Join(strings.Fields(line), " ")
		if trimmed == "" {
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}
			if len(out) == 0 {
				continue
			}
			out = append(out, "")
			continue
		}
		out = append(out, trimmed)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
