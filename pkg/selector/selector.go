// Package selector queries HTML response bodies with CSS selectors and
// XPath expressions.
package selector

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Document is a parsed HTML body
type Document struct {
	root *html.Node
}

// Parse parses body as HTML. contentType, when it names a charset, is
// used to decode the body to UTF-8 first.
func Parse(body, contentType string) (*Document, error) {
	var r io.Reader = strings.NewReader(body)
	if strings.Contains(strings.ToLower(contentType), "charset=") {
		if decoded, err := charset.NewReader(r, contentType); err == nil {
			r = decoded
		}
	}

	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &Document{root: root}, nil
}

// Compile checks a CSS selector without running it
func Compile(css string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(css)
	if err != nil {
		return nil, fmt.Errorf("invalid CSS selector %q: %w", css, err)
	}
	return sel, nil
}

// CSS returns the nodes matching a CSS selector in document order
func (d *Document) CSS(css string) (Selection, error) {
	sel, err := Compile(css)
	if err != nil {
		return nil, err
	}
	return Selection(cascadia.QueryAll(d.root, sel)), nil
}

// XPath returns the nodes matching an XPath expression
func (d *Document) XPath(expr string) (Selection, error) {
	nodes, err := htmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath %q: %w", expr, err)
	}
	return Selection(nodes), nil
}

// Selection is an ordered set of matched nodes
type Selection []*html.Node

// Texts returns the trimmed inner text of each node
func (s Selection) Texts() []string {
	out := make([]string, len(s))
	for i, node := range s {
		out[i] = strings.TrimSpace(htmlquery.InnerText(node))
	}
	return out
}

// Attrs returns the named attribute of each node that carries it
func (s Selection) Attrs(name string) []string {
	out := []string{}
	for _, node := range s {
		for _, attr := range node.Attr {
			if attr.Key == name {
				out = append(out, attr.Val)
				break
			}
		}
	}
	return out
}

// HTML renders each node back to markup
func (s Selection) HTML() ([]string, error) {
	out := make([]string, len(s))
	for i, node := range s {
		var buf bytes.Buffer
		if err := html.Render(&buf, node); err != nil {
			return nil, err
		}
		out[i] = buf.String()
	}
	return out, nil
}
