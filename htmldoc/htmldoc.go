// Package htmldoc extracts text from HTML documents.
//
// Block-level elements (headings, paragraphs, list items, blockquotes,
// preformatted blocks) become blank-line-separated blocks. Tables are
// rendered as pipe-delimited rows between [TABLE] and [/TABLE] markers.
// Script, style, and other non-content elements are skipped.
package htmldoc

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// blockElements emit their accumulated text as one block.
var blockElements = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "li": true, "blockquote": true, "pre": true,
	"dt": true, "dd": true, "figcaption": true,
}

// skipElements contribute no text at all.
var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"head": true, "template": true, "iframe": true,
}

// Extract reads an HTML file and returns its linearized text.
func Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	return render(root), nil
}

// Parse extracts text from HTML held in memory.
func Parse(data []byte) (string, error) {
	root, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	return render(root), nil
}

type renderer struct {
	blocks []string
	// pending collects inline text until a block boundary flushes it.
	pending strings.Builder
}

func render(root *html.Node) string {
	r := &renderer{}
	r.walk(root)
	r.flush()
	return strings.Join(r.blocks, "\n\n")
}

func (r *renderer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		r.pending.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipElements[n.Data] {
			return
		}
		if n.Data == "table" {
			r.flush()
			if t := renderTable(n); t != "" {
				r.blocks = append(r.blocks, t)
			}
			return
		}
		if n.Data == "br" {
			r.pending.WriteString(" ")
			return
		}
		if blockElements[n.Data] {
			r.flush()
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.walk(c)
	}

	if n.Type == html.ElementNode && blockElements[n.Data] {
		r.flush()
	}
}

// flush turns accumulated inline text into a block, collapsing internal
// whitespace runs.
func (r *renderer) flush() {
	text := strings.Join(strings.Fields(r.pending.String()), " ")
	r.pending.Reset()
	if text != "" {
		r.blocks = append(r.blocks, text)
	}
}

// renderTable produces the pipe-delimited table block. Nested markup
// inside cells is reduced to its text.
func renderTable(table *html.Node) string {
	var rows []string
	var visitRows func(n *html.Node)
	visitRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					if cell := cellText(c); cell != "" {
						cells = append(cells, cell)
					}
				}
			}
			if len(cells) > 0 {
				rows = append(rows, strings.Join(cells, " | "))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visitRows(c)
		}
	}
	visitRows(table)

	if len(rows) == 0 {
		return ""
	}
	return "[TABLE]\n" + strings.Join(rows, "\n") + "\n[/TABLE]"
}

func cellText(n *html.Node) string {
	var sb strings.Builder
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
			return
		}
		if n.Type == html.ElementNode && skipElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
