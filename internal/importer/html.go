package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/techblog/internal/richtext"
)

// HTMLImporter handles HTML files.
type HTMLImporter struct{}

func (p *HTMLImporter) Import(r io.Reader, filename string) (*Draft, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var b blocks
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				b.heading(level, htmlInline(n, 0, nil))
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head", "template":
				return
			case "p", "td", "figcaption", "dt", "dd":
				b.paragraph(htmlInline(n, 0, nil))
				return
			case "li":
				b.paragraph(htmlInline(n, 0, []*richtext.Node{richtext.NewText("- ", 0)}))
				return
			case "pre":
				b.code(textContent(n))
				return
			case "blockquote":
				b.quote(htmlInline(n, 0, nil))
				return
			case "hr":
				b.rule()
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// Find <body> or use whole document.
	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	// <title> wins over a leading heading.
	if title := findTitle(doc); title != "" {
		if b.title != "" {
			b.nodes = append([]*richtext.Node{richtext.NewHeading(1, richtext.NewText(b.title, 0))}, b.nodes...)
		}
		b.title = title
	}
	return b.draft(filename), nil
}

// htmlInline flattens n's descendants into text leaves, carrying inline
// styling as format bits.
func htmlInline(n *html.Node, format int, out []*richtext.Node) []*richtext.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			out = appendText(out, collapseSpace(c.Data), format)
		case html.ElementNode:
			switch c.Data {
			case "script", "style":
				continue
			case "br":
				out = appendText(out, "\n", format)
				continue
			}
			out = htmlInline(c, format|inlineFormat(c.Data), out)
		}
	}
	return out
}

func inlineFormat(tag string) int {
	switch tag {
	case "b", "strong":
		return richtext.FormatBold
	case "i", "em":
		return richtext.FormatItalic
	case "s", "del", "strike":
		return richtext.FormatStrikethrough
	case "u", "ins":
		return richtext.FormatUnderline
	case "code", "kbd", "samp", "tt":
		return richtext.FormatCode
	}
	return 0
}

// collapseSpace folds whitespace runs to a single space the way a browser
// lays out normal text.
func collapseSpace(s string) string {
	if s == "" {
		return s
	}
	out := strings.Join(strings.Fields(s), " ")
	if out == "" {
		return " "
	}
	if isSpace(s[0]) {
		out = " " + out
	}
	if isSpace(s[len(s)-1]) {
		out += " "
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return strings.TrimSpace(textContent(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
