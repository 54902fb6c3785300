package importer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/techblog/internal/richtext"
)

// MarkdownImporter handles Markdown files using goldmark.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*Draft, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var b blocks
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		mdBlock(&b, n, src)
	}
	return b.draft(filename), nil
}

func mdBlock(b *blocks, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Heading:
		b.heading(node.Level, mdInline(node, src, 0, nil))
	case *ast.Paragraph, *ast.TextBlock:
		b.paragraph(mdInline(node, src, 0, nil))
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		b.code(blockLines(node, src))
	case *ast.Blockquote:
		var inline []*richtext.Node
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			if len(inline) > 0 {
				inline = appendText(inline, " ", 0)
			}
			inline = mdInline(c, src, 0, inline)
		}
		b.quote(inline)
	case *ast.ThematicBreak:
		b.rule()
	case *ast.List:
		i := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "- "
			if node.IsOrdered() {
				marker = fmt.Sprintf("%d. ", i)
				i++
			}
			inline := []*richtext.Node{richtext.NewText(marker, 0)}
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				if _, nested := c.(*ast.List); nested {
					continue
				}
				inline = mdInline(c, src, 0, inline)
			}
			b.paragraph(inline)
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				if nested, ok := c.(*ast.List); ok {
					mdBlock(b, nested, src)
				}
			}
		}
	case *ast.HTMLBlock:
		// Raw HTML has no equivalent in the editor state.
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			mdBlock(b, c, src)
		}
	}
}

// mdInline flattens the inline children of n into text leaves.
func mdInline(n ast.Node, src []byte, format int, out []*richtext.Node) []*richtext.Node {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			out = appendText(out, string(node.Segment.Value(src)), format)
			switch {
			case node.HardLineBreak():
				out = appendText(out, "\n", format)
			case node.SoftLineBreak():
				out = appendText(out, " ", format)
			}
		case *ast.String:
			out = appendText(out, string(node.Value), format)
		case *ast.CodeSpan:
			var buf bytes.Buffer
			for t := node.FirstChild(); t != nil; t = t.NextSibling() {
				if seg, ok := t.(*ast.Text); ok {
					buf.Write(seg.Segment.Value(src))
				}
			}
			out = appendText(out, buf.String(), format|richtext.FormatCode)
		case *ast.Emphasis:
			style := richtext.FormatItalic
			if node.Level >= 2 {
				style = richtext.FormatBold
			}
			out = mdInline(node, src, format|style, out)
		case *ast.AutoLink:
			out = appendText(out, string(node.URL(src)), format)
		case *ast.RawHTML:
		default:
			out = mdInline(node, src, format, out)
		}
	}
	return out
}

func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}
