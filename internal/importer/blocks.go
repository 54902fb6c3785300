package importer

import (
	"strings"

	"github.com/dgallion1/techblog/internal/richtext"
)

// blocks accumulates top-level document blocks. A level-one heading that
// precedes all other content is taken as the title instead of a block.
type blocks struct {
	title string
	nodes []*richtext.Node
}

func (b *blocks) heading(level int, inline []*richtext.Node) {
	text := inlineText(inline)
	if text == "" {
		return
	}
	if level == 1 && b.title == "" && len(b.nodes) == 0 {
		b.title = text
		return
	}
	if level < 1 || level > 6 {
		level = 1
	}
	b.nodes = append(b.nodes, richtext.NewHeading(level, inline...))
}

func (b *blocks) paragraph(inline []*richtext.Node) {
	if inlineText(inline) == "" {
		return
	}
	b.nodes = append(b.nodes, richtext.NewElement(richtext.KindParagraph, trimInline(inline)...))
}

func (b *blocks) text(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	b.paragraph([]*richtext.Node{richtext.NewText(s, 0)})
}

func (b *blocks) code(s string) {
	s = strings.TrimRight(s, "\n")
	if strings.TrimSpace(s) == "" {
		return
	}
	b.nodes = append(b.nodes, richtext.NewCodeBlock(s))
}

func (b *blocks) quote(inline []*richtext.Node) {
	if inlineText(inline) == "" {
		return
	}
	b.nodes = append(b.nodes, richtext.NewElement(richtext.KindQuote, trimInline(inline)...))
}

func (b *blocks) rule() {
	if len(b.nodes) == 0 || b.nodes[len(b.nodes)-1].Kind == richtext.KindHorizontalRule {
		return
	}
	b.nodes = append(b.nodes, richtext.NewElement(richtext.KindHorizontalRule))
}

func (b *blocks) draft(filename string) *Draft {
	nodes := b.nodes
	for len(nodes) > 0 && nodes[len(nodes)-1].Kind == richtext.KindHorizontalRule {
		nodes = nodes[:len(nodes)-1]
	}
	return newDraft(b.title, filename, nodes)
}

func inlineText(inline []*richtext.Node) string {
	var sb strings.Builder
	for _, n := range inline {
		sb.WriteString(n.Text)
	}
	return strings.TrimSpace(sb.String())
}

// trimInline drops empty leaves and trims outer whitespace of the run.
func trimInline(inline []*richtext.Node) []*richtext.Node {
	out := make([]*richtext.Node, 0, len(inline))
	for _, n := range inline {
		if n.Text != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return out
	}
	if first := out[0]; first.Format&richtext.FormatCode == 0 {
		first.Text = strings.TrimLeft(first.Text, " \t\n")
	}
	if last := out[len(out)-1]; last.Format&richtext.FormatCode == 0 {
		last.Text = strings.TrimRight(last.Text, " \t\n")
	}
	return out
}

// appendText merges s into the previous leaf when the format matches.
func appendText(inline []*richtext.Node, s string, format int) []*richtext.Node {
	if s == "" {
		return inline
	}
	if n := len(inline); n > 0 && inline[n-1].Format == format {
		inline[n-1].Text += s
		return inline
	}
	return append(inline, richtext.NewText(s, format))
}

func textLeaf(s string) []*richtext.Node {
	return []*richtext.Node{richtext.NewText(s, 0)}
}
