package richtext

import "strings"

// PlainText returns the text of a subtree, one line per block.
func PlainText(n *Node) string {
	var b strings.Builder
	writePlain(&b, n)
	return strings.TrimSpace(b.String())
}

func writePlain(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	if n.Kind == KindText {
		b.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		writePlain(b, c)
	}
	if n.Kind != KindRoot {
		b.WriteByte('\n')
	}
}

// WordCount counts whitespace-separated words in a subtree.
func WordCount(n *Node) int {
	return len(strings.Fields(PlainText(n)))
}
