package richtext

// FragmentKind identifies a unit of rendered output.
type FragmentKind int

const (
	FragmentDocument FragmentKind = iota + 1 // prose container for the whole document
	FragmentHeading
	FragmentParagraph
	FragmentCodeBlock
	FragmentQuote
	FragmentRule
	FragmentContainer // generic wrapper for unrecognized block kinds
	FragmentInlineCode
	FragmentText
)

// Fragment is rendered output independent of any presentation technology.
// Leaves (FragmentText, FragmentInlineCode) carry Text; everything else
// carries Children.
type Fragment struct {
	Kind     FragmentKind
	Level    int // headings only
	Text     string
	Children []*Fragment
}

// RenderDocument decodes v and renders its root.
func RenderDocument(v any) (*Fragment, error) {
	doc, err := Decode(v)
	if err != nil {
		return nil, err
	}
	return Render(doc.Root), nil
}

// Render converts a node and its subtree into a fragment tree. It returns
// nil for nodes that produce no output; parents drop nil children.
func Render(n *Node) *Fragment {
	if n == nil {
		return nil
	}
	// A divider is the one kind that is meaningful without content.
	if n.Kind == KindHorizontalRule {
		return &Fragment{Kind: FragmentRule}
	}
	if len(n.Children) == 0 && n.Text == "" {
		return nil
	}

	switch n.Kind {
	case KindText:
		return RenderText(n)
	case KindRoot:
		return &Fragment{Kind: FragmentDocument, Children: renderBlocks(n.Children)}
	case KindHeading:
		return &Fragment{Kind: FragmentHeading, Level: n.HeadingLevel(), Children: renderInline(n.Children)}
	case KindParagraph:
		if len(n.Children) == 0 {
			return nil
		}
		kind := FragmentParagraph
		if n.TextFormat == FormatCode {
			kind = FragmentCodeBlock
		}
		return &Fragment{Kind: kind, Children: renderInline(n.Children)}
	case KindQuote:
		return &Fragment{Kind: FragmentQuote, Children: renderInline(n.Children)}
	default:
		if len(n.Children) == 0 {
			return nil
		}
		return &Fragment{Kind: FragmentContainer, Children: renderBlocks(n.Children)}
	}
}

// RenderText formats a text leaf. Non-text nodes yield nil.
func RenderText(n *Node) *Fragment {
	if n == nil || n.Kind != KindText {
		return nil
	}
	if n.Format&FormatCode != 0 {
		return &Fragment{Kind: FragmentInlineCode, Text: n.Text}
	}
	return &Fragment{Kind: FragmentText, Text: n.Text}
}

func renderBlocks(nodes []*Node) []*Fragment {
	return collect(nodes, Render)
}

func renderInline(nodes []*Node) []*Fragment {
	return collect(nodes, RenderText)
}

func collect(nodes []*Node, fn func(*Node) *Fragment) []*Fragment {
	out := make([]*Fragment, 0, len(nodes))
	for _, c := range nodes {
		if f := fn(c); f != nil {
			out = append(out, f)
		}
	}
	return out
}
