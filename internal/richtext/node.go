// Package richtext decodes the CMS rich-text editor state and renders it into
// presentation-neutral fragments.
package richtext

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind is the closed set of node variants the renderer understands.
// Anything else decodes as KindUnknown and keeps its wire name in Node.Type.
type Kind int

const (
	KindUnknown Kind = iota
	KindRoot
	KindHeading
	KindParagraph
	KindQuote
	KindHorizontalRule
	KindText
)

var kindNames = map[Kind]string{
	KindRoot:           "root",
	KindHeading:        "heading",
	KindParagraph:      "paragraph",
	KindQuote:          "quote",
	KindHorizontalRule: "horizontalrule",
	KindText:           "text",
}

func kindOf(typ string) Kind {
	for k, name := range kindNames {
		if name == typ {
			return k
		}
	}
	return KindUnknown
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Text format bits. Only FormatCode changes rendering; the rest pass through.
const (
	FormatBold          = 1
	FormatItalic        = 2
	FormatStrikethrough = 4
	FormatUnderline     = 8
	FormatCode          = 16
)

// Node is one element of a document tree.
//
// A text node carries Text and Format and never has children. Every other
// kind may have children and has no text.
type Node struct {
	Kind     Kind
	Type     string // wire tag, preserved for unknown kinds
	Children []*Node

	Text    string
	HasText bool
	Format  int // text bitmask

	TextFormat int    // aggregate format of a paragraph's text
	Tag        string // heading level, "h1".."h6"
	Align      string // element alignment, carried through untouched
}

// Document is the stored editor state: a single root node.
type Document struct {
	Root *Node `json:"root"`
}

// NewText returns a text leaf.
func NewText(text string, format int) *Node {
	return &Node{Kind: KindText, Type: "text", Text: text, HasText: true, Format: format}
}

// NewElement returns a non-text node of the given kind.
func NewElement(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Type: kind.String(), Children: children}
}

// NewHeading returns a heading at level 1-6.
func NewHeading(level int, children ...*Node) *Node {
	n := NewElement(KindHeading, children...)
	n.Tag = "h" + strconv.Itoa(level)
	return n
}

// NewCodeBlock returns a paragraph flagged as a code block, the way the
// editor stores fenced code.
func NewCodeBlock(text string) *Node {
	n := NewElement(KindParagraph, NewText(text, FormatCode))
	n.TextFormat = FormatCode
	return n
}

// NewDocument wraps top-level blocks in a root node.
func NewDocument(blocks ...*Node) *Document {
	return &Document{Root: NewElement(KindRoot, blocks...)}
}

// HeadingLevel parses Tag, defaulting to 1 for a missing or invalid tag.
func (n *Node) HeadingLevel() int {
	if len(n.Tag) == 2 && n.Tag[0] == 'h' {
		if lvl := int(n.Tag[1] - '0'); lvl >= 1 && lvl <= 6 {
			return lvl
		}
	}
	return 1
}

type wireNode struct {
	Type       string          `json:"type"`
	Children   []*Node         `json:"children"`
	Text       *string         `json:"text"`
	Format     json.RawMessage `json:"format"`
	TextFormat int             `json:"textFormat"`
	Tag        string          `json:"tag"`
}

func (n *Node) UnmarshalJSON(b []byte) error {
	var w wireNode
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*n = Node{
		Kind:       kindOf(w.Type),
		Type:       w.Type,
		Children:   w.Children,
		TextFormat: w.TextFormat,
		Tag:        w.Tag,
	}
	if w.Text != nil {
		n.Text = *w.Text
		n.HasText = true
	}
	// Text nodes carry a numeric bitmask; element nodes reuse the key for an
	// alignment string.
	if f := bytes.TrimSpace(w.Format); len(f) > 0 {
		if f[0] == '"' {
			_ = json.Unmarshal(f, &n.Align)
		} else if v, err := strconv.Atoi(string(f)); err == nil {
			n.Format = v
		}
	}
	return nil
}

func (n *Node) MarshalJSON() ([]byte, error) {
	typ := n.Type
	if typ == "" {
		typ = n.Kind.String()
	}
	if n.Kind == KindText {
		return json.Marshal(struct {
			Detail  int    `json:"detail"`
			Format  int    `json:"format"`
			Mode    string `json:"mode"`
			Style   string `json:"style"`
			Text    string `json:"text"`
			Type    string `json:"type"`
			Version int    `json:"version"`
		}{Format: n.Format, Mode: "normal", Text: n.Text, Type: typ, Version: 1})
	}
	var children *[]*Node
	if n.Kind != KindHorizontalRule {
		c := n.Children
		if c == nil {
			c = []*Node{}
		}
		children = &c
	}
	return json.Marshal(struct {
		Children   *[]*Node `json:"children,omitempty"`
		Direction  string   `json:"direction,omitempty"`
		Format     string   `json:"format"`
		Indent     int      `json:"indent"`
		Type       string   `json:"type"`
		Version    int      `json:"version"`
		Tag        string   `json:"tag,omitempty"`
		TextFormat int      `json:"textFormat,omitempty"`
	}{
		Children:   children,
		Direction:  direction(n),
		Format:     n.Align,
		Type:       typ,
		Version:    1,
		Tag:        n.Tag,
		TextFormat: n.TextFormat,
	})
}

func direction(n *Node) string {
	if len(n.Children) == 0 {
		return ""
	}
	return "ltr"
}
