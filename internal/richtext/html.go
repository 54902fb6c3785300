package richtext

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CSS classes emitted on rendered elements. The prose class carries the
// document-wide typography.
const (
	ClassProse      = "prose"
	ClassCodeBlock  = "code-block"
	ClassInlineCode = "inline-code"
	ClassQuote      = "quote"
	ClassRule       = "divider"
)

// HTMLRenderer writes fragment trees as HTML.
type HTMLRenderer struct {
	policy *bluemonday.Policy
}

// NewHTMLRenderer returns a renderer. With sanitize set, output is passed
// through a user-generated-content policy that keeps the renderer's classes.
func NewHTMLRenderer(sanitize bool) *HTMLRenderer {
	r := &HTMLRenderer{}
	if sanitize {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).Globally()
		r.policy = p
	}
	return r
}

// Render returns the HTML for f. A nil fragment renders as empty output.
func (r *HTMLRenderer) Render(f *Fragment) (template.HTML, error) {
	if f == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, HTMLNode(f)); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	out := buf.Bytes()
	if r.policy != nil {
		out = r.policy.SanitizeBytes(out)
	}
	return template.HTML(out), nil
}

// HTMLNode converts a fragment into an HTML node tree.
func HTMLNode(f *Fragment) *html.Node {
	switch f.Kind {
	case FragmentText:
		return &html.Node{Type: html.TextNode, Data: f.Text}
	case FragmentInlineCode:
		return element(atom.Code, ClassInlineCode, &html.Node{Type: html.TextNode, Data: f.Text})
	case FragmentRule:
		return element(atom.Hr, ClassRule)
	case FragmentDocument:
		return element(atom.Div, ClassProse, childNodes(f)...)
	case FragmentHeading:
		return element(headingAtom(f.Level), "", childNodes(f)...)
	case FragmentParagraph:
		return element(atom.P, "", childNodes(f)...)
	case FragmentCodeBlock:
		return element(atom.Pre, ClassCodeBlock, element(atom.Code, "", childNodes(f)...))
	case FragmentQuote:
		return element(atom.Blockquote, ClassQuote, childNodes(f)...)
	default:
		return element(atom.Div, "", childNodes(f)...)
	}
}

func childNodes(f *Fragment) []*html.Node {
	nodes := make([]*html.Node, 0, len(f.Children))
	for _, c := range f.Children {
		nodes = append(nodes, HTMLNode(c))
	}
	return nodes
}

func element(a atom.Atom, class string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func headingAtom(level int) atom.Atom {
	switch level {
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	case 5:
		return atom.H5
	case 6:
		return atom.H6
	}
	return atom.H1
}
