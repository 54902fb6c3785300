package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePost = `{
  "root": {
    "type": "root", "format": "", "indent": 0, "version": 1, "direction": "ltr",
    "children": [
      {"type": "heading", "tag": "h2", "format": "", "version": 1,
       "children": [{"type": "text", "text": "Getting started", "format": 0, "version": 1}]},
      {"type": "paragraph", "format": "", "textFormat": 0, "version": 1,
       "children": [
         {"type": "text", "text": "Run ", "format": 0},
         {"type": "text", "text": "go test", "format": 16},
         {"type": "text", "text": " first.", "format": 1}
       ]},
      {"type": "paragraph", "textFormat": 0, "children": []},
      {"type": "paragraph", "textFormat": 16,
       "children": [{"type": "text", "text": "fmt.Println(1)", "format": 16}]},
      {"type": "quote", "children": [{"type": "text", "text": "Simplicity is complicated.", "format": 2}]},
      {"type": "horizontalrule", "version": 1},
      {"type": "callout", "children": [
         {"type": "text", "text": "a", "format": 0},
         {"type": "text", "text": "b", "format": 0}
      ]}
    ]
  }
}`

func TestRender_ParagraphScenario(t *testing.T) {
	doc := `{"root": {"type": "root", "children": [{"type": "paragraph", "children": [{"type": "text", "text": "hi", "format": 0}]}]}}`

	got, err := RenderDocument(doc)
	require.NoError(t, err)

	want := &Fragment{Kind: FragmentDocument, Children: []*Fragment{
		{Kind: FragmentParagraph, Children: []*Fragment{{Kind: FragmentText, Text: "hi"}}},
	}}
	assert.Equal(t, want, got)
}

func TestRender_CodeBlockScenario(t *testing.T) {
	doc := `{"root": {"type": "root", "children": [{"type": "paragraph", "textFormat": 16, "children": [{"type": "text", "text": "hi", "format": 16}]}]}}`

	got, err := RenderDocument(doc)
	require.NoError(t, err)
	require.Len(t, got.Children, 1)

	block := got.Children[0]
	assert.Equal(t, FragmentCodeBlock, block.Kind)
	require.Len(t, block.Children, 1)
	assert.Equal(t, &Fragment{Kind: FragmentInlineCode, Text: "hi"}, block.Children[0])
}

func TestRender_CodeBlockDetectedByAggregateFormat(t *testing.T) {
	// Plain text children still produce a code block when the paragraph is flagged.
	p := NewElement(KindParagraph, NewText("a", 0), NewText("b", 0))
	p.TextFormat = FormatCode

	got := Render(p)
	require.NotNil(t, got)
	assert.Equal(t, FragmentCodeBlock, got.Kind)
	assert.Len(t, got.Children, 2)

	// The flag on a child alone does not make a code block.
	p = NewElement(KindParagraph, NewText("a", FormatCode))
	assert.Equal(t, FragmentParagraph, Render(p).Kind)
}

func TestRender_SampleDocument(t *testing.T) {
	got, err := RenderDocument(samplePost)
	require.NoError(t, err)
	require.Equal(t, FragmentDocument, got.Kind)

	kinds := make([]FragmentKind, 0, len(got.Children))
	for _, c := range got.Children {
		kinds = append(kinds, c.Kind)
	}
	// The empty paragraph is dropped, order is otherwise preserved.
	assert.Equal(t, []FragmentKind{
		FragmentHeading,
		FragmentParagraph,
		FragmentCodeBlock,
		FragmentQuote,
		FragmentRule,
		FragmentContainer,
	}, kinds)

	heading := got.Children[0]
	assert.Equal(t, 2, heading.Level)

	para := got.Children[1]
	assert.Equal(t, []*Fragment{
		{Kind: FragmentText, Text: "Run "},
		{Kind: FragmentInlineCode, Text: "go test"},
		{Kind: FragmentText, Text: " first."},
	}, para.Children)
}

func TestRender_Idempotent(t *testing.T) {
	doc, err := Decode(samplePost)
	require.NoError(t, err)

	first := Render(doc.Root)
	second := Render(doc.Root)
	assert.Equal(t, first, second)

	again, err := RenderDocument(samplePost)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestRender_NullPropagation(t *testing.T) {
	tests := []struct {
		name string
		node *Node
	}{
		{"nil", nil},
		{"empty root", NewElement(KindRoot)},
		{"empty paragraph", NewElement(KindParagraph)},
		{"empty heading", NewHeading(2)},
		{"empty quote", NewElement(KindQuote)},
		{"empty unknown", &Node{Kind: KindUnknown, Type: "callout"}},
		{"text without text", &Node{Kind: KindText, Type: "text"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Render(tt.node))
		})
	}
}

func TestRender_ParentsOmitNullChildren(t *testing.T) {
	root := NewElement(KindRoot,
		NewElement(KindParagraph),
		NewElement(KindParagraph, NewText("kept", 0)),
		&Node{Kind: KindUnknown, Type: "linebreak"},
	)
	got := Render(root)
	require.NotNil(t, got)
	require.Len(t, got.Children, 1)
	assert.Equal(t, "kept", got.Children[0].Children[0].Text)

	// Inline slots drop non-text children.
	p := NewElement(KindParagraph, NewText("x", 0), &Node{Kind: KindUnknown, Type: "link", Children: []*Node{NewText("y", 0)}})
	assert.Len(t, Render(p).Children, 1)
}

func TestRender_UnknownKindForwardCompatible(t *testing.T) {
	callout := &Node{Kind: KindUnknown, Type: "callout", Children: []*Node{NewText("one", 0), NewText("two", FormatCode)}}

	got := Render(callout)
	require.NotNil(t, got)
	assert.Equal(t, &Fragment{Kind: FragmentContainer, Children: []*Fragment{
		{Kind: FragmentText, Text: "one"},
		{Kind: FragmentInlineCode, Text: "two"},
	}}, got)
}

func TestRender_UnknownKindNests(t *testing.T) {
	list := &Node{Kind: KindUnknown, Type: "list", Children: []*Node{
		{Kind: KindUnknown, Type: "listitem", Children: []*Node{NewText("item", 0)}},
	}}
	got := Render(list)
	require.Len(t, got.Children, 1)
	assert.Equal(t, FragmentContainer, got.Children[0].Kind)
	assert.Equal(t, "item", got.Children[0].Children[0].Text)
}

func TestRender_HeadingLevels(t *testing.T) {
	tests := []struct {
		tag  string
		want int
	}{
		{"h1", 1},
		{"h3", 3},
		{"h6", 6},
		{"", 1},
		{"h9", 1},
		{"title", 1},
	}
	for _, tt := range tests {
		h := NewElement(KindHeading, NewText("x", 0))
		h.Tag = tt.tag
		assert.Equal(t, tt.want, Render(h).Level, "tag %q", tt.tag)
	}
}

func TestRender_HorizontalRule(t *testing.T) {
	got := Render(&Node{Kind: KindHorizontalRule, Type: "horizontalrule"})
	assert.Equal(t, &Fragment{Kind: FragmentRule}, got)

	// The editor stores dividers without children; they still render.
	doc, err := RenderDocument(`{"root":{"type":"root","children":[{"type":"horizontalrule","version":1}]}}`)
	require.NoError(t, err)
	assert.Equal(t, []*Fragment{{Kind: FragmentRule}}, doc.Children)

	// Every other childless, textless node is dropped.
	for _, k := range []Kind{KindRoot, KindHeading, KindParagraph, KindQuote, KindText, KindUnknown} {
		assert.Nil(t, Render(&Node{Kind: k}), "kind %s", k)
	}
}

func TestRenderText(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want *Fragment
	}{
		{"plain", NewText("a", 0), &Fragment{Kind: FragmentText, Text: "a"}},
		{"bold passes through", NewText("a", FormatBold), &Fragment{Kind: FragmentText, Text: "a"}},
		{"code", NewText("a", FormatCode), &Fragment{Kind: FragmentInlineCode, Text: "a"}},
		{"code with other bits", NewText("a", FormatCode|FormatItalic), &Fragment{Kind: FragmentInlineCode, Text: "a"}},
		{"not text", NewElement(KindParagraph, NewText("a", 0)), nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderText(tt.node))
		})
	}
}
