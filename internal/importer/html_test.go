package importer

import (
	"strings"
	"testing"

	"github.com/dgallion1/techblog/internal/richtext"
)

func TestHTMLImporter_Blocks(t *testing.T) {
	input := `<html><head><title>Page Title</title><style>p{}</style></head>
<body>
<nav><p>menu</p></nav>
<h1>Intro</h1>
<p>Hello <strong>bold</strong> and <code>x := 1</code>.</p>
<pre>func main() {
	run()
}</pre>
<blockquote>Quoted   text</blockquote>
<hr>
<ul><li>first</li><li>second</li></ul>
<script>alert(1)</script>
</body></html>`

	draft, err := (&HTMLImporter{}).Import(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Title != "Page Title" {
		t.Errorf("expected <title> to win, got %q", draft.Title)
	}

	want := []string{"h1", "paragraph", "code", "quote", "horizontalrule", "paragraph", "paragraph"}
	if got := kinds(draft); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected blocks %v, got %v", want, got)
	}

	root := draft.Document.Root
	p := root.Children[1]
	if got := richtext.PlainText(p); got != "Hello bold and x := 1." {
		t.Errorf("unexpected paragraph text %q", got)
	}
	var formats []int
	for _, c := range p.Children {
		formats = append(formats, c.Format)
	}
	if len(formats) != 5 || formats[1] != richtext.FormatBold || formats[3] != richtext.FormatCode {
		t.Errorf("unexpected inline formats %v", formats)
	}
	if got := root.Children[2].Children[0].Text; !strings.Contains(got, "\trun()") {
		t.Errorf("expected preformatted text, got %q", got)
	}
	if got := richtext.PlainText(root.Children[3]); got != "Quoted text" {
		t.Errorf("unexpected quote %q", got)
	}
	if strings.Contains(richtext.PlainText(root), "menu") || strings.Contains(richtext.PlainText(root), "alert") {
		t.Error("navigation and scripts must be skipped")
	}
}

func TestHTMLImporter_HeadingAsTitle(t *testing.T) {
	draft, err := (&HTMLImporter{}).Import(strings.NewReader(`<h1>Only Heading</h1><p>Body</p>`), "x.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Title != "Only Heading" {
		t.Errorf("expected heading title, got %q", draft.Title)
	}
	if got := kinds(draft); strings.Join(got, ",") != "paragraph" {
		t.Errorf("expected a single paragraph, got %v", got)
	}
}

func TestCollapseSpace(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"a  b":         "a b",
		"  a\n\tb  ":   " a b ",
		"\n\n":         " ",
		"word":         "word",
	}
	for in, want := range tests {
		if got := collapseSpace(in); got != want {
			t.Errorf("collapseSpace(%q) = %q, want %q", in, got, want)
		}
	}
}
