package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXImporter handles .docx files. Paragraph styles select the block kind:
// Heading1..6, Title, Quote and code styles are recognized.
type DOCXImporter struct{}

func (p *DOCXImporter) Import(r io.Reader, filename string) (*Draft, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "techblog-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var b blocks
	var code []string
	flushCode := func() {
		if len(code) > 0 {
			b.code(strings.Join(code, "\n"))
			code = nil
		}
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		style := docxStyle(para)
		text := docxParagraphText(para)

		// Consecutive code-styled paragraphs form one block.
		if isCodeStyle(style) {
			code = append(code, text)
			continue
		}
		flushCode()

		switch {
		case text == "":
		case strings.EqualFold(style, "Title"):
			b.heading(1, textLeaf(text))
		case docxHeadingLevel(style) > 0:
			b.heading(docxHeadingLevel(style), textLeaf(text))
		case isQuoteStyle(style):
			b.quote(textLeaf(text))
		default:
			b.text(text)
		}
	}
	flushCode()

	return b.draft(filename), nil
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

func docxHeadingLevel(style string) int {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if len(s) == len("heading1") && strings.HasPrefix(s, "heading") {
		if lvl := int(s[7] - '0'); lvl >= 1 && lvl <= 6 {
			return lvl
		}
	}
	return 0
}

func isQuoteStyle(style string) bool {
	s := strings.ToLower(style)
	return s == "quote" || s == "intensequote" || s == "blocktext"
}

func isCodeStyle(style string) bool {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	return s == "code" || s == "sourcecode" || s == "htmlpreformatted" || s == "plaintext"
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
