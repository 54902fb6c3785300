// Package importer converts authoring files into rich-text documents.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/techblog/internal/richtext"
	"github.com/dgallion1/techblog/internal/slug"
)

// ExcerptLength bounds the generated excerpt, in runes.
const ExcerptLength = 160

// Draft is an imported file, ready to be stored as a post.
type Draft struct {
	Title    string
	Slug     string
	Excerpt  string
	Document *richtext.Document
	Source   string
}

// Importer converts raw file bytes into a Draft.
type Importer interface {
	Import(r io.Reader, filename string) (*Draft, error)
}

// Options tune individual importers.
type Options struct {
	FallbackPdftotext bool
}

// SupportedExtensions lists file extensions that can be imported.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the importer for a filename.
func ForFile(filename string, opts Options) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".csv":
		return &CSVImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".pdf":
		return &PDFImporter{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// baseTitle is the filename without directory or extension.
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// newDraft finishes a draft: a missing title falls back to the file name
// and the excerpt is taken from the first paragraph.
func newDraft(title, filename string, blocks []*richtext.Node) *Draft {
	title = strings.TrimSpace(title)
	if title == "" {
		title = baseTitle(filename)
	}
	if blocks == nil {
		blocks = []*richtext.Node{}
	}
	doc := richtext.NewDocument(blocks...)
	return &Draft{
		Title:    title,
		Slug:     slug.Make(title),
		Excerpt:  excerpt(blocks),
		Document: doc,
		Source:   filename,
	}
}

func excerpt(blocks []*richtext.Node) string {
	for _, b := range blocks {
		if b.Kind != richtext.KindParagraph || b.TextFormat == richtext.FormatCode {
			continue
		}
		text := strings.Join(strings.Fields(richtext.PlainText(b)), " ")
		if text == "" {
			continue
		}
		return truncateWords(text, ExcerptLength)
	}
	return ""
}

func truncateWords(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	cut := string(r[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
