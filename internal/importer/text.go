package importer

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TextImporter handles plain text files. Paragraphs are separated by blank
// lines; a paragraph whose lines are all indented becomes a code block.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*Draft, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(normalizeText(src)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs [][]string
	var current []string

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, current)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var b blocks
	for _, lines := range paragraphs {
		if indented(lines) {
			b.code(dedent(lines))
			continue
		}
		b.text(strings.Join(lines, "\n"))
	}
	return b.draft(filename), nil
}

func indented(lines []string) bool {
	for _, l := range lines {
		if !strings.HasPrefix(l, "\t") && !strings.HasPrefix(l, "    ") {
			return false
		}
	}
	return true
}

func dedent(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if strings.HasPrefix(l, "\t") {
			out[i] = l[1:]
		} else {
			out[i] = l[4:]
		}
	}
	return strings.Join(out, "\n")
}

// normalizeText converts BOM-marked UTF-8 and UTF-16 input to plain UTF-8.
func normalizeText(src []byte) []byte {
	switch {
	case bytes.HasPrefix(src, []byte{0xEF, 0xBB, 0xBF}):
		return src[3:]
	case bytes.HasPrefix(src, []byte{0xFF, 0xFE}), bytes.HasPrefix(src, []byte{0xFE, 0xFF}):
		dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(dec, src)
		if err != nil {
			return src
		}
		return out
	}
	return src
}
