package richtext

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Markdown converts a rendered fragment tree to Markdown.
func Markdown(f *Fragment) (string, error) {
	if f == nil {
		return "", nil
	}
	b, err := htmltomarkdown.ConvertNode(HTMLNode(f))
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(string(b)) + "\n", nil
}
