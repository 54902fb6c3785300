package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dgallion1/techblog/internal/blog"
	"github.com/dgallion1/techblog/internal/cms"
	"github.com/dgallion1/techblog/internal/richtext"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display a published post in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			width, _ := cmd.Flags().GetInt("width")

			svc, client, err := readService(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			post, err := svc.GetPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			md, err := postMarkdown(post)
			if err != nil {
				return err
			}

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(width),
			)
			if err != nil {
				return fmt.Errorf("create renderer: %w", err)
			}
			rendered, err := renderer.Render(md)
			if err != nil {
				return fmt.Errorf("render post: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}
	cmd.Flags().Int("width", 100, "Wrap width")
	return cmd
}

// postMarkdown is a post's header and body as Markdown. Malformed content
// is replaced by a notice.
func postMarkdown(post *cms.Post) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", post.Title)
	fmt.Fprintf(&b, "*%s · %d min read*\n\n", post.Date().Format("January 2, 2006"), blog.ReadingTime(post))
	if post.Excerpt != "" {
		fmt.Fprintf(&b, "> %s\n\n", post.Excerpt)
	}

	fragment, err := richtext.RenderDocument(post.Content)
	if err != nil {
		b.WriteString("_This post's content could not be displayed._\n")
		return b.String(), nil
	}
	body, err := richtext.Markdown(fragment)
	if err != nil {
		return "", err
	}
	b.WriteString(body)
	return b.String(), nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List published posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var p blog.Params
			p.Category, _ = cmd.Flags().GetString("category")
			p.Tag, _ = cmd.Flags().GetString("tag")
			p.Search, _ = cmd.Flags().GetString("search")
			if page, _ := cmd.Flags().GetInt("page"); page > 0 {
				p.Page = strconv.Itoa(page)
			}

			svc, client, err := readService(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			result := svc.ListPosts(cmd.Context(), p)
			out := cmd.OutOrStdout()
			if len(result.Docs) == 0 {
				fmt.Fprintln(out, dimStyle.Render("No posts found."))
				return nil
			}
			writeTable(out, result.Docs)
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("page %d of %d · %d posts", result.Page, max(result.TotalPages, 1), result.TotalDocs)))
			return nil
		},
	}
	cmd.Flags().String("category", "", "Category slug")
	cmd.Flags().String("tag", "", "Tag slug")
	cmd.Flags().String("search", "", "Search text")
	cmd.Flags().Int("page", 1, "Page number")
	return cmd
}

var tableColumns = []struct {
	name  string
	width int
}{
	{"ID", 24},
	{"DATE", 10},
	{"TITLE", 48},
	{"CATEGORY", 16},
}

// writeTable prints posts in fixed-width columns, truncating by display
// width so wide runes stay aligned.
func writeTable(w io.Writer, posts []cms.Post) {
	header := make([]string, len(tableColumns))
	for i, c := range tableColumns {
		header[i] = c.name
	}
	fmt.Fprintln(w, titleStyle.Render(formatRow(header)))
	for i := range posts {
		p := &posts[i]
		category := ""
		if c := p.Category.Value(); c != nil {
			category = c.Name
		}
		fmt.Fprintln(w, formatRow([]string{p.ID, p.Date().Format("2006-01-02"), p.Title, category}))
	}
}

func formatRow(cells []string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		width := tableColumns[i].width
		cell = runewidth.Truncate(cell, width, "…")
		if i < len(cells)-1 {
			cell = runewidth.FillRight(cell, width)
		}
		parts[i] = cell
	}
	return strings.Join(parts, "  ")
}
