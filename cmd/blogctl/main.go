// Command blogctl imports, previews and inspects blog posts.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dgallion1/techblog/internal/blog"
	"github.com/dgallion1/techblog/internal/cms"
	"github.com/dgallion1/techblog/internal/config"
	"github.com/dgallion1/techblog/internal/importer"
	"github.com/dgallion1/techblog/internal/richtext"
)

var (
	// Version information (set at build time)
	version = "dev"

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2563EB"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blogctl",
		Short: "Manage TechBlog posts from the command line",
		Long: titleStyle.Render("blogctl") + `

Import authoring files as draft posts, preview rendered documents, and
browse the published feed.

` + dimStyle.Render("Use 'blogctl [command] --help' for more information."),
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newImportCmd(),
		newRenderCmd(),
		newShowCmd(),
		newListCmd(),
		newInspectCmd(),
	)
	return rootCmd
}

// logger writes JSON logs to stderr so stdout stays clean for output.
func logger(cmd *cobra.Command) *slog.Logger {
	return slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// readService loads configuration and builds the blog read side.
func readService(cmd *cobra.Command) (*blog.Service, *cms.Client, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	client := cms.NewClient(cfg.CMSURL, cfg.CMSAPIKey, cfg.CMSTimeout)
	return blog.NewService(client, logger(cmd), cfg.PageSize), client, nil
}

// loadDocument reads a stored document (.json) or imports an authoring file.
func loadDocument(path string) (*richtext.Document, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		doc, err := richtext.Decode(data)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", path, err)
		}
		return doc, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), nil
	}

	imp, err := importer.ForFile(path, importer.Options{FallbackPdftotext: config.Load().PDFFallbackPdftotext})
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	draft, err := imp.Import(f, path)
	if err != nil {
		return nil, "", fmt.Errorf("import %s: %w", path, err)
	}
	return draft.Document, draft.Title, nil
}

func printErr(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf(format, args...)))
}
