package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/techblog/internal/cms"
	"github.com/dgallion1/techblog/internal/config"
	"github.com/dgallion1/techblog/internal/importer"
	"github.com/dgallion1/techblog/internal/publish"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <files...>",
		Short: "Import files as draft posts",
		Long:  "Convert Markdown, HTML, text, CSV, DOCX, or PDF files into documents and create them as draft posts in the CMS.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetString("title")
			workers, _ := cmd.Flags().GetInt("workers")
			asJSON, _ := cmd.Flags().GetBool("json")
			if title != "" && len(args) > 1 {
				return fmt.Errorf("--title can only be used with a single file")
			}

			cfg := config.Load()
			if err := cfg.ValidateWrite(); err != nil {
				return err
			}
			if workers <= 0 {
				workers = cfg.ImportWorkers
			}

			jobs := make([]*publish.Job, 0, len(args))
			for _, path := range args {
				job, err := publish.ReadJob(path, cfg.MaxImportBytes)
				if err != nil {
					return err
				}
				job.Title = title
				jobs = append(jobs, job)
			}

			client := cms.NewClient(cfg.CMSURL, cfg.CMSAPIKey, cfg.CMSTimeout)
			defer client.Close()

			p := publish.New(client, logger(cmd), publish.Options{
				Workers:    workers,
				MaxRetries: cfg.ImportMaxRetries,
				Importer:   importer.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext},
			})
			reports := p.Run(cmd.Context(), jobs)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				printReports(cmd, reports)
			}

			failed := 0
			for _, r := range reports {
				if !r.OK() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to import", failed, len(reports))
			}
			return nil
		},
	}
	cmd.Flags().String("title", "", "Override the imported title (single file only)")
	cmd.Flags().Int("workers", 0, "Concurrent imports (default IMPORT_WORKERS)")
	cmd.Flags().Bool("json", false, "Print reports as JSON")
	return cmd
}

func printReports(cmd *cobra.Command, reports []publish.Report) {
	out := cmd.OutOrStdout()
	for _, r := range reports {
		switch r.Status {
		case publish.StatusCompleted:
			fmt.Fprintf(out, "%s %s → %s %s\n", successStyle.Render("✓"), r.Filename, r.PostID, dimStyle.Render("("+r.Slug+")"))
		case publish.StatusDupSkipped:
			fmt.Fprintf(out, "%s %s %s\n", dimStyle.Render("="), r.Filename, dimStyle.Render("already exists as "+r.PostID))
		default:
			printErr(out, "✗ %s: %s (%s)", r.Filename, r.Status, firstError(r.Errors))
		}
	}
}

func firstError(errs []string) string {
	if len(errs) == 0 {
		return "no details"
	}
	return errs[0]
}
