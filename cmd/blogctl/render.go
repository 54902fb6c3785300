package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/techblog/internal/richtext"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a document to HTML or Markdown",
		Long:  "Render a stored document (.json) or an authoring file to HTML on stdout.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetBool("raw")
			markdown, _ := cmd.Flags().GetBool("markdown")

			doc, _, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			fragment := richtext.Render(doc.Root)

			out := cmd.OutOrStdout()
			if markdown {
				md, err := richtext.Markdown(fragment)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(out, md)
				return err
			}
			html, err := richtext.NewHTMLRenderer(!raw).Render(fragment)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, html)
			return err
		},
	}
	cmd.Flags().Bool("raw", false, "Skip HTML sanitizing")
	cmd.Flags().Bool("markdown", false, "Write Markdown instead of HTML")
	return cmd
}
