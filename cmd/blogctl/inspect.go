package main

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/dgallion1/techblog/internal/blog"
	"github.com/dgallion1/techblog/internal/richtext"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a document's structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dump, _ := cmd.Flags().GetBool("dump")

			doc, title, err := loadDocument(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dump {
				cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
				cfg.Fdump(out, doc)
				return nil
			}

			words := richtext.WordCount(doc.Root)
			fmt.Fprintln(out, titleStyle.Render(title))
			fmt.Fprintf(out, "  Blocks:       %d\n", len(doc.Root.Children))
			fmt.Fprintf(out, "  Words:        %d\n", words)
			fmt.Fprintf(out, "  Reading time: %d min\n", readingMinutes(words))
			fmt.Fprintf(out, "  Structure:    %s\n", dimStyle.Render(outline(doc.Root)))
			return nil
		},
	}
	cmd.Flags().Bool("dump", false, "Dump the full node tree")
	return cmd
}

// outline lists top-level block kinds, collapsing repeats ("paragraph×3").
func outline(root *richtext.Node) string {
	var parts []string
	var last string
	count := 0
	flush := func() {
		switch {
		case count == 1:
			parts = append(parts, last)
		case count > 1:
			parts = append(parts, fmt.Sprintf("%s×%d", last, count))
		}
	}
	for _, n := range root.Children {
		kind := n.Kind.String()
		if n.Kind == richtext.KindHeading {
			kind = fmt.Sprintf("h%d", n.HeadingLevel())
		} else if n.Kind == richtext.KindParagraph && n.TextFormat == richtext.FormatCode {
			kind = "code"
		}
		if kind == last {
			count++
			continue
		}
		flush()
		last, count = kind, 1
	}
	flush()
	return strings.Join(parts, " ")
}

func readingMinutes(words int) int {
	return max(1, (words+blog.WordsPerMinute-1)/blog.WordsPerMinute)
}
