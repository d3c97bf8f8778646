package cmd

import (
	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdinclude/internal/include"
	"github.com/ezerfernandes/mdinclude/internal/section"
)

func headingsCmd(opts *options) *cobra.Command {
	var keepTitle bool

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "headings [flags] url",
		Short: "List the section references of a remote Markdown document",
		Long: `Headings fetches a document and prints the ATX headings that can be
used as the section argument of an @include directive. Line numbers refer
to the document after its first line has been dropped, as render sees it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := opts.fetcher().Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !keepTitle {
				body = include.StripTitle(body)
			}

			tbl := table.New("Line", "Level", "Section").WithWriter(cmd.OutOrStdout())

			for _, h := range section.Headings(body) {
				tbl.AddRow(h.Line, h.Level, h.Reference())
			}

			tbl.Print()

			return nil
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().BoolVar(&keepTitle, "keep-title", false, "keep the first line of the document")

	return cmd
}
