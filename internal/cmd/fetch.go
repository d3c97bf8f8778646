package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdinclude/internal/include"
)

func fetchCmd(opts *options) *cobra.Command {
	var incOpts include.Options

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "fetch [flags] url [section]",
		Aliases: []string{"f"},
		Short:   "Print the Markdown an @include directive would insert",
		Long: `Fetch resolves a single inclusion the way render does: the document's
first line is dropped, relative links are made absolute and, when a section
such as "## Usage" is given, only that section's body is kept.

Unlike render, any failure is reported as an error.`,
		Args: cobra.RangeArgs(1, 2), //nolint:gomnd
		RunE: func(cmd *cobra.Command, args []string) error {
			var heading string
			if len(args) > 1 {
				heading = args[1]
			}

			content, err := opts.resolver().Resolve(cmd.Context(), args[0], heading, incOpts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), content)

			return err
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().BoolVar(&incOpts.KeepTitle, "keep-title", false, "keep the first line of the document")
	cmd.Flags().BoolVar(&incOpts.KeepLinks, "keep-links", false, "do not rewrite relative links")

	return cmd
}
