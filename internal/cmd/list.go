package cmd

import (
	"os"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdinclude/internal/directive"
)

func listCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "list [path...]",
		Aliases: []string{"ls"},
		Short:   "List the @include directives of Markdown files",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collect(args, opts.cfg.Include)
			if err != nil {
				return err
			}

			tbl := table.New("File", "Line", "URL", "Section", "Options").WithWriter(cmd.OutOrStdout())

			for _, file := range files {
				src, err := os.ReadFile(file)
				if err != nil {
					return err
				}

				directives, err := directive.Collect(src, opts.env)
				if err != nil {
					return err
				}

				for _, d := range directives {
					if d.Err != nil {
						tbl.AddRow(file, d.Line, d.Raw, "", "error: "+d.Err.Error())

						continue
					}

					tbl.AddRow(file, d.Line, d.URL, d.Section, d.Options.String())
				}
			}

			tbl.Print()

			return nil
		},

		DisableAutoGenTag: true,
	}

	return cmd
}
