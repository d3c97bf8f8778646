package cmd

import (
	_ "embed"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdinclude/internal/config"
)

//go:embed help/render.md
var renderHelp string

const stdinName = "-"

func renderCmd(opts *options) *cobra.Command {
	var (
		write bool
		jobs  int
	)

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "render [flags] [path...]",
		Aliases: []string{"r"},
		Short:   "Replace @include directives with remote Markdown",
		Long:    renderHelp,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flag("jobs").Changed {
				opts.cfg.Jobs = jobs
			}

			return config.Validate(opts.cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || (len(args) == 1 && args[0] == stdinName) {
				return renderStream(cmd, opts)
			}

			if containsStdin(args) {
				return errStdinMixed
			}

			files, err := collect(args, opts.cfg.Include)
			if err != nil {
				return err
			}

			for _, file := range files {
				if err := renderFile(cmd, opts, file, write); err != nil {
					return err
				}
			}

			return nil
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write the result back to each file instead of stdout")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "number of directives resolved concurrently")

	return cmd
}

func renderStream(cmd *cobra.Command, opts *options) error {
	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return err
	}

	out, err := renderSource(cmd, opts, stdinName, src)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(out)

	return err
}

func renderFile(cmd *cobra.Command, opts *options, filename string, write bool) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	out, err := renderSource(cmd, opts, filename, src)
	if err != nil {
		return err
	}

	if !write {
		_, err = cmd.OutOrStdout().Write(out)

		return err
	}

	if string(out) == string(src) {
		return nil
	}

	info, err := os.Stat(filename)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filename, out, info.Mode().Perm()); err != nil {
		return err
	}

	opts.status("updated %s\n", filename)

	return nil
}

func renderSource(cmd *cobra.Command, opts *options, name string, src []byte) ([]byte, error) {
	resolve := includer(opts.resolver(), opts.logger, name)

	modified, result, err := expand(cmd.Context(), src, opts.env, opts.cfg.Jobs, resolve)
	if err != nil {
		return nil, err
	}

	if !modified {
		return src, nil
	}

	return result, nil
}

func containsStdin(args []string) bool {
	for _, arg := range args {
		if arg == stdinName {
			return true
		}
	}

	return false
}
