// Package cmd implements the mdinclude command line.
package cmd

import (
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezerfernandes/mdinclude/internal/config"
	"github.com/ezerfernandes/mdinclude/internal/directive"
	"github.com/ezerfernandes/mdinclude/internal/include"
	"github.com/ezerfernandes/mdinclude/internal/logging"
	"github.com/ezerfernandes/mdinclude/internal/remote"
)

//go:embed help/root.md
var rootHelp string

// version is set at build time via ldflags.
var version = "dev"

type statusFunc func(format string, args ...interface{})

type options struct {
	configPath string
	logLevel   string
	logFormat  string
	quiet      bool

	cfg    *config.Config
	logger logging.Logger
	status statusFunc
	env    directive.Env
}

func (opts *options) createStatus(w io.Writer) {
	if opts.quiet {
		opts.status = func(string, ...interface{}) {}

		return
	}

	opts.status = func(format string, args ...interface{}) {
		fmt.Fprintf(w, format, args...)
	}
}

func (opts *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}

	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts.cfg = cfg
	opts.logger = logger
	opts.createStatus(cmd.ErrOrStderr())

	return nil
}

func (opts *options) fetcher() *remote.Fetcher {
	client := &http.Client{Timeout: opts.cfg.Timeout}

	return remote.NewFetcher(client,
		remote.WithUserAgent(opts.cfg.UserAgent),
		remote.WithCanonicalizers(opts.cfg.Providers()...),
	)
}

func (opts *options) resolver() *include.Resolver {
	return include.NewResolver(opts.fetcher(), opts.logger)
}

func rootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{ //nolint:exhaustruct
		Use:           "mdinclude",
		Short:         "Splice remote Markdown sections into local documents",
		Long:          rootHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},

		DisableAutoGenTag: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: ./mdinclude.yaml or ~/.config/mdinclude/mdinclude.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text, json or pretty")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress status messages")

	root.AddCommand(
		renderCmd(opts),
		fetchCmd(opts),
		listCmd(opts),
		headingsCmd(opts),
		versionCmd(),
	)

	return root
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts := &options{env: os.Getenv}

	root := rootCmd(opts)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return root.Execute()
}

// Execute runs the command line with args and exits with status 1 on error.
func Execute(args []string, stdout, stderr io.Writer) {
	if err := run(args, os.Stdin, stdout, stderr); err != nil {
		fmt.Fprintln(stderr, "mdinclude:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{ //nolint:exhaustruct
		Use:   "version",
		Short: "Print the version of mdinclude",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mdinclude %s\n", version)
		},
	}
}
