package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/ospsys/internal/config"
)

// RootOptions holds global settings for all commands. They are filled from
// config.Load before any command runs.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	Format     string // "json" | "text"
	Indent     bool
	Database   string
}

// NewRootCommand creates the root command for the ospsys CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ospsys",
		Short: "ospsys - OSP system structure toolkit",
		Long: `Build, check, convert and catalogue co-simulation system structures
in the OSP OspSystemStructure format.

Documents may be written in CUE, YAML or JSON; settings come from
ospsys.yaml, OSPSYS_* environment variables and flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigFile, cmd.Flags())
			if err != nil {
				formatter := &OutputFormatter{Format: "text", Writer: cmd.ErrOrStderr()}
				return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
			}
			opts.Verbose = cfg.Verbose
			opts.Format = cfg.Format
			opts.Indent = cfg.Indent
			opts.Database = cfg.Database

			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			if cfg.FileUsed != "" {
				slog.Debug("config loaded", "file", cfg.FileUsed)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./ospsys.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultFormat, "output format (json|text)")
	cmd.PersistentFlags().BoolVar(&opts.Indent, "indent", false, "indent JSON output")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewFingerprintCommand(opts))
	cmd.AddCommand(NewStoreCommand(opts))

	return cmd
}

// setupLogging installs the default slog handler: Info, or Debug when verbose.
func setupLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// newFormatter builds the formatter for a command from the resolved options.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
		Indent:    opts.Indent,
	}
}
