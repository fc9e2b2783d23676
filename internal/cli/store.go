package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ospsys/internal/config"
	"github.com/roach88/ospsys/internal/store"
)

// NewStoreCommand creates the store command group.
func NewStoreCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Catalogue system structures in a SQLite database",
		Long: `Save, load, list and delete named system structures.

The database path comes from --database, OSPSYS_DATABASE or the
database key of ospsys.yaml, defaulting to ospsys.db.`,
	}

	cmd.PersistentFlags().String("database", config.DefaultDatabase, "path to SQLite database")

	cmd.AddCommand(newStoreSaveCommand(rootOpts))
	cmd.AddCommand(newStoreLoadCommand(rootOpts))
	cmd.AddCommand(newStoreListCommand(rootOpts))
	cmd.AddCommand(newStoreDeleteCommand(rootOpts))

	return cmd
}

// openStore opens the configured database, reporting failure as a command error.
func openStore(ctx context.Context, opts *RootOptions, formatter *OutputFormatter) (*store.Store, error) {
	formatter.VerboseLog("Opening %s", opts.Database)
	st, err := store.Open(ctx, opts.Database)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), map[string]any{"database": opts.Database})
	}
	return st, nil
}

// storeFailure maps a store error onto the CLI error codes.
func storeFailure(formatter *OutputFormatter, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
	return formatter.Fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
}

func newStoreSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Build a document and store it under a name",
		Long: `Build a system structure from a document and store its canonical JSON
under --name, replacing any structure already stored there.

Example:
  ospsys store save vehicle.cue --name vehicle`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			s, err := loadDocument(formatter, args[0])
			if err != nil {
				return err
			}

			st, err := openStore(cmd.Context(), rootOpts, formatter)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Save(cmd.Context(), name, s)
			if err != nil {
				return storeFailure(formatter, err)
			}

			if formatter.Format == "json" {
				return formatter.Success(rec)
			}
			fmt.Fprintf(formatter.Writer, "✓ Saved %s (revision %d, %s)\n", rec.Name, rec.Revision, rec.Fingerprint)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name to store the structure under (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newStoreLoadCommand(rootOpts *RootOptions) *cobra.Command {
	var to, output string

	cmd := &cobra.Command{
		Use:           "load <name>",
		Short:         "Print a stored structure",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			if to != ToJSON && to != ToYAML {
				return formatter.Fail(ExitCommandError, ErrCodeGeneric,
					fmt.Sprintf("invalid --to %q: must be one of [json yaml]", to), nil)
			}

			st, err := openStore(cmd.Context(), rootOpts, formatter)
			if err != nil {
				return err
			}
			defer st.Close()

			s, _, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return storeFailure(formatter, err)
			}
			return writeDocument(formatter, s, to, output)
		},
	}

	cmd.Flags().StringVar(&to, "to", ToJSON, "output encoding (json|yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to a file instead of stdout")

	return cmd
}

func newStoreListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List stored structures by name",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			st, err := openStore(cmd.Context(), rootOpts, formatter)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.List(cmd.Context())
			if err != nil {
				return storeFailure(formatter, err)
			}

			if formatter.Format == "json" {
				return formatter.Success(records)
			}
			if len(records) == 0 {
				fmt.Fprintln(formatter.Writer, "No stored structures")
				return nil
			}
			for _, rec := range records {
				fmt.Fprintf(formatter.Writer, "%s\t%d\t%s\n", rec.Name, rec.Revision, rec.Fingerprint)
			}
			return nil
		},
	}

	return cmd
}

func newStoreDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a stored structure",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			st, err := openStore(cmd.Context(), rootOpts, formatter)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return storeFailure(formatter, err)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(formatter.Writer, "✓ Deleted %s\n", args[0])
			return nil
		},
	}

	return cmd
}
