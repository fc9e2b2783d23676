package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ospsys/internal/structure"
)

// FingerprintResult is the JSON payload of the fingerprint command.
type FingerprintResult struct {
	File        string `json:"file"`
	Fingerprint string `json:"fingerprint"`
}

// NewFingerprintCommand creates the fingerprint command.
func NewFingerprintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint <file>",
		Short: "Print the content fingerprint of a system structure",
		Long: `Build a system structure and print the SHA-256 fingerprint of its
canonical JSON. Documents describing the same structure have the same
fingerprint regardless of their source format.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			s, err := loadDocument(formatter, args[0])
			if err != nil {
				return err
			}
			fingerprint, err := structure.Fingerprint(s)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
			}

			if formatter.Format == "json" {
				return formatter.Success(FingerprintResult{File: args[0], Fingerprint: fingerprint})
			}
			fmt.Fprintln(formatter.Writer, fingerprint)
			return nil
		},
	}

	return cmd
}
