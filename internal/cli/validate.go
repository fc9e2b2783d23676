package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ospsys/internal/compiler"
	"github.com/roach88/ospsys/internal/structure"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool                       `json:"valid"`
	Fingerprint string                     `json:"fingerprint,omitempty"`
	Simulators  int                        `json:"simulators"`
	Functions   int                        `json:"functions"`
	Connections int                        `json:"connections"`
	Errors      []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Build a system structure and lint it",
		Long: `Build a system structure from a CUE, YAML or JSON document and run the
lint pass over it.

Structural errors (duplicate names, unknown references, bad endpoint
combinations) stop the build and exit with code 2. Lint findings
(non-positive step sizes, dangling references, duplicate connections)
are all reported and exit with code 1.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	s, err := loadDocument(formatter, path)
	if err != nil {
		return err
	}

	result := summarize(s)
	result.Errors = compiler.Validate(s)
	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}

	result.Valid = true
	fingerprint, err := structure.Fingerprint(s)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	result.Fingerprint = fingerprint

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ %s valid (%d simulators, %d functions, %d connections)\n",
		path, result.Simulators, result.Functions, result.Connections)
	return nil
}

// summarize counts the parts of s.
func summarize(s *structure.SystemStructure) ValidationResult {
	result := ValidationResult{
		Simulators: s.Simulators.Len(),
		Functions:  len(s.FunctionNames()),
	}
	if s.Connections != nil {
		result.Connections = s.Connections.Len()
	}
	return result
}

// outputValidationErrors outputs every lint finding.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "%s\n", err.Field)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
