package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/ospsys/internal/structure"
)

// Document output encodings.
const (
	ToJSON = "json"
	ToYAML = "yaml"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	To     string
	Output string
}

// ConvertResult is the JSON payload of convert and store load.
type ConvertResult struct {
	To       string `json:"to"`
	Output   string `json:"output,omitempty"`
	Document any    `json:"document,omitempty"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a document to its canonical dictionary",
		Long: `Build a system structure and write its canonical dictionary as JSON
or YAML.

JSON output is canonical (sorted keys, shortest numbers) unless --indent
is given; the fingerprint is computed over the canonical form.

Example:
  ospsys convert vehicle.cue --to yaml
  ospsys convert vehicle.yaml --to json -o vehicle.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", ToJSON, "output encoding (json|yaml)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the document to a file instead of stdout")

	return cmd
}

func runConvert(opts *ConvertOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.To != ToJSON && opts.To != ToYAML {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric,
			fmt.Sprintf("invalid --to %q: must be one of [json yaml]", opts.To), nil)
	}

	s, err := loadDocument(formatter, path)
	if err != nil {
		return err
	}
	return writeDocument(formatter, s, opts.To, opts.Output)
}

// writeDocument renders s and writes it to output, or to the formatter when
// output is empty.
func writeDocument(formatter *OutputFormatter, s *structure.SystemStructure, to, output string) error {
	data, err := renderDocument(s, to, formatter.Indent)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	if output != "" {
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
		}
		formatter.VerboseLog("Wrote %s", output)
		if formatter.Format == "json" {
			return formatter.Success(ConvertResult{To: to, Output: output})
		}
		fmt.Fprintf(formatter.Writer, "✓ Wrote %s\n", output)
		return nil
	}

	if formatter.Format == "json" {
		result := ConvertResult{To: to, Document: string(data)}
		if to == ToJSON {
			result.Document = json.RawMessage(data)
		}
		return formatter.Success(result)
	}

	if _, err := formatter.Writer.Write(data); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
	}
	if to == ToJSON {
		fmt.Fprintln(formatter.Writer)
	}
	return nil
}

// renderDocument encodes the canonical dictionary of s.
func renderDocument(s *structure.SystemStructure, to string, indent bool) ([]byte, error) {
	dict := s.ToDict()
	switch to {
	case ToJSON:
		data, err := structure.MarshalCanonical(dict)
		if err != nil {
			return nil, err
		}
		if !indent {
			return data, nil
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ToYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(dict); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", to)
	}
}
