package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/ospsys/internal/compiler"
	"github.com/roach88/ospsys/internal/structure"
)

// loadDocument loads and builds the document at path, reporting failures
// through formatter as command errors.
func loadDocument(formatter *OutputFormatter, path string) (*structure.SystemStructure, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("document not found: %s", path), nil)
	}

	formatter.VerboseLog("Loading %s", path)
	s, err := compiler.LoadFile(path)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeLoadFailed, err.Error(), errorDetails(err))
	}
	return s, nil
}

// errorDetails extracts machine-readable context from a load error.
func errorDetails(err error) map[string]any {
	var structErr *structure.Error
	if errors.As(err, &structErr) {
		details := map[string]any{"kind": string(structErr.Code)}
		if structErr.Name != "" {
			details["name"] = structErr.Name
		}
		return details
	}

	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) && compileErr.Pos.IsValid() {
		return map[string]any{
			"file":   compileErr.Pos.Filename(),
			"line":   compileErr.Pos.Line(),
			"column": compileErr.Pos.Column(),
		}
	}
	return nil
}
