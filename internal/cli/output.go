package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Validation failure (lint findings)
	ExitCommandError = 2 // Command error (unreadable document, store failure, bad config)
)

// Error codes carried in CLIError.Code. Lint findings use the compiler's
// E2xx codes instead.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeConfig      = "E002" // Invalid configuration
	ErrCodeLoadFailed  = "E004" // Document could not be decoded or built
	ErrCodeNotFound    = "E005" // File or stored structure not found
	ErrCodeWriteFailed = "E007" // Output could not be written
	ErrCodeStore       = "E008" // Store operation failed
)

// ExitError is returned by commands that have already reported their
// failure; main only needs the exit code from it.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	ErrCode string // CLIError code reported to the user, if any
	Message string
	Err     error // Underlying error (optional)
}

func (e *ExitError) Error() string {
	msg := e.Message
	if e.ErrCode != "" {
		msg = e.ErrCode + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError with no reported error code.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or JSON envelopes.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Verbose output; Writer when nil
	Verbose   bool
	Indent    bool // Indent JSON responses
}

// CLIResponse is the envelope every --format json command writes.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error half of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E201", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// encode writes one JSON response.
func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}

// Success writes data as an ok envelope, or prints it in text mode.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error reports a failure to Writer without deciding the exit code.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail outputs an error and returns the matching ExitError.
func (f *OutputFormatter) Fail(exitCode int, code, message string, details any) error {
	_ = f.Error(code, message, details)
	return &ExitError{Code: exitCode, ErrCode: code, Message: message}
}

// VerboseLog prints a progress line under --verbose. It never writes to
// Writer when ErrWriter is set, keeping JSON output parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter, or Writer when none is set.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
