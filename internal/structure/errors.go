package structure

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes structure errors.
type ErrorCode string

const (
	// CodeDuplicateName indicates a simulator or function name collision.
	CodeDuplicateName ErrorCode = "DUPLICATE_NAME"

	// CodeNotFound indicates a delete or lookup of something that does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeUnknownComponent indicates a reference to a simulator that is not present.
	CodeUnknownComponent ErrorCode = "UNKNOWN_COMPONENT"

	// CodeUnknownFunction indicates a reference to a function that is not present.
	CodeUnknownFunction ErrorCode = "UNKNOWN_FUNCTION"

	// CodeInvalidEndpointCombination indicates endpoints that cannot form a connection.
	CodeInvalidEndpointCombination ErrorCode = "INVALID_ENDPOINT_COMBINATION"

	// CodeMissingParam indicates a function kind missing a required parameter.
	CodeMissingParam ErrorCode = "MISSING_PARAM"

	// CodeInvalidAlgorithm indicates an algorithm outside the allowed set.
	CodeInvalidAlgorithm ErrorCode = "INVALID_ALGORITHM"

	// CodeTypeMismatch indicates a value that cannot be coerced to its declared kind.
	CodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// CodeInvalidDict indicates a dictionary whose shape does not match the schema.
	CodeInvalidDict ErrorCode = "INVALID_DICT"
)

// Error is the single error type returned by this package.
//
// Name carries the offending identifier when there is one (simulator,
// function, variable or parameter name).
type Error struct {
	Code    ErrorCode
	Name    string
	Message string
}

// Sentinels for errors.Is. Matching compares codes only.
var (
	ErrDuplicateName              = &Error{Code: CodeDuplicateName}
	ErrNotFound                   = &Error{Code: CodeNotFound}
	ErrUnknownComponent           = &Error{Code: CodeUnknownComponent}
	ErrUnknownFunction            = &Error{Code: CodeUnknownFunction}
	ErrInvalidEndpointCombination = &Error{Code: CodeInvalidEndpointCombination}
	ErrMissingParam               = &Error{Code: CodeMissingParam}
	ErrInvalidAlgorithm           = &Error{Code: CodeInvalidAlgorithm}
	ErrTypeMismatch               = &Error{Code: CodeTypeMismatch}
	ErrInvalidDict                = &Error{Code: CodeInvalidDict}
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Name != "" && e.Message != "":
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Name)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Name != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Name)
	default:
		return string(e.Code)
	}
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, name, format string, args ...any) *Error {
	return &Error{Code: code, Name: name, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsDuplicateName returns true if err is a name collision.
func IsDuplicateName(err error) bool { return CodeOf(err) == CodeDuplicateName }

// IsNotFound returns true if err reports a missing simulator, function,
// connection or initial value.
func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

// IsUnknownReference returns true if err reports an endpoint or initial
// value naming a simulator or function that is not in the structure.
func IsUnknownReference(err error) bool {
	code := CodeOf(err)
	return code == CodeUnknownComponent || code == CodeUnknownFunction
}
