package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/ospsys/internal/structure"
)

// CompileCUE converts a concrete CUE value into a canonical dictionary.
// The value should be the document root, i.e. the struct holding
// Simulators, Functions and Connections, or one wrapping it under
// OspSystemStructure.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`Simulators: Simulator: [{"@name": "a", "@source": "a.fmu"}]`)
//	doc, err := CompileCUE(v)
func CompileCUE(v cue.Value) (structure.Dict, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}
	native, err := cueToNative(v, "")
	if err != nil {
		return nil, err
	}
	doc, ok := native.(structure.Dict)
	if !ok {
		return nil, &CompileError{
			Field:   "document",
			Message: fmt.Sprintf("document root must be a struct, got %s", v.Kind()),
			Pos:     v.Pos(),
		}
	}
	return doc, nil
}

// CompileCUEBytes compiles CUE source. filename is used in error positions.
func CompileCUEBytes(filename string, src []byte) (structure.Dict, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	return CompileCUE(v)
}

// cueToNative walks v into the Dict/[]any/scalar shape the structure
// decoder reads. Integers stay int64 and floats stay float64.
func cueToNative(v cue.Value, field string) (any, error) {
	switch v.Kind() {
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		d := structure.Dict{}
		for iter.Next() {
			label := iter.Selector().Unquoted()
			child, err := cueToNative(iter.Value(), joinField(field, label))
			if err != nil {
				return nil, err
			}
			d[label] = child
		}
		return d, nil

	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		items := []any{}
		for i := 0; iter.Next(); i++ {
			child, err := cueToNative(iter.Value(), fmt.Sprintf("%s[%d]", field, i))
			if err != nil {
				return nil, err
			}
			items = append(items, child)
		}
		return items, nil

	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return s, nil

	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return n, nil

	case cue.FloatKind:
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return f, nil

	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return b, nil

	case cue.NullKind:
		return nil, nil

	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unsupported CUE kind %s", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

func joinField(parent, label string) string {
	if parent == "" {
		return label
	}
	return parent + "." + label
}

// CompileError is a source document error with its CUE position, if any.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
