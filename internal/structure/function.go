package structure

import "fmt"

// FunctionKind names a function variant and its element name inside Functions.
type FunctionKind string

const (
	KindLinearTransformation FunctionKind = "LinearTransformation"
	KindSum                  FunctionKind = "Sum"
	KindVectorSum            FunctionKind = "VectorSum"
)

// functionKindOrder is the fixed search and listing order of the kinds.
var functionKindOrder = []FunctionKind{KindLinearTransformation, KindSum, KindVectorSum}

// Function is a sealed interface over the signal-processing function kinds.
type Function interface {
	FunctionName() string
	Kind() FunctionKind
	ToDict() Dict
	function()
}

// LinearTransformation computes factor*x + offset.
type LinearTransformation struct {
	Name   string
	Factor float64
	Offset float64
}

func (LinearTransformation) function() {}

func (f LinearTransformation) FunctionName() string { return f.Name }

func (LinearTransformation) Kind() FunctionKind { return KindLinearTransformation }

// ToDict returns {"@name", "@factor", "@offset"}.
func (f LinearTransformation) ToDict() Dict {
	return Dict{keyName: f.Name, keyFactor: f.Factor, keyOffset: f.Offset}
}

// Sum adds InputCount scalar inputs.
type Sum struct {
	Name       string
	InputCount uint32
}

func (Sum) function() {}

func (f Sum) FunctionName() string { return f.Name }

func (Sum) Kind() FunctionKind { return KindSum }

// ToDict returns {"@name", "@inputCount"}.
func (f Sum) ToDict() Dict {
	return Dict{keyName: f.Name, keyInputCount: int64(f.InputCount)}
}

// VectorSum adds InputCount vector inputs of Dimension elements each.
type VectorSum struct {
	Name       string
	InputCount uint32
	Dimension  uint32
}

func (VectorSum) function() {}

func (f VectorSum) FunctionName() string { return f.Name }

func (VectorSum) Kind() FunctionKind { return KindVectorSum }

// ToDict returns {"@name", "@inputCount", "@dimension"}.
func (f VectorSum) ToDict() Dict {
	return Dict{keyName: f.Name, keyInputCount: int64(f.InputCount), keyDimension: int64(f.Dimension)}
}

// FunctionParams carries the parameters of any function kind. A nil field
// means the parameter was not supplied; there are no defaults.
type FunctionParams struct {
	Factor     *float64
	Offset     *float64
	InputCount *uint32
	Dimension  *uint32
}

// Ptr returns a pointer to v, for filling FunctionParams.
func Ptr[T any](v T) *T { return &v }

func missingParam(kind FunctionKind, name, param string) *Error {
	return newError(CodeMissingParam, param, "%s %q requires parameter", kind, name)
}

// NewFunction builds a function of kind from params, failing with
// MISSING_PARAM naming the first required parameter that is nil.
func NewFunction(name string, kind FunctionKind, params FunctionParams) (Function, error) {
	switch kind {
	case KindLinearTransformation:
		if params.Factor == nil {
			return nil, missingParam(kind, name, "factor")
		}
		if params.Offset == nil {
			return nil, missingParam(kind, name, "offset")
		}
		return LinearTransformation{Name: name, Factor: *params.Factor, Offset: *params.Offset}, nil
	case KindSum:
		if params.InputCount == nil {
			return nil, missingParam(kind, name, "inputCount")
		}
		return Sum{Name: name, InputCount: *params.InputCount}, nil
	case KindVectorSum:
		if params.InputCount == nil {
			return nil, missingParam(kind, name, "inputCount")
		}
		if params.Dimension == nil {
			return nil, missingParam(kind, name, "dimension")
		}
		return VectorSum{Name: name, InputCount: *params.InputCount, Dimension: *params.Dimension}, nil
	default:
		return nil, newError(CodeInvalidDict, string(kind), "unknown function kind")
	}
}

// FunctionFromDict decodes one function element of the given kind.
func FunctionFromDict(kind FunctionKind, d Dict, at string) (Function, error) {
	name, err := requireString(d, keyName, at)
	if err != nil {
		return nil, err
	}
	var params FunctionParams
	switch kind {
	case KindLinearTransformation:
		factor, err := requireFloat(d, keyFactor, at)
		if err != nil {
			return nil, err
		}
		offset, err := requireFloat(d, keyOffset, at)
		if err != nil {
			return nil, err
		}
		params.Factor, params.Offset = &factor, &offset
	case KindSum:
		n, err := requireCount(d, keyInputCount, at)
		if err != nil {
			return nil, err
		}
		params.InputCount = &n
	case KindVectorSum:
		n, err := requireCount(d, keyInputCount, at)
		if err != nil {
			return nil, err
		}
		dim, err := requireCount(d, keyDimension, at)
		if err != nil {
			return nil, err
		}
		params.InputCount, params.Dimension = &n, &dim
	default:
		return nil, invalidDict(at, "unknown function kind %q", kind)
	}
	f, err := NewFunction(name, kind, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", at, err)
	}
	return f, nil
}
