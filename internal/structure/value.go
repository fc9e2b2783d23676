package structure

import "fmt"

// ValueKind is the stable type tag of a Value. It doubles as the element
// name the value is nested under in the canonical dictionary.
type ValueKind string

const (
	KindReal    ValueKind = "Real"
	KindInteger ValueKind = "Integer"
	KindString  ValueKind = "String"
	KindBoolean ValueKind = "Boolean"
)

// valueKindOrder is the priority used to detect a value's kind from a
// dictionary: the first key present wins.
var valueKindOrder = []ValueKind{KindReal, KindInteger, KindString, KindBoolean}

// Value is a sealed interface over the four typed payloads.
// Only RealValue, IntegerValue, StringValue and BooleanValue implement it.
// The kind of a value never changes; coercion happens once in NewValue.
type Value interface {
	Kind() ValueKind
	// Native returns the payload as float64, int64, string or bool.
	Native() any
	typedValue()
}

// RealValue is a 64-bit floating point value.
type RealValue float64

func (RealValue) typedValue() {}
func (RealValue) Kind() ValueKind { return KindReal }
func (v RealValue) Native() any { return float64(v) }

// IntegerValue is a 64-bit signed integer value.
type IntegerValue int64

func (IntegerValue) typedValue() {}
func (IntegerValue) Kind() ValueKind { return KindInteger }
func (v IntegerValue) Native() any { return int64(v) }

// StringValue is a string value.
type StringValue string

func (StringValue) typedValue() {}
func (StringValue) Kind() ValueKind { return KindString }
func (v StringValue) Native() any { return string(v) }

// BooleanValue is a boolean value.
type BooleanValue bool

func (BooleanValue) typedValue() {}
func (BooleanValue) Kind() ValueKind { return KindBoolean }
func (v BooleanValue) Native() any { return bool(v) }

// NewValue coerces raw to the native representation of kind.
//
// Integers are accepted for Real. Floats are accepted for Integer only when
// they carry an exact integer. Strings are parsed for the numeric and boolean
// kinds, since that is how an XML layer hands attributes over. Anything else
// fails with TYPE_MISMATCH.
func NewValue(kind ValueKind, raw any) (Value, error) {
	switch kind {
	case KindReal:
		f, err := toFloat(raw)
		if err != nil {
			return nil, err
		}
		return RealValue(f), nil
	case KindInteger:
		n, err := toInt(raw)
		if err != nil {
			return nil, err
		}
		return IntegerValue(n), nil
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, newError(CodeTypeMismatch, "", "expected a string, got %T", raw)
		}
		return StringValue(s), nil
	case KindBoolean:
		b, err := toBool(raw)
		if err != nil {
			return nil, err
		}
		return BooleanValue(b), nil
	default:
		return nil, newError(CodeTypeMismatch, string(kind), "unknown value kind")
	}
}

// ValueFromDict builds a Value of kind from its {"@value": raw} element.
func ValueFromDict(kind ValueKind, d Dict) (Value, error) {
	raw, ok := d[keyValue]
	if !ok || raw == nil {
		return nil, invalidDict(string(kind)+"."+keyValue, "required attribute is missing")
	}
	v, err := NewValue(kind, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return v, nil
}

// ValueToDict returns the {"@value": native} element of v.
func ValueToDict(v Value) Dict {
	return Dict{keyValue: v.Native()}
}

// valueFromParent finds the value element inside parent by checking the
// kind keys in priority order.
func valueFromParent(parent Dict, path string) (Value, error) {
	for _, kind := range valueKindOrder {
		child, ok, err := childDict(parent, string(kind), path)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		v, err := ValueFromDict(kind, child)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return v, nil
	}
	return nil, invalidDict(path, "no Real, Integer, String or Boolean value element")
}
