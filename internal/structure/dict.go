package structure

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dict is the canonical dictionary shape shared with the external schema
// layer. Attributes are keys prefixed with "@"; repeated child elements are
// ordered lists ([]any) under their element name.
type Dict = map[string]any

// Canonical dictionary keys.
const (
	keyXMLNS      = "@xmlns"
	keyVersion    = "@version"
	keyName       = "@name"
	keySource     = "@source"
	keyStepSize   = "@stepSize"
	keyValue      = "@value"
	keyVariable   = "@variable"
	keySimulator  = "@simulator"
	keyFunction   = "@function"
	keyFactor     = "@factor"
	keyOffset     = "@offset"
	keyInputCount = "@inputCount"
	keyDimension  = "@dimension"

	keyStartTime     = "StartTime"
	keyBaseStepSize  = "BaseStepSize"
	keyAlgorithm     = "Algorithm"
	keySimulators    = "Simulators"
	keyFunctions     = "Functions"
	keyConnections   = "Connections"
	keyInitialValues = "InitialValues"
)

// Element names of repeated children.
const (
	elemSimulator    = "Simulator"
	elemInitialValue = "InitialValue"
)

// invalidDict builds an INVALID_DICT error for a path.
func invalidDict(path, format string, args ...any) *Error {
	return newError(CodeInvalidDict, path, format, args...)
}

// asDict returns v as a Dict.
func asDict(v any, path string) (Dict, error) {
	switch d := v.(type) {
	case map[string]any:
		return d, nil
	case nil:
		return nil, invalidDict(path, "element is missing")
	default:
		return nil, invalidDict(path, "expected an element, got %T", v)
	}
}

// childDict returns d[key] as a Dict; ok is false when the key is absent or null.
func childDict(d Dict, key, path string) (Dict, bool, error) {
	raw, exists := d[key]
	if !exists || raw == nil {
		return nil, false, nil
	}
	child, err := asDict(raw, path+"."+key)
	if err != nil {
		return nil, false, err
	}
	return child, true, nil
}

// childList returns d[key] as an ordered list of elements. A single element
// that was not wrapped in a list is accepted as a list of one, which is what
// generic XML-to-dict converters produce for non-repeated occurrences.
func childList(d Dict, key, path string) ([]Dict, error) {
	raw, exists := d[key]
	if !exists || raw == nil {
		return nil, nil
	}
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []map[string]any:
		out := make([]Dict, len(v))
		copy(out, v)
		return out, nil
	case map[string]any:
		items = []any{v}
	default:
		return nil, invalidDict(path+"."+key, "expected a list of elements, got %T", raw)
	}
	out := make([]Dict, 0, len(items))
	for i, item := range items {
		child, err := asDict(item, fmt.Sprintf("%s.%s[%d]", path, key, i))
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// requireString returns a required string attribute.
func requireString(d Dict, key, path string) (string, error) {
	raw, ok := d[key]
	if !ok || raw == nil {
		return "", invalidDict(path+"."+key, "required attribute is missing")
	}
	s, ok := raw.(string)
	if !ok {
		return "", newError(CodeTypeMismatch, path+"."+key, "expected a string, got %T", raw)
	}
	return s, nil
}

// optionalFloat returns a numeric attribute or element; ok is false when absent.
func optionalFloat(d Dict, key, path string) (float64, bool, error) {
	raw, exists := d[key]
	if !exists || raw == nil {
		return 0, false, nil
	}
	f, err := toFloat(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s.%s: %w", path, key, err)
	}
	return f, true, nil
}

// requireFloat returns a required numeric attribute, or MISSING_PARAM naming it.
func requireFloat(d Dict, key, path string) (float64, error) {
	f, ok, err := optionalFloat(d, key, path)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, newError(CodeMissingParam, strings.TrimPrefix(key, "@"), "%s: required parameter is missing", path)
	}
	return f, nil
}

// requireCount returns a required non-negative integer attribute.
func requireCount(d Dict, key, path string) (uint32, error) {
	raw, exists := d[key]
	if !exists || raw == nil {
		return 0, newError(CodeMissingParam, strings.TrimPrefix(key, "@"), "%s: required parameter is missing", path)
	}
	n, err := toInt(raw)
	if err != nil {
		return 0, fmt.Errorf("%s.%s: %w", path, key, err)
	}
	if n < 0 || n > math.MaxUint32 {
		return 0, newError(CodeTypeMismatch, path+"."+key, "%d is out of range for a count", n)
	}
	return uint32(n), nil
}

// toFloat coerces a native or textual number to a finite float64.
func toFloat(raw any) (float64, error) {
	f, err := coerceFloat(raw)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, newError(CodeTypeMismatch, strconv.FormatFloat(f, 'g', -1, 64), "not a finite real number")
	}
	return f, nil
}

func coerceFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, newError(CodeTypeMismatch, string(v), "not a real number")
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, newError(CodeTypeMismatch, v, "not a real number")
		}
		return f, nil
	default:
		return 0, newError(CodeTypeMismatch, "", "expected a real number, got %T", raw)
	}
}

// toInt coerces a native or textual number to int64. Floats are accepted
// only when they carry an exact integer.
func toInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, newError(CodeTypeMismatch, strconv.FormatUint(v, 10), "out of range for an integer")
		}
		return int64(v), nil
	case float64:
		return floatToInt(v)
	case float32:
		return floatToInt(float64(v))
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, newError(CodeTypeMismatch, string(v), "not an integer")
		}
		return floatToInt(f)
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, newError(CodeTypeMismatch, v, "not an integer")
		}
		return floatToInt(f)
	default:
		return 0, newError(CodeTypeMismatch, "", "expected an integer, got %T", raw)
	}
}

// floatToInt accepts f only when it has no fractional part and fits int64.
func floatToInt(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, newError(CodeTypeMismatch, strconv.FormatFloat(f, 'g', -1, 64), "not an integer")
	}
	return int64(f), nil
}

// toBool coerces a native boolean or an XML schema boolean literal.
func toBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.TrimSpace(v) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return false, newError(CodeTypeMismatch, v, "not a boolean")
	default:
		return false, newError(CodeTypeMismatch, "", "expected a boolean, got %T", raw)
	}
}
