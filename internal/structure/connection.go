package structure

import "fmt"

// ConnectionKind names a connection variant. It is also the element name of
// the variant's list inside Connections.
type ConnectionKind string

const (
	KindVariableConnection      ConnectionKind = "VariableConnection"
	KindVariableGroupConnection ConnectionKind = "VariableGroupConnection"
	KindSignalConnection        ConnectionKind = "SignalConnection"
	KindSignalGroupConnection   ConnectionKind = "SignalGroupConnection"
)

// Endpoint element names inside a connection.
const (
	elemVariable      = "Variable"
	elemVariableGroup = "VariableGroup"
	elemSignal        = "Signal"
	elemSignalGroup   = "SignalGroup"
)

// Connection is a sealed interface over the four connection variants.
// The variant types enforce their endpoint kinds: variable connections hold
// two VariableEndpoints, signal connections one VariableEndpoint and one
// SignalEndpoint.
type Connection interface {
	Kind() ConnectionKind
	// Endpoints returns both ends. For signal connections the variable end
	// comes first.
	Endpoints() (Endpoint, Endpoint)
	ToDict() Dict
	connection()
}

// VariableConnection links two simulator variables point to point.
type VariableConnection struct {
	A VariableEndpoint
	B VariableEndpoint
}

func (VariableConnection) connection() {}
func (VariableConnection) Kind() ConnectionKind { return KindVariableConnection }
func (c VariableConnection) Endpoints() (Endpoint, Endpoint) { return c.A, c.B }

// ToDict returns {"Variable": [a, b]}.
func (c VariableConnection) ToDict() Dict {
	return Dict{elemVariable: []any{c.A.ToDict(), c.B.ToDict()}}
}

// VariableGroupConnection links two vectorized variable groups.
type VariableGroupConnection struct {
	A VariableEndpoint
	B VariableEndpoint
}

func (VariableGroupConnection) connection() {}
func (VariableGroupConnection) Kind() ConnectionKind { return KindVariableGroupConnection }
func (c VariableGroupConnection) Endpoints() (Endpoint, Endpoint) { return c.A, c.B }

// ToDict returns {"VariableGroup": [a, b]}.
func (c VariableGroupConnection) ToDict() Dict {
	return Dict{elemVariableGroup: []any{c.A.ToDict(), c.B.ToDict()}}
}

// SignalConnection links a simulator variable with a function variable.
type SignalConnection struct {
	Variable VariableEndpoint
	Signal   SignalEndpoint
}

func (SignalConnection) connection() {}
func (SignalConnection) Kind() ConnectionKind { return KindSignalConnection }
func (c SignalConnection) Endpoints() (Endpoint, Endpoint) { return c.Variable, c.Signal }

// ToDict returns {"Variable": v, "Signal": s}.
func (c SignalConnection) ToDict() Dict {
	return Dict{elemVariable: c.Variable.ToDict(), elemSignal: c.Signal.ToDict()}
}

// SignalGroupConnection links a simulator variable group with a function
// variable group.
type SignalGroupConnection struct {
	Variable VariableEndpoint
	Signal   SignalEndpoint
}

func (SignalGroupConnection) connection() {}
func (SignalGroupConnection) Kind() ConnectionKind { return KindSignalGroupConnection }
func (c SignalGroupConnection) Endpoints() (Endpoint, Endpoint) { return c.Variable, c.Signal }

// ToDict returns {"VariableGroup": v, "SignalGroup": s}.
func (c SignalGroupConnection) ToDict() Dict {
	return Dict{elemVariableGroup: c.Variable.ToDict(), elemSignalGroup: c.Signal.ToDict()}
}

// NewConnection selects the connection variant for a pair of endpoints.
//
// If either endpoint is a signal, exactly one must be, and the result is a
// SignalConnection (SignalGroupConnection if group) with the variable end
// in the Variable slot whatever the argument order. Otherwise the result is
// a VariableConnection (VariableGroupConnection if group) keeping
// (source, target) order.
func NewConnection(source, target Endpoint, group bool) (Connection, error) {
	if source == nil || target == nil {
		return nil, newError(CodeInvalidEndpointCombination, "", "a connection needs two endpoints")
	}
	if isSignal(source) || isSignal(target) {
		var (
			v   VariableEndpoint
			s   SignalEndpoint
			vOK bool
			sOK bool
		)
		if sig, ok := source.(SignalEndpoint); ok {
			s, sOK = sig, true
			v, vOK = target.(VariableEndpoint)
		} else {
			s, sOK = target.(SignalEndpoint)
			v, vOK = source.(VariableEndpoint)
		}
		if !vOK || !sOK {
			return nil, newError(CodeInvalidEndpointCombination, "", "both endpoints are signals")
		}
		if group {
			return SignalGroupConnection{Variable: v, Signal: s}, nil
		}
		return SignalConnection{Variable: v, Signal: s}, nil
	}

	a, aOK := source.(VariableEndpoint)
	b, bOK := target.(VariableEndpoint)
	if !aOK || !bOK {
		return nil, newError(CodeInvalidEndpointCombination, "", "unsupported endpoint types %T and %T", source, target)
	}
	if group {
		return VariableGroupConnection{A: a, B: b}, nil
	}
	return VariableConnection{A: a, B: b}, nil
}

// connects reports whether c links e1 and e2 in either order.
func connects(c Connection, e1, e2 Endpoint) bool {
	a, b := c.Endpoints()
	return (a == e1 && b == e2) || (a == e2 && b == e1)
}

// touches reports whether either end of c is owned by a simulator named name.
func touches(c Connection, simulator string) bool {
	a, b := c.Endpoints()
	for _, e := range []Endpoint{a, b} {
		if v, ok := e.(VariableEndpoint); ok && v.Simulator == simulator {
			return true
		}
	}
	return false
}

// touchesFunction reports whether either end of c is a signal of the
// function called function.
func touchesFunction(c Connection, function string) bool {
	a, b := c.Endpoints()
	for _, e := range []Endpoint{a, b} {
		if sig, ok := e.(SignalEndpoint); ok && sig.Function == function {
			return true
		}
	}
	return false
}

// variablePairFromDict decodes the two-endpoint list of a variable connection.
func variablePairFromDict(d Dict, elem, at string) (VariableEndpoint, VariableEndpoint, error) {
	ends, err := childList(d, elem, at)
	if err != nil {
		return VariableEndpoint{}, VariableEndpoint{}, err
	}
	if len(ends) != 2 {
		return VariableEndpoint{}, VariableEndpoint{}, newError(CodeInvalidEndpointCombination, at,
			"a %s connection needs exactly 2 endpoints, got %d", elem, len(ends))
	}
	a, err := VariableEndpointFromDict(ends[0], fmt.Sprintf("%s.%s[0]", at, elem))
	if err != nil {
		return VariableEndpoint{}, VariableEndpoint{}, err
	}
	b, err := VariableEndpointFromDict(ends[1], fmt.Sprintf("%s.%s[1]", at, elem))
	if err != nil {
		return VariableEndpoint{}, VariableEndpoint{}, err
	}
	return a, b, nil
}

// signalPairFromDict decodes the variable and signal ends of a signal connection.
func signalPairFromDict(d Dict, varElem, sigElem, at string) (VariableEndpoint, SignalEndpoint, error) {
	vd, ok, err := childDict(d, varElem, at)
	if err != nil {
		return VariableEndpoint{}, SignalEndpoint{}, err
	}
	if !ok {
		return VariableEndpoint{}, SignalEndpoint{}, invalidDict(at+"."+varElem, "variable endpoint is missing")
	}
	sd, ok, err := childDict(d, sigElem, at)
	if err != nil {
		return VariableEndpoint{}, SignalEndpoint{}, err
	}
	if !ok {
		return VariableEndpoint{}, SignalEndpoint{}, invalidDict(at+"."+sigElem, "signal endpoint is missing")
	}
	v, err := VariableEndpointFromDict(vd, at+"."+varElem)
	if err != nil {
		return VariableEndpoint{}, SignalEndpoint{}, err
	}
	s, err := SignalEndpointFromDict(sd, at+"."+sigElem)
	if err != nil {
		return VariableEndpoint{}, SignalEndpoint{}, err
	}
	return v, s, nil
}

// ConnectionFromDict decodes one connection element of the given kind.
func ConnectionFromDict(kind ConnectionKind, d Dict, at string) (Connection, error) {
	switch kind {
	case KindVariableConnection:
		a, b, err := variablePairFromDict(d, elemVariable, at)
		if err != nil {
			return nil, err
		}
		return VariableConnection{A: a, B: b}, nil
	case KindVariableGroupConnection:
		a, b, err := variablePairFromDict(d, elemVariableGroup, at)
		if err != nil {
			return nil, err
		}
		return VariableGroupConnection{A: a, B: b}, nil
	case KindSignalConnection:
		v, s, err := signalPairFromDict(d, elemVariable, elemSignal, at)
		if err != nil {
			return nil, err
		}
		return SignalConnection{Variable: v, Signal: s}, nil
	case KindSignalGroupConnection:
		v, s, err := signalPairFromDict(d, elemVariableGroup, elemSignalGroup, at)
		if err != nil {
			return nil, err
		}
		return SignalGroupConnection{Variable: v, Signal: s}, nil
	default:
		return nil, invalidDict(at, "unknown connection kind %q", kind)
	}
}
