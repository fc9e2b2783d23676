package structure

import "fmt"

// connectionKindOrder is the serialization and listing order of the kinds.
var connectionKindOrder = []ConnectionKind{
	KindVariableConnection,
	KindVariableGroupConnection,
	KindSignalConnection,
	KindSignalGroupConnection,
}

// ConnectionSet holds the connections of a system, one List per kind.
type ConnectionSet struct {
	Variable      List[VariableConnection]
	VariableGroup List[VariableGroupConnection]
	Signal        List[SignalConnection]
	SignalGroup   List[SignalGroupConnection]
}

// Empty reports whether the set holds no connection of any kind.
func (cs *ConnectionSet) Empty() bool {
	return !cs.Variable.Present() && !cs.VariableGroup.Present() &&
		!cs.Signal.Present() && !cs.SignalGroup.Present()
}

// Len returns the number of connections across all kinds.
func (cs *ConnectionSet) Len() int {
	return cs.Variable.Len() + cs.VariableGroup.Len() + cs.Signal.Len() + cs.SignalGroup.Len()
}

// Add builds the connection for (source, target, group) with NewConnection
// and appends it to the list of its kind. The same pair may be added more
// than once; each call creates a new record.
func (cs *ConnectionSet) Add(source, target Endpoint, group bool) (Connection, error) {
	c, err := NewConnection(source, target, group)
	if err != nil {
		return nil, err
	}
	cs.insert(c)
	return c, nil
}

// insert appends an already built connection to its kind list.
func (cs *ConnectionSet) insert(c Connection) {
	switch conn := c.(type) {
	case VariableConnection:
		cs.Variable.Append(conn)
	case VariableGroupConnection:
		cs.VariableGroup.Append(conn)
	case SignalConnection:
		cs.Signal.Append(conn)
	case SignalGroupConnection:
		cs.SignalGroup.Append(conn)
	}
}

// Delete removes the first connection linking endpoint1 and endpoint2 in
// either order. The signal family (Signal, then SignalGroup) is searched if
// either endpoint is a signal, the variable family (Variable, then
// VariableGroup) otherwise.
func (cs *ConnectionSet) Delete(endpoint1, endpoint2 Endpoint) (Connection, error) {
	if endpoint1 == nil || endpoint2 == nil {
		return nil, newError(CodeNotFound, "", "a connection is identified by two endpoints")
	}
	if isSignal(endpoint1) || isSignal(endpoint2) {
		if c, ok := removeConnection(&cs.Signal, endpoint1, endpoint2); ok {
			return c, nil
		}
		if c, ok := removeConnection(&cs.SignalGroup, endpoint1, endpoint2); ok {
			return c, nil
		}
	} else {
		if c, ok := removeConnection(&cs.Variable, endpoint1, endpoint2); ok {
			return c, nil
		}
		if c, ok := removeConnection(&cs.VariableGroup, endpoint1, endpoint2); ok {
			return c, nil
		}
	}
	return nil, newError(CodeNotFound, "", "no connection between %s.%s and %s.%s",
		endpoint1.Owner(), endpoint1.Variable(), endpoint2.Owner(), endpoint2.Variable())
}

func removeConnection[T Connection](l *List[T], e1, e2 Endpoint) (Connection, bool) {
	i := l.Index(func(c T) bool { return connects(c, e1, e2) })
	if i < 0 {
		return nil, false
	}
	return l.RemoveAt(i), true
}

// RemoveFunc removes every connection satisfying match and returns them in
// kind order.
func (cs *ConnectionSet) RemoveFunc(match func(Connection) bool) []Connection {
	var out []Connection
	out = appendRemoved(out, &cs.Variable, match)
	out = appendRemoved(out, &cs.VariableGroup, match)
	out = appendRemoved(out, &cs.Signal, match)
	out = appendRemoved(out, &cs.SignalGroup, match)
	return out
}

func appendRemoved[T Connection](out []Connection, l *List[T], match func(Connection) bool) []Connection {
	for _, c := range l.RemoveFunc(func(c T) bool { return match(c) }) {
		out = append(out, c)
	}
	return out
}

// All returns every connection in kind order, nil when the set is empty.
func (cs *ConnectionSet) All() []Connection {
	var out []Connection
	for _, c := range cs.Variable.Items() {
		out = append(out, c)
	}
	for _, c := range cs.VariableGroup.Items() {
		out = append(out, c)
	}
	for _, c := range cs.Signal.Items() {
		out = append(out, c)
	}
	for _, c := range cs.SignalGroup.Items() {
		out = append(out, c)
	}
	return out
}

// Clone returns a copy that shares no list storage with cs.
func (cs *ConnectionSet) Clone() *ConnectionSet {
	return &ConnectionSet{
		Variable:      cs.Variable.Clone(),
		VariableGroup: cs.VariableGroup.Clone(),
		Signal:        cs.Signal.Clone(),
		SignalGroup:   cs.SignalGroup.Clone(),
	}
}

// ToDict returns the Connections element with only the present kinds, or
// nil if the set is empty.
func (cs *ConnectionSet) ToDict() Dict {
	if cs == nil || cs.Empty() {
		return nil
	}
	d := Dict{}
	putConnections(d, KindVariableConnection, cs.Variable)
	putConnections(d, KindVariableGroupConnection, cs.VariableGroup)
	putConnections(d, KindSignalConnection, cs.Signal)
	putConnections(d, KindSignalGroupConnection, cs.SignalGroup)
	return d
}

func putConnections[T Connection](d Dict, kind ConnectionKind, l List[T]) {
	if !l.Present() {
		return
	}
	items := make([]any, 0, l.Len())
	for _, c := range l.Items() {
		items = append(items, c.ToDict())
	}
	d[string(kind)] = items
}

// connectionsFromDict decodes every connection of a Connections element in
// kind order.
func connectionsFromDict(d Dict, at string) ([]Connection, error) {
	var out []Connection
	for _, kind := range connectionKindOrder {
		elems, err := childList(d, string(kind), at)
		if err != nil {
			return nil, err
		}
		for i, elem := range elems {
			c, err := ConnectionFromDict(kind, elem, fmt.Sprintf("%s.%s[%d]", at, kind, i))
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// ConnectionSetFromDict decodes a Connections element without checking
// endpoint references. It returns nil for an element with no connections.
func ConnectionSetFromDict(d Dict, at string) (*ConnectionSet, error) {
	conns, err := connectionsFromDict(d, at)
	if err != nil {
		return nil, err
	}
	if len(conns) == 0 {
		return nil, nil
	}
	cs := &ConnectionSet{}
	for _, c := range conns {
		cs.insert(c)
	}
	return cs, nil
}
