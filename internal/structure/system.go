package structure

import "fmt"

// Schema constants of the OSP system structure format.
const (
	// DefaultXMLNS is the namespace of the OspSystemStructure schema.
	DefaultXMLNS = "http://opensimulationplatform.com/MSMI/OSPSystemStructure"

	// DefaultVersion is the schema version written for new structures.
	DefaultVersion = "0.1"
)

// Algorithm is the co-simulation master algorithm.
type Algorithm string

const (
	// AlgorithmFixedStep advances every simulator on a fixed step grid.
	AlgorithmFixedStep Algorithm = "fixedStep"
)

// validAlgorithms is the allowed set for SetAlgorithm.
var validAlgorithms = map[Algorithm]bool{
	AlgorithmFixedStep: true,
}

// SystemStructure is the aggregate root of a system description.
//
// Simulators is absent until the first simulator is added. Functions and
// Connections are nil until the first function or connection is added and
// return to nil when the last one is deleted. All validation that crosses
// sub-object boundaries happens here.
type SystemStructure struct {
	XMLNS        string
	Version      string
	StartTime    float64
	BaseStepSize *float64
	Simulators   List[*Simulator]
	Functions    *FunctionRegistry
	Connections  *ConnectionSet

	algorithm Algorithm
}

// New returns an empty structure with the default namespace, version and
// algorithm.
func New() *SystemStructure {
	return &SystemStructure{
		XMLNS:     DefaultXMLNS,
		Version:   DefaultVersion,
		algorithm: AlgorithmFixedStep,
	}
}

// Algorithm returns the master algorithm.
func (s *SystemStructure) Algorithm() Algorithm {
	return s.algorithm
}

// SetAlgorithm sets the master algorithm, failing with INVALID_ALGORITHM for
// values outside the allowed set.
func (s *SystemStructure) SetAlgorithm(a Algorithm) error {
	if !validAlgorithms[a] {
		return newError(CodeInvalidAlgorithm, string(a), "algorithm must be %q", AlgorithmFixedStep)
	}
	s.algorithm = a
	return nil
}

// SetBaseStepSize sets the base step size of the master algorithm.
func (s *SystemStructure) SetBaseStepSize(step float64) {
	s.BaseStepSize = &step
}

// Simulator returns the simulator called name.
func (s *SystemStructure) Simulator(name string) (*Simulator, bool) {
	i := s.simulatorIndex(name)
	if i < 0 {
		return nil, false
	}
	return s.Simulators.At(i), true
}

func (s *SystemStructure) simulatorIndex(name string) int {
	return s.Simulators.Index(func(sim *Simulator) bool { return sim.Name == name })
}

// SimulatorNames returns simulator names in insertion order, nil if none.
func (s *SystemStructure) SimulatorNames() []string {
	var names []string
	for _, sim := range s.Simulators.Items() {
		names = append(names, sim.Name)
	}
	return names
}

// AddSimulator adds sim, failing with DUPLICATE_NAME if its name is taken.
func (s *SystemStructure) AddSimulator(sim *Simulator) error {
	if sim == nil {
		return newError(CodeNotFound, "", "nil simulator")
	}
	if s.simulatorIndex(sim.Name) >= 0 {
		return newError(CodeDuplicateName, sim.Name, "simulator name already in use")
	}
	s.Simulators.Append(sim)
	return nil
}

// DeleteSimulator removes and returns the simulator called name together
// with every connection that has an end on it, so the structure never
// holds a reference to a missing simulator.
func (s *SystemStructure) DeleteSimulator(name string) (*Simulator, error) {
	i := s.simulatorIndex(name)
	if i < 0 {
		return nil, newError(CodeNotFound, name, "no such simulator")
	}
	s.removeConnections(func(c Connection) bool { return touches(c, name) })
	return s.Simulators.RemoveAt(i), nil
}

// removeConnections drops the connections matching match, returning
// Connections to nil when none are left.
func (s *SystemStructure) removeConnections(match func(Connection) bool) {
	if s.Connections == nil {
		return
	}
	s.Connections.RemoveFunc(match)
	if s.Connections.Empty() {
		s.Connections = nil
	}
}

// FunctionNames returns every function name in kind order, nil if there are
// no functions.
func (s *SystemStructure) FunctionNames() []string {
	if s.Functions == nil {
		return nil
	}
	return s.Functions.Names()
}

// Function returns the function called name.
func (s *SystemStructure) Function(name string) (Function, bool) {
	if s.Functions == nil {
		return nil, false
	}
	return s.Functions.Lookup(name)
}

// AddFunction adds a function of kind. The registry is created on the first
// add; if the add fails the structure is left exactly as before.
func (s *SystemStructure) AddFunction(name string, kind FunctionKind, params FunctionParams) (Function, error) {
	registry := s.Functions
	if registry == nil {
		registry = &FunctionRegistry{}
	}
	f, err := registry.Add(name, kind, params)
	if err != nil {
		return nil, err
	}
	s.Functions = registry
	return f, nil
}

// DeleteFunction removes the function called name together with every
// connection to one of its signals. The registry returns to nil when it
// becomes empty.
func (s *SystemStructure) DeleteFunction(name string) (Function, error) {
	if s.Functions == nil {
		return nil, newError(CodeNotFound, name, "no such function")
	}
	f, err := s.Functions.Delete(name)
	if err != nil {
		return nil, err
	}
	if s.Functions.Empty() {
		s.Functions = nil
	}
	s.removeConnections(func(c Connection) bool { return touchesFunction(c, name) })
	return f, nil
}

// validateEndpoint resolves the owner of e against the live simulators or functions.
func (s *SystemStructure) validateEndpoint(e Endpoint) error {
	switch ep := e.(type) {
	case VariableEndpoint:
		if s.simulatorIndex(ep.Simulator) < 0 {
			return newError(CodeUnknownComponent, ep.Simulator, "endpoint references an unknown simulator")
		}
	case SignalEndpoint:
		if _, ok := s.Function(ep.Function); !ok {
			return newError(CodeUnknownFunction, ep.Function, "endpoint references an unknown function")
		}
	case nil:
		return newError(CodeInvalidEndpointCombination, "", "a connection needs two endpoints")
	}
	return nil
}

// AddConnection connects source and target after checking that every
// endpoint names an existing simulator or function. The connection set is
// created on the first add; on any failure Connections is left exactly as
// it was before the call, nil included.
func (s *SystemStructure) AddConnection(source, target Endpoint, group bool) (Connection, error) {
	if err := s.validateEndpoint(source); err != nil {
		return nil, err
	}
	if err := s.validateEndpoint(target); err != nil {
		return nil, err
	}
	set := s.Connections
	if set == nil {
		set = &ConnectionSet{}
	}
	c, err := set.Add(source, target, group)
	if err != nil {
		return nil, err
	}
	s.Connections = set
	return c, nil
}

// DeleteConnection removes the first connection linking the two endpoints
// in either order. Connections returns to nil when it becomes empty.
func (s *SystemStructure) DeleteConnection(endpoint1, endpoint2 Endpoint) (Connection, error) {
	if s.Connections == nil {
		return nil, newError(CodeNotFound, "", "the structure has no connections")
	}
	c, err := s.Connections.Delete(endpoint1, endpoint2)
	if err != nil {
		return nil, err
	}
	if s.Connections.Empty() {
		s.Connections = nil
	}
	return c, nil
}

// ConnectionsOf returns the connections with an end on the simulator called name.
func (s *SystemStructure) ConnectionsOf(simulator string) []Connection {
	if s.Connections == nil {
		return nil
	}
	var out []Connection
	for _, c := range s.Connections.All() {
		if touches(c, simulator) {
			out = append(out, c)
		}
	}
	return out
}

// AddUpdateInitialValue sets an initial value on the simulator called
// component, overwriting any value already set for the same variable.
func (s *SystemStructure) AddUpdateInitialValue(component string, iv InitialValue) error {
	sim, ok := s.Simulator(component)
	if !ok {
		return newError(CodeUnknownComponent, component, "initial value references an unknown simulator")
	}
	return sim.UpsertInitialValue(iv)
}

// DeleteInitialValue removes the initial value of variable on the simulator
// called component.
func (s *SystemStructure) DeleteInitialValue(component, variable string) (InitialValue, error) {
	sim, ok := s.Simulator(component)
	if !ok {
		return InitialValue{}, newError(CodeUnknownComponent, component, "initial value references an unknown simulator")
	}
	return sim.DeleteInitialValue(variable)
}

// Clone returns a deep copy.
func (s *SystemStructure) Clone() *SystemStructure {
	c := *s
	if s.BaseStepSize != nil {
		step := *s.BaseStepSize
		c.BaseStepSize = &step
	}
	c.Simulators = List[*Simulator]{}
	for _, sim := range s.Simulators.Items() {
		c.Simulators.Append(sim.Clone())
	}
	if s.Functions != nil {
		c.Functions = s.Functions.Clone()
	}
	if s.Connections != nil {
		c.Connections = s.Connections.Clone()
	}
	return &c
}

// ToDict returns the canonical dictionary of the structure.
//
// Simulators is always present and null when there are none. StartTime is
// omitted when zero, BaseStepSize when unset, Functions and Connections
// when empty. The unset algorithm of a zero SystemStructure is written as
// fixedStep.
func (s *SystemStructure) ToDict() Dict {
	algorithm := s.algorithm
	if algorithm == "" {
		algorithm = AlgorithmFixedStep
	}
	d := Dict{
		keyXMLNS:      s.XMLNS,
		keyAlgorithm:  string(algorithm),
		keyVersion:    s.Version,
		keySimulators: nil,
	}
	if s.StartTime != 0 {
		d[keyStartTime] = s.StartTime
	}
	if s.BaseStepSize != nil {
		d[keyBaseStepSize] = *s.BaseStepSize
	}
	if s.Simulators.Present() {
		items := make([]any, 0, s.Simulators.Len())
		for _, sim := range s.Simulators.Items() {
			items = append(items, sim.ToDict())
		}
		d[keySimulators] = Dict{elemSimulator: items}
	}
	if fd := s.Functions.ToDict(); fd != nil {
		d[keyFunctions] = fd
	}
	if cd := s.Connections.ToDict(); cd != nil {
		d[keyConnections] = cd
	}
	return d
}

// FromDict builds a structure from its canonical dictionary.
//
// The structure is assembled through the same operations a caller would
// use, in order simulators, functions, connections, so every
// cross-reference is checked. Missing @xmlns and @version fall back to the
// defaults; a missing Algorithm means fixedStep.
func FromDict(d Dict) (*SystemStructure, error) {
	const root = "OspSystemStructure"
	s := New()

	for _, attr := range []struct {
		key   string
		field *string
	}{
		{keyXMLNS, &s.XMLNS},
		{keyVersion, &s.Version},
	} {
		raw, ok := d[attr.key]
		if !ok || raw == nil {
			continue
		}
		v, isString := raw.(string)
		if !isString {
			return nil, newError(CodeTypeMismatch, root+"."+attr.key, "expected a string, got %T", raw)
		}
		*attr.field = v
	}

	start, ok, err := optionalFloat(d, keyStartTime, root)
	if err != nil {
		return nil, err
	}
	if ok {
		s.StartTime = start
	}
	base, ok, err := optionalFloat(d, keyBaseStepSize, root)
	if err != nil {
		return nil, err
	}
	if ok {
		s.SetBaseStepSize(base)
	}

	if raw, ok := d[keyAlgorithm]; ok && raw != nil {
		name, isString := raw.(string)
		if !isString {
			return nil, newError(CodeTypeMismatch, root+"."+keyAlgorithm, "expected a string, got %T", raw)
		}
		if err := s.SetAlgorithm(Algorithm(name)); err != nil {
			return nil, err
		}
	}

	sims, ok, err := childDict(d, keySimulators, root)
	if err != nil {
		return nil, err
	}
	if ok {
		at := root + "." + keySimulators
		elems, err := childList(sims, elemSimulator, at)
		if err != nil {
			return nil, err
		}
		for i, elem := range elems {
			elemPath := fmt.Sprintf("%s.%s[%d]", at, elemSimulator, i)
			sim, err := SimulatorFromDict(elem, elemPath)
			if err != nil {
				return nil, err
			}
			if err := s.AddSimulator(sim); err != nil {
				return nil, fmt.Errorf("%s: %w", elemPath, err)
			}
		}
	}

	fns, ok, err := childDict(d, keyFunctions, root)
	if err != nil {
		return nil, err
	}
	if ok {
		funcs, err := functionsFromDict(fns, root+"."+keyFunctions)
		if err != nil {
			return nil, err
		}
		for _, f := range funcs {
			if s.Functions == nil {
				s.Functions = &FunctionRegistry{}
			}
			if _, exists := s.Functions.Lookup(f.FunctionName()); exists {
				return nil, newError(CodeDuplicateName, f.FunctionName(), "function name already in use")
			}
			s.Functions.insert(f)
		}
	}

	conns, ok, err := childDict(d, keyConnections, root)
	if err != nil {
		return nil, err
	}
	if ok {
		list, err := connectionsFromDict(conns, root+"."+keyConnections)
		if err != nil {
			return nil, err
		}
		for _, c := range list {
			a, b := c.Endpoints()
			if _, err := s.AddConnection(a, b, isGroup(c)); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", root+"."+keyConnections, c.Kind(), err)
			}
		}
	}

	return s, nil
}

// isGroup reports whether c is one of the group variants.
func isGroup(c Connection) bool {
	switch c.(type) {
	case VariableGroupConnection, SignalGroupConnection:
		return true
	default:
		return false
	}
}
