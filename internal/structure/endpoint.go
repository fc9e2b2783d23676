package structure

// Endpoint is a sealed interface identifying one variable of a simulator or
// one variable of a function. Endpoints are plain values compared
// structurally; they hold no reference to what they name.
type Endpoint interface {
	// Owner returns the simulator or function name.
	Owner() string
	// Variable returns the variable name on the owner.
	Variable() string
	ToDict() Dict
	endpoint()
}

// VariableEndpoint names a variable of a simulator.
type VariableEndpoint struct {
	Simulator string
	Name      string
}

func (VariableEndpoint) endpoint() {}

// Owner returns the simulator name.
func (e VariableEndpoint) Owner() string { return e.Simulator }

// Variable returns the variable name.
func (e VariableEndpoint) Variable() string { return e.Name }

// ToDict returns {"@simulator": ..., "@name": ...}.
func (e VariableEndpoint) ToDict() Dict {
	return Dict{keySimulator: e.Simulator, keyName: e.Name}
}

// SignalEndpoint names a variable of a function.
type SignalEndpoint struct {
	Function string
	Name     string
}

func (SignalEndpoint) endpoint() {}

// Owner returns the function name.
func (e SignalEndpoint) Owner() string { return e.Function }

// Variable returns the variable name.
func (e SignalEndpoint) Variable() string { return e.Name }

// ToDict returns {"@function": ..., "@name": ...}.
func (e SignalEndpoint) ToDict() Dict {
	return Dict{keyFunction: e.Function, keyName: e.Name}
}

// Variable is shorthand for a VariableEndpoint.
func Variable(simulator, name string) VariableEndpoint {
	return VariableEndpoint{Simulator: simulator, Name: name}
}

// Signal is shorthand for a SignalEndpoint.
func Signal(function, name string) SignalEndpoint {
	return SignalEndpoint{Function: function, Name: name}
}

// isSignal reports whether e is a SignalEndpoint.
func isSignal(e Endpoint) bool {
	_, ok := e.(SignalEndpoint)
	return ok
}

// VariableEndpointFromDict decodes {"@simulator", "@name"}.
func VariableEndpointFromDict(d Dict, at string) (VariableEndpoint, error) {
	sim, err := requireString(d, keySimulator, at)
	if err != nil {
		return VariableEndpoint{}, err
	}
	name, err := requireString(d, keyName, at)
	if err != nil {
		return VariableEndpoint{}, err
	}
	return Variable(sim, name), nil
}

// SignalEndpointFromDict decodes {"@function", "@name"}.
func SignalEndpointFromDict(d Dict, at string) (SignalEndpoint, error) {
	fn, err := requireString(d, keyFunction, at)
	if err != nil {
		return SignalEndpoint{}, err
	}
	name, err := requireString(d, keyName, at)
	if err != nil {
		return SignalEndpoint{}, err
	}
	return Signal(fn, name), nil
}
