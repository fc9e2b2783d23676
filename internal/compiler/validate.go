package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/ospsys/internal/structure"
)

// Lint codes (E200-E299)
const (
	ErrStepSizeNotPositive     = "E201" // simulator step size must be > 0
	ErrBaseStepSizeNotPositive = "E202" // base step size must be > 0
	ErrNegativeStartTime       = "E203" // start time must be >= 0
	ErrDanglingSimulator       = "E204" // connection references a missing simulator
	ErrDanglingFunction        = "E205" // connection references a missing function
	ErrEmptyVariableName       = "E206" // initial value without a variable name
	ErrDuplicateConnection     = "E207" // same endpoint pair connected twice
	ErrZeroDimension           = "E208" // function input count or dimension is zero
	ErrEmptySource             = "E209" // simulator without a source
)

// ValidationError is one lint finding on a built structure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate lints a structure that was built successfully. It reports
// everything the structural operations accept but a simulation run would
// reject, and returns all findings (does not fail-fast).
func Validate(s *structure.SystemStructure) []ValidationError {
	var errs []ValidationError

	// E202; the negated comparisons also catch NaN.
	if s.BaseStepSize != nil && !(*s.BaseStepSize > 0) {
		errs = append(errs, ValidationError{
			Field:   "BaseStepSize",
			Message: fmt.Sprintf("base step size must be positive, got %g", *s.BaseStepSize),
			Code:    ErrBaseStepSizeNotPositive,
		})
	}

	// E203
	if !(s.StartTime >= 0) {
		errs = append(errs, ValidationError{
			Field:   "StartTime",
			Message: fmt.Sprintf("start time must not be negative, got %g", s.StartTime),
			Code:    ErrNegativeStartTime,
		})
	}

	for i, sim := range s.Simulators.Items() {
		errs = append(errs, validateSimulator(i, sim)...)
	}
	errs = append(errs, validateFunctions(s)...)
	errs = append(errs, validateConnections(s)...)

	return errs
}

func validateSimulator(i int, sim *structure.Simulator) []ValidationError {
	var errs []ValidationError
	at := fmt.Sprintf("Simulators.Simulator[%d]", i)

	// E209
	if strings.TrimSpace(sim.FullSource()) == "" {
		errs = append(errs, ValidationError{
			Field:   at + ".@source",
			Message: fmt.Sprintf("simulator %q has no source", sim.Name),
			Code:    ErrEmptySource,
		})
	}

	// E201
	if sim.StepSize != nil && !(*sim.StepSize > 0) {
		errs = append(errs, ValidationError{
			Field:   at + ".@stepSize",
			Message: fmt.Sprintf("simulator %q step size must be positive, got %g", sim.Name, *sim.StepSize),
			Code:    ErrStepSizeNotPositive,
		})
	}

	// E206
	for j, iv := range sim.InitialValues.Items() {
		if strings.TrimSpace(iv.Variable) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.InitialValues.InitialValue[%d].@variable", at, j),
				Message: fmt.Sprintf("simulator %q has an initial value without a variable name", sim.Name),
				Code:    ErrEmptyVariableName,
			})
		}
	}
	return errs
}

// E208
func validateFunctions(s *structure.SystemStructure) []ValidationError {
	if s.Functions == nil {
		return nil
	}
	var errs []ValidationError
	zero := func(field, name, what string) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("function %q has %s zero", name, what),
			Code:    ErrZeroDimension,
		})
	}
	for i, f := range s.Functions.Sums.Items() {
		if f.InputCount == 0 {
			zero(fmt.Sprintf("Functions.Sum[%d].@inputCount", i), f.Name, "inputCount")
		}
	}
	for i, f := range s.Functions.VectorSums.Items() {
		if f.InputCount == 0 {
			zero(fmt.Sprintf("Functions.VectorSum[%d].@inputCount", i), f.Name, "inputCount")
		}
		if f.Dimension == 0 {
			zero(fmt.Sprintf("Functions.VectorSum[%d].@dimension", i), f.Name, "dimension")
		}
	}
	return errs
}

func validateConnections(s *structure.SystemStructure) []ValidationError {
	if s.Connections == nil {
		return nil
	}
	var errs []ValidationError
	seen := make(map[connectionPair]string)
	index := make(map[structure.ConnectionKind]int)

	for _, c := range s.Connections.All() {
		at := fmt.Sprintf("Connections.%s[%d]", c.Kind(), index[c.Kind()])
		index[c.Kind()]++

		a, b := c.Endpoints()
		for _, e := range []structure.Endpoint{a, b} {
			switch ep := e.(type) {
			case structure.VariableEndpoint:
				if _, ok := s.Simulator(ep.Simulator); !ok {
					errs = append(errs, ValidationError{
						Field:   at,
						Message: fmt.Sprintf("connection references missing simulator %q", ep.Simulator),
						Code:    ErrDanglingSimulator,
					})
				}
			case structure.SignalEndpoint:
				if _, ok := s.Function(ep.Function); !ok {
					errs = append(errs, ValidationError{
						Field:   at,
						Message: fmt.Sprintf("connection references missing function %q", ep.Function),
						Code:    ErrDanglingFunction,
					})
				}
			}
		}

		key := pairKey(a, b)
		if first, dup := seen[key]; dup {
			errs = append(errs, ValidationError{
				Field:   at,
				Message: fmt.Sprintf("endpoints already connected by %s", first),
				Code:    ErrDuplicateConnection,
			})
			continue
		}
		seen[key] = at
	}
	return errs
}

// endpointID is a comparable identity for one endpoint.
type endpointID struct {
	signal   bool
	owner    string
	variable string
}

func (a endpointID) less(b endpointID) bool {
	if a.signal != b.signal {
		return !a.signal
	}
	if a.owner != b.owner {
		return a.owner < b.owner
	}
	return a.variable < b.variable
}

// connectionPair identifies an unordered endpoint pair.
type connectionPair struct {
	first, second endpointID
}

func pairKey(a, b structure.Endpoint) connectionPair {
	ka, kb := endpointKey(a), endpointKey(b)
	if kb.less(ka) {
		ka, kb = kb, ka
	}
	return connectionPair{first: ka, second: kb}
}

func endpointKey(e structure.Endpoint) endpointID {
	_, signal := e.(structure.SignalEndpoint)
	return endpointID{signal: signal, owner: e.Owner(), variable: e.Variable()}
}
