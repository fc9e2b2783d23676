package structure

import (
	"fmt"
	"path"
)

// InitialValue overrides the start value of one variable of a simulator.
type InitialValue struct {
	Variable string
	Value    Value
}

// NewInitialValue pairs a variable name with a value.
func NewInitialValue(variable string, value Value) InitialValue {
	return InitialValue{Variable: variable, Value: value}
}

// ToDict returns {"@variable": name, "<Kind>": {"@value": raw}}.
func (iv InitialValue) ToDict() Dict {
	d := Dict{keyVariable: iv.Variable}
	d[string(iv.Value.Kind())] = ValueToDict(iv.Value)
	return d
}

// InitialValueFromDict decodes one InitialValue element.
func InitialValueFromDict(d Dict, at string) (InitialValue, error) {
	variable, err := requireString(d, keyVariable, at)
	if err != nil {
		return InitialValue{}, err
	}
	v, err := valueFromParent(d, at)
	if err != nil {
		return InitialValue{}, err
	}
	return InitialValue{Variable: variable, Value: v}, nil
}

// Simulator is one simulated component of the system.
//
// The model source reference is held split in two: SourceDir keeps
// everything up to and including the last "/", Source keeps the file name.
// FullSource rejoins them without loss.
type Simulator struct {
	Name          string
	Source        string
	SourceDir     string
	StepSize      *float64
	InitialValues List[InitialValue]
}

// NewSimulator creates a simulator, splitting source at its last path separator.
func NewSimulator(name, source string) *Simulator {
	dir, file := path.Split(source)
	return &Simulator{Name: name, Source: file, SourceDir: dir}
}

// FullSource returns the source reference as it appears in the schema.
func (s *Simulator) FullSource() string {
	return s.SourceDir + s.Source
}

// SetStepSize sets the simulator's own fixed step size.
func (s *Simulator) SetStepSize(stepSize float64) {
	s.StepSize = &stepSize
}

// ClearStepSize removes the simulator's step size so the base step size applies.
func (s *Simulator) ClearStepSize() {
	s.StepSize = nil
}

// InitialValue returns the initial value set for variable.
func (s *Simulator) InitialValue(variable string) (InitialValue, bool) {
	i := s.initialValueIndex(variable)
	if i < 0 {
		return InitialValue{}, false
	}
	return s.InitialValues.At(i), true
}

func (s *Simulator) initialValueIndex(variable string) int {
	return s.InitialValues.Index(func(iv InitialValue) bool { return iv.Variable == variable })
}

// UpsertInitialValue overwrites the value for iv.Variable in place, or
// appends it. Insertion order is kept and is the serialization order.
// A value without a payload fails with TYPE_MISMATCH and changes nothing.
func (s *Simulator) UpsertInitialValue(iv InitialValue) error {
	if iv.Value == nil {
		return newError(CodeTypeMismatch, iv.Variable, "initial value has no typed value")
	}
	if i := s.initialValueIndex(iv.Variable); i >= 0 {
		s.InitialValues.Set(i, iv)
		return nil
	}
	s.InitialValues.Append(iv)
	return nil
}

// DeleteInitialValue removes the value set for variable.
func (s *Simulator) DeleteInitialValue(variable string) (InitialValue, error) {
	i := s.initialValueIndex(variable)
	if i < 0 {
		return InitialValue{}, newError(CodeNotFound, variable, "simulator %q has no initial value for variable", s.Name)
	}
	return s.InitialValues.RemoveAt(i), nil
}

// Clone returns a deep copy.
func (s *Simulator) Clone() *Simulator {
	c := *s
	if s.StepSize != nil {
		step := *s.StepSize
		c.StepSize = &step
	}
	c.InitialValues = s.InitialValues.Clone()
	return &c
}

// ToDict returns the Simulator element. InitialValues is omitted entirely
// when there are none.
func (s *Simulator) ToDict() Dict {
	d := Dict{
		keyName:   s.Name,
		keySource: s.FullSource(),
	}
	if s.StepSize != nil {
		d[keyStepSize] = *s.StepSize
	}
	if s.InitialValues.Present() {
		items := make([]any, 0, s.InitialValues.Len())
		for _, iv := range s.InitialValues.Items() {
			items = append(items, iv.ToDict())
		}
		d[keyInitialValues] = Dict{elemInitialValue: items}
	}
	return d
}

// SimulatorFromDict decodes one Simulator element.
func SimulatorFromDict(d Dict, at string) (*Simulator, error) {
	name, err := requireString(d, keyName, at)
	if err != nil {
		return nil, err
	}
	source, err := requireString(d, keySource, at)
	if err != nil {
		return nil, err
	}
	sim := NewSimulator(name, source)

	step, ok, err := optionalFloat(d, keyStepSize, at)
	if err != nil {
		return nil, err
	}
	if ok {
		sim.SetStepSize(step)
	}

	ivs, ok, err := childDict(d, keyInitialValues, at)
	if err != nil {
		return nil, err
	}
	if ok {
		ivPath := at + "." + keyInitialValues
		elems, err := childList(ivs, elemInitialValue, ivPath)
		if err != nil {
			return nil, err
		}
		for i, elem := range elems {
			elemPath := fmt.Sprintf("%s.%s[%d]", ivPath, elemInitialValue, i)
			iv, err := InitialValueFromDict(elem, elemPath)
			if err != nil {
				return nil, err
			}
			if _, dup := sim.InitialValue(iv.Variable); dup {
				return nil, newError(CodeDuplicateName, elemPath,
					"simulator %q sets variable %q more than once", name, iv.Variable)
			}
			if err := sim.UpsertInitialValue(iv); err != nil {
				return nil, fmt.Errorf("%s: %w", elemPath, err)
			}
		}
	}
	return sim, nil
}
