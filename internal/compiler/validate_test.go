package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ospsys/internal/structure"
)

func codes(errs []ValidationError) []string {
	var out []string
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func validStructure(t *testing.T) *structure.SystemStructure {
	t.Helper()
	s := structure.New()
	s.SetBaseStepSize(0.01)
	require.NoError(t, s.AddSimulator(structure.NewSimulator("a", "a.fmu")))
	require.NoError(t, s.AddSimulator(structure.NewSimulator("b", "b.fmu")))
	_, err := s.AddFunction("sum", structure.KindSum, structure.FunctionParams{InputCount: structure.Ptr(uint32(2))})
	require.NoError(t, err)
	_, err = s.AddConnection(structure.Variable("a", "x"), structure.Variable("b", "x"), false)
	require.NoError(t, err)
	_, err = s.AddConnection(structure.Variable("b", "y"), structure.Signal("sum", "in"), false)
	require.NoError(t, err)
	return s
}

func TestValidateValid(t *testing.T) {
	errs := Validate(validStructure(t))
	assert.Empty(t, errs, "valid structure should have no findings")
}

func TestValidateEmpty(t *testing.T) {
	assert.Empty(t, Validate(structure.New()))
}

func TestValidateTiming(t *testing.T) {
	s := validStructure(t)
	s.SetBaseStepSize(0)
	s.StartTime = -1
	a, _ := s.Simulator("a")
	a.SetStepSize(-0.5)

	errs := Validate(s)
	assert.ElementsMatch(t, []string{ErrBaseStepSizeNotPositive, ErrNegativeStartTime, ErrStepSizeNotPositive}, codes(errs))

	for _, e := range errs {
		if e.Code == ErrStepSizeNotPositive {
			assert.Equal(t, "Simulators.Simulator[0].@stepSize", e.Field)
		}
	}
}

func TestValidateDanglingReferences(t *testing.T) {
	// Deletes through the API take their connections with them, so the
	// dangling state is reachable only by editing the exported fields.
	s := validStructure(t)
	a, ok := s.Simulator("a")
	require.True(t, ok)
	s.Simulators = structure.ListOf(a)
	s.Functions = nil

	errs := Validate(s)
	assert.Equal(t, []string{ErrDanglingSimulator, ErrDanglingSimulator, ErrDanglingFunction}, codes(errs))
	assert.Equal(t, "Connections.VariableConnection[0]", errs[0].Field)
	assert.Equal(t, "Connections.SignalConnection[0]", errs[1].Field)
}

func TestValidateDuplicateConnection(t *testing.T) {
	s := validStructure(t)
	_, err := s.AddConnection(structure.Variable("b", "x"), structure.Variable("a", "x"), false)
	require.NoError(t, err)
	_, err = s.AddConnection(structure.Variable("a", "x"), structure.Variable("b", "x"), true)
	require.NoError(t, err)

	errs := Validate(s)
	assert.Equal(t, []string{ErrDuplicateConnection, ErrDuplicateConnection}, codes(errs))
	assert.Equal(t, "Connections.VariableConnection[1]", errs[0].Field)
	assert.Contains(t, errs[0].Message, "Connections.VariableConnection[0]")
	assert.Equal(t, "Connections.VariableGroupConnection[0]", errs[1].Field)
}

func TestValidateNaNTiming(t *testing.T) {
	s := validStructure(t)
	s.SetBaseStepSize(math.NaN())
	s.StartTime = math.NaN()
	a, _ := s.Simulator("a")
	a.SetStepSize(math.NaN())

	errs := Validate(s)
	assert.ElementsMatch(t, []string{ErrBaseStepSizeNotPositive, ErrNegativeStartTime, ErrStepSizeNotPositive}, codes(errs))
}

func TestValidateDuplicateConnectionDotsInNames(t *testing.T) {
	s := structure.New()
	require.NoError(t, s.AddSimulator(structure.NewSimulator("a", "a.fmu")))
	require.NoError(t, s.AddSimulator(structure.NewSimulator("a.b", "ab.fmu")))
	require.NoError(t, s.AddSimulator(structure.NewSimulator("z", "z.fmu")))

	// a.b/c and a/b.c are different endpoints that join to the same text.
	_, err := s.AddConnection(structure.Variable("a.b", "c"), structure.Variable("z", "x"), false)
	require.NoError(t, err)
	_, err = s.AddConnection(structure.Variable("a", "b.c"), structure.Variable("z", "x"), false)
	require.NoError(t, err)

	assert.Empty(t, Validate(s))
}

func TestValidateFunctionsAndInitialValues(t *testing.T) {
	s := structure.New()
	require.NoError(t, s.AddSimulator(structure.NewSimulator("a", "")))
	require.NoError(t, s.AddUpdateInitialValue("a", structure.NewInitialValue(" ", structure.BooleanValue(true))))
	_, err := s.AddFunction("s", structure.KindSum, structure.FunctionParams{InputCount: structure.Ptr(uint32(0))})
	require.NoError(t, err)
	_, err = s.AddFunction("v", structure.KindVectorSum, structure.FunctionParams{
		InputCount: structure.Ptr(uint32(0)),
		Dimension:  structure.Ptr(uint32(0)),
	})
	require.NoError(t, err)

	errs := Validate(s)
	assert.Equal(t, []string{ErrEmptySource, ErrEmptyVariableName, ErrZeroDimension, ErrZeroDimension, ErrZeroDimension}, codes(errs))
	assert.Equal(t, "Simulators.Simulator[0].InitialValues.InitialValue[0].@variable", errs[1].Field)
	assert.Equal(t, "Functions.VectorSum[0].@dimension", errs[4].Field)
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "StartTime", Message: "negative", Code: ErrNegativeStartTime}
	assert.Equal(t, "[E203] StartTime: negative", err.Error())
}
