package structure

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func goldenVehicle(t *testing.T) *SystemStructure {
	t.Helper()
	s := New()
	s.SetBaseStepSize(0.01)

	chassis := NewSimulator("chassis", "fmus/chassis.fmu")
	chassis.SetStepSize(0.001)
	require.NoError(t, s.AddSimulator(chassis))
	require.NoError(t, s.AddSimulator(NewSimulator("wheel", "fmus/wheel.fmu")))
	require.NoError(t, s.AddUpdateInitialValue("wheel", NewInitialValue("radius", RealValue(0.3))))

	_, err := s.AddFunction("gain", KindLinearTransformation, FunctionParams{Factor: Ptr(2.0), Offset: Ptr(0.0)})
	require.NoError(t, err)
	_, err = s.AddConnection(Variable("chassis", "v"), Variable("wheel", "v"), false)
	require.NoError(t, err)
	_, err = s.AddConnection(Signal("gain", "out"), Variable("wheel", "torque"), false)
	require.NoError(t, err)
	return s
}

func TestGoldenCanonical(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *SystemStructure
	}{
		{"empty", func(*testing.T) *SystemStructure { return New() }},
		{"vehicle", goldenVehicle},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalCanonical(tt.build(t).ToDict())
			require.NoError(t, err)
			g.Assert(t, tt.name, data)
		})
	}
}
