package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/ospsys/internal/structure"
)

// createTestStore opens a fresh database in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestStructure builds a small two-simulator structure.
func createTestStructure(t *testing.T) *structure.SystemStructure {
	t.Helper()
	s := structure.New()
	s.SetBaseStepSize(0.01)
	if err := s.AddSimulator(structure.NewSimulator("chassis", "fmus/chassis.fmu")); err != nil {
		t.Fatalf("AddSimulator() failed: %v", err)
	}
	if err := s.AddSimulator(structure.NewSimulator("wheel", "fmus/wheel.fmu")); err != nil {
		t.Fatalf("AddSimulator() failed: %v", err)
	}
	if err := s.AddUpdateInitialValue("wheel", structure.NewInitialValue("spokes", structure.IntegerValue(5))); err != nil {
		t.Fatalf("AddUpdateInitialValue() failed: %v", err)
	}
	if _, err := s.AddConnection(structure.Variable("chassis", "v"), structure.Variable("wheel", "v"), false); err != nil {
		t.Fatalf("AddConnection() failed: %v", err)
	}
	return s
}
