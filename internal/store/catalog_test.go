package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ospsys/internal/structure"
)

func TestSaveAndLoad(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestStructure(t)

	rec, err := s.Save(ctx, "vehicle", sys)
	require.NoError(t, err)
	assert.Equal(t, "vehicle", rec.Name)
	assert.Equal(t, int64(1), rec.Revision)

	parsed, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	want, err := structure.Fingerprint(sys)
	require.NoError(t, err)
	assert.Equal(t, want, rec.Fingerprint)

	loaded, loadedRec, err := s.Load(ctx, "vehicle")
	require.NoError(t, err)
	assert.Equal(t, rec, loadedRec)
	assert.Equal(t, sys.ToDict(), loaded.ToDict())

	wheel, ok := loaded.Simulator("wheel")
	require.True(t, ok)
	iv, ok := wheel.InitialValue("spokes")
	require.True(t, ok)
	assert.Equal(t, structure.IntegerValue(5), iv.Value)
}

func TestSaveAndLoadAfterDeletingSimulator(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestStructure(t)
	_, err := sys.DeleteSimulator("wheel")
	require.NoError(t, err)

	_, err = s.Save(ctx, "chassis-only", sys)
	require.NoError(t, err)

	loaded, _, err := s.Load(ctx, "chassis-only")
	require.NoError(t, err)
	assert.Equal(t, sys.ToDict(), loaded.ToDict())
	assert.Nil(t, loaded.Connections)
}

func TestSaveReplacesByName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestStructure(t)

	first, err := s.Save(ctx, "vehicle", sys)
	require.NoError(t, err)

	// Same content: revision unchanged.
	again, err := s.Save(ctx, "vehicle", sys)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	sys.StartTime = 1
	changed, err := s.Save(ctx, "vehicle", sys)
	require.NoError(t, err)
	assert.Equal(t, first.ID, changed.ID)
	assert.Equal(t, int64(2), changed.Revision)
	assert.NotEqual(t, first.Fingerprint, changed.Fingerprint)

	loaded, _, err := s.Load(ctx, "vehicle")
	require.NoError(t, err)
	assert.Equal(t, 1.0, loaded.StartTime)

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSaveRequiresName(t *testing.T) {
	s := createTestStore(t)
	_, err := s.Save(context.Background(), "", structure.New())
	assert.Error(t, err)
}

func TestLoadNotFound(t *testing.T) {
	s := createTestStore(t)
	_, _, err := s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadDetectsTampering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "vehicle", createTestStructure(t))
	require.NoError(t, err)

	_, err = s.db.Exec(`UPDATE system_structures SET document = ? WHERE name = ?`,
		`{"@version":"0.1","@xmlns":"x","Algorithm":"fixedStep","Simulators":null}`, "vehicle")
	require.NoError(t, err)

	_, _, err = s.Load(ctx, "vehicle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestListOrderedByName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	for _, name := range []string{"zeta", "Alpha", "beta"} {
		_, err := s.Save(ctx, name, structure.New())
		require.NoError(t, err)
	}

	records, err = s.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, names)
}

func TestFindByFingerprint(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	a, err := s.Save(ctx, "a", structure.New())
	require.NoError(t, err)
	_, err = s.Save(ctx, "b", structure.New())
	require.NoError(t, err)
	_, err = s.Save(ctx, "c", createTestStructure(t))
	require.NoError(t, err)

	records, err := s.FindByFingerprint(ctx, a.Fingerprint)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].Name)
	assert.Equal(t, "b", records[1].Name)
}

func TestDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "vehicle", createTestStructure(t))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "vehicle"))
	_, _, err = s.Load(ctx, "vehicle")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "vehicle"), ErrNotFound)
}
