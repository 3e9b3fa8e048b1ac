package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the SQLite store:
// - Schema is created on open; fresh database loads empty state
// - Save/load round-trips fingerprint records per module
// - Saves replace the module's record wholesale
// - Exclusions round-trip and come back sorted
// - State survives close and reopen
// - Both backends agree on module identity (base name, spaces normalized)

func newTestSQLiteStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestSQLiteStore_FreshDatabaseIsEmpty(t *testing.T) {
	t.Parallel()

	store, _ := newTestSQLiteStore(t)

	fingerprints, err := store.LoadFingerprints("m.py")
	require.NoError(t, err)
	assert.Empty(t, fingerprints)

	names, err := store.LoadExclusions()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSQLiteStore_SaveLoadFingerprints(t *testing.T) {
	t.Parallel()

	store, _ := newTestSQLiteStore(t)
	record := map[string]string{
		"class_Pipeline":    "aaa",
		"Pipeline.__init__": "bbb",
		"Pipeline.run":      "ccc",
	}

	require.NoError(t, store.SaveFingerprints("pipeline.py", record))

	loaded, err := store.LoadFingerprints("pipeline.py")
	require.NoError(t, err)
	assert.Equal(t, record, loaded)
}

func TestSQLiteStore_SaveReplacesRecord(t *testing.T) {
	t.Parallel()

	store, _ := newTestSQLiteStore(t)
	require.NoError(t, store.SaveFingerprints("m.py", map[string]string{"f": "1", "g": "2"}))
	require.NoError(t, store.SaveFingerprints("m.py", map[string]string{"f": "3"}))

	loaded, err := store.LoadFingerprints("m.py")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f": "3"}, loaded)
}

func TestSQLiteStore_ModulesAreIsolated(t *testing.T) {
	t.Parallel()

	store, _ := newTestSQLiteStore(t)
	require.NoError(t, store.SaveFingerprints("a.py", map[string]string{"f": "1"}))
	require.NoError(t, store.SaveFingerprints("b.py", map[string]string{"g": "2"}))

	a, err := store.LoadFingerprints("a.py")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f": "1"}, a)
}

func TestSQLiteStore_ExclusionsSorted(t *testing.T) {
	t.Parallel()

	store, _ := newTestSQLiteStore(t)
	require.NoError(t, store.SaveExclusions([]string{"zeta", "_Hidden", "alpha"}))

	names, err := store.LoadExclusions()
	require.NoError(t, err)
	assert.Equal(t, []string{"_Hidden", "alpha", "zeta"}, names)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveFingerprints("m.py", map[string]string{"f": "1"}))
	require.NoError(t, store.SaveExclusions([]string{"_secret"}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	fingerprints, err := reopened.LoadFingerprints("m.py")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f": "1"}, fingerprints)

	names, err := reopened.LoadExclusions()
	require.NoError(t, err)
	assert.Equal(t, []string{"_secret"}, names)
}

func TestSQLiteStore_ModuleKeyMatchesJSONNaming(t *testing.T) {
	t.Parallel()

	store, _ := newTestSQLiteStore(t)
	require.NoError(t, store.SaveFingerprints("/deep/path/my module.py", map[string]string{"f": "1"}))

	// Loading by a different path with the same base name hits the same record.
	loaded, err := store.LoadFingerprints("elsewhere/my module.py")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"f": "1"}, loaded)
}
