package registry

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRegistry = `[
	{"id": "ganga", "name": "Ganga", "aliases": ["ganges"], "dataset_ids": ["res-1"]},
	{"id": "yamuna", "name": "Yamuna", "aliases": ["jamuna", "jumna"], "dataset_ids": []},
	{"id": "godavari", "name": "Godavari", "aliases": ["dakshin ganga"], "dataset_ids": ["res-2"]}
]`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeRegistry(t *testing.T, contents string) *Resolver {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rivers.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return NewResolver(path, discardLogger())
}

func TestResolve_ExactIDAndName(t *testing.T) {
	r := writeRegistry(t, testRegistry)

	river, ok := r.Resolve("yamuna")
	require.True(t, ok)
	assert.Equal(t, "yamuna", river.ID)

	river, ok = r.Resolve("  GANGA  ")
	require.True(t, ok)
	assert.Equal(t, "ganga", river.ID, "name match is case-insensitive and trimmed")
}

func TestResolve_AliasBeatsSubstring(t *testing.T) {
	r := writeRegistry(t, testRegistry)

	// "dakshin ganga" contains "ganga", but the alias tier runs before the
	// substring tier, so Godavari must win.
	river, ok := r.Resolve("Dakshin Ganga")
	require.True(t, ok)
	assert.Equal(t, "godavari", river.ID)
}

func TestResolve_SubstringFallback(t *testing.T) {
	r := writeRegistry(t, testRegistry)

	river, ok := r.Resolve("goda")
	require.True(t, ok)
	assert.Equal(t, "godavari", river.ID)

	river, ok = r.Resolve("jum")
	require.True(t, ok)
	assert.Equal(t, "yamuna", river.ID, "substring matches aliases too")
}

func TestResolve_RegistryOrderBreaksTies(t *testing.T) {
	r := writeRegistry(t, `[
		{"id": "a", "name": "Upper Krishna", "aliases": [], "dataset_ids": []},
		{"id": "b", "name": "Lower Krishna", "aliases": [], "dataset_ids": []}
	]`)

	river, ok := r.Resolve("krishna")
	require.True(t, ok)
	assert.Equal(t, "a", river.ID, "first match in registry order wins")
}

func TestResolve_NoMatch(t *testing.T) {
	r := writeRegistry(t, testRegistry)
	_, ok := r.Resolve("brahmaputra")
	assert.False(t, ok)
}

func TestResolve_MissingFileIsEmptyRegistry(t *testing.T) {
	r := NewResolver(filepath.Join(t.TempDir(), "nope.json"), discardLogger())
	_, ok := r.Resolve("ganga")
	assert.False(t, ok)
	assert.Error(t, r.Check())
}

func TestResolve_MalformedFileIsEmptyRegistry(t *testing.T) {
	r := writeRegistry(t, `{"not": "an array"`)
	_, ok := r.Resolve("ganga")
	assert.False(t, ok)
	assert.Error(t, r.Check())
}

func TestCheck_WellFormedFile(t *testing.T) {
	r := writeRegistry(t, testRegistry)
	assert.NoError(t, r.Check())
}

func TestResolve_PicksUpFileEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rivers.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))
	r := NewResolver(path, discardLogger())

	_, ok := r.Resolve("ganga")
	require.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte(testRegistry), 0o644))
	_, ok = r.Resolve("ganga")
	assert.True(t, ok, "registry is re-read on every resolution")
}
