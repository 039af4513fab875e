package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmptyState(t *testing.T) {
	st, err := Load(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	assert.Empty(t, st)
}

func TestLoadMalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "nested", "state.json")

	require.NoError(t, Save(path, map[string]any{KeyDMRoomID: "!room:example.org"}))

	st, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "!room:example.org", st[KeyDMRoomID])
}

func TestUpdateMergesAndPreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, Save(path, map[string]any{
		"some_future_key": "kept",
		KeyDMRoomID:       "!old:example.org",
	}))

	st, err := Update(path, map[string]any{KeyDMRoomID: "!new:example.org"})
	require.NoError(t, err)
	assert.Equal(t, "!new:example.org", st[KeyDMRoomID])
	assert.Equal(t, "kept", st["some_future_key"])

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "!new:example.org", reloaded[KeyDMRoomID])
	assert.Equal(t, "kept", reloaded["some_future_key"])
}
