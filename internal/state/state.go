// Package state persists small bits of JSON state between runs of the DM
// utility. Semantics are read-merge-write: the whole object is loaded,
// updates overlaid, and the result written back, so unknown keys survive.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// KeyDMRoomID stores the direct-message room so reruns reuse it instead of
// creating a new room every time.
const KeyDMRoomID = "dm_room_id"

// Load reads the state file. A missing file is an empty state, not an error.
func Load(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, errors.Wrapf(err, "read state file %s", path)
	}

	st := map[string]any{}
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, errors.Wrapf(err, "parse state file %s", path)
	}
	return st, nil
}

// Save writes the whole state object, creating parent directories as needed.
func Save(path string, st map[string]any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create state dir %s", dir)
	}

	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode state")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrapf(err, "write state file %s", path)
	}
	return nil
}

// Update merges updates into the stored state and persists the result.
func Update(path string, updates map[string]any) (map[string]any, error) {
	st, err := Load(path)
	if err != nil {
		return nil, err
	}
	for k, v := range updates {
		st[k] = v
	}
	if err := Save(path, st); err != nil {
		return nil, err
	}
	return st, nil
}
