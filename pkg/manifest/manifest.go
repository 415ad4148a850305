// Package manifest reads and writes the plugin manifest and the mapping of
// source repositories to plugin guids.
//
// The manifest is a JSON array of plugin entries. Keys this package does not
// model are preserved in their original order, so that a sync run only
// changes the version lists it extends and the file diffs cleanly in
// version control.
package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/agentstation/manifestsync/pkg/constants"
	"github.com/agentstation/manifestsync/pkg/errors"
)

// Manifest is the persisted catalog of plugins and their known releases.
type Manifest struct {
	Entries []*Entry
}

// Load reads the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user configuration
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errors.WrapResource("load", "manifest", path, err)
	}
	return m, nil
}

// Parse decodes a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.WrapParse("json", "manifest", err)
	}
	for i, e := range entries {
		if e == nil {
			return nil, errors.NewValidationError("entries", i, "entry must be an object")
		}
	}
	return &Manifest{Entries: entries}, nil
}

// Entry returns the mutable entry for guid.
func (m *Manifest) Entry(guid string) (*Entry, error) {
	for _, e := range m.Entries {
		if e.GUID == guid {
			return e, nil
		}
	}
	return nil, errors.NewNotFoundError("plugin", guid)
}

// Marshal encodes the manifest with 4-space indentation and a trailing newline.
func (m *Manifest) Marshal() ([]byte, error) {
	entries := m.Entries
	if entries == nil {
		entries = []*Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", constants.ManifestIndent)
	if err := enc.Encode(entries); err != nil {
		return nil, errors.WrapParse("json", "manifest", err)
	}
	return buf.Bytes(), nil
}

// Save writes the whole manifest to path, replacing the file atomically.
func (m *Manifest) Save(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Chmod(constants.FilePermissions); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("chmod", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
