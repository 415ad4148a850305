package manifest

import (
	"encoding/json"

	"github.com/agentstation/manifestsync/pkg/errors"
)

// entryKeys is the key order used for keys an entry did not carry on disk.
var entryKeys = []string{"guid", "versions"}

// Entry is one plugin of the manifest. Only the guid and the version list
// are modelled; every other key is preserved as read.
type Entry struct {
	GUID     string
	Name     string
	Versions []Version

	fields object
}

// NewEntry returns an empty entry for guid.
func NewEntry(guid, name string) *Entry {
	e := &Entry{GUID: guid, Name: name}
	if name != "" {
		raw, _ := marshalNoEscape(name)
		e.fields = object{{Key: "guid"}, {Key: "name", Value: raw}}
	}
	return e
}

// HasVersion reports whether a record for version is already present.
func (e *Entry) HasVersion(version string) bool {
	for _, v := range e.Versions {
		if v.Version == version {
			return true
		}
	}
	return false
}

// Oldest returns the earliest timestamp recorded for the plugin.
// The second result is false when the entry has no versions.
func (e *Entry) Oldest() (Timestamp, bool) {
	if len(e.Versions) == 0 {
		return Timestamp{}, false
	}
	oldest := e.Versions[0].Timestamp
	for _, v := range e.Versions[1:] {
		if v.Timestamp.Before(oldest) {
			oldest = v.Timestamp
		}
	}
	return oldest, true
}

// Prepend inserts versions at the front, keeping their relative order.
func (e *Entry) Prepend(versions ...Version) {
	if len(versions) == 0 {
		return
	}
	merged := make([]Version, 0, len(versions)+len(e.Versions))
	merged = append(merged, versions...)
	e.Versions = append(merged, e.Versions...)
}

// Clone returns a copy whose version list can be changed independently.
func (e *Entry) Clone() *Entry {
	clone := *e
	clone.Versions = append([]Version(nil), e.Versions...)
	return &clone
}

// MarshalJSON writes the entry in its original key order.
func (e Entry) MarshalJSON() ([]byte, error) {
	versions := e.Versions
	if versions == nil {
		versions = []Version{}
	}
	return e.fields.encode(map[string]any{
		"guid":     e.GUID,
		"versions": versions,
	}, entryKeys)
}

// UnmarshalJSON validates the guid and version list of an entry.
func (e *Entry) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return errors.WrapParse("json", "entry", err)
	}

	out := Entry{fields: obj}

	raw, ok := obj.get("guid")
	if !ok {
		return &errors.ValidationError{Field: "guid", Message: "is required"}
	}
	if out.GUID, err = unmarshalString(raw); err != nil || out.GUID == "" {
		return &errors.ValidationError{Field: "guid", Value: string(raw), Message: "must be a non-empty string"}
	}

	if raw, ok := obj.get("name"); ok {
		out.Name, _ = unmarshalString(raw)
	}

	if raw, ok := obj.get("versions"); ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &out.Versions); err != nil {
			return errors.WrapResource("parse", "versions", out.GUID, err)
		}
	}

	*e = out
	return nil
}
