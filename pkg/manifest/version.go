package manifest

import (
	"encoding/json"

	"github.com/agentstation/manifestsync/pkg/errors"
)

// versionKeys is the key order of a version record created by a sync run.
var versionKeys = []string{"version", "changelog", "targetAbi", "sourceUrl", "checksum", "timestamp"}

// Version is one released version of a plugin. Records are never modified
// after creation; a sync run only prepends new ones.
type Version struct {
	Version   string    `json:"version" yaml:"version"`
	Changelog string    `json:"changelog" yaml:"changelog"`
	TargetABI string    `json:"targetAbi" yaml:"targetAbi"`
	SourceURL string    `json:"sourceUrl" yaml:"sourceUrl"`
	Checksum  string    `json:"checksum" yaml:"checksum"`
	Timestamp Timestamp `json:"timestamp" yaml:"timestamp"`

	fields object // as read from disk, nil for new records
}

// MarshalJSON writes the record in its original key order, keeping keys
// that manifestsync does not model.
func (v Version) MarshalJSON() ([]byte, error) {
	overrides := map[string]any{
		"version":   v.Version,
		"changelog": v.Changelog,
		"targetAbi": v.TargetABI,
		"sourceUrl": v.SourceURL,
		"checksum":  v.Checksum,
		"timestamp": v.Timestamp,
	}
	// optional strings that were null or absent on disk stay that way
	for key, value := range map[string]string{
		"changelog": v.Changelog,
		"targetAbi": v.TargetABI,
		"sourceUrl": v.SourceURL,
		"checksum":  v.Checksum,
	} {
		if value != "" || v.fields == nil {
			continue
		}
		if raw, ok := v.fields.get(key); !ok || string(raw) == "null" {
			delete(overrides, key)
		}
	}
	return v.fields.encode(overrides, versionKeys)
}

// UnmarshalJSON validates the required fields of a version record.
func (v *Version) UnmarshalJSON(data []byte) error {
	obj, err := decodeObject(data)
	if err != nil {
		return errors.WrapParse("json", "version", err)
	}

	var out Version
	out.fields = obj

	raw, ok := obj.get("version")
	if !ok {
		return &errors.ValidationError{Field: "version", Message: "is required"}
	}
	if out.Version, err = unmarshalString(raw); err != nil || out.Version == "" {
		return &errors.ValidationError{Field: "version", Value: string(raw), Message: "must be a non-empty string"}
	}

	for key, dst := range map[string]*string{
		"changelog": &out.Changelog,
		"targetAbi": &out.TargetABI,
		"sourceUrl": &out.SourceURL,
		"checksum":  &out.Checksum,
	} {
		raw, ok := obj.get(key)
		if !ok || string(raw) == "null" {
			continue
		}
		if *dst, err = unmarshalString(raw); err != nil {
			return &errors.ValidationError{Field: key, Value: string(raw), Message: "must be a string"}
		}
	}

	raw, ok = obj.get("timestamp")
	if !ok {
		return &errors.ValidationError{Field: "timestamp", Message: "is required"}
	}
	if err := json.Unmarshal(raw, &out.Timestamp); err != nil {
		return &errors.ValidationError{Field: "timestamp", Value: string(raw), Message: err.Error()}
	}
	if out.Timestamp.IsZero() {
		return &errors.ValidationError{Field: "timestamp", Value: string(raw), Message: "is required"}
	}

	*v = out
	return nil
}
