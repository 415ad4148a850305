// Package artifact inspects downloaded release archives: it computes their
// checksum and reads the plugin metadata document packed inside them.
package artifact

import (
	"encoding/json"

	"github.com/agentstation/manifestsync/pkg/errors"
	"github.com/agentstation/manifestsync/pkg/manifest"
)

// Metadata is the plugin metadata packed in a release archive. It is
// authoritative for the version record built from the release.
type Metadata struct {
	Version   string             `json:"version"`
	Changelog string             `json:"changelog"`
	TargetABI string             `json:"targetAbi"`
	Timestamp manifest.Timestamp `json:"timestamp"`
}

// ParseMetadata decodes a metadata document. Version and timestamp are required.
func ParseMetadata(data []byte) (*Metadata, error) {
	var doc struct {
		Version   *string         `json:"version"`
		Changelog *string         `json:"changelog"`
		TargetABI *string         `json:"targetAbi"`
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("json", "metadata", err)
	}

	if doc.Version == nil || *doc.Version == "" {
		return nil, &errors.ValidationError{Field: "version", Message: "is required"}
	}
	if len(doc.Timestamp) == 0 {
		return nil, &errors.ValidationError{Field: "timestamp", Message: "is required"}
	}

	md := &Metadata{Version: *doc.Version}
	if doc.Changelog != nil {
		md.Changelog = *doc.Changelog
	}
	if doc.TargetABI != nil {
		md.TargetABI = *doc.TargetABI
	}
	if err := json.Unmarshal(doc.Timestamp, &md.Timestamp); err != nil {
		return nil, &errors.ValidationError{Field: "timestamp", Value: string(doc.Timestamp), Message: err.Error()}
	}
	return md, nil
}

// Record builds the manifest version record for an artifact.
func (m *Metadata) Record(sourceURL, checksum string) manifest.Version {
	return manifest.Version{
		Version:   m.Version,
		Changelog: m.Changelog,
		TargetABI: m.TargetABI,
		SourceURL: sourceURL,
		Checksum:  checksum,
		Timestamp: m.Timestamp,
	}
}
