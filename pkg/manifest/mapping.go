package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/manifestsync/pkg/errors"
	"github.com/agentstation/manifestsync/pkg/releases"
)

// Mapping ties a source repository to the plugin it publishes.
type Mapping struct {
	Repository string `json:"repository" yaml:"repository"`
	GUID       string `json:"guid" yaml:"guid"`
}

// RepositoryMapping lists repositories in file order. Repositories are
// processed in this order, so it is kept rather than sorted.
type RepositoryMapping []Mapping

// LoadMapping reads the repository mapping at path. Files ending in .yaml
// or .yml are read as YAML, anything else as JSON.
func LoadMapping(path string) (RepositoryMapping, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user configuration
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var mapping RepositoryMapping
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		mapping, err = ParseMappingYAML(data)
	default:
		mapping, err = ParseMappingJSON(data)
	}
	if err != nil {
		return nil, errors.WrapResource("load", "mapping", path, err)
	}
	return mapping, nil
}

// ParseMappingJSON decodes a JSON object of repository to guid.
func ParseMappingJSON(data []byte) (RepositoryMapping, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return nil, errors.WrapParse("json", "mapping", err)
	}

	mapping := make(RepositoryMapping, 0, len(obj))
	for _, f := range obj {
		guid, err := unmarshalString(f.Value)
		if err != nil {
			return nil, &errors.ValidationError{Field: f.Key, Value: string(f.Value), Message: "guid must be a string"}
		}
		mapping = append(mapping, Mapping{Repository: f.Key, GUID: guid})
	}
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	return mapping, nil
}

// ParseMappingYAML decodes a YAML mapping of repository to guid.
func ParseMappingYAML(data []byte) (RepositoryMapping, error) {
	var items yaml.MapSlice
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, errors.WrapParse("yaml", "mapping", err)
	}

	mapping := make(RepositoryMapping, 0, len(items))
	for _, item := range items {
		repo, ok := item.Key.(string)
		if !ok {
			return nil, &errors.ValidationError{Field: "repository", Value: item.Key, Message: "must be a string"}
		}
		guid, ok := item.Value.(string)
		if !ok {
			return nil, &errors.ValidationError{Field: repo, Value: item.Value, Message: "guid must be a string"}
		}
		mapping = append(mapping, Mapping{Repository: repo, GUID: guid})
	}
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	return mapping, nil
}

// Validate checks repository identifiers, guids and key uniqueness.
func (m RepositoryMapping) Validate() error {
	seen := make(map[string]bool, len(m))
	for _, r := range m {
		if _, _, err := releases.ParseRepository(r.Repository); err != nil {
			return err
		}
		if r.GUID == "" {
			return &errors.ValidationError{Field: r.Repository, Message: "guid must not be empty"}
		}
		if seen[r.Repository] {
			return &errors.AlreadyExistsError{Resource: "repository", ID: r.Repository}
		}
		seen[r.Repository] = true
	}
	return nil
}

// Lookup returns the guid mapped to repository.
func (m RepositoryMapping) Lookup(repository string) (string, bool) {
	for _, r := range m {
		if r.Repository == repository {
			return r.GUID, true
		}
	}
	return "", false
}

// Only restricts the mapping to a single repository.
func (m RepositoryMapping) Only(repository string) (RepositoryMapping, error) {
	guid, ok := m.Lookup(repository)
	if !ok {
		return nil, errors.NewConfigError("mapping",
			fmt.Sprintf("repository %s is not listed in the mapping", repository),
			errors.NewNotFoundError("repository", repository))
	}
	return RepositoryMapping{{Repository: repository, GUID: guid}}, nil
}
