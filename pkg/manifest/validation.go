package manifest

import (
	"fmt"

	"github.com/agentstation/manifestsync/pkg/errors"
)

// Validate checks that guids are unique across the manifest and that no
// plugin lists the same version twice.
func (m *Manifest) Validate() error {
	guids := make(map[string]bool, len(m.Entries))
	for _, e := range m.Entries {
		if guids[e.GUID] {
			return &errors.AlreadyExistsError{Resource: "plugin", ID: e.GUID}
		}
		guids[e.GUID] = true

		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that no two records of the entry share a version.
func (e *Entry) Validate() error {
	seen := make(map[string]bool, len(e.Versions))
	for _, v := range e.Versions {
		if seen[v.Version] {
			return &errors.AlreadyExistsError{
				Resource: "version",
				ID:       fmt.Sprintf("%s@%s", e.GUID, v.Version),
			}
		}
		seen[v.Version] = true
	}
	return nil
}

// CheckMapping verifies that every guid referenced by the mapping exists in
// the manifest. A missing guid is a configuration error that must stop the
// run before anything is fetched or written.
func (m *Manifest) CheckMapping(mapping RepositoryMapping) error {
	for _, r := range mapping {
		if _, err := m.Entry(r.GUID); err != nil {
			return errors.NewConfigError("mapping",
				fmt.Sprintf("repository %s references plugin %s which is not in the manifest", r.Repository, r.GUID),
				err)
		}
	}
	return nil
}
