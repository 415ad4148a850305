package artifact

import (
	"crypto/md5" //nolint:gosec // checksum format expected by manifest consumers
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/agentstation/manifestsync/pkg/errors"
)

// Algorithm names a checksum function. Digests are lowercase hex.
type Algorithm string

// Supported checksum algorithms.
const (
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
)

// ParseAlgorithm resolves a configured algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(name))); a {
	case MD5, SHA256:
		return a, nil
	case "":
		return MD5, nil
	default:
		return "", &errors.ValidationError{
			Field:   "checksum",
			Value:   name,
			Message: fmt.Sprintf("unsupported algorithm, use %s or %s", MD5, SHA256),
		}
	}
}

// Sum returns the hex digest of data.
func (a Algorithm) Sum(data []byte) string {
	var h hash.Hash
	switch a {
	case SHA256:
		h = sha256.New()
	default:
		h = md5.New() //nolint:gosec // see import
	}
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
