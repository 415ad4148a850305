package errors_test

import (
	"errors"
	"net/http"
	"testing"

	pkgerrors "github.com/agentstation/manifestsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "plugin",
			ID:       "P1",
		}
		assert.Equal(t, "plugin with ID P1 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("repository", "owner/name")
		assert.Equal(t, "repository with ID owner/name not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("plugin", "test")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestAlreadyExistsError(t *testing.T) {
	err := &pkgerrors.AlreadyExistsError{Resource: "version", ID: "1.0.0"}
	assert.Equal(t, "version with ID 1.0.0 already exists", err.Error())
	assert.True(t, pkgerrors.IsAlreadyExists(err))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "timestamp",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field timestamp: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "invalid configuration",
		}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("per_page", 1000, "exceeds maximum")
		assert.Equal(t, 1000, err.Value)
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestAPIError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := pkgerrors.NewAPIError("github", http.StatusBadGateway, "bad gateway")
		assert.Equal(t, "API error from github (status 502): bad gateway", err.Error())
		assert.True(t, pkgerrors.IsSourceUnavailable(err))
		assert.False(t, pkgerrors.IsRateLimited(err))
	})

	t.Run("rate limited by status", func(t *testing.T) {
		err := pkgerrors.NewAPIError("github", http.StatusTooManyRequests, "slow down")
		assert.True(t, pkgerrors.IsRateLimited(err))
	})

	t.Run("rate limited by quota", func(t *testing.T) {
		err := &pkgerrors.APIError{Source: "github", StatusCode: http.StatusForbidden, RateLimit: true}
		assert.True(t, pkgerrors.IsRateLimited(err))
		assert.False(t, pkgerrors.IsSourceUnavailable(err))
	})

	t.Run("with wrapped error", func(t *testing.T) {
		base := errors.New("connection refused")
		err := &pkgerrors.APIError{Source: "github", Message: "request failed", Err: base}
		assert.Equal(t, "API error from github: request failed", err.Error())
		assert.ErrorIs(t, err, base)
	})
}

func TestConfigError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.ConfigError{Component: "mapping", Message: "unknown guid"}
		assert.Equal(t, "configuration error in mapping: unknown guid", err.Error())
		assert.True(t, pkgerrors.IsConfigError(err))
	})

	t.Run("unwrap", func(t *testing.T) {
		err := pkgerrors.NewConfigError("mapping", "unknown guid", pkgerrors.NewNotFoundError("plugin", "P9"))
		assert.True(t, pkgerrors.IsNotFound(err))
		assert.True(t, pkgerrors.IsConfigError(err))
	})

	t.Run("without component", func(t *testing.T) {
		err := &pkgerrors.ConfigError{Message: "bad"}
		assert.Equal(t, "configuration error: bad", err.Error())
	})
}

func TestMissingAssetError(t *testing.T) {
	err := &pkgerrors.MissingAssetError{Repository: "owner/name", Tag: "v1.1.0", Extension: ".zip"}
	assert.Equal(t, "owner/name: release v1.1.0 has no .zip asset", err.Error())
	assert.True(t, pkgerrors.IsMissingAsset(err))
	assert.False(t, pkgerrors.IsMetadataError(err))

	err = &pkgerrors.MissingAssetError{Plugin: "P1", Tag: "v2", Extension: ".zip"}
	assert.Equal(t, "plugin P1: release v2 has no .zip asset", err.Error())
}

func TestMetadataError(t *testing.T) {
	base := pkgerrors.NewParseError("json", "meta.json", "unexpected end of JSON input", nil)
	err := &pkgerrors.MetadataError{Source: "https://example.com/a.zip", Entry: "meta.json", Err: base}
	assert.Contains(t, err.Error(), "meta.json")
	assert.True(t, pkgerrors.IsMetadataError(err))

	var parseErr *pkgerrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "json", parseErr.Format)
}

func TestSyncError(t *testing.T) {
	t.Run("with repositories", func(t *testing.T) {
		err := pkgerrors.NewSyncError([]string{"a/b"}, errors.New("boom"))
		assert.Equal(t, "sync failed for 1 repositories [a/b]: boom", err.Error())
	})

	t.Run("without repositories", func(t *testing.T) {
		err := pkgerrors.NewSyncError(nil, errors.New("boom"))
		assert.Equal(t, "sync failed: boom", err.Error())
	})

	t.Run("unwrap", func(t *testing.T) {
		err := pkgerrors.NewSyncError([]string{"a/b"}, &pkgerrors.MissingAssetError{Repository: "a/b"})
		assert.True(t, pkgerrors.IsMissingAsset(err))
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file and position", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "json", File: "manifest.json", Line: 3, Column: 7, Message: "bad"}
		assert.Equal(t, "parse error in json at manifest.json:3:7: bad", err.Error())
	})

	t.Run("with file only", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "yaml", File: "repos.yaml", Message: "bad"}
		assert.Equal(t, "parse error in yaml file repos.yaml: bad", err.Error())
	})

	t.Run("format only", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "zip", Message: "not a valid zip file"}
		assert.Equal(t, "zip parse error: not a valid zip file", err.Error())
	})
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("write", "manifest.json", base)
	assert.Equal(t, "IO error during write of manifest.json: permission denied", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestWrapHelpers(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapValidation("f", nil))
		assert.NoError(t, pkgerrors.WrapIO("read", "p", nil))
		assert.NoError(t, pkgerrors.WrapResource("load", "manifest", "", nil))
		assert.NoError(t, pkgerrors.WrapParse("json", "f", nil))
		assert.NoError(t, pkgerrors.WrapAPI("github", 0, nil))
	})

	t.Run("WrapResource", func(t *testing.T) {
		err := pkgerrors.WrapResource("fetch", "releases", "owner/name", errors.New("boom"))
		assert.Equal(t, "failed to fetch releases owner/name: boom", err.Error())
	})

	t.Run("WrapAPI", func(t *testing.T) {
		err := pkgerrors.WrapAPI("github", http.StatusServiceUnavailable, errors.New("down"))
		assert.True(t, pkgerrors.IsSourceUnavailable(err))
	})
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", pkgerrors.ErrNotFound, pkgerrors.IsNotFound},
		{"rate limited", pkgerrors.ErrRateLimited, pkgerrors.IsRateLimited},
		{"timeout", pkgerrors.ErrTimeout, pkgerrors.IsTimeout},
		{"canceled", pkgerrors.ErrCanceled, pkgerrors.IsCanceled},
		{"missing asset", pkgerrors.ErrMissingAsset, pkgerrors.IsMissingAsset},
		{"metadata", pkgerrors.ErrMetadata, pkgerrors.IsMetadataError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.check(tc.err))
		})
	}
}
