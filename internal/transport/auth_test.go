package transport

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNoAuth tests that NoAuth applies no authentication.
func TestNoAuth(t *testing.T) {
	auth := &NoAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req, "test-token")

	assert.Empty(t, req.Header)
}

// TestBearerAuth tests Bearer token authentication.
func TestBearerAuth(t *testing.T) {
	auth := &BearerAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req, "test-token")

	assert.Equal(t, "Bearer test-token", req.Header.Get("Authorization"))
}

func TestAuthFor(t *testing.T) {
	assert.IsType(t, &NoAuth{}, AuthFor(""))
	assert.IsType(t, &BearerAuth{}, AuthFor("ghp_example"))
}
