// Package application provides test doubles for the command application interface.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/manifestsync"
	"github.com/agentstation/manifestsync/cmd/application"
)

var _ application.Application = (*Mock)(nil)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    ClientFunc: func(opts ...manifestsync.Option) (manifestsync.Client, error) {
//	        return manifestsync.New(append(opts, manifestsync.WithFetcher(fake))...)
//	    },
//	}
//	cmd := sync.NewCommand(mock)
type Mock struct {
	ClientFunc       func(opts ...manifestsync.Option) (manifestsync.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	QuietValue       bool
	NoColorValue     bool
	ManifestPathFunc func() string
	ReposPathFunc    func() string
	OutputPathFunc   func() string
}

// Client returns a client using the mock function or a default client.
func (m *Mock) Client(opts ...manifestsync.Option) (manifestsync.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(opts...)
	}
	return manifestsync.New(opts...)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Quiet returns QuietValue.
func (m *Mock) Quiet() bool { return m.QuietValue }

// NoColor returns NoColorValue.
func (m *Mock) NoColor() bool { return m.NoColorValue }

// ManifestPath returns the manifest path using the mock function or "manifest.json".
func (m *Mock) ManifestPath() string {
	if m.ManifestPathFunc != nil {
		return m.ManifestPathFunc()
	}
	return "manifest.json"
}

// ReposPath returns the mapping path using the mock function or "repos.json".
func (m *Mock) ReposPath() string {
	if m.ReposPathFunc != nil {
		return m.ReposPathFunc()
	}
	return "repos.json"
}

// OutputPath returns the output path using the mock function or "".
func (m *Mock) OutputPath() string {
	if m.OutputPathFunc != nil {
		return m.OutputPathFunc()
	}
	return ""
}

// Version returns "dev".
func (m *Mock) Version() string { return "dev" }

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }
