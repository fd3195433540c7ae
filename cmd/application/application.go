// Package application provides the application interface for svcmap commands.
//
// The Application interface defines the contract between the application
// layer and command implementations, enabling dependency injection and
// testability. Commands should accept this interface rather than the
// concrete App type.
package application

import "github.com/rs/zerolog"

// Application provides the application interface that commands need.
// The App struct from cmd/svcmap/app implements this interface.
type Application interface {
	// Logger returns the configured logger instance.
	// Commands should use this for all diagnostic output.
	Logger() *zerolog.Logger

	// OutputFormat returns the requested output format (table, json, csv),
	// or the empty string when the user gave none.
	OutputFormat() string

	// Version returns the application version string.
	Version() string
}

// Mock implements Application for command tests.
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	nop := zerolog.Nop()
	return &nop
}

// OutputFormat implements Application.
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return ""
}

// Version implements Application.
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "test"
}
