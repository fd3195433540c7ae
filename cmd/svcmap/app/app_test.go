package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsatlas/svcmap/pkg/logging"
)

func TestNew(t *testing.T) {
	app, err := New("1.2.3", "abc123", "2026-08-29")
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", app.Version())
	assert.Equal(t, "abc123", app.Commit())
	assert.Equal(t, "2026-08-29", app.Date())
	assert.NotNil(t, app.Config())
	assert.NotNil(t, app.Logger())
}

func TestNewWithOptions(t *testing.T) {
	config := &Config{Output: "csv"}
	logger := logging.NewNopLogger()

	app, err := New("dev", "unknown", "unknown",
		WithConfig(config),
		WithLogger(logger),
	)
	require.NoError(t, err)

	assert.Same(t, config, app.Config())
	assert.Same(t, logger, app.Logger())
	assert.Equal(t, "csv", app.OutputFormat())
}

func TestCreateRootCommand(t *testing.T) {
	app, err := New("dev", "unknown", "unknown")
	require.NoError(t, err)

	root := app.createRootCommand()

	assert.Equal(t, "svcmap", root.Use)
	assert.True(t, root.SilenceUsage)
	assert.True(t, root.SilenceErrors)

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "gaps")
	assert.Contains(t, names, "teams")
	assert.Contains(t, names, "deps")
	assert.Contains(t, names, "version")
}
