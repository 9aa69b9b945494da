package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("DOCDB_LOG_LEVEL")
	os.Unsetenv("DOCDB_MAX_DOCUMENT_BYTES")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 0, c.MaxDocumentBytes)
}

func TestLoadFromEnvironment(t *testing.T) {
	os.Setenv("DOCDB_LOG_LEVEL", "debug")
	os.Setenv("DOCDB_MAX_DOCUMENT_BYTES", "4096")
	defer os.Unsetenv("DOCDB_LOG_LEVEL")
	defer os.Unsetenv("DOCDB_MAX_DOCUMENT_BYTES")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, 4096, c.MaxDocumentBytes)
}
