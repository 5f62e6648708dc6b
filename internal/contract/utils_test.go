package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leanlens/leanlens/schema"
)

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, "Critical", GetPlainLabel(schema.CriticalSeverity))
	assert.Equal(t, "High", GetPlainLabel(schema.HighSeverity))
	assert.Equal(t, "Medium", GetPlainLabel(schema.MediumSeverity))
	assert.Equal(t, "Low", GetPlainLabel(schema.LowSeverity))
	assert.Equal(t, "Low", GetPlainLabel(schema.Severity("whatever")))
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path uses stdout", func(t *testing.T) {
		f, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, f)
	})

	t.Run("creates the named file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		f, err := SelectOutputFile(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		_, statErr := os.Stat(path)
		assert.NoError(t, statErr)
	})
}

func TestGetDBFilePath(t *testing.T) {
	path := GetDBFilePath()
	assert.Equal(t, ".leanlens_runs.db", filepath.Base(path))
}
