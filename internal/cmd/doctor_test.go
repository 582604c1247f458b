package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorCmd(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("SOPS_AGE_KEY_FILE", filepath.Join(t.TempDir(), "keys.txt"))

	output, err := executeCmd(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, output, "sops not found")
	assert.Contains(t, output, "Age key not found")
	assert.Contains(t, output, "Config:")
	assert.Contains(t, output, "1 passed, 3 warnings")
}

func TestDoctorCmd_AgeKey(t *testing.T) {
	dir := t.TempDir()
	key := writeFile(t, dir, "keys.txt", "AGE-SECRET-KEY-1\n")
	t.Setenv("SOPS_AGE_KEY_FILE", key)

	output, err := executeCmd(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, output, "Age key found: "+key)
}

func TestDoctorCmd_NoHome(t *testing.T) {
	t.Setenv("SOPS_AGE_KEY_FILE", "")
	t.Setenv("HOME", "")

	output, err := executeCmd(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, output, "Age key location unknown")
	assert.NotContains(t, output, ".config/sops/age/keys.txt")
}

func TestDefaultAgeKeyFile(t *testing.T) {
	t.Run("env wins", func(t *testing.T) {
		t.Setenv("SOPS_AGE_KEY_FILE", "/keys/age.txt")
		path, err := defaultAgeKeyFile()
		require.NoError(t, err)
		assert.Equal(t, "/keys/age.txt", path)
	})

	t.Run("under home", func(t *testing.T) {
		t.Setenv("SOPS_AGE_KEY_FILE", "")
		t.Setenv("HOME", "/home/ci")
		path, err := defaultAgeKeyFile()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/ci", ".config", "sops", "age", "keys.txt"), path)
	})
}
