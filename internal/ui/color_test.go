package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

// captureOutput routes ui output into buffers for the duration of fn.
func captureOutput(t *testing.T, fn func()) (string, string) {
	t.Helper()

	oldNoColor := color.NoColor
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	SetOutput(&stdout, &stderr)

	t.Cleanup(func() {
		SetOutput(nil, nil)
		color.NoColor = oldNoColor
	})

	fn()
	return stdout.String(), stderr.String()
}

func TestSuccess(t *testing.T) {
	stdout, stderr := captureOutput(t, func() {
		Success("wrote %s", "cf.yml")
	})
	assert.Equal(t, "✓ wrote cf.yml\n", stdout)
	assert.Empty(t, stderr)
}

func TestError(t *testing.T) {
	stdout, stderr := captureOutput(t, func() {
		Error("failed with code %d: %s", 1, "job not found")
	})
	assert.Empty(t, stdout)
	assert.Equal(t, "✗ failed with code 1: job not found\n", stderr)
}

func TestWarning(t *testing.T) {
	stdout, _ := captureOutput(t, func() {
		Warning("no backup for %s", "cf.yml")
	})
	assert.Equal(t, "⚠ no backup for cf.yml\n", stdout)
}

func TestInfo(t *testing.T) {
	stdout, _ := captureOutput(t, func() {
		Info("dry run")
	})
	assert.Equal(t, "dry run\n", stdout)
}

func TestHeader(t *testing.T) {
	stdout, _ := captureOutput(t, func() {
		Header("=== %s ===", "Jobs")
	})
	assert.Equal(t, "=== Jobs ===\n", stdout)
}

func TestSetOutput_NilRestoresDefaults(t *testing.T) {
	SetOutput(nil, nil)
	assert.Equal(t, color.Output, Stdout())
	assert.Equal(t, color.Error, Stderr())
}

func TestConfigureColor(t *testing.T) {
	old := color.NoColor
	t.Cleanup(func() { color.NoColor = old })

	ConfigureColor(true)
	assert.True(t, color.NoColor)
}
