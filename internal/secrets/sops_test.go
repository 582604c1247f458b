package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSOPS writes a shell script that prints the file named by its last
// argument, standing in for a successful decryption.
func fakeSOPS(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sops")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))
	return path
}

func TestNewSOPSOps(t *testing.T) {
	sops := NewSOPSOps()
	assert.Equal(t, "sops", sops.Binary)
}

func TestSOPSOps_Decrypt(t *testing.T) {
	t.Run("returns plaintext from sops", func(t *testing.T) {
		bin := fakeSOPS(t, `for last; do :; done; cat "$last"`)
		file := filepath.Join(t.TempDir(), "cf.sops.yml")
		require.NoError(t, os.WriteFile(file, []byte("properties:\n  nats: {user: a}\n"), 0644))

		sops := &SOPSOps{Binary: bin}
		out, err := sops.Decrypt(context.Background(), file)
		require.NoError(t, err)
		assert.Equal(t, "properties:\n  nats: {user: a}\n", string(out))
	})

	t.Run("includes stderr on failure", func(t *testing.T) {
		bin := fakeSOPS(t, `echo "no key found" >&2; exit 128`)

		sops := &SOPSOps{Binary: bin}
		_, err := sops.Decrypt(context.Background(), "cf.sops.yml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no key found")
		assert.Contains(t, err.Error(), "cf.sops.yml")
	})

	t.Run("missing binary", func(t *testing.T) {
		sops := &SOPSOps{Binary: filepath.Join(t.TempDir(), "nope")}
		_, err := sops.Decrypt(context.Background(), "cf.sops.yml")
		assert.ErrorIs(t, err, ErrSOPSNotInstalled)
	})
}

func TestIsEncryptedName(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"cf.sops.yml", true},
		{"manifests/cf.sops.yaml", true},
		{"cf.yml", false},
		{"sops/cf.yml", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEncryptedName(tt.path))
		})
	}
}
