// Package secrets decrypts SOPS-encrypted manifests.
package secrets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrSOPSNotInstalled indicates the sops binary is not on PATH.
var ErrSOPSNotInstalled = errors.New("sops not installed (https://github.com/getsops/sops)")

// Decryptor turns an encrypted manifest into plaintext YAML.
type Decryptor interface {
	Decrypt(ctx context.Context, file string) ([]byte, error)
}

// SOPSOps decrypts files by running the sops binary.
type SOPSOps struct {
	// Binary is the sops executable, "sops" when empty.
	Binary string
}

// NewSOPSOps creates a new SOPSOps instance.
func NewSOPSOps() *SOPSOps {
	return &SOPSOps{Binary: "sops"}
}

// Decrypt decrypts a SOPS-encrypted YAML file and returns the plaintext YAML.
func (s *SOPSOps) Decrypt(ctx context.Context, file string) ([]byte, error) {
	binary := s.Binary
	if binary == "" {
		binary = "sops"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, ErrSOPSNotInstalled
	}

	cmd := exec.CommandContext(ctx, binary, "--input-type", "yaml", "--output-type", "yaml", "-d", file)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("sops decrypt failed for %s: %w: %s", file, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// IsEncryptedName reports whether a file name follows the *.sops.yml or
// *.sops.yaml convention.
func IsEncryptedName(path string) bool {
	return strings.Contains(filepath.Base(path), ".sops.")
}
