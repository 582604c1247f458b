package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/cloudfoundry/dusts/internal/config"
	"github.com/cloudfoundry/dusts/internal/secrets"
	"github.com/cloudfoundry/dusts/internal/ui"
)

// executeCmd runs a fresh command tree with the given args and returns
// everything written to stdout and stderr. Config discovery is pinned to
// an empty config so a stray .dusts.yml cannot leak into the test.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("{}\n"), 0644))
	t.Setenv(config.EnvConfig, cfgPath)

	oldNoColor := color.NoColor
	t.Cleanup(func() {
		ui.SetOutput(nil, nil)
		color.NoColor = oldNoColor
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	})

	buf := new(bytes.Buffer)
	rootCmd := newRootCmd()
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// writeFile writes content to name inside dir and returns the full path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// readFile returns the content of path.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// fakeDecryptor returns fixed plaintext for any file. onDecrypt, when set,
// runs before the plaintext is returned.
type fakeDecryptor struct {
	plaintext string
	err       error
	calls     []string
	onDecrypt func()
}

func (f *fakeDecryptor) Decrypt(_ context.Context, file string) ([]byte, error) {
	f.calls = append(f.calls, file)
	if f.onDecrypt != nil {
		f.onDecrypt()
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.plaintext), nil
}

// useDecryptor swaps the decryptor used by merge-properties for the test.
func useDecryptor(t *testing.T, d secrets.Decryptor) {
	t.Helper()
	old := newDecryptor
	newDecryptor = func() secrets.Decryptor { return d }
	t.Cleanup(func() { newDecryptor = old })
}
