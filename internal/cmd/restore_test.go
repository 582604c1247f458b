package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudfoundry/dusts/internal/backup"
)

func TestRestoreCmd(t *testing.T) {
	t.Run("restores newest backup", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "cf.yml", jobsManifest)

		_, err := executeCmd(t, "disable-job", "--backup", path, path)
		require.NoError(t, err)
		assert.NotEqual(t, jobsManifest, readFile(t, path))

		time.Sleep(5 * time.Millisecond)

		output, err := executeCmd(t, "restore", path)
		require.NoError(t, err)
		assert.Contains(t, output, "Restored")
		assert.Equal(t, jobsManifest, readFile(t, path))

		// The disabled manifest was backed up before the restore
		backups, err := backup.List(path)
		require.NoError(t, err)
		assert.Len(t, backups, 2)
	})

	t.Run("restores named backup", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "cf.yml", "name: first\n")

		first, err := backup.Create(path, 0)
		require.NoError(t, err)
		writeFile(t, dir, "cf.yml", "name: second\n")

		_, err = executeCmd(t, "restore", path, first)
		require.NoError(t, err)
		assert.Equal(t, "name: first\n", readFile(t, path))
	})

	t.Run("no backups", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "cf.yml", "name: cf\n")

		_, err := executeCmd(t, "restore", path)
		require.Error(t, err)
		assert.ErrorIs(t, err, backup.ErrNotFound)
	})

	t.Run("unknown backup name", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "cf.yml", "name: cf\n")
		_, err := backup.Create(path, 0)
		require.NoError(t, err)

		_, err = executeCmd(t, "restore", path, "cf.yml.bogus")
		require.Error(t, err)
		assert.ErrorIs(t, err, backup.ErrNotFound)
	})
}

func TestRestoreCmd_List(t *testing.T) {
	t.Run("lists backups", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "cf.yml", "name: cf\n")
		name, err := backup.Create(path, 0)
		require.NoError(t, err)

		output, err := executeCmd(t, "restore", "--list", path)
		require.NoError(t, err)
		assert.Contains(t, output, "CREATED")
		assert.Contains(t, output, name)
	})

	t.Run("no backups", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "cf.yml", "name: cf\n")

		output, err := executeCmd(t, "restore", "-l", path)
		require.NoError(t, err)
		assert.Contains(t, output, "No backups")
	})
}
