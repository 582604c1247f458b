package lock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	lock := New("/tmp/manifests/cf.yml")
	assert.Equal(t, "/tmp/manifests/.cf.yml.lock", lock.Path())
}

func TestLock_AcquireRelease(t *testing.T) {
	tmpDir := t.TempDir()
	lock := New(filepath.Join(tmpDir, "cf.yml"))

	err := lock.Acquire()
	require.NoError(t, err)

	lockPath := filepath.Join(tmpDir, ".cf.yml.lock")
	_, err = os.Stat(lockPath)
	require.NoError(t, err)

	err = lock.Release()
	require.NoError(t, err)

	// Lock file stays so later lockers share its inode
	_, err = os.Stat(lockPath)
	assert.NoError(t, err)

	again := New(filepath.Join(tmpDir, "cf.yml"))
	require.NoError(t, again.Acquire())
	require.NoError(t, again.Release())
}

func TestLock_DoubleAcquire(t *testing.T) {
	target := filepath.Join(t.TempDir(), "cf.yml")
	lock1 := New(target)
	lock2 := New(target)

	err := lock1.Acquire()
	require.NoError(t, err)
	defer lock1.Release()

	err = lock2.Acquire()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocked)
	assert.Contains(t, err.Error(), target)
}

func TestLock_DifferentTargets(t *testing.T) {
	tmpDir := t.TempDir()
	lock1 := New(filepath.Join(tmpDir, "cf.yml"))
	lock2 := New(filepath.Join(tmpDir, "cf-api.yml"))

	require.NoError(t, lock1.Acquire())
	defer lock1.Release()

	require.NoError(t, lock2.Acquire())
	defer lock2.Release()
}

func TestLock_ReleaseWithoutAcquire(t *testing.T) {
	lock := New(filepath.Join(t.TempDir(), "cf.yml"))

	err := lock.Release()
	require.NoError(t, err)
}

func TestLock_MissingDirectory(t *testing.T) {
	lock := New(filepath.Join(t.TempDir(), "missing", "cf.yml"))

	err := lock.Acquire()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocked)
}

func TestWithLock(t *testing.T) {
	target := filepath.Join(t.TempDir(), "cf.yml")

	executed := false
	err := WithLock(target, func() error {
		executed = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, executed)
}

func TestWithLock_ReturnsFnError(t *testing.T) {
	target := filepath.Join(t.TempDir(), "cf.yml")
	boom := errors.New("boom")

	err := WithLock(target, func() error {
		return boom
	})

	assert.ErrorIs(t, err, boom)

	// Lock is released after fn returns
	require.NoError(t, WithLock(target, func() error { return nil }))
}

func TestWithLock_Blocked(t *testing.T) {
	target := filepath.Join(t.TempDir(), "cf.yml")
	lock := New(target)

	require.NoError(t, lock.Acquire())
	defer lock.Release()

	executed := false
	err := WithLock(target, func() error {
		executed = true
		return nil
	})
	assert.ErrorIs(t, err, ErrLocked)
	assert.False(t, executed)
}
