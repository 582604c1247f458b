// Package lock provides advisory file locks guarding manifest writes.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrLocked indicates another process holds the lock.
var ErrLocked = errors.New("manifest is locked by another process")

// Lock is an exclusive flock on a sidecar file next to a manifest.
type Lock struct {
	target string
	path   string
	file   *os.File
}

// New creates a lock for target. The lock file is a hidden sibling,
// e.g. manifests/.cf.yml.lock for manifests/cf.yml.
func New(target string) *Lock {
	return &Lock{
		target: target,
		path:   filepath.Join(filepath.Dir(target), "."+filepath.Base(target)+".lock"),
	}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire attempts to acquire the lock without blocking.
// Returns an error wrapping ErrLocked if another process holds it.
func (l *Lock) Acquire() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		l.file = nil
		if errors.Is(err, unix.EWOULDBLOCK) {
			return fmt.Errorf("%s: %w", l.target, ErrLocked)
		}
		return fmt.Errorf("acquire lock: %w", err)
	}

	// PID helps when debugging a stuck lock
	f.Truncate(0)
	f.Seek(0, 0)
	fmt.Fprintf(f, "%d\n", os.Getpid())

	l.file = f
	return nil
}

// Release unlocks the lock file. The file is left in place so every
// process locks the same inode.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		l.file.Close()
		l.file = nil
		return fmt.Errorf("release lock: %w", err)
	}

	l.file.Close()
	l.file = nil

	return nil
}

// WithLock executes fn while holding the lock for target.
func WithLock(target string, fn func() error) error {
	lock := New(target)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	return fn()
}
