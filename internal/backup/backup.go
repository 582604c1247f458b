// Package backup keeps timestamped copies of manifests taken before they are
// overwritten.
package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/cloudfoundry/dusts/internal/fileutil"
)

const (
	// DateFormat is the timestamp format embedded in backup names.
	// Nanoseconds prevent same-second collisions.
	DateFormat = "20060102-150405.000000000"

	// DefaultKeep is the number of backups retained per manifest.
	DefaultKeep = 10
)

// ErrNotFound indicates no backup matches the request.
var ErrNotFound = errors.New("backup not found")

// Info holds metadata about a backup.
type Info struct {
	Name    string
	Path    string
	Created time.Time
	Size    int64
}

// Dir returns the directory holding backups for target.
func Dir(target string) string {
	return filepath.Join(filepath.Dir(target), ".dusts", "backups")
}

// prefix returns the name prefix shared by all backups of target.
func prefix(target string) string {
	return filepath.Base(target) + "."
}

// Create copies target into its backup directory and prunes backups beyond
// keep (keep <= 0 disables pruning). Returns the backup name, or an empty
// string if target does not exist yet.
func Create(target string, keep int) (string, error) {
	if _, err := os.Stat(target); os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("stat manifest: %w", err)
	}

	dir := Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	name := prefix(target) + time.Now().Format(DateFormat) + "-" + uuid.New().String()[:8]
	if err := fileutil.CopyFile(target, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("copy manifest to backup: %w", err)
	}

	if err := Cleanup(target, keep); err != nil {
		// Pruning failures must not fail the write that follows
		log.WithError(err).Warn("failed to prune old backups")
	}

	return name, nil
}

// List returns the backups of target sorted newest first.
func List(target string) ([]Info, error) {
	dir := Dir(target)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	p := prefix(target)
	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), p) {
			continue
		}

		// Names of other manifests sharing the prefix do not parse
		stamp := strings.TrimPrefix(entry.Name(), p)
		if len(stamp) < len(DateFormat) {
			continue
		}
		created, err := time.ParseInLocation(DateFormat, stamp[:len(DateFormat)], time.Local)
		if err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.WithError(err).WithField("backup", entry.Name()).Warn("cannot read backup")
			continue
		}

		backups = append(backups, Info{
			Name:    entry.Name(),
			Path:    filepath.Join(dir, entry.Name()),
			Created: created,
			Size:    info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		return backups[i].Created.After(backups[j].Created)
	})

	return backups, nil
}

// Restore copies a backup over target. An empty name restores the newest
// backup. The current target is backed up first so a restore can be undone.
func Restore(target, name string, keep int) (string, error) {
	backups, err := List(target)
	if err != nil {
		return "", err
	}

	var chosen *Info
	for i := range backups {
		if name == "" || backups[i].Name == name {
			chosen = &backups[i]
			break
		}
	}
	if chosen == nil {
		if name == "" {
			return "", fmt.Errorf("%w for %s", ErrNotFound, target)
		}
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	// Prune only after the copy so the chosen backup cannot be removed first
	if _, err := Create(target, 0); err != nil {
		return "", fmt.Errorf("back up current manifest: %w", err)
	}

	if err := fileutil.CopyFile(chosen.Path, target); err != nil {
		return "", fmt.Errorf("restore %s: %w", chosen.Name, err)
	}

	if err := Cleanup(target, keep); err != nil {
		log.WithError(err).Warn("failed to prune old backups")
	}

	return chosen.Name, nil
}

// Cleanup removes backups of target beyond the newest keep.
// Continues deleting even if individual removals fail, returning a summary of all errors.
func Cleanup(target string, keep int) error {
	if keep <= 0 {
		return nil
	}

	backups, err := List(target)
	if err != nil {
		return err
	}

	if len(backups) <= keep {
		return nil
	}

	var errs []string
	for _, b := range backups[keep:] {
		if err := os.Remove(b.Path); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", b.Name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to remove %d backup(s): %s", len(errs), strings.Join(errs, "; "))
	}

	return nil
}
