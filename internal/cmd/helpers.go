package cmd

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cloudfoundry/dusts/internal/backup"
	"github.com/cloudfoundry/dusts/internal/fileutil"
	"github.com/cloudfoundry/dusts/internal/manifest"
	"github.com/cloudfoundry/dusts/internal/secrets"
	"github.com/cloudfoundry/dusts/internal/ui"
)

// writeOptions are the flags shared by commands that overwrite a manifest.
type writeOptions struct {
	dryRun bool
	backup bool
}

func addWriteFlags(cmd *cobra.Command, w *writeOptions) {
	cmd.Flags().BoolVarP(&w.dryRun, "dry-run", "n", false, "Show the changes without writing")
	cmd.Flags().BoolVarP(&w.backup, "backup", "b", false, "Back up the target before overwriting (also backup.enabled)")
}

// loadDocument loads a manifest, decrypting it with dec first when asked.
func loadDocument(ctx context.Context, path string, decrypt bool, dec secrets.Decryptor) (*manifest.Document, error) {
	if !decrypt {
		return manifest.Load(path)
	}

	data, err := dec.Decrypt(ctx, path)
	if err != nil {
		return nil, err
	}

	doc, err := manifest.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path

	return doc, nil
}

// snapshotData decodes doc for a later dry-run diff. It returns nil when
// no dry run was requested.
func snapshotData(doc *manifest.Document, w writeOptions) (any, error) {
	if !w.dryRun {
		return nil, nil
	}
	return doc.Data()
}

// writeDocument writes doc to target, taking a backup first when enabled.
// In dry-run mode it prints a diff against before instead. The caller
// holds the target's lock.
func (g *globalOptions) writeDocument(doc *manifest.Document, before any, target string, w writeOptions) error {
	if w.dryRun {
		after, err := doc.Data()
		if err != nil {
			return err
		}

		diff := cmp.Diff(before, after)
		if diff == "" {
			ui.Info("No changes for %s", target)
			return nil
		}
		ui.Header("--- %s (dry run, -before +after) ---", target)
		fmt.Fprint(ui.Stdout(), diff)
		return nil
	}

	data, err := doc.Bytes()
	if err != nil {
		return err
	}

	takeBackup := w.backup || g.cfg.Backup.Enabled

	if takeBackup {
		name, err := backup.Create(target, g.cfg.Backup.Keep)
		if err != nil {
			return fmt.Errorf("back up %s: %w", target, err)
		}
		if name != "" {
			log.WithField("backup", name).Debug("backed up manifest")
		}
	}

	if err := fileutil.WriteFile(target, data, fileutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	log.WithField("path", target).Debug("wrote manifest")
	return nil
}
