package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudfoundry/dusts/internal/backup"
	"github.com/cloudfoundry/dusts/internal/lock"
	"github.com/cloudfoundry/dusts/internal/ui"
)

func newRestoreCmd(g *globalOptions) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "restore <manifest> [backup]",
		Short: "Restore a manifest from a backup",
		Long: `Restore a manifest from a backup taken by --backup or backup.enabled.

Without a backup name the newest backup is restored. The current manifest
is backed up first, so a restore can itself be undone.

Examples:
  dusts restore --list manifests/cf.yml
  dusts restore manifests/cf.yml
  dusts restore manifests/cf.yml cf.yml.20261019-101500.000000000-1a2b3c4d`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			if list {
				return listBackups(target)
			}

			name := ""
			if len(args) == 2 {
				name = args[1]
			}

			var restored string
			err := lock.WithLock(target, func() error {
				var err error
				restored, err = backup.Restore(target, name, g.cfg.Backup.Keep)
				return err
			})
			if err != nil {
				return err
			}

			ui.Success("Restored %s from %s", target, restored)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List available backups")

	return cmd
}

func listBackups(target string) error {
	backups, err := backup.List(target)
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		ui.Warning("No backups for %s", target)
		return nil
	}

	w := tabwriter.NewWriter(ui.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCREATED\tSIZE")
	for _, b := range backups {
		fmt.Fprintf(w, "%s\t%s\t%d\n", b.Name, b.Created.Format(time.RFC3339), b.Size)
	}
	return w.Flush()
}
