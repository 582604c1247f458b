package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cloudfoundry/dusts/internal/lock"
	"github.com/cloudfoundry/dusts/internal/manifest"
	"github.com/cloudfoundry/dusts/internal/secrets"
	"github.com/cloudfoundry/dusts/internal/ui"
)

type mergeOptions struct {
	paths []string
	sops  bool
	write writeOptions
}

func newMergeCmd(g *globalOptions) *cobra.Command {
	o := &mergeOptions{}

	cmd := &cobra.Command{
		Use:     "merge-properties <source-manifest> <destination-manifest>",
		Aliases: []string{"add-cf-properties"},
		Short:   "Copy consul servers and nats properties between manifests",
		Long: `Copy property blocks from a source manifest into a destination manifest.

By default the consul agent LAN server list and the nats block are copied:

  properties.consul.agent.servers.lan
  properties.nats

Each value replaces whatever the destination held at that path. The
destination must already contain each path's parent; the source is never
modified. The destination file is overwritten.

Examples:
  # Point the CF API manifest at the CF manifest's consul and nats
  dusts merge-properties manifests/cf.yml manifests/cf-api.yml

  # Copy a different set of paths
  dusts merge-properties -p properties.nats -p properties.uaa cf.yml api.yml

  # Preview the change
  dusts merge-properties -n cf.yml api.yml

  # Source encrypted with sops
  dusts merge-properties cf.sops.yml api.yml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, g, o, args[0], args[1])
		},
	}

	cmd.Flags().StringArrayVarP(&o.paths, "path", "p", nil, "Property path to copy, repeatable (default from merge.paths)")
	cmd.Flags().BoolVar(&o.sops, "sops", false, "Decrypt the source with sops first (automatic for *.sops.* files)")
	addWriteFlags(cmd, &o.write)

	return cmd
}

func runMerge(cmd *cobra.Command, g *globalOptions, o *mergeOptions, srcPath, dstPath string) error {
	exprs := g.cfg.Merge.Paths
	if len(o.paths) > 0 {
		exprs = o.paths
	}
	paths, err := manifest.ParsePaths(exprs)
	if err != nil {
		return err
	}

	// Held from load to write.
	err = lock.WithLock(dstPath, func() error {
		return mergeLocked(cmd, g, o, srcPath, dstPath, paths)
	})
	if err != nil {
		return err
	}

	if !o.write.dryRun {
		ui.Success("Merged %d path(s) from %s into %s", len(paths), srcPath, dstPath)
	}
	return nil
}

func mergeLocked(cmd *cobra.Command, g *globalOptions, o *mergeOptions, srcPath, dstPath string, paths []manifest.Path) error {
	decrypt := o.sops || secrets.IsEncryptedName(srcPath)
	src, err := loadDocument(cmd.Context(), srcPath, decrypt, newDecryptor())
	if err != nil {
		return err
	}

	dst, err := manifest.Load(dstPath)
	if err != nil {
		return err
	}

	before, err := snapshotData(dst, o.write)
	if err != nil {
		return err
	}

	if err := manifest.MergeProperties(src, dst, paths); err != nil {
		return err
	}

	return g.writeDocument(dst, before, dstPath, o.write)
}
