package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudfoundry/dusts/internal/lock"
	"github.com/cloudfoundry/dusts/internal/manifest"
	"github.com/cloudfoundry/dusts/internal/ui"
)

type disableOptions struct {
	job          string
	networkIndex int
	write        writeOptions
}

func newDisableCmd(g *globalOptions) *cobra.Command {
	o := &disableOptions{}

	cmd := &cobra.Command{
		Use:     "disable-job <input-manifest> <output-manifest>",
		Aliases: []string{"remove-doppler-z1"},
		Short:   "Zero a job's instances and static IPs",
		Long: `Disable a job by setting its instances to 0 and emptying the static_ips
of its first network binding.

The first entry in jobs named doppler_z1 (or --job) is changed; every other
job is written back unchanged and in order. Input and output may be the
same file. Nothing is written if the job does not exist.

Examples:
  # Drop doppler_z1 from the CF manifest in place
  dusts disable-job manifests/cf.yml manifests/cf.yml

  # Disable another job, clearing IPs on its second network
  dusts disable-job --job router_z1 --network-index 1 cf.yml cf-no-router.yml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisable(cmd, g, o, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&o.job, "job", "j", "", "Job to disable (default from disable.job, doppler_z1)")
	cmd.Flags().IntVar(&o.networkIndex, "network-index", 0, "Network binding whose static IPs are cleared (default from disable.network_index)")
	addWriteFlags(cmd, &o.write)

	return cmd
}

func runDisable(cmd *cobra.Command, g *globalOptions, o *disableOptions, inPath, outPath string) error {
	job := g.cfg.Disable.Job
	if o.job != "" {
		job = o.job
	}

	networkIndex := g.cfg.Disable.NetworkIndex
	if cmd.Flags().Changed("network-index") {
		networkIndex = o.networkIndex
	}
	if networkIndex < 0 {
		return fmt.Errorf("--network-index must not be negative, got %d", networkIndex)
	}

	// Held from load to write; input and output are often the same file.
	err := lock.WithLock(outPath, func() error {
		doc, err := manifest.Load(inPath)
		if err != nil {
			return err
		}

		before, err := snapshotData(doc, o.write)
		if err != nil {
			return err
		}

		if err := manifest.DisableJob(doc, job, networkIndex); err != nil {
			return fmt.Errorf("%s: %w", inPath, err)
		}

		return g.writeDocument(doc, before, outPath, o.write)
	})
	if err != nil {
		return err
	}

	if !o.write.dryRun {
		ui.Success("Disabled %s, wrote %s", job, outPath)
	}
	return nil
}
