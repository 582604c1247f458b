// Package cmd provides the CLI commands for dusts.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cloudfoundry/dusts/internal/config"
	"github.com/cloudfoundry/dusts/internal/secrets"
	"github.com/cloudfoundry/dusts/internal/ui"
)

const version = "0.1.0"

// newDecryptor returns the decryptor used for encrypted source manifests.
var newDecryptor = func() secrets.Decryptor {
	return secrets.NewSOPSOps()
}

// globalOptions holds persistent flags and the state loaded from them.
type globalOptions struct {
	configPath string
	verbose    bool
	noColor    bool

	cfg *config.Config
}

// setup configures output and logging, then loads the config file.
func (g *globalOptions) setup(cmd *cobra.Command) error {
	ui.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	ui.ConfigureColor(g.noColor)

	log.SetOutput(cmd.ErrOrStderr())
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetLevel(log.InfoLevel)
	if g.verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		log.WithField("config", cfg.Path).Debug("loaded config")
	}
	g.cfg = cfg

	return nil
}

// newRootCmd builds the command tree. Each call returns fresh commands and
// flag state.
func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "dusts",
		Short: "Manifest surgery for Diego upgrade stability runs",
		Long: `dusts - manifest surgery for Diego upgrade stability runs

Edits BOSH deployment manifests in place, keeping key order and comments
of everything it does not touch.

MANIFEST COMMANDS
  merge-properties <src> <dst>   Copy consul servers and nats properties
                                 from src into dst (alias add-cf-properties)
  disable-job <in> <out>         Zero instances and static IPs of doppler_z1
                                 (alias remove-doppler-z1)
  jobs <manifest>                List jobs with instances and static IPs

BACKUPS
  restore <manifest> [backup]    Restore a manifest from a backup
    --list, -l                   List available backups

TOOLS
  doctor                         Check sops, age and config

Defaults can be set in .dusts.yml, found by searching upward from the
working directory, or named by --config or $DUSTS_CONFIG.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file (default: nearest .dusts.yml or $DUSTS_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log each edit")
	rootCmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newMergeCmd(g),
		newDisableCmd(g),
		newJobsCmd(g),
		newRestoreCmd(g),
		newDoctorCmd(g),
	)

	rootCmd.SetVersionTemplate("dusts version {{.Version}}\n")

	return rootCmd
}

// Execute runs the CLI and exits 1 on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		ui.Error("%v", err)
		stop()
		os.Exit(1)
	}
}
