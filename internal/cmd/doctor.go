package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cloudfoundry/dusts/internal/preflight"
	"github.com/cloudfoundry/dusts/internal/ui"
)

func newDoctorCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check optional tools and configuration",
		Long: `Check the tools and settings dusts relies on.

Missing sops or age only matters for encrypted source manifests, so they
are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(g)
		},
	}
}

func runDoctor(g *globalOptions) error {
	out := ui.Stdout()
	ui.Info("Running pre-flight checks...")
	fmt.Fprintln(out)

	passed := 0
	warned := 0

	found, missing := preflight.Check(preflight.Binaries)
	for _, bin := range found {
		ui.Green.Fprintf(out, "  * %s is installed\n", bin.Name)
		passed++
	}
	for _, bin := range missing {
		ui.Yellow.Fprintf(out, "  ! %s not found, needed to %s (%s)\n", bin.Name, bin.Purpose, bin.InstallHint)
		warned++
	}

	ageKeyFile, err := defaultAgeKeyFile()
	switch {
	case err != nil:
		ui.Yellow.Fprintf(out, "  ! Age key location unknown: %v\n", err)
		warned++
	case fileExists(ageKeyFile):
		ui.Green.Fprintf(out, "  * Age key found: %s\n", ageKeyFile)
		passed++
	default:
		ui.Yellow.Fprintf(out, "  ! Age key not found: %s\n", ageKeyFile)
		warned++
	}

	if g.cfg.Path != "" {
		ui.Green.Fprintf(out, "  * Config: %s\n", g.cfg.Path)
	} else {
		ui.Green.Fprintln(out, "  * Config: built-in defaults")
	}
	passed++

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Summary: ")
	ui.Green.Fprintf(out, "%d passed", passed)
	fmt.Fprintf(out, ", ")
	ui.Yellow.Fprintf(out, "%d warnings\n", warned)

	return nil
}

// defaultAgeKeyFile returns $SOPS_AGE_KEY_FILE or the sops default under
// the home directory.
func defaultAgeKeyFile() (string, error) {
	if path := os.Getenv("SOPS_AGE_KEY_FILE"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("set SOPS_AGE_KEY_FILE or HOME: %w", err)
	}
	return filepath.Join(home, ".config", "sops", "age", "keys.txt"), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
