package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudfoundry/dusts/internal/manifest"
	"github.com/cloudfoundry/dusts/internal/ui"
)

func newJobsCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs <manifest>",
		Short: "List jobs with instances and static IPs",
		Long: `List the jobs of a manifest in declaration order.

STATIC IPS shows the first network binding of each job, the one
disable-job clears by default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			jobs, err := doc.Jobs()
			if err != nil && !errors.Is(err, manifest.ErrMissingField) {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if len(jobs) == 0 {
				ui.Warning("No jobs in %s", args[0])
				return nil
			}

			w := tabwriter.NewWriter(ui.Stdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tINSTANCES\tSTATIC IPS")
			for _, job := range jobs {
				ips := strings.Join(job.StaticIPs(), ",")
				if ips == "" {
					ips = "-"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", job.Name, job.Instances, ips)
			}
			return w.Flush()
		},
	}
}
