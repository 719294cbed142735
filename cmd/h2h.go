package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/metrics"
	"github.com/pable/go-pool-stats/internal/report"
)

var h2hCmd = &cobra.Command{
	Use:   "h2h",
	Short: "Show the head-to-head matrix between owned teams",
	Long: `Fetch every owned team's schedule and tally completed regular-season games
between owned teams. Each cell is the row team's W-L-OTL against the column.`,
	Args: cobra.NoArgs,
	RunE: runH2H,
}

func init() {
	h2hCmd.Flags().StringVar(&assignmentPath, "assignment", "", "fan assignment JSON file (default: config)")
}

func runH2H(cmd *cobra.Command, args []string) error {
	league, err := loadLeague()
	if err != nil {
		return err
	}
	assignment, err := loadAssignment(league)
	if err != nil {
		return err
	}
	src, closeSrc, err := newScheduleSource(league)
	if err != nil {
		return err
	}
	defer closeSrc()

	m := metrics.New()
	defer writeMetrics(m)

	res := newReconciler(league, src, m).Reconcile(cmd.Context(), assignment)
	heading("=== Head-to-Head ===")
	report.PrintMatrix(os.Stdout, res.Owned())

	if len(res.Failed) > 0 {
		labels := make([]string, len(res.Failed))
		for i, t := range res.Failed {
			labels[i] = teamLabel(league, t)
		}
		warnf("Schedules unavailable: %s", strings.Join(labels, ", "))
	}
	return nil
}
