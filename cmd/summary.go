package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level history overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the pool history",
	Long: `Display aggregate statistics about every recorded season: season count,
range, and per-participant totals of wins, points, best league rank,
playoff wins and cups.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	tracker := newTracker(st)
	seasons := tracker.Seasons()
	if len(seasons) == 0 {
		fmt.Fprintln(os.Stdout, "No seasons recorded yet. Run 'poolstats record' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== History Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Seasons stored : %d\n", len(seasons))
	fmt.Fprintf(os.Stdout, "  Range          : %s → %s\n", seasons[0], seasons[len(seasons)-1])
	fmt.Fprintf(os.Stdout, "  Participants   : %d\n", len(tracker.Participants()))
	fmt.Fprintf(os.Stdout, "  Backend        : %s (%s)\n", backend, historyPath)

	fmt.Fprintf(os.Stdout, "\n--- Participants ---\n\n")
	report.PrintSummaries(os.Stdout, tracker.Summaries())
	return nil
}
