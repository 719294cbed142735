package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/report"
	"github.com/pable/go-pool-stats/internal/stats"
)

var trendCmd = &cobra.Command{
	Use:   "trend <participant>",
	Short: "Season-over-season trend for a participant",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrend,
}

func runTrend(cmd *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	points := newTracker(st).Trend(args[0])
	if len(points) == 0 {
		fmt.Println("fewer than two seasons recorded")
		return nil
	}
	heading("=== %s trend ===", args[0])
	report.PrintTrend(os.Stdout, points, stats.ImprovementScore)
	return nil
}
