package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/history"
	"github.com/pable/go-pool-stats/internal/report"
	"github.com/pable/go-pool-stats/internal/stats"
)

var (
	improveFrom string
	improveTo   string
)

var improveCmd = &cobra.Command{
	Use:   "improve <participant>",
	Short: "Compare a participant's two seasons",
	Long: `Show wins, points and league-rank deltas between two recorded seasons and
the weighted improvement score (3*ΔW + ΔPTS + 2*ΔRANK). Defaults compare the
configured season with the one before it.`,
	Args: cobra.ExactArgs(1),
	RunE: runImprove,
}

func init() {
	improveCmd.Flags().StringVar(&improveFrom, "from", "", "earlier season (default: season before --to)")
	improveCmd.Flags().StringVar(&improveTo, "to", "", "later season (default: configured season)")
}

func runImprove(cmd *cobra.Command, args []string) error {
	league, err := loadLeague()
	if err != nil {
		return err
	}
	to := pick(improveTo, league.Season)
	from := improveFrom
	if from == "" {
		if from, err = history.PreviousSeason(to); err != nil {
			return fmt.Errorf("cannot infer --from: %w", err)
		}
	}

	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	imp := newTracker(st).CalculateImprovement(args[0], from, to)
	score := 0
	if imp != nil {
		score = stats.ImprovementScore(*imp)
	}
	report.PrintImprovement(os.Stdout, args[0], from, to, imp, score)
	return nil
}
