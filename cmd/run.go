package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/metrics"
	"github.com/pable/go-pool-stats/internal/report"
	"github.com/pable/go-pool-stats/internal/stats"
)

var (
	runRecord bool
	runJSON   bool
	runNoH2H  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute every leaderboard category for the pool",
	Long: `Join standings to the fan assignment, reconcile head-to-head results from
team schedules, compute cup odds and derive every category. The result is
printed and kept as the last run for 'poolstats show'.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	addInputFlags(runCmd)
	runCmd.Flags().BoolVar(&runRecord, "record", false, "upsert this season's snapshots into history before computing")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the result as JSON instead of tables")
	runCmd.Flags().BoolVar(&runNoH2H, "no-h2h", false, "skip schedule fetches; head-to-head categories come out empty")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	league, err := loadLeague()
	if err != nil {
		return err
	}
	in, err := loadInput(ctx, league)
	if err != nil {
		return err
	}

	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	m := metrics.New()
	defer writeMetrics(m)

	var rec stats.Reconciler
	if !runNoH2H {
		src, closeSrc, err := newScheduleSource(league)
		if err != nil {
			return err
		}
		defer closeSrc()
		rec = newReconciler(league, src, m)
	}

	orch := stats.New(league, rec, newTracker(st), m, logger)
	if runRecord {
		n, err := orch.Record(in)
		if err != nil {
			return err
		}
		logger.Info().Int("snapshots", n).Str("season", league.Season).Msg("season recorded")
	}

	res, err := orch.Run(ctx, in)
	if err != nil {
		return err
	}
	if err := st.lastRun.Save(*res); err != nil {
		logger.Warn().Err(err).Msg("last run not saved")
	}

	if runJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(res)
	return nil
}

func printResult(res *stats.Result) {
	season := res.Season
	if season == "" {
		season = "current season"
	}
	heading("=== Pool Leaderboards (%s) ===", season)
	report.PrintCategories(os.Stdout, res.Categories)
	if len(res.Failed) > 0 {
		warnf("Schedules unavailable for %v; head-to-head is partial.", res.Failed)
	}
	cMuted.Fprintf(os.Stdout, "\nrun %s, %s odds\n", res.RunID, res.OddsKind)
	fmt.Fprintln(os.Stdout)
}
