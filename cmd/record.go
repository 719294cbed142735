package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/stats"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Snapshot this season's standings into history",
	Long: `Upsert one snapshot per participant for the configured season. A
participant owning several teams is recorded with their best-ranked team.
Playoff game wins come from the playoff bracket when one is supplied.
Recording the same season again overwrites the earlier snapshot.`,
	Args: cobra.NoArgs,
	RunE: runRecordCmd,
}

func init() {
	addInputFlags(recordCmd)
}

func runRecordCmd(cmd *cobra.Command, args []string) error {
	league, err := loadLeague()
	if err != nil {
		return err
	}
	in, err := loadInput(cmd.Context(), league)
	if err != nil {
		return err
	}
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := stats.New(league, nil, newTracker(st), nil, logger).Record(in)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Recorded %d snapshot(s) for season %s.\n", n, league.Season)
	return nil
}
