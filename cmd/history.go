package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history <participant>",
	Short: "Season-by-season history for a participant",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	participant := args[0]
	league, err := loadLeague()
	if err != nil {
		return err
	}
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	tracker := newTracker(st)
	entries := tracker.ParticipantHistory(participant)
	if len(entries) == 0 {
		fmt.Println("no seasons recorded")
		return nil
	}

	heading("=== %s ===", participant)
	report.PrintHistory(os.Stdout, entries)

	cups := tracker.Championships(participant, league.Season, league.HallOfFameLookback)
	fmt.Fprintf(os.Stdout, "\nAll-time playoff wins: %d\n", tracker.TotalPlayoffWins(participant))
	for _, c := range cups {
		fmt.Fprintf(os.Stdout, "Cup: %s with %s\n", c.Season, teamLabel(league, c.Team))
	}
	return nil
}
