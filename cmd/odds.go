package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/input"
	"github.com/pable/go-pool-stats/internal/model"
	"github.com/pable/go-pool-stats/internal/odds"
	"github.com/pable/go-pool-stats/internal/report"
)

var oddsCmd = &cobra.Command{
	Use:   "odds",
	Short: "Show normalized cup odds for every team",
	Long: `Score every team from its standings position and normalize to percentages.
When a playoff bracket is supplied the in-playoff model is used instead:
surviving teams are scored on round reached and series won.`,
	Args: cobra.NoArgs,
	RunE: runOdds,
}

func init() {
	addInputFlags(oddsCmd)
}

func runOdds(cmd *cobra.Command, args []string) error {
	league, err := loadLeague()
	if err != nil {
		return err
	}
	playoffs, err := input.Playoffs(pick(playoffsPath, league.PlayoffsFile))
	if err != nil {
		return err
	}

	// Owners are decoration here; odds cover the whole league.
	assignment := model.FanAssignment{}
	if pick(assignmentPath, league.AssignmentFile) != "" {
		if assignment, err = loadAssignment(league); err != nil {
			return err
		}
	}

	if len(playoffs) > 0 {
		heading("=== Playoff Odds ===")
		report.PrintOdds(os.Stdout, odds.PlayoffOdds(playoffs), assignment)
		return nil
	}

	standings, err := loadStandings(cmd.Context(), league)
	if err != nil {
		return err
	}
	heading("=== Cup Odds ===")
	report.PrintOdds(os.Stdout, odds.CupOdds(standings), assignment)
	return nil
}
