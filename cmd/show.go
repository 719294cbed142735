package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/model"
	"github.com/pable/go-pool-stats/internal/report"
)

var showSection string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored result of the last run",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showSection, "section", "categories", "what to show: categories, odds or h2h")
}

func runShow(cmd *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	res := st.lastRun.Load()
	if res.RunID == "" {
		fmt.Fprintln(os.Stderr, "No run stored yet. Run 'poolstats run' first.")
		return nil
	}

	switch showSection {
	case "categories":
		printResult(&res)
	case "odds":
		heading("=== %s odds (run %s) ===", res.OddsKind, res.RunID)
		report.PrintOdds(os.Stdout, res.Odds, model.FanAssignment{})
	case "h2h":
		heading("=== Head-to-Head (run %s) ===", res.RunID)
		report.PrintMatrix(os.Stdout, res.HeadToHead)
	default:
		return fmt.Errorf("unknown --section %q", showSection)
	}
	return nil
}
