package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded seasons",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	seasons, err := seasonCounts(st)
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}
	if len(seasons) == 0 {
		fmt.Fprintln(os.Stdout, "No seasons recorded yet. Run 'poolstats record' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %12s  %8s\n", "SEASON", "PARTICIPANTS", "PO_W")
	fmt.Fprintf(os.Stdout, "%-10s  %12s  %8s\n", "──────────", "────────────", "────────")
	for _, s := range seasons {
		fmt.Fprintf(os.Stdout, "%-10s  %12d  %8d\n", s.Season, s.Participants, s.PlayoffWins)
	}
	return nil
}

// seasonCounts reads the SQLite mirror table when available, otherwise
// tallies the history document, newest season first.
func seasonCounts(st *stores) ([]storage.SeasonCount, error) {
	if st.db != nil {
		return st.db.ListSeasons()
	}
	h := st.history.Load()
	var out []storage.SeasonCount
	for _, season := range newTracker(st).Seasons() {
		c := storage.SeasonCount{Season: season, Participants: len(h[season])}
		for _, snap := range h[season] {
			c.PlayoffWins += snap.PlayoffWins
		}
		out = append([]storage.SeasonCount{c}, out...)
	}
	return out, nil
}
