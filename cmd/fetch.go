package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/headtohead"
	"github.com/pable/go-pool-stats/internal/model"
	"github.com/pable/go-pool-stats/internal/nhl"
)

// fetch command flags.
var (
	// fetchDate is the standings date (YYYY-MM-DD); empty means today.
	fetchDate string
	// fetchOut is where the standings snapshot is written.
	fetchOut string
	// fetchSchedules also pulls every owned and rival team's schedule through
	// the schedule source, filling the Redis cache when one is configured.
	fetchSchedules bool
)

// fetchCmd downloads a standings snapshot for offline runs.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download a standings snapshot from the NHL web API",
	Long: `Fetches league standings and writes them as a standings file that 'run',
'odds' and 'record' accept via --standings. With --schedules, also pulls
each owned and rival team's club schedule so a later run is served from
the cache.

Examples:
  poolstats fetch --out standings.json
  poolstats fetch --date 2024-04-18 --out final.json
  poolstats --redis-url redis://localhost:6379/0 fetch --schedules --assignment fans.json`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDate, "date", "", "standings date YYYY-MM-DD (default: today)")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "output file path (default: stdout)")
	fetchCmd.Flags().BoolVar(&fetchSchedules, "schedules", false, "also fetch owned and rival teams' schedules")
	fetchCmd.Flags().StringVar(&assignmentPath, "assignment", "", "fan assignment JSON file (default: config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	league, err := loadLeague()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	teams, err := nhl.NewClient(league.APIBaseURL).Standings(ctx, fetchDate)
	if err != nil {
		return fmt.Errorf("fetch standings: %w", err)
	}
	if len(teams) == 0 {
		return fmt.Errorf("fetch standings: empty response")
	}
	if err := writeStandings(teams); err != nil {
		return err
	}

	if !fetchSchedules {
		return nil
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

	schedTeams := headtohead.Teams(assignment, league.Rivals)
	var games, failed int
	for _, abbrev := range schedTeams {
		sched, err := src.ClubSchedule(ctx, abbrev, league.Season)
		if err != nil {
			failed++
			logger.Warn().Err(err).Str("team", abbrev).Msg("schedule fetch failed")
			continue
		}
		games += len(sched)
	}
	fmt.Fprintf(os.Stderr, "Fetched %d game(s) for %d team(s), %d failed\n",
		games, len(schedTeams)-failed, failed)
	return nil
}

func writeStandings(teams []model.TeamRecord) error {
	data, err := json.MarshalIndent(struct {
		Standings []model.TeamRecord `json:"standings"`
	}{teams}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode standings: %w", err)
	}
	if fetchOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(fetchOut), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(fetchOut, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fetchOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d team(s) to %s\n", len(teams), fetchOut)
	return nil
}
