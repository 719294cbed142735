package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/pable/go-pool-stats/internal/config"
	"github.com/pable/go-pool-stats/internal/headtohead"
	"github.com/pable/go-pool-stats/internal/history"
	"github.com/pable/go-pool-stats/internal/input"
	"github.com/pable/go-pool-stats/internal/metrics"
	"github.com/pable/go-pool-stats/internal/model"
	"github.com/pable/go-pool-stats/internal/nhl"
	"github.com/pable/go-pool-stats/internal/stats"
	"github.com/pable/go-pool-stats/internal/storage"
	"github.com/pable/go-pool-stats/internal/store"
)

const lastRunKey = "last_run"

var (
	standingsPath  string
	assignmentPath string
	playoffsPath   string
)

// addInputFlags registers the per-run data file flags. Each overrides the
// matching path in the league config.
func addInputFlags(c *cobra.Command) {
	c.Flags().StringVar(&standingsPath, "standings", "", "standings JSON file (default: config, else fetch live)")
	c.Flags().StringVar(&assignmentPath, "assignment", "", "fan assignment JSON file (default: config)")
	c.Flags().StringVar(&playoffsPath, "playoffs", "", "playoff bracket JSON file (default: config)")
}

func loadLeague() (*config.League, error) {
	league, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("config", configPath).Str("season", league.Season).Msg("league config loaded")
	return league, nil
}

// stores bundles the record stores of the selected backend.
type stores struct {
	history store.RecordStore[model.History]
	lastRun store.RecordStore[stats.Result]
	db      *storage.DB
}

func (s *stores) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func emptyResult() stats.Result { return stats.Result{} }

func openStores() (*stores, error) {
	if backend == backendSQLite {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
		db, err := storage.Open(historyPath)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		return &stores{
			history: storage.NewHistoryRecord(db, logger),
			lastRun: storage.NewRecord(db, lastRunKey, emptyResult, logger),
			db:      db,
		}, nil
	}
	return &stores{
		history: store.NewJSONFile(historyPath, model.NewHistory, logger),
		lastRun: store.NewJSONFile(lastRunPath(), emptyResult, logger),
	}, nil
}

func lastRunPath() string {
	return filepath.Join(filepath.Dir(historyPath), lastRunKey+".json")
}

func newScheduleSource(league *config.League) (nhl.ScheduleSource, func(), error) {
	client := nhl.NewClient(league.APIBaseURL)
	if redisURL == "" {
		return client, func() {}, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse --redis-url: %w", err)
	}
	rdb := redis.NewClient(opts)
	cached := nhl.NewCachedSchedules(client, rdb, nhl.ScheduleTTL, logger)
	return cached, func() { rdb.Close() }, nil
}

func newReconciler(league *config.League, src nhl.ScheduleSource, m *metrics.Metrics) *headtohead.Reconciler {
	return headtohead.NewReconciler(src, headtohead.Options{
		Season:      league.Season,
		Rivals:      league.Rivals,
		Concurrency: league.FetchConcurrency,
	}, m, logger)
}

func pick(flag, fromConfig string) string {
	if flag != "" {
		return flag
	}
	return fromConfig
}

// loadStandings reads the standings file, or fetches live standings when
// no file is configured.
func loadStandings(ctx context.Context, league *config.League) ([]model.TeamRecord, error) {
	if path := pick(standingsPath, league.StandingsFile); path != "" {
		return input.Standings(path)
	}
	logger.Info().Msg("no standings file configured, fetching live standings")
	teams, err := nhl.NewClient(league.APIBaseURL).Standings(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("fetch standings: %w", err)
	}
	return teams, nil
}

func loadAssignment(league *config.League) (model.FanAssignment, error) {
	path := pick(assignmentPath, league.AssignmentFile)
	if path == "" {
		return nil, fmt.Errorf("no fan assignment: pass --assignment or set assignment_file in %s", configPath)
	}
	a, err := input.Assignment(path)
	if err != nil {
		return nil, err
	}
	if unknown := league.UnknownParticipants(a); len(unknown) > 0 {
		logger.Warn().Strs("participants", unknown).Msg("assignment names participants missing from the roster")
	}
	return a, nil
}

// loadInput gathers everything a run needs.
func loadInput(ctx context.Context, league *config.League) (stats.Input, error) {
	standings, err := loadStandings(ctx, league)
	if err != nil {
		return stats.Input{}, err
	}
	assignment, err := loadAssignment(league)
	if err != nil {
		return stats.Input{}, err
	}
	playoffs, err := input.Playoffs(pick(playoffsPath, league.PlayoffsFile))
	if err != nil {
		return stats.Input{}, err
	}
	logger.Debug().
		Int("teams", len(standings)).
		Int("owned", len(assignment.OwnedTeams())).
		Int("playoff_teams", len(playoffs)).
		Msg("inputs loaded")
	return stats.Input{Standings: standings, Assignment: assignment, Playoffs: playoffs}, nil
}

func writeMetrics(m *metrics.Metrics) {
	if metricsFile == "" || m == nil {
		return
	}
	if err := m.WriteTextfile(metricsFile); err != nil {
		logger.Warn().Err(err).Str("path", metricsFile).Msg("metrics not written")
		return
	}
	logger.Debug().Str("path", metricsFile).Msg("metrics written")
}

func newTracker(st *stores) *history.Tracker {
	return history.NewTracker(st.history, logger)
}

// teamLabel colors abbrev with its configured team color when one is set.
func teamLabel(league *config.League, abbrev string) string {
	r, g, b, ok := league.TeamColor(abbrev)
	if !ok {
		return abbrev
	}
	return color.RGB(r, g, b).Sprint(abbrev)
}

func heading(format string, a ...any) {
	cHeader.Fprintf(os.Stdout, "\n"+format+"\n\n", a...)
}

func warnf(format string, a ...any) {
	cWarn.Fprintf(os.Stderr, strings.TrimRight(format, "\n")+"\n", a...)
}
