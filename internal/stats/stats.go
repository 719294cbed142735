// Package stats composes standings, the head-to-head matrix, cup odds and
// season history into the named leaderboard categories of one run.
//
// Every category is a pure function of the run inputs. A category with no
// qualifying entries is present in the result with a nil list.
package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pable/go-pool-stats/internal/config"
	"github.com/pable/go-pool-stats/internal/headtohead"
	"github.com/pable/go-pool-stats/internal/history"
	"github.com/pable/go-pool-stats/internal/metrics"
	"github.com/pable/go-pool-stats/internal/model"
	"github.com/pable/go-pool-stats/internal/odds"
	"github.com/pable/go-pool-stats/internal/ranking"
)

// VictimsPrefix prefixes the per-rival victims category keys.
const VictimsPrefix = "victims_"

// Odds kinds reported in Result.OddsKind.
const (
	OddsCup     = "cup"
	OddsPlayoff = "playoff"
)

// Reconciler builds the head-to-head matrix for an assignment.
type Reconciler interface {
	Reconcile(ctx context.Context, assignment model.FanAssignment) *headtohead.Result
}

// Input is the per-run data supplied by the caller.
type Input struct {
	Standings  []model.TeamRecord
	Assignment model.FanAssignment
	// Playoffs switches cup odds to the in-playoff model when non-empty.
	Playoffs []model.PlayoffTeam
}

// Result is the output of one run.
type Result struct {
	RunID      string                         `json:"runId"`
	Season     string                         `json:"season"`
	Categories map[string][]model.RankedEntry `json:"categories"`
	OddsKind   string                         `json:"oddsKind"`
	Odds       map[string]float64             `json:"odds"`
	HeadToHead model.Matrix                   `json:"headToHead"`
	Failed     []string                       `json:"failedSchedules,omitempty"`
}

// Orchestrator runs the category pipeline.
type Orchestrator struct {
	league     *config.League
	reconciler Reconciler
	tracker    *history.Tracker
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	now        func() time.Time
}

// New returns an orchestrator. reconciler, tracker and m may each be nil;
// the categories that depend on them then come out empty.
func New(league *config.League, reconciler Reconciler, tracker *history.Tracker, m *metrics.Metrics, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		league:     league,
		reconciler: reconciler,
		tracker:    tracker,
		metrics:    m,
		logger:     logger.With().Str("component", "stats").Logger(),
		now:        time.Now,
	}
}

// row is one owned team with its standings record.
type row struct {
	participant string
	team        string
	rec         *model.TeamRecord
	form        headtohead.Form
	hasForm     bool
}

// runData is everything the category functions read.
type runData struct {
	rows    []row
	odds    map[string]float64
	h2h     *headtohead.Result
	primary map[string]row
}

// Run computes every category for in.
func (o *Orchestrator) Run(ctx context.Context, in Input) (*Result, error) {
	start := o.now()
	runID := uuid.NewString()
	log := o.logger.With().Str("run_id", runID).Logger()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := &runData{}
	res := &Result{
		RunID:  runID,
		Season: o.league.Season,
	}

	if o.reconciler != nil {
		d.h2h = o.reconciler.Reconcile(ctx, in.Assignment)
		res.HeadToHead = d.h2h.Owned()
		res.Failed = d.h2h.Failed
	}

	if len(in.Playoffs) > 0 {
		res.OddsKind = OddsPlayoff
		d.odds = odds.PlayoffOdds(in.Playoffs)
	} else {
		res.OddsKind = OddsCup
		d.odds = odds.CupOdds(in.Standings)
	}
	res.Odds = d.odds

	d.rows = ownedRows(in.Standings, in.Assignment, d.h2h)
	d.primary = primaryRows(d.rows)
	log.Debug().Int("rows", len(d.rows)).Int("participants", len(d.primary)).Msg("standings joined to assignment")

	res.Categories = make(map[string][]model.RankedEntry)
	for _, c := range o.teamCategories(d) {
		res.Categories[c.key] = medals(scoreRows(d.rows, c.score), c.dir)
	}
	res.Categories["all_time_playoff_wins"] = o.allTimePlayoffWins(d)
	res.Categories["most_improved"] = o.mostImproved(d, log)
	res.Categories["hall_of_fame"] = o.hallOfFame(d)
	for _, rival := range o.league.Rivals {
		res.Categories[VictimsPrefix+rival] = victims(d, rival)
	}

	empty := 0
	for _, entries := range res.Categories {
		if entries == nil {
			empty++
		}
	}
	if o.metrics != nil {
		o.metrics.Categories.Set(float64(len(res.Categories)))
		o.metrics.EmptyCategories.Set(float64(empty))
		o.metrics.RunDuration.Set(o.now().Sub(start).Seconds())
	}
	log.Info().
		Int("categories", len(res.Categories)).
		Int("empty", empty).
		Str("odds", res.OddsKind).
		Msg("run complete")
	return res, nil
}

// Record upserts the current season's snapshot for every participant. A
// participant owning several teams is represented by the best-ranked one.
func (o *Orchestrator) Record(in Input) (int, error) {
	if o.tracker == nil {
		return 0, fmt.Errorf("record: no history store configured")
	}
	if _, err := history.StartYear(o.league.Season); err != nil {
		return 0, fmt.Errorf("record: %w", err)
	}
	playoffWins := make(map[string]int, len(in.Playoffs))
	for _, p := range in.Playoffs {
		playoffWins[p.Abbrev] = p.GameWins
	}
	at := o.now().UTC()
	snaps := make(map[string]model.SeasonStatSnapshot)
	for participant, r := range primaryRows(ownedRows(in.Standings, in.Assignment, nil)) {
		snaps[participant] = model.SnapshotFromRecord(r.rec, playoffWins[r.team], at)
	}
	if err := o.tracker.RecordMany(o.league.Season, snaps); err != nil {
		return 0, err
	}
	return len(snaps), nil
}

// ownedRows joins standings to owners. Rows come back sorted by participant
// then team, which is the tie order of every category.
func ownedRows(standings []model.TeamRecord, a model.FanAssignment, h2h *headtohead.Result) []row {
	var rows []row
	for i := range standings {
		rec := &standings[i]
		team := rec.Abbrev.String()
		owner, ok := a.Owner(team)
		if !ok {
			continue
		}
		r := row{participant: owner, team: team, rec: rec}
		if h2h != nil {
			r.form, r.hasForm = h2h.Form[team]
		}
		rows = append(rows, r)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].participant != rows[j].participant {
			return rows[i].participant < rows[j].participant
		}
		return rows[i].team < rows[j].team
	})
	return rows
}

// primaryRows picks each participant's best league-ranked team. An unknown
// rank (0) sorts last.
func primaryRows(rows []row) map[string]row {
	out := make(map[string]row)
	for _, r := range rows {
		cur, ok := out[r.participant]
		if !ok || rankKey(r.rec.LeagueRank) < rankKey(cur.rec.LeagueRank) {
			out[r.participant] = r
		}
	}
	return out
}

func rankKey(rank int) int {
	if rank <= 0 {
		return 1 << 30
	}
	return rank
}

// scored is one candidate entry before ranking.
type scored struct {
	participant string
	team        string
	value       float64
	display     string
}

func scoreRows(rows []row, score func(*row) (float64, string, bool)) []scored {
	var out []scored
	for i := range rows {
		v, disp, ok := score(&rows[i])
		if !ok {
			continue
		}
		out = append(out, scored{participant: rows[i].participant, team: rows[i].team, value: v, display: disp})
	}
	return out
}

// medals ranks list and keeps the podium. Empty input gives nil.
func medals(list []scored, dir ranking.Direction) []model.RankedEntry {
	if len(list) == 0 {
		return nil
	}
	top := ranking.TopThree(list, func(s scored) float64 { return s.value }, dir)
	out := make([]model.RankedEntry, len(top))
	for i, t := range top {
		out[i] = model.RankedEntry{
			Participant: t.Item.participant,
			Team:        t.Item.team,
			Value:       t.Value,
			Display:     t.Item.display,
			Rank:        t.Rank,
		}
	}
	return out
}
