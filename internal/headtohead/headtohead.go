// Package headtohead reconciles per-team season schedules into a matrix of
// results between teams owned by pool participants.
//
// Each game appears once in each side's schedule. Processed game IDs are
// tracked so the second sighting is ignored, which makes the matrix
// independent of the order schedules are visited in.
package headtohead

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-pool-stats/internal/metrics"
	"github.com/pable/go-pool-stats/internal/model"
	"github.com/pable/go-pool-stats/internal/nhl"
)

// Options tune a reconciliation.
type Options struct {
	// Season is passed to the fetcher; empty means the current season.
	Season string
	// Rivals are extra teams whose games against owned teams are tallied
	// (for victims lists) even when nobody owns them.
	Rivals []string
	// Concurrency bounds parallel schedule fetches. 0 or 1 is sequential.
	Concurrency int
}

// Skip reasons, used as log fields and metric labels.
const (
	skipIncomplete  = "incomplete"
	skipNoID        = "no_id"
	skipSegment     = "not_regular_season"
	skipOutsidePool = "outside_pool"
	skipDuplicate   = "duplicate"
	skipTied        = "tied"
)

// Form is what a team's own schedule says about its recent results.
type Form struct {
	// PointStreak is the number of most recent completed regular-season
	// games in which the team earned at least one point.
	PointStreak int `json:"pointStreak"`
	// OTWins counts wins decided in overtime or a shootout.
	OTWins int `json:"otWins"`
	// Games is the number of completed regular-season games seen.
	Games int `json:"games"`
}

// Result is the output of one reconciliation.
type Result struct {
	// Matrix holds every tallied pairing, including rival pairings.
	Matrix model.Matrix
	// Form is keyed by team for every schedule that was fetched.
	Form map[string]Form
	// Failed lists teams whose schedule could not be fetched.
	Failed []string

	owned map[string]bool
}

// Owned returns the matrix restricted to pairs of owned teams.
func (r *Result) Owned() model.Matrix {
	return r.Matrix.Among(func(abbrev string) bool { return r.owned[abbrev] })
}

// IsOwned reports whether abbrev was an owned team in this reconciliation.
func (r *Result) IsOwned(abbrev string) bool {
	return r.owned[abbrev]
}

// Reconciler fetches schedules and builds the head-to-head matrix.
type Reconciler struct {
	fetcher nhl.ScheduleSource
	opts    Options
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewReconciler returns a reconciler. m may be nil.
func NewReconciler(fetcher nhl.ScheduleSource, opts Options, m *metrics.Metrics, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		fetcher: fetcher,
		opts:    opts,
		metrics: m,
		logger:  logger.With().Str("component", "headtohead").Logger(),
	}
}

// Teams returns the sorted, de-duplicated set of teams whose schedules a
// reconciliation fetches: every owned team plus every rival.
func Teams(assignment model.FanAssignment, rivals []string) []string {
	seen := make(map[string]bool)
	var teams []string
	for _, abbrev := range append(assignment.OwnedTeams(), rivals...) {
		if abbrev == "" || seen[abbrev] {
			continue
		}
		seen[abbrev] = true
		teams = append(teams, abbrev)
	}
	sort.Strings(teams)
	return teams
}

// Reconcile fetches every owned and rival schedule and tallies the games
// between them. A team whose fetch fails is logged and left out; the rest
// of the matrix is still built.
func (r *Reconciler) Reconcile(ctx context.Context, assignment model.FanAssignment) *Result {
	owned := make(map[string]bool)
	for _, abbrev := range assignment.OwnedTeams() {
		owned[abbrev] = true
	}
	rivals := make(map[string]bool)
	for _, abbrev := range r.opts.Rivals {
		rivals[abbrev] = true
	}

	teams := Teams(assignment, r.opts.Rivals)
	schedules, errs := r.fetchAll(ctx, teams)

	res := &Result{
		Matrix: make(model.Matrix),
		Form:   make(map[string]Form),
		owned:  owned,
	}
	processed := make(map[int64]bool)
	for i, abbrev := range teams {
		if errs[i] != nil {
			r.logger.Warn().Err(errs[i]).Str("team", abbrev).Msg("schedule fetch failed, team omitted from head-to-head")
			r.countFetch("error")
			res.Failed = append(res.Failed, abbrev)
			continue
		}
		r.countFetch("ok")
		res.Form[abbrev] = teamForm(abbrev, schedules[i])
		for j := range schedules[i] {
			r.tally(res.Matrix, &schedules[i][j], owned, rivals, processed)
		}
	}

	r.logger.Info().
		Int("teams", len(teams)).
		Int("failed", len(res.Failed)).
		Int("games", len(processed)).
		Msg("head-to-head reconciled")
	return res
}

// fetchAll loads each team's schedule into its own slot. Failures stay
// per-team; one bad fetch never cancels the others.
func (r *Reconciler) fetchAll(ctx context.Context, teams []string) ([][]model.Game, []error) {
	schedules := make([][]model.Game, len(teams))
	errs := make([]error, len(teams))

	if r.opts.Concurrency <= 1 {
		for i, abbrev := range teams {
			schedules[i], errs[i] = r.fetcher.ClubSchedule(ctx, abbrev, r.opts.Season)
		}
		return schedules, errs
	}

	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)
	for i, abbrev := range teams {
		i, abbrev := i, abbrev
		g.Go(func() error {
			schedules[i], errs[i] = r.fetcher.ClubSchedule(ctx, abbrev, r.opts.Season)
			return nil
		})
	}
	g.Wait()
	return schedules, errs
}

// tally records g into m if it qualifies and has not been seen before.
func (r *Reconciler) tally(m model.Matrix, g *model.Game, owned, rivals map[string]bool, processed map[int64]bool) {
	if !g.Status.Final() {
		r.skip(skipIncomplete)
		return
	}
	if g.ID == 0 {
		r.logger.Warn().Str("home", g.Home.Abbrev).Str("away", g.Away.Abbrev).Str("date", g.GameDate).Msg("completed game without id skipped")
		r.skip(skipNoID)
		return
	}
	if !g.RegularSeason() {
		r.skip(skipSegment)
		return
	}
	home, away := g.Home.Abbrev, g.Away.Abbrev
	if !inPool(home, away, owned, rivals) {
		r.skip(skipOutsidePool)
		return
	}
	if processed[g.ID] {
		r.skip(skipDuplicate)
		return
	}
	processed[g.ID] = true

	if g.Home.Score == g.Away.Score {
		r.logger.Warn().Int64("game", g.ID).Msg("final game with level score skipped")
		r.skip(skipTied)
		return
	}
	winner, loser := g.Home, g.Away
	if g.Away.Score > g.Home.Score {
		winner, loser = g.Away, g.Home
	}

	w := m.Get(winner.Abbrev, loser.Abbrev)
	w.Wins++
	w.GoalsFor += winner.Score
	w.GoalsAgainst += loser.Score
	m.Put(winner.Abbrev, loser.Abbrev, w)

	l := m.Get(loser.Abbrev, winner.Abbrev)
	if g.BeyondRegulation() {
		l.OTLosses++
	} else {
		l.Losses++
	}
	l.GoalsFor += loser.Score
	l.GoalsAgainst += winner.Score
	m.Put(loser.Abbrev, winner.Abbrev, l)

	if r.metrics != nil {
		r.metrics.GamesCounted.Inc()
	}
}

// inPool accepts games between two owned teams, or between an owned team
// and a rival.
func inPool(home, away string, owned, rivals map[string]bool) bool {
	if owned[home] && owned[away] {
		return true
	}
	return (owned[home] && rivals[away]) || (rivals[home] && owned[away])
}

// teamForm derives the point streak and OT/SO wins from abbrev's schedule.
func teamForm(abbrev string, games []model.Game) Form {
	played := make([]model.Game, 0, len(games))
	for _, g := range games {
		if g.Status.Final() && g.RegularSeason() && g.Involves(abbrev) && g.Home.Score != g.Away.Score {
			played = append(played, g)
		}
	}
	sort.SliceStable(played, func(i, j int) bool {
		if played[i].GameDate != played[j].GameDate {
			return played[i].GameDate < played[j].GameDate
		}
		if played[i].StartTimeUTC != played[j].StartTimeUTC {
			return played[i].StartTimeUTC < played[j].StartTimeUTC
		}
		return played[i].ID < played[j].ID
	})

	f := Form{Games: len(played)}
	streakOpen := true
	for i := len(played) - 1; i >= 0; i-- {
		g := &played[i]
		won := g.Side(abbrev).Score > g.Opponent(abbrev).Score
		if won && g.BeyondRegulation() {
			f.OTWins++
		}
		if !streakOpen {
			continue
		}
		if won || g.BeyondRegulation() {
			f.PointStreak++
		} else {
			streakOpen = false
		}
	}
	return f
}

func (r *Reconciler) countFetch(result string) {
	if r.metrics != nil {
		r.metrics.ScheduleFetches.WithLabelValues(result).Inc()
	}
}

func (r *Reconciler) skip(reason string) {
	if r.metrics != nil {
		r.metrics.GamesSkipped.WithLabelValues(reason).Inc()
	}
}
