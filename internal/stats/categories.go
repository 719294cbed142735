package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pable/go-pool-stats/internal/history"
	"github.com/pable/go-pool-stats/internal/model"
	"github.com/pable/go-pool-stats/internal/ranking"
)

// category scores one owned team. ok=false leaves the team out.
type category struct {
	key   string
	dir   ranking.Direction
	score func(r *row) (value float64, display string, ok bool)
}

func (o *Orchestrator) teamCategories(d *runData) []category {
	th := o.league.Thresholds
	return []category{
		{"most_wins", ranking.Descending, wins},
		{"fewest_wins", ranking.Ascending, wins},
		{"most_losses", ranking.Descending, losses},
		{"fewest_losses", ranking.Ascending, losses},
		{"most_points", ranking.Descending, func(r *row) (float64, string, bool) {
			return float64(r.rec.Points), fmt.Sprintf("%d PTS", r.rec.Points), true
		}},
		{"longest_win_streak", ranking.Descending, streakOf("W")},
		{"longest_losing_streak", ranking.Descending, streakOf("L")},
		{"best_goal_differential", ranking.Descending, goalDiffPerGame},
		{"worst_goal_differential", ranking.Ascending, goalDiffPerGame},
		{"best_win_percentage", ranking.Descending, func(r *row) (float64, string, bool) {
			if r.rec.GamesPlayed() == 0 {
				return 0, "", false
			}
			v := r.rec.WinPct()
			return v, pct3(v), true
		}},
		{"best_goals_against_average", ranking.Ascending, func(r *row) (float64, string, bool) {
			if r.rec.GamesPlayed() == 0 {
				return 0, "", false
			}
			v := r.rec.GoalsAgainstAverage()
			return v, fmt.Sprintf("%.2f GAA", v), true
		}},
		{"high_scoring_losers", ranking.Descending, func(r *row) (float64, string, bool) {
			if r.rec.GoalsFor <= th.HighScoringMinGoals || r.rec.GoalDiff() >= 0 {
				return 0, "", false
			}
			return float64(r.rec.GoalsFor), fmt.Sprintf("GF %d, GD %+d", r.rec.GoalsFor, r.rec.GoalDiff()), true
		}},
		{"most_ot_wins", ranking.Descending, func(r *row) (float64, string, bool) {
			n := otWins(r)
			return float64(n), fmt.Sprintf("%d OT/SO W", n), n > 0
		}},
		{"lives_dangerously", ranking.Descending, func(r *row) (float64, string, bool) {
			n := r.rec.OTLosses
			return float64(n), fmt.Sprintf("%d OTL", n), n > 0
		}},
		{"best_vs_pool", ranking.Descending, d.vsPool},
		{"worst_vs_pool", ranking.Ascending, d.vsPool},
		{"best_cup_odds", ranking.Descending, d.cupOdds},
		{"worst_cup_odds", ranking.Ascending, d.cupOdds},
		{"brick_wall", ranking.Ascending, func(r *row) (float64, string, bool) {
			if r.rec.GamesPlayed() == 0 || r.rec.GoalsAgainst >= th.BrickWallMaxAgainst {
				return 0, "", false
			}
			return float64(r.rec.GoalsAgainst), fmt.Sprintf("GA %d", r.rec.GoalsAgainst), true
		}},
		{"longest_point_streak", ranking.Descending, func(r *row) (float64, string, bool) {
			n := pointStreak(r)
			return float64(n), fmt.Sprintf("%d GP", n), n > 0
		}},
	}
}

func wins(r *row) (float64, string, bool) {
	return float64(r.rec.Wins), r.rec.RecordString(), true
}

func losses(r *row) (float64, string, bool) {
	return float64(r.rec.Losses), r.rec.RecordString(), true
}

func streakOf(kind string) func(*row) (float64, string, bool) {
	return func(r *row) (float64, string, bool) {
		k, n := r.rec.Streak()
		if k != kind {
			return 0, "", false
		}
		return float64(n), fmt.Sprintf("%s%d", k, n), true
	}
}

func goalDiffPerGame(r *row) (float64, string, bool) {
	if r.rec.GamesPlayed() == 0 {
		return 0, "", false
	}
	v := r.rec.GoalDiffPerGame()
	return v, fmt.Sprintf("%+.2f/GP", v), true
}

// otWins prefers the schedule-derived count and falls back to
// wins - regulationWins from standings.
func otWins(r *row) int {
	if r.hasForm {
		return r.form.OTWins
	}
	if r.rec.RegulationWins > 0 && r.rec.Wins > r.rec.RegulationWins {
		return r.rec.Wins - r.rec.RegulationWins
	}
	return 0
}

// pointStreak prefers the schedule-derived streak and falls back to an
// active W or OT streak code.
func pointStreak(r *row) int {
	if r.hasForm {
		return r.form.PointStreak
	}
	k, n := r.rec.Streak()
	if k == "W" || k == "OT" {
		return n
	}
	return 0
}

func (d *runData) vsPool(r *row) (float64, string, bool) {
	if d.h2h == nil {
		return 0, "", false
	}
	rec := d.h2h.Matrix.Total(r.team, d.h2h.IsOwned)
	if rec.GamesPlayed() == 0 {
		return 0, "", false
	}
	v := rec.PointPct()
	return v, fmt.Sprintf("%s (%s)", rec, pct3(v)), true
}

func (d *runData) cupOdds(r *row) (float64, string, bool) {
	v, ok := d.odds[r.team]
	if !ok {
		return 0, "", false
	}
	return v, fmt.Sprintf("%.2f%%", v), true
}

// participantScores builds one candidate per participant, carrying the
// participant's primary team.
func (d *runData) participantScores(score func(participant string) (float64, string, bool)) []scored {
	names := make([]string, 0, len(d.primary))
	for p := range d.primary {
		names = append(names, p)
	}
	sort.Strings(names)
	var out []scored
	for _, p := range names {
		v, disp, ok := score(p)
		if !ok {
			continue
		}
		out = append(out, scored{participant: p, team: d.primary[p].team, value: v, display: disp})
	}
	return out
}

func (o *Orchestrator) allTimePlayoffWins(d *runData) []model.RankedEntry {
	if o.tracker == nil {
		return nil
	}
	return medals(d.participantScores(func(p string) (float64, string, bool) {
		n := o.tracker.TotalPlayoffWins(p)
		return float64(n), fmt.Sprintf("%d playoff W", n), n > 0
	}), ranking.Descending)
}

// ImprovementScore weights a season-over-season delta into one number.
func ImprovementScore(imp model.Improvement) int {
	return 3*imp.WinsDiff + imp.PointsDiff + 2*imp.RankImprovement
}

func (o *Orchestrator) mostImproved(d *runData, log zerolog.Logger) []model.RankedEntry {
	if o.tracker == nil {
		return nil
	}
	prev, err := history.PreviousSeason(o.league.Season)
	if err != nil {
		log.Warn().Err(err).Str("season", o.league.Season).Msg("most_improved unavailable")
		return nil
	}
	return medals(d.participantScores(func(p string) (float64, string, bool) {
		imp := o.tracker.CalculateImprovement(p, prev, o.league.Season)
		if imp == nil {
			return 0, "", false
		}
		s := ImprovementScore(*imp)
		return float64(s), fmt.Sprintf("%+d (W %+d, PTS %+d, RANK %+d)", s, imp.WinsDiff, imp.PointsDiff, imp.RankImprovement), s > 0
	}), ranking.Descending)
}

func (o *Orchestrator) hallOfFame(d *runData) []model.RankedEntry {
	if o.tracker == nil {
		return nil
	}
	return medals(d.participantScores(func(p string) (float64, string, bool) {
		cups := o.tracker.Championships(p, o.league.Season, o.league.HallOfFameLookback)
		if len(cups) == 0 {
			return 0, "", false
		}
		seasons := make([]string, len(cups))
		for i, c := range cups {
			seasons[i] = c.Season
		}
		return float64(len(cups)), fmt.Sprintf("%d cup(s): %s", len(cups), strings.Join(seasons, ", ")), true
	}), ranking.Descending)
}

// victims lists every owned team that lost to rival at least once,
// most losses first, then the worst goal differential in the pairing.
// The list is not cut to a podium and carries no rank.
func victims(d *runData, rival string) []model.RankedEntry {
	if d.h2h == nil {
		return nil
	}
	type victim struct {
		row
		lost int
		gd   int
	}
	var list []victim
	for _, r := range d.rows {
		if r.team == rival {
			continue
		}
		rec := d.h2h.Matrix.Get(r.team, rival)
		lost := rec.Losses + rec.OTLosses
		if lost == 0 {
			continue
		}
		list = append(list, victim{row: r, lost: lost, gd: rec.GoalDiff()})
	}
	if len(list) == 0 {
		return nil
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].lost != list[j].lost {
			return list[i].lost > list[j].lost
		}
		return list[i].gd < list[j].gd
	})
	out := make([]model.RankedEntry, len(list))
	for i, v := range list {
		out[i] = model.RankedEntry{
			Participant: v.participant,
			Team:        v.team,
			Value:       float64(v.lost),
			Display:     fmt.Sprintf("lost %d to %s (GD %+d)", v.lost, rival, v.gd),
		}
	}
	return out
}

// pct3 formats a ratio hockey-style: .583, 1.000.
func pct3(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	return strings.TrimPrefix(s, "0")
}
