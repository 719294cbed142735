// Package history tracks per-season participant snapshots and derives
// cross-season improvement and championship credit from them.
//
// The backing store is read-modify-written without locking; only one run
// may write at a time.
package history

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pable/go-pool-stats/internal/model"
	"github.com/pable/go-pool-stats/internal/store"
)

// ChampionshipWins is the playoff game-win total of a cup winner: four
// best-of-seven series.
const ChampionshipWins = 16

// Tracker reads and writes season snapshots through a record store.
//
// The decoded history is cached after the first read and replaced on every
// successful save, so queries within a run decode the store once.
type Tracker struct {
	store  store.RecordStore[model.History]
	cache  model.History
	logger zerolog.Logger
}

// NewTracker returns a tracker over st.
func NewTracker(st store.RecordStore[model.History], logger zerolog.Logger) *Tracker {
	return &Tracker{
		store:  st,
		logger: logger.With().Str("component", "history").Logger(),
	}
}

// History returns a copy of the full stored history.
func (t *Tracker) History() model.History {
	return clone(t.view())
}

// view returns the cached history. Callers must not mutate it.
func (t *Tracker) view() model.History {
	if t.cache == nil {
		t.cache = t.store.Load()
		if t.cache == nil {
			t.cache = model.NewHistory()
		}
	}
	return t.cache
}

// save persists h and makes it the cached view.
func (t *Tracker) save(h model.History) error {
	if err := t.store.Save(h); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	t.cache = h
	return nil
}

func clone(h model.History) model.History {
	out := make(model.History, len(h))
	for season, byP := range h {
		m := make(map[string]model.SeasonStatSnapshot, len(byP))
		for p, snap := range byP {
			m[p] = snap
		}
		out[season] = m
	}
	return out
}

// RecordSeasonStats upserts the snapshot for (season, participant). An
// existing snapshot is replaced, not accumulated.
func (t *Tracker) RecordSeasonStats(season, participant, team string, stats model.SeasonStatSnapshot) error {
	if season == "" || participant == "" {
		return fmt.Errorf("record season stats: season and participant are required")
	}
	h := t.History()
	if h[season] == nil {
		h[season] = make(map[string]model.SeasonStatSnapshot)
	}
	stats.Team = team
	h[season][participant] = stats
	if err := t.save(h); err != nil {
		return err
	}
	t.logger.Debug().Str("season", season).Str("participant", participant).Str("team", team).Msg("snapshot recorded")
	return nil
}

// RecordMany upserts several snapshots for one season with a single save.
func (t *Tracker) RecordMany(season string, snaps map[string]model.SeasonStatSnapshot) error {
	if season == "" {
		return fmt.Errorf("record season stats: season is required")
	}
	h := t.History()
	if h[season] == nil {
		h[season] = make(map[string]model.SeasonStatSnapshot)
	}
	for participant, s := range snaps {
		h[season][participant] = s
	}
	if err := t.save(h); err != nil {
		return err
	}
	t.logger.Info().Str("season", season).Int("snapshots", len(snaps)).Msg("season snapshots recorded")
	return nil
}

// Snapshot returns the stored snapshot for (season, participant).
func (t *Tracker) Snapshot(season, participant string) (model.SeasonStatSnapshot, bool) {
	s, ok := t.view()[season][participant]
	return s, ok
}

// TotalPlayoffWins sums playoff wins across every stored season.
func (t *Tracker) TotalPlayoffWins(participant string) int {
	total := 0
	for _, bySeason := range t.view() {
		if s, ok := bySeason[participant]; ok {
			total += s.PlayoffWins
		}
	}
	return total
}

// CalculateImprovement compares seasonA to seasonB. It returns nil when
// either snapshot is missing.
func (t *Tracker) CalculateImprovement(participant, seasonA, seasonB string) *model.Improvement {
	h := t.view()
	a, okA := h[seasonA][participant]
	b, okB := h[seasonB][participant]
	if !okA || !okB {
		return nil
	}
	return &model.Improvement{
		WinsDiff:        b.Wins - a.Wins,
		PointsDiff:      b.Points - a.Points,
		RankImprovement: a.LeagueRank - b.LeagueRank,
	}
}

// SeasonEntry is one season of a participant's history.
type SeasonEntry struct {
	Season string
	model.SeasonStatSnapshot
}

// ParticipantHistory returns a participant's snapshots ordered by season.
func (t *Tracker) ParticipantHistory(participant string) []SeasonEntry {
	var out []SeasonEntry
	for _, row := range t.view().Rows() {
		if row.Participant == participant {
			out = append(out, SeasonEntry{Season: row.Season, SeasonStatSnapshot: row.SeasonStatSnapshot})
		}
	}
	return out
}

// Championships returns the seasons, within the lookback window ending at
// currentSeason, in which participant's team won the cup. A lookback of 0
// or less means all seasons. Seasons whose ID does not parse are skipped.
func (t *Tracker) Championships(participant, currentSeason string, lookback int) []SeasonEntry {
	current, err := StartYear(currentSeason)
	if err != nil && lookback > 0 {
		t.logger.Warn().Err(err).Str("season", currentSeason).Msg("cannot apply championship lookback")
		return nil
	}
	var out []SeasonEntry
	for _, e := range t.ParticipantHistory(participant) {
		if e.PlayoffWins < ChampionshipWins {
			continue
		}
		year, err := StartYear(e.Season)
		if err != nil {
			t.logger.Debug().Err(err).Str("season", e.Season).Msg("skipping unparseable season")
			continue
		}
		if lookback > 0 && (year > current || year <= current-lookback) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Seasons returns every recorded season, sorted.
func (t *Tracker) Seasons() []string {
	h := t.view()
	out := make([]string, 0, len(h))
	for s := range h {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Participants returns every participant with at least one snapshot, sorted.
func (t *Tracker) Participants() []string {
	seen := make(map[string]struct{})
	for _, bySeason := range t.view() {
		for p := range bySeason {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// StartYear parses the first year of a season ID. Both "20242025" and
// "2024" forms are accepted.
func StartYear(season string) (int, error) {
	if len(season) != 8 && len(season) != 4 {
		return 0, fmt.Errorf("invalid season id %q", season)
	}
	year, err := strconv.Atoi(season[:4])
	if err != nil {
		return 0, fmt.Errorf("invalid season id %q: %w", season, err)
	}
	if len(season) == 8 {
		end, err := strconv.Atoi(season[4:])
		if err != nil || end != year+1 {
			return 0, fmt.Errorf("invalid season id %q", season)
		}
	}
	return year, nil
}

// PreviousSeason returns the season before season in the same format.
func PreviousSeason(season string) (string, error) {
	year, err := StartYear(season)
	if err != nil {
		return "", err
	}
	if len(season) == 4 {
		return strconv.Itoa(year - 1), nil
	}
	return strconv.Itoa(year-1) + strconv.Itoa(year), nil
}

// Summary is one participant's totals across every stored season.
type Summary struct {
	Participant string
	Seasons     int
	First       string
	Last        string
	Wins        int
	Points      int
	BestRank    int
	PlayoffWins int
	Cups        int
}

// Summaries totals every participant's history. Cups count every season
// at or above ChampionshipWins, regardless of lookback.
func (t *Tracker) Summaries() []Summary {
	byName := make(map[string]*Summary)
	var order []string
	for _, row := range t.view().Rows() {
		s, ok := byName[row.Participant]
		if !ok {
			s = &Summary{Participant: row.Participant, First: row.Season}
			byName[row.Participant] = s
			order = append(order, row.Participant)
		}
		s.Seasons++
		s.Last = row.Season
		s.Wins += row.Wins
		s.Points += row.Points
		s.PlayoffWins += row.PlayoffWins
		if row.LeagueRank > 0 && (s.BestRank == 0 || row.LeagueRank < s.BestRank) {
			s.BestRank = row.LeagueRank
		}
		if row.PlayoffWins >= ChampionshipWins {
			s.Cups++
		}
	}
	sort.Strings(order)
	out := make([]Summary, len(order))
	for i, name := range order {
		out[i] = *byName[name]
	}
	return out
}

// TrendPoint is the change between two consecutive recorded seasons of a
// participant.
type TrendPoint struct {
	From, To string
	model.Improvement
}

// Trend walks a participant's recorded seasons in order and returns the
// delta between each adjacent pair. Gaps between recorded seasons are not
// filled.
func (t *Tracker) Trend(participant string) []TrendPoint {
	entries := t.ParticipantHistory(participant)
	var out []TrendPoint
	for i := 1; i < len(entries); i++ {
		a, b := entries[i-1], entries[i]
		out = append(out, TrendPoint{
			From: a.Season,
			To:   b.Season,
			Improvement: model.Improvement{
				WinsDiff:        b.Wins - a.Wins,
				PointsDiff:      b.Points - a.Points,
				RankImprovement: a.LeagueRank - b.LeagueRank,
			},
		})
	}
	return out
}
