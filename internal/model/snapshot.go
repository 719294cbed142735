package model

import (
	"sort"
	"time"
)

// SeasonStatSnapshot is a participant's team line captured for one season.
type SeasonStatSnapshot struct {
	Team           string    `json:"team"`
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	OTLosses       int       `json:"otLosses"`
	Points         int       `json:"points"`
	GoalsFor       int       `json:"goalsFor"`
	GoalsAgainst   int       `json:"goalsAgainst"`
	DivisionRank   int       `json:"divisionRank"`
	ConferenceRank int       `json:"conferenceRank"`
	LeagueRank     int       `json:"leagueRank"`
	PlayoffWins    int       `json:"playoffWins"`
	CapturedAt     time.Time `json:"capturedAt"`
}

// SnapshotFromRecord copies the standings fields of t into a snapshot.
func SnapshotFromRecord(t *TeamRecord, playoffWins int, at time.Time) SeasonStatSnapshot {
	return SeasonStatSnapshot{
		Team:           t.Abbrev.String(),
		Wins:           t.Wins,
		Losses:         t.Losses,
		OTLosses:       t.OTLosses,
		Points:         t.Points,
		GoalsFor:       t.GoalsFor,
		GoalsAgainst:   t.GoalsAgainst,
		DivisionRank:   t.DivisionRank,
		ConferenceRank: t.ConferenceRank,
		LeagueRank:     t.LeagueRank,
		PlayoffWins:    playoffWins,
		CapturedAt:     at,
	}
}

// Improvement is the season-over-season delta for one participant.
// RankImprovement is positive when the league rank got numerically lower.
type Improvement struct {
	WinsDiff        int `json:"winsDiff"`
	PointsDiff      int `json:"pointsDiff"`
	RankImprovement int `json:"rankImprovement"`
}

// RankedEntry is one row of a leaderboard category. Rank is the competition
// position (1, 1, 3, ...) and is zero for unranked lists.
type RankedEntry struct {
	Participant string  `json:"participant"`
	Team        string  `json:"team"`
	Value       float64 `json:"value"`
	Display     string  `json:"display"`
	Rank        int     `json:"rank,omitempty"`
}

// History is every recorded snapshot keyed season → participant.
type History map[string]map[string]SeasonStatSnapshot

// NewHistory returns an empty history, the default for a fresh store.
func NewHistory() History { return make(History) }

// SnapshotRow is one flattened History entry.
type SnapshotRow struct {
	Season      string
	Participant string
	SeasonStatSnapshot
}

// Rows flattens h ordered by season then participant.
func (h History) Rows() []SnapshotRow {
	seasons := make([]string, 0, len(h))
	for s := range h {
		seasons = append(seasons, s)
	}
	sort.Strings(seasons)
	var out []SnapshotRow
	for _, s := range seasons {
		names := make([]string, 0, len(h[s]))
		for p := range h[s] {
			names = append(names, p)
		}
		sort.Strings(names)
		for _, p := range names {
			out = append(out, SnapshotRow{Season: s, Participant: p, SeasonStatSnapshot: h[s][p]})
		}
	}
	return out
}
