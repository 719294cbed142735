// Package model holds the typed records shared by the pool statistics engine:
// standings rows, the fan assignment, schedule games, head-to-head tallies,
// season snapshots and ranked leaderboard entries.
package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// LocalizedString decodes either a plain JSON string or the upstream
// {"default": "..."} object used for team names and abbreviations.
type LocalizedString string

func (s *LocalizedString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	var plain string
	if err := json.Unmarshal(b, &plain); err == nil {
		*s = LocalizedString(plain)
		return nil
	}
	var obj struct {
		Default string `json:"default"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*s = LocalizedString(obj.Default)
	return nil
}

func (s LocalizedString) String() string { return string(s) }

// TeamRecord is one team's standings row for a single refresh cycle.
// Fields absent from the upstream payload decode as zero.
type TeamRecord struct {
	Abbrev          LocalizedString `json:"teamAbbrev"`
	Name            LocalizedString `json:"teamName"`
	Wins            int             `json:"wins"`
	Losses          int             `json:"losses"`
	OTLosses        int             `json:"otLosses"`
	GamesPlayedRaw  int             `json:"gamesPlayed,omitempty"`
	Points          int             `json:"points"`
	GoalsFor        int             `json:"goalFor"`
	GoalsAgainst    int             `json:"goalAgainst"`
	DivisionRank    int             `json:"divisionSequence"`
	ConferenceRank  int             `json:"conferenceSequence"`
	LeagueRank      int             `json:"leagueSequence"`
	PointPercentage float64         `json:"pointPctg"`
	StreakCode      string          `json:"streakCode,omitempty"`
	StreakCount     int             `json:"streakCount,omitempty"`
	RegulationWins  int             `json:"regulationWins,omitempty"`
}

// GamesPlayed returns the reported games played, or W+L+OTL when the field
// was not supplied.
func (t *TeamRecord) GamesPlayed() int {
	if t.GamesPlayedRaw > 0 {
		return t.GamesPlayedRaw
	}
	return t.Wins + t.Losses + t.OTLosses
}

func (t *TeamRecord) GoalDiff() int {
	return t.GoalsFor - t.GoalsAgainst
}

// GoalDiffPerGame returns (GF-GA)/GP, or 0 with no games played.
func (t *TeamRecord) GoalDiffPerGame() float64 {
	gp := t.GamesPlayed()
	if gp == 0 {
		return 0
	}
	return float64(t.GoalDiff()) / float64(gp)
}

// WinPct returns wins/GP in [0,1], or 0 with no games played.
func (t *TeamRecord) WinPct() float64 {
	gp := t.GamesPlayed()
	if gp == 0 {
		return 0
	}
	return float64(t.Wins) / float64(gp)
}

// GoalsAgainstAverage returns GA/GP, or 0 with no games played.
func (t *TeamRecord) GoalsAgainstAverage() float64 {
	gp := t.GamesPlayed()
	if gp == 0 {
		return 0
	}
	return float64(t.GoalsAgainst) / float64(gp)
}

// RecordString formats the W-L-OTL line.
func (t *TeamRecord) RecordString() string {
	return strconv.Itoa(t.Wins) + "-" + strconv.Itoa(t.Losses) + "-" + strconv.Itoa(t.OTLosses)
}

// Streak returns the active streak kind ("W", "L", "OT") and its length.
// An explicit StreakCount wins over a count embedded in the code; a missing
// or zero count defaults to 1. An empty code yields ("", 0).
func (t *TeamRecord) Streak() (string, int) {
	code := strings.ToUpper(strings.TrimSpace(t.StreakCode))
	if code == "" {
		return "", 0
	}
	split := strings.IndexFunc(code, unicode.IsDigit)
	kind, digits := code, ""
	if split >= 0 {
		kind, digits = code[:split], code[split:]
	}
	n := t.StreakCount
	if n <= 0 && digits != "" {
		n, _ = strconv.Atoi(digits)
	}
	if n <= 0 {
		n = 1
	}
	return kind, n
}

// PlayoffTeam is one team's position in the playoff bracket.
type PlayoffTeam struct {
	Abbrev     string `json:"abbrev"`
	Round      int    `json:"round"`
	SeriesWins int    `json:"seriesWins"`
	GameWins   int    `json:"gameWins"`
	Eliminated bool   `json:"eliminated"`
}
