// Package config holds the league configuration. It is read once at the
// start of a command and passed by pointer; nothing mutates it afterwards.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pable/go-pool-stats/internal/model"
)

// Defaults applied by Load for fields left at zero.
const (
	DefaultHighScoringMinGoals = 100
	DefaultBrickWallMaxAgainst = 100
	DefaultHallOfFameLookback  = 10
	DefaultFetchConcurrency    = 1
)

// Thresholds are the fixed cut-offs used by outlier categories.
type Thresholds struct {
	// HighScoringMinGoals is the goals-for floor for high_scoring_losers.
	// A team must score strictly more to qualify.
	HighScoringMinGoals int `json:"high_scoring_min_goals_for"`
	// BrickWallMaxAgainst is the goals-against ceiling for brick_wall.
	// A team must allow strictly fewer to qualify.
	BrickWallMaxAgainst int `json:"brick_wall_max_goals_against"`
}

// League is the immutable per-pool configuration.
type League struct {
	// Season is the current season ID, e.g. "20242025". Empty means the
	// upstream "now" season; history and improvement then have no anchor.
	Season string `json:"season"`
	// Roster is the fixed list of pool participants.
	Roster []string `json:"roster"`
	// TeamColors maps team abbreviations to a "#rrggbb" display color.
	TeamColors map[string]string `json:"team_colors"`
	// Rivals are teams that get a victims list.
	Rivals []string `json:"rivals"`

	Thresholds         Thresholds `json:"thresholds"`
	HallOfFameLookback int        `json:"hall_of_fame_lookback"`
	FetchConcurrency   int        `json:"fetch_concurrency"`
	APIBaseURL         string     `json:"api_base_url"`

	// Input files. Relative paths resolve against the config file's directory.
	StandingsFile  string `json:"standings_file"`
	AssignmentFile string `json:"assignment_file"`
	PlayoffsFile   string `json:"playoffs_file"`
}

// Default returns a League with every default applied.
func Default() *League {
	l := &League{}
	l.applyDefaults()
	return l
}

// Load reads the config at path. A missing file yields Default(); a file
// that exists but cannot be parsed is an error.
func Load(path string) (*League, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	l, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	l.StandingsFile = resolve(dir, l.StandingsFile)
	l.AssignmentFile = resolve(dir, l.AssignmentFile)
	l.PlayoffsFile = resolve(dir, l.PlayoffsFile)
	return l, nil
}

// Parse decodes a config document and applies defaults.
func Parse(b []byte) (*League, error) {
	var l League
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, err
	}
	l.applyDefaults()
	return &l, nil
}

func (l *League) applyDefaults() {
	if l.Thresholds.HighScoringMinGoals <= 0 {
		l.Thresholds.HighScoringMinGoals = DefaultHighScoringMinGoals
	}
	if l.Thresholds.BrickWallMaxAgainst <= 0 {
		l.Thresholds.BrickWallMaxAgainst = DefaultBrickWallMaxAgainst
	}
	if l.HallOfFameLookback <= 0 {
		l.HallOfFameLookback = DefaultHallOfFameLookback
	}
	if l.FetchConcurrency <= 0 {
		l.FetchConcurrency = DefaultFetchConcurrency
	}
	if l.TeamColors == nil {
		l.TeamColors = map[string]string{}
	}
	rivals := make([]string, 0, len(l.Rivals))
	seen := make(map[string]bool)
	for _, r := range l.Rivals {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r != "" && !seen[r] {
			seen[r] = true
			rivals = append(rivals, r)
		}
	}
	sort.Strings(rivals)
	l.Rivals = rivals
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// UnknownParticipants returns assignment participants missing from the
// roster, sorted. An empty roster accepts everyone.
func (l *League) UnknownParticipants(a model.FanAssignment) []string {
	if len(l.Roster) == 0 {
		return nil
	}
	known := make(map[string]bool, len(l.Roster))
	for _, name := range l.Roster {
		known[name] = true
	}
	var out []string
	for _, p := range a.Participants() {
		if !known[p] {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// TeamColor returns the configured color for abbrev and whether one exists.
func (l *League) TeamColor(abbrev string) (r, g, b int, ok bool) {
	hex, found := l.TeamColors[abbrev]
	if !found {
		return 0, 0, 0, false
	}
	if _, err := fmt.Sscanf(hex, "#%2x%2x%2x", &r, &g, &b); err != nil {
		return 0, 0, 0, false
	}
	return r, g, b, true
}
