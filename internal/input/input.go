// Package input reads the per-run data files: standings, the fan
// assignment, and the optional playoff bracket.
package input

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pable/go-pool-stats/internal/model"
	"github.com/pable/go-pool-stats/internal/nhl"
)

// Standings reads a standings file in either the upstream wrapped shape or
// as a bare array.
func Standings(path string) ([]model.TeamRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read standings: %w", err)
	}
	teams, err := nhl.DecodeStandings(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return teams, nil
}

// Assignment reads an abbrev -> participant JSON object. Keys are
// upper-cased; blank participants become model.Unassigned.
func Assignment(path string) (model.FanAssignment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read assignment: %w", err)
	}
	return ParseAssignment(b)
}

// ParseAssignment decodes and normalizes an assignment document.
func ParseAssignment(b []byte) (model.FanAssignment, error) {
	var raw map[string]string
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode assignment: %w", err)
	}
	out := make(model.FanAssignment, len(raw))
	for abbrev, who := range raw {
		abbrev = strings.ToUpper(strings.TrimSpace(abbrev))
		if abbrev == "" {
			continue
		}
		who = strings.TrimSpace(who)
		if who == "" {
			who = model.Unassigned
		}
		out[abbrev] = who
	}
	return out, nil
}

// Playoffs reads the playoff bracket. An empty path means the regular
// season is still running and returns nil.
func Playoffs(path string) ([]model.PlayoffTeam, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playoffs: %w", err)
	}
	var teams []model.PlayoffTeam
	if err := json.Unmarshal(b, &teams); err != nil {
		return nil, fmt.Errorf("decode playoffs %s: %w", path, err)
	}
	return teams, nil
}
