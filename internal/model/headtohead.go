package model

import (
	"fmt"
	"sort"
)

// HeadToHeadRecord is one team's tally against a single opponent, counted
// from the owner's perspective.
type HeadToHeadRecord struct {
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	OTLosses     int `json:"otLosses"`
	GoalsFor     int `json:"goalsFor"`
	GoalsAgainst int `json:"goalsAgainst"`
}

func (r HeadToHeadRecord) GamesPlayed() int {
	return r.Wins + r.Losses + r.OTLosses
}

func (r HeadToHeadRecord) GoalDiff() int {
	return r.GoalsFor - r.GoalsAgainst
}

// PointPct is standings points earned over points available (2 per game,
// 1 for an OT/SO loss). Zero with no games.
func (r HeadToHeadRecord) PointPct() float64 {
	gp := r.GamesPlayed()
	if gp == 0 {
		return 0
	}
	return float64(2*r.Wins+r.OTLosses) / float64(2*gp)
}

func (r HeadToHeadRecord) String() string {
	return fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.OTLosses)
}

// Add returns the element-wise sum of two records.
func (r HeadToHeadRecord) Add(o HeadToHeadRecord) HeadToHeadRecord {
	return HeadToHeadRecord{
		Wins:         r.Wins + o.Wins,
		Losses:       r.Losses + o.Losses,
		OTLosses:     r.OTLosses + o.OTLosses,
		GoalsFor:     r.GoalsFor + o.GoalsFor,
		GoalsAgainst: r.GoalsAgainst + o.GoalsAgainst,
	}
}

// Matrix holds head-to-head records keyed owner → opponent.
type Matrix map[string]map[string]HeadToHeadRecord

// Get returns owner's record against opponent (zero when they never met).
func (m Matrix) Get(owner, opponent string) HeadToHeadRecord {
	return m[owner][opponent]
}

// Put replaces owner's record against opponent.
func (m Matrix) Put(owner, opponent string, r HeadToHeadRecord) {
	row, ok := m[owner]
	if !ok {
		row = make(map[string]HeadToHeadRecord)
		m[owner] = row
	}
	row[opponent] = r
}

// Among returns the sub-matrix restricted to pairs where both sides satisfy keep.
func (m Matrix) Among(keep func(abbrev string) bool) Matrix {
	out := make(Matrix)
	for owner, row := range m {
		if !keep(owner) {
			continue
		}
		for opp, r := range row {
			if keep(opp) {
				out.Put(owner, opp, r)
			}
		}
	}
	return out
}

// Total sums owner's records against every opponent accepted by keep.
func (m Matrix) Total(owner string, keep func(abbrev string) bool) HeadToHeadRecord {
	var total HeadToHeadRecord
	for opp, r := range m[owner] {
		if keep == nil || keep(opp) {
			total = total.Add(r)
		}
	}
	return total
}

// Teams returns every abbreviation appearing as an owner, sorted.
func (m Matrix) Teams() []string {
	out := make([]string, 0, len(m))
	for owner := range m {
		out = append(out, owner)
	}
	sort.Strings(out)
	return out
}
