// Package odds turns standings positions into a normalized, probability-like
// championship distribution. It is a heuristic, not a statistical model.
package odds

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pable/go-pool-stats/internal/model"
)

// Pre-playoff scoring constants.
const (
	contenderCutoff  = 16  // league ranks that earn a real base score
	longShotBase     = 0.1 // base score outside the cutoff
	conferenceCutoff = 8
	conferenceStep   = 5.0
	pointPctWeight   = 25.0
)

// In-playoff scoring constants.
const (
	roundWeight      = 10.0
	seriesWinsWeight = 3.0
)

var divisionBonus = map[int]float64{1: 20, 2: 15, 3: 10}

var hundred = decimal.NewFromInt(100)

// RawScore is the unnormalized pre-playoff score of one team.
func RawScore(t *model.TeamRecord) float64 {
	base := longShotBase
	if t.LeagueRank >= 1 && t.LeagueRank <= contenderCutoff {
		base = 100.0 / float64(t.LeagueRank)
	}
	conf := 0.0
	// A missing (zero) conference rank earns nothing.
	if t.ConferenceRank >= 1 && t.ConferenceRank <= conferenceCutoff {
		conf = float64(conferenceCutoff+1-t.ConferenceRank) * conferenceStep
	}
	return base + divisionBonus[t.DivisionRank] + conf + t.PointPercentage*pointPctWeight
}

// CupOdds scores every team in the league and normalizes to percentages.
// It is the regular-season estimate; once playoffs begin use PlayoffOdds.
func CupOdds(teams []model.TeamRecord) map[string]float64 {
	scores := make(map[string]float64, len(teams))
	for i := range teams {
		abbrev := teams[i].Abbrev.String()
		if abbrev == "" {
			continue
		}
		scores[abbrev] = RawScore(&teams[i])
	}
	return Normalize(scores)
}

// PlayoffScore is the in-playoff score of a surviving team.
func PlayoffScore(p model.PlayoffTeam) float64 {
	return float64(p.Round)*roundWeight + float64(p.SeriesWins)*seriesWinsWeight
}

// PlayoffOdds scores the teams still alive in the bracket and normalizes
// them. Eliminated teams get no entry.
func PlayoffOdds(teams []model.PlayoffTeam) map[string]float64 {
	scores := make(map[string]float64, len(teams))
	for _, p := range teams {
		if p.Eliminated || p.Abbrev == "" {
			continue
		}
		scores[p.Abbrev] = PlayoffScore(p)
	}
	return Normalize(scores)
}

// Normalize converts scores into percentages rounded to two decimals. Cents
// lost to rounding are handed to the largest remainders so the result sums
// to exactly 100.00. A non-positive total yields an empty map.
func Normalize(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	total := decimal.Zero
	for _, s := range scores {
		if s > 0 {
			total = total.Add(decimal.NewFromFloat(s))
		}
	}
	if !total.IsPositive() {
		return out
	}

	type share struct {
		abbrev    string
		floor     decimal.Decimal
		remainder decimal.Decimal
	}
	shares := make([]share, 0, len(scores))
	allocated := decimal.Zero
	for abbrev, s := range scores {
		if s < 0 {
			s = 0
		}
		exact := decimal.NewFromFloat(s).Mul(hundred).Div(total)
		floor := exact.Truncate(2)
		shares = append(shares, share{abbrev: abbrev, floor: floor, remainder: exact.Sub(floor)})
		allocated = allocated.Add(floor)
	}
	sort.Slice(shares, func(i, j int) bool {
		if c := shares[i].remainder.Cmp(shares[j].remainder); c != 0 {
			return c > 0
		}
		return shares[i].abbrev < shares[j].abbrev
	})

	cent := decimal.New(1, -2)
	left := hundred.Sub(allocated).Div(cent).IntPart()
	for i := range shares {
		v := shares[i].floor
		if int64(i) < left {
			v = v.Add(cent)
		}
		out[shares[i].abbrev] = v.InexactFloat64()
	}
	return out
}

// Sum adds the percentages of an odds map.
func Sum(m map[string]float64) float64 {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}
