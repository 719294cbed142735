package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-pool-stats/internal/history"
	"github.com/pable/go-pool-stats/internal/model"
)

// CategoryOrder is the display order of the fixed categories. Victims
// lists follow in key order.
var CategoryOrder = []string{
	"most_wins",
	"fewest_wins",
	"most_losses",
	"fewest_losses",
	"most_points",
	"longest_win_streak",
	"longest_losing_streak",
	"longest_point_streak",
	"best_goal_differential",
	"worst_goal_differential",
	"best_win_percentage",
	"best_goals_against_average",
	"brick_wall",
	"high_scoring_losers",
	"most_ot_wins",
	"lives_dangerously",
	"best_vs_pool",
	"worst_vs_pool",
	"best_cup_odds",
	"worst_cup_odds",
	"most_improved",
	"all_time_playoff_wins",
	"hall_of_fame",
}

// SortedKeys returns the keys of cats in display order. Unknown keys come
// last, sorted.
func SortedKeys(cats map[string][]model.RankedEntry) []string {
	pos := make(map[string]int, len(CategoryOrder))
	for i, k := range CategoryOrder {
		pos[k] = i
	}
	keys := make([]string, 0, len(cats))
	for k := range cats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, oki := pos[keys[i]]
		pj, okj := pos[keys[j]]
		switch {
		case oki && okj:
			return pi < pj
		case oki != okj:
			return oki
		}
		return keys[i] < keys[j]
	})
	return keys
}

func newTable(w io.Writer, align tw.Align) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: align},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// Title turns a category key into a heading: "most_ot_wins" -> "Most Ot Wins".
func Title(key string) string {
	parts := strings.Split(key, "_")
	victims := parts[0] == "victims"
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i > 0 && victims {
			parts[i] = strings.ToUpper(p)
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// PrintCategories prints every category as a block of rows. Categories
// without qualifying entries print a single dash row.
func PrintCategories(w io.Writer, cats map[string][]model.RankedEntry) {
	table := newTable(w, tw.AlignLeft)
	table.Header("CATEGORY", "#", "PARTICIPANT", "TEAM", "VALUE")
	for _, key := range SortedKeys(cats) {
		entries := cats[key]
		if len(entries) == 0 {
			table.Append(Title(key), "", "—", "", "no qualifying entries")
			continue
		}
		for i, e := range entries {
			label := ""
			if i == 0 {
				label = Title(key)
			}
			rank := ""
			if e.Rank > 0 {
				rank = strconv.Itoa(e.Rank)
			}
			table.Append(label, rank, e.Participant, e.Team, e.Display)
		}
	}
	table.Render()
}

// PrintOdds prints odds sorted from favourite down, with each team's owner.
func PrintOdds(w io.Writer, odds map[string]float64, assignment model.FanAssignment) {
	teams := make([]string, 0, len(odds))
	for t := range odds {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool {
		if odds[teams[i]] != odds[teams[j]] {
			return odds[teams[i]] > odds[teams[j]]
		}
		return teams[i] < teams[j]
	})

	table := newTable(w, tw.AlignRight)
	table.Header("#", "TEAM", "OWNER", "ODDS")
	for i, t := range teams {
		owner := "—"
		if o, ok := assignment.Owner(t); ok {
			owner = o
		}
		table.Append(strconv.Itoa(i+1), t, owner, fmt.Sprintf("%.2f%%", odds[t]))
	}
	table.Render()
}

// PrintMatrix prints the head-to-head grid. Each cell is the row team's
// W-L-OTL against the column team.
func PrintMatrix(w io.Writer, m model.Matrix) {
	teams := m.Teams()
	if len(teams) == 0 {
		fmt.Fprintln(w, "No head-to-head games between owned teams yet.")
		return
	}
	table := newTable(w, tw.AlignCenter)
	header := []any{"TEAM"}
	for _, t := range teams {
		header = append(header, t)
	}
	header = append(header, "TOTAL")
	table.Header(header...)
	for _, row := range teams {
		cells := []any{row}
		for _, col := range teams {
			rec := m.Get(row, col)
			switch {
			case row == col:
				cells = append(cells, "·")
			case rec.GamesPlayed() == 0:
				cells = append(cells, "—")
			default:
				cells = append(cells, rec.String())
			}
		}
		cells = append(cells, m.Total(row, nil).String())
		table.Append(cells...)
	}
	table.Render()
}

// PrintHistory prints one participant's season snapshots.
func PrintHistory(w io.Writer, entries []history.SeasonEntry) {
	table := newTable(w, tw.AlignRight)
	table.Header("SEASON", "TEAM", "W", "L", "OTL", "PTS", "GF", "GA", "DIV", "CONF", "LEAGUE", "PO_W")
	for _, e := range entries {
		table.Append(
			e.Season,
			e.Team,
			strconv.Itoa(e.Wins),
			strconv.Itoa(e.Losses),
			strconv.Itoa(e.OTLosses),
			strconv.Itoa(e.Points),
			strconv.Itoa(e.GoalsFor),
			strconv.Itoa(e.GoalsAgainst),
			rankStr(e.DivisionRank),
			rankStr(e.ConferenceRank),
			rankStr(e.LeagueRank),
			strconv.Itoa(e.PlayoffWins),
		)
	}
	table.Render()
}

// PrintSummaries prints the per-participant history overview.
func PrintSummaries(w io.Writer, rows []history.Summary) {
	table := newTable(w, tw.AlignRight)
	table.Header("PARTICIPANT", "SEASONS", "FIRST", "LAST", "WINS", "POINTS", "BEST_RANK", "PO_W", "CUPS")
	for _, s := range rows {
		table.Append(
			s.Participant,
			strconv.Itoa(s.Seasons),
			s.First,
			s.Last,
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Points),
			rankStr(s.BestRank),
			strconv.Itoa(s.PlayoffWins),
			strconv.Itoa(s.Cups),
		)
	}
	table.Render()
}

// PrintImprovement prints a season-over-season comparison.
func PrintImprovement(w io.Writer, participant, from, to string, imp *model.Improvement, score int) {
	if imp == nil {
		fmt.Fprintf(w, "%s: no snapshots for both %s and %s\n", participant, from, to)
		return
	}
	table := newTable(w, tw.AlignRight)
	table.Header("PARTICIPANT", "FROM", "TO", "ΔW", "ΔPTS", "ΔRANK", "SCORE")
	table.Append(
		participant,
		from,
		to,
		fmt.Sprintf("%+d", imp.WinsDiff),
		fmt.Sprintf("%+d", imp.PointsDiff),
		fmt.Sprintf("%+d", imp.RankImprovement),
		fmt.Sprintf("%+d", score),
	)
	table.Render()
}

// PrintTrend prints season-over-season deltas. score maps each delta to the
// improvement score shown in the last column.
func PrintTrend(w io.Writer, points []history.TrendPoint, score func(model.Improvement) int) {
	table := newTable(w, tw.AlignRight)
	table.Header("FROM", "TO", "ΔW", "ΔPTS", "ΔRANK", "SCORE")
	for _, p := range points {
		table.Append(
			p.From,
			p.To,
			fmt.Sprintf("%+d", p.WinsDiff),
			fmt.Sprintf("%+d", p.PointsDiff),
			fmt.Sprintf("%+d", p.RankImprovement),
			fmt.Sprintf("%+d", score(p.Improvement)),
		)
	}
	table.Render()
}

func rankStr(r int) string {
	if r <= 0 {
		return "—"
	}
	return strconv.Itoa(r)
}
