package model

import (
	"encoding/json"
	"testing"
)

func TestStreak(t *testing.T) {
	cases := []struct {
		code      string
		count     int
		wantKind  string
		wantCount int
	}{
		{"W3", 0, "W", 3},
		{"L", 4, "L", 4},
		{"W", 0, "W", 1},
		{"OT2", 0, "OT", 2},
		{"w0", 0, "W", 1},
		{"L2", 5, "L", 5},
		{"", 3, "", 0},
	}
	for _, c := range cases {
		tr := TeamRecord{StreakCode: c.code, StreakCount: c.count}
		kind, n := tr.Streak()
		if kind != c.wantKind || n != c.wantCount {
			t.Errorf("Streak(%q,%d) = (%q,%d), want (%q,%d)", c.code, c.count, kind, n, c.wantKind, c.wantCount)
		}
	}
}

func TestGamesPlayedDerived(t *testing.T) {
	tr := TeamRecord{Wins: 10, Losses: 5, OTLosses: 2}
	if gp := tr.GamesPlayed(); gp != 17 {
		t.Errorf("GamesPlayed: want 17, got %d", gp)
	}
	tr.GamesPlayedRaw = 20
	if gp := tr.GamesPlayed(); gp != 20 {
		t.Errorf("GamesPlayed with explicit value: want 20, got %d", gp)
	}
}

func TestZeroGamesRatios(t *testing.T) {
	var tr TeamRecord
	if tr.WinPct() != 0 || tr.GoalDiffPerGame() != 0 || tr.GoalsAgainstAverage() != 0 {
		t.Error("expected zero ratios with no games played")
	}
}

func TestTeamRecordDecodeLocalized(t *testing.T) {
	body := `{"teamAbbrev":{"default":"TOR"},"teamName":"Maple Leafs","wins":3,"goalFor":12,"pointPctg":0.625,"streakCode":"W","streakCount":2}`
	var tr TeamRecord
	if err := json.Unmarshal([]byte(body), &tr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tr.Abbrev != "TOR" || tr.Name != "Maple Leafs" {
		t.Errorf("abbrev/name: got %q/%q", tr.Abbrev, tr.Name)
	}
	if tr.Wins != 3 || tr.GoalsFor != 12 || tr.PointPercentage != 0.625 {
		t.Errorf("numeric fields not decoded: %+v", tr)
	}
	if tr.Losses != 0 {
		t.Errorf("missing losses should default to 0, got %d", tr.Losses)
	}
}

func TestGameStatusFinal(t *testing.T) {
	final := []string{`"OFF"`, `"FINAL"`, `"final"`, `7`, `"6"`, `5`, `"Final/OT"`}
	notFinal := []string{`"LIVE"`, `"FUT"`, `"PRE"`, `3`, `"1"`, `""`, `null`, `"CRIT"`,
		`true`, `[7]`, `{"code":"OFF"}`}
	for _, raw := range final {
		var s GameStatus
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if !s.Final() {
			t.Errorf("%s: expected final", raw)
		}
	}
	for _, raw := range notFinal {
		var s GameStatus
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if s.Final() {
			t.Errorf("%s: expected not final", raw)
		}
	}
}

func TestGameDecodeUpstreamShape(t *testing.T) {
	body := `{
		"id": 2024020345,
		"gameType": 2,
		"gameDate": "2024-11-20",
		"gameState": "OFF",
		"homeTeam": {"abbrev": "TOR", "score": 3},
		"awayTeam": {"abbrev": "MTL", "score": 2},
		"periodDescriptor": {"periodType": "OT"},
		"gameOutcome": {"lastPeriodType": "SO"}
	}`
	var g Game
	if err := json.Unmarshal([]byte(body), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !g.Status.Final() {
		t.Error("expected final status")
	}
	if g.PeriodType != "SO" {
		t.Errorf("period type: want SO from gameOutcome, got %q", g.PeriodType)
	}
	if !g.RegularSeason() || !g.BeyondRegulation() {
		t.Error("expected regular-season game decided beyond regulation")
	}
	if g.Opponent("TOR").Abbrev != "MTL" || g.Side("MTL").Score != 2 {
		t.Error("side lookup mismatch")
	}
}

func TestGameDecodeLegacyStatus(t *testing.T) {
	body := `{"id": 2023020001, "status": {"statusCode": "7"}, "homeTeam": {"abbrev": "A"}, "awayTeam": {"abbrev": "B"}}`
	var g Game
	if err := json.Unmarshal([]byte(body), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !g.Status.Final() {
		t.Errorf("legacy status code 7 should be final, got %q", g.Status)
	}
}

func TestScheduleOddStatusSkipsOnlyThatGame(t *testing.T) {
	body := `{"games": [
		{"id": 2024020001, "gameState": "OFF", "homeTeam": {"abbrev": "AAA", "score": 4}, "awayTeam": {"abbrev": "BBB", "score": 1}},
		{"id": 2024020002, "gameState": {"code": "LIVE"}, "homeTeam": {"abbrev": "BBB"}, "awayTeam": {"abbrev": "AAA"}},
		{"id": 2024020003, "gameState": false, "homeTeam": {"abbrev": "AAA"}, "awayTeam": {"abbrev": "CCC"}},
		{"id": 2024020004, "status": ["7"], "homeTeam": {"abbrev": "CCC"}, "awayTeam": {"abbrev": "AAA"}}
	]}`
	var resp struct {
		Games []Game `json:"games"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("schedule with odd statuses should decode: %v", err)
	}
	if len(resp.Games) != 4 {
		t.Fatalf("expected 4 games, got %d", len(resp.Games))
	}
	if !resp.Games[0].Status.Final() || resp.Games[0].Home.Score != 4 {
		t.Errorf("finished game lost: %+v", resp.Games[0])
	}
	for _, g := range resp.Games[1:] {
		if g.Status != "" {
			t.Errorf("game %d: odd status should decode empty, got %q", g.ID, g.Status)
		}
	}
}

func TestGameSegment(t *testing.T) {
	cases := []struct {
		id       int64
		gameType int
		regular  bool
	}{
		{2024020001, 0, true},
		{2024010001, 0, false},
		{2024030111, 0, false},
		{2024030111, 2, false},
		{0, 0, false},
		{12345, 0, false},
		{12345, 2, true},
		{12345, 1, false},
		{12345, 3, false},
		{12345, 9, false},
	}
	for _, c := range cases {
		g := Game{ID: c.id, GameType: c.gameType}
		if got := g.RegularSeason(); got != c.regular {
			t.Errorf("RegularSeason(id=%d, type=%d) = %v, want %v", c.id, c.gameType, got, c.regular)
		}
	}
}

func TestFanAssignment(t *testing.T) {
	a := FanAssignment{"TOR": "Alice", "MTL": "Bob", "BOS": Unassigned, "EDM": "Alice", "VAN": " "}
	owned := a.OwnedTeams()
	if len(owned) != 3 || owned[0] != "EDM" || owned[2] != "TOR" {
		t.Errorf("OwnedTeams: got %v", owned)
	}
	if a.Owns("BOS") || a.Owns("VAN") || a.Owns("XXX") {
		t.Error("unassigned/blank/unknown teams should not be owned")
	}
	if ps := a.Participants(); len(ps) != 2 || ps[0] != "Alice" {
		t.Errorf("Participants: got %v", ps)
	}
	if teams := a.TeamsOf("Alice"); len(teams) != 2 || teams[0] != "EDM" {
		t.Errorf("TeamsOf(Alice): got %v", teams)
	}
}

func TestMatrixTotalAndAmong(t *testing.T) {
	m := make(Matrix)
	m.Put("A", "B", HeadToHeadRecord{Wins: 2, Losses: 1, GoalsFor: 9, GoalsAgainst: 7})
	m.Put("A", "C", HeadToHeadRecord{OTLosses: 1, GoalsFor: 2, GoalsAgainst: 3})
	m.Put("B", "A", HeadToHeadRecord{Wins: 1, Losses: 2, GoalsFor: 7, GoalsAgainst: 9})

	total := m.Total("A", nil)
	if total.String() != "2-1-1" || total.GoalDiff() != 1 {
		t.Errorf("Total: got %s gd=%d", total, total.GoalDiff())
	}
	if pct := total.PointPct(); pct != 5.0/8.0 {
		t.Errorf("PointPct: want 0.625, got %f", pct)
	}

	sub := m.Among(func(s string) bool { return s != "C" })
	if _, ok := sub["A"]["C"]; ok {
		t.Error("Among should drop pairs involving C")
	}
	if sub.Get("B", "A").Wins != 1 {
		t.Error("Among should keep B vs A")
	}
}
