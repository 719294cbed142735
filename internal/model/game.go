package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// GameStatus is a schedule status that may arrive as a numeric code or a
// textual state token. Any other JSON kind decodes as "" (not final), so one
// odd entry never fails the whole schedule.
type GameStatus string

func (s *GameStatus) UnmarshalJSON(b []byte) error {
	*s = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch {
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err == nil {
			*s = GameStatus(v)
		}
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err == nil {
			*s = GameStatus(n.String())
		}
	}
	return nil
}

// finalCodes are the numeric status codes that mean the game is over.
var finalCodes = map[int]bool{5: true, 6: true, 7: true}

// finalTokens are the textual states that mean the game is over.
var finalTokens = map[string]bool{
	"OFF":       true,
	"FINAL":     true,
	"F":         true,
	"FINAL/OT":  true,
	"FINAL/SO":  true,
	"GAME OVER": true,
}

// Final reports whether the status resolves to a closed game. Live, future
// and unknown states are all not final.
func (s GameStatus) Final() bool {
	v := strings.ToUpper(strings.TrimSpace(string(s)))
	if v == "" {
		return false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return finalCodes[n]
	}
	return finalTokens[v]
}

// GameSide is one participant in a scheduled game.
type GameSide struct {
	Abbrev string `json:"abbrev"`
	Score  int    `json:"score"`
}

// Game is one entry of a team's season schedule.
type Game struct {
	ID           int64      `json:"id"`
	GameType     int        `json:"gameType"`
	GameDate     string     `json:"gameDate"`
	StartTimeUTC string     `json:"startTimeUTC"`
	Status       GameStatus `json:"gameState"`
	Home         GameSide   `json:"homeTeam"`
	Away         GameSide   `json:"awayTeam"`
	PeriodType   string     `json:"periodType"`
}

// UnmarshalJSON accepts the upstream schedule shape: the status may be under
// gameState or a legacy status object, and the period type under gameOutcome
// or periodDescriptor.
func (g *Game) UnmarshalJSON(b []byte) error {
	type plain Game
	var raw struct {
		plain
		LegacyState json.RawMessage `json:"status"`
		Outcome     struct {
			LastPeriodType string `json:"lastPeriodType"`
		} `json:"gameOutcome"`
		Descriptor struct {
			PeriodType string `json:"periodType"`
		} `json:"periodDescriptor"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*g = Game(raw.plain)
	if g.Status == "" {
		g.Status = legacyStatus(raw.LegacyState)
	}
	if g.PeriodType == "" {
		g.PeriodType = raw.Outcome.LastPeriodType
	}
	if g.PeriodType == "" {
		g.PeriodType = raw.Descriptor.PeriodType
	}
	return nil
}

// legacyStatus reads the older "status" field, either a bare code or a
// {"statusCode": ...} object.
func legacyStatus(b json.RawMessage) GameStatus {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return ""
	}
	if b[0] == '{' {
		var obj struct {
			Code GameStatus `json:"statusCode"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return ""
		}
		return obj.Code
	}
	var st GameStatus
	_ = json.Unmarshal(b, &st)
	return st
}

// Segment season-type codes embedded in a game ID (SSSSTTNNNN).
const (
	SegmentPreseason = "01"
	SegmentRegular   = "02"
	SegmentPlayoffs  = "03"
)

// gameTypeSegments maps the upstream gameType field onto segment codes.
var gameTypeSegments = map[int]string{
	1: SegmentPreseason,
	2: SegmentRegular,
	3: SegmentPlayoffs,
}

// Segment returns the two-digit season segment encoded in the game ID. IDs
// that are not in the SSSSTTNNNN form fall back to the gameType field.
func (g *Game) Segment() (string, bool) {
	id := strconv.FormatInt(g.ID, 10)
	if len(id) == 10 {
		return id[4:6], true
	}
	seg, ok := gameTypeSegments[g.GameType]
	return seg, ok
}

// RegularSeason reports whether the ID encodes a regular-season game.
func (g *Game) RegularSeason() bool {
	seg, ok := g.Segment()
	return ok && seg == SegmentRegular
}

// BeyondRegulation reports whether the game was decided in OT or a shootout.
func (g *Game) BeyondRegulation() bool {
	switch strings.ToUpper(strings.TrimSpace(g.PeriodType)) {
	case "OT", "SO":
		return true
	}
	return false
}

// Involves reports whether abbrev played in the game.
func (g *Game) Involves(abbrev string) bool {
	return g.Home.Abbrev == abbrev || g.Away.Abbrev == abbrev
}

// Opponent returns the side that is not abbrev.
func (g *Game) Opponent(abbrev string) GameSide {
	if g.Home.Abbrev == abbrev {
		return g.Away
	}
	return g.Home
}

// Side returns abbrev's own side.
func (g *Game) Side(abbrev string) GameSide {
	if g.Home.Abbrev == abbrev {
		return g.Home
	}
	return g.Away
}
