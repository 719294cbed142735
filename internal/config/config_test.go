package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-pool-stats/internal/model"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultHighScoringMinGoals, l.Thresholds.HighScoringMinGoals)
	assert.Equal(t, DefaultBrickWallMaxAgainst, l.Thresholds.BrickWallMaxAgainst)
	assert.Equal(t, DefaultHallOfFameLookback, l.HallOfFameLookback)
	assert.Equal(t, 1, l.FetchConcurrency)
}

func TestLoad_ResolvesRelativeInputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "league.json")
	body := `{
		"season": "20242025",
		"rivals": ["tor", " mtl ", "TOR"],
		"thresholds": {"brick_wall_max_goals_against": 80},
		"fetch_concurrency": 4,
		"standings_file": "standings.json",
		"assignment_file": "/abs/fans.json"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "20242025", l.Season)
	assert.Equal(t, []string{"MTL", "TOR"}, l.Rivals)
	assert.Equal(t, 80, l.Thresholds.BrickWallMaxAgainst)
	assert.Equal(t, DefaultHighScoringMinGoals, l.Thresholds.HighScoringMinGoals)
	assert.Equal(t, 4, l.FetchConcurrency)
	assert.Equal(t, filepath.Join(dir, "standings.json"), l.StandingsFile)
	assert.Equal(t, "/abs/fans.json", l.AssignmentFile)
	assert.Empty(t, l.PlayoffsFile)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestUnknownParticipants(t *testing.T) {
	l := Default()
	a := model.FanAssignment{"TOR": "zed", "MTL": "amy", "BOS": model.Unassigned}
	assert.Nil(t, l.UnknownParticipants(a))

	l.Roster = []string{"amy"}
	assert.Equal(t, []string{"zed"}, l.UnknownParticipants(a))
}

func TestTeamColor(t *testing.T) {
	l := Default()
	l.TeamColors["TOR"] = "#00205b"
	l.TeamColors["BAD"] = "blue"

	r, g, b, ok := l.TeamColor("TOR")
	require.True(t, ok)
	assert.Equal(t, []int{0, 0x20, 0x5b}, []int{r, g, b})

	_, _, _, ok = l.TeamColor("BAD")
	assert.False(t, ok)
	_, _, _, ok = l.TeamColor("MTL")
	assert.False(t, ok)
}
