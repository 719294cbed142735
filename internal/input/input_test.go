package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-pool-stats/internal/model"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestStandings(t *testing.T) {
	path := writeFile(t, "standings.json", `{"standings": [
		{"teamAbbrev": {"default": "TOR"}, "wins": 10, "losses": 4, "otLosses": 2, "goalFor": 50, "goalAgainst": 40}
	]}`)
	teams, err := Standings(path)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, 16, teams[0].GamesPlayed())
	assert.Equal(t, 10, teams[0].GoalDiff())

	_, err = Standings(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseAssignment(t *testing.T) {
	a, err := ParseAssignment([]byte(`{" tor ": "Alice", "MTL": "", "BOS": "N/A", "": "ghost"}`))
	require.NoError(t, err)
	assert.Equal(t, model.FanAssignment{"TOR": "Alice", "MTL": model.Unassigned, "BOS": model.Unassigned}, a)
	assert.Equal(t, []string{"TOR"}, a.OwnedTeams())

	_, err = ParseAssignment([]byte(`["TOR"]`))
	assert.Error(t, err)
}

func TestPlayoffs(t *testing.T) {
	teams, err := Playoffs("")
	require.NoError(t, err)
	assert.Nil(t, teams)

	path := writeFile(t, "bracket.json", `[{"abbrev": "EDM", "round": 3, "seriesWins": 2, "gameWins": 11}, {"abbrev": "VGK", "round": 2, "eliminated": true}]`)
	teams, err = Playoffs(path)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, 11, teams[0].GameWins)
	assert.True(t, teams[1].Eliminated)
}
