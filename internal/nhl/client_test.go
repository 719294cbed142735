package nhl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-pool-stats/internal/model"
)

const scheduleBody = `{
	"previousSeason": 20232024,
	"currentSeason": 20242025,
	"games": [
		{"id": 2024020010, "gameType": 2, "gameDate": "2024-10-09", "gameState": "OFF",
		 "homeTeam": {"abbrev": "TOR", "score": 4}, "awayTeam": {"abbrev": "MTL", "score": 3},
		 "periodDescriptor": {"periodType": "OT"}, "gameOutcome": {"lastPeriodType": "OT"}},
		{"id": 2024020020, "gameType": 2, "gameDate": "2024-10-12", "gameState": "FUT",
		 "homeTeam": {"abbrev": "BOS"}, "awayTeam": {"abbrev": "TOR"}}
	]
}`

func TestClubSchedule(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(scheduleBody))
	}))
	defer srv.Close()

	games, err := NewClient(srv.URL).ClubSchedule(context.Background(), "TOR", "20242025")
	require.NoError(t, err)
	assert.Equal(t, "/club-schedule-season/TOR/20242025", gotPath)
	require.Len(t, games, 2)
	assert.True(t, games[0].Status.Final())
	assert.True(t, games[0].BeyondRegulation())
	assert.False(t, games[1].Status.Final())
}

func TestClubSchedule_UnreadableStatusKeepsOtherGames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"games": [
			{"id": 2024020001, "gameState": "OFF", "homeTeam": {"abbrev": "AAA", "score": 3}, "awayTeam": {"abbrev": "BBB", "score": 2}},
			{"id": 2024020002, "gameState": {"code": "LIVE"}, "homeTeam": {"abbrev": "BBB"}, "awayTeam": {"abbrev": "AAA"}}
		]}`))
	}))
	defer srv.Close()

	games, err := NewClient(srv.URL).ClubSchedule(context.Background(), "AAA", "20242025")
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.True(t, games[0].Status.Final())
	assert.False(t, games[1].Status.Final())
}

func TestClubSchedule_DefaultsToCurrentSeason(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"games": []}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ClubSchedule(context.Background(), "EDM", "")
	require.NoError(t, err)
	assert.Equal(t, "/club-schedule-season/EDM/now", gotPath)
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ClubSchedule(context.Background(), "TOR", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestStandings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/standings/now", r.URL.Path)
		w.Write([]byte(`{"standings": [{"teamAbbrev": {"default": "WPG"}, "teamName": {"default": "Winnipeg Jets"}, "wins": 56, "leagueSequence": 1}]}`))
	}))
	defer srv.Close()

	teams, err := NewClient(srv.URL).Standings(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, model.LocalizedString("WPG"), teams[0].Abbrev)
	assert.Equal(t, 56, teams[0].Wins)
}

func TestDecodeStandings_BareArray(t *testing.T) {
	teams, err := DecodeStandings([]byte(` [{"teamAbbrev": "TOR", "wins": 3}]`))
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "TOR", teams[0].Abbrev.String())

	_, err = DecodeStandings([]byte(`{"standings": 5}`))
	assert.Error(t, err)
}

type countingSource struct {
	calls int
}

func (c *countingSource) ClubSchedule(ctx context.Context, abbrev, season string) ([]model.Game, error) {
	c.calls++
	return []model.Game{{ID: 2024020001, Home: model.GameSide{Abbrev: abbrev}}}, nil
}

// TestCachedSchedules_UnreachableRedisFallsThrough: a dead cache must not
// break schedule loading.
func TestCachedSchedules_UnreachableRedisFallsThrough(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	src := &countingSource{}
	cached := NewCachedSchedules(src, rdb, time.Minute, zerolog.Nop())

	games, err := cached.ClubSchedule(context.Background(), "TOR", "20242025")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "TOR", games[0].Home.Abbrev)
	assert.Equal(t, 1, src.calls)
}

func TestScheduleKey(t *testing.T) {
	assert.Equal(t, "poolstats:schedule:20242025:TOR", scheduleKey("TOR", "20242025"))
	assert.Equal(t, "poolstats:schedule:now:TOR", scheduleKey("TOR", ""))
}
