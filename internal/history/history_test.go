package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-pool-stats/internal/model"
	"github.com/pable/go-pool-stats/internal/store"
)

// memStore is an in-process RecordStore for tracker tests.
type memStore struct {
	h     model.History
	saves int
	loads int
	fail  error
}

func (m *memStore) Load() model.History {
	m.loads++
	if m.h == nil {
		return model.NewHistory()
	}
	// Hand back a copy so the tracker cannot mutate stored state without Save.
	out := model.NewHistory()
	for s, byP := range m.h {
		out[s] = make(map[string]model.SeasonStatSnapshot)
		for p, snap := range byP {
			out[s][p] = snap
		}
	}
	return out
}

func (m *memStore) Save(h model.History) error {
	if m.fail != nil {
		return m.fail
	}
	m.h = h
	m.saves++
	return nil
}

func newTracker() (*Tracker, *memStore) {
	ms := &memStore{}
	return NewTracker(ms, zerolog.Nop()), ms
}

func TestCalculateImprovement(t *testing.T) {
	tr, _ := newTracker()
	require.NoError(t, tr.RecordSeasonStats("20232024", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 40, Points: 85, LeagueRank: 18}))
	require.NoError(t, tr.RecordSeasonStats("20242025", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 50, Points: 105, LeagueRank: 5}))

	got := tr.CalculateImprovement("Alice", "20232024", "20242025")
	require.NotNil(t, got)
	assert.Equal(t, model.Improvement{WinsDiff: 10, PointsDiff: 20, RankImprovement: 13}, *got)
}

func TestCalculateImprovement_MissingSnapshot(t *testing.T) {
	tr, _ := newTracker()
	require.NoError(t, tr.RecordSeasonStats("20242025", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 50}))

	assert.Nil(t, tr.CalculateImprovement("Alice", "20232024", "20242025"))
	assert.Nil(t, tr.CalculateImprovement("Bob", "20232024", "20242025"))
}

func TestRecordSeasonStats_Overwrites(t *testing.T) {
	tr, ms := newTracker()
	require.NoError(t, tr.RecordSeasonStats("20242025", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 10, PlayoffWins: 4}))
	require.NoError(t, tr.RecordSeasonStats("20242025", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 12, PlayoffWins: 4}))

	snap, ok := tr.Snapshot("20242025", "Alice")
	require.True(t, ok)
	assert.Equal(t, 12, snap.Wins)
	assert.Equal(t, "TOR", snap.Team)
	assert.Equal(t, 4, tr.TotalPlayoffWins("Alice"), "overwrite must not accumulate")
	assert.Equal(t, 2, ms.saves)
}

func TestRecordSeasonStats_RequiresKeys(t *testing.T) {
	tr, _ := newTracker()
	assert.Error(t, tr.RecordSeasonStats("", "Alice", "TOR", model.SeasonStatSnapshot{}))
	assert.Error(t, tr.RecordSeasonStats("20242025", "", "TOR", model.SeasonStatSnapshot{}))
}

func TestTotalPlayoffWins(t *testing.T) {
	tr, _ := newTracker()
	assert.Equal(t, 0, tr.TotalPlayoffWins("Nobody"))

	require.NoError(t, tr.RecordMany("20222023", map[string]model.SeasonStatSnapshot{
		"Alice": {Team: "TOR", PlayoffWins: 5},
		"Bob":   {Team: "VGK", PlayoffWins: 16},
	}))
	require.NoError(t, tr.RecordMany("20232024", map[string]model.SeasonStatSnapshot{
		"Alice": {Team: "TOR", PlayoffWins: 3},
	}))
	assert.Equal(t, 8, tr.TotalPlayoffWins("Alice"))
	assert.Equal(t, 16, tr.TotalPlayoffWins("Bob"))
	assert.Equal(t, []string{"Alice", "Bob"}, tr.Participants())
	assert.Equal(t, []string{"20222023", "20232024"}, tr.Seasons())
}

func TestChampionships_Lookback(t *testing.T) {
	tr, _ := newTracker()
	for season, wins := range map[string]int{
		"20142015": 16,
		"20202021": 16,
		"20222023": 15,
		"20232024": 16,
		"garbage":  16,
	} {
		require.NoError(t, tr.RecordSeasonStats(season, "Alice", "TBL", model.SeasonStatSnapshot{PlayoffWins: wins}))
	}

	within5 := tr.Championships("Alice", "20242025", 5)
	require.Len(t, within5, 2)
	assert.Equal(t, "20202021", within5[0].Season)
	assert.Equal(t, "20232024", within5[1].Season)

	all := tr.Championships("Alice", "20242025", 0)
	assert.Len(t, all, 3, "unparseable seasons are skipped even without a lookback")

	assert.Nil(t, tr.Championships("Alice", "bad", 5))
}

func TestParticipantHistory_Ordered(t *testing.T) {
	tr, _ := newTracker()
	require.NoError(t, tr.RecordSeasonStats("20242025", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 2}))
	require.NoError(t, tr.RecordSeasonStats("20222023", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 1}))
	require.NoError(t, tr.RecordSeasonStats("20232024", "Bob", "MTL", model.SeasonStatSnapshot{Wins: 9}))

	got := tr.ParticipantHistory("Alice")
	require.Len(t, got, 2)
	assert.Equal(t, "20222023", got[0].Season)
	assert.Equal(t, "20242025", got[1].Season)
}

func TestTracker_CorruptFileIsEmptyHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o644))

	tr := NewTracker(store.NewJSONFile(path, model.NewHistory, zerolog.Nop()), zerolog.Nop())
	assert.Empty(t, tr.Seasons())
	assert.Equal(t, 0, tr.TotalPlayoffWins("Alice"))

	require.NoError(t, tr.RecordSeasonStats("20242025", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 3}))
	assert.Equal(t, []string{"20242025"}, tr.Seasons())
}

func TestStartYearAndPrevious(t *testing.T) {
	y, err := StartYear("20242025")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)

	_, err = StartYear("20242026")
	assert.Error(t, err)
	_, err = StartYear("2024-25")
	assert.Error(t, err)

	prev, err := PreviousSeason("20242025")
	require.NoError(t, err)
	assert.Equal(t, "20232024", prev)

	prev, err = PreviousSeason("2024")
	require.NoError(t, err)
	assert.Equal(t, "2023", prev)

	_, err = PreviousSeason("abc")
	assert.Error(t, err)
}

func TestSummaries(t *testing.T) {
	tr, _ := newTracker()
	require.NoError(t, tr.RecordMany("20222023", map[string]model.SeasonStatSnapshot{
		"Bob":   {Team: "VGK", Wins: 51, Points: 111, LeagueRank: 3, PlayoffWins: 16},
		"Alice": {Team: "TOR", Wins: 50, Points: 111, LeagueRank: 4, PlayoffWins: 5},
	}))
	require.NoError(t, tr.RecordMany("20232024", map[string]model.SeasonStatSnapshot{
		"Alice": {Team: "TOR", Wins: 46, Points: 102, LeagueRank: 0, PlayoffWins: 3},
	}))

	got := tr.Summaries()
	require.Len(t, got, 2)
	assert.Equal(t, Summary{
		Participant: "Alice", Seasons: 2, First: "20222023", Last: "20232024",
		Wins: 96, Points: 213, BestRank: 4, PlayoffWins: 8,
	}, got[0])
	assert.Equal(t, 1, got[1].Cups)
	assert.Equal(t, "Bob", got[1].Participant)
}

func TestTrend(t *testing.T) {
	tr, _ := newTracker()
	require.NoError(t, tr.RecordSeasonStats("20212022", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 54, Points: 115, LeagueRank: 4}))
	require.NoError(t, tr.RecordSeasonStats("20232024", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 46, Points: 102, LeagueRank: 9}))
	require.NoError(t, tr.RecordSeasonStats("20222023", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 50, Points: 111, LeagueRank: 5}))
	require.NoError(t, tr.RecordSeasonStats("20222023", "Bob", "VGK", model.SeasonStatSnapshot{Wins: 51}))

	got := tr.Trend("Alice")
	require.Len(t, got, 2)
	assert.Equal(t, TrendPoint{From: "20212022", To: "20222023",
		Improvement: model.Improvement{WinsDiff: -4, PointsDiff: -4, RankImprovement: -1}}, got[0])
	assert.Equal(t, "20232024", got[1].To)
	assert.Equal(t, -4, got[1].RankImprovement)

	assert.Empty(t, tr.Trend("Bob"))
	assert.Empty(t, tr.Trend("Nobody"))
}

func TestTracker_LoadsStoreOnce(t *testing.T) {
	ms := &memStore{h: model.History{
		"20222023": {"Alice": {Team: "TOR", Wins: 50, Points: 111, LeagueRank: 4, PlayoffWins: 16}},
		"20232024": {"Alice": {Team: "TOR", Wins: 46, Points: 102, LeagueRank: 9, PlayoffWins: 3}},
	}}
	tr := NewTracker(ms, zerolog.Nop())

	assert.Equal(t, 19, tr.TotalPlayoffWins("Alice"))
	assert.NotNil(t, tr.CalculateImprovement("Alice", "20222023", "20232024"))
	assert.Len(t, tr.Championships("Alice", "20232024", 10), 1)
	_, ok := tr.Snapshot("20232024", "Alice")
	assert.True(t, ok)
	assert.Len(t, tr.Summaries(), 1)
	assert.Equal(t, 1, ms.loads)

	// A save replaces the cached view without another read.
	require.NoError(t, tr.RecordSeasonStats("20242025", "Alice", "TOR", model.SeasonStatSnapshot{PlayoffWins: 4}))
	assert.Equal(t, 23, tr.TotalPlayoffWins("Alice"))
	assert.Equal(t, 1, ms.loads)
}

func TestTracker_FailedSaveKeepsCache(t *testing.T) {
	ms := &memStore{}
	tr := NewTracker(ms, zerolog.Nop())
	require.NoError(t, tr.RecordSeasonStats("20232024", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 46}))

	ms.fail = errors.New("disk full")
	require.Error(t, tr.RecordSeasonStats("20242025", "Alice", "TOR", model.SeasonStatSnapshot{Wins: 50}))
	assert.Equal(t, []string{"20232024"}, tr.Seasons())

	// Callers get a copy they can mutate freely.
	h := tr.History()
	h["19992000"] = map[string]model.SeasonStatSnapshot{}
	assert.Equal(t, []string{"20232024"}, tr.Seasons())
}
