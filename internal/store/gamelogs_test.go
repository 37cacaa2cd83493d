package store

import (
	"testing"
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gameLogEntries(playerID, n int) []models.GameLogEntry {
	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	entries := make([]models.GameLogEntry, n)
	for i := 0; i < n; i++ {
		points := float64(20 + i)
		entries[i] = models.GameLogEntry{
			PlayerID: playerID,
			GameDate: base.AddDate(0, 0, -i),
			Matchup:  "BOS vs NYK",
			Points:   &points,
		}
	}
	return entries
}

func TestGameLogStoreReplaceAndGet(t *testing.T) {
	db := setupTestDB(t)
	store := NewGameLogStore(db, 25)

	require.NoError(t, store.ReplaceForPlayer(1, gameLogEntries(1, 10)))

	got, err := store.GetForPlayer(1, 0)
	require.NoError(t, err)
	require.Len(t, got, 10)

	// Most recent first.
	assert.True(t, got[0].GameDate.After(got[1].GameDate))
}

func TestGameLogStorePrunesBeyondLimit(t *testing.T) {
	db := setupTestDB(t)
	store := NewGameLogStore(db, 25)

	require.NoError(t, store.ReplaceForPlayer(1, gameLogEntries(1, 40)))

	count, err := store.Count(1)
	require.NoError(t, err)
	assert.Equal(t, int64(25), count)

	// The survivors are the 25 most recent games.
	got, err := store.GetForPlayer(1, 25)
	require.NoError(t, err)
	oldest := got[len(got)-1].GameDate
	cutoff := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -24)
	assert.True(t, oldest.Equal(cutoff), "oldest surviving game should be the 25th most recent")
}

func TestGameLogStoreUpsertSameDate(t *testing.T) {
	db := setupTestDB(t)
	store := NewGameLogStore(db, 25)

	first := gameLogEntries(1, 1)
	require.NoError(t, store.ReplaceForPlayer(1, first))

	updated := gameLogEntries(1, 1)
	newPoints := 35.0
	updated[0].Points = &newPoints
	require.NoError(t, store.ReplaceForPlayer(1, updated))

	got, err := store.GetForPlayer(1, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Points)
	assert.Equal(t, 35.0, *got[0].Points)
}

func TestGameLogStorePlayersIsolated(t *testing.T) {
	db := setupTestDB(t)
	store := NewGameLogStore(db, 25)

	require.NoError(t, store.ReplaceForPlayer(1, gameLogEntries(1, 30)))
	require.NoError(t, store.ReplaceForPlayer(2, gameLogEntries(2, 5)))

	count1, err := store.Count(1)
	require.NoError(t, err)
	count2, err := store.Count(2)
	require.NoError(t, err)
	assert.Equal(t, int64(25), count1)
	assert.Equal(t, int64(5), count2)
}

func TestGameLogStoreLastUpdated(t *testing.T) {
	db := setupTestDB(t)
	store := NewGameLogStore(db, 25)

	ts, err := store.LastUpdated(1)
	require.NoError(t, err)
	assert.True(t, ts.IsZero())

	require.NoError(t, store.ReplaceForPlayer(1, gameLogEntries(1, 3)))

	ts, err = store.LastUpdated(1)
	require.NoError(t, err)
	assert.False(t, ts.IsZero())
}
