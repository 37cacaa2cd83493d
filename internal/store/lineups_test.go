package store

import (
	"testing"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/internal/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineupStoreSaveAndGet(t *testing.T) {
	db := setupTestDB(t)
	store := NewLineupStore(db, quietLogger())
	game := createTestGame(t, db)

	slots := []*models.LineupSlot{
		{GameID: game.ID, Team: "BOS", Position: "PG", PlayerID: 1, Name: "Derrick White", Status: reconcile.StatusStarter, Confirmed: true},
		{GameID: game.ID, Team: "BOS", Position: "SG", PlayerID: 2, Name: "Jaylen Brown", Status: reconcile.StatusStarter, Confirmed: true},
		{GameID: game.ID, Team: "BOS", Position: reconcile.BenchPosition(3), PlayerID: 3, Name: "Payton Pritchard", Status: reconcile.StatusBench},
	}
	saved, err := store.SaveSlots(slots)
	require.NoError(t, err)
	assert.Equal(t, 3, saved)

	got, err := store.GetByGameAndTeam(game.ID, "BOS")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestLineupStoreStarterNeverDemoted(t *testing.T) {
	db := setupTestDB(t)
	store := NewLineupStore(db, quietLogger())
	game := createTestGame(t, db)

	starter := &models.LineupSlot{
		GameID: game.ID, Team: "BOS", Position: "PG",
		PlayerID: 1, Name: "Derrick White",
		Status: reconcile.StatusStarter, Confirmed: true,
	}
	require.NoError(t, store.SaveSlot(starter))

	// A later bench write for the same position must not win.
	bench := &models.LineupSlot{
		GameID: game.ID, Team: "BOS", Position: "PG",
		PlayerID: 9, Name: "Someone Else",
		Status: reconcile.StatusBench,
	}
	require.NoError(t, store.SaveSlot(bench))

	got, err := store.GetByGameAndTeam(game.ID, "BOS")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, reconcile.StatusStarter, got[0].Status)
	assert.Equal(t, "Derrick White", got[0].Name)
}

func TestLineupStoreBenchPromotedInPlace(t *testing.T) {
	db := setupTestDB(t)
	store := NewLineupStore(db, quietLogger())
	game := createTestGame(t, db)

	// Player first seen via odds as a bench row.
	bench := &models.LineupSlot{
		GameID: game.ID, Team: "BOS", Position: reconcile.BenchPosition(7),
		PlayerID: 7, Name: "Al Horford",
		Status: reconcile.StatusBench,
	}
	require.NoError(t, store.SaveSlot(bench))

	// The lineup feed then names the same player a starter at C.
	starter := &models.LineupSlot{
		GameID: game.ID, Team: "BOS", Position: "C",
		PlayerID: 7, Name: "Al Horford",
		Status: reconcile.StatusStarter, Confirmed: true,
	}
	require.NoError(t, store.SaveSlot(starter))

	got, err := store.GetByGameAndTeam(game.ID, "BOS")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0].Position)
	assert.Equal(t, reconcile.StatusStarter, got[0].Status)
	assert.True(t, got[0].Confirmed)
}

func TestLineupStorePositionKeyUnique(t *testing.T) {
	db := setupTestDB(t)
	store := NewLineupStore(db, quietLogger())
	game := createTestGame(t, db)

	first := &models.LineupSlot{
		GameID: game.ID, Team: "BOS", Position: "PG",
		PlayerID: 1, Name: "Derrick White",
		Status: reconcile.StatusStarter,
	}
	require.NoError(t, store.SaveSlot(first))

	// A starter swap replaces the occupant of the slot.
	second := &models.LineupSlot{
		GameID: game.ID, Team: "BOS", Position: "PG",
		PlayerID: 4, Name: "Jrue Holiday",
		Status: reconcile.StatusStarter,
	}
	require.NoError(t, store.SaveSlot(second))

	got, err := store.GetByGameAndTeam(game.ID, "BOS")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].PlayerID)
	assert.Equal(t, "Jrue Holiday", got[0].Name)
}

func TestLineupStoreReplaceTeamSlots(t *testing.T) {
	db := setupTestDB(t)
	store := NewLineupStore(db, quietLogger())
	game := createTestGame(t, db)

	slots := []*models.LineupSlot{
		{GameID: game.ID, Team: "BOS", Position: "PG", PlayerID: 1, Name: "Derrick White", Status: reconcile.StatusStarter},
		{GameID: game.ID, Team: "BOS", Position: "SG", PlayerID: 2, Name: "Jaylen Brown", Status: reconcile.StatusStarter},
		{GameID: game.ID, Team: "NYK", Position: "PG", PlayerID: 3, Name: "Jalen Brunson", Status: reconcile.StatusStarter},
	}
	_, err := store.SaveSlots(slots)
	require.NoError(t, err)

	// The replacement may reuse a position held by a dropped row; the
	// rewrite must not trip the (game, team, position) unique key.
	require.NoError(t, store.ReplaceTeamSlots(game.ID, "BOS", []*models.LineupSlot{
		{GameID: game.ID, Team: "BOS", Position: "PG", PlayerID: 4, Name: "Payton Pritchard", Status: reconcile.StatusStarter},
	}))

	bos, err := store.GetByGameAndTeam(game.ID, "BOS")
	require.NoError(t, err)
	require.Len(t, bos, 1)
	assert.Equal(t, 4, bos[0].PlayerID)

	nyk, err := store.GetByGameAndTeam(game.ID, "NYK")
	require.NoError(t, err)
	assert.Len(t, nyk, 1)
}

func TestLineupStoreReplaceTeamSlotsEmptySetClears(t *testing.T) {
	db := setupTestDB(t)
	store := NewLineupStore(db, quietLogger())
	game := createTestGame(t, db)

	require.NoError(t, store.SaveSlot(&models.LineupSlot{
		GameID: game.ID, Team: "BOS", Position: "PG",
		PlayerID: 1, Name: "Derrick White", Status: reconcile.StatusStarter,
	}))

	require.NoError(t, store.ReplaceTeamSlots(game.ID, "BOS", nil))

	bos, err := store.GetByGameAndTeam(game.ID, "BOS")
	require.NoError(t, err)
	assert.Empty(t, bos)
}
