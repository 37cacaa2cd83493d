package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/internal/providers"
	"github.com/nbaedge/props-api/internal/reconcile"
	"github.com/nbaedge/props-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOverUnderFixture(t *testing.T) (*OverUnderService, *mockStatsProvider, *store.GameLogStore) {
	db := newTestDB(t)
	logs := store.NewGameLogStore(db, 25)
	provider := &mockStatsProvider{}
	svc := NewOverUnderService(provider, logs, testLogger(), 25, 5*time.Second, 6*time.Hour, 2)
	return svc, provider, logs
}

func seedGameLogs(t *testing.T, logs *store.GameLogStore, playerID int, points ...float64) {
	t.Helper()
	entries := make([]models.GameLogEntry, len(points))
	for i, p := range points {
		v := p
		entries[i] = models.GameLogEntry{
			PlayerID: playerID,
			GameDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Matchup:  "BOS vs NYK",
			Points:   &v,
		}
	}
	require.NoError(t, logs.ReplaceForPlayer(playerID, entries))
}

func TestEvaluateUsesLocalLogsFirst(t *testing.T) {
	svc, provider, logs := newOverUnderFixture(t)
	seedGameLogs(t, logs, 42, 30, 18, 25)

	result, err := svc.Evaluate(context.Background(), 42, 22.5, nil, nil, false)
	require.NoError(t, err)

	assert.Equal(t, 2, result.OverCount)
	assert.Equal(t, 1, result.UnderCount)
	assert.Equal(t, 3, result.TotalGames)
	assert.Equal(t, reconcile.SourceLocal, result.Source)
	provider.AssertNotCalled(t, "GetPlayerGameLog")
}

func TestEvaluateLocalOnlyReturnsEmptyWhenUnseen(t *testing.T) {
	svc, provider, _ := newOverUnderFixture(t)

	result, err := svc.Evaluate(context.Background(), 42, 22.5, nil, nil, true)
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalGames)
	assert.Equal(t, reconcile.SourceLocal, result.Source)
	provider.AssertNotCalled(t, "GetPlayerGameLog")
}

func TestEvaluateFallsBackToLiveFetchAndPersists(t *testing.T) {
	svc, provider, logs := newOverUnderFixture(t)

	provider.On("GetPlayerGameLog", mock.Anything, 42).Return([]providers.PlayerGameLog{
		{GameDate: "2025-01-05", Matchup: "BOS @ NYK", Points: 31, Assists: 4, Rebounds: 7, Minutes: 36},
		{GameDate: "2025-01-03", Matchup: "BOS vs PHI", Points: 19, Assists: 6, Rebounds: 5, Minutes: 34},
	}, nil)

	result, err := svc.Evaluate(context.Background(), 42, 25, nil, nil, false)
	require.NoError(t, err)

	assert.Equal(t, reconcile.SourceLive, result.Source)
	assert.Equal(t, 1, result.OverCount)
	assert.Equal(t, 1, result.UnderCount)

	count, err := logs.Count(42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestEvaluateLiveFetchFailureReturnsEmpty(t *testing.T) {
	svc, provider, _ := newOverUnderFixture(t)

	provider.On("GetPlayerGameLog", mock.Anything, 42).Return(nil, errors.New("upstream down"))

	result, err := svc.Evaluate(context.Background(), 42, 25, nil, nil, false)
	require.Error(t, err)
	assert.Equal(t, 0, result.TotalGames)
	assert.Equal(t, reconcile.SourceLive, result.Source)
}

func TestRefreshPlayerSkipsUnparseableDates(t *testing.T) {
	svc, provider, logs := newOverUnderFixture(t)

	provider.On("GetPlayerGameLog", mock.Anything, 42).Return([]providers.PlayerGameLog{
		{GameDate: "2025-01-05", Matchup: "BOS @ NYK", Points: 31},
		{GameDate: "not a date", Matchup: "BOS vs PHI", Points: 19},
	}, nil)

	require.NoError(t, svc.RefreshPlayer(context.Background(), 42))

	count, err := logs.Count(42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPreloadForPlayersIsolatesFailures(t *testing.T) {
	svc, provider, logs := newOverUnderFixture(t)

	provider.On("GetPlayerGameLog", mock.Anything, 1).Return([]providers.PlayerGameLog{
		{GameDate: "2025-01-05", Matchup: "BOS vs NYK", Points: 20},
	}, nil)
	provider.On("GetPlayerGameLog", mock.Anything, 2).Return(nil, errors.New("timeout"))
	provider.On("GetPlayerGameLog", mock.Anything, 3).Return([]providers.PlayerGameLog{
		{GameDate: "2025-01-05", Matchup: "BOS vs NYK", Points: 15},
	}, nil)

	result := svc.PreloadForPlayers(context.Background(), []int{1, 2, 3})

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)

	count, err := logs.Count(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPreloadForPlayersSkipsFreshEntries(t *testing.T) {
	svc, provider, logs := newOverUnderFixture(t)
	seedGameLogs(t, logs, 7, 22)

	result := svc.PreloadForPlayers(context.Background(), []int{7})

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Failed)
	provider.AssertNotCalled(t, "GetPlayerGameLog")
}
