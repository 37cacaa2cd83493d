package services

import (
	"context"
	"encoding/json"
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

type oddsFixture struct {
	svc      *OddsService
	odds     *mockOddsProvider
	stats    *mockStatsProvider
	games    *store.GameStore
	lineups  *store.LineupStore
	rosters  *store.RosterStore
	history  *store.OddsHistoryStore
	gameLogs *store.GameLogStore
}

func newOddsFixture(t *testing.T) *oddsFixture {
	db := newTestDB(t)
	logger := testLogger()

	f := &oddsFixture{
		odds:     &mockOddsProvider{},
		stats:    &mockStatsProvider{},
		games:    store.NewGameStore(db),
		lineups:  store.NewLineupStore(db, logger),
		rosters:  store.NewRosterStore(db),
		history:  store.NewOddsHistoryStore(db),
		gameLogs: store.NewGameLogStore(db, 25),
	}

	rosterSvc := NewRosterService(&mockRosterProvider{}, f.rosters, logger, 0, 0)
	overUnder := NewOverUnderService(f.stats, f.gameLogs, logger, 25, time.Second, 0, 2)
	resolver := reconcile.NewEventResolver(reconcile.DefaultEventThreshold, logger)

	f.svc = NewOddsService(f.odds, rosterSvc, f.games, f.lineups, f.history, overUnder, resolver, noopCache{}, logger, NewKeyedLock(), 0.75)
	return f
}

// pointsMarket builds a FanDuel payload quoting one player's points line
// with both sides priced.
func pointsMarket(player string, line float64, over, under int) *providers.EventOdds {
	return &providers.EventOdds{
		ID: "evt-1",
		Bookmakers: []providers.Bookmaker{{
			Key: providers.BookmakerFanDuel,
			Markets: []providers.Market{{
				Key: providers.MarketPlayerPoints,
				Outcomes: []providers.Outcome{
					{Name: "Over", Description: player, Price: over, Point: line},
					{Name: "Under", Description: player, Price: under, Point: line},
				},
			}},
		}},
	}
}

func (f *oddsFixture) seedBostonGame(t *testing.T, eventID string) *models.Game {
	t.Helper()
	game := &models.Game{
		GameDate:    time.Now().UTC().Add(3 * time.Hour),
		HomeTeam:    "BOS",
		AwayTeam:    "NYK",
		OddsEventID: eventID,
	}
	require.NoError(t, f.games.Upsert(game))
	return game
}

func (f *oddsFixture) seedStarter(t *testing.T, game *models.Game, pos string, playerID int, name string) {
	t.Helper()
	require.NoError(t, f.lineups.SaveSlot(&models.LineupSlot{
		GameID: game.ID, Team: "BOS", Position: pos,
		PlayerID: playerID, Name: name,
		Status: reconcile.StatusStarter, Confirmed: true,
	}))
}

func TestCollapseQuotesFoldsMarketsPerPlayer(t *testing.T) {
	odds := &providers.EventOdds{
		Bookmakers: []providers.Bookmaker{{
			Key: providers.BookmakerFanDuel,
			Markets: []providers.Market{
				{
					Key: providers.MarketPlayerPoints,
					Outcomes: []providers.Outcome{
						{Name: "Over", Description: "Jayson Tatum", Price: -110, Point: 27.5},
						{Name: "Under", Description: "Jayson Tatum", Price: -112, Point: 27.5},
						{Name: "Over", Description: "Jaylen Brown", Price: -105, Point: 22.5},
					},
				},
				{
					Key: providers.MarketPlayerAssists,
					Outcomes: []providers.Outcome{
						{Name: "Over", Description: "Jayson Tatum", Price: -115, Point: 5.5},
					},
				},
			},
		}},
	}

	quotes := CollapseQuotes(odds)
	require.Len(t, quotes, 2)

	tatum := quotes[0]
	assert.Equal(t, "Jayson Tatum", tatum.Name)
	require.NotNil(t, tatum.PointsLine)
	assert.Equal(t, 27.5, *tatum.PointsLine)
	require.NotNil(t, tatum.AssistsLine)
	assert.Equal(t, 5.5, *tatum.AssistsLine)
	require.NotNil(t, tatum.OverPrice)
	assert.Equal(t, -110, *tatum.OverPrice)
	require.NotNil(t, tatum.UnderPrice)
	assert.Equal(t, -112, *tatum.UnderPrice)
	assert.Nil(t, tatum.ReboundsLine)

	brown := quotes[1]
	assert.Equal(t, "Jaylen Brown", brown.Name)
	assert.Nil(t, brown.UnderPrice)
}

func TestCollapseQuotesDropsPlayersWithoutPointsLine(t *testing.T) {
	odds := &providers.EventOdds{
		Bookmakers: []providers.Bookmaker{{
			Key: providers.BookmakerFanDuel,
			Markets: []providers.Market{{
				Key: providers.MarketPlayerAssists,
				Outcomes: []providers.Outcome{
					{Name: "Over", Description: "Payton Pritchard", Price: -120, Point: 3.5},
				},
			}},
		}},
	}

	assert.Empty(t, CollapseQuotes(odds))
}

func TestMergeGameOddsAttachesLinesToStarterByName(t *testing.T) {
	f := newOddsFixture(t)
	game := f.seedBostonGame(t, "evt-1")

	seedRoster(t, f.rosters, "BOS",
		models.RosterPlayer{PlayerID: 3, Name: "Jayson Tatum", Position: "SF"},
	)
	f.seedStarter(t, game, "SF", 3, "Jayson Tatum")

	f.odds.On("GetEventOdds", mock.Anything, "evt-1").Return(pointsMarket("Jayson Tatum", 27.5, -110, -112), nil)
	f.stats.On("GetPlayerGameLog", mock.Anything, 3).Return(nil, errors.New("no live feed"))

	slots, err := f.svc.MergeGameOdds(context.Background(), game.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	require.NotNil(t, slots[0].PointsLine)
	assert.Equal(t, 27.5, *slots[0].PointsLine)
	assert.Equal(t, reconcile.StatusStarter, slots[0].Status)
}

func TestMergeGameOddsMatchesMisspelledStarterByCanonicalID(t *testing.T) {
	f := newOddsFixture(t)
	game := f.seedBostonGame(t, "evt-1")

	seedRoster(t, f.rosters, "BOS",
		models.RosterPlayer{PlayerID: 3, Name: "Jayson Tatum", Position: "SF"},
	)
	f.seedStarter(t, game, "SF", 3, "Jayson Tatum")

	// The book spells the name differently; the roster index still
	// resolves it to the starter's canonical id.
	f.odds.On("GetEventOdds", mock.Anything, "evt-1").Return(pointsMarket("Jason Tatum", 27.5, -110, -112), nil)
	f.stats.On("GetPlayerGameLog", mock.Anything, 3).Return(nil, errors.New("no live feed"))

	slots, err := f.svc.MergeGameOdds(context.Background(), game.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1, "the quote must land on the starter, not a new bench row")

	require.NotNil(t, slots[0].PointsLine)
	assert.Equal(t, "SF", slots[0].Position)
}

func TestMergeGameOddsCreatesBenchRowForNonStarter(t *testing.T) {
	f := newOddsFixture(t)
	game := f.seedBostonGame(t, "evt-1")

	seedRoster(t, f.rosters, "BOS",
		models.RosterPlayer{PlayerID: 6, Name: "Payton Pritchard", Position: "PG"},
	)

	f.odds.On("GetEventOdds", mock.Anything, "evt-1").Return(pointsMarket("Payton Pritchard", 12.5, -108, -114), nil)
	f.stats.On("GetPlayerGameLog", mock.Anything, 6).Return(nil, errors.New("no live feed"))

	slots, err := f.svc.MergeGameOdds(context.Background(), game.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	assert.Equal(t, reconcile.StatusBench, slots[0].Status)
	assert.Equal(t, reconcile.BenchPosition(6), slots[0].Position)
	require.NotNil(t, slots[0].PointsLine)
	assert.Equal(t, 12.5, *slots[0].PointsLine)
}

func TestMergeGameOddsDropsUnplaceableQuote(t *testing.T) {
	f := newOddsFixture(t)
	game := f.seedBostonGame(t, "evt-1")

	seedRoster(t, f.rosters, "BOS",
		models.RosterPlayer{PlayerID: 3, Name: "Jayson Tatum", Position: "SF"},
	)

	f.odds.On("GetEventOdds", mock.Anything, "evt-1").Return(pointsMarket("Victor Wembanyama", 24.5, -110, -110), nil)

	slots, err := f.svc.MergeGameOdds(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Empty(t, slots, "a quote matching neither roster must not create rows")
}

func TestMergeGameOddsAttachesOverUnderHistory(t *testing.T) {
	f := newOddsFixture(t)
	game := f.seedBostonGame(t, "evt-1")

	seedRoster(t, f.rosters, "BOS",
		models.RosterPlayer{PlayerID: 3, Name: "Jayson Tatum", Position: "SF"},
	)
	f.seedStarter(t, game, "SF", 3, "Jayson Tatum")
	seedGameLogs(t, f.gameLogs, 3, 30, 18, 25)

	f.odds.On("GetEventOdds", mock.Anything, "evt-1").Return(pointsMarket("Jayson Tatum", 22.5, -110, -112), nil)

	slots, err := f.svc.MergeGameOdds(context.Background(), game.ID)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.NotEmpty(t, slots[0].OverUnderHistory)

	var result reconcile.OverUnderResult
	require.NoError(t, json.Unmarshal(slots[0].OverUnderHistory, &result))
	assert.Equal(t, 3, result.TotalGames)
	assert.Equal(t, 2, result.OverCount)
}

func TestMergeGameOddsRecordsLineHistory(t *testing.T) {
	f := newOddsFixture(t)
	game := f.seedBostonGame(t, "evt-1")

	seedRoster(t, f.rosters, "BOS",
		models.RosterPlayer{PlayerID: 3, Name: "Jayson Tatum", Position: "SF"},
	)
	f.seedStarter(t, game, "SF", 3, "Jayson Tatum")
	seedGameLogs(t, f.gameLogs, 3, 30)

	f.odds.On("GetEventOdds", mock.Anything, "evt-1").Return(pointsMarket("Jayson Tatum", 27.5, -110, -112), nil)

	_, err := f.svc.MergeGameOdds(context.Background(), game.ID)
	require.NoError(t, err)

	snapshots, err := f.history.GetForGame(game.ID, "")
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "Jayson Tatum", snapshots[0].PlayerName)
	assert.Equal(t, providers.MarketPlayerPoints, snapshots[0].Market)
	assert.Equal(t, 27.5, snapshots[0].Line)
	require.NotNil(t, snapshots[0].OverPrice)
	assert.Equal(t, -110, *snapshots[0].OverPrice)
	require.NotNil(t, snapshots[0].UnderPrice)
	assert.Equal(t, -112, *snapshots[0].UnderPrice)
}

func TestMergeGameOddsWithoutPublishedEventLeavesSlotsAlone(t *testing.T) {
	f := newOddsFixture(t)
	game := f.seedBostonGame(t, "")

	f.odds.On("GetEvents", mock.Anything).Return([]providers.Event{}, nil)

	slots, err := f.svc.MergeGameOdds(context.Background(), game.ID)
	require.NoError(t, err)
	assert.Empty(t, slots)
	f.odds.AssertNotCalled(t, "GetEventOdds", mock.Anything, mock.Anything)
}

func TestResolveEventPersistsMatch(t *testing.T) {
	f := newOddsFixture(t)

	game := &models.Game{
		GameDate: time.Date(2025, 1, 9, 19, 0, 0, 0, time.UTC),
		HomeTeam: "Boston Celtics",
		AwayTeam: "New York Knicks",
	}
	require.NoError(t, f.games.Upsert(game))

	f.odds.On("GetEvents", mock.Anything).Return([]providers.Event{
		{ID: "evt-9", HomeTeam: "Boston Celtics", AwayTeam: "New York Knicks", CommenceTime: game.GameDate},
	}, nil)

	eventID, err := f.svc.ResolveEvent(context.Background(), game)
	require.NoError(t, err)
	assert.Equal(t, "evt-9", eventID)

	stored, err := f.games.GetByID(game.ID)
	require.NoError(t, err)
	assert.Equal(t, "evt-9", stored.OddsEventID)
}

func TestSyncScheduleUpsertsEveryEvent(t *testing.T) {
	f := newOddsFixture(t)

	tipoff := time.Date(2025, 1, 9, 0, 30, 0, 0, time.UTC)
	f.odds.On("GetEvents", mock.Anything).Return([]providers.Event{
		{ID: "evt-1", HomeTeam: "BOS", AwayTeam: "NYK", CommenceTime: tipoff},
		{ID: "evt-2", HomeTeam: "PHI", AwayTeam: "MIA", CommenceTime: tipoff},
	}, nil)

	result, err := f.svc.SyncSchedule(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 0, result.Failed)

	game, err := f.games.FindByOddsEventID("evt-2")
	require.NoError(t, err)
	assert.Equal(t, "PHI", game.HomeTeam)
}

func TestUpdateScoresByEventID(t *testing.T) {
	f := newOddsFixture(t)
	game := f.seedBostonGame(t, "evt-1")

	f.odds.On("GetScores", mock.Anything, 2).Return([]providers.ScoreRecord{{
		ID:           "evt-1",
		HomeTeam:     "BOS",
		AwayTeam:     "NYK",
		CommenceTime: game.GameDate,
		Completed:    true,
		Scores: []providers.TeamScore{
			{Name: "BOS", Score: "112"},
			{Name: "NYK", Score: "104"},
		},
	}}, nil)

	result, err := f.svc.UpdateScores(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	stored, err := f.games.GetByID(game.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.HomeScore)
	assert.Equal(t, 112, *stored.HomeScore)
	require.NotNil(t, stored.AwayScore)
	assert.Equal(t, 104, *stored.AwayScore)
	assert.True(t, stored.Completed)
}

func TestUpdateScoresFallsBackToTeamMatch(t *testing.T) {
	f := newOddsFixture(t)

	game := &models.Game{
		GameDate: time.Date(2025, 1, 9, 19, 0, 0, 0, time.UTC),
		HomeTeam: "Boston Celtics",
		AwayTeam: "New York Knicks",
	}
	require.NoError(t, f.games.Upsert(game))

	f.odds.On("GetScores", mock.Anything, 1).Return([]providers.ScoreRecord{{
		ID:           "evt-unknown",
		HomeTeam:     "Boston Celtics",
		AwayTeam:     "New York Knicks",
		CommenceTime: game.GameDate,
		Completed:    true,
		Scores: []providers.TeamScore{
			{Name: "Boston Celtics", Score: "99"},
			{Name: "New York Knicks", Score: "98"},
		},
	}}, nil)

	result, err := f.svc.UpdateScores(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	stored, err := f.games.GetByID(game.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.HomeScore)
	assert.Equal(t, 99, *stored.HomeScore)
}

func TestFuzzyResolveMatchesQuotedNames(t *testing.T) {
	idx := reconcile.NewIdentityIndex([]reconcile.CanonicalPlayer{
		{ID: 1, Name: "Jayson Tatum", Team: "BOS", Position: "SF"},
		{ID: 2, Name: "Jaylen Brown", Team: "BOS", Position: "SG"},
		{ID: 3, Name: "De'Aaron Fox", Team: "SAC", Position: "PG"},
	})

	tests := []struct {
		name       string
		query      string
		threshold  float64
		expectedID int
		found      bool
	}{
		{"exact short-circuits", "Jayson Tatum", 0.75, 1, true},
		{"typo", "Jason Tatum", 0.75, 1, true},
		{"containment nickname", "Tatum", 0.75, 1, true},
		{"apostrophe variant", "DeAaron Fox", 0.75, 3, true},
		{"unrelated below threshold", "Victor Wembanyama", 0.75, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := fuzzyResolve(idx, tt.query, tt.threshold)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expectedID, p.ID)
			}
		})
	}
}
