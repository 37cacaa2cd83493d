package services

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/internal/providers"
	"github.com/nbaedge/props-api/internal/store"
	"github.com/nbaedge/props-api/pkg/database"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Game{},
		&models.LineupSlot{},
		&models.RosterPlayer{},
		&models.GameLogEntry{},
		&models.OddsHistory{},
		&models.DepthChartRow{},
	))

	return database.Wrap(db)
}

// noopCache misses on every read and swallows writes.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) error {
	return fmt.Errorf("key not found")
}

func (noopCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (noopCache) Delete(ctx context.Context, keys ...string) error {
	return nil
}

// Mock upstream providers

type mockRosterProvider struct {
	mock.Mock
}

func (m *mockRosterProvider) GetTeamPlayers(ctx context.Context, teamAbbr string) ([]providers.TeamRosterEntry, error) {
	args := m.Called(ctx, teamAbbr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]providers.TeamRosterEntry), args.Error(1)
}

type mockLineupProvider struct {
	mock.Mock
}

func (m *mockLineupProvider) GetLineupsByDate(ctx context.Context, date string) (*providers.LineupSheet, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.LineupSheet), args.Error(1)
}

type mockOddsProvider struct {
	mock.Mock
}

func (m *mockOddsProvider) GetEvents(ctx context.Context) ([]providers.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]providers.Event), args.Error(1)
}

func (m *mockOddsProvider) GetEventOdds(ctx context.Context, eventID string) (*providers.EventOdds, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.EventOdds), args.Error(1)
}

func (m *mockOddsProvider) GetScores(ctx context.Context, daysFrom int) ([]providers.ScoreRecord, error) {
	args := m.Called(ctx, daysFrom)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]providers.ScoreRecord), args.Error(1)
}

type mockDepthChartProvider struct {
	mock.Mock
}

func (m *mockDepthChartProvider) GetDepthCharts(ctx context.Context) (*providers.DepthChartBook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.DepthChartBook), args.Error(1)
}

type mockStatsProvider struct {
	mock.Mock
}

func (m *mockStatsProvider) GetPlayerGameLog(ctx context.Context, playerID int) ([]providers.PlayerGameLog, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]providers.PlayerGameLog), args.Error(1)
}

// Shared fixtures

func seedRoster(t *testing.T, rosters *store.RosterStore, team string, players ...models.RosterPlayer) {
	t.Helper()
	for i := range players {
		players[i].Team = team
	}
	require.NoError(t, rosters.ReplaceTeam(team, players))
}
