package store

import (
	"io"
	"testing"
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/pkg/database"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *database.DB {
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

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func createTestGame(t *testing.T, db *database.DB) *models.Game {
	t.Helper()
	game := &models.Game{
		GameDate: time.Date(2025, 1, 9, 19, 30, 0, 0, time.UTC),
		HomeTeam: "BOS",
		AwayTeam: "NYK",
	}
	require.NoError(t, db.Create(game).Error)
	return game
}
