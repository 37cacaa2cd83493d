package store

import (
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/pkg/database"
)

// OddsHistoryStore appends prop line snapshots for later line-movement
// inspection. Rows are append-only.
type OddsHistoryStore struct {
	db *database.DB
}

func NewOddsHistoryStore(db *database.DB) *OddsHistoryStore {
	return &OddsHistoryStore{db: db}
}

// Record appends a batch of snapshots.
func (s *OddsHistoryStore) Record(snapshots []models.OddsHistory) error {
	if len(snapshots) == 0 {
		return nil
	}
	return s.db.Create(&snapshots).Error
}

// GetForGame fetches snapshots for a game, newest capture first.
func (s *OddsHistoryStore) GetForGame(gameID uint, market string) ([]models.OddsHistory, error) {
	query := s.db.Where("game_id = ?", gameID)
	if market != "" {
		query = query.Where("market = ?", market)
	}
	var rows []models.OddsHistory
	err := query.Order("captured_at DESC").Find(&rows).Error
	return rows, err
}

// GetForPlayer fetches a player's snapshots within a time window.
func (s *OddsHistoryStore) GetForPlayer(playerID int, market string, since time.Time) ([]models.OddsHistory, error) {
	query := s.db.Where("player_id = ?", playerID)
	if market != "" {
		query = query.Where("market = ?", market)
	}
	if !since.IsZero() {
		query = query.Where("captured_at >= ?", since)
	}
	var rows []models.OddsHistory
	err := query.Order("captured_at DESC").Find(&rows).Error
	return rows, err
}
