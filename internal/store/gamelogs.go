package store

import (
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameLogStore manages per-player historical stat lines. Each player
// keeps at most keepLimit rows; older games are pruned on write.
type GameLogStore struct {
	db        *database.DB
	keepLimit int
}

func NewGameLogStore(db *database.DB, keepLimit int) *GameLogStore {
	if keepLimit <= 0 {
		keepLimit = 25
	}
	return &GameLogStore{db: db, keepLimit: keepLimit}
}

// ReplaceForPlayer upserts a player's game log and prunes rows beyond
// the retention limit, oldest first.
func (s *GameLogStore) ReplaceForPlayer(playerID int, entries []models.GameLogEntry) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if len(entries) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "player_id"}, {Name: "game_date"}, {Name: "matchup"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"points", "assists", "rebounds", "minutes", "raw_stats", "updated_at",
				}),
			}).Create(&entries).Error; err != nil {
				return err
			}
		}
		return s.pruneTx(tx, playerID)
	})
}

func (s *GameLogStore) pruneTx(tx *gorm.DB, playerID int) error {
	var keepIDs []uint
	err := tx.Model(&models.GameLogEntry{}).
		Where("player_id = ?", playerID).
		Order("game_date DESC").
		Limit(s.keepLimit).
		Pluck("id", &keepIDs).Error
	if err != nil {
		return err
	}
	if len(keepIDs) == 0 {
		return nil
	}
	return tx.Where("player_id = ? AND id NOT IN ?", playerID, keepIDs).
		Delete(&models.GameLogEntry{}).Error
}

// GetForPlayer fetches a player's stored log, most recent first.
func (s *GameLogStore) GetForPlayer(playerID int, limit int) ([]models.GameLogEntry, error) {
	if limit <= 0 || limit > s.keepLimit {
		limit = s.keepLimit
	}
	var entries []models.GameLogEntry
	err := s.db.Where("player_id = ?", playerID).
		Order("game_date DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// LastUpdated returns the newest updated_at for a player's rows, zero
// when the player has none.
func (s *GameLogStore) LastUpdated(playerID int) (time.Time, error) {
	var entry models.GameLogEntry
	err := s.db.Where("player_id = ?", playerID).
		Order("updated_at DESC").
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return entry.UpdatedAt, nil
}

// Count returns the number of stored rows for a player.
func (s *GameLogStore) Count(playerID int) (int64, error) {
	var count int64
	err := s.db.Model(&models.GameLogEntry{}).
		Where("player_id = ?", playerID).
		Count(&count).Error
	return count, err
}
