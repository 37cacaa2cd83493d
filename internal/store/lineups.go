package store

import (
	"errors"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/internal/reconcile"
	"github.com/nbaedge/props-api/pkg/database"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LineupStore manages lineup slot rows. All writes funnel through the
// slot transition rules so the upgrade-only status invariant holds no
// matter which feed writes first.
type LineupStore struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewLineupStore(db *database.DB, logger *logrus.Logger) *LineupStore {
	return &LineupStore{db: db, logger: logger}
}

// SaveSlot writes one lineup slot, applying the status transition
// against whatever row currently holds the (game, team, position) key.
func (s *LineupStore) SaveSlot(slot *models.LineupSlot) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.saveSlotTx(tx, slot)
	})
}

// SaveSlots writes a batch of slots in one transaction.
func (s *LineupStore) SaveSlots(slots []*models.LineupSlot) (int, error) {
	saved := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, slot := range slots {
			if err := s.saveSlotTx(tx, slot); err != nil {
				return err
			}
			saved++
		}
		return nil
	})
	return saved, err
}

func (s *LineupStore) saveSlotTx(tx *gorm.DB, slot *models.LineupSlot) error {
	// A confirmed starter may have been written earlier as a bench row
	// under its synthetic position. Promote that row in place first so
	// the player doesn't end up duplicated under two positions.
	if slot.Status == reconcile.StatusStarter {
		res := tx.Model(&models.LineupSlot{}).
			Where("game_id = ? AND team = ? AND player_id = ? AND (status = ? OR position LIKE ?)",
				slot.GameID, slot.Team, slot.PlayerID, reconcile.StatusBench, "BENCH-%").
			Updates(map[string]interface{}{
				"position":  slot.Position,
				"status":    reconcile.StatusStarter,
				"name":      slot.Name,
				"confirmed": slot.Confirmed,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			s.logger.Debugf("Promoted %s to starter (%s) for game %d", slot.Name, slot.Position, slot.GameID)
			return nil
		}
	}

	var existing models.LineupSlot
	err := tx.Where("game_id = ? AND team = ? AND position = ?",
		slot.GameID, slot.Team, slot.Position).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(slot).Error
	}

	old := reconcile.SlotState{Position: existing.Position, Status: existing.Status, Confirmed: existing.Confirmed}
	incoming := reconcile.SlotState{Position: slot.Position, Status: slot.Status, Confirmed: slot.Confirmed}
	merged, conflict := reconcile.ApplyLineupSlot(&old, incoming)
	if conflict {
		s.logger.Warnf("Ignoring bench write over starter %s (game %d, team %s)",
			existing.Name, slot.GameID, slot.Team)
		return nil
	}

	return tx.Model(&models.LineupSlot{}).Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"player_id": slot.PlayerID,
			"name":      slot.Name,
			"status":    merged.Status,
			"confirmed": merged.Confirmed,
		}).Error
}

// AttachLines writes a slot's betting lines and optional over/under
// history without touching position or status.
func (s *LineupStore) AttachLines(slotID uint, points, assists, rebounds *float64, overUnder []byte) error {
	updates := map[string]interface{}{}
	if points != nil {
		updates["points_line"] = *points
	}
	if assists != nil {
		updates["assists_line"] = *assists
	}
	if rebounds != nil {
		updates["rebounds_line"] = *rebounds
	}
	if len(overUnder) > 0 {
		updates["over_under_history"] = overUnder
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.Model(&models.LineupSlot{}).Where("id = ?", slotID).Updates(updates).Error
}

// GetByGame fetches all slots for a game, starters first.
func (s *LineupStore) GetByGame(gameID uint) ([]models.LineupSlot, error) {
	var slots []models.LineupSlot
	err := s.db.Where("game_id = ?", gameID).
		Order("status DESC, position ASC").
		Find(&slots).Error
	return slots, err
}

// GetByGameAndTeam fetches one team's slots for a game.
func (s *LineupStore) GetByGameAndTeam(gameID uint, team string) ([]models.LineupSlot, error) {
	var slots []models.LineupSlot
	err := s.db.Where("game_id = ? AND team = ?", gameID, team).
		Order("status DESC, position ASC").
		Find(&slots).Error
	return slots, err
}

// FindPlayerSlot fetches a player's slot for a game regardless of
// position.
func (s *LineupStore) FindPlayerSlot(gameID uint, team string, playerID int) (*models.LineupSlot, error) {
	var slot models.LineupSlot
	err := s.db.Where("game_id = ? AND team = ? AND player_id = ?", gameID, team, playerID).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// ReplaceTeamSlots rewrites one team's slot set for a game in a single
// transaction. Callers pass the full authoritative set; rows absent
// from it are dropped.
func (s *LineupStore) ReplaceTeamSlots(gameID uint, team string, slots []*models.LineupSlot) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ? AND team = ?", gameID, team).
			Delete(&models.LineupSlot{}).Error; err != nil {
			return err
		}
		for _, slot := range slots {
			slot.ID = 0
			if err := tx.Create(slot).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
