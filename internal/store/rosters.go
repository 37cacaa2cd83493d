package store

import (
	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/pkg/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RosterStore manages the canonical roster table.
type RosterStore struct {
	db *database.DB
}

func NewRosterStore(db *database.DB) *RosterStore {
	return &RosterStore{db: db}
}

// ReplaceTeam swaps a team's roster for a fresh set in one transaction.
// Rows are keyed by player id, so a traded player moving teams simply
// lands on the new one.
func (s *RosterStore) ReplaceTeam(team string, players []models.RosterPlayer) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team = ?", team).Delete(&models.RosterPlayer{}).Error; err != nil {
			return err
		}
		if len(players) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}},
			UpdateAll: true,
		}).Create(&players).Error
	})
}

// GetByTeam fetches a team's roster.
func (s *RosterStore) GetByTeam(team string) ([]models.RosterPlayer, error) {
	return models.FindRosterByTeam(s.db, team)
}

// GetByID fetches one roster row.
func (s *RosterStore) GetByID(playerID int) (*models.RosterPlayer, error) {
	var player models.RosterPlayer
	if err := s.db.First(&player, "player_id = ?", playerID).Error; err != nil {
		return nil, err
	}
	return &player, nil
}

// CountByTeam returns roster sizes keyed by team.
func (s *RosterStore) CountByTeam() (map[string]int64, error) {
	type row struct {
		Team  string
		Count int64
	}
	var rows []row
	err := s.db.Model(&models.RosterPlayer{}).
		Select("team, count(*) as count").
		Group("team").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Team] = r.Count
	}
	return counts, nil
}
