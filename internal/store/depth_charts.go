package store

import (
	"database/sql"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/pkg/database"
	"gorm.io/gorm"
)

// DepthChartStore manages the per-season team depth chart table.
type DepthChartStore struct {
	db *database.DB
}

func NewDepthChartStore(db *database.DB) *DepthChartStore {
	return &DepthChartStore{db: db}
}

// ReplaceTeam rewrites one team's depth chart for a season wholesale.
func (s *DepthChartStore) ReplaceTeam(team string, season int, rows []models.DepthChartRow) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team = ? AND season = ?", team, season).
			Delete(&models.DepthChartRow{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].Team = team
			rows[i].Season = season
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByTeam fetches a team's depth chart ordered by position and depth.
// Season 0 means the latest season on record for the team.
func (s *DepthChartStore) GetByTeam(team string, season int) ([]models.DepthChartRow, error) {
	if season == 0 {
		latest, err := s.latestSeason(team)
		if err != nil {
			return nil, err
		}
		season = latest
	}

	var rows []models.DepthChartRow
	err := s.db.Where("team = ? AND season = ?", team, season).
		Order("position ASC, depth ASC").
		Find(&rows).Error
	return rows, err
}

func (s *DepthChartStore) latestSeason(team string) (int, error) {
	var season sql.NullInt64
	err := s.db.Model(&models.DepthChartRow{}).
		Where("team = ?", team).
		Select("MAX(season)").
		Scan(&season).Error
	if err != nil || !season.Valid {
		return 0, err
	}
	return int(season.Int64), nil
}
