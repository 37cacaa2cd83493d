package models

import (
	"time"

	"github.com/nbaedge/props-api/pkg/database"
)

// RosterPlayer is a player on a team's official roster. The roster feed
// is the source of truth for player ids; every other feed is matched
// against these rows by normalized name.
type RosterPlayer struct {
	PlayerID  int       `gorm:"primaryKey" json:"player_id"`
	Name      string    `gorm:"size:100;not null;index" json:"name"`
	Team      string    `gorm:"size:100;not null;index" json:"team"`
	Position  string    `gorm:"size:20" json:"position"`
	Jersey    string    `gorm:"size:10" json:"jersey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (RosterPlayer) TableName() string {
	return "roster_players"
}

// FindRosterByTeam fetches all roster rows for a team.
func FindRosterByTeam(db *database.DB, team string) ([]RosterPlayer, error) {
	var players []RosterPlayer
	err := db.Where("team = ?", team).Order("name ASC").Find(&players).Error
	return players, err
}
