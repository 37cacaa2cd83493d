package models

import (
	"time"

	"gorm.io/datatypes"
)

// GameLogEntry is one historical game's stat line for a player. Only
// the stats the over/under markets settle on are promoted to columns;
// the provider's full stat payload is kept verbatim in RawStats.
type GameLogEntry struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	PlayerID  int            `gorm:"not null;uniqueIndex:idx_player_game" json:"player_id"`
	GameDate  time.Time      `gorm:"not null;uniqueIndex:idx_player_game" json:"game_date"`
	Matchup   string         `gorm:"size:50;uniqueIndex:idx_player_game" json:"matchup"`
	Points    *float64       `json:"points,omitempty"`
	Assists   *float64       `json:"assists,omitempty"`
	Rebounds  *float64       `json:"rebounds,omitempty"`
	Minutes   *float64       `json:"minutes,omitempty"`
	RawStats  datatypes.JSON `json:"raw_stats,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (GameLogEntry) TableName() string {
	return "game_log_entries"
}
