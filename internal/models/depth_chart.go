package models

import "time"

// DepthChartRow is one player's place on a team's positional depth
// chart for a season. Depth 1 is the projected starter at the position.
type DepthChartRow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Team       string    `gorm:"size:10;not null;uniqueIndex:idx_team_season_pos_depth" json:"team"`
	Season     int       `gorm:"not null;uniqueIndex:idx_team_season_pos_depth" json:"season"`
	Position   string    `gorm:"size:5;not null;uniqueIndex:idx_team_season_pos_depth" json:"position"`
	Depth      int       `gorm:"not null;uniqueIndex:idx_team_season_pos_depth" json:"depth"`
	PlayerID   int       `gorm:"not null;index" json:"player_id"`
	PlayerName string    `gorm:"size:100;not null" json:"player_name"`
	PhotoURL   string    `gorm:"size:255" json:"photo_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (DepthChartRow) TableName() string {
	return "team_depth_charts"
}
