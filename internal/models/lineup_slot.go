package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LineupSlot is one player's place in a game's projected lineup. The
// (game, team, position) triple is unique: the five starting positions
// hold one player each, while bench rows carry a synthetic
// "BENCH-<playerID>" position so a team can list any number of them.
//
// Status only moves forward. A player enters as BENCH or STARTER and a
// starter is never demoted back to the bench by a later feed.
type LineupSlot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GameID    uint      `gorm:"not null;uniqueIndex:idx_game_team_position" json:"game_id"`
	Team      string    `gorm:"size:100;not null;uniqueIndex:idx_game_team_position" json:"team"`
	Position  string    `gorm:"size:20;not null;uniqueIndex:idx_game_team_position" json:"position"`
	PlayerID  int       `gorm:"not null;index" json:"player_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Status    string    `gorm:"size:20;not null" json:"status"`
	Confirmed bool      `gorm:"default:false" json:"confirmed"`

	PointsLine   *float64 `json:"points_line,omitempty"`
	AssistsLine  *float64 `json:"assists_line,omitempty"`
	ReboundsLine *float64 `json:"rebounds_line,omitempty"`

	// OverUnderHistory holds the serialized rolling over/under result
	// attached by the odds merge; absent when no history was found.
	OverUnderHistory datatypes.JSON `json:"over_under_history,omitempty"`

	// PhotoURL is derived from the player id on read, not stored.
	PhotoURL string `gorm:"-" json:"photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (LineupSlot) TableName() string {
	return "lineup_slots"
}

// IsStarter reports whether the slot holds a projected starter.
func (s *LineupSlot) IsStarter() bool {
	return s.Status == "STARTER"
}

// AfterFind fills in the derived headshot URL on every read.
func (s *LineupSlot) AfterFind(tx *gorm.DB) error {
	s.PhotoURL = PlayerPhotoURL(s.PlayerID)
	return nil
}
