package models

import (
	"time"

	"gorm.io/datatypes"
)

// OddsHistory is a point-in-time snapshot of a player prop market, kept
// so line movement can be inspected after the fact.
type OddsHistory struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	GameID      uint           `gorm:"not null;index" json:"game_id"`
	EventID     string         `gorm:"size:100;index" json:"event_id"`
	PlayerID    int            `gorm:"index" json:"player_id"`
	PlayerName  string         `gorm:"size:100;not null" json:"player_name"`
	Market      string         `gorm:"size:50;not null" json:"market"`
	Line        float64        `json:"line"`
	OverPrice   *int           `json:"over_price,omitempty"`
	UnderPrice  *int           `json:"under_price,omitempty"`
	Bookmaker   string         `gorm:"size:50;not null" json:"bookmaker"`
	RawOutcomes datatypes.JSON `json:"raw_outcomes,omitempty"`
	CapturedAt  time.Time      `gorm:"not null;index" json:"captured_at"`

	Game Game `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (OddsHistory) TableName() string {
	return "odds_history"
}
