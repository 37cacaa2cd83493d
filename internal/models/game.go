package models

import (
	"time"

	"github.com/nbaedge/props-api/pkg/database"
)

// Game is one scheduled NBA game. OddsEventID is the odds provider's
// identifier for the same game, filled in lazily by event resolution;
// the two feeds share no common key, so it may stay empty for a while
// after the schedule import.
type Game struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GameDate    time.Time `gorm:"not null;index:idx_game_date" json:"game_date"`
	HomeTeam    string    `gorm:"size:100;not null;index:idx_game_teams" json:"home_team"`
	AwayTeam    string    `gorm:"size:100;not null;index:idx_game_teams" json:"away_team"`
	OddsEventID string    `gorm:"size:100;index" json:"odds_event_id,omitempty"`
	HomeScore   *int      `json:"home_score,omitempty"` // Null until the game completes
	AwayScore   *int      `json:"away_score,omitempty"`
	Completed   bool      `gorm:"default:false" json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Game) TableName() string {
	return "games"
}

// Matchup renders the conventional away-at-home label.
func (g *Game) Matchup() string {
	return g.AwayTeam + " @ " + g.HomeTeam
}

// InvolvesTeam reports whether the team plays in this game.
func (g *Game) InvolvesTeam(team string) bool {
	return g.HomeTeam == team || g.AwayTeam == team
}

// FindGameByTeams fetches a game on the given date involving both teams.
func FindGameByTeams(db *database.DB, homeTeam, awayTeam string, gameDate time.Time) (*Game, error) {
	var game Game
	dayStart := gameDate.Truncate(24 * time.Hour)
	err := db.Where("home_team = ? AND away_team = ? AND game_date >= ? AND game_date < ?",
		homeTeam, awayTeam, dayStart, dayStart.Add(24*time.Hour)).
		First(&game).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// FindGamesForTeamAround fetches games for a team within the inclusive
// date window, ordered by proximity to the anchor date. Lineup feeds
// sometimes label games with the wrong calendar day, so callers widen
// the window by a day in each direction.
func FindGamesForTeamAround(db *database.DB, team string, anchor time.Time, days int) ([]Game, error) {
	var games []Game
	from := anchor.Truncate(24 * time.Hour).AddDate(0, 0, -days)
	to := anchor.Truncate(24 * time.Hour).AddDate(0, 0, days+1)
	err := db.Where("(home_team = ? OR away_team = ?) AND game_date >= ? AND game_date < ?",
		team, team, from, to).
		Order("game_date ASC").
		Find(&games).Error
	return games, err
}
