package store

import (
	"errors"
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/pkg/database"
	"gorm.io/gorm"
)

// GameStore manages the game schedule table.
type GameStore struct {
	db *database.DB
}

func NewGameStore(db *database.DB) *GameStore {
	return &GameStore{db: db}
}

// Upsert inserts the game or refreshes its mutable columns when a row
// for the same teams and date already exists.
func (s *GameStore) Upsert(game *models.Game) error {
	existing, err := models.FindGameByTeams(s.db, game.HomeTeam, game.AwayTeam, game.GameDate)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.db.Create(game).Error
	}

	game.ID = existing.ID
	updates := map[string]interface{}{
		"game_date": game.GameDate,
	}
	if game.OddsEventID != "" {
		updates["odds_event_id"] = game.OddsEventID
	}
	return s.db.Model(&models.Game{}).Where("id = ?", existing.ID).Updates(updates).Error
}

// GetByID fetches one game.
func (s *GameStore) GetByID(id uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.First(&game, id).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// GetByDate fetches all games on a calendar day.
func (s *GameStore) GetByDate(date time.Time) ([]models.Game, error) {
	var games []models.Game
	dayStart := date.Truncate(24 * time.Hour)
	err := s.db.Where("game_date >= ? AND game_date < ?", dayStart, dayStart.Add(24*time.Hour)).
		Order("game_date ASC").
		Find(&games).Error
	return games, err
}

// FindByOddsEventID fetches the game holding a resolved event id.
func (s *GameStore) FindByOddsEventID(eventID string) (*models.Game, error) {
	var game models.Game
	if err := s.db.First(&game, "odds_event_id = ?", eventID).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// FindForTeamAround fetches a team's games within days of the anchor
// date in either direction.
func (s *GameStore) FindForTeamAround(team string, anchor time.Time, days int) ([]models.Game, error) {
	return models.FindGamesForTeamAround(s.db, team, anchor, days)
}

// SetOddsEventID records the resolved odds event id for a game.
func (s *GameStore) SetOddsEventID(gameID uint, eventID string) error {
	return s.db.Model(&models.Game{}).Where("id = ?", gameID).
		Update("odds_event_id", eventID).Error
}

// SetScore records a final or in-progress score.
func (s *GameStore) SetScore(gameID uint, homeScore, awayScore int, completed bool) error {
	return s.db.Model(&models.Game{}).Where("id = ?", gameID).Updates(map[string]interface{}{
		"home_score": homeScore,
		"away_score": awayScore,
		"completed":  completed,
	}).Error
}
