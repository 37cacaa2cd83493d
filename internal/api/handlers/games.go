package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nbaedge/props-api/internal/services"
	"github.com/nbaedge/props-api/internal/store"
	"github.com/nbaedge/props-api/pkg/utils"
	"gorm.io/gorm"
)

type GameHandler struct {
	games   *store.GameStore
	lineups *services.LineupService
}

func NewGameHandler(games *store.GameStore, lineups *services.LineupService) *GameHandler {
	return &GameHandler{games: games, lineups: lineups}
}

// GetGames returns the schedule for a date (default today, UTC).
func (h *GameHandler) GetGames(c *gin.Context) {
	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.SendValidationError(c, "Invalid date, expected YYYY-MM-DD", err.Error())
			return
		}
		day = parsed
	}

	games, err := h.games.GetByDate(day)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch games")
		return
	}
	utils.SendSuccess(c, games)
}

// GetGame returns one game by id.
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	game, err := h.games.GetByID(gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Game not found")
		} else {
			utils.SendInternalError(c, "Failed to fetch game")
		}
		return
	}
	utils.SendSuccess(c, game)
}

// GetGameLineups returns the merged lineup slots for a game.
func (h *GameHandler) GetGameLineups(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	if _, err := h.games.GetByID(gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Game not found")
		} else {
			utils.SendInternalError(c, "Failed to fetch game")
		}
		return
	}

	slots, err := h.lineups.GetGameLineup(c.Request.Context(), gameID)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch lineups")
		return
	}
	utils.SendSuccess(c, slots)
}

func parseGameID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid game ID", err.Error())
		return 0, false
	}
	return uint(id), true
}
