package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nbaedge/props-api/internal/services"
	"github.com/nbaedge/props-api/internal/store"
	"github.com/nbaedge/props-api/pkg/utils"
)

type OddsHandler struct {
	odds    *services.OddsService
	history *store.OddsHistoryStore
}

func NewOddsHandler(odds *services.OddsService, history *store.OddsHistoryStore) *OddsHandler {
	return &OddsHandler{odds: odds, history: history}
}

// RefreshGameOdds fetches the game's current prop odds, merges them into
// the lineup slots and returns the refreshed slots.
func (h *OddsHandler) RefreshGameOdds(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	slots, err := h.odds.MergeGameOdds(c.Request.Context(), gameID)
	if err != nil {
		utils.SendUpstreamError(c, "Odds merge failed: "+err.Error())
		return
	}
	utils.SendSuccess(c, slots)
}

// GetGameOddsHistory returns recorded line snapshots for a game,
// optionally filtered to one market.
func (h *OddsHandler) GetGameOddsHistory(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}

	rows, err := h.history.GetForGame(gameID, c.Query("market"))
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch odds history")
		return
	}
	utils.SendSuccess(c, rows)
}

// GetPlayerOddsHistory returns a player's line snapshots, default the
// last 7 days.
func (h *OddsHandler) GetPlayerOddsHistory(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid player ID", err.Error())
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := h.history.GetForPlayer(playerID, c.Query("market"), since)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch odds history")
		return
	}
	utils.SendSuccess(c, rows)
}
