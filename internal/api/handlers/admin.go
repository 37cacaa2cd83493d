package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nbaedge/props-api/internal/services"
	"github.com/nbaedge/props-api/pkg/utils"
)

// AdminHandler exposes the batch import and sync operations. These run
// synchronously; callers are expected to be operators or the scheduler.
type AdminHandler struct {
	rosters     *services.RosterService
	lineups     *services.LineupService
	odds        *services.OddsService
	overUnder   *services.OverUnderService
	depthCharts *services.DepthChartService
}

func NewAdminHandler(rosters *services.RosterService, lineups *services.LineupService, odds *services.OddsService, overUnder *services.OverUnderService, depthCharts *services.DepthChartService) *AdminHandler {
	return &AdminHandler{
		rosters:     rosters,
		lineups:     lineups,
		odds:        odds,
		overUnder:   overUnder,
		depthCharts: depthCharts,
	}
}

// ImportRosters imports rosters for the requested teams, default all 30.
func (h *AdminHandler) ImportRosters(c *gin.Context) {
	var body struct {
		Teams []string `json:"teams"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	teams := body.Teams
	if len(teams) == 0 {
		teams = services.NBATeams
	}

	result := h.rosters.ImportAllTeams(c.Request.Context(), teams)
	utils.SendSuccess(c, result)
}

// ImportLineups imports and merges the lineup sheet for a date
// (default today, UTC).
func (h *AdminHandler) ImportLineups(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.SendValidationError(c, "Invalid date, expected YYYY-MM-DD", err.Error())
		return
	}

	result, err := h.lineups.ImportForDate(c.Request.Context(), date)
	if err != nil {
		utils.SendUpstreamError(c, "Lineup import failed: "+err.Error())
		return
	}
	utils.SendSuccess(c, result)
}

// SyncSchedule upserts games from the odds provider's event list.
func (h *AdminHandler) SyncSchedule(c *gin.Context) {
	result, err := h.odds.SyncSchedule(c.Request.Context())
	if err != nil {
		utils.SendUpstreamError(c, "Schedule sync failed: "+err.Error())
		return
	}
	utils.SendSuccess(c, result)
}

// RefreshScores pulls recent final and in-progress scores.
func (h *AdminHandler) RefreshScores(c *gin.Context) {
	daysFrom := 2
	if raw := c.Query("days_from"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 3 {
			utils.SendValidationError(c, "days_from must be between 1 and 3", "")
			return
		}
		daysFrom = parsed
	}

	result, err := h.odds.UpdateScores(c.Request.Context(), daysFrom)
	if err != nil {
		utils.SendUpstreamError(c, "Score refresh failed: "+err.Error())
		return
	}
	utils.SendSuccess(c, result)
}

// ImportDepthCharts pulls the current depth chart book and rewrites
// every team's chart.
func (h *AdminHandler) ImportDepthCharts(c *gin.Context) {
	result, err := h.depthCharts.ImportAll(c.Request.Context())
	if err != nil {
		utils.SendUpstreamError(c, "Depth chart import failed: "+err.Error())
		return
	}
	utils.SendSuccess(c, result)
}

// PreloadGameLogs warms the game-log store for a set of players.
func (h *AdminHandler) PreloadGameLogs(c *gin.Context) {
	var body struct {
		PlayerIDs []int `json:"player_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if len(body.PlayerIDs) == 0 {
		utils.SendValidationError(c, "player_ids must not be empty", "")
		return
	}

	result := h.overUnder.PreloadForPlayers(c.Request.Context(), body.PlayerIDs)
	utils.SendSuccess(c, result)
}
