package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nbaedge/props-api/internal/services"
	"github.com/nbaedge/props-api/pkg/utils"
)

type DepthChartHandler struct {
	charts *services.DepthChartService
}

func NewDepthChartHandler(charts *services.DepthChartService) *DepthChartHandler {
	return &DepthChartHandler{charts: charts}
}

// GetTeamDepthChart returns a team's positional depth chart for the
// latest imported season, or for ?season= when given.
func (h *DepthChartHandler) GetTeamDepthChart(c *gin.Context) {
	team := strings.ToUpper(strings.TrimSpace(c.Param("team")))
	if team == "" {
		utils.SendValidationError(c, "Team abbreviation is required", "")
		return
	}

	season := 0
	if raw := c.Query("season"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 {
			utils.SendValidationError(c, "Invalid season", "")
			return
		}
		season = parsed
	}

	rows, err := h.charts.GetTeam(c.Request.Context(), team, season)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch depth chart")
		return
	}
	if len(rows) == 0 {
		utils.SendNotFound(c, "No depth chart stored for "+team)
		return
	}
	utils.SendSuccess(c, rows)
}
