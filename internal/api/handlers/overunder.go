package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nbaedge/props-api/internal/services"
	"github.com/nbaedge/props-api/pkg/utils"
)

type OverUnderHandler struct {
	overUnder *services.OverUnderService
}

func NewOverUnderHandler(overUnder *services.OverUnderService) *OverUnderHandler {
	return &OverUnderHandler{overUnder: overUnder}
}

// GetPlayerOverUnder evaluates a player's recent games against a points
// line, with optional assists and rebounds lines. local=true restricts
// the evaluation to already-stored game logs.
func (h *OverUnderHandler) GetPlayerOverUnder(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid player ID", err.Error())
		return
	}

	pointsLine, err := strconv.ParseFloat(c.Query("points"), 64)
	if err != nil {
		utils.SendValidationError(c, "Query parameter 'points' is required", "expected a numeric betting line")
		return
	}

	assistsLine := optionalLine(c.Query("assists"))
	reboundsLine := optionalLine(c.Query("rebounds"))
	localOnly := c.Query("local") == "true"

	result, err := h.overUnder.Evaluate(c.Request.Context(), playerID, pointsLine, assistsLine, reboundsLine, localOnly)
	if err != nil {
		utils.SendUpstreamError(c, "Over/under evaluation unavailable: "+err.Error())
		return
	}
	utils.SendSuccess(c, result)
}

func optionalLine(raw string) *float64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}
