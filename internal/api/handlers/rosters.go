package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nbaedge/props-api/internal/store"
	"github.com/nbaedge/props-api/pkg/utils"
)

type RosterHandler struct {
	rosters *store.RosterStore
}

func NewRosterHandler(rosters *store.RosterStore) *RosterHandler {
	return &RosterHandler{rosters: rosters}
}

// GetTeamRoster returns the stored roster for a team abbreviation.
func (h *RosterHandler) GetTeamRoster(c *gin.Context) {
	team := strings.ToUpper(strings.TrimSpace(c.Param("team")))
	if team == "" {
		utils.SendValidationError(c, "Team abbreviation is required", "")
		return
	}

	players, err := h.rosters.GetByTeam(team)
	if err != nil {
		utils.SendInternalError(c, "Failed to fetch roster")
		return
	}
	if len(players) == 0 {
		utils.SendNotFound(c, "No roster stored for "+team)
		return
	}
	utils.SendSuccess(c, players)
}
