package api

import (
	"github.com/gin-gonic/gin"
	"github.com/nbaedge/props-api/internal/api/handlers"
	"github.com/nbaedge/props-api/internal/services"
	"github.com/nbaedge/props-api/internal/store"
)

// Deps carries the wired services the routes are built from.
type Deps struct {
	Games     *store.GameStore
	Rosters   *store.RosterStore
	History   *store.OddsHistoryStore
	RosterSvc *services.RosterService
	LineupSvc *services.LineupService
	OddsSvc   *services.OddsService
	OverUnder *services.OverUnderService
	DepthSvc  *services.DepthChartService
}

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, deps Deps) {
	gameHandler := handlers.NewGameHandler(deps.Games, deps.LineupSvc)
	oddsHandler := handlers.NewOddsHandler(deps.OddsSvc, deps.History)
	overUnderHandler := handlers.NewOverUnderHandler(deps.OverUnder)
	rosterHandler := handlers.NewRosterHandler(deps.Rosters)
	depthChartHandler := handlers.NewDepthChartHandler(deps.DepthSvc)
	adminHandler := handlers.NewAdminHandler(deps.RosterSvc, deps.LineupSvc, deps.OddsSvc, deps.OverUnder, deps.DepthSvc)

	// Schedule and lineups
	group.GET("/games", gameHandler.GetGames)
	group.GET("/games/:id", gameHandler.GetGame)
	group.GET("/games/:id/lineups", gameHandler.GetGameLineups)

	// Odds
	group.POST("/games/:id/odds/refresh", oddsHandler.RefreshGameOdds)
	group.GET("/games/:id/odds/history", oddsHandler.GetGameOddsHistory)

	// Players
	group.GET("/players/:id/over-under", overUnderHandler.GetPlayerOverUnder)
	group.GET("/players/:id/odds/history", oddsHandler.GetPlayerOddsHistory)

	// Rosters and depth charts
	group.GET("/teams/:team/roster", rosterHandler.GetTeamRoster)
	group.GET("/teams/:team/depth-chart", depthChartHandler.GetTeamDepthChart)

	// Operator endpoints; fronted by the deployment's own auth layer.
	admin := group.Group("/admin")
	{
		admin.POST("/rosters/import", adminHandler.ImportRosters)
		admin.POST("/lineups/import", adminHandler.ImportLineups)
		admin.POST("/depth-charts/import", adminHandler.ImportDepthCharts)
		admin.POST("/schedule/sync", adminHandler.SyncSchedule)
		admin.POST("/scores/refresh", adminHandler.RefreshScores)
		admin.POST("/gamelogs/preload", adminHandler.PreloadGameLogs)
	}
}
