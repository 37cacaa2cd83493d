package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/internal/providers"
	"github.com/nbaedge/props-api/internal/store"
	"github.com/sirupsen/logrus"
)

// DepthChartProvider is the upstream depth chart feed.
type DepthChartProvider interface {
	GetDepthCharts(ctx context.Context) (*providers.DepthChartBook, error)
}

// DepthChartService imports the league-wide positional depth charts and
// serves them per team.
type DepthChartService struct {
	provider DepthChartProvider
	charts   *store.DepthChartStore
	cache    Cache
	logger   *logrus.Logger
}

func NewDepthChartService(provider DepthChartProvider, charts *store.DepthChartStore, cache Cache, logger *logrus.Logger) *DepthChartService {
	return &DepthChartService{
		provider: provider,
		charts:   charts,
		cache:    cache,
		logger:   logger,
	}
}

// ImportAll fetches the current depth chart book and rewrites every
// team's chart. A team with a malformed chart is skipped, not fatal.
func (s *DepthChartService) ImportAll(ctx context.Context) (BatchResult, error) {
	result := BatchResult{}

	book, err := s.provider.GetDepthCharts(ctx)
	if err != nil {
		return result, fmt.Errorf("depth chart fetch failed: %w", err)
	}
	if book == nil || len(book.Charts) == 0 {
		s.logger.Info("Depth chart feed returned no teams")
		return result, nil
	}
	if book.Season == 0 {
		return result, fmt.Errorf("depth chart payload missing season")
	}

	for team, chart := range book.Charts {
		rows := s.chartRows(team, book.Season, chart)
		if len(rows) == 0 {
			s.logger.Warnf("Depth chart for %s had no usable entries", team)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: no usable entries", team))
			continue
		}
		if err := s.charts.ReplaceTeam(team, book.Season, rows); err != nil {
			s.logger.Warnf("Saving depth chart for %s failed: %v", team, err)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", team, err))
			continue
		}
		s.cache.Delete(ctx, TeamDepthChartCacheKey(team))
		result.Processed++
	}

	s.logger.Infof("Depth chart import complete: %d teams, %d failed (season %d)",
		result.Processed, result.Failed, book.Season)
	return result, nil
}

// chartRows flattens one team's position lists into storable rows. An
// entry whose player id does not parse is dropped; a missing depth
// falls back to the entry's order within its position.
func (s *DepthChartService) chartRows(team string, season int, chart map[string][]providers.DepthChartEntry) []models.DepthChartRow {
	var rows []models.DepthChartRow
	for position, entries := range chart {
		for i, entry := range entries {
			playerID, err := strconv.Atoi(entry.PlayerID)
			if err != nil || playerID == 0 || entry.Name == "" {
				s.logger.Debugf("Skipping depth chart entry %q for %s %s", entry.Name, team, position)
				continue
			}
			depth, err := strconv.Atoi(entry.Depth)
			if err != nil || depth == 0 {
				depth = i + 1
			}
			rows = append(rows, models.DepthChartRow{
				Team:       team,
				Season:     season,
				Position:   position,
				Depth:      depth,
				PlayerID:   playerID,
				PlayerName: entry.Name,
				PhotoURL:   models.PlayerPhotoURL(playerID),
			})
		}
	}
	return rows
}

// GetTeam returns a team's depth chart, cached briefly. Season 0 means
// the latest imported season.
func (s *DepthChartService) GetTeam(ctx context.Context, team string, season int) ([]models.DepthChartRow, error) {
	if season == 0 {
		cacheKey := TeamDepthChartCacheKey(team)

		var cached []models.DepthChartRow
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}

		rows, err := s.charts.GetByTeam(team, 0)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			s.cache.Set(ctx, cacheKey, rows, 10*time.Minute)
		}
		return rows, nil
	}

	return s.charts.GetByTeam(team, season)
}
