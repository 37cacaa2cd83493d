package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/internal/providers"
	"github.com/nbaedge/props-api/internal/reconcile"
	"github.com/nbaedge/props-api/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// StatsProvider is the upstream per-player game-log feed.
type StatsProvider interface {
	GetPlayerGameLog(ctx context.Context, playerID int) ([]providers.PlayerGameLog, error)
}

// OverUnderService computes rolling over/under results against betting
// lines. It reads the local game-log store first and falls back to a
// live fetch bounded by a hard wall-clock budget; a slow upstream skips
// the player rather than stalling the caller.
type OverUnderService struct {
	provider    StatsProvider
	logs        *store.GameLogStore
	logger      *logrus.Logger
	limit       int
	liveTimeout time.Duration
	freshWindow time.Duration
	workers     int
}

func NewOverUnderService(
	provider StatsProvider,
	logs *store.GameLogStore,
	logger *logrus.Logger,
	limit int,
	liveTimeout time.Duration,
	freshWindow time.Duration,
	workers int,
) *OverUnderService {
	if limit <= 0 {
		limit = 25
	}
	if liveTimeout <= 0 {
		liveTimeout = 20 * time.Second
	}
	if workers <= 0 {
		workers = 4
	}
	return &OverUnderService{
		provider:    provider,
		logs:        logs,
		logger:      logger,
		limit:       limit,
		liveTimeout: liveTimeout,
		freshWindow: freshWindow,
		workers:     workers,
	}
}

// Evaluate computes the over/under tally for a player against a points
// line and optional assists/rebounds lines. With localOnly the stored
// log is the only source and an empty result is returned when the
// player has no rows; otherwise an empty store triggers a live fetch
// under the configured time budget, persisting what it finds.
func (s *OverUnderService) Evaluate(ctx context.Context, playerID int, pointsLine float64, assistsLine, reboundsLine *float64, localOnly bool) (reconcile.OverUnderResult, error) {
	entries, err := s.logs.GetForPlayer(playerID, s.limit)
	if err != nil {
		return emptyResult(reconcile.SourceLocal), err
	}

	if len(entries) > 0 {
		return reconcile.TallyOverUnder(samplesFromEntries(entries), pointsLine, assistsLine, reboundsLine, reconcile.SourceLocal), nil
	}

	if localOnly {
		return emptyResult(reconcile.SourceLocal), nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.liveTimeout)
	defer cancel()

	if err := s.RefreshPlayer(fetchCtx, playerID); err != nil {
		s.logger.Warnf("Live game-log fetch unavailable for player %d: %v", playerID, err)
		return emptyResult(reconcile.SourceLive), err
	}

	entries, err = s.logs.GetForPlayer(playerID, s.limit)
	if err != nil {
		return emptyResult(reconcile.SourceLive), err
	}
	return reconcile.TallyOverUnder(samplesFromEntries(entries), pointsLine, assistsLine, reboundsLine, reconcile.SourceLive), nil
}

// RefreshPlayer fetches a player's game log and persists it, pruning to
// the retention window.
func (s *OverUnderService) RefreshPlayer(ctx context.Context, playerID int) error {
	logs, err := s.provider.GetPlayerGameLog(ctx, playerID)
	if err != nil {
		return fmt.Errorf("game log fetch for player %d: %w", playerID, err)
	}
	if len(logs) == 0 {
		return nil
	}

	entries := make([]models.GameLogEntry, 0, len(logs))
	for _, l := range logs {
		date, err := parseGameDate(l.GameDate)
		if err != nil {
			s.logger.Debugf("Skipping game log row with bad date %q for player %d", l.GameDate, playerID)
			continue
		}
		points, assists, rebounds, minutes := l.Points, l.Assists, l.Rebounds, l.Minutes
		entry := models.GameLogEntry{
			PlayerID: playerID,
			GameDate: date,
			Matchup:  l.Matchup,
			Points:   &points,
			Assists:  &assists,
			Rebounds: &rebounds,
			Minutes:  &minutes,
		}
		if len(l.Raw) > 0 {
			if raw, err := json.Marshal(l.Raw); err == nil {
				entry.RawStats = datatypes.JSON(raw)
			}
		}
		entries = append(entries, entry)
	}

	return s.logs.ReplaceForPlayer(playerID, entries)
}

// PreloadForPlayers warms the game-log store for a set of players using
// a bounded worker pool. Each player's fetch carries its own time
// budget; players refreshed within the freshness window are skipped
// outright. One player's failure never stops the batch.
func (s *OverUnderService) PreloadForPlayers(ctx context.Context, playerIDs []int) BatchResult {
	type outcome struct {
		err error
	}

	jobs := make(chan int)
	outcomes := make(chan outcome, len(playerIDs))

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for playerID := range jobs {
				outcomes <- outcome{err: s.preloadOne(ctx, playerID)}
			}
		}()
	}

	for _, id := range playerIDs {
		jobs <- id
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	result := BatchResult{}
	for o := range outcomes {
		if o.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, o.err.Error())
			continue
		}
		result.Processed++
	}

	s.logger.Infof("Game-log preload complete: %d ok, %d failed", result.Processed, result.Failed)
	return result
}

func (s *OverUnderService) preloadOne(ctx context.Context, playerID int) error {
	if s.freshWindow > 0 {
		updated, err := s.logs.LastUpdated(playerID)
		if err == nil && !updated.IsZero() && time.Since(updated) < s.freshWindow {
			return nil
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.liveTimeout)
	defer cancel()
	return s.RefreshPlayer(fetchCtx, playerID)
}

func emptyResult(source string) reconcile.OverUnderResult {
	return reconcile.OverUnderResult{
		Games:  []reconcile.GameResult{},
		Source: source,
	}
}

func samplesFromEntries(entries []models.GameLogEntry) []reconcile.GameSample {
	samples := make([]reconcile.GameSample, len(entries))
	for i, e := range entries {
		samples[i] = reconcile.GameSample{
			GameDate: e.GameDate,
			Points:   e.Points,
			Assists:  e.Assists,
			Rebounds: e.Rebounds,
			Matchup:  e.Matchup,
		}
	}
	return samples
}

func parseGameDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "Jan 02, 2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized game date %q", raw)
}
