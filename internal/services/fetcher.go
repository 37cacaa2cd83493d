package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nbaedge/props-api/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DataFetcherService runs the scheduled refresh loop: schedule sync,
// lineup imports around tip-off hours, score updates, and odds merges
// for the day's games.
type DataFetcherService struct {
	games     *store.GameStore
	lineupSvc *LineupService
	oddsSvc   *OddsService
	logger    *logrus.Logger
	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
	interval  time.Duration
}

// NewDataFetcherService creates a new data fetcher service.
func NewDataFetcherService(
	games *store.GameStore,
	lineupSvc *LineupService,
	oddsSvc *OddsService,
	logger *logrus.Logger,
	interval time.Duration,
) *DataFetcherService {
	return &DataFetcherService{
		games:     games,
		lineupSvc: lineupSvc,
		oddsSvc:   oddsSvc,
		logger:    logger,
		cron:      cron.New(),
		interval:  interval,
	}
}

// Start begins the scheduled refresh loop.
func (s *DataFetcherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("data fetcher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.interval.String())
	if _, err := s.cron.AddFunc(schedule, s.refreshSchedule); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	// Lineups firm up in the hours before tip-off; poll hourly then.
	if _, err := s.cron.AddFunc("0 15-22 * * *", s.refreshTodayLineups); err != nil {
		return fmt.Errorf("failed to schedule lineup refresh: %w", err)
	}

	// Final scores land overnight.
	if _, err := s.cron.AddFunc("0 6 * * *", s.refreshScores); err != nil {
		return fmt.Errorf("failed to schedule score refresh: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	// Run initial sync
	go s.refreshSchedule()

	s.logger.Info("Data fetcher service started")
	return nil
}

// Stop halts the refresh loop, waiting for in-flight jobs.
func (s *DataFetcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Data fetcher service stopped")
}

func (s *DataFetcherService) refreshSchedule() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := s.oddsSvc.SyncSchedule(ctx); err != nil {
		s.logger.Errorf("Schedule sync failed: %v", err)
	}
}

func (s *DataFetcherService) refreshTodayLineups() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	today := time.Now().UTC().Format("2006-01-02")
	result, err := s.lineupSvc.ImportForDate(ctx, today)
	if err != nil {
		s.logger.Warnf("Lineup refresh for %s failed: %v", today, err)
		return
	}
	s.logger.Infof("Lineup refresh for %s: %d teams merged, %d failed", today, result.Processed, result.Failed)

	// Fold in the latest lines for the day's games.
	games, err := s.games.GetByDate(time.Now().UTC())
	if err != nil {
		s.logger.Warnf("Loading today's games: %v", err)
		return
	}
	for _, game := range games {
		if _, err := s.oddsSvc.MergeGameOdds(ctx, game.ID); err != nil {
			s.logger.Warnf("Odds merge for game %d failed: %v", game.ID, err)
		}
	}
}

func (s *DataFetcherService) refreshScores() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := s.oddsSvc.UpdateScores(ctx, 2)
	if err != nil {
		s.logger.Warnf("Score refresh failed: %v", err)
		return
	}
	s.logger.Infof("Score refresh: %d games updated, %d unmatched", result.Processed, result.Failed)
}
