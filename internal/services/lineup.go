package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/internal/providers"
	"github.com/nbaedge/props-api/internal/reconcile"
	"github.com/nbaedge/props-api/internal/store"
	"github.com/sirupsen/logrus"
)

// LineupProvider is the upstream projected-lineups feed.
type LineupProvider interface {
	GetLineupsByDate(ctx context.Context, date string) (*providers.LineupSheet, error)
}

// LineupService imports lineup payloads and merges them into the slot
// store. Each payload entry becomes a STARTER row; the rest of the
// roster is filled in as provisional BENCH rows.
type LineupService struct {
	provider LineupProvider
	rosters  *RosterService
	games    *store.GameStore
	lineups  *store.LineupStore
	cache    Cache
	logger   *logrus.Logger
	locks    *KeyedLock
}

func NewLineupService(
	provider LineupProvider,
	rosters *RosterService,
	games *store.GameStore,
	lineups *store.LineupStore,
	cache Cache,
	logger *logrus.Logger,
	locks *KeyedLock,
) *LineupService {
	return &LineupService{
		provider: provider,
		rosters:  rosters,
		games:    games,
		lineups:  lineups,
		cache:    cache,
		logger:   logger,
		locks:    locks,
	}
}

// ImportForDate fetches the lineup sheet for a date (YYYY-MM-DD) and
// merges every team's five into the matching scheduled games.
func (s *LineupService) ImportForDate(ctx context.Context, date string) (BatchResult, error) {
	result := BatchResult{}

	sheet, err := s.provider.GetLineupsByDate(ctx, date)
	if err != nil {
		return result, fmt.Errorf("lineup fetch for %s failed: %w", date, err)
	}
	if sheet == nil || len(sheet.Lineups) == 0 {
		s.logger.Infof("No lineups published for %s", date)
		return result, nil
	}

	games, err := s.findGamesForSheet(sheet, date)
	if err != nil {
		return result, err
	}
	if len(games) == 0 {
		return result, fmt.Errorf("no scheduled games found for lineup date %s", date)
	}

	for _, game := range games {
		for _, team := range []string{game.HomeTeam, game.AwayTeam} {
			entries, ok := sheet.Lineups[team]
			if !ok {
				continue
			}
			if err := s.MergeTeamLineup(ctx, &game, team, entries); err != nil {
				s.logger.Warnf("Lineup merge failed for %s (game %d): %v", team, game.ID, err)
				result.Failed++
				result.Errors = append(result.Errors, err.Error())
				continue
			}
			result.Processed++
		}
	}

	return result, nil
}

// findGamesForSheet resolves the sheet's teams to scheduled games. When
// nothing is scheduled on the sheet's own date, the search widens one
// day in each direction; lineup feeds sometimes label games with the
// wrong calendar day around midnight.
func (s *LineupService) findGamesForSheet(sheet *providers.LineupSheet, date string) ([]models.Game, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid lineup date %q: %w", date, err)
	}

	games, err := s.games.GetByDate(day)
	if err != nil {
		return nil, err
	}
	if len(games) > 0 {
		return games, nil
	}

	seen := make(map[uint]bool)
	var matched []models.Game
	for team := range sheet.Lineups {
		nearby, err := s.games.FindForTeamAround(team, day, 1)
		if err != nil {
			s.logger.Warnf("Fallback game search failed for %s: %v", team, err)
			continue
		}
		for _, g := range nearby {
			if !seen[g.ID] {
				seen[g.ID] = true
				matched = append(matched, g)
			}
		}
	}
	return matched, nil
}

// MergeTeamLineup applies one team's five-position payload to a game by
// rewriting the team's slot set wholesale. All payload entries are
// written as STARTER: presence in a published lineup is itself the
// evidence of starter role, the upstream confirmed flag is stored but
// does not gate status. Roster players left out of the five become
// provisional BENCH rows, except that a starter from an earlier import
// keeps the starter row as long as the new five left the position open.
// Betting lines attached by earlier odds merges are carried over by
// player id.
func (s *LineupService) MergeTeamLineup(ctx context.Context, game *models.Game, team string, entries map[string]providers.LineupEntry) error {
	unlock := s.locks.Lock(game.ID, team)
	defer unlock()

	idx, err := s.rosters.BuildIndex(team)
	if err != nil {
		return fmt.Errorf("identity index for %s: %w", team, err)
	}

	existing, err := s.lineups.GetByGameAndTeam(game.ID, team)
	if err != nil {
		return fmt.Errorf("load slots for %s: %w", team, err)
	}
	prior := make(map[int]models.LineupSlot, len(existing))
	for _, slot := range existing {
		if slot.PlayerID != 0 {
			prior[slot.PlayerID] = slot
		}
	}

	var slots []*models.LineupSlot
	seen := make(map[int]bool)
	claimed := make(map[string]bool)

	for pos, entry := range entries {
		if !reconcile.IsStartingPosition(pos) {
			continue
		}

		playerID, name := s.resolveEntry(idx, entry)
		if playerID != 0 {
			seen[playerID] = true
		}
		claimed[pos] = true

		slot := &models.LineupSlot{
			GameID:    game.ID,
			Team:      team,
			Position:  pos,
			PlayerID:  playerID,
			Name:      name,
			Status:    reconcile.StatusStarter,
			Confirmed: entry.IsConfirmed(),
		}
		carryOverLines(slot, prior)
		slots = append(slots, slot)
	}

	// Everyone else on the roster becomes a provisional bench row. An
	// earlier starter demotes only when the new five took the position.
	for _, p := range idx.Players() {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true

		slot := &models.LineupSlot{
			GameID:   game.ID,
			Team:     team,
			Position: reconcile.BenchPosition(p.ID),
			PlayerID: p.ID,
			Name:     p.Name,
			Status:   reconcile.StatusBench,
		}
		if old, ok := prior[p.ID]; ok && old.IsStarter() {
			if claimed[old.Position] {
				s.logger.Warnf("Demoting %s for game %d: %s reassigned by latest lineup", p.Name, game.ID, old.Position)
			} else {
				state, _ := reconcile.ApplyLineupSlot(
					&reconcile.SlotState{Position: old.Position, Status: old.Status, Confirmed: old.Confirmed},
					reconcile.SlotState{Position: slot.Position, Status: slot.Status})
				slot.Position = state.Position
				slot.Status = state.Status
				slot.Confirmed = state.Confirmed
				claimed[slot.Position] = true
			}
		}
		carryOverLines(slot, prior)
		slots = append(slots, slot)
	}

	// Starter rows for players no longer on the roster (ten-day deals,
	// payload-only ids) survive while their position stays open.
	for i := range existing {
		old := existing[i]
		if old.PlayerID != 0 && seen[old.PlayerID] {
			continue
		}
		if !old.IsStarter() || claimed[old.Position] {
			continue
		}
		kept := old
		kept.ID = 0
		claimed[kept.Position] = true
		slots = append(slots, &kept)
	}

	if err := s.lineups.ReplaceTeamSlots(game.ID, team, slots); err != nil {
		return fmt.Errorf("rewrite slots for %s: %w", team, err)
	}

	s.cache.Delete(ctx, GameLineupCacheKey(game.ID))
	return nil
}

// carryOverLines copies betting lines and over/under history from the
// player's previous slot so a lineup rewrite does not discard what the
// odds merge attached. A previously confirmed player stays confirmed.
func carryOverLines(slot *models.LineupSlot, prior map[int]models.LineupSlot) {
	old, ok := prior[slot.PlayerID]
	if !ok {
		return
	}
	slot.PointsLine = old.PointsLine
	slot.AssistsLine = old.AssistsLine
	slot.ReboundsLine = old.ReboundsLine
	slot.OverUnderHistory = old.OverUnderHistory
	if old.Confirmed {
		slot.Confirmed = true
	}
}

// resolveEntry maps a payload entry to a canonical identity. An index
// miss is not an error: the payload's own id is kept as a degraded
// identity and the miss is logged.
func (s *LineupService) resolveEntry(idx *reconcile.IdentityIndex, entry providers.LineupEntry) (int, string) {
	if p, ok := idx.Lookup(entry.Name); ok {
		return p.ID, p.Name
	}

	s.logger.Debugf("Lineup entry %q not on roster index, keeping payload id %s", entry.Name, entry.PlayerID)
	id, err := strconv.Atoi(entry.PlayerID)
	if err != nil {
		id = 0
	}
	return id, entry.Name
}

// GetGameLineup returns the merged slots for a game, cached briefly.
func (s *LineupService) GetGameLineup(ctx context.Context, gameID uint) ([]models.LineupSlot, error) {
	cacheKey := GameLineupCacheKey(gameID)

	var cached []models.LineupSlot
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	slots, err := s.lineups.GetByGame(gameID)
	if err != nil {
		return nil, err
	}

	if len(slots) > 0 {
		s.cache.Set(ctx, cacheKey, slots, 2*time.Minute)
	}
	return slots, nil
}
