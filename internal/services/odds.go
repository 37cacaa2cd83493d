package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/internal/providers"
	"github.com/nbaedge/props-api/internal/reconcile"
	"github.com/nbaedge/props-api/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// OddsProvider is the upstream odds feed.
type OddsProvider interface {
	GetEvents(ctx context.Context) ([]providers.Event, error)
	GetEventOdds(ctx context.Context, eventID string) (*providers.EventOdds, error)
	GetScores(ctx context.Context, daysFrom int) ([]providers.ScoreRecord, error)
}

// PlayerQuote is one player's prop lines collapsed across markets. The
// points line is mandatory upstream; assists and rebounds ride along
// when the book offers them.
type PlayerQuote struct {
	Name         string
	PointsLine   *float64
	AssistsLine  *float64
	ReboundsLine *float64
	OverPrice    *int
	UnderPrice   *int
}

// OddsService resolves games to odds events and merges prop quotes
// into the lineup slot store.
type OddsService struct {
	provider  OddsProvider
	rosters   *RosterService
	games     *store.GameStore
	lineups   *store.LineupStore
	history   *store.OddsHistoryStore
	overUnder *OverUnderService
	resolver  *reconcile.EventResolver
	cache     Cache
	logger    *logrus.Logger
	locks     *KeyedLock

	playerThreshold float64
}

func NewOddsService(
	provider OddsProvider,
	rosters *RosterService,
	games *store.GameStore,
	lineups *store.LineupStore,
	history *store.OddsHistoryStore,
	overUnder *OverUnderService,
	resolver *reconcile.EventResolver,
	cache Cache,
	logger *logrus.Logger,
	locks *KeyedLock,
	playerThreshold float64,
) *OddsService {
	if playerThreshold <= 0 {
		playerThreshold = 0.75
	}
	return &OddsService{
		provider:        provider,
		rosters:         rosters,
		games:           games,
		lineups:         lineups,
		history:         history,
		overUnder:       overUnder,
		resolver:        resolver,
		cache:           cache,
		logger:          logger,
		locks:           locks,
		playerThreshold: playerThreshold,
	}
}

// ResolveEvent maps a game to the odds provider's event id, persisting
// the match. An empty id with nil error means the provider has not
// published the event yet; callers treat that as "try again later".
func (s *OddsService) ResolveEvent(ctx context.Context, game *models.Game) (string, error) {
	if game.OddsEventID != "" {
		return game.OddsEventID, nil
	}

	events, err := s.provider.GetEvents(ctx)
	if err != nil {
		return "", fmt.Errorf("event list fetch: %w", err)
	}

	candidates := make([]reconcile.EventCandidate, len(events))
	for i, e := range events {
		candidates[i] = reconcile.EventCandidate{
			ID:           e.ID,
			HomeTeam:     e.HomeTeam,
			AwayTeam:     e.AwayTeam,
			CommenceTime: e.CommenceTime,
		}
	}

	eventID := s.resolver.Resolve(game.HomeTeam, game.AwayTeam, game.GameDate, candidates)
	if eventID == "" {
		return "", nil
	}

	if err := s.games.SetOddsEventID(game.ID, eventID); err != nil {
		return "", fmt.Errorf("persist event id: %w", err)
	}
	game.OddsEventID = eventID
	return eventID, nil
}

// SyncSchedule upserts a game row for every event the provider lists,
// carrying the event id along so later merges skip resolution.
func (s *OddsService) SyncSchedule(ctx context.Context) (BatchResult, error) {
	result := BatchResult{}

	events, err := s.provider.GetEvents(ctx)
	if err != nil {
		return result, fmt.Errorf("event list fetch: %w", err)
	}

	for _, e := range events {
		game := &models.Game{
			GameDate:    e.CommenceTime,
			HomeTeam:    e.HomeTeam,
			AwayTeam:    e.AwayTeam,
			OddsEventID: e.ID,
		}
		if err := s.games.Upsert(game); err != nil {
			s.logger.Warnf("Schedule upsert failed for %s vs %s: %v", e.AwayTeam, e.HomeTeam, err)
			result.Failed++
			continue
		}
		result.Processed++
	}

	s.logger.Infof("Schedule sync complete: %d games, %d failed", result.Processed, result.Failed)
	return result, nil
}

// MergeGameOdds fetches the game's prop odds and merges every quote
// into the slot store, then returns the refreshed slots. A game whose
// event is not yet published, or has no FanDuel props up, returns the
// current slots unchanged.
func (s *OddsService) MergeGameOdds(ctx context.Context, gameID uint) ([]models.LineupSlot, error) {
	game, err := s.games.GetByID(gameID)
	if err != nil {
		return nil, err
	}

	eventID, err := s.ResolveEvent(ctx, game)
	if err != nil {
		return nil, err
	}
	if eventID == "" {
		s.logger.Infof("No odds event yet for game %d (%s)", game.ID, game.Matchup())
		return s.lineups.GetByGame(game.ID)
	}

	odds, err := s.provider.GetEventOdds(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("odds fetch for event %s: %w", eventID, err)
	}
	if odds == nil {
		return s.lineups.GetByGame(game.ID)
	}

	quotes := CollapseQuotes(odds)
	if len(quotes) > 0 {
		result := s.mergeQuotes(ctx, game, quotes)
		s.logger.Infof("Merged odds for game %d: %d quotes placed, %d dropped",
			game.ID, result.Processed, result.Failed)
		s.recordHistory(game, eventID, odds)
	}

	s.cache.Delete(ctx, GameOddsCacheKey(game.ID), GameLineupCacheKey(game.ID))
	return s.lineups.GetByGame(game.ID)
}

// CollapseQuotes folds an event's market outcomes into one quote per
// player. Over/Under pairs share a line, so the line is taken from
// whichever side appears first; prices are kept for the points market.
func CollapseQuotes(odds *providers.EventOdds) []PlayerQuote {
	byName := make(map[string]*PlayerQuote)
	var order []string

	quoteFor := func(name string) *PlayerQuote {
		if q, ok := byName[name]; ok {
			return q
		}
		q := &PlayerQuote{Name: name}
		byName[name] = q
		order = append(order, name)
		return q
	}

	for _, book := range odds.Bookmakers {
		for _, market := range book.Markets {
			for _, outcome := range market.Outcomes {
				if outcome.Description == "" {
					continue
				}
				q := quoteFor(outcome.Description)
				point := outcome.Point
				switch market.Key {
				case providers.MarketPlayerPoints:
					if q.PointsLine == nil {
						q.PointsLine = &point
					}
					price := outcome.Price
					if outcome.Name == "Over" {
						q.OverPrice = &price
					} else if outcome.Name == "Under" {
						q.UnderPrice = &price
					}
				case providers.MarketPlayerAssists:
					if q.AssistsLine == nil {
						q.AssistsLine = &point
					}
				case providers.MarketPlayerRebounds:
					if q.ReboundsLine == nil {
						q.ReboundsLine = &point
					}
				}
			}
		}
	}

	quotes := make([]PlayerQuote, 0, len(order))
	for _, name := range order {
		q := byName[name]
		if q.PointsLine == nil {
			// Points is the anchor market; a player quoted only on
			// side markets is not placed.
			continue
		}
		quotes = append(quotes, *q)
	}
	return quotes
}

// mergeQuotes places every quote on a slot, serializing against other
// writers of the same game. Both teams are locked in a fixed order so
// concurrent merges cannot deadlock.
func (s *OddsService) mergeQuotes(ctx context.Context, game *models.Game, quotes []PlayerQuote) BatchResult {
	unlockHome := s.locks.Lock(game.ID, game.HomeTeam)
	defer unlockHome()
	unlockAway := s.locks.Lock(game.ID, game.AwayTeam)
	defer unlockAway()

	homeIdx, err := s.rosters.BuildIndex(game.HomeTeam)
	if err != nil {
		s.logger.Warnf("No identity index for %s: %v", game.HomeTeam, err)
		homeIdx = reconcile.NewIdentityIndex(nil)
	}
	awayIdx, err := s.rosters.BuildIndex(game.AwayTeam)
	if err != nil {
		s.logger.Warnf("No identity index for %s: %v", game.AwayTeam, err)
		awayIdx = reconcile.NewIdentityIndex(nil)
	}

	slots, err := s.lineups.GetByGame(game.ID)
	if err != nil {
		s.logger.Errorf("Loading slots for game %d: %v", game.ID, err)
		return BatchResult{Failed: len(quotes)}
	}

	result := BatchResult{}
	for _, quote := range quotes {
		if err := s.placeQuote(ctx, game, quote, slots, homeIdx, awayIdx); err != nil {
			s.logger.Debugf("Quote for %q dropped: %v", quote.Name, err)
			result.Failed++
			continue
		}
		result.Processed++

		// Reload so later quotes see rows created by earlier ones.
		slots, err = s.lineups.GetByGame(game.ID)
		if err != nil {
			s.logger.Errorf("Reloading slots for game %d: %v", game.ID, err)
			break
		}
	}
	return result
}

// placeQuote resolves one quote to a slot. Resolution order is
// load-bearing: starter by exact name, then starter by canonical id,
// then provisional bench via the roster, then drop.
func (s *OddsService) placeQuote(ctx context.Context, game *models.Game, quote PlayerQuote, slots []models.LineupSlot, homeIdx, awayIdx *reconcile.IdentityIndex) error {
	normalized := reconcile.NormalizeName(quote.Name)

	// (a) Exact normalized-name match against current starters.
	for i := range slots {
		if slots[i].IsStarter() && reconcile.NormalizeName(slots[i].Name) == normalized {
			return s.attachToSlot(ctx, &slots[i], quote)
		}
	}

	// (b) Canonical id already owns a starter row under another
	// spelling of the same player.
	team, canonical := s.resolveTeam(game, quote.Name, homeIdx, awayIdx)
	if canonical.ID != 0 {
		for i := range slots {
			if slots[i].IsStarter() && slots[i].PlayerID == canonical.ID {
				return s.attachToSlot(ctx, &slots[i], quote)
			}
		}
	}

	// (c) Known roster player without a starter row: provisional bench.
	if canonical.ID != 0 {
		slot := &models.LineupSlot{
			GameID:   game.ID,
			Team:     team,
			Position: reconcile.BenchPosition(canonical.ID),
			PlayerID: canonical.ID,
			Name:     canonical.Name,
			Status:   reconcile.StatusBench,
		}
		if err := s.lineups.SaveSlot(slot); err != nil {
			return err
		}
		saved, err := s.lineups.FindPlayerSlot(game.ID, team, canonical.ID)
		if err != nil {
			return err
		}
		return s.attachToSlot(ctx, saved, quote)
	}

	// (d) Cannot be placed on either roster.
	return fmt.Errorf("no roster match for %q", quote.Name)
}

// resolveTeam finds which side of the game a quoted name belongs to.
func (s *OddsService) resolveTeam(game *models.Game, name string, homeIdx, awayIdx *reconcile.IdentityIndex) (string, reconcile.CanonicalPlayer) {
	if p, ok := fuzzyResolve(homeIdx, name, s.playerThreshold); ok {
		return game.HomeTeam, p
	}
	if p, ok := fuzzyResolve(awayIdx, name, s.playerThreshold); ok {
		return game.AwayTeam, p
	}
	return "", reconcile.CanonicalPlayer{}
}

// fuzzyResolve finds the roster player whose name is most similar to a
// quoted free-text name. The index itself only answers exact normalized
// lookups; the tolerance for typos and nicknames lives here, at the one
// call site that deals in book copy. Names that contain each other
// (shortened forms) score at least 0.85. Returns false when nobody
// clears the threshold.
func fuzzyResolve(idx *reconcile.IdentityIndex, name string, threshold float64) (reconcile.CanonicalPlayer, bool) {
	if exact, ok := idx.Lookup(name); ok {
		return exact, true
	}

	normalized := reconcile.NormalizeName(name)
	var best reconcile.CanonicalPlayer
	bestScore := 0.0

	for _, p := range idx.Players() {
		candidate := reconcile.NormalizeName(p.Name)
		score := reconcile.Similarity(name, p.Name)
		if containsEither(normalized, candidate) && score < 0.85 {
			score = 0.85
		}
		if score > bestScore && score >= threshold {
			bestScore = score
			best = p
		}
	}

	return best, bestScore > 0
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// attachToSlot writes the quote's lines onto a slot and attaches the
// rolling over/under result when the player has any history.
func (s *OddsService) attachToSlot(ctx context.Context, slot *models.LineupSlot, quote PlayerQuote) error {
	var overUnder []byte
	if slot.PlayerID != 0 && quote.PointsLine != nil {
		result, err := s.overUnder.Evaluate(ctx, slot.PlayerID, *quote.PointsLine, quote.AssistsLine, quote.ReboundsLine, false)
		if err != nil {
			s.logger.Debugf("Over/under unavailable for player %d: %v", slot.PlayerID, err)
		}
		// Attach only when history exists; a zero-game placeholder is
		// worse than absence.
		if result.TotalGames > 0 {
			if data, err := json.Marshal(result); err == nil {
				overUnder = data
			}
		}
	}

	return s.lineups.AttachLines(slot.ID, quote.PointsLine, quote.AssistsLine, quote.ReboundsLine, overUnder)
}

// recordHistory appends a line-movement snapshot for every quoted
// market outcome. Player ids are filled in where the rosters resolve
// the quoted name; unresolved names keep id 0 and stay queryable by
// name.
func (s *OddsService) recordHistory(game *models.Game, eventID string, odds *providers.EventOdds) {
	capturedAt := time.Now().UTC()
	var snapshots []models.OddsHistory

	homeIdx, err := s.rosters.BuildIndex(game.HomeTeam)
	if err != nil {
		homeIdx = reconcile.NewIdentityIndex(nil)
	}
	awayIdx, err := s.rosters.BuildIndex(game.AwayTeam)
	if err != nil {
		awayIdx = reconcile.NewIdentityIndex(nil)
	}

	for _, book := range odds.Bookmakers {
		for _, market := range book.Markets {
			grouped := make(map[string][]providers.Outcome)
			for _, outcome := range market.Outcomes {
				grouped[outcome.Description] = append(grouped[outcome.Description], outcome)
			}
			for name, outcomes := range grouped {
				snapshot := models.OddsHistory{
					GameID:     game.ID,
					EventID:    eventID,
					PlayerName: name,
					Market:     market.Key,
					Bookmaker:  book.Key,
					CapturedAt: capturedAt,
				}
				if _, p := s.resolveTeam(game, name, homeIdx, awayIdx); p.ID != 0 {
					snapshot.PlayerID = p.ID
				}
				for _, o := range outcomes {
					price := o.Price
					switch o.Name {
					case "Over":
						snapshot.Line = o.Point
						snapshot.OverPrice = &price
					case "Under":
						snapshot.UnderPrice = &price
					}
				}
				if raw, err := json.Marshal(outcomes); err == nil {
					snapshot.RawOutcomes = datatypes.JSON(raw)
				}
				snapshots = append(snapshots, snapshot)
			}
		}
	}

	if err := s.history.Record(snapshots); err != nil {
		s.logger.Warnf("Recording odds history for game %d failed: %v", game.ID, err)
	}
}

// UpdateScores pulls recent scores and writes them onto matching
// games. Matching prefers the stored odds event id and falls back to
// team names around the commence date.
func (s *OddsService) UpdateScores(ctx context.Context, daysFrom int) (BatchResult, error) {
	result := BatchResult{}

	scores, err := s.provider.GetScores(ctx, daysFrom)
	if err != nil {
		return result, fmt.Errorf("scores fetch: %w", err)
	}

	for _, record := range scores {
		if len(record.Scores) == 0 {
			continue
		}
		game, err := s.findGameForScore(record)
		if err != nil {
			s.logger.Debugf("No game for score record %s (%s vs %s)", record.ID, record.AwayTeam, record.HomeTeam)
			result.Failed++
			continue
		}

		home, away, ok := extractScores(record)
		if !ok {
			result.Failed++
			continue
		}
		if err := s.games.SetScore(game.ID, home, away, record.Completed); err != nil {
			s.logger.Warnf("Saving score for game %d: %v", game.ID, err)
			result.Failed++
			continue
		}
		result.Processed++
	}

	return result, nil
}

func (s *OddsService) findGameForScore(record providers.ScoreRecord) (*models.Game, error) {
	if record.ID != "" {
		if game, err := s.games.FindByOddsEventID(record.ID); err == nil {
			return game, nil
		}
	}

	// Fall back to a fuzzy team match around the commence day; the
	// scores feed spells team names its own way.
	for _, offset := range []int{0, -1, 1} {
		day := record.CommenceTime.AddDate(0, 0, offset)
		candidates, err := s.games.GetByDate(day)
		if err != nil {
			return nil, err
		}
		for i := range candidates {
			if reconcile.TeamSimilarity(candidates[i].HomeTeam, record.HomeTeam) >= reconcile.DefaultEventThreshold &&
				reconcile.TeamSimilarity(candidates[i].AwayTeam, record.AwayTeam) >= reconcile.DefaultEventThreshold {
				return &candidates[i], nil
			}
		}
	}
	return nil, fmt.Errorf("no schedule match for %s vs %s", record.AwayTeam, record.HomeTeam)
}

func extractScores(record providers.ScoreRecord) (home, away int, ok bool) {
	for _, ts := range record.Scores {
		value, err := strconv.Atoi(ts.Score)
		if err != nil {
			continue
		}
		switch ts.Name {
		case record.HomeTeam:
			home, ok = value, true
		case record.AwayTeam:
			away = value
		}
	}
	return home, away, ok
}
