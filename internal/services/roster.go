package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nbaedge/props-api/internal/models"
	"github.com/nbaedge/props-api/internal/providers"
	"github.com/nbaedge/props-api/internal/reconcile"
	"github.com/nbaedge/props-api/internal/store"
	"github.com/sirupsen/logrus"
)

// NBATeams lists every team abbreviation in upstream order; a full
// roster sweep walks this list.
var NBATeams = []string{
	"ATL", "BOS", "BKN", "CHA", "CHI", "CLE", "DAL", "DEN", "DET", "GSW",
	"HOU", "IND", "LAC", "LAL", "MEM", "MIA", "MIL", "MIN", "NOP", "NYK",
	"OKC", "ORL", "PHI", "PHX", "POR", "SAC", "SAS", "TOR", "UTA", "WAS",
}

// RosterProvider is the upstream roster feed.
type RosterProvider interface {
	GetTeamPlayers(ctx context.Context, teamAbbr string) ([]providers.TeamRosterEntry, error)
}

// BatchResult reports per-unit outcomes of a bulk operation. An empty
// batch is not a failure; Failed counts only units that errored.
type BatchResult struct {
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// RosterService imports official rosters and builds the per-team
// identity index every other feed is matched against.
type RosterService struct {
	provider  RosterProvider
	rosters   *store.RosterStore
	logger    *logrus.Logger
	delay     time.Duration
	longDelay time.Duration
}

// NewRosterService creates a roster service. delay paces consecutive
// team fetches; longDelay replaces it every 10th team so a full 30-team
// sweep stays under the upstream's burst limits.
func NewRosterService(provider RosterProvider, rosters *store.RosterStore, logger *logrus.Logger, delay, longDelay time.Duration) *RosterService {
	return &RosterService{
		provider:  provider,
		rosters:   rosters,
		logger:    logger,
		delay:     delay,
		longDelay: longDelay,
	}
}

// ImportTeam fetches and persists one team's roster, replacing the
// previous set wholesale.
func (s *RosterService) ImportTeam(ctx context.Context, team string) (int, error) {
	entries, err := s.provider.GetTeamPlayers(ctx, team)
	if err != nil {
		return 0, fmt.Errorf("roster fetch for %s failed: %w", team, err)
	}

	players := make([]models.RosterPlayer, 0, len(entries))
	for _, e := range entries {
		if e.ID == 0 || e.FullName == "" {
			continue
		}
		players = append(players, models.RosterPlayer{
			PlayerID: e.ID,
			Name:     e.FullName,
			Team:     team,
			Position: e.Position,
			Jersey:   e.Jersey,
		})
	}

	if err := s.rosters.ReplaceTeam(team, players); err != nil {
		return 0, fmt.Errorf("roster save for %s failed: %w", team, err)
	}

	s.logger.Infof("Imported %d roster players for %s", len(players), team)
	return len(players), nil
}

// ImportAllTeams runs a paced sequential import over the given teams.
// One team's failure never aborts the batch; it is logged, counted and
// the loop moves on. Every 10th team the pause stretches to the long
// delay to stay clear of the upstream rate limiter.
func (s *RosterService) ImportAllTeams(ctx context.Context, teams []string) BatchResult {
	result := BatchResult{}

	for i, team := range teams {
		if i > 0 {
			pause := s.delay
			if i%10 == 0 {
				pause = s.longDelay
			}
			select {
			case <-ctx.Done():
				result.Errors = append(result.Errors, fmt.Sprintf("aborted before %s: %v", team, ctx.Err()))
				return result
			case <-time.After(pause):
			}
		}

		if _, err := s.ImportTeam(ctx, team); err != nil {
			s.logger.Warnf("Roster import failed for %s: %v", team, err)
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Processed++
	}

	s.logger.Infof("Roster import complete: %d ok, %d failed", result.Processed, result.Failed)
	return result
}

// BuildIndex builds the identity index for a team from the stored
// roster. Returns an empty index when the team has no rows yet.
func (s *RosterService) BuildIndex(team string) (*reconcile.IdentityIndex, error) {
	players, err := s.rosters.GetByTeam(team)
	if err != nil {
		return nil, err
	}

	canonical := make([]reconcile.CanonicalPlayer, len(players))
	for i, p := range players {
		canonical[i] = reconcile.CanonicalPlayer{
			ID:       p.PlayerID,
			Name:     p.Name,
			Team:     p.Team,
			Position: p.Position,
		}
	}
	return reconcile.NewIdentityIndex(canonical), nil
}
