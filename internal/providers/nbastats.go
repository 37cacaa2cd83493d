package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// NBAStatsClient fetches rosters and player game logs from the NBA
// stats service. The upstream throttles aggressively, so every request
// goes through a shared rate limiter and a circuit breaker.
type NBAStatsClient struct {
	httpClient  *http.Client
	cache       CacheProvider
	logger      *logrus.Logger
	rateLimiter *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	baseURL     string
}

// NewNBAStatsClient creates a new NBA stats client.
func NewNBAStatsClient(baseURL string, cache CacheProvider, logger *logrus.Logger) *NBAStatsClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "nba-stats",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &NBAStatsClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:       cache,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Every(600*time.Millisecond), 1),
		breaker:     cb,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

type statsEnvelope struct {
	Success  bool              `json:"success"`
	Error    string            `json:"error"`
	Games    []PlayerGameLog   `json:"games"`
	Players  []TeamRosterEntry `json:"players"`
	PlayerID int               `json:"player_id"`
}

// GetPlayerGameLog fetches the current-season game log for a player,
// most recent game first.
func (c *NBAStatsClient) GetPlayerGameLog(ctx context.Context, playerID int) ([]PlayerGameLog, error) {
	cacheKey := fmt.Sprintf("nbastats:gamelog:%d", playerID)

	var cached []PlayerGameLog
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/players/%d/game-log", c.baseURL, playerID)
	env, err := c.getEnvelope(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game log for player %d: %w", playerID, err)
	}

	if len(env.Games) > 0 {
		c.cache.SetSimple(cacheKey, env.Games, 30*time.Minute)
	}
	return env.Games, nil
}

// GetTeamPlayers fetches the official roster for a team abbreviation.
func (c *NBAStatsClient) GetTeamPlayers(ctx context.Context, teamAbbr string) ([]TeamRosterEntry, error) {
	cacheKey := fmt.Sprintf("nbastats:roster:%s", teamAbbr)

	var cached []TeamRosterEntry
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/teams/%s/players", c.baseURL, teamAbbr)
	env, err := c.getEnvelope(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster for team %s: %w", teamAbbr, err)
	}

	if len(env.Players) > 0 {
		c.cache.SetSimple(cacheKey, env.Players, time.Hour)
	}
	return env.Players, nil
}

// FindPlayerIDByName resolves a free-text player name to the official
// player id. Returns 0 with nil error when no player matches.
func (c *NBAStatsClient) FindPlayerIDByName(ctx context.Context, name string) (int, error) {
	cacheKey := fmt.Sprintf("nbastats:playerid:%s", strings.ToLower(name))

	var cached int
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/players/find-by-name", c.baseURL)
	params := url.Values{"name": {name}}
	env, err := c.getEnvelope(ctx, endpoint, params)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve player id for %q: %w", name, err)
	}

	if env.PlayerID != 0 {
		c.cache.SetSimple(cacheKey, env.PlayerID, 24*time.Hour)
	}
	return env.PlayerID, nil
}

func (c *NBAStatsClient) getEnvelope(ctx context.Context, endpoint string, params url.Values) (*statsEnvelope, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		target := endpoint
		if len(params) > 0 {
			target += "?" + params.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		var env statsEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return nil, err
		}
		return &env, nil
	})
	if err != nil {
		return nil, err
	}

	env := result.(*statsEnvelope)
	if !env.Success {
		return nil, fmt.Errorf("stats service error: %s", env.Error)
	}
	return env, nil
}
