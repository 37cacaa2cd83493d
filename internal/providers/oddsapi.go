package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultOddsAPIBaseURL = "https://api.the-odds-api.com"

// OddsAPIClient fetches events, player prop odds and scores from
// The Odds API.
type OddsAPIClient struct {
	httpClient *http.Client
	cache      CacheProvider
	logger     *logrus.Logger
	apiKey     string
	baseURL    string
	sportKey   string
}

// NewOddsAPIClient creates a new Odds API client for NBA markets.
func NewOddsAPIClient(apiKey string, cache CacheProvider, logger *logrus.Logger) *OddsAPIClient {
	return &OddsAPIClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:    cache,
		logger:   logger,
		apiKey:   apiKey,
		baseURL:  defaultOddsAPIBaseURL,
		sportKey: "basketball_nba",
	}
}

// GetEvents fetches the provider's upcoming event list. Events are
// cached briefly so repeated resolution passes don't burn quota.
func (c *OddsAPIClient) GetEvents(ctx context.Context) ([]Event, error) {
	cacheKey := fmt.Sprintf("oddsapi:%s:events", c.sportKey)

	var cached []Event
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/v4/sports/%s/events", c.baseURL, c.sportKey)
	params := url.Values{"apiKey": {c.apiKey}}

	var events []Event
	if err := c.getJSON(ctx, endpoint, params, &events); err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	c.logger.Infof("Received %d events from The Odds API", len(events))

	if len(events) > 0 {
		c.cache.SetSimple(cacheKey, events, 5*time.Minute)
	}

	return events, nil
}

// GetEventOdds fetches player prop odds for one event, filtered down to
// the FanDuel book and the points/assists/rebounds markets. A nil
// result with nil error means the book has no props up for the event.
func (c *OddsAPIClient) GetEventOdds(ctx context.Context, eventID string) (*EventOdds, error) {
	cacheKey := fmt.Sprintf("oddsapi:%s:odds:%s", c.sportKey, eventID)

	var cached EventOdds
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	endpoint := fmt.Sprintf("%s/v4/sports/%s/events/%s/odds", c.baseURL, c.sportKey, eventID)
	params := url.Values{
		"apiKey":     {c.apiKey},
		"regions":    {"us"},
		"markets":    {MarketPlayerPoints + "," + MarketPlayerAssists + "," + MarketPlayerRebounds},
		"oddsFormat": {"american"},
	}

	var raw EventOdds
	if err := c.getJSON(ctx, endpoint, params, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch odds for event %s: %w", eventID, err)
	}

	filtered := filterBookmakers(raw)
	if filtered == nil {
		c.logger.Warnf("No FanDuel player props for event %s", eventID)
		return nil, nil
	}

	c.cache.SetSimple(cacheKey, *filtered, 2*time.Minute)
	return filtered, nil
}

// GetScores fetches recent scores. daysFrom controls how far back the
// provider looks for completed games (max 3 on their side).
func (c *OddsAPIClient) GetScores(ctx context.Context, daysFrom int) ([]ScoreRecord, error) {
	endpoint := fmt.Sprintf("%s/v4/sports/%s/scores", c.baseURL, c.sportKey)
	params := url.Values{"apiKey": {c.apiKey}}
	if daysFrom > 0 {
		params.Set("daysFrom", fmt.Sprintf("%d", daysFrom))
	}

	var scores []ScoreRecord
	if err := c.getJSON(ctx, endpoint, params, &scores); err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}

	c.logger.Infof("Received %d score records from The Odds API", len(scores))
	return scores, nil
}

func (c *OddsAPIClient) getJSON(ctx context.Context, endpoint string, params url.Values, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

// filterBookmakers keeps only FanDuel's player prop markets. Returns
// nil when FanDuel is absent or carries none of our markets.
func filterBookmakers(odds EventOdds) *EventOdds {
	propMarkets := map[string]bool{
		MarketPlayerPoints:   true,
		MarketPlayerAssists:  true,
		MarketPlayerRebounds: true,
	}

	for _, book := range odds.Bookmakers {
		if book.Key != BookmakerFanDuel {
			continue
		}
		var kept []Market
		for _, m := range book.Markets {
			if propMarkets[m.Key] {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			return nil
		}
		book.Markets = kept
		odds.Bookmakers = []Bookmaker{book}
		return &odds
	}

	return nil
}
