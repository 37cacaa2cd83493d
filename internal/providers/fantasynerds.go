package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// FantasyNerdsClient fetches projected lineups from the FantasyNerds
// API. Lineup data goes stale fast on game days, so the cache window is
// deliberately short.
type FantasyNerdsClient struct {
	httpClient *http.Client
	cache      CacheProvider
	logger     *logrus.Logger
	apiKey     string
	baseURL    string
}

// NewFantasyNerdsClient creates a new FantasyNerds client.
func NewFantasyNerdsClient(apiKey, baseURL string, cache CacheProvider, logger *logrus.Logger) *FantasyNerdsClient {
	if baseURL == "" {
		baseURL = "https://api.fantasynerds.com/v1/nba"
	}
	return &FantasyNerdsClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:   cache,
		logger:  logger,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GetLineupsByDate fetches projected lineups for a date (YYYY-MM-DD).
func (c *FantasyNerdsClient) GetLineupsByDate(ctx context.Context, date string) (*LineupSheet, error) {
	cacheKey := fmt.Sprintf("fantasynerds:lineups:%s", date)

	var cached LineupSheet
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	endpoint := fmt.Sprintf("%s/lineups?apikey=%s&date=%s", c.baseURL, c.apiKey, date)
	c.logger.Infof("Fetching lineups from FantasyNerds for date %s", date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lineups: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lineups request returned status %d", resp.StatusCode)
	}

	var sheet LineupSheet
	if err := json.NewDecoder(resp.Body).Decode(&sheet); err != nil {
		return nil, fmt.Errorf("invalid lineups payload: %w", err)
	}

	// The feed sometimes sends YYYYMMDD.
	if len(sheet.LineupDate) == 8 {
		d := sheet.LineupDate
		sheet.LineupDate = d[:4] + "-" + d[4:6] + "-" + d[6:8]
	}
	if sheet.LineupDate == "" {
		sheet.LineupDate = date
	}

	c.logger.Infof("Received lineups for %d teams (date %s)", len(sheet.Lineups), sheet.LineupDate)

	if len(sheet.Lineups) > 0 {
		c.cache.SetSimple(cacheKey, sheet, 2*time.Minute)
	}

	return &sheet, nil
}

// GetDepthCharts fetches the positional depth charts for every team.
// Depth charts move on trades and injuries, not game to game, so the
// cache window is generous.
func (c *FantasyNerdsClient) GetDepthCharts(ctx context.Context) (*DepthChartBook, error) {
	cacheKey := "fantasynerds:depth-charts"

	var cached DepthChartBook
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	endpoint := fmt.Sprintf("%s/depth?apikey=%s", c.baseURL, c.apiKey)
	c.logger.Info("Fetching depth charts from FantasyNerds")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch depth charts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("depth charts request returned status %d", resp.StatusCode)
	}

	var book DepthChartBook
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		return nil, fmt.Errorf("invalid depth charts payload: %w", err)
	}

	c.logger.Infof("Received depth charts for %d teams (season %d)", len(book.Charts), book.Season)

	if len(book.Charts) > 0 {
		c.cache.SetSimple(cacheKey, book, time.Hour)
	}

	return &book, nil
}
