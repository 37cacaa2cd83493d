package providers

import "time"

// CacheProvider interface for cache operations
type CacheProvider interface {
	SetSimple(key string, value interface{}, expiration time.Duration) error
	GetSimple(key string, dest interface{}) error
}

// Prop markets we track, as the odds provider names them.
const (
	MarketPlayerPoints   = "player_points"
	MarketPlayerAssists  = "player_assists"
	MarketPlayerRebounds = "player_rebounds"
)

// BookmakerFanDuel is the only book whose lines we surface.
const BookmakerFanDuel = "fanduel"

// Event is one upcoming game as the odds provider lists it.
type Event struct {
	ID           string    `json:"id"`
	SportKey     string    `json:"sport_key"`
	SportTitle   string    `json:"sport_title"`
	CommenceTime time.Time `json:"commence_time"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
}

// EventOdds is an event together with its prop markets, already
// filtered down to the bookmaker and markets we care about.
type EventOdds struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker is one book's set of markets for an event.
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// Market is one prop market, e.g. player_points.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is one side of a prop line. Name is "Over" or "Under",
// Description carries the player name as free text.
type Outcome struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int     `json:"price"`
	Point       float64 `json:"point"`
}

// ScoreRecord is one game's final or in-progress score from the odds
// provider's scores endpoint.
type ScoreRecord struct {
	ID           string      `json:"id"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Completed    bool        `json:"completed"`
	Scores       []TeamScore `json:"scores"`
}

// TeamScore pairs a team name with its score, kept as a string because
// the provider sends it that way.
type TeamScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// LineupSheet is one day's projected lineups, keyed by team.
type LineupSheet struct {
	LineupDate string                       `json:"lineup_date"`
	Lineups    map[string]map[string]LineupEntry `json:"lineups"`
}

// LineupEntry is one player in a team's projected five. Confirmed is
// "1"/"0" in the upstream payload.
type LineupEntry struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Confirmed string `json:"confirmed"`
}

// IsConfirmed interprets the upstream confirmed flag.
func (e LineupEntry) IsConfirmed() bool {
	return e.Confirmed == "1" || e.Confirmed == "true"
}

// DepthChartBook is the league-wide depth chart payload, keyed by team
// abbreviation and then by position.
type DepthChartBook struct {
	Season int                                     `json:"season"`
	Charts map[string]map[string][]DepthChartEntry `json:"charts"`
}

// DepthChartEntry is one player on a positional depth chart. Depth is a
// string in the upstream payload; "1" is the starter.
type DepthChartEntry struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Depth    string `json:"depth"`
}

// TeamRosterEntry is one player on a team's official roster.
type TeamRosterEntry struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Team     string `json:"team_abbreviation"`
	Position string `json:"position"`
	Jersey   string `json:"jersey"`
}

// PlayerGameLog is one historical game's stat line from the stats feed.
// Raw keeps the provider's full payload for the columns we don't model.
type PlayerGameLog struct {
	GameDate string                 `json:"game_date"`
	Matchup  string                 `json:"matchup"`
	Points   float64                `json:"points"`
	Assists  float64                `json:"assists"`
	Rebounds float64                `json:"rebounds"`
	Minutes  float64                `json:"minutes"`
	Raw      map[string]interface{} `json:"raw,omitempty"`
}
