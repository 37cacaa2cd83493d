package reconcile

import (
	"math"
	"time"
)

// Over/under classification for a single historical game against a line.
const (
	ResultOver  = "OVER"
	ResultUnder = "UNDER"
	ResultPush  = "PUSH"
)

// Over/under data provenance.
const (
	SourceLocal = "local"
	SourceLive  = "live"
)

// GameSample is one historical game's stat line, most recent first.
type GameSample struct {
	GameDate time.Time
	Points   *float64
	Assists  *float64
	Rebounds *float64
	Matchup  string
}

// GameResult is one game's points value classified against the points line.
type GameResult struct {
	GameDate time.Time `json:"game_date"`
	Points   float64   `json:"points"`
	Result   string    `json:"result"`
	Matchup  string    `json:"matchup"`
}

// OverUnderResult tallies how often a player's recent games cleared the
// betting line. A push (value exactly on the line) lands in neither bucket
// but does count toward TotalGames, so OverPct+UnderPct may be under 100.
type OverUnderResult struct {
	OverCount  int          `json:"over_count"`
	UnderCount int          `json:"under_count"`
	TotalGames int          `json:"total_games"`
	OverPct    float64      `json:"over_percentage"`
	UnderPct   float64      `json:"under_percentage"`
	Games      []GameResult `json:"games"`

	AssistsOverCount   *int `json:"assists_over_count,omitempty"`
	AssistsUnderCount  *int `json:"assists_under_count,omitempty"`
	ReboundsOverCount  *int `json:"rebounds_over_count,omitempty"`
	ReboundsUnderCount *int `json:"rebounds_under_count,omitempty"`

	Source string `json:"source"`
}

// TallyOverUnder classifies each sample's points against pointsLine and,
// when assistsLine/reboundsLine are given, tallies those markets too.
// Samples without a points value are skipped entirely.
func TallyOverUnder(samples []GameSample, pointsLine float64, assistsLine, reboundsLine *float64, source string) OverUnderResult {
	result := OverUnderResult{
		Games:  []GameResult{},
		Source: source,
	}

	var assistsOver, assistsUnder, reboundsOver, reboundsUnder int

	for _, sample := range samples {
		if sample.Points != nil {
			points := *sample.Points
			outcome := ResultPush
			switch {
			case points > pointsLine:
				result.OverCount++
				outcome = ResultOver
			case points < pointsLine:
				result.UnderCount++
				outcome = ResultUnder
			}
			result.Games = append(result.Games, GameResult{
				GameDate: sample.GameDate,
				Points:   points,
				Result:   outcome,
				Matchup:  sample.Matchup,
			})
		}

		if assistsLine != nil && sample.Assists != nil {
			switch {
			case *sample.Assists > *assistsLine:
				assistsOver++
			case *sample.Assists < *assistsLine:
				assistsUnder++
			}
		}
		if reboundsLine != nil && sample.Rebounds != nil {
			switch {
			case *sample.Rebounds > *reboundsLine:
				reboundsOver++
			case *sample.Rebounds < *reboundsLine:
				reboundsUnder++
			}
		}
	}

	result.TotalGames = len(result.Games)
	if result.TotalGames > 0 {
		result.OverPct = roundPct(float64(result.OverCount) / float64(result.TotalGames) * 100)
		result.UnderPct = roundPct(float64(result.UnderCount) / float64(result.TotalGames) * 100)
	}

	if assistsLine != nil {
		result.AssistsOverCount = &assistsOver
		result.AssistsUnderCount = &assistsUnder
	}
	if reboundsLine != nil {
		result.ReboundsOverCount = &reboundsOver
		result.ReboundsUnderCount = &reboundsUnder
	}

	return result
}

func roundPct(v float64) float64 {
	return math.Round(v*10) / 10
}
