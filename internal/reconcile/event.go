package reconcile

import (
	"time"

	"github.com/sirupsen/logrus"
)

// maxCommenceDrift is how far an odds event's commence time may sit from
// our scheduled game date before the candidate is rejected outright.
const maxCommenceDrift = 48 * time.Hour

// DefaultEventThreshold is the minimum combined team-similarity score for
// accepting an event match. Tuned empirically; override via config.
const DefaultEventThreshold = 0.6

// EventCandidate is one event from the odds provider's schedule.
type EventCandidate struct {
	ID           string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time // zero when the provider's timestamp failed to parse
}

// EventResolver maps an internal game to the odds provider's event id by
// team-name similarity and commence-time proximity. The two feeds share no
// identifier, so this is fuzzy by necessity.
type EventResolver struct {
	threshold float64
	logger    *logrus.Logger
}

// NewEventResolver creates a resolver with the given acceptance threshold.
// A threshold <= 0 falls back to the default.
func NewEventResolver(threshold float64, logger *logrus.Logger) *EventResolver {
	if threshold <= 0 {
		threshold = DefaultEventThreshold
	}
	return &EventResolver{threshold: threshold, logger: logger}
}

// Resolve returns the best-matching event id for the game, or "" when no
// candidate qualifies. A miss is a normal outcome — the provider often
// publishes events later than our schedule import — so it is not an error.
func (r *EventResolver) Resolve(homeTeam, awayTeam string, gameDate time.Time, events []EventCandidate) string {
	bestID := ""
	bestScore := 0.0

	for _, event := range events {
		// Reject only when both timestamps are known; a missing or
		// unparseable time keeps the candidate in play.
		if !gameDate.IsZero() && !event.CommenceTime.IsZero() {
			drift := event.CommenceTime.Sub(gameDate)
			if drift < 0 {
				drift = -drift
			}
			if drift > maxCommenceDrift {
				r.logger.Debugf("Skipping event %s: commence time %.1fh from game date",
					event.ID, drift.Hours())
				continue
			}
		}

		// Some feeds flip home/away labeling; score both orientations.
		normal := (TeamSimilarity(homeTeam, event.HomeTeam) + TeamSimilarity(awayTeam, event.AwayTeam)) / 2
		swapped := (TeamSimilarity(homeTeam, event.AwayTeam) + TeamSimilarity(awayTeam, event.HomeTeam)) / 2
		score := max(normal, swapped)

		if score > bestScore && score >= r.threshold {
			bestScore = score
			bestID = event.ID
		}
	}

	if bestID != "" {
		r.logger.Debugf("Matched event %s for %s vs %s (score %.2f)", bestID, awayTeam, homeTeam, bestScore)
	} else {
		r.logger.Debugf("No event match for %s vs %s (best score %.2f)", awayTeam, homeTeam, bestScore)
	}
	return bestID
}
