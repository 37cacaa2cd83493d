package reconcile

import "fmt"

// Player role within a game's lineup. STARTER is terminal: once a player
// is recorded as a starter for a game, later feeds may not demote them.
const (
	StatusStarter = "STARTER"
	StatusBench   = "BENCH"
)

// Starting positions. Bench rows use a synthetic "BENCH-<playerID>"
// position so a team can carry any number of them under the composite key.
var StartingPositions = [5]string{"PG", "SG", "SF", "PF", "C"}

// IsStartingPosition reports whether pos is one of the five on-court slots.
func IsStartingPosition(pos string) bool {
	for _, p := range StartingPositions {
		if p == pos {
			return true
		}
	}
	return false
}

// BenchPosition builds the composite key position for a bench row.
func BenchPosition(playerID int) string {
	return fmt.Sprintf("BENCH-%d", playerID)
}

// SlotState is the lineup-slot state the transition function operates on.
type SlotState struct {
	Position  string
	Status    string
	Confirmed bool
}

// ApplyLineupSlot merges an incoming slot write into an existing row and
// returns the row that must be persisted. It encodes the upgrade-only rule:
//
//	UNSEEN -> BENCH -> STARTER
//
// A STARTER row never goes back to BENCH; a conflicting BENCH write leaves
// the existing row untouched (conflict=true so the caller can log it). A
// STARTER write over a BENCH row is a promotion and adopts the incoming
// position. The confirmed flag is sticky once set.
func ApplyLineupSlot(old *SlotState, incoming SlotState) (SlotState, bool) {
	if old == nil {
		return incoming, false
	}

	if old.Status == StatusStarter && incoming.Status == StatusBench {
		// Downgrade attempt: the earlier STARTER write wins.
		return *old, true
	}

	merged := incoming
	if old.Confirmed {
		merged.Confirmed = true
	}
	return merged, false
}
