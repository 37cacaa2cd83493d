package reconcile

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// teamStopwords are filler words some odds feeds add to team names.
var teamStopwords = map[string]bool{
	"the":  true,
	"team": true,
	"club": true,
}

// Similarity scores two free-text names between 0.0 and 1.0.
// Exact normalized match is 1.0; containment (e.g. "Lakers" vs
// "Los Angeles Lakers") lands between 0.7 and 0.9 scaled by length ratio;
// anything else falls back to an edit-distance ratio computed on both the
// raw and normalized forms. Commutative.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	aLower := strings.ToLower(strings.TrimSpace(a))
	bLower := strings.ToLower(strings.TrimSpace(b))
	if aLower == bLower {
		return 1.0
	}

	aNorm := NormalizeName(a)
	bNorm := NormalizeName(b)
	if aNorm == bNorm {
		return 1.0
	}

	if score, ok := containmentScore(aNorm, bNorm); ok {
		return score
	}

	raw := editRatio(aLower, bLower)
	normalized := editRatio(aNorm, bNorm)
	return max(raw, normalized)
}

// TeamSimilarity is Similarity with team-name stopwords stripped first.
// An exact match after stopword stripping scores 0.95 rather than 1.0 so a
// truly identical name still ranks above it.
func TeamSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	aLower := strings.ToLower(strings.TrimSpace(a))
	bLower := strings.ToLower(strings.TrimSpace(b))
	if aLower == bLower {
		return 1.0
	}

	aStripped := stripTeamStopwords(aLower)
	bStripped := stripTeamStopwords(bLower)
	if aStripped == bStripped {
		return 0.95
	}

	if score, ok := containmentScore(aStripped, bStripped); ok {
		return score
	}

	raw := editRatio(aLower, bLower)
	stripped := editRatio(aStripped, bStripped)
	return max(raw, stripped)
}

// containmentScore handles one name containing the other, e.g. a feed that
// sends "Lakers" where the schedule has "Los Angeles Lakers".
func containmentScore(a, b string) (float64, bool) {
	if a == "" || b == "" {
		return 0, false
	}
	if !strings.Contains(a, b) && !strings.Contains(b, a) {
		return 0, false
	}

	shorter := len(a)
	longer := len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	return 0.7 + 0.2*(float64(shorter)/float64(longer)), true
}

// editRatio converts Levenshtein distance to a 0-1 similarity.
func editRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

func stripTeamStopwords(name string) string {
	words := strings.Fields(name)
	kept := words[:0]
	for _, w := range words {
		if !teamStopwords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
