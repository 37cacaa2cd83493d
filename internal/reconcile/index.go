package reconcile

// CanonicalPlayer is a player identity as known from the official roster
// feed — the source of truth for player ids.
type CanonicalPlayer struct {
	ID       int
	Name     string
	Team     string
	Position string
}

// IdentityIndex is a per-team lookup from normalized player name to the
// canonical roster record. It is rebuilt from the current roster on every
// import and never mutated in place; lookups are exact-match only, so they
// stay O(1) and deterministic. Fuzzy matching against free text is the
// caller's job (combine Lookup misses with Similarity).
type IdentityIndex struct {
	byName  map[string]CanonicalPlayer
	byID    map[int]CanonicalPlayer
	players []CanonicalPlayer
}

// NewIdentityIndex builds an index over the given roster set.
func NewIdentityIndex(players []CanonicalPlayer) *IdentityIndex {
	idx := &IdentityIndex{
		byName:  make(map[string]CanonicalPlayer, len(players)),
		byID:    make(map[int]CanonicalPlayer, len(players)),
		players: make([]CanonicalPlayer, len(players)),
	}
	copy(idx.players, players)
	for _, p := range players {
		idx.byName[NormalizeName(p.Name)] = p
		if p.ID != 0 {
			idx.byID[p.ID] = p
		}
	}
	return idx
}

// Lookup returns the canonical player for a raw name, matching on the
// normalized form only.
func (idx *IdentityIndex) Lookup(name string) (CanonicalPlayer, bool) {
	p, ok := idx.byName[NormalizeName(name)]
	return p, ok
}

// LookupID returns the canonical player for a known player id.
func (idx *IdentityIndex) LookupID(id int) (CanonicalPlayer, bool) {
	p, ok := idx.byID[id]
	return p, ok
}

// Size returns the number of indexed players.
func (idx *IdentityIndex) Size() int {
	return len(idx.players)
}

// Players returns the indexed roster set.
func (idx *IdentityIndex) Players() []CanonicalPlayer {
	return idx.players
}
