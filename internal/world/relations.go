package world

import (
	"sort"
	"strings"
)

// RelationLevel is the qualitative standing between two countries, derived
// from the numeric score.
type RelationLevel uint8

const (
	RelationHostile RelationLevel = iota
	RelationTense
	RelationNeutral
	RelationFriendly
	RelationAllied
)

// String names the relation level.
func (l RelationLevel) String() string {
	switch l {
	case RelationHostile:
		return "hostile"
	case RelationTense:
		return "tense"
	case RelationNeutral:
		return "neutral"
	case RelationFriendly:
		return "friendly"
	case RelationAllied:
		return "allied"
	}
	return "unknown"
}

// Relation tracks the standing between a pair of countries. Score runs from
// -100 (hostile) to +100 (allied) and drifts toward neutral over time.
type Relation struct {
	Score       float64 `json:"score"`
	LastTrigger string  `json:"last_trigger,omitempty"`
}

// Level maps the numeric score onto the qualitative scale.
func (r *Relation) Level() RelationLevel {
	switch {
	case r.Score <= -60:
		return RelationHostile
	case r.Score <= -20:
		return RelationTense
	case r.Score < 20:
		return RelationNeutral
	case r.Score < 60:
		return RelationFriendly
	default:
		return RelationAllied
	}
}

// PairKey builds the canonical relation key for two ISO codes.
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// SplitPairKey returns the two ISO codes of a relation key.
func SplitPairKey(key string) (string, string) {
	parts := strings.SplitN(key, "|", 2)
	if len(parts) != 2 {
		return key, ""
	}
	return parts[0], parts[1]
}

// RelationBetween returns the relation record for a pair, creating a neutral
// one on first touch.
func (st *State) RelationBetween(a, b string) *Relation {
	if st.Relations == nil {
		st.Relations = make(map[string]*Relation)
	}
	key := PairKey(a, b)
	r, ok := st.Relations[key]
	if !ok {
		r = &Relation{}
		st.Relations[key] = r
	}
	return r
}

// ShiftRelation moves a pair's score by delta, clamped to [-100, 100], and
// records the triggering cause.
func (st *State) ShiftRelation(a, b string, delta float64, trigger string) {
	r := st.RelationBetween(a, b)
	r.Score += delta
	if r.Score > 100 {
		r.Score = 100
	}
	if r.Score < -100 {
		r.Score = -100
	}
	r.LastTrigger = trigger
}

// SortedRelationKeys returns relation keys in lexical order for
// deterministic iteration.
func (st *State) SortedRelationKeys() []string {
	keys := make([]string, 0, len(st.Relations))
	for k := range st.Relations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Alliance is a named set of member countries formed by explicit diplomacy.
type Alliance struct {
	Name       string   `json:"name"`
	Members    []string `json:"members"`
	FormedTurn int      `json:"formed_turn"`
}

// HasMember reports membership by ISO code.
func (a *Alliance) HasMember(iso string) bool {
	for _, m := range a.Members {
		if m == iso {
			return true
		}
	}
	return false
}

// AllianceByName returns the named alliance, or nil.
func (st *State) AllianceByName(name string) *Alliance {
	for _, a := range st.Alliances {
		if a.Name == name {
			return a
		}
	}
	return nil
}
