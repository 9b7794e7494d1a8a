package engine

import (
	"fmt"
	"sort"

	"github.com/talgya/statecraft/internal/world"
)

// applyAllianceOverture warms the relation between two countries and, once
// the standing reaches allied level without an existing shared alliance,
// forms a bilateral pact. Used by agent and player turn actions.
func applyAllianceOverture(st *world.State, from, to string, sum *TurnSummary) {
	if from == to || st.Country(to) == nil {
		return
	}
	st.ShiftRelation(from, to, 10, fmt.Sprintf("alliance overture by %s", from))
	sum.effect(fmt.Sprintf("%s made an alliance overture to %s", from, to))

	if st.RelationBetween(from, to).Level() != world.RelationAllied {
		return
	}
	for _, a := range st.Alliances {
		if a.HasMember(from) && a.HasMember(to) {
			return
		}
	}
	members := []string{from, to}
	sort.Strings(members)
	name := fmt.Sprintf("%s-%s pact", members[0], members[1])
	formAlliance(st, name, members)
	sum.effect(fmt.Sprintf("alliance formed: %s", name))
}

func formAlliance(st *world.State, name string, members []string) {
	st.Alliances = append(st.Alliances, &world.Alliance{
		Name:       name,
		Members:    append([]string(nil), members...),
		FormedTurn: st.Turn,
	})
	for _, iso := range members {
		c := st.Country(iso)
		if c != nil && !c.InBloc(name) {
			c.Blocs = append(c.Blocs, name)
		}
	}
}

// ProposeAlliance forms a named alliance between the given members. The
// operation is clone-based like ApplyTurn: on any validation failure the
// input state is returned untouched.
func ProposeAlliance(st *world.State, name string, members []string) (*world.State, error) {
	if name == "" || len(members) < 2 {
		return st, fmt.Errorf("%w: alliance needs a name and at least two members", ErrInvalidPolicy)
	}
	if st.AllianceByName(name) != nil {
		return st, fmt.Errorf("%w: alliance %q already exists", ErrInvalidPolicy, name)
	}
	seen := make(map[string]bool, len(members))
	for _, iso := range members {
		if st.Country(iso) == nil {
			return st, fmt.Errorf("%w: country %q", ErrUnknownEntity, iso)
		}
		if seen[iso] {
			return st, fmt.Errorf("%w: duplicate member %q", ErrInvalidPolicy, iso)
		}
		seen[iso] = true
	}

	next := st.Clone()
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	formAlliance(next, name, sorted)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			next.ShiftRelation(sorted[i], sorted[j], 20, fmt.Sprintf("joined %s", name))
		}
	}
	return next, nil
}

// DisbandAlliance dissolves a named alliance and removes it from every
// member's bloc list.
func DisbandAlliance(st *world.State, name string) (*world.State, error) {
	a := st.AllianceByName(name)
	if a == nil {
		return st, fmt.Errorf("%w: alliance %q", ErrUnknownEntity, name)
	}

	next := st.Clone()
	kept := next.Alliances[:0]
	for _, al := range next.Alliances {
		if al.Name != name {
			kept = append(kept, al)
		}
	}
	next.Alliances = kept
	for _, iso := range a.Members {
		c := next.Country(iso)
		if c == nil {
			continue
		}
		blocs := c.Blocs[:0]
		for _, b := range c.Blocs {
			if b != name {
				blocs = append(blocs, b)
			}
		}
		c.Blocs = blocs
	}
	return next, nil
}

// driftRelations relaxes every relation score toward neutral by a small
// fraction per turn.
func driftRelations(st *world.State) {
	for _, key := range st.SortedRelationKeys() {
		r := st.Relations[key]
		r.Score -= r.Score * 0.05
	}
}
