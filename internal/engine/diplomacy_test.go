package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/statecraft/internal/world"
)

func TestProposeAlliance(t *testing.T) {
	p := testParams()
	st := testWorld(t, p)

	next, err := ProposeAlliance(st, "pacific pact", []string{"USA", "CHN"})
	require.NoError(t, err)

	a := next.AllianceByName("pacific pact")
	require.NotNil(t, a)
	assert.ElementsMatch(t, []string{"USA", "CHN"}, a.Members)
	assert.True(t, next.Country("USA").InBloc("pacific pact"))
	assert.True(t, next.Country("CHN").InBloc("pacific pact"))
	assert.Positive(t, next.Relations[world.PairKey("USA", "CHN")].Score)

	// The input snapshot is untouched.
	assert.Nil(t, st.AllianceByName("pacific pact"))
	assert.False(t, st.Country("USA").InBloc("pacific pact"))
}

func TestProposeAllianceValidation(t *testing.T) {
	p := testParams()
	st := testWorld(t, p)

	_, err := ProposeAlliance(st, "", []string{"USA", "CHN"})
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = ProposeAlliance(st, "solo", []string{"USA"})
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	_, err = ProposeAlliance(st, "ghosts", []string{"USA", "ZZZ"})
	assert.ErrorIs(t, err, ErrUnknownEntity)

	_, err = ProposeAlliance(st, "twins", []string{"USA", "USA"})
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	withPact, err := ProposeAlliance(st, "pact", []string{"USA", "CHN"})
	require.NoError(t, err)
	_, err = ProposeAlliance(withPact, "pact", []string{"USA", "DEU"})
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestDisbandAlliance(t *testing.T) {
	p := testParams()
	st := testWorld(t, p)

	withPact, err := ProposeAlliance(st, "pact", []string{"USA", "DEU"})
	require.NoError(t, err)

	after, err := DisbandAlliance(withPact, "pact")
	require.NoError(t, err)
	assert.Nil(t, after.AllianceByName("pact"))
	assert.False(t, after.Country("USA").InBloc("pact"))
	assert.False(t, after.Country("DEU").InBloc("pact"))

	// The pre-disband snapshot keeps the pact.
	assert.NotNil(t, withPact.AllianceByName("pact"))

	_, err = DisbandAlliance(st, "never-was")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestRelationDrift(t *testing.T) {
	st := &world.State{}
	st.ShiftRelation("AAA", "BBB", -40, "test")
	driftRelations(st)
	assert.InDelta(t, -38, st.Relations[world.PairKey("AAA", "BBB")].Score, 1e-12)
}

func TestAllianceOvertureFormsPactAtAlliedLevel(t *testing.T) {
	p := testParams()
	st := testWorld(t, p)
	st.ShiftRelation("USA", "CHN", 55, "history")

	sum := &TurnSummary{}
	applyAllianceOverture(st, "USA", "CHN", sum)

	assert.GreaterOrEqual(t, st.Relations[world.PairKey("USA", "CHN")].Score, 60.0)
	require.Len(t, st.Alliances, 1)
	assert.ElementsMatch(t, []string{"CHN", "USA"}, st.Alliances[0].Members)
}
