package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offshorevent/ventcore/opening"
	"github.com/offshorevent/ventcore/space"
	"github.com/offshorevent/ventcore/ventconfig"
)

func TestBuildCollapsesMultipleOpeningsOntoOneEdge(t *testing.T) {
	spaces := []*space.Space{
		{ID: "space_000", Volume: 100},
		{ID: "space_001", Volume: 50},
	}
	openings := []*opening.Opening{
		{ID: "opening_0000", EndpointA: "space_000", EndpointB: "space_001", Area: 2.0},
		{ID: "opening_0001", EndpointA: "space_000", EndpointB: "space_001", Area: 0.5},
	}

	g := NewGraph(ventconfig.Default(), nil)
	require.NoError(t, g.Build(spaces, openings))

	e, ok := g.EdgeBetween("space_000", "space_001")
	require.True(t, ok)
	assert.Equal(t, 0.5, e.Weight) // min(1/2.0, 1/0.5) = min(0.5, 2.0)
	assert.ElementsMatch(t, []string{"opening_0000", "opening_0001"}, e.Openings)
}

func TestBuildZeroAreaUsesFallbackWeight(t *testing.T) {
	spaces := []*space.Space{{ID: "space_000", Volume: 10}}
	openings := []*opening.Opening{
		{ID: "opening_0000", EndpointA: "space_000", EndpointB: space.ExteriorID, Area: 0},
	}
	g := NewGraph(ventconfig.Default(), nil)
	require.NoError(t, g.Build(spaces, openings))

	e, ok := g.EdgeBetween("space_000", space.ExteriorID)
	require.True(t, ok)
	assert.Equal(t, 10.0, e.Weight)
}

func TestRepairPassConnectsIsolatedComponent(t *testing.T) {
	spaces := []*space.Space{
		{ID: "space_000", Volume: 100}, // connected to exterior
		{ID: "space_001", Volume: 20},  // isolated inner room
	}
	openings := []*opening.Opening{
		{ID: "opening_0000", EndpointA: "space_000", EndpointB: space.ExteriorID, Area: 1.0},
	}
	g := NewGraph(ventconfig.Default(), nil)
	require.NoError(t, g.Build(spaces, openings))

	assert.Empty(t, g.IsolatedSpaces())

	e, ok := g.EdgeBetween("space_001", space.ExteriorID)
	require.True(t, ok)
	assert.True(t, e.IsRepair)
	assert.Equal(t, repairWeight, e.Weight)
	assert.Equal(t, []string{repairOpeningID}, e.Openings)
}

func TestShortestPathToExteriorSortedByWeight(t *testing.T) {
	spaces := []*space.Space{
		{ID: "space_000", Volume: 10},
		{ID: "space_001", Volume: 10},
	}
	openings := []*opening.Opening{
		{ID: "opening_0000", EndpointA: "space_000", EndpointB: "space_001", Area: 2.0},
		{ID: "opening_0001", EndpointA: "space_001", EndpointB: space.ExteriorID, Area: 2.0},
		{ID: "opening_0002", EndpointA: "space_000", EndpointB: space.ExteriorID, Area: 4.0},
	}
	g := NewGraph(ventconfig.Default(), nil)
	require.NoError(t, g.Build(spaces, openings))

	// Direct route weighs 1/4.0 = 0.25; the route via space_001 weighs
	// 1/2.0 + 1/2.0 = 1.0.
	paths := g.ShortestPathToExterior("space_000", 5)
	require.NotEmpty(t, paths)
	for i := 1; i < len(paths); i++ {
		assert.LessOrEqual(t, paths[i-1].Weight, paths[i].Weight)
	}
	assert.Equal(t, []string{"space_000", space.ExteriorID}, paths[0].Nodes)
}

func TestResilienceScoreRangeZeroToOne(t *testing.T) {
	spaces := []*space.Space{
		{ID: "space_000", Volume: 10},
		{ID: "space_001", Volume: 10},
	}
	openings := []*opening.Opening{
		{ID: "opening_0000", EndpointA: "space_000", EndpointB: "space_001", Area: 2.0},
		{ID: "opening_0001", EndpointA: "space_001", EndpointB: space.ExteriorID, Area: 2.0},
	}
	g := NewGraph(ventconfig.Default(), nil)
	require.NoError(t, g.Build(spaces, openings))

	score := g.ResilienceScore()
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
	// Graph structure must be restored after the probe.
	assert.Empty(t, g.IsolatedSpaces())
}
