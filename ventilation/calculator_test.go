package ventilation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offshorevent/ventcore/opening"
	"github.com/offshorevent/ventcore/space"
	"github.com/offshorevent/ventcore/topology"
	"github.com/offshorevent/ventcore/ventconfig"
)

func buildGraph(t *testing.T, spaces []*space.Space, openings []*opening.Opening) *topology.Graph {
	t.Helper()
	g := topology.NewGraph(ventconfig.Default(), nil)
	require.NoError(t, g.Build(spaces, openings))
	return g
}

func TestComputeSingleHopYieldsHighACH(t *testing.T) {
	spaces := []*space.Space{{ID: "space_000", Volume: 1000}}
	openings := []*opening.Opening{
		{ID: "opening_0000", EndpointA: "space_000", EndpointB: space.ExteriorID, Area: 1.0},
	}
	g := buildGraph(t, spaces, openings)

	cfg := ventconfig.Default()
	calc := NewCalculator(cfg, nil)
	result := calc.Compute(g, spaces, openings)

	assert.InDelta(t, cfg.Ventilation.HighACHRate, result.ACH["space_000"], 1e-9)
	require.Len(t, result.Paths["space_000"], 1)
	assert.InDelta(t, 1.0, result.Paths["space_000"][0].Contribution, 1e-9)
}

func idOf(i int) string {
	return [...]string{"space_000", "space_001", "space_002", "space_003", "space_004", "space_005", "space_006"}[i]
}

func TestComputeBeyondHopLimitYieldsACHLowMin(t *testing.T) {
	// A 7-hop chain to the exterior has no route within the 6-hop cap, so
	// the head of the chain retains zero paths.
	const n = 7
	spaces := make([]*space.Space, n)
	for i := 0; i < n; i++ {
		spaces[i] = &space.Space{ID: idOf(i), Volume: 10}
	}
	var openings []*opening.Opening
	prev := space.ExteriorID
	for i := n - 1; i >= 0; i-- {
		openings = append(openings, &opening.Opening{
			ID: fmt.Sprintf("opening_%04d", n-1-i), EndpointA: spaces[i].ID, EndpointB: prev, Area: 1.0,
		})
		prev = spaces[i].ID
	}
	g := buildGraph(t, spaces, openings)

	cfg := ventconfig.Default()
	calc := NewCalculator(cfg, nil)
	result := calc.Compute(g, spaces, openings)

	assert.Equal(t, cfg.Ventilation.LowACHRange[0], result.ACH["space_000"])
	assert.Empty(t, result.Paths["space_000"])
}

func TestApplyOpeningStatesScalesAffectedSpace(t *testing.T) {
	spaces := []*space.Space{{ID: "space_000", Volume: 100}}
	openings := []*opening.Opening{
		{ID: "opening_0000", EndpointA: "space_000", EndpointB: space.ExteriorID, Area: 1.0},
	}
	g := buildGraph(t, spaces, openings)

	cfg := ventconfig.Default()
	calc := NewCalculator(cfg, nil)
	result := calc.Compute(g, spaces, openings)
	original := result.ACH["space_000"]

	derived := ApplyOpeningStates(result, map[string]opening.State{"opening_0000": opening.Closed})
	assert.InDelta(t, original*0.7, derived["space_000"], 1e-9)
	assert.InDelta(t, original, result.ACH["space_000"], 1e-9) // stored map unchanged
}

func TestApplyOpeningStatesLeavesUnaffectedSpaceUnscaled(t *testing.T) {
	spaces := []*space.Space{{ID: "space_000", Volume: 100}}
	openings := []*opening.Opening{
		{ID: "opening_0000", EndpointA: "space_000", EndpointB: space.ExteriorID, Area: 1.0},
	}
	g := buildGraph(t, spaces, openings)
	cfg := ventconfig.Default()
	calc := NewCalculator(cfg, nil)
	result := calc.Compute(g, spaces, openings)

	derived := ApplyOpeningStates(result, map[string]opening.State{"opening_9999": opening.Closed})
	assert.Equal(t, result.ACH["space_000"], derived["space_000"])
}
