package ventcore

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offshorevent/ventcore/meshmodel"
	"github.com/offshorevent/ventcore/opening"
	"github.com/offshorevent/ventcore/space"
	"github.com/offshorevent/ventcore/ventconfig"
	"github.com/offshorevent/ventcore/ventilation"
)

func TestAssembleSingleSpaceWithWindow(t *testing.T) {
	sp := &space.Space{
		ID:     "space_000",
		Volume: 1000,
		Bounds: meshmodel.AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{10, 10, 10}},
		Type:   space.TypeUnknown,
	}
	op := &opening.Opening{
		ID:        "opening_0000",
		EndpointA: "space_000",
		EndpointB: space.ExteriorID,
		Area:      1.0,
		Type:      opening.StandardDoor,
		State:     opening.Open,
		Centroid:  mgl32.Vec3{0, 5, 5},
	}
	ventResult := &ventilation.Result{
		ACH: map[string]float64{"space_000": 10.0},
		Paths: map[string][]ventilation.PathContribution{
			"space_000": {
				{Nodes: []string{"space_000", space.ExteriorID}, Openings: []string{"opening_0000"}, Weight: 1.0, Hops: 1, Contribution: 1.0},
			},
		},
	}

	a := NewAssembler(ventconfig.Default())
	record := a.Assemble([]*space.Space{sp}, []*opening.Opening{op}, ventResult)

	require.Len(t, record.Spaces, 1)
	s := record.Spaces[0]
	assert.Equal(t, "space_000", s.ID)
	assert.Equal(t, 1000.0, s.Volume)
	assert.Equal(t, 10.0, s.ACH)
	assert.Equal(t, []string{"opening_0000"}, s.Connections)
	require.NotNil(t, s.PrimaryPath)
	assert.Equal(t, 1, s.PrimaryPath.Length)
	assert.Equal(t, 1, s.PathCount)

	require.Len(t, record.Connections, 1)
	c := record.Connections[0]
	assert.Equal(t, "standard_door", c.Type)
	assert.Equal(t, []string{"space_000", space.ExteriorID}, c.Connects)

	require.Len(t, record.VentilationPaths, 1)
	assert.Equal(t, "space_000", record.VentilationPaths[0].SpaceID)
	assert.InDelta(t, 1.0, record.VentilationPaths[0].Paths[0].Contribution, 1e-9)

	assert.NotEmpty(t, record.Metadata.RunID)
	assert.Equal(t, schemaVersion, record.Metadata.Version)
}

func TestValidateFlagsDuplicateAndDanglingIDs(t *testing.T) {
	record := &Record{
		Spaces: []SpaceRecord{
			{ID: "space_000", Volume: 10, ACH: 5},
			{ID: "space_000", Volume: 10, ACH: 5}, // duplicate
		},
		Connections: []OpeningRecord{
			{ID: "opening_0000", Connects: []string{"space_000", "space_999"}}, // dangling
		},
	}
	result := Validate(record)
	assert.True(t, result.HasErrors())
	assert.Len(t, result.Errors, 2)
}

func TestValidateFlagsOutOfRangeAsWarningsOnly(t *testing.T) {
	record := &Record{
		Spaces: []SpaceRecord{
			{ID: "space_000", Volume: -1, ACH: 25},
		},
	}
	result := Validate(record)
	assert.False(t, result.HasErrors())
	assert.Len(t, result.Warnings, 2)
}
