package opening

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offshorevent/ventcore/space"
	"github.com/offshorevent/ventcore/ventconfig"
)

// buildTestSpace makes a rectangular room of voxels from (0,0,0) to
// (nx-1,ny-1,nz-1) inclusive.
func buildTestSpace(id string, nx, ny, nz int, offset space.Index3) *space.Space {
	voxels := make(map[space.Index3]struct{})
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				voxels[space.Index3{i + offset[0], j + offset[1], k + offset[2]}] = struct{}{}
			}
		}
	}
	return &space.Space{ID: id, Voxels: voxels, Traversable: true}
}

func TestInterfaceVoxelsFaceAdjacentOnly(t *testing.T) {
	a := map[space.Index3]struct{}{{0, 0, 0}: {}, {1, 0, 0}: {}}
	b := map[space.Index3]struct{}{{2, 0, 0}: {}, {5, 5, 5}: {}}

	got := interfaceVoxels(a, b)
	require.Len(t, got, 2)
	assert.Contains(t, got, space.Index3{1, 0, 0})
	assert.Contains(t, got, space.Index3{2, 0, 0})
}

func TestInterfaceVoxelsNoAdjacency(t *testing.T) {
	a := map[space.Index3]struct{}{{0, 0, 0}: {}}
	b := map[space.Index3]struct{}{{10, 10, 10}: {}}
	assert.Empty(t, interfaceVoxels(a, b))
}

func TestDetectTwoRoomsSharedDoorway(t *testing.T) {
	// Two 4x4x3 rooms separated by a one-voxel gap, sharing a 1x3 doorway
	// at the gap column.
	roomA := buildTestSpace("space_000", 4, 4, 3, space.Index3{0, 0, 0})
	roomB := buildTestSpace("space_001", 4, 4, 3, space.Index3{5, 0, 0})
	for k := 0; k < 3; k++ {
		roomA.Voxels[space.Index3{4, 2, k}] = struct{}{}
	}

	adj := space.NewAdjacency()
	adj.AddEdge("space_000", "space_001")

	result := &space.Result{
		Spaces:    []*space.Space{roomA, roomB},
		Adjacency: adj,
		Exterior:  map[space.Index3]struct{}{},
		Origin:    mgl32.Vec3{0, 0, 0},
		BaseSize:  1.0,
	}

	cfg := ventconfig.Default()
	d := NewDetector(cfg, nil)
	openings, err := d.Detect(result)
	require.NoError(t, err)
	require.NotEmpty(t, openings)

	for _, op := range openings {
		assert.Equal(t, "space_000", op.EndpointA)
		assert.Equal(t, "space_001", op.EndpointB)
		assert.Equal(t, Open, op.State)
	}
}

func TestDetectSkipsDegenerateInterface(t *testing.T) {
	roomA := buildTestSpace("space_000", 3, 3, 3, space.Index3{0, 0, 0})
	roomB := buildTestSpace("space_001", 3, 3, 3, space.Index3{10, 10, 10})

	adj := space.NewAdjacency()
	adj.AddEdge("space_000", "space_001")

	result := &space.Result{
		Spaces:    []*space.Space{roomA, roomB},
		Adjacency: adj,
		Exterior:  map[space.Index3]struct{}{},
		Origin:    mgl32.Vec3{0, 0, 0},
		BaseSize:  1.0,
	}

	cfg := ventconfig.Default()
	d := NewDetector(cfg, nil)
	openings, err := d.Detect(result)
	require.NoError(t, err)
	assert.Empty(t, openings)
}

func TestClassifyDecisionOrder(t *testing.T) {
	cfg := ventconfig.Default()
	d := NewDetector(cfg, nil)

	assert.Equal(t, StandardDoor, d.classify(planarFeatures{area: 1.5, aspectRatio: 2.0, width: 1.0}))
	assert.Equal(t, WideDoor, d.classify(planarFeatures{area: 4.0, aspectRatio: 1.0, width: 2.5}))
	assert.Equal(t, Passage, d.classify(planarFeatures{area: 6.0, aspectRatio: 1.0, width: 2.5}))
}

func TestAnalyzePlanarFlatRectangle(t *testing.T) {
	// A 2x1 rectangle in the XY plane, roughly centred on the origin.
	points := []mgl32.Vec3{
		{-1, -0.5, 0}, {1, -0.5, 0}, {1, 0.5, 0}, {-1, 0.5, 0},
		{0, -0.5, 0}, {0, 0.5, 0},
	}
	feat := analyzePlanar(points)
	assert.InDelta(t, 1.0, feat.planarity, 0.05)
	assert.Greater(t, feat.width, feat.height)
	assert.Greater(t, feat.area, 0.0)
}
