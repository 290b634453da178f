package space

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/offshorevent/ventcore/ventconfig"
	"github.com/offshorevent/ventcore/voxel"
)

// testOccupancy is a hand-built voxel.Occupancy backed by an explicit set
// of empty indices; every other index in shape is solid. It lets these
// tests pin down exact occupancy patterns without routing through C1.
type testOccupancy struct {
	shape    [3]int
	origin   mgl32.Vec3
	baseSize float64
	empty    map[[3]int]bool
}

func (o *testOccupancy) Shape() [3]int          { return o.shape }
func (o *testOccupancy) Origin() mgl32.Vec3     { return o.origin }
func (o *testOccupancy) BaseVoxelSize() float64 { return o.baseSize }
func (o *testOccupancy) Strategy() string       { return "test" }
func (o *testOccupancy) RefinedSize(i, j, k int) float64 {
	return o.baseSize
}
func (o *testOccupancy) At(i, j, k int) bool {
	if !voxel.InBounds(o.shape, i, j, k) {
		return false
	}
	return !o.empty[[3]int{i, j, k}]
}

var _ voxel.Occupancy = (*testOccupancy)(nil)

// TestDetectTwoRoomsNearCornerStayDistinctButAdjacent builds two
// single-voxel rooms set diagonally one index apart (no shared face, so
// 6-connected labelling keeps them as separate components) but within
// buildAdjacency's 1.5-index-unit radius, so the two rooms still surface
// an edge in the adjacency graph for C3 to examine.
func TestDetectTwoRoomsNearCornerStayDistinctButAdjacent(t *testing.T) {
	field := &testOccupancy{
		shape:    [3]int{5, 5, 4},
		origin:   mgl32.Vec3{0, 0, 0},
		baseSize: 1.0,
		empty: map[[3]int]bool{
			{1, 1, 1}: true,
			{2, 2, 1}: true,
		},
	}

	cfg := ventconfig.Default()
	cfg.SpaceDetection.MinSpaceVolume = 0
	cfg.SpaceDetection.SpaceMergeDistance = 0 // isolate adjacency from fragment merging
	cfg.Openings.ConnectionDegreeThreshold = 0 // isolate CCL/adjacency from reclassification

	d := NewDetector(cfg, nil)
	result, err := d.Detect(field)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(result.Spaces) != 2 {
		t.Fatalf("expected 2 distinct spaces, got %d", len(result.Spaces))
	}
	for _, sp := range result.Spaces {
		if len(sp.Voxels) != 1 {
			t.Errorf("space %s: expected 1 voxel, got %d", sp.ID, len(sp.Voxels))
		}
		if sp.Volume != 1.0 {
			t.Errorf("space %s: expected volume 1.0, got %v", sp.ID, sp.Volume)
		}
	}

	a, b := result.Spaces[0].ID, result.Spaces[1].ID
	if !result.Adjacency.HasEdge(a, b) {
		t.Errorf("expected adjacency edge between %s and %s", a, b)
	}
}

// TestDetectDisjointRoomsNoAdjacency places two single-voxel rooms far
// enough apart (index distance 3) that no adjacency edge should form,
// confirming buildAdjacency's radius threshold actually excludes distant
// components rather than linking every pair in the field.
func TestDetectDisjointRoomsNoAdjacency(t *testing.T) {
	field := &testOccupancy{
		shape:    [3]int{6, 6, 4},
		origin:   mgl32.Vec3{0, 0, 0},
		baseSize: 1.0,
		empty: map[[3]int]bool{
			{1, 1, 1}: true,
			{4, 1, 1}: true,
		},
	}

	cfg := ventconfig.Default()
	cfg.SpaceDetection.MinSpaceVolume = 0
	cfg.SpaceDetection.SpaceMergeDistance = 0
	cfg.Openings.ConnectionDegreeThreshold = 0

	d := NewDetector(cfg, nil)
	result, err := d.Detect(field)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(result.Spaces) != 2 {
		t.Fatalf("expected 2 distinct spaces, got %d", len(result.Spaces))
	}
	a, b := result.Spaces[0].ID, result.Spaces[1].ID
	if result.Adjacency.HasEdge(a, b) {
		t.Errorf("did not expect an adjacency edge between distant spaces %s and %s", a, b)
	}
}

// TestDetectReclassifiesHighDegreeSpaceAsCorridor exercises
// reclassifyCorridors (SPEC_FULL.md §12): a space adjacent to at least
// ConnectionDegreeThreshold neighbours is tagged TypeCorridor.
func TestDetectReclassifiesHighDegreeSpaceAsCorridor(t *testing.T) {
	// A central room (2,2,1) with three satellite rooms close enough
	// (corner-diagonal, distance sqrt(2)) to all be adjacent to it, but
	// mutually far apart from one another so only the hub gets tagged.
	field := &testOccupancy{
		shape:    [3]int{7, 7, 4},
		origin:   mgl32.Vec3{0, 0, 0},
		baseSize: 1.0,
		empty: map[[3]int]bool{
			{2, 2, 1}: true, // hub
			{3, 3, 1}: true, // satellite A: distance sqrt(2) from hub
			{1, 3, 1}: true, // satellite B: distance sqrt(2) from hub
			{3, 1, 1}: true, // satellite C: distance sqrt(2) from hub
		},
	}

	cfg := ventconfig.Default()
	cfg.SpaceDetection.MinSpaceVolume = 0
	cfg.SpaceDetection.SpaceMergeDistance = 0
	cfg.Openings.ConnectionDegreeThreshold = 3

	d := NewDetector(cfg, nil)
	result, err := d.Detect(field)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(result.Spaces) != 4 {
		t.Fatalf("expected 4 distinct spaces, got %d", len(result.Spaces))
	}

	var hub *Space
	for _, sp := range result.Spaces {
		if len(result.Adjacency.Neighbors(sp.ID)) >= 3 {
			hub = sp
		}
	}
	if hub == nil {
		t.Fatalf("expected one space with adjacency degree >= 3")
	}
	if hub.Type != TypeCorridor {
		t.Errorf("expected hub space to be reclassified as corridor, got %s", hub.Type)
	}
}
