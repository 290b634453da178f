package voxel

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/offshorevent/ventcore/meshmodel"
	"github.com/offshorevent/ventcore/ventconfig"
	"github.com/offshorevent/ventcore/venterr"
)

// buildCubeMesh returns a watertight 12-triangle box spanning [min, max].
// Triangle winding is irrelevant to TriangleBVH.Inside, which counts
// ray/triangle crossings rather than testing back-face orientation.
func buildCubeMesh(min, max mgl32.Vec3) *meshmodel.Mesh {
	verts := []mgl32.Vec3{
		{min.X(), min.Y(), min.Z()}, // 0
		{max.X(), min.Y(), min.Z()}, // 1
		{max.X(), max.Y(), min.Z()}, // 2
		{min.X(), max.Y(), min.Z()}, // 3
		{min.X(), min.Y(), max.Z()}, // 4
		{max.X(), min.Y(), max.Z()}, // 5
		{max.X(), max.Y(), max.Z()}, // 6
		{min.X(), max.Y(), max.Z()}, // 7
	}
	faces := [][3]uint32{
		{0, 1, 2}, {0, 2, 3}, // bottom
		{4, 6, 5}, {4, 7, 6}, // top
		{0, 5, 1}, {0, 4, 5}, // front
		{3, 2, 6}, {3, 6, 7}, // back
		{0, 3, 7}, {0, 7, 4}, // left
		{1, 6, 2}, {1, 5, 6}, // right
	}
	return &meshmodel.Mesh{Vertices: verts, Faces: faces}
}

func TestVoxelizeDenseGridCube(t *testing.T) {
	cfg := ventconfig.Default()
	mesh := buildCubeMesh(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{4, 4, 4})

	v := NewVoxelizer(cfg, nil)
	result, err := v.Voxelize(mesh)
	if err != nil {
		t.Fatalf("Voxelize: %v", err)
	}
	if result.Field.Strategy() != "dense" {
		t.Fatalf("expected dense strategy, got %q", result.Field.Strategy())
	}
	if shape := result.Field.Shape(); shape != [3]int{4, 4, 4} {
		t.Fatalf("expected shape [4 4 4], got %v", shape)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				if !result.Field.At(i, j, k) {
					t.Errorf("voxel (%d,%d,%d) expected inside the cube, got outside", i, j, k)
				}
			}
		}
	}
	if result.Field.At(10, 10, 10) {
		t.Errorf("out-of-range voxel expected to report false")
	}
}

func TestVoxelizeOctreeFallbackOnMemoryBudget(t *testing.T) {
	cfg := ventconfig.Default()
	mesh := buildCubeMesh(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{4, 4, 4})

	v := NewVoxelizer(cfg, nil)
	v.memCap = 1 // force the dense-grid estimate to exceed budget

	result, err := v.Voxelize(mesh)
	if err != nil {
		t.Fatalf("Voxelize: %v", err)
	}
	if result.Field.Strategy() != "octree" {
		t.Fatalf("expected octree strategy, got %q", result.Field.Strategy())
	}
	if shape := result.Field.Shape(); shape != [3]int{4, 4, 4} {
		t.Fatalf("expected shape [4 4 4], got %v", shape)
	}
	if !result.Field.At(1, 1, 1) {
		t.Errorf("voxel (1,1,1) expected inside the cube under octree fallback")
	}
	if result.Field.At(20, 20, 20) {
		t.Errorf("out-of-range voxel expected to report false")
	}
}

func TestVoxelizeRejectsInvalidMesh(t *testing.T) {
	cfg := ventconfig.Default()
	v := NewVoxelizer(cfg, nil)

	if _, err := v.Voxelize(nil); !errors.Is(err, venterr.ErrInputInvalid) {
		t.Fatalf("expected ErrInputInvalid for nil mesh, got %v", err)
	}
	if _, err := v.Voxelize(&meshmodel.Mesh{}); !errors.Is(err, venterr.ErrInputInvalid) {
		t.Fatalf("expected ErrInputInvalid for empty mesh, got %v", err)
	}

	badMesh := &meshmodel.Mesh{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:    [][3]uint32{{0, 1, 5}},
	}
	if _, err := v.Voxelize(badMesh); !errors.Is(err, venterr.ErrInputInvalid) {
		t.Fatalf("expected ErrInputInvalid for out-of-range face index, got %v", err)
	}
}
