// Package meshmodel defines the normalized triangle mesh the core pipeline
// consumes. CAD/file-format ingestion (STEP/IGES/STL/OBJ/IFC) is an
// external collaborator; this package only describes the already-parsed
// indexed mesh.
package meshmodel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle mesh with metric-unit vertex positions.
type Mesh struct {
	Vertices []mgl32.Vec3
	Faces    [][3]uint32
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Dimensions returns Max - Min.
func (b AABB) Dimensions() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies within the box (inclusive).
func (b AABB) Contains(p mgl32.Vec3) bool {
	return p.X() >= b.Min.X() && p.X() <= b.Max.X() &&
		p.Y() >= b.Min.Y() && p.Y() <= b.Max.Y() &&
		p.Z() >= b.Min.Z() && p.Z() <= b.Max.Z()
}

// Union returns the smallest AABB containing both boxes.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{min32(b.Min.X(), o.Min.X()), min32(b.Min.Y(), o.Min.Y()), min32(b.Min.Z(), o.Min.Z())},
		Max: mgl32.Vec3{max32(b.Max.X(), o.Max.X()), max32(b.Max.Y(), o.Max.Y()), max32(b.Max.Z(), o.Max.Z())},
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Bounds computes the mesh's axis-aligned bounding box. Returns an error if
// the mesh has no vertices.
func (m *Mesh) Bounds() (AABB, error) {
	if len(m.Vertices) == 0 {
		return AABB{}, fmt.Errorf("mesh has no vertices")
	}
	bmin := m.Vertices[0]
	bmax := m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		bmin = mgl32.Vec3{min32(bmin.X(), v.X()), min32(bmin.Y(), v.Y()), min32(bmin.Z(), v.Z())}
		bmax = mgl32.Vec3{max32(bmax.X(), v.X()), max32(bmax.Y(), v.Y()), max32(bmax.Z(), v.Z())}
	}
	return AABB{Min: bmin, Max: bmax}, nil
}

// Validate reports whether the mesh is non-empty and internally consistent
// (every face index refers to an existing vertex).
func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("mesh has no vertices")
	}
	if len(m.Faces) == 0 {
		return fmt.Errorf("mesh has no faces")
	}
	n := uint32(len(m.Vertices))
	for i, f := range m.Faces {
		if f[0] >= n || f[1] >= n || f[2] >= n {
			return fmt.Errorf("face %d references out-of-range vertex", i)
		}
	}
	return nil
}

// Triangle returns the three world-space vertices of face i.
func (m *Mesh) Triangle(i int) (a, b, c mgl32.Vec3) {
	f := m.Faces[i]
	return m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
}
