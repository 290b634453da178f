package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/offshorevent/ventcore/meshmodel"
)

// vertexNormals averages face normals into a per-vertex normal, the
// standard cheap approximation used before any curvature estimate.
func vertexNormals(m *meshmodel.Mesh) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Len() > 0 {
			n = n.Normalize()
		}
		normals[f[0]] = normals[f[0]].Add(n)
		normals[f[1]] = normals[f[1]].Add(n)
		normals[f[2]] = normals[f[2]].Add(n)
	}
	for i, n := range normals {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}
	return normals
}

// meanEdgeLength averages the length of every triangle edge once.
func meanEdgeLength(m *meshmodel.Mesh) float32 {
	if len(m.Faces) == 0 {
		return 1
	}
	var sum float32
	count := 0
	for _, f := range m.Faces {
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		sum += a.Sub(b).Len() + b.Sub(c).Len() + c.Sub(a).Len()
		count += 3
	}
	if count == 0 {
		return 1
	}
	return sum / float32(count)
}

// vertexCurvature returns, per vertex, a dispersion-of-normals curvature
// proxy in [0,2]: the mean of (1 - dot(n_i, n_j)) over every other vertex
// within radius of v. Flat regions score near 0; sharp corners score
// higher. O(n^2); fine for the mesh sizes this pipeline targets (rooms,
// not CAD-scale tessellations numbering in the millions).
func vertexCurvature(m *meshmodel.Mesh, normals []mgl32.Vec3, radius float32) []float32 {
	curvature := make([]float32, len(m.Vertices))
	for i, vi := range m.Vertices {
		var sum float32
		count := 0
		for j, vj := range m.Vertices {
			if i == j {
				continue
			}
			if vi.Sub(vj).Len() <= radius {
				sum += 1 - normals[i].Dot(normals[j])
				count++
			}
		}
		if count > 0 {
			curvature[i] = sum / float32(count)
		}
	}
	return curvature
}

// narrowPassageVertices flags vertices whose nearest *other* vertex lies
// closer than widthThreshold, the spec's proxy for "this vertex sits on a
// narrow passage wall".
func narrowPassageVertices(m *meshmodel.Mesh, widthThreshold float32) []bool {
	flagged := make([]bool, len(m.Vertices))
	for i, vi := range m.Vertices {
		best := float32(math.MaxFloat32)
		for j, vj := range m.Vertices {
			if i == j {
				continue
			}
			d := vi.Sub(vj).Len()
			if d < best {
				best = d
			}
		}
		flagged[i] = best < widthThreshold
	}
	return flagged
}
