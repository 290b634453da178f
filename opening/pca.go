package opening

import (
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/mat"
)

// planarFeatures bundles the PCA-derived geometry of an opening cluster
// (spec.md §4.3 step 3).
type planarFeatures struct {
	normal      mgl32.Vec3
	planarity   float64
	width       float64
	height      float64
	area        float64
	perimeter   float64
	aspectRatio float64
	centroid    mgl32.Vec3
}

// analyzePlanar runs PCA on a cluster's world-space voxel centres: the
// eigenvector of the smallest eigenvalue is the opening's normal,
// planarity = 1 - lambda0/(lambda1+eps), and the other two eigenvectors
// give the projection basis used for the 2D convex hull / width-height
// extent.
func analyzePlanar(points []mgl32.Vec3) planarFeatures {
	var sum mgl32.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	centroid := sum.Mul(1.0 / float32(len(points)))

	var cov [3][3]float64
	for _, p := range points {
		d := p.Sub(centroid)
		dv := [3]float64{float64(d.X()), float64(d.Y()), float64(d.Z())}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cov[i][j] += dv[i] * dv[j]
			}
		}
	}
	n := float64(len(points))
	data := make([]float64, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			data[i*3+j] = cov[i][j] / n
		}
	}
	sym := mat.NewSymDense(3, data)

	var eig mat.EigenSym
	eig.Factorize(sym, true)
	values := eig.Values(nil) // ascending order
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	eigVec := func(col int) mgl32.Vec3 {
		return mgl32.Vec3{
			float32(vectors.At(0, col)),
			float32(vectors.At(1, col)),
			float32(vectors.At(2, col)),
		}
	}

	normal := eigVec(0)
	u := eigVec(1)
	v := eigVec(2)

	const eps = 1e-9
	planarity := 1 - values[0]/(values[1]+eps)
	if planarity < 0 {
		planarity = 0
	}
	if planarity > 1 {
		planarity = 1
	}

	proj := make([]point2, len(points))
	for i, p := range points {
		d := p.Sub(centroid)
		proj[i] = point2{x: float64(d.Dot(u)), y: float64(d.Dot(v))}
	}

	minU, maxU := proj[0].x, proj[0].x
	minV, maxV := proj[0].y, proj[0].y
	for _, pp := range proj {
		if pp.x < minU {
			minU = pp.x
		}
		if pp.x > maxU {
			maxU = pp.x
		}
		if pp.y < minV {
			minV = pp.y
		}
		if pp.y > maxV {
			maxV = pp.y
		}
	}
	extentU := maxU - minU
	extentV := maxV - minV
	width, height := extentU, extentV
	if height > width {
		width, height = height, width
	}
	if height <= 0 {
		height = 1e-6
	}

	hull := convexHull(proj)
	area, perimeter := hullAreaPerimeter(hull)
	if area <= 0 {
		area = width * height
	}

	return planarFeatures{
		normal:      normal,
		planarity:   planarity,
		width:       width,
		height:      height,
		area:        area,
		perimeter:   perimeter,
		aspectRatio: width / height,
		centroid:    centroid,
	}
}
