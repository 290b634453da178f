package opening

import (
	"math"

	"github.com/offshorevent/ventcore/space"
)

// dbscan clusters voxel-index points with a fixed neighbour radius and
// minimum cluster size, discarding noise (spec.md §4.3 step 2). Points are
// processed in their (already deterministic, lexicographically sorted)
// input order so that cluster discovery — and hence output ordering — is
// reproducible.
func dbscan(points []space.Index3, radius float64, minPts int) [][]space.Index3 {
	n := len(points)
	visited := make([]bool, n)
	clusterOf := make([]int, n)
	for i := range clusterOf {
		clusterOf[i] = -1
	}

	regionQuery := func(i int) []int {
		var neighbors []int
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if indexDist(points[i], points[j]) <= radius {
				neighbors = append(neighbors, j)
			}
		}
		return neighbors
	}

	clusterCount := 0
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true
		neighbors := regionQuery(i)
		if len(neighbors) < minPts-1 {
			continue // noise, may be picked up as a border point of another cluster later
		}
		cid := clusterCount
		clusterCount++
		clusterOf[i] = cid

		queue := append([]int{}, neighbors...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if !visited[j] {
				visited[j] = true
				jNeighbors := regionQuery(j)
				if len(jNeighbors) >= minPts-1 {
					queue = append(queue, jNeighbors...)
				}
			}
			if clusterOf[j] == -1 {
				clusterOf[j] = cid
			}
		}
	}

	clusters := make([][]space.Index3, clusterCount)
	for i, cid := range clusterOf {
		if cid == -1 {
			continue
		}
		clusters[cid] = append(clusters[cid], points[i])
	}
	var out [][]space.Index3
	for _, c := range clusters {
		if len(c) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func indexDist(a, b space.Index3) float64 {
	dx := float64(a[0] - b[0])
	dy := float64(a[1] - b[1])
	dz := float64(a[2] - b[2])
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
