package space

import (
	"fmt"
	"sort"
)

// unionFind is a minimal disjoint-set structure over space indices, used
// to group fragments slated for merging (spec.md §4.2 step 5).
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[ra] = rb
	}
}

// mergeFragments estimates separation between every adjacent pair and
// merges components whose separation falls within SpaceMergeDistance,
// recomputing attributes and migrating adjacency edges onto the new
// merged node (spec.md §4.2 step 5).
func (d *Detector) mergeFragments(spaces []*Space, adj Adjacency) ([]*Space, Adjacency) {
	if len(spaces) == 0 {
		return spaces, adj
	}
	idxOf := make(map[string]int, len(spaces))
	preMergeID := make([]string, len(spaces))
	for i, sp := range spaces {
		idxOf[sp.ID] = i
		preMergeID[i] = sp.ID
	}

	uf := newUnionFind(len(spaces))
	mergeDist := d.cfg.SpaceDetection.SpaceMergeDistance
	for _, a := range spaces {
		for _, bid := range adj.Neighbors(a.ID) {
			if a.ID >= bid {
				continue // process each unordered pair once
			}
			b := spaces[idxOf[bid]]
			centroidDist := a.Centroid.Sub(b.Centroid).Len()
			halfA := maxOfDims(a.Dimensions()) / 2
			halfB := maxOfDims(b.Dimensions()) / 2
			separation := float64(centroidDist) - float64(halfA) - float64(halfB)
			if separation <= mergeDist {
				uf.union(idxOf[a.ID], idxOf[bid])
			}
		}
	}

	groups := make(map[int][]int)
	for i := range spaces {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	// Deterministic output order: by the smallest original discovery index
	// in each group.
	type groupEntry struct {
		members []int
		minIdx  int
	}
	var entries []groupEntry
	for _, members := range groups {
		sort.Ints(members)
		entries = append(entries, groupEntry{members: members, minIdx: members[0]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].minIdx < entries[j].minIdx })

	newSpaces := make([]*Space, 0, len(entries))
	remap := make(map[string]string, len(spaces)) // pre-merge ID -> new ID

	for newIdx, e := range entries {
		newID := fmt.Sprintf("space_%03d", newIdx)
		for _, m := range e.members {
			remap[preMergeID[m]] = newID
		}
		if len(e.members) == 1 {
			sp := spaces[e.members[0]]
			sp.ID = newID
			newSpaces = append(newSpaces, sp)
			continue
		}
		newSpaces = append(newSpaces, d.mergeGroup(newID, e.members, spaces))
	}

	newAdj := NewAdjacency()
	for a, neighbors := range adj {
		na := remap[a]
		for b := range neighbors {
			nb := remap[b]
			if na == "" || nb == "" || na == nb {
				continue
			}
			newAdj.AddEdge(na, nb)
		}
	}

	return newSpaces, newAdj
}

// mergeGroup unions the voxel sets of every member, recomputes attributes,
// and returns a new Space tagged TypeMerged.
func (d *Detector) mergeGroup(id string, members []int, spaces []*Space) *Space {
	union := make(map[Index3]struct{})
	var mergedFrom []string
	for _, m := range members {
		for v := range spaces[m].Voxels {
			union[v] = struct{}{}
		}
		mergedFrom = append(mergedFrom, spaces[m].ID)
	}
	sort.Strings(mergedFrom)
	voxels := make([]Index3, 0, len(union))
	for v := range union {
		voxels = append(voxels, v)
	}
	sort.Slice(voxels, func(i, j int) bool { return voxels[i].Less(voxels[j]) })

	sp := d.buildSpace(id, voxels, d.origin, d.baseSize)
	sp.Type = TypeMerged
	sp.MergedFrom = mergedFrom
	return sp
}
