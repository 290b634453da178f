// Package opening implements C3, the opening detector: it extracts the
// interface voxels between adjacent spaces (or a space and the exterior),
// clusters them into discrete openings, measures their planar geometry by
// PCA, and classifies each as a standard door, wide door, or passage.
package opening

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Type is the opening classification (spec.md §9 tagged-variant design
// note).
type Type int

const (
	StandardDoor Type = iota
	WideDoor
	Passage
)

func (t Type) String() string {
	switch t {
	case WideDoor:
		return "wide_door"
	case Passage:
		return "passage"
	default:
		return "standard_door"
	}
}

// State is an opening's current door state.
type State int

const (
	Open State = iota
	Closed
)

func (s State) String() string {
	if s == Closed {
		return "closed"
	}
	return "open"
}

// Opening is a cluster of interface voxels between exactly two endpoints
// (spec.md §3).
type Opening struct {
	ID          string
	EndpointA   string
	EndpointB   string
	Normal      mgl32.Vec3
	Planarity   float64
	Width       float64
	Height      float64
	Area        float64
	Perimeter   float64
	AspectRatio float64
	Centroid    mgl32.Vec3
	Type        Type
	State       State
	VoxelCount  int
}
