package main

import "github.com/offshorevent/ventcore/ventcore"

// VizDocument is a simplified geometric companion to the space-data
// record, grounded on the original Python implementation's
// generate_simplified_geometry/export_for_visualization pair: a per-space
// cuboid (from its bounding box) plus a marker for every opening, cheap
// enough for a downstream viewer to render without re-deriving geometry
// from the voxel field.
type VizDocument struct {
	Spaces   []VizSpace   `json:"spaces"`
	Openings []VizOpening `json:"openings"`
}

// VizSpace is one space's cuboid: 8 vertices and 6 quad faces (vertex
// indices local to this cuboid), tagged with its ACH for color-coding.
type VizSpace struct {
	ID       string        `json:"id"`
	ACH      float64       `json:"ventilationRate"`
	Vertices [8][3]float32 `json:"vertices"`
	Faces    [6][4]int     `json:"faces"`
}

// VizOpening is one opening's world-space marker position and type, for
// rendering as a small glyph on the space geometry.
type VizOpening struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	State    string     `json:"state"`
	Position [3]float32 `json:"position"`
}

// cuboidFaces enumerates the 6 quad faces of a unit cuboid by vertex
// index, consistent with cuboidVertices' corner ordering.
var cuboidFaces = [6][4]int{
	{0, 1, 2, 3}, // bottom (min Z)
	{4, 5, 6, 7}, // top (max Z)
	{0, 1, 5, 4}, // front
	{2, 3, 7, 6}, // back
	{0, 3, 7, 4}, // left
	{1, 2, 6, 5}, // right
}

func cuboidVertices(box ventcore.BoundingBox) [8][3]float32 {
	min, max := box.Min, box.Max
	return [8][3]float32{
		{min[0], min[1], min[2]},
		{max[0], min[1], min[2]},
		{max[0], max[1], min[2]},
		{min[0], max[1], min[2]},
		{min[0], min[1], max[2]},
		{max[0], min[1], max[2]},
		{max[0], max[1], max[2]},
		{min[0], max[1], max[2]},
	}
}

// buildVisualization derives a VizDocument from an assembled Record.
func buildVisualization(record *ventcore.Record) *VizDocument {
	doc := &VizDocument{
		Spaces:   make([]VizSpace, 0, len(record.Spaces)),
		Openings: make([]VizOpening, 0, len(record.Connections)),
	}
	for _, sp := range record.Spaces {
		doc.Spaces = append(doc.Spaces, VizSpace{
			ID:       sp.ID,
			ACH:      sp.ACH,
			Vertices: cuboidVertices(sp.BoundingBox),
			Faces:    cuboidFaces,
		})
	}
	for _, op := range record.Connections {
		doc.Openings = append(doc.Openings, VizOpening{
			ID:       op.ID,
			Type:     op.Type,
			State:    op.State,
			Position: op.Position,
		})
	}
	return doc
}
