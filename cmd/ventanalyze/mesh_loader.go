package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/offshorevent/ventcore/meshmodel"
)

// loadOBJ reads a Wavefront OBJ file's geometry (v/f records only; normals,
// texture coordinates, groups, and materials are ignored) into a
// meshmodel.Mesh. CAD/STEP/IFC ingestion is explicitly out of the core's
// scope (spec.md §1); OBJ is the simplest format that satisfies the host's
// "load a triangle mesh from disk" responsibility without reaching for an
// unneeded parser dependency.
func loadOBJ(path string) (*meshmodel.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh file: %w", err)
	}
	defer f.Close()

	mesh := &meshmodel.Mesh{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("mesh file line %d: malformed vertex", lineNo)
			}
			x, err1 := strconv.ParseFloat(fields[1], 32)
			y, err2 := strconv.ParseFloat(fields[2], 32)
			z, err3 := strconv.ParseFloat(fields[3], 32)
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, fmt.Errorf("mesh file line %d: invalid vertex coordinates", lineNo)
			}
			mesh.Vertices = append(mesh.Vertices, mgl32.Vec3{float32(x), float32(y), float32(z)})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("mesh file line %d: malformed face", lineNo)
			}
			idx := make([]uint32, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				vi, err := parseFaceIndex(tok, len(mesh.Vertices))
				if err != nil {
					return nil, fmt.Errorf("mesh file line %d: %w", lineNo, err)
				}
				idx = append(idx, vi)
			}
			// Fan-triangulate faces with more than 3 vertices.
			for i := 1; i+1 < len(idx); i++ {
				mesh.Faces = append(mesh.Faces, [3]uint32{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mesh file: %w", err)
	}
	return mesh, nil
}

// parseFaceIndex parses an OBJ face-vertex token ("v", "v/vt", or
// "v/vt/vn"), returning the zero-based vertex index.
func parseFaceIndex(tok string, vertexCount int) (uint32, error) {
	parts := strings.SplitN(tok, "/", 2)
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q", tok)
	}
	if n < 0 {
		n = vertexCount + n + 1
	}
	if n < 1 {
		return 0, fmt.Errorf("face index %q out of range", tok)
	}
	return uint32(n - 1), nil
}
