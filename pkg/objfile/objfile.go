// Package objfile reads and writes the Wavefront OBJ subset the mesh
// store understands: v records for positions and f records for faces.
// Texture, normal and grouping records are ignored on input and never
// produced on output.
package objfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/trellis/pkg/mesh"
)

// Read parses OBJ records from r and builds a mesh. Face references may
// be 1-based or negative (counting back from the most recent vertex),
// and may carry /texture/normal suffixes, which are dropped.
func Read(r io.Reader) (*mesh.Mesh, error) {
	var (
		positions []v3.Vec
		faces     [][]int
	)

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex record needs 3 coordinates", lineno)
			}
			var coords [3]float64
			for i := 0; i < 3; i++ {
				val, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: bad coordinate %q: %w", lineno, fields[i+1], err)
				}
				coords[i] = val
			}
			positions = append(positions, v3.Vec{X: coords[0], Y: coords[1], Z: coords[2]})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face record needs at least 3 vertices", lineno)
			}
			cycle := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := parseFaceRef(ref, len(positions))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineno, err)
				}
				cycle = append(cycle, idx)
			}
			faces = append(faces, cycle)
		default:
			// vt, vn, g, o, s, mtllib and friends.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}

	m, err := mesh.FromVerticesAndFaces(positions, faces)
	if err != nil {
		return nil, fmt.Errorf("building mesh: %w", err)
	}
	return m, nil
}

// ReadFile reads an OBJ file from disk.
func ReadFile(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// parseFaceRef resolves one face vertex reference to a 0-based index.
func parseFaceRef(ref string, numVertices int) (int, error) {
	if i := strings.IndexByte(ref, '/'); i >= 0 {
		ref = ref[:i]
	}
	idx, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("bad face reference %q: %w", ref, err)
	}
	switch {
	case idx > 0 && idx <= numVertices:
		return idx - 1, nil
	case idx < 0 && -idx <= numVertices:
		return numVertices + idx, nil
	default:
		return 0, fmt.Errorf("face reference %d outside the %d vertices seen so far", idx, numVertices)
	}
}

// Write emits the mesh as OBJ records. Vertices are written in key
// order and re-indexed densely, so the output is deterministic for a
// given mesh regardless of its editing history.
func Write(w io.Writer, m *mesh.Mesh) error {
	keys := m.Vertices()
	index := make(map[mesh.VertexKey]int, len(keys))
	for i, vk := range keys {
		index[vk] = i + 1
		pos, err := m.VertexPosition(vk)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "v %g %g %g\n", pos.X, pos.Y, pos.Z); err != nil {
			return err
		}
	}
	for _, f := range m.Faces() {
		cycle, err := m.FaceVertices(f)
		if err != nil {
			return err
		}
		refs := make([]string, len(cycle))
		for i, vk := range cycle {
			refs[i] = strconv.Itoa(index[vk])
		}
		if _, err := fmt.Fprintf(w, "f %s\n", strings.Join(refs, " ")); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the mesh to an OBJ file, replacing any existing one.
func WriteFile(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, m); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
