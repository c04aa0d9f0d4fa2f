package mesh

import (
	"fmt"
	"sort"
)

// CheckError is one structural inconsistency found by Check.
type CheckError struct {
	Code    string
	Message string
	Vertex  VertexKey
	Face    FaceKey
}

func (e CheckError) Error() string {
	context := ""
	if !e.Vertex.IsNone() {
		context = fmt.Sprintf(" (vertex: %d)", e.Vertex)
	}
	if !e.Face.IsNone() {
		context = fmt.Sprintf(" (face: %d)", e.Face)
	}
	return fmt.Sprintf("%s: %s%s", e.Code, e.Message, context)
}

func checkError(code, format string, args ...interface{}) CheckError {
	return CheckError{Code: code, Message: fmt.Sprintf(format, args...), Vertex: NoVertex, Face: NoFace}
}

func (e CheckError) at(f FaceKey) CheckError {
	e.Face = f
	return e
}

func (e CheckError) atVertex(v VertexKey) CheckError {
	e.Vertex = v
	return e
}

// Check sweeps the mesh for structural inconsistencies and returns all
// of them; a healthy mesh returns none. The sweep verifies that every
// face cycle has at least three distinct, existing vertices and agrees
// with the half-edge table, and that every half-edge connects distinct
// existing vertices, has its reverse direction present, and is either
// boundary or bound to a face that really runs through it.
//
// Results are ordered deterministically: faces first, then vertices,
// both ascending.
func (m *Mesh) Check() []CheckError {
	var errs []CheckError

	for _, f := range m.Faces() {
		cycle := m.faces[f]
		if len(cycle) < 3 {
			errs = append(errs, checkError("DEGENERATE_FACE",
				"cycle has %d vertices", len(cycle)).at(f))
			continue
		}
		seen := make(map[VertexKey]bool, len(cycle))
		for i, a := range cycle {
			if _, ok := m.vertices[a]; !ok {
				errs = append(errs, checkError("UNKNOWN_VERTEX",
					"cycle refers to missing vertex %d", a).at(f))
				continue
			}
			if seen[a] {
				errs = append(errs, checkError("REPEATED_VERTEX",
					"vertex %d appears twice in cycle", a).at(f))
			}
			seen[a] = true
			b := cycle[(i+1)%len(cycle)]
			got, ok := m.halfedgeFace(a, b)
			if !ok {
				errs = append(errs, checkError("MISSING_HALFEDGE",
					"cycle pair (%d,%d) has no half-edge entry", a, b).at(f))
				continue
			}
			if got != f {
				errs = append(errs, checkError("MISMATCHED_HALFEDGE",
					"half-edge (%d,%d) maps to face %d", a, b, got).at(f))
			}
		}
	}

	for _, u := range m.Vertices() {
		row := m.halfedge[u]
		targets := make([]VertexKey, 0, len(row))
		for v := range row {
			targets = append(targets, v)
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		for _, v := range targets {
			if u == v {
				errs = append(errs, checkError("SELF_LOOP",
					"half-edge loops back to its origin").atVertex(u))
				continue
			}
			if _, ok := m.vertices[v]; !ok {
				errs = append(errs, checkError("UNKNOWN_VERTEX",
					"half-edge (%d,%d) targets a missing vertex", u, v).atVertex(u))
				continue
			}
			if _, ok := m.halfedgeFace(v, u); !ok {
				errs = append(errs, checkError("MISSING_REVERSE",
					"half-edge (%d,%d) has no reverse direction", u, v).atVertex(u))
			}
			f := row[v]
			if f.IsNone() {
				continue
			}
			if _, ok := m.faces[f]; !ok {
				errs = append(errs, checkError("UNKNOWN_FACE",
					"half-edge (%d,%d) bound to missing face %d", u, v, f).atVertex(u))
				continue
			}
			if succ, ok := m.faceSuccessor(f, u); !ok || succ != v {
				errs = append(errs, checkError("ORPHAN_HALFEDGE",
					"half-edge (%d,%d) bound to face %d which does not run through it", u, v, f).atVertex(u))
			}
		}
	}

	return errs
}

// CheckTri runs Check and additionally flags every non-triangular face,
// for meshes that are meant to stay triangle-only.
func (m *Mesh) CheckTri() []CheckError {
	errs := m.Check()
	for _, f := range m.Faces() {
		if n := len(m.faces[f]); n != 3 {
			errs = append(errs, checkError("NON_TRIANGULAR_FACE",
				"face has %d vertices", n).at(f))
		}
	}
	return errs
}
