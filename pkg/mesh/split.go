package mesh

import (
	"fmt"

	"github.com/chazu/trellis/pkg/geom"
)

// SplitEdge splits edge {u, v} at parameter t measured from u and
// returns the key of the new vertex. The faces on both sides keep their
// identity and grow by one vertex, so on a triangle mesh the neighbors
// become quads; SplitEdgeTri restores triangles.
//
// Splitting a boundary edge is skipped unless allowBoundary is set; a
// skipped split returns NoVertex with a nil error, leaving the mesh
// untouched. The new vertex's attributes merge those of u and v.
func SplitEdge(m *Mesh, u, v VertexKey, t float64, allowBoundary bool) (VertexKey, error) {
	if t <= 0 || t >= 1 {
		return NoVertex, InvalidParameterError{
			Op:     "split edge",
			Param:  "t",
			Reason: fmt.Sprintf("%v is not strictly between 0 and 1", t),
		}
	}
	fu, ok := m.halfedgeFace(u, v)
	if !ok {
		return NoVertex, edgeNotFound(u, v)
	}
	fv, ok := m.halfedgeFace(v, u)
	if !ok {
		return NoVertex, halfedgeNotFound(v, u)
	}
	if (fu.IsNone() || fv.IsNone()) && !allowBoundary {
		return NoVertex, nil
	}

	pu := m.vertices[u].pos
	pv := m.vertices[v].pos
	w := m.addVertexMerged(geom.Lerp(pu, pv, t), u, v)

	// Replace (u,v) by (u,w)+(w,v) and (v,u) by (v,w)+(w,u), each pair
	// keeping the face of the half-edge it replaces.
	delete(m.halfedge[u], v)
	delete(m.halfedge[v], u)
	m.halfedge[u][w] = fu
	m.halfedge[w][v] = fu
	m.halfedge[v][w] = fv
	m.halfedge[w][u] = fv

	if !fu.IsNone() {
		m.faces[fu] = insertAfter(m.faces[fu], u, w)
	}
	if !fv.IsNone() {
		m.faces[fv] = insertAfter(m.faces[fv], v, w)
	}
	return w, nil
}

// SplitEdgeTri splits edge {u, v} of a triangle mesh and re-triangulates
// the two adjacent faces, so every face still has exactly 3 vertices
// afterwards. The boundary skip policy matches SplitEdge.
func SplitEdgeTri(m *Mesh, u, v VertexKey, t float64, allowBoundary bool) (VertexKey, error) {
	fu, ok := m.halfedgeFace(u, v)
	if !ok {
		return NoVertex, edgeNotFound(u, v)
	}
	fv, ok := m.halfedgeFace(v, u)
	if !ok {
		return NoVertex, halfedgeNotFound(v, u)
	}

	o1, o2 := NoVertex, NoVertex
	if !fu.IsNone() {
		if len(m.faces[fu]) != 3 {
			return NoVertex, TopologyError{Op: "split edge tri", Reason: fmt.Sprintf("face %d is not a triangle", fu)}
		}
		o1, _ = m.faceSuccessor(fu, v)
	}
	if !fv.IsNone() {
		if len(m.faces[fv]) != 3 {
			return NoVertex, TopologyError{Op: "split edge tri", Reason: fmt.Sprintf("face %d is not a triangle", fv)}
		}
		o2, _ = m.faceSuccessor(fv, u)
	}

	w, err := SplitEdge(m, u, v, t, allowBoundary)
	if err != nil || w.IsNone() {
		return w, err
	}

	// Each side face is now a quad; cut it along the diagonal from the
	// new vertex to the opposite corner.
	if !fu.IsNone() {
		if err := m.DeleteFace(fu); err != nil {
			return w, err
		}
		if _, err := m.AddFace(u, w, o1); err != nil {
			return w, err
		}
		if _, err := m.AddFace(w, v, o1); err != nil {
			return w, err
		}
	}
	if !fv.IsNone() {
		if err := m.DeleteFace(fv); err != nil {
			return w, err
		}
		if _, err := m.AddFace(v, w, o2); err != nil {
			return w, err
		}
		if _, err := m.AddFace(w, u, o2); err != nil {
			return w, err
		}
	}
	return w, nil
}

// insertAfter returns the cycle with w inserted after the first
// occurrence of the given vertex.
func insertAfter(cycle []VertexKey, after, w VertexKey) []VertexKey {
	out := make([]VertexKey, 0, len(cycle)+1)
	for _, vk := range cycle {
		out = append(out, vk)
		if vk == after {
			out = append(out, w)
		}
	}
	return out
}
