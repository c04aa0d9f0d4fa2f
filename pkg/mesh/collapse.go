package mesh

import (
	"fmt"

	"github.com/chazu/trellis/pkg/geom"
)

// CollapseEdge merges vertex v into vertex u across edge {u, v}. The
// surviving vertex moves to the edge midpoint and its attributes merge
// those of u and v, mirroring what a split does. The two faces adjacent
// to the edge disappear, the remaining half-edges of v are redirected to
// u, v is relabeled to u in the surviving face cycles, and v is removed.
//
// Collapses that would produce non-manifold topology are skipped, as are
// collapses touching the boundary when allowBoundary is unset. The
// boolean result reports whether the collapse was performed; a skip is
// not an error.
func CollapseEdge(m *Mesh, u, v VertexKey, allowBoundary bool) (bool, error) {
	f1, ok := m.halfedgeFace(u, v)
	if !ok {
		return false, edgeNotFound(u, v)
	}
	f2, ok := m.halfedgeFace(v, u)
	if !ok {
		return false, halfedgeNotFound(v, u)
	}
	if !f1.IsNone() && len(m.faces[f1]) != 3 {
		return false, TopologyError{Op: "collapse edge", Reason: fmt.Sprintf("face %d is not a triangle", f1)}
	}
	if !f2.IsNone() && len(m.faces[f2]) != 3 {
		return false, TopologyError{Op: "collapse edge", Reason: fmt.Sprintf("face %d is not a triangle", f2)}
	}
	if !m.collapseIsLegal(u, v, allowBoundary) {
		return false, nil
	}

	m.vertices[u].attrs = mergeAttrs(m.vertices[u].attrs, m.vertices[v].attrs)
	m.vertices[u].pos = geom.Midpoint(m.vertices[u].pos, m.vertices[v].pos)

	w1, w2 := NoVertex, NoVertex
	if !f1.IsNone() {
		w1, _ = m.faceSuccessor(f1, v)
	}
	if !f2.IsNone() {
		w2, _ = m.faceSuccessor(f2, u)
	}

	if !f1.IsNone() && !f2.IsNone() && w1 == w2 {
		// Two triangles back to back around {u, v}: both faces vanish
		// together with all three edges of the pillow.
		delete(m.faces, f1)
		delete(m.faces, f2)
		delete(m.halfedge[u], v)
		delete(m.halfedge[v], u)
		delete(m.halfedge[v], w1)
		delete(m.halfedge[w1], v)
		delete(m.halfedge[u], w1)
		delete(m.halfedge[w1], u)
	} else {
		if !f1.IsNone() {
			// Face (u,v,w1) vanishes; edge {v,w1} folds onto {u,w1}.
			delete(m.faces, f1)
			m.halfedge[w1][u] = m.halfedge[w1][v]
			delete(m.halfedge[w1], v)
			delete(m.halfedge[v], w1)
			// The fold target may be v's last face on this side (v had
			// degree 3), in which case the redirect loop below never
			// reaches it; relabel it here.
			m.relabelInFace(m.halfedge[w1][u], v, u)
		}
		delete(m.halfedge[u], v)
		if !f2.IsNone() {
			// Face (v,u,w2) vanishes; edge {v,w2} folds onto {u,w2}.
			delete(m.faces, f2)
			m.halfedge[u][w2] = m.halfedge[v][w2]
			delete(m.halfedge[v], w2)
			delete(m.halfedge[w2], v)
			m.relabelInFace(m.halfedge[u][w2], v, u)
		}
		delete(m.halfedge[v], u)
		// Collapsing an ear whose outer edges were both boundary
		// leaves an edge with no face on either side; drop it.
		m.dropFloatingEdge(u, w1)
		m.dropFloatingEdge(u, w2)
	}

	// Redirect the remaining star of v to u and relabel v in the
	// surviving face cycles.
	for nbr := range m.halfedge[v] {
		f := m.halfedge[v][nbr]
		frev, _ := m.halfedgeFace(nbr, v)
		m.halfedge[u][nbr] = f
		m.halfedge[nbr][u] = frev
		delete(m.halfedge[nbr], v)
		m.relabelInFace(f, v, u)
		m.relabelInFace(frev, v, u)
	}
	delete(m.halfedge, v)
	delete(m.vertices, v)
	return true, nil
}

// collapseIsLegal implements the link condition. Collapsing may not
// touch the boundary unless allowed, and every common neighbor of u and
// v must span one of the two real faces adjacent to the edge; any other
// common neighbor means the collapse would pinch the mesh or duplicate
// a face.
func (m *Mesh) collapseIsLegal(u, v VertexKey, allowBoundary bool) bool {
	if !allowBoundary {
		bu, _ := m.IsBoundaryVertex(u)
		bv, _ := m.IsBoundaryVertex(v)
		if bu || bv {
			return false
		}
	}
	fuv, _ := m.halfedgeFace(u, v)
	fvu, _ := m.halfedgeFace(v, u)
	for nbr := range m.halfedge[u] {
		if nbr == v {
			continue
		}
		if _, common := m.halfedge[v][nbr]; !common {
			continue
		}
		// (u,v,nbr) is the u-side face iff all three directed edges
		// agree on it.
		fvn, _ := m.halfedgeFace(v, nbr)
		fnu, _ := m.halfedgeFace(nbr, u)
		if !fuv.IsNone() && fuv == fvn && fuv == fnu {
			continue
		}
		// Likewise (v,u,nbr) for the v-side face.
		fun, _ := m.halfedgeFace(u, nbr)
		fnv, _ := m.halfedgeFace(nbr, v)
		if !fvu.IsNone() && fvu == fun && fvu == fnv {
			continue
		}
		return false
	}
	return true
}

// dropFloatingEdge removes edge {a, b} when neither side carries a face.
func (m *Mesh) dropFloatingEdge(a, b VertexKey) {
	if a.IsNone() || b.IsNone() {
		return
	}
	fa, ok := m.halfedgeFace(a, b)
	if !ok {
		return
	}
	fb, ok := m.halfedgeFace(b, a)
	if !ok {
		return
	}
	if fa.IsNone() && fb.IsNone() {
		delete(m.halfedge[a], b)
		delete(m.halfedge[b], a)
	}
}

// relabelInFace rewrites every occurrence of a vertex in a face cycle.
func (m *Mesh) relabelInFace(f FaceKey, from, to VertexKey) {
	if f.IsNone() {
		return
	}
	cycle, ok := m.faces[f]
	if !ok {
		return
	}
	for i, vk := range cycle {
		if vk == from {
			cycle[i] = to
		}
	}
}
