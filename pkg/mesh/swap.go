package mesh

import "fmt"

// SwapEdge rotates the interior edge {u, v} shared by two triangles:
// the edge is removed and the opposite diagonal inserted, replacing
// triangles (u,v,v1) and (v,u,v2) with (v1,u,v2) and (v2,v,v1). The
// winding of the new faces keeps the surface orientation.
//
// The boolean result reports whether the swap was performed. Swaps on
// boundary edges, swaps whose opposite vertices coincide, and swaps
// whose diagonal already exists are skipped, not errors. The two faces
// are recreated under fresh keys.
func SwapEdge(m *Mesh, u, v VertexKey) (bool, error) {
	f1, ok := m.halfedgeFace(u, v)
	if !ok {
		return false, edgeNotFound(u, v)
	}
	f2, ok := m.halfedgeFace(v, u)
	if !ok {
		return false, halfedgeNotFound(v, u)
	}
	if f1.IsNone() || f2.IsNone() {
		return false, nil
	}
	if len(m.faces[f1]) != 3 {
		return false, TopologyError{Op: "swap edge", Reason: fmt.Sprintf("face %d is not a triangle", f1)}
	}
	if len(m.faces[f2]) != 3 {
		return false, TopologyError{Op: "swap edge", Reason: fmt.Sprintf("face %d is not a triangle", f2)}
	}

	v1, _ := m.faceSuccessor(f1, v)
	v2, _ := m.faceSuccessor(f2, u)
	if v1 == v2 {
		return false, nil
	}
	if m.HasEdge(v1, v2) {
		return false, nil
	}

	if err := m.DeleteFace(f1); err != nil {
		return false, err
	}
	if err := m.DeleteFace(f2); err != nil {
		return false, err
	}
	if _, err := m.AddFace(v1, u, v2); err != nil {
		return false, err
	}
	if _, err := m.AddFace(v2, v, v1); err != nil {
		return false, err
	}
	return true, nil
}
