package mesh

import (
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/trellis/pkg/geom"
)

// NumVertices returns the number of vertices.
func (m *Mesh) NumVertices() int { return len(m.vertices) }

// NumFaces returns the number of faces.
func (m *Mesh) NumFaces() int { return len(m.faces) }

// NumEdges returns the number of undirected edges.
func (m *Mesh) NumEdges() int {
	n := 0
	for _, row := range m.halfedge {
		n += len(row)
	}
	return n / 2
}

// HasVertex reports whether v is a vertex of the mesh.
func (m *Mesh) HasVertex(v VertexKey) bool {
	_, ok := m.vertices[v]
	return ok
}

// HasFace reports whether f is a face of the mesh.
func (m *Mesh) HasFace(f FaceKey) bool {
	_, ok := m.faces[f]
	return ok
}

// HasEdge reports whether {u, v} is an edge of the mesh.
func (m *Mesh) HasEdge(u, v VertexKey) bool {
	_, ok := m.halfedgeFace(u, v)
	return ok
}

// Vertices returns all vertex keys in ascending order.
func (m *Mesh) Vertices() []VertexKey {
	keys := make([]VertexKey, 0, len(m.vertices))
	for k := range m.vertices {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Faces returns all face keys in ascending order.
func (m *Mesh) Faces() []FaceKey {
	keys := make([]FaceKey, 0, len(m.faces))
	for k := range m.faces {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Edges returns every undirected edge exactly once as (U, V) with U < V,
// sorted lexicographically. The order is deterministic for a fixed mesh
// state, which the remeshing passes rely on for reproducibility.
func (m *Mesh) Edges() []Edge {
	edges := make([]Edge, 0, len(m.vertices)*3)
	for u, row := range m.halfedge {
		for v := range row {
			if u < v {
				edges = append(edges, Edge{U: u, V: v})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		return edges[i].V < edges[j].V
	})
	return edges
}

// VertexPosition returns the position of a vertex.
func (m *Mesh) VertexPosition(v VertexKey) (v3.Vec, error) {
	rec, ok := m.vertices[v]
	if !ok {
		return v3.Vec{}, vertexNotFound(v)
	}
	return rec.pos, nil
}

// Neighbors returns the vertices reachable from v across one edge, in
// ascending order.
func (m *Mesh) Neighbors(v VertexKey) ([]VertexKey, error) {
	if _, ok := m.vertices[v]; !ok {
		return nil, vertexNotFound(v)
	}
	nbrs := make([]VertexKey, 0, len(m.halfedge[v]))
	for n := range m.halfedge[v] {
		nbrs = append(nbrs, n)
	}
	sort.Slice(nbrs, func(i, j int) bool { return nbrs[i] < nbrs[j] })
	return nbrs, nil
}

// VertexDegree returns the number of distinct neighbors of v.
func (m *Mesh) VertexDegree(v VertexKey) (int, error) {
	if _, ok := m.vertices[v]; !ok {
		return 0, vertexNotFound(v)
	}
	return len(m.halfedge[v]), nil
}

// HalfEdge returns the face left of the directed edge (u, v), or NoFace
// when that side is the mesh boundary. Asking for a pair that is not a
// directed edge is an error.
func (m *Mesh) HalfEdge(u, v VertexKey) (FaceKey, error) {
	f, ok := m.halfedgeFace(u, v)
	if !ok {
		return NoFace, halfedgeNotFound(u, v)
	}
	return f, nil
}

// EdgeFaces returns the faces on both sides of edge {u, v}: first the
// face left of u->v, then the face left of v->u. Either may be NoFace.
func (m *Mesh) EdgeFaces(u, v VertexKey) (FaceKey, FaceKey, error) {
	fu, ok := m.halfedgeFace(u, v)
	if !ok {
		return NoFace, NoFace, edgeNotFound(u, v)
	}
	fv, _ := m.halfedgeFace(v, u)
	return fu, fv, nil
}

// EdgeLength returns the euclidean length of edge {u, v}.
func (m *Mesh) EdgeLength(u, v VertexKey) (float64, error) {
	if !m.HasEdge(u, v) {
		return 0, edgeNotFound(u, v)
	}
	pu := m.vertices[u].pos
	pv := m.vertices[v].pos
	return geom.Distance(pu, pv), nil
}

// IsBoundaryEdge reports whether either side of edge {u, v} is the
// unbounded boundary.
func (m *Mesh) IsBoundaryEdge(u, v VertexKey) (bool, error) {
	fu, fv, err := m.EdgeFaces(u, v)
	if err != nil {
		return false, err
	}
	return fu.IsNone() || fv.IsNone(), nil
}

// IsBoundaryVertex reports whether v touches the mesh boundary, i.e. is
// incident to at least one half-edge mapping to NoFace.
func (m *Mesh) IsBoundaryVertex(v VertexKey) (bool, error) {
	if _, ok := m.vertices[v]; !ok {
		return false, vertexNotFound(v)
	}
	for n, f := range m.halfedge[v] {
		if f.IsNone() {
			return true, nil
		}
		if rev, ok := m.halfedgeFace(n, v); ok && rev.IsNone() {
			return true, nil
		}
	}
	return false, nil
}

// BoundaryVertices returns all vertices on the mesh boundary in
// ascending order.
func (m *Mesh) BoundaryVertices() []VertexKey {
	var keys []VertexKey
	for v := range m.vertices {
		if onBoundary, _ := m.IsBoundaryVertex(v); onBoundary {
			keys = append(keys, v)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// FaceVertices returns the ordered vertex cycle of a face.
func (m *Mesh) FaceVertices(f FaceKey) ([]VertexKey, error) {
	cycle, ok := m.faces[f]
	if !ok {
		return nil, faceNotFound(f)
	}
	return append([]VertexKey(nil), cycle...), nil
}

// VertexFaces returns the distinct real faces incident to v in
// ascending order.
func (m *Mesh) VertexFaces(v VertexKey) ([]FaceKey, error) {
	if _, ok := m.vertices[v]; !ok {
		return nil, vertexNotFound(v)
	}
	seen := make(map[FaceKey]bool)
	var faces []FaceKey
	collect := func(f FaceKey) {
		if !f.IsNone() && !seen[f] {
			seen[f] = true
			faces = append(faces, f)
		}
	}
	for n, f := range m.halfedge[v] {
		collect(f)
		if rev, ok := m.halfedgeFace(n, v); ok {
			collect(rev)
		}
	}
	sort.Slice(faces, func(i, j int) bool { return faces[i] < faces[j] })
	return faces, nil
}

// FaceCentroid returns the mean position of a face's vertices.
func (m *Mesh) FaceCentroid(f FaceKey) (v3.Vec, error) {
	pts, err := m.facePoints(f)
	if err != nil {
		return v3.Vec{}, err
	}
	return geom.Centroid(pts), nil
}

// FaceNormal returns the unit normal of a face per its winding order.
func (m *Mesh) FaceNormal(f FaceKey) (v3.Vec, error) {
	pts, err := m.facePoints(f)
	if err != nil {
		return v3.Vec{}, err
	}
	return geom.PolygonNormal(pts), nil
}

// FaceArea returns the area of a triangular face.
func (m *Mesh) FaceArea(f FaceKey) (float64, error) {
	pts, err := m.facePoints(f)
	if err != nil {
		return 0, err
	}
	if len(pts) != 3 {
		return 0, TopologyError{Op: "face area", Reason: "face is not a triangle"}
	}
	return geom.TriangleArea(pts[0], pts[1], pts[2]), nil
}

// Centroid returns the mean position of all vertices.
func (m *Mesh) Centroid() v3.Vec {
	pts := make([]v3.Vec, 0, len(m.vertices))
	for _, vk := range m.Vertices() {
		pts = append(pts, m.vertices[vk].pos)
	}
	return geom.Centroid(pts)
}

// IsTriMesh reports whether every face has exactly 3 vertices.
func (m *Mesh) IsTriMesh() bool {
	for _, cycle := range m.faces {
		if len(cycle) != 3 {
			return false
		}
	}
	return true
}

func (m *Mesh) facePoints(f FaceKey) ([]v3.Vec, error) {
	cycle, ok := m.faces[f]
	if !ok {
		return nil, faceNotFound(f)
	}
	pts := make([]v3.Vec, len(cycle))
	for i, vk := range cycle {
		pts[i] = m.vertices[vk].pos
	}
	return pts, nil
}

// faceSuccessor returns the vertex after v in the cycle of face f. The
// boolean is false when v is not part of the cycle.
func (m *Mesh) faceSuccessor(f FaceKey, v VertexKey) (VertexKey, bool) {
	cycle, ok := m.faces[f]
	if !ok {
		return NoVertex, false
	}
	for i, vk := range cycle {
		if vk == v {
			return cycle[(i+1)%len(cycle)], true
		}
	}
	return NoVertex, false
}
