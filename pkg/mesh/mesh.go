// Package mesh implements a half-edge mesh: vertices, faces stored as
// ordered vertex cycles, and a directed half-edge adjacency that tracks
// the face on either side of every edge. On top of the store it
// provides the local remeshing operators (split, collapse, swap),
// centroid smoothing, welding and structural checking.
//
// The mesh owns all records. Callers hold keys, never references, and
// every mutation goes through the mesh API, so the adjacency can never
// drift out of sync behind the store's back.
package mesh

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// vertexRecord holds the position and user attributes of one vertex.
type vertexRecord struct {
	pos   v3.Vec
	attrs map[string]AttrValue
}

// Mesh is a mutable half-edge mesh. The zero value is not usable; use
// NewMesh or one of the constructors.
//
// The half-edge table maps an ordered vertex pair (u, v) to the face
// lying left of the directed edge u->v, or to NoFace when that side is
// the unbounded boundary. For every undirected edge both directions are
// present.
type Mesh struct {
	vertices map[VertexKey]*vertexRecord
	faces    map[FaceKey][]VertexKey
	halfedge map[VertexKey]map[VertexKey]FaceKey

	nextVertex VertexKey
	nextFace   FaceKey
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{
		vertices: make(map[VertexKey]*vertexRecord),
		faces:    make(map[FaceKey][]VertexKey),
		halfedge: make(map[VertexKey]map[VertexKey]FaceKey),
	}
}

// FromVerticesAndFaces builds a mesh from vertex positions and faces
// given as index lists into the position slice.
func FromVerticesAndFaces(positions []v3.Vec, faces [][]int) (*Mesh, error) {
	m := NewMesh()
	keys := make([]VertexKey, len(positions))
	for i, p := range positions {
		keys[i] = m.AddVertex(p)
	}
	for i, face := range faces {
		cycle := make([]VertexKey, len(face))
		for j, idx := range face {
			if idx < 0 || idx >= len(keys) {
				return nil, InvalidParameterError{
					Op:     "from vertices and faces",
					Param:  "faces",
					Reason: fmt.Sprintf("face %d refers to vertex %d, have %d vertices", i, idx, len(keys)),
				}
			}
			cycle[j] = keys[idx]
		}
		if _, err := m.AddFace(cycle...); err != nil {
			return nil, fmt.Errorf("adding face %d %v: %w", i, face, err)
		}
	}
	return m, nil
}

// AddVertex inserts a new vertex at the given position and returns its
// key. Attributes start empty.
func (m *Mesh) AddVertex(pos v3.Vec) VertexKey {
	k := m.nextVertex
	m.nextVertex++
	m.vertices[k] = &vertexRecord{pos: pos, attrs: make(map[string]AttrValue)}
	m.halfedge[k] = make(map[VertexKey]FaceKey)
	return k
}

// addVertexMerged inserts a vertex whose attributes combine the two
// given vertices per the attribute merge table.
func (m *Mesh) addVertexMerged(pos v3.Vec, a, b VertexKey) VertexKey {
	k := m.AddVertex(pos)
	m.vertices[k].attrs = mergeAttrs(m.vertices[a].attrs, m.vertices[b].attrs)
	return k
}

// AddFace inserts a face bounded by the given vertex cycle and wires up
// its half-edges. Consecutive duplicate vertices are dropped, including
// a closing repeat of the first vertex. The cycle must have at least 3
// distinct vertices, all present in the mesh, and may not claim a
// directed half-edge already bound to another face.
func (m *Mesh) AddFace(cycle ...VertexKey) (FaceKey, error) {
	cycle = normalizeCycle(cycle)
	if len(cycle) < 3 {
		return NoFace, TopologyError{Op: "add face", Reason: "fewer than 3 distinct vertices"}
	}
	seen := make(map[VertexKey]bool, len(cycle))
	for _, vk := range cycle {
		if _, ok := m.vertices[vk]; !ok {
			return NoFace, vertexNotFound(vk)
		}
		if seen[vk] {
			return NoFace, TopologyError{Op: "add face", Reason: fmt.Sprintf("vertex %d repeats in cycle", vk)}
		}
		seen[vk] = true
	}
	for i, a := range cycle {
		b := cycle[(i+1)%len(cycle)]
		if f, ok := m.halfedge[a][b]; ok && !f.IsNone() {
			return NoFace, TopologyError{
				Op:     "add face",
				Reason: fmt.Sprintf("half-edge (%d,%d) already bound to face %d", a, b, f),
			}
		}
	}

	f := m.nextFace
	m.nextFace++
	m.faces[f] = append([]VertexKey(nil), cycle...)
	for i, a := range cycle {
		b := cycle[(i+1)%len(cycle)]
		m.halfedge[a][b] = f
		if _, ok := m.halfedge[b][a]; !ok {
			m.halfedge[b][a] = NoFace
		}
	}
	return f, nil
}

// DeleteFace removes a face. Its half-edges become boundary; edges left
// without a face on either side are removed entirely.
func (m *Mesh) DeleteFace(f FaceKey) error {
	cycle, ok := m.faces[f]
	if !ok {
		return faceNotFound(f)
	}
	for i, a := range cycle {
		b := cycle[(i+1)%len(cycle)]
		if rev, ok := m.halfedge[b][a]; ok && rev.IsNone() {
			delete(m.halfedge[a], b)
			delete(m.halfedge[b], a)
		} else {
			m.halfedge[a][b] = NoFace
		}
	}
	delete(m.faces, f)
	return nil
}

// DeleteVertex removes an isolated vertex. Vertices still carrying
// edges cannot be deleted directly; collapse is the operation that
// removes connected vertices.
func (m *Mesh) DeleteVertex(v VertexKey) error {
	if _, ok := m.vertices[v]; !ok {
		return vertexNotFound(v)
	}
	if len(m.halfedge[v]) > 0 {
		return TopologyError{Op: "delete vertex", Reason: fmt.Sprintf("vertex %d still has incident edges", v)}
	}
	delete(m.vertices, v)
	delete(m.halfedge, v)
	return nil
}

// SetVertexPosition moves a vertex.
func (m *Mesh) SetVertexPosition(v VertexKey, pos v3.Vec) error {
	rec, ok := m.vertices[v]
	if !ok {
		return vertexNotFound(v)
	}
	rec.pos = pos
	return nil
}

// SetVertexAttr sets a user attribute on a vertex. A nil value removes
// the attribute.
func (m *Mesh) SetVertexAttr(v VertexKey, name string, val AttrValue) error {
	rec, ok := m.vertices[v]
	if !ok {
		return vertexNotFound(v)
	}
	if val == nil {
		delete(rec.attrs, name)
		return nil
	}
	rec.attrs[name] = val
	return nil
}

// VertexAttr returns a user attribute of a vertex. The boolean is false
// when the vertex does not carry the attribute or does not exist.
func (m *Mesh) VertexAttr(v VertexKey, name string) (AttrValue, bool) {
	rec, ok := m.vertices[v]
	if !ok {
		return nil, false
	}
	val, ok := rec.attrs[name]
	return val, ok
}

// Copy returns a deep copy sharing no state with m. Keys carry over
// unchanged, as do the allocator positions.
func (m *Mesh) Copy() *Mesh {
	out := NewMesh()
	out.nextVertex = m.nextVertex
	out.nextFace = m.nextFace
	for vk, rec := range m.vertices {
		out.vertices[vk] = &vertexRecord{pos: rec.pos, attrs: cloneAttrs(rec.attrs)}
	}
	for fk, cycle := range m.faces {
		out.faces[fk] = append([]VertexKey(nil), cycle...)
	}
	for u, row := range m.halfedge {
		dup := make(map[VertexKey]FaceKey, len(row))
		for v, f := range row {
			dup[v] = f
		}
		out.halfedge[u] = dup
	}
	return out
}

// normalizeCycle drops consecutive duplicate vertices from a face
// cycle, including a closing repeat of the first vertex.
func normalizeCycle(cycle []VertexKey) []VertexKey {
	out := make([]VertexKey, 0, len(cycle))
	for _, vk := range cycle {
		if len(out) > 0 && out[len(out)-1] == vk {
			continue
		}
		out = append(out, vk)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// halfedgeFace looks up the face left of directed edge (u, v). The
// boolean is false when (u, v) is not a directed edge of the mesh.
func (m *Mesh) halfedgeFace(u, v VertexKey) (FaceKey, bool) {
	row, ok := m.halfedge[u]
	if !ok {
		return NoFace, false
	}
	f, ok := row[v]
	if !ok {
		return NoFace, false
	}
	return f, ok
}
