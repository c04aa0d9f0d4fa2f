package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/trellis/pkg/geom"
)

// DefaultWeldDecimals is the geometric key precision used to weld
// coincident triangle corners when no other precision is given.
const DefaultWeldDecimals = 6

// FromTriangles builds a mesh from triangle soup, welding corners whose
// positions agree to the given number of decimals. The slice shape is
// what render.ToTriangles produces. Triangles that collapse to fewer
// than three distinct corners under welding are dropped; triangles that
// would make the surface non-manifold are an error.
func FromTriangles(tris []*sdf.Triangle3, decimals int) (*Mesh, error) {
	if decimals < 1 {
		return nil, InvalidParameterError{Op: "from triangles", Param: "decimals", Reason: "must be at least 1"}
	}
	m := NewMesh()
	index := make(map[string]VertexKey)
	keyOf := func(p v3.Vec) VertexKey {
		gk := geom.GeometricKey(p, decimals)
		if vk, ok := index[gk]; ok {
			return vk
		}
		vk := m.AddVertex(p)
		index[gk] = vk
		return vk
	}
	for i, tri := range tris {
		a := keyOf(tri[0])
		b := keyOf(tri[1])
		c := keyOf(tri[2])
		if a == b || b == c || c == a {
			continue
		}
		if _, err := m.AddFace(a, b, c); err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
	}
	return m, nil
}

// Triangles flattens a triangle mesh back into independent triangles.
// Non-triangular faces are an error.
func Triangles(m *Mesh) ([]*sdf.Triangle3, error) {
	out := make([]*sdf.Triangle3, 0, len(m.faces))
	for _, f := range m.Faces() {
		pts, err := m.facePoints(f)
		if err != nil {
			return nil, err
		}
		if len(pts) != 3 {
			return nil, TopologyError{Op: "triangles", Reason: fmt.Sprintf("face %d is not a triangle", f)}
		}
		tri := sdf.Triangle3{pts[0], pts[1], pts[2]}
		out = append(out, &tri)
	}
	return out, nil
}

// UnweldFace detaches a face from its neighbors by giving it private
// duplicates of the selected corner vertices, or of all its corners
// when where is empty. The duplicates sit at the same positions as the
// originals and copy their attributes; the edges the face shared
// through the duplicated corners become boundary. The face is recreated
// under a fresh key, which is returned.
func UnweldFace(m *Mesh, f FaceKey, where ...VertexKey) (FaceKey, error) {
	cycle, err := m.FaceVertices(f)
	if err != nil {
		return NoFace, err
	}
	dup := make(map[VertexKey]bool, len(cycle))
	if len(where) == 0 {
		for _, vk := range cycle {
			dup[vk] = true
		}
	} else {
		inCycle := make(map[VertexKey]bool, len(cycle))
		for _, vk := range cycle {
			inCycle[vk] = true
		}
		for _, vk := range where {
			if !inCycle[vk] {
				return NoFace, InvalidParameterError{
					Op:     "unweld face",
					Param:  "where",
					Reason: fmt.Sprintf("vertex %d is not a corner of face %d", vk, f),
				}
			}
			dup[vk] = true
		}
	}

	fresh := make([]VertexKey, len(cycle))
	for i, vk := range cycle {
		if !dup[vk] {
			fresh[i] = vk
			continue
		}
		rec := m.vertices[vk]
		nk := m.AddVertex(rec.pos)
		m.vertices[nk].attrs = cloneAttrs(rec.attrs)
		fresh[i] = nk
	}

	if err := m.DeleteFace(f); err != nil {
		return NoFace, err
	}
	nf, err := m.AddFace(fresh...)
	if err != nil {
		return NoFace, err
	}
	return nf, nil
}
