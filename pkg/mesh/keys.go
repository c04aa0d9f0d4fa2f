package mesh

// VertexKey identifies a vertex in a Mesh. Keys are issued by a
// monotonically increasing allocator owned by the mesh and are never
// reused while referenced.
type VertexKey int

// FaceKey identifies a face in a Mesh.
type FaceKey int

// NoVertex marks the absence of a vertex, e.g. the result of a split
// that was skipped.
const NoVertex VertexKey = -1

// NoFace marks the unbounded side of a boundary half-edge.
const NoFace FaceKey = -1

// IsNone reports whether k marks the absence of a vertex.
func (k VertexKey) IsNone() bool { return k < 0 }

// IsNone reports whether k marks the unbounded boundary side.
func (k FaceKey) IsNone() bool { return k < 0 }

// Edge is an undirected edge. The canonical form has U < V, which is
// what Edges returns.
type Edge struct {
	U, V VertexKey
}
