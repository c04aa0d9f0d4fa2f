package mesh

import (
	"errors"
	"fmt"
)

// Sentinel error categories. Concrete errors carry context; these exist
// so callers can classify with errors.Is.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrTopology         = errors.New("topology error")
	ErrNotFound         = errors.New("not found")
)

// InvalidParameterError reports an argument outside its allowed range.
type InvalidParameterError struct {
	Op     string
	Param  string
	Reason string
}

func (e InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Op, e.Param, e.Reason)
}

// Is matches ErrInvalidParameter.
func (e InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// TopologyError reports an operation that would corrupt the mesh
// structure, such as building a non-manifold or degenerate face.
type TopologyError struct {
	Op     string
	Reason string
}

func (e TopologyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Is matches ErrTopology.
func (e TopologyError) Is(target error) bool {
	return target == ErrTopology
}

// NotFoundError reports a query for a vertex, face or edge that is not
// in the mesh.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

// Is matches ErrNotFound.
func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func vertexNotFound(v VertexKey) error {
	return NotFoundError{Kind: "vertex", Key: fmt.Sprintf("%d", v)}
}

func faceNotFound(f FaceKey) error {
	return NotFoundError{Kind: "face", Key: fmt.Sprintf("%d", f)}
}

func edgeNotFound(u, v VertexKey) error {
	return NotFoundError{Kind: "edge", Key: fmt.Sprintf("(%d,%d)", u, v)}
}

func halfedgeNotFound(u, v VertexKey) error {
	return NotFoundError{Kind: "half-edge", Key: fmt.Sprintf("(%d,%d)", u, v)}
}
