package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// SmoothCentroid moves every non-fixed vertex to the centroid of its
// neighbors, iterations times. Each iteration reads the positions from
// before the iteration started, so the update order within an iteration
// does not matter. Vertices in fixed never move; isolated vertices are
// left alone.
func SmoothCentroid(m *Mesh, fixed map[VertexKey]bool, iterations int) error {
	if iterations < 1 {
		return InvalidParameterError{Op: "smooth centroid", Param: "iterations", Reason: "must be at least 1"}
	}
	for it := 0; it < iterations; it++ {
		snapshot := make(map[VertexKey]v3.Vec, len(m.vertices))
		for vk, rec := range m.vertices {
			snapshot[vk] = rec.pos
		}
		// Summing in sorted neighbor order keeps the result identical
		// across runs.
		for _, vk := range m.Vertices() {
			if fixed[vk] {
				continue
			}
			nbrs, err := m.Neighbors(vk)
			if err != nil || len(nbrs) == 0 {
				continue
			}
			var sum v3.Vec
			for _, n := range nbrs {
				sum = sum.Add(snapshot[n])
			}
			m.vertices[vk].pos = sum.DivScalar(float64(len(nbrs)))
		}
	}
	return nil
}
