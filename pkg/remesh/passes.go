package remesh

import (
	"go.uber.org/zap"

	"github.com/chazu/trellis/pkg/mesh"
)

// Each pass walks the edges in their pinned order and skips edges
// touching a vertex already operated on in the same pass, so structurally
// adjacent edges are never rewritten twice per pass. Operator errors on a
// single edge are logged and skipped; a pass never aborts the run.

func splitPass(m *mesh.Mesh, limit float64, allowBoundary bool, log *zap.Logger) {
	visited := make(map[mesh.VertexKey]bool)
	for _, e := range m.Edges() {
		if visited[e.U] || visited[e.V] {
			continue
		}
		length, err := m.EdgeLength(e.U, e.V)
		if err != nil || length <= limit {
			continue
		}
		if _, err := mesh.SplitEdgeTri(m, e.U, e.V, 0.5, allowBoundary); err != nil {
			log.Warn("split failed",
				zap.Int("u", int(e.U)), zap.Int("v", int(e.V)), zap.Error(err))
			continue
		}
		visited[e.U] = true
		visited[e.V] = true
	}
}

func collapsePass(m *mesh.Mesh, limit float64, fixed map[mesh.VertexKey]bool, log *zap.Logger) {
	visited := make(map[mesh.VertexKey]bool)
	for _, e := range m.Edges() {
		if visited[e.U] || visited[e.V] {
			continue
		}
		if fixed[e.U] || fixed[e.V] {
			continue
		}
		length, err := m.EdgeLength(e.U, e.V)
		if err != nil || length >= limit {
			continue
		}
		if _, err := mesh.CollapseEdge(m, e.U, e.V, false); err != nil {
			log.Warn("collapse failed",
				zap.Int("u", int(e.U)), zap.Int("v", int(e.V)), zap.Error(err))
			continue
		}
		// Poison the whole neighborhood for this pass, whether or not
		// the collapse went through, so collapses never cascade.
		visited[e.U] = true
		visited[e.V] = true
		if nbrs, err := m.Neighbors(e.U); err == nil {
			for _, nbr := range nbrs {
				visited[nbr] = true
			}
		}
	}
}

func swapPass(m *mesh.Mesh, log *zap.Logger) {
	visited := make(map[mesh.VertexKey]bool)
	boundary := make(map[mesh.VertexKey]bool)
	for _, vk := range m.BoundaryVertices() {
		boundary[vk] = true
	}
	for _, e := range m.Edges() {
		u, v := e.U, e.V
		if visited[u] || visited[v] {
			continue
		}
		f1, err := m.HalfEdge(u, v)
		if err != nil || f1.IsNone() {
			continue
		}
		f2, err := m.HalfEdge(v, u)
		if err != nil || f2.IsNone() {
			continue
		}
		v1, ok := successor(m, f1, v)
		if !ok {
			continue
		}
		v2, ok := successor(m, f2, u)
		if !ok {
			continue
		}
		if v1 == v2 {
			continue
		}
		if !swapImproves(
			biasedDegree(m, u, boundary),
			biasedDegree(m, v, boundary),
			biasedDegree(m, v1, boundary),
			biasedDegree(m, v2, boundary)) {
			continue
		}
		if _, err := mesh.SwapEdge(m, u, v); err != nil {
			log.Warn("swap failed",
				zap.Int("u", int(u)), zap.Int("v", int(v)), zap.Error(err))
			continue
		}
		visited[u] = true
		visited[v] = true
	}
}

// swapImproves decides whether rotating an edge strictly reduces the
// total deviation of the four involved valences from the ideal 6. The
// edge endpoints lose a neighbor, the opposite vertices gain one; ties
// keep the current edge.
func swapImproves(du, dv, d1, d2 int) bool {
	current := intAbs(du-6) + intAbs(dv-6) + intAbs(d1-6) + intAbs(d2-6)
	flipped := intAbs(du-7) + intAbs(dv-7) + intAbs(d1-5) + intAbs(d2-5)
	return current > flipped
}

// biasedDegree counts a vertex valence with boundary vertices biased by
// +2, standing in for the wedge their missing faces would contribute.
func biasedDegree(m *mesh.Mesh, vk mesh.VertexKey, boundary map[mesh.VertexKey]bool) int {
	deg, err := m.VertexDegree(vk)
	if err != nil {
		return 0
	}
	if boundary[vk] {
		deg += 2
	}
	return deg
}

// successor returns the vertex after the given one in a triangle cycle.
func successor(m *mesh.Mesh, f mesh.FaceKey, after mesh.VertexKey) (mesh.VertexKey, bool) {
	cycle, err := m.FaceVertices(f)
	if err != nil || len(cycle) != 3 {
		return mesh.NoVertex, false
	}
	for i, vk := range cycle {
		if vk == after {
			return cycle[(i+1)%3], true
		}
	}
	return mesh.NoVertex, false
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
