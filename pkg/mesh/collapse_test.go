package mesh

import (
	"errors"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestCollapseEdgeInterior(t *testing.T) {
	m := octahedron(t)

	done, err := CollapseEdge(m, 0, 2, false)
	if err != nil {
		t.Fatalf("CollapseEdge: %v", err)
	}
	if !done {
		t.Fatalf("interior collapse skipped")
	}
	if m.HasVertex(2) {
		t.Errorf("collapsed vertex still present")
	}
	if m.NumVertices() != 5 || m.NumEdges() != 9 || m.NumFaces() != 6 {
		t.Errorf("counts = (%d,%d,%d), want (5,9,6)",
			m.NumVertices(), m.NumEdges(), m.NumFaces())
	}

	// The keeper moved to the midpoint of the old edge.
	pos, err := m.VertexPosition(0)
	if err != nil {
		t.Fatal(err)
	}
	want := v3.Vec{X: 0.5, Y: 0.5, Z: 0}
	if pos.Sub(want).Length() > 1e-12 {
		t.Errorf("keeper position = %v, want %v", pos, want)
	}
	mustBeClean(t, m)
}

func TestCollapseEdgeBoundaryPolicy(t *testing.T) {
	t.Run("blocked by default", func(t *testing.T) {
		m := quadPyramid(t)
		done, err := CollapseEdge(m, 0, 4, false)
		if err != nil {
			t.Fatalf("CollapseEdge: %v", err)
		}
		if done {
			t.Fatalf("collapse touching the boundary was not blocked")
		}
		if m.NumVertices() != 5 || m.NumFaces() != 4 {
			t.Errorf("mesh changed by skipped collapse")
		}
	})

	t.Run("allowed", func(t *testing.T) {
		m := quadPyramid(t)
		done, err := CollapseEdge(m, 0, 4, true)
		if err != nil {
			t.Fatalf("CollapseEdge: %v", err)
		}
		if !done {
			t.Fatalf("allowed boundary collapse skipped")
		}
		if m.NumVertices() != 4 || m.NumEdges() != 5 || m.NumFaces() != 2 {
			t.Errorf("counts = (%d,%d,%d), want (4,5,2)",
				m.NumVertices(), m.NumEdges(), m.NumFaces())
		}
		mustBeClean(t, m)
	})
}

func TestCollapseEdgeLinkCondition(t *testing.T) {
	// Vertex 4 neighbors both ends of edge {0,1} without spanning either
	// of the faces adjacent to it, so the collapse must be refused.
	m, err := FromVerticesAndFaces(
		[]v3.Vec{
			{X: 0, Y: 0},
			{X: 2, Y: 0},
			{X: 1, Y: 1},
			{X: 1, Y: -1},
			{X: 1, Y: 3},
		},
		[][]int{
			{0, 1, 2},
			{1, 0, 3},
			{2, 1, 4},
			{0, 2, 4},
		},
	)
	if err != nil {
		t.Fatalf("building fixture: %v", err)
	}

	for _, allow := range []bool{false, true} {
		done, err := CollapseEdge(m, 0, 1, allow)
		if err != nil {
			t.Fatalf("CollapseEdge(allow=%v): %v", allow, err)
		}
		if done {
			t.Fatalf("illegal collapse performed (allow=%v)", allow)
		}
	}
	if m.NumVertices() != 5 || m.NumFaces() != 4 {
		t.Errorf("mesh changed by refused collapse")
	}
}

func TestCollapseEdgePillow(t *testing.T) {
	// Two triangles glued along all three edges. Collapsing any edge
	// removes both faces and every edge of the pillow.
	m := NewMesh()
	u := m.AddVertex(v3.Vec{X: 0, Y: 0})
	v := m.AddVertex(v3.Vec{X: 1, Y: 0})
	w := m.AddVertex(v3.Vec{X: 0, Y: 1})
	if _, err := m.AddFace(u, v, w); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddFace(v, u, w); err != nil {
		t.Fatal(err)
	}

	done, err := CollapseEdge(m, u, v, false)
	if err != nil {
		t.Fatalf("CollapseEdge: %v", err)
	}
	if !done {
		t.Fatalf("pillow collapse skipped")
	}
	if m.NumFaces() != 0 || m.NumEdges() != 0 {
		t.Errorf("pillow left %d faces and %d edges", m.NumFaces(), m.NumEdges())
	}
	if m.NumVertices() != 2 {
		t.Errorf("vertices = %d, want 2 isolated survivors", m.NumVertices())
	}
	if errs := m.Check(); len(errs) != 0 {
		t.Errorf("mesh inconsistent: %v", errs)
	}
}

func TestCollapseEdgeDegreeThree(t *testing.T) {
	// When the collapsed vertex has degree 3, the edge surgery consumes
	// its entire star, so the surviving fold-target face must still be
	// relabeled even though no redirected half-edge points at it.

	t.Run("tetrahedron", func(t *testing.T) {
		m, err := FromVerticesAndFaces(
			[]v3.Vec{
				{X: 0, Y: 0, Z: 0},
				{X: 1, Y: 0, Z: 0},
				{X: 0.5, Y: 1, Z: 0},
				{X: 0.5, Y: 0.4, Z: 1},
			},
			[][]int{
				{0, 1, 2},
				{0, 2, 3},
				{0, 3, 1},
				{1, 3, 2},
			},
		)
		if err != nil {
			t.Fatalf("building tetrahedron: %v", err)
		}

		done, err := CollapseEdge(m, 0, 1, false)
		if err != nil {
			t.Fatalf("CollapseEdge: %v", err)
		}
		if !done {
			t.Fatalf("tetrahedron collapse skipped")
		}
		if m.HasVertex(1) {
			t.Errorf("collapsed vertex still present")
		}
		if m.NumVertices() != 3 || m.NumEdges() != 3 || m.NumFaces() != 2 {
			t.Errorf("counts = (%d,%d,%d), want (3,3,2)",
				m.NumVertices(), m.NumEdges(), m.NumFaces())
		}
		mustBeClean(t, m)
	})

	t.Run("interior hub of a three-fan", func(t *testing.T) {
		// A triangle with a hub inside it fanned into three faces; the
		// hub's three neighbors are exactly u, w1 and w2 of the collapse.
		m, err := FromVerticesAndFaces(
			[]v3.Vec{
				{X: 0, Y: 0},
				{X: 3, Y: 0},
				{X: 1.5, Y: 3},
				{X: 1.5, Y: 1},
			},
			[][]int{
				{0, 1, 3},
				{1, 2, 3},
				{2, 0, 3},
			},
		)
		if err != nil {
			t.Fatalf("building fan: %v", err)
		}

		done, err := CollapseEdge(m, 0, 3, true)
		if err != nil {
			t.Fatalf("CollapseEdge: %v", err)
		}
		if !done {
			t.Fatalf("hub collapse skipped")
		}
		if m.HasVertex(3) {
			t.Errorf("collapsed hub still present")
		}
		if m.NumVertices() != 3 || m.NumEdges() != 3 || m.NumFaces() != 1 {
			t.Errorf("counts = (%d,%d,%d), want (3,3,1)",
				m.NumVertices(), m.NumEdges(), m.NumFaces())
		}
		cycle, err := m.FaceVertices(1)
		if err != nil {
			t.Fatalf("surviving face missing: %v", err)
		}
		for _, vk := range cycle {
			if vk == 3 {
				t.Errorf("surviving cycle %v still references the hub", cycle)
			}
		}
		mustBeClean(t, m)
	})
}

func TestCollapseEdgeMergesAttributes(t *testing.T) {
	m := octahedron(t)
	if err := m.SetVertexAttr(0, "load", ScalarAttr(1)); err != nil {
		t.Fatal(err)
	}
	if err := m.SetVertexAttr(2, "load", ScalarAttr(3)); err != nil {
		t.Fatal(err)
	}

	if _, err := CollapseEdge(m, 0, 2, false); err != nil {
		t.Fatalf("CollapseEdge: %v", err)
	}
	got, ok := m.VertexAttr(0, "load")
	if !ok {
		t.Fatalf("merged attribute missing")
	}
	if got.(ScalarAttr) != 2 {
		t.Errorf("merged load = %v, want 2", got)
	}
}

func TestCollapseEdgeErrors(t *testing.T) {
	m := octahedron(t)
	if _, err := CollapseEdge(m, 0, 1, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("collapse of non-edge: error = %v, want %v", err, ErrNotFound)
	}
	if _, err := CollapseEdge(m, 0, 99, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("collapse with unknown vertex: error = %v, want %v", err, ErrNotFound)
	}
}
