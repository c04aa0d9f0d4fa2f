package engine

import (
	"fmt"
	"path/filepath"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(smooth :iterations 3)`,
			expect: `(smooth "__kw_iterations" 3)`,
		},
		{
			name:   "multiple keywords",
			input:  `(remesh :target 0.5 :kmax 300)`,
			expect: `(remesh "__kw_target" 0.5 "__kw_kmax" 300)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(split-edge 0 1 :t 0.25)`,
			expect: `(split_edge 0 1 "__kw_t" 0.25)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:kmax-start`,
			expect: `"__kw_kmax-start"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Script fixtures
// ---------------------------------------------------------------------------

// pyramidScript fans a 10x10 quad base around a center vertex: 5
// vertices, 8 edges, 4 triangles.
const pyramidScript = `
(def a (add-vertex 0 0 0))
(def b (add-vertex 10 0 0))
(def c (add-vertex 10 10 0))
(def d (add-vertex 0 10 0))
(def e (add-vertex 5 5 0))
(add-face a b e)
(add-face b c e)
(add-face c d e)
(add-face d a e)
`

// octahedronScript builds the closed 6-vertex, 8-face octahedron.
const octahedronScript = `
(def px (add-vertex 1 0 0))
(def nx (add-vertex -1 0 0))
(def py (add-vertex 0 1 0))
(def ny (add-vertex 0 -1 0))
(def pz (add-vertex 0 0 1))
(def nz (add-vertex 0 0 -1))
(add-face px py pz)
(add-face py nx pz)
(add-face nx ny pz)
(add-face ny px pz)
(add-face py px nz)
(add-face nx py nz)
(add-face ny nx nz)
(add-face px ny nz)
`

func evalScript(t *testing.T, source string) *EvalResult {
	t.Helper()
	res, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if res == nil || res.Mesh == nil {
		t.Fatal("expected non-nil result with a mesh")
	}
	return res
}

// ---------------------------------------------------------------------------
// Mesh construction tests
// ---------------------------------------------------------------------------

func TestBuildPyramid(t *testing.T) {
	res := evalScript(t, pyramidScript)

	m := res.Mesh
	if m.NumVertices() != 5 || m.NumEdges() != 8 || m.NumFaces() != 4 {
		t.Fatalf("counts (%d,%d,%d), want (5,8,4)",
			m.NumVertices(), m.NumEdges(), m.NumFaces())
	}
	if errs := m.CheckTri(); len(errs) != 0 {
		t.Fatalf("integrity errors: %v", errs)
	}
	pos, err := m.VertexPosition(4)
	if err != nil {
		t.Fatalf("VertexPosition: %v", err)
	}
	if pos.Sub(v3.Vec{X: 5, Y: 5, Z: 0}).Length() > 1e-12 {
		t.Errorf("center vertex at %v, want (5,5,0)", pos)
	}
}

func TestMeshNewResets(t *testing.T) {
	res := evalScript(t, pyramidScript+"\n(mesh-new)\n(add-vertex 1 2 3)")

	if res.Mesh.NumVertices() != 1 || res.Mesh.NumFaces() != 0 {
		t.Errorf("counts (%d,%d), want a single loose vertex",
			res.Mesh.NumVertices(), res.Mesh.NumFaces())
	}
}

// ---------------------------------------------------------------------------
// Operator builtin tests
// ---------------------------------------------------------------------------

func TestSplitEdgeBuiltin(t *testing.T) {
	source := `
(def a (add-vertex 0 0 0))
(def b (add-vertex 2 0 0))
(def c (add-vertex 2 2 0))
(def d (add-vertex 0 2 0))
(add-face a b c)
(add-face a c d)
(split-edge a c :t 0.25)
`
	res := evalScript(t, source)

	m := res.Mesh
	if m.NumVertices() != 5 || m.NumEdges() != 8 || m.NumFaces() != 4 {
		t.Fatalf("counts (%d,%d,%d), want (5,8,4) after a triangle split",
			m.NumVertices(), m.NumEdges(), m.NumFaces())
	}
	pos, err := m.VertexPosition(4)
	if err != nil {
		t.Fatalf("VertexPosition: %v", err)
	}
	if pos.Sub(v3.Vec{X: 0.5, Y: 0.5, Z: 0}).Length() > 1e-12 {
		t.Errorf("split vertex at %v, want (0.5,0.5,0)", pos)
	}
}

func TestCollapseEdgeBuiltin(t *testing.T) {
	res := evalScript(t, octahedronScript+"\n(collapse-edge px py)")

	m := res.Mesh
	if m.NumVertices() != 5 || m.NumEdges() != 9 || m.NumFaces() != 6 {
		t.Fatalf("counts (%d,%d,%d), want (5,9,6) after collapse",
			m.NumVertices(), m.NumEdges(), m.NumFaces())
	}
	if errs := m.CheckTri(); len(errs) != 0 {
		t.Fatalf("integrity errors: %v", errs)
	}
}

func TestSwapEdgeBuiltin(t *testing.T) {
	res := evalScript(t, octahedronScript+"\n(swap-edge px py)")

	m := res.Mesh
	if m.NumVertices() != 6 || m.NumEdges() != 12 || m.NumFaces() != 8 {
		t.Fatalf("counts (%d,%d,%d), want (6,12,8) after swap",
			m.NumVertices(), m.NumEdges(), m.NumFaces())
	}
	if m.HasEdge(0, 2) {
		t.Error("swapped edge {0,2} should be gone")
	}
	if !m.HasEdge(4, 5) {
		t.Error("diagonal {4,5} should exist after swap")
	}
}

func TestSmoothBuiltin(t *testing.T) {
	source := `
(def a (add-vertex 0 0 0))
(def b (add-vertex 10 0 0))
(def c (add-vertex 10 10 0))
(def d (add-vertex 0 10 0))
(def e (add-vertex 2 3 1))
(add-face a b e)
(add-face b c e)
(add-face c d e)
(add-face d a e)
(smooth :fixed (list a b c d))
`
	res := evalScript(t, source)

	pos, err := res.Mesh.VertexPosition(4)
	if err != nil {
		t.Fatalf("VertexPosition: %v", err)
	}
	if pos.Sub(v3.Vec{X: 5, Y: 5, Z: 0}).Length() > 1e-12 {
		t.Errorf("smoothed vertex at %v, want (5,5,0)", pos)
	}
}

// ---------------------------------------------------------------------------
// Pipeline tests
// ---------------------------------------------------------------------------

func TestRemeshReportsThroughOutput(t *testing.T) {
	// Target 8 leaves the coarse pyramid alone, so the run terminates
	// through the vertex-count convergence test with the mesh unchanged.
	res := evalScript(t, pyramidScript+`
(remesh :target 8)
(mesh-info)
`)

	m := res.Mesh
	if m.NumVertices() != 5 || m.NumEdges() != 8 || m.NumFaces() != 4 {
		t.Fatalf("counts (%d,%d,%d), want the input unchanged",
			m.NumVertices(), m.NumEdges(), m.NumFaces())
	}

	want := []string{
		"remesh: iterations=71 converged=true vertices=5 edges=8 faces=4",
		"mesh: vertices=5 edges=8 faces=4 boundary=4",
	}
	if len(res.Output) != len(want) {
		t.Fatalf("output = %q, want %d lines", res.Output, len(want))
	}
	for i := range want {
		if res.Output[i] != want[i] {
			t.Errorf("output[%d] = %q, want %q", i, res.Output[i], want[i])
		}
	}
}

func TestCheckBuiltinCleanMesh(t *testing.T) {
	res := evalScript(t, pyramidScript+"\n(check)")

	if len(res.Output) != 0 {
		t.Errorf("clean mesh emitted check output: %q", res.Output)
	}
}

func TestLoadSaveObjBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyramid.obj")

	evalScript(t, pyramidScript+fmt.Sprintf("\n(save-obj %q)", path))

	res := evalScript(t, fmt.Sprintf("(load-obj %q)", path))
	m := res.Mesh
	if m.NumVertices() != 5 || m.NumEdges() != 8 || m.NumFaces() != 4 {
		t.Fatalf("counts (%d,%d,%d) after round trip, want (5,8,4)",
			m.NumVertices(), m.NumEdges(), m.NumFaces())
	}
	if errs := m.CheckTri(); len(errs) != 0 {
		t.Fatalf("integrity errors: %v", errs)
	}
}

func TestTessellateSphereBuiltin(t *testing.T) {
	res := evalScript(t, "(tessellate-sphere 1.05 :cells 16)")

	m := res.Mesh
	if m.NumVertices() == 0 || m.NumFaces() == 0 {
		t.Fatal("expected a sampled mesh")
	}
	if !m.IsTriMesh() {
		t.Error("sampled mesh should be triangular")
	}
	if bv := m.BoundaryVertices(); len(bv) != 0 {
		t.Errorf("closed surface has %d boundary vertices", len(bv))
	}
	if errs := m.CheckTri(); len(errs) != 0 {
		t.Fatalf("integrity errors: %v", errs)
	}
}

// ---------------------------------------------------------------------------
// Error propagation tests
// ---------------------------------------------------------------------------

func TestBuiltinErrorBecomesEvalError(t *testing.T) {
	// add-face on unknown vertices must surface as an eval error, not a
	// fatal one.
	res, evalErrs, err := NewEngine().Evaluate("(add-face 0 1 2)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error should have a non-empty message")
	}
}

func TestBadKeywordValueBecomesEvalError(t *testing.T) {
	source := pyramidScript + `(split-edge a e :t "half")`
	res, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if res != nil {
		t.Fatal("expected nil result on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
}
