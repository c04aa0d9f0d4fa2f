package mesh

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func checkCodes(errs []CheckError) []string {
	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		codes = append(codes, e.Code)
	}
	return codes
}

func hasCheckCode(errs []CheckError, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestCheckCleanMeshes(t *testing.T) {
	for name, build := range map[string]func(*testing.T) *Mesh{
		"pyramid":    quadPyramid,
		"octahedron": octahedron,
		"quad pair":  twoTriangles,
	} {
		t.Run(name, func(t *testing.T) {
			m := build(t)
			if errs := m.Check(); len(errs) != 0 {
				t.Errorf("Check() = %v, want none", errs)
			}
		})
	}
}

func TestCheckFindsSeededCorruption(t *testing.T) {
	t.Run("unknown vertex in cycle", func(t *testing.T) {
		m := quadPyramid(t)
		m.faces[0][1] = 99
		errs := m.Check()
		if !hasCheckCode(errs, "UNKNOWN_VERTEX") {
			t.Errorf("codes = %v, want UNKNOWN_VERTEX", checkCodes(errs))
		}
	})

	t.Run("repeated vertex in cycle", func(t *testing.T) {
		m := quadPyramid(t)
		m.faces[0][1] = 0
		errs := m.Check()
		if !hasCheckCode(errs, "REPEATED_VERTEX") {
			t.Errorf("codes = %v, want REPEATED_VERTEX", checkCodes(errs))
		}
	})

	t.Run("degenerate cycle", func(t *testing.T) {
		m := quadPyramid(t)
		m.faces[0] = m.faces[0][:2]
		errs := m.Check()
		if !hasCheckCode(errs, "DEGENERATE_FACE") {
			t.Errorf("codes = %v, want DEGENERATE_FACE", checkCodes(errs))
		}
	})

	t.Run("missing half-edge", func(t *testing.T) {
		m := quadPyramid(t)
		delete(m.halfedge[0], 1)
		errs := m.Check()
		if !hasCheckCode(errs, "MISSING_HALFEDGE") {
			t.Errorf("codes = %v, want MISSING_HALFEDGE", checkCodes(errs))
		}
		// The surviving reverse direction is now one-sided too.
		if !hasCheckCode(errs, "MISSING_REVERSE") {
			t.Errorf("codes = %v, want MISSING_REVERSE", checkCodes(errs))
		}
	})

	t.Run("half-edge bound to wrong face", func(t *testing.T) {
		m := quadPyramid(t)
		m.halfedge[0][1] = 2
		errs := m.Check()
		if !hasCheckCode(errs, "MISMATCHED_HALFEDGE") {
			t.Errorf("codes = %v, want MISMATCHED_HALFEDGE", checkCodes(errs))
		}
		if !hasCheckCode(errs, "ORPHAN_HALFEDGE") {
			t.Errorf("codes = %v, want ORPHAN_HALFEDGE", checkCodes(errs))
		}
	})

	t.Run("self loop", func(t *testing.T) {
		m := quadPyramid(t)
		m.halfedge[2][2] = NoFace
		errs := m.Check()
		if !hasCheckCode(errs, "SELF_LOOP") {
			t.Errorf("codes = %v, want SELF_LOOP", checkCodes(errs))
		}
	})

	t.Run("half-edge bound to deleted face", func(t *testing.T) {
		m := quadPyramid(t)
		delete(m.faces, 0)
		errs := m.Check()
		if !hasCheckCode(errs, "UNKNOWN_FACE") {
			t.Errorf("codes = %v, want UNKNOWN_FACE", checkCodes(errs))
		}
	})
}

func TestCheckIsDeterministic(t *testing.T) {
	m := quadPyramid(t)
	m.faces[0][1] = 99
	delete(m.halfedge[3], 0)
	first := m.Check()
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, m.Check()); diff != "" {
			t.Fatalf("Check order varies (-first +now):\n%s", diff)
		}
	}
}

func TestCheckTriFlagsQuads(t *testing.T) {
	m := twoTriangles(t)
	if _, err := SplitEdge(m, 0, 2, 0.5, false); err != nil {
		t.Fatal(err)
	}
	if errs := m.Check(); len(errs) != 0 {
		t.Errorf("Check() = %v, want none", errs)
	}
	errs := m.CheckTri()
	if len(errs) != 2 {
		t.Fatalf("CheckTri() = %v, want two quad findings", errs)
	}
	for _, e := range errs {
		if e.Code != "NON_TRIANGULAR_FACE" {
			t.Errorf("code = %q, want NON_TRIANGULAR_FACE", e.Code)
		}
	}
}
