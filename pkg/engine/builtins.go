package engine

import (
	"fmt"
	"strings"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/trellis/pkg/mesh"
	"github.com/chazu/trellis/pkg/objfile"
	"github.com/chazu/trellis/pkg/remesh"
	"github.com/chazu/trellis/pkg/tessellate"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms script source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: split-edge -> split_edge
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value — treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toVertexKey extracts a vertex key from an integer Sexp.
func toVertexKey(s zygo.Sexp) (mesh.VertexKey, error) {
	n, err := toInt(s)
	if err != nil {
		return mesh.NoVertex, err
	}
	return mesh.VertexKey(n), nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toVertexKeys converts a list or array of integers to vertex keys.
func toVertexKeys(s zygo.Sexp) ([]mesh.VertexKey, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	keys := make([]mesh.VertexKey, 0, len(items))
	for _, item := range items {
		vk, err := toVertexKey(item)
		if err != nil {
			return nil, err
		}
		keys = append(keys, vk)
	}
	return keys, nil
}

// ---------------------------------------------------------------------------
// Evaluation session
// ---------------------------------------------------------------------------

// session carries the working mesh and display output for one
// evaluation. Builtins close over it; load-obj and the tessellate
// builtins replace the mesh wholesale.
type session struct {
	mesh   *mesh.Mesh
	output []string
}

func newSession() *session {
	return &session{mesh: mesh.NewMesh()}
}

func (s *session) emit(line string) {
	s.output = append(s.output, line)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the mesh DSL into a zygomys environment.
// The builtins operate on the session's working mesh, editing it in
// place during evaluation.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable
// string literals and kebab-case names reach their underscore aliases.
func registerBuiltins(env *zygo.Zlisp, sess *session) {

	// -----------------------------------------------------------------------
	// (mesh-new)
	// -----------------------------------------------------------------------
	env.AddFunction("mesh_new", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		sess.mesh = mesh.NewMesh()
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (add-vertex x y z) -> vertex key
	// -----------------------------------------------------------------------
	env.AddFunction("add_vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("add-vertex requires exactly 3 coordinates, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-vertex: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-vertex: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-vertex: z: %w", err)
		}
		vk := sess.mesh.AddVertex(v3.Vec{X: x, Y: y, Z: z})
		return &zygo.SexpInt{Val: int64(vk)}, nil
	})

	// -----------------------------------------------------------------------
	// (add-face k1 k2 k3 ...) -> face key
	// -----------------------------------------------------------------------
	env.AddFunction("add_face", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("add-face requires at least 3 vertex keys, got %d", len(args))
		}
		cycle := make([]mesh.VertexKey, 0, len(args))
		for i, arg := range args {
			vk, err := toVertexKey(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("add-face: vertex %d: %w", i, err)
			}
			cycle = append(cycle, vk)
		}
		fk, err := sess.mesh.AddFace(cycle...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-face: %w", err)
		}
		return &zygo.SexpInt{Val: int64(fk)}, nil
	})

	// -----------------------------------------------------------------------
	// (vertex-count) / (edge-count) / (face-count)
	// -----------------------------------------------------------------------
	env.AddFunction("vertex_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(sess.mesh.NumVertices())}, nil
	})
	env.AddFunction("edge_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(sess.mesh.NumEdges())}, nil
	})
	env.AddFunction("face_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(sess.mesh.NumFaces())}, nil
	})

	// -----------------------------------------------------------------------
	// (split-edge u v :t 0.5 :boundary true) -> new vertex key, or nil
	// when the split was skipped
	// -----------------------------------------------------------------------
	env.AddFunction("split_edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("split-edge requires two vertex keys, got %d", len(pa.positional))
		}
		u, err := toVertexKey(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("split-edge: u: %w", err)
		}
		v, err := toVertexKey(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("split-edge: v: %w", err)
		}
		t := 0.5
		if val, ok := pa.kw["t"]; ok {
			t, err = toFloat64(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("split-edge: t: %w", err)
			}
		}
		boundary := false
		if val, ok := pa.kw["boundary"]; ok {
			boundary, err = toBool(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("split-edge: boundary: %w", err)
			}
		}

		// On a triangle mesh the flanking faces are re-triangulated;
		// otherwise they just gain a vertex.
		split := mesh.SplitEdge
		if sess.mesh.IsTriMesh() {
			split = mesh.SplitEdgeTri
		}
		w, err := split(sess.mesh, u, v, t, boundary)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("split-edge: %w", err)
		}
		if w == mesh.NoVertex {
			return zygo.SexpNull, nil
		}
		return &zygo.SexpInt{Val: int64(w)}, nil
	})

	// -----------------------------------------------------------------------
	// (collapse-edge u v :boundary true) -> bool
	// -----------------------------------------------------------------------
	env.AddFunction("collapse_edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("collapse-edge requires two vertex keys, got %d", len(pa.positional))
		}
		u, err := toVertexKey(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("collapse-edge: u: %w", err)
		}
		v, err := toVertexKey(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("collapse-edge: v: %w", err)
		}
		boundary := false
		if val, ok := pa.kw["boundary"]; ok {
			boundary, err = toBool(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("collapse-edge: boundary: %w", err)
			}
		}
		done, err := mesh.CollapseEdge(sess.mesh, u, v, boundary)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("collapse-edge: %w", err)
		}
		return &zygo.SexpBool{Val: done}, nil
	})

	// -----------------------------------------------------------------------
	// (swap-edge u v) -> bool
	// -----------------------------------------------------------------------
	env.AddFunction("swap_edge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("swap-edge requires two vertex keys, got %d", len(args))
		}
		u, err := toVertexKey(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("swap-edge: u: %w", err)
		}
		v, err := toVertexKey(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("swap-edge: v: %w", err)
		}
		done, err := mesh.SwapEdge(sess.mesh, u, v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("swap-edge: %w", err)
		}
		return &zygo.SexpBool{Val: done}, nil
	})

	// -----------------------------------------------------------------------
	// (smooth :iterations 3 :fixed (list 0 1 2))
	// -----------------------------------------------------------------------
	env.AddFunction("smooth", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		iterations := 1
		if val, ok := pa.kw["iterations"]; ok {
			n, err := toInt(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("smooth: iterations: %w", err)
			}
			iterations = n
		}
		var fixed map[mesh.VertexKey]bool
		if val, ok := pa.kw["fixed"]; ok {
			keys, err := toVertexKeys(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("smooth: fixed: %w", err)
			}
			fixed = make(map[mesh.VertexKey]bool, len(keys))
			for _, vk := range keys {
				fixed[vk] = true
			}
		}
		if err := mesh.SmoothCentroid(sess.mesh, fixed, iterations); err != nil {
			return zygo.SexpNull, fmt.Errorf("smooth: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (remesh :target 0.5 :tol 0.05 :kmax 300 :boundary true
	//         :divergence 0.01 :kmax-start 150 :target-start 2.0
	//         :fixed (list 0 1)) -> iterations
	// -----------------------------------------------------------------------
	env.AddFunction("remesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		opts := remesh.Options{}

		if val, ok := pa.kw["target"]; ok {
			f, err := toFloat64(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("remesh: target: %w", err)
			}
			opts.Target = f
		}
		if val, ok := pa.kw["tol"]; ok {
			f, err := toFloat64(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("remesh: tol: %w", err)
			}
			opts.Tol = f
		}
		if val, ok := pa.kw["divergence"]; ok {
			f, err := toFloat64(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("remesh: divergence: %w", err)
			}
			opts.Divergence = f
		}
		if val, ok := pa.kw["kmax"]; ok {
			n, err := toInt(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("remesh: kmax: %w", err)
			}
			opts.KMax = n
		}
		if val, ok := pa.kw["kmax-start"]; ok {
			n, err := toInt(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("remesh: kmax-start: %w", err)
			}
			opts.KMaxStart = n
		}
		if val, ok := pa.kw["target-start"]; ok {
			f, err := toFloat64(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("remesh: target-start: %w", err)
			}
			opts.TargetStart = f
		}
		if val, ok := pa.kw["boundary"]; ok {
			b, err := toBool(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("remesh: boundary: %w", err)
			}
			opts.AllowBoundary = b
		}
		if val, ok := pa.kw["fixed"]; ok {
			keys, err := toVertexKeys(val)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("remesh: fixed: %w", err)
			}
			opts.Fixed = keys
		}

		res, err := remesh.Remesh(sess.mesh, opts)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remesh: %w", err)
		}
		sess.emit(fmt.Sprintf("remesh: iterations=%d converged=%t vertices=%d edges=%d faces=%d",
			res.Iterations, res.Converged, res.Vertices, res.Edges, res.Faces))
		return &zygo.SexpInt{Val: int64(res.Iterations)}, nil
	})

	// -----------------------------------------------------------------------
	// (load-obj "path") -> vertex count
	// -----------------------------------------------------------------------
	env.AddFunction("load_obj", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("load-obj requires a path argument")
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-obj: path: %w", err)
		}
		m, err := objfile.ReadFile(path)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("load-obj: %w", err)
		}
		sess.mesh = m
		return &zygo.SexpInt{Val: int64(m.NumVertices())}, nil
	})

	// -----------------------------------------------------------------------
	// (save-obj "path")
	// -----------------------------------------------------------------------
	env.AddFunction("save_obj", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("save-obj requires a path argument")
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("save-obj: path: %w", err)
		}
		if err := objfile.WriteFile(path, sess.mesh); err != nil {
			return zygo.SexpNull, fmt.Errorf("save-obj: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (tessellate-box w h d :cells 32 :round 1.5) -> vertex count
	// -----------------------------------------------------------------------
	env.AddFunction("tessellate_box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 3 {
			return zygo.SexpNull, fmt.Errorf("tessellate-box requires width, height and depth, got %d args", len(pa.positional))
		}
		var size v3.Vec
		var err error
		if size.X, err = toFloat64(pa.positional[0]); err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate-box: width: %w", err)
		}
		if size.Y, err = toFloat64(pa.positional[1]); err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate-box: height: %w", err)
		}
		if size.Z, err = toFloat64(pa.positional[2]); err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate-box: depth: %w", err)
		}
		round := 0.0
		if val, ok := pa.kw["round"]; ok {
			if round, err = toFloat64(val); err != nil {
				return zygo.SexpNull, fmt.Errorf("tessellate-box: round: %w", err)
			}
		}
		solid, err := tessellate.Box(size, round)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate-box: %w", err)
		}
		return replaceWithSolid(sess, "tessellate-box", solid, pa)
	})

	// -----------------------------------------------------------------------
	// (tessellate-sphere r :cells 32) -> vertex count
	// -----------------------------------------------------------------------
	env.AddFunction("tessellate_sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("tessellate-sphere requires a radius, got %d args", len(pa.positional))
		}
		radius, err := toFloat64(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate-sphere: radius: %w", err)
		}
		solid, err := tessellate.Sphere(radius)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate-sphere: %w", err)
		}
		return replaceWithSolid(sess, "tessellate-sphere", solid, pa)
	})

	// -----------------------------------------------------------------------
	// (tessellate-cylinder h r :cells 32 :round 0.5) -> vertex count
	// -----------------------------------------------------------------------
	env.AddFunction("tessellate_cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("tessellate-cylinder requires height and radius, got %d args", len(pa.positional))
		}
		height, err := toFloat64(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate-cylinder: height: %w", err)
		}
		radius, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate-cylinder: radius: %w", err)
		}
		round := 0.0
		if val, ok := pa.kw["round"]; ok {
			if round, err = toFloat64(val); err != nil {
				return zygo.SexpNull, fmt.Errorf("tessellate-cylinder: round: %w", err)
			}
		}
		solid, err := tessellate.Cylinder(height, radius, round)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate-cylinder: %w", err)
		}
		return replaceWithSolid(sess, "tessellate-cylinder", solid, pa)
	})

	// -----------------------------------------------------------------------
	// (check) -> list of violation strings, empty when the mesh is sound
	// -----------------------------------------------------------------------
	env.AddFunction("check", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		violations := sess.mesh.Check()
		items := make([]zygo.Sexp, 0, len(violations))
		for _, v := range violations {
			sess.emit("check: " + v.Error())
			items = append(items, &zygo.SexpStr{S: v.Error()})
		}
		return zygo.MakeList(items), nil
	})

	// -----------------------------------------------------------------------
	// (mesh-info) -> list (vertex-count edge-count face-count)
	// -----------------------------------------------------------------------
	env.AddFunction("mesh_info", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		nv := sess.mesh.NumVertices()
		ne := sess.mesh.NumEdges()
		nf := sess.mesh.NumFaces()
		sess.emit(fmt.Sprintf("mesh: vertices=%d edges=%d faces=%d boundary=%d",
			nv, ne, nf, len(sess.mesh.BoundaryVertices())))
		return zygo.MakeList([]zygo.Sexp{
			&zygo.SexpInt{Val: int64(nv)},
			&zygo.SexpInt{Val: int64(ne)},
			&zygo.SexpInt{Val: int64(nf)},
		}), nil
	})
}

// replaceWithSolid samples a solid and installs the result as the
// session's working mesh, honoring an optional :cells kwarg.
func replaceWithSolid(sess *session, op string, solid sdf.SDF3, pa kwArgs) (zygo.Sexp, error) {
	topts := tessellate.Options{}
	if val, ok := pa.kw["cells"]; ok {
		n, err := toInt(val)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: cells: %w", op, err)
		}
		topts.Cells = n
	}
	m, err := tessellate.Tessellate(solid, topts)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
	}
	sess.mesh = m
	return &zygo.SexpInt{Val: int64(m.NumVertices())}, nil
}
