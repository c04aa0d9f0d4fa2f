// Package remesh drives a triangle mesh toward a uniform target edge
// length by cycling split, collapse and swap passes with a smoothing
// step after each, the classic isotropic remeshing loop.
package remesh

import (
	"math"

	"go.uber.org/zap"

	"github.com/chazu/trellis/pkg/mesh"
)

// Options configures a remeshing run. Target is the desired edge length
// and is the only required field; zero values elsewhere select the
// defaults listed on each field.
type Options struct {
	// Target is the edge length the mesh is driven toward. Required,
	// must be positive.
	Target float64

	// Tol widens the acceptance band around the target length.
	// Defaults to 0.1.
	Tol float64

	// Divergence is the relative vertex-count change below which the
	// run terminates early. Defaults to 0.01.
	Divergence float64

	// KMax caps the number of outer iterations. Defaults to 100.
	KMax int

	// KMaxStart is the iteration at which the threshold ramp reaches
	// zero. Defaults to KMax/2, at least 1.
	KMaxStart int

	// TargetStart scales the initial threshold ramp. Defaults to the
	// longest edge of the input mesh.
	TargetStart float64

	// AllowBoundary permits splitting boundary edges. Collapses never
	// touch the boundary regardless.
	AllowBoundary bool

	// Fixed pins vertices: they are never smoothed and edges touching
	// them are never collapsed.
	Fixed []mesh.VertexKey

	// Logger receives per-iteration debug output. Defaults to a no-op
	// logger.
	Logger *zap.Logger

	// Callback, when set, observes the mesh once per iteration after
	// smoothing.
	Callback func(*mesh.Mesh, int)
}

// Result summarizes a remeshing run.
type Result struct {
	Iterations int
	Converged  bool
	Vertices   int
	Edges      int
	Faces      int
}

func (o Options) withDefaults(m *mesh.Mesh) (Options, error) {
	if o.Target <= 0 {
		return o, mesh.InvalidParameterError{Op: "remesh", Param: "Target", Reason: "must be positive"}
	}
	if o.Tol < 0 {
		return o, mesh.InvalidParameterError{Op: "remesh", Param: "Tol", Reason: "must not be negative"}
	}
	if o.Divergence < 0 {
		return o, mesh.InvalidParameterError{Op: "remesh", Param: "Divergence", Reason: "must not be negative"}
	}
	if o.KMax < 0 || o.KMaxStart < 0 {
		return o, mesh.InvalidParameterError{Op: "remesh", Param: "KMax", Reason: "must not be negative"}
	}
	if o.TargetStart < 0 {
		return o, mesh.InvalidParameterError{Op: "remesh", Param: "TargetStart", Reason: "must not be negative"}
	}
	if o.Tol == 0 {
		o.Tol = 0.1
	}
	if o.Divergence == 0 {
		o.Divergence = 0.01
	}
	if o.KMax == 0 {
		o.KMax = 100
	}
	if o.KMaxStart == 0 {
		o.KMaxStart = o.KMax / 2
		if o.KMaxStart < 1 {
			o.KMaxStart = 1
		}
	}
	if o.TargetStart == 0 {
		o.TargetStart = longestEdge(m)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o, nil
}

// Remesh mutates the triangle mesh m in place until every edge sits
// inside the tolerance band around the target length or the iteration
// cap is reached. One pass of splitting, collapsing or swapping runs
// per outer iteration, selected round-robin, followed by a single
// smoothing iteration with the boundary held fixed. The thresholds
// start widened by a linear ramp so coarse meshes are refined
// gradually.
func Remesh(m *mesh.Mesh, opts Options) (Result, error) {
	opts, err := opts.withDefaults(m)
	if err != nil {
		return Result{}, err
	}
	log := opts.Logger

	var result Result
	if m.NumEdges() == 0 {
		result.Vertices, result.Edges, result.Faces = m.NumVertices(), 0, m.NumFaces()
		return result, nil
	}
	if !m.IsTriMesh() {
		return Result{}, mesh.InvalidParameterError{Op: "remesh", Param: "mesh", Reason: "not a triangle mesh"}
	}

	lmin := (1 - opts.Tol) * (4.0 / 5.0) * opts.Target
	lmax := (1 + opts.Tol) * (4.0 / 3.0) * opts.Target
	fac := opts.TargetStart / opts.Target

	fixed := make(map[mesh.VertexKey]bool, len(opts.Fixed))
	for _, vk := range opts.Fixed {
		fixed[vk] = true
	}

	log.Info("remesh start",
		zap.Float64("target", opts.Target),
		zap.Float64("lmin", lmin),
		zap.Float64("lmax", lmax),
		zap.Int("kmax", opts.KMax),
		zap.Int("vertices", m.NumVertices()))

	num1 := m.NumVertices()
	count := 0
	for k := 0; k < opts.KMax; k++ {
		result.Iterations = k + 1

		var dlmin, dlmax float64
		if k <= opts.KMaxStart {
			scale := fac * (1 - float64(k)/float64(opts.KMaxStart))
			dlmin = lmin * scale
			dlmax = lmax * scale
		}

		if k%20 == 0 {
			num1 = m.NumVertices()
		}

		count++
		var phase string
		switch count {
		case 1:
			phase = "split"
			splitPass(m, lmax+dlmax, opts.AllowBoundary, log)
		case 2:
			phase = "collapse"
			collapsePass(m, lmin-dlmin, fixed, log)
		default:
			count = 0
			phase = "swap"
			swapPass(m, log)
		}

		if (k-10)%20 == 0 {
			num2 := m.NumVertices()
			if num2 > 0 && math.Abs(1-float64(num1)/float64(num2)) < opts.Divergence && k > opts.KMaxStart {
				result.Converged = true
				break
			}
		}

		pinned := make(map[mesh.VertexKey]bool, len(fixed))
		for _, vk := range m.BoundaryVertices() {
			pinned[vk] = true
		}
		for vk := range fixed {
			pinned[vk] = true
		}
		if err := mesh.SmoothCentroid(m, pinned, 1); err != nil {
			return result, err
		}

		if opts.Callback != nil {
			opts.Callback(m, k)
		}

		log.Debug("remesh iteration",
			zap.Int("k", k),
			zap.String("phase", phase),
			zap.Int("vertices", m.NumVertices()),
			zap.Float64("dlmin", dlmin),
			zap.Float64("dlmax", dlmax))
	}

	result.Vertices = m.NumVertices()
	result.Edges = m.NumEdges()
	result.Faces = m.NumFaces()
	log.Info("remesh done",
		zap.Int("iterations", result.Iterations),
		zap.Bool("converged", result.Converged),
		zap.Int("vertices", result.Vertices),
		zap.Int("edges", result.Edges),
		zap.Int("faces", result.Faces))
	return result, nil
}

func longestEdge(m *mesh.Mesh) float64 {
	longest := 0.0
	for _, e := range m.Edges() {
		if l, err := m.EdgeLength(e.U, e.V); err == nil && l > longest {
			longest = l
		}
	}
	return longest
}
