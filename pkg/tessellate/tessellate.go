// Package tessellate samples signed distance fields into welded
// half-edge triangle meshes using marching cubes.
package tessellate

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/trellis/pkg/mesh"
)

// DefaultCells is the marching cubes resolution along the longest axis
// of the bounding box when Options.Cells is unset.
const DefaultCells = 64

// Options control sampling resolution and corner welding precision.
type Options struct {
	// Cells is the marching cubes cell count. Defaults to DefaultCells.
	Cells int

	// WeldDecimals is the coordinate precision for welding triangle
	// corners. Defaults to mesh.DefaultWeldDecimals.
	WeldDecimals int
}

func (o Options) withDefaults() (Options, error) {
	if o.Cells < 0 {
		return o, mesh.InvalidParameterError{Op: "tessellate", Param: "Cells", Reason: "must not be negative"}
	}
	if o.WeldDecimals < 0 {
		return o, mesh.InvalidParameterError{Op: "tessellate", Param: "WeldDecimals", Reason: "must not be negative"}
	}
	if o.Cells == 0 {
		o.Cells = DefaultCells
	}
	if o.WeldDecimals == 0 {
		o.WeldDecimals = mesh.DefaultWeldDecimals
	}
	return o, nil
}

// Tessellate samples the solid with marching cubes and welds the
// resulting triangle soup into a half-edge mesh. Solids are closed, so
// the returned mesh has no boundary.
func Tessellate(s sdf.SDF3, opts Options) (*mesh.Mesh, error) {
	if s == nil {
		return nil, mesh.InvalidParameterError{Op: "tessellate", Param: "solid", Reason: "is nil"}
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	renderer := render.NewMarchingCubesUniform(opts.Cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("tessellate: solid produced no triangles at %d cells", opts.Cells)
	}

	m, err := mesh.FromTriangles(triangles, opts.WeldDecimals)
	if err != nil {
		return nil, fmt.Errorf("tessellate: welding %d triangles: %w", len(triangles), err)
	}
	return m, nil
}

// Box returns a box solid with the given side lengths and corner
// rounding, shifted so its minimum corner sits at the origin.
func Box(size v3.Vec, round float64) (sdf.SDF3, error) {
	s, err := sdf.Box3D(size, round)
	if err != nil {
		return nil, fmt.Errorf("box solid: %w", err)
	}
	m := sdf.Translate3d(size.DivScalar(2))
	return sdf.Transform3D(s, m), nil
}

// Sphere returns a sphere solid centered at the origin.
func Sphere(radius float64) (sdf.SDF3, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sphere solid: %w", err)
	}
	return s, nil
}

// Cylinder returns a cylinder solid centered at the origin with its
// axis along Z.
func Cylinder(height, radius, round float64) (sdf.SDF3, error) {
	s, err := sdf.Cylinder3D(height, radius, round)
	if err != nil {
		return nil, fmt.Errorf("cylinder solid: %w", err)
	}
	return s, nil
}
