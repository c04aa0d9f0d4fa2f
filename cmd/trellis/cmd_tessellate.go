package main

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/cobra"

	"github.com/chazu/trellis/pkg/objfile"
	"github.com/chazu/trellis/pkg/tessellate"
)

type tessellateFlagValues struct {
	size   []float64
	radius float64
	height float64
	round  float64
	cells  int
}

var tessellateFlags tessellateFlagValues

var tessellateCmd = &cobra.Command{
	Use:   "tessellate (box|sphere|cylinder) OUT.obj",
	Short: "Sample a solid into a triangle mesh",
	Long: `tessellate evaluates the signed distance field of a primitive solid
on a marching cubes grid, welds the triangle soup into a half-edge
mesh, and writes it as OBJ. Boxes sit with their minimum corner at the
origin; spheres and cylinders are centered.`,
	Args: cobra.ExactArgs(2),
	RunE: runTessellate,
}

func init() {
	f := tessellateCmd.Flags()
	f.Float64SliceVar(&tessellateFlags.size, "size", []float64{1, 1, 1}, "Box side lengths as x,y,z")
	f.Float64Var(&tessellateFlags.radius, "radius", 1, "Sphere or cylinder radius")
	f.Float64Var(&tessellateFlags.height, "height", 1, "Cylinder height")
	f.Float64Var(&tessellateFlags.round, "round", 0, "Edge rounding radius for box and cylinder")
	f.IntVar(&tessellateFlags.cells, "cells", 0, "Marching cubes resolution (default 64)")
}

func runTessellate(cmd *cobra.Command, args []string) error {
	kind, outPath := args[0], args[1]

	var solid sdf.SDF3
	var err error
	switch kind {
	case "box":
		if len(tessellateFlags.size) != 3 {
			return fmt.Errorf("--size needs exactly 3 values, got %d", len(tessellateFlags.size))
		}
		size := v3.Vec{
			X: tessellateFlags.size[0],
			Y: tessellateFlags.size[1],
			Z: tessellateFlags.size[2],
		}
		solid, err = tessellate.Box(size, tessellateFlags.round)
	case "sphere":
		solid, err = tessellate.Sphere(tessellateFlags.radius)
	case "cylinder":
		solid, err = tessellate.Cylinder(tessellateFlags.height, tessellateFlags.radius, tessellateFlags.round)
	default:
		return fmt.Errorf("unknown solid %q, expected box, sphere or cylinder", kind)
	}
	if err != nil {
		return err
	}

	m, err := tessellate.Tessellate(solid, tessellate.Options{Cells: tessellateFlags.cells})
	if err != nil {
		return err
	}

	if err := objfile.WriteFile(outPath, m); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("wrote %s: %d vertices, %d edges, %d faces\n",
		outPath, m.NumVertices(), m.NumEdges(), m.NumFaces())
	return nil
}
