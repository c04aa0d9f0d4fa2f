package main

import (
	"fmt"
	"math"
	"sort"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info IN.obj",
	Short: "Summarize a mesh",
	Long: `info prints vertex/edge/face counts, the number of boundary
vertices, edge length statistics, and a vertex valence histogram.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := loadMesh(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("vertices:          %d\n", m.NumVertices())
	fmt.Printf("edges:             %d\n", m.NumEdges())
	fmt.Printf("faces:             %d\n", m.NumFaces())
	fmt.Printf("boundary vertices: %d\n", len(m.BoundaryVertices()))
	fmt.Printf("triangular:        %t\n", m.IsTriMesh())

	edges := m.Edges()
	if len(edges) > 0 {
		min, max, sum := math.Inf(1), math.Inf(-1), 0.0
		for _, e := range edges {
			l, err := m.EdgeLength(e.U, e.V)
			if err != nil {
				return err
			}
			min = math.Min(min, l)
			max = math.Max(max, l)
			sum += l
		}
		fmt.Printf("edge length:       min=%.4f mean=%.4f max=%.4f\n",
			min, sum/float64(len(edges)), max)
	}

	valences := make(map[int]int)
	for _, v := range m.Vertices() {
		d, err := m.VertexDegree(v)
		if err != nil {
			return err
		}
		valences[d]++
	}
	if len(valences) > 0 {
		degrees := make([]int, 0, len(valences))
		for d := range valences {
			degrees = append(degrees, d)
		}
		sort.Ints(degrees)
		fmt.Println("valences:")
		for _, d := range degrees {
			fmt.Printf("  %2d: %d\n", d, valences[d])
		}
	}
	return nil
}
