package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check IN.obj",
	Short: "Verify half-edge integrity",
	Long: `check rebuilds the half-edge structure from an OBJ file and reports
every integrity violation: cycle/half-edge mismatches, dangling keys,
self-loops, degenerate faces. Exits nonzero if any are found.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	m, err := loadMesh(args[0])
	if err != nil {
		return err
	}

	violations := m.Check()
	if len(violations) == 0 {
		fmt.Printf("%s: ok (%d vertices, %d edges, %d faces)\n",
			args[0], m.NumVertices(), m.NumEdges(), m.NumFaces())
		return nil
	}

	for _, v := range violations {
		fmt.Println(v.Error())
	}
	return fmt.Errorf("%s: %d integrity violations", args[0], len(violations))
}
