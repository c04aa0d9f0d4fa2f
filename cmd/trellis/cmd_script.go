package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/trellis/pkg/engine"
	"github.com/chazu/trellis/pkg/objfile"
)

var scriptOut string

var scriptCmd = &cobra.Command{
	Use:   "script FILE.zy",
	Short: "Run a mesh script",
	Long: `script evaluates a Lisp mesh script. Builtins cover construction
(add-vertex, add-face, tessellate-box/-sphere/-cylinder, load-obj),
editing (split-edge, collapse-edge, swap-edge, smooth, remesh), and
reporting (mesh-info, check). Report lines are printed to stdout; the
final mesh is written to --out when given.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	scriptCmd.Flags().StringVar(&scriptOut, "out", "", "Write the resulting mesh to an OBJ file")
}

func runScript(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	result, evalErrs, err := engine.NewEngine().Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", args[0], err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", args[0], e.Error())
		}
		return fmt.Errorf("%s: %d evaluation errors", args[0], len(evalErrs))
	}

	for _, line := range result.Output {
		fmt.Println(line)
	}

	if scriptOut != "" {
		if err := objfile.WriteFile(scriptOut, result.Mesh); err != nil {
			return fmt.Errorf("writing %s: %w", scriptOut, err)
		}
		fmt.Printf("wrote %s: %d vertices, %d faces\n",
			scriptOut, result.Mesh.NumVertices(), result.Mesh.NumFaces())
	}
	return nil
}
