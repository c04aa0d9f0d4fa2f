package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chazu/trellis/pkg/objfile"
	"github.com/chazu/trellis/pkg/remesh"
)

type remeshFlagValues struct {
	target        float64
	tol           float64
	divergence    float64
	kmax          int
	kmaxStart     int
	targetStart   float64
	allowBoundary bool
	configPath    string
}

var remeshFlags remeshFlagValues

var remeshCmd = &cobra.Command{
	Use:   "remesh IN.obj OUT.obj",
	Short: "Drive every edge toward a target length",
	Long: `remesh runs the isotropic remeshing loop on a triangle mesh: long
edges are split, short edges collapsed, and edges swapped to even out
vertex valences, with one smoothing step per iteration. Boundary
vertices stay pinned unless --allow-boundary is given.

Settings can come from a YAML file via --config; flags given
explicitly on the command line override the file.`,
	Args: cobra.ExactArgs(2),
	RunE: runRemesh,
}

func init() {
	f := remeshCmd.Flags()
	f.Float64Var(&remeshFlags.target, "target", 0, "Target edge length (required here or in --config)")
	f.Float64Var(&remeshFlags.tol, "tol", 0, "Tolerance band around the target length (default 0.1)")
	f.Float64Var(&remeshFlags.divergence, "divergence", 0, "Relative vertex-count change that ends the loop early (default 0.01)")
	f.IntVar(&remeshFlags.kmax, "kmax", 0, "Maximum number of iterations (default 100)")
	f.IntVar(&remeshFlags.kmaxStart, "kmax-start", 0, "Iteration at which the threshold ramp reaches zero (default kmax/2)")
	f.Float64Var(&remeshFlags.targetStart, "target-start", 0, "Starting length for the threshold ramp (default: longest input edge)")
	f.BoolVar(&remeshFlags.allowBoundary, "allow-boundary", false, "Allow splitting boundary edges")
	f.StringVar(&remeshFlags.configPath, "config", "", "YAML file with remesh settings")
}

// remeshConfig mirrors the remesh flags for --config files.
type remeshConfig struct {
	Target        float64 `yaml:"target"`
	Tol           float64 `yaml:"tol"`
	Divergence    float64 `yaml:"divergence"`
	KMax          int     `yaml:"kmax"`
	KMaxStart     int     `yaml:"kmax_start"`
	TargetStart   float64 `yaml:"target_start"`
	AllowBoundary bool    `yaml:"allow_boundary"`
}

func loadRemeshConfig(path string) (remeshConfig, error) {
	var cfg remeshConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// mergeRemeshOptions layers explicit command-line flags over config file
// values. changed reports whether a flag was set on the command line.
func mergeRemeshOptions(cfg remeshConfig, fl remeshFlagValues, changed func(string) bool) remesh.Options {
	opts := remesh.Options{
		Target:        cfg.Target,
		Tol:           cfg.Tol,
		Divergence:    cfg.Divergence,
		KMax:          cfg.KMax,
		KMaxStart:     cfg.KMaxStart,
		TargetStart:   cfg.TargetStart,
		AllowBoundary: cfg.AllowBoundary,
	}
	if changed("target") {
		opts.Target = fl.target
	}
	if changed("tol") {
		opts.Tol = fl.tol
	}
	if changed("divergence") {
		opts.Divergence = fl.divergence
	}
	if changed("kmax") {
		opts.KMax = fl.kmax
	}
	if changed("kmax-start") {
		opts.KMaxStart = fl.kmaxStart
	}
	if changed("target-start") {
		opts.TargetStart = fl.targetStart
	}
	if changed("allow-boundary") {
		opts.AllowBoundary = fl.allowBoundary
	}
	return opts
}

func runRemesh(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	var cfg remeshConfig
	if remeshFlags.configPath != "" {
		var err error
		cfg, err = loadRemeshConfig(remeshFlags.configPath)
		if err != nil {
			return err
		}
	}

	opts := mergeRemeshOptions(cfg, remeshFlags, cmd.Flags().Changed)
	opts.Logger = logger

	m, err := loadMesh(inPath)
	if err != nil {
		return err
	}

	res, err := remesh.Remesh(m, opts)
	if err != nil {
		return fmt.Errorf("remeshing %s: %w", inPath, err)
	}

	if err := objfile.WriteFile(outPath, m); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("remeshed %s: iterations=%d converged=%t vertices=%d edges=%d faces=%d -> %s\n",
		inPath, res.Iterations, res.Converged, res.Vertices, res.Edges, res.Faces, outPath)
	return nil
}
