package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/basinmap/internal/analysis"
	"github.com/san-kum/basinmap/internal/basin"
	"github.com/san-kum/basinmap/internal/config"
	"github.com/san-kum/basinmap/internal/field"
	"github.com/san-kum/basinmap/internal/geom"
	"github.com/san-kum/basinmap/internal/integrators"
	"github.com/san-kum/basinmap/internal/ppm"
	"github.com/san-kum/basinmap/internal/scenario"
	"github.com/san-kum/basinmap/internal/store"
	"github.com/san-kum/basinmap/internal/viz"
)

var (
	dataDir        string
	configFile     string
	scenarioFile   string
	preset         string
	integratorName string
	gridSize       int
	dt             float64
	maxSteps       int
	captureRadius  float64
	escapeRadius   float64
	workers        int
	seed           int64
	numAttractors  int
	outPath        string
	renderBoth     bool
	showPreview    bool
	// trace start point
	traceX float64
	traceY float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "basinmap",
		Short: "render basins of attraction for gravitational fields",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".basinmap", "data directory")

	renderCmd := &cobra.Command{
		Use:   "render [preset]",
		Short: "render a basin map to a ppm image",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRender,
	}
	addRenderFlags(renderCmd)
	renderCmd.Flags().BoolVar(&renderBoth, "both", false, "render rk4 and symplectic maps")
	renderCmd.Flags().BoolVar(&showPreview, "preview", false, "print an ascii preview")
	renderCmd.Flags().StringVar(&outPath, "out", "", "output image path")

	compareCmd := &cobra.Command{
		Use:   "compare [preset]",
		Short: "render both integrators and report agreement",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCompare,
	}
	addRenderFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "render with a live progress view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRenderFlags(liveCmd)
	liveCmd.Flags().StringVar(&outPath, "out", "", "output image path")

	scenarioCmd := &cobra.Command{
		Use:   "scenario",
		Short: "generate a random scenario as yaml",
		RunE:  runScenario,
	}
	scenarioCmd.Flags().IntVar(&numAttractors, "attractors", 0, "attractor count (0 = random in [2,10])")
	scenarioCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	scenarioCmd.Flags().StringVar(&outPath, "out", "", "write yaml here instead of stdout")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range scenario.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	traceCmd := &cobra.Command{
		Use:   "trace [preset]",
		Short: "follow one trajectory and plot it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTrace,
	}
	addRenderFlags(traceCmd)
	traceCmd.Flags().Float64Var(&traceX, "x", 0.1, "start x")
	traceCmd.Flags().Float64Var(&traceY, "y", 0.7, "start y")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored renders",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := store.New(dataDir).Load(args[0])
			if err != nil {
				return err
			}
			return store.ExportJSONStdout(meta)
		},
	}

	rootCmd.AddCommand(renderCmd, compareCmd, liveCmd, scenarioCmd, presetsCmd, traceCmd, listCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&scenarioFile, "scenario", "", "scenario file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "scenario preset name")
	cmd.Flags().StringVar(&integratorName, "integrator", config.DefaultIntegrator, "integrator (rk4, symplectic)")
	cmd.Flags().IntVar(&gridSize, "grid", config.DefaultGridSize, "grid resolution")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&maxSteps, "steps", config.DefaultMaxSteps, "step budget per trajectory")
	cmd.Flags().Float64Var(&captureRadius, "capture", config.DefaultCaptureRadius, "capture radius")
	cmd.Flags().Float64Var(&escapeRadius, "escape", config.DefaultEscapeRadius, "escape radius")
	cmd.Flags().IntVar(&workers, "workers", 0, "render workers (0 = all cpus)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for scenario generation")
	cmd.Flags().IntVar(&numAttractors, "attractors", 0, "attractor count for random scenarios")
}

// resolveConfig folds config file values under explicit flags: flags win only
// when set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("integrator") || cfg.Integrator == "" {
		cfg.Integrator = integratorName
	}
	if cmd.Flags().Changed("grid") || cfg.GridSize == 0 {
		cfg.GridSize = gridSize
	}
	if cmd.Flags().Changed("dt") || cfg.Dt == 0 {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("steps") || cfg.MaxSteps == 0 {
		cfg.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("capture") || cfg.CaptureRadius == 0 {
		cfg.CaptureRadius = captureRadius
	}
	if cmd.Flags().Changed("escape") || cfg.EscapeRadius == 0 {
		cfg.EscapeRadius = escapeRadius
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("attractors") {
		cfg.Attractors = numAttractors
	}
	if cmd.Flags().Changed("scenario") {
		cfg.Scenario = scenarioFile
	}
	if cmd.Flags().Changed("preset") {
		cfg.Preset = preset
	}
	return cfg, nil
}

// resolveScenario picks the attractor layout: positional preset, then preset
// flag/config, then scenario file, then a seeded random draw.
func resolveScenario(cfg *config.Config, args []string) (*scenario.Scenario, error) {
	name := cfg.Preset
	if len(args) > 0 {
		name = args[0]
	}
	if name != "" {
		s := scenario.GetPreset(name)
		if s == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, scenario.ListPresets())
		}
		return s, nil
	}
	if cfg.Scenario != "" {
		return scenario.Load(cfg.Scenario)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	s, err := scenario.Random(rng, cfg.Attractors)
	if err != nil {
		return nil, err
	}
	s.Seed = cfg.Seed
	return s, nil
}

func basinConfig(cfg *config.Config) basin.Config {
	return basin.Config{
		GridSize: cfg.GridSize,
		Workers:  cfg.Workers,
		Params: integrators.Params{
			Dt:            cfg.Dt,
			MaxSteps:      cfg.MaxSteps,
			CaptureRadius: cfg.CaptureRadius,
			EscapeRadius:  cfg.EscapeRadius,
		},
	}
}

func renderOne(ctx context.Context, f *field.Field, name string, cfg *config.Config) (*basin.Map, time.Duration, error) {
	integ, err := integrators.New(name)
	if err != nil {
		return nil, 0, err
	}
	start := time.Now()
	m, err := basin.NewRenderer(f, integ).Render(ctx, basinConfig(cfg))
	return m, time.Since(start), err
}

func saveRun(cfg *config.Config, s *scenario.Scenario, name string, m *basin.Map, elapsed time.Duration) (string, error) {
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(store.RunMetadata{
		Integrator:    name,
		GridSize:      cfg.GridSize,
		Dt:            cfg.Dt,
		MaxSteps:      cfg.MaxSteps,
		CaptureRadius: cfg.CaptureRadius,
		EscapeRadius:  cfg.EscapeRadius,
		Seed:          cfg.Seed,
		ElapsedMs:     elapsed.Milliseconds(),
		Scenario:      s,
		Summary:       analysis.Summarize(m, len(s.Attractors)),
	}, m)
}

func printSummary(s *scenario.Scenario, name string, m *basin.Map, elapsed time.Duration) {
	sum := analysis.Summarize(m, len(s.Attractors))

	fmt.Printf("completed %s render in %v\n\n", name, elapsed.Round(time.Millisecond))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ATTRACTOR\tK\tPOS\tSHARE")
	for i, a := range s.Attractors {
		fmt.Fprintf(w, "%d\t%.3f\t(%.3f, %.3f)\t%.2f%%\n", i, a.K, a.X, a.Y, 100*sum.Shares[i])
	}
	fmt.Fprintf(w, "escaped\t\t\t%.2f%%\n", 100*sum.Escaped)
	w.Flush()
	fmt.Printf("\nboundary cells: %.2f%%\n", 100*sum.Boundary)
}

func outputPath(s *scenario.Scenario, name string) string {
	if outPath != "" {
		if renderBoth {
			ext := filepath.Ext(outPath)
			return strings.TrimSuffix(outPath, ext) + "_" + name + ext
		}
		return outPath
	}
	return fmt.Sprintf("%s_%s.ppm", s.Name, name)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := resolveScenario(cfg, args)
	if err != nil {
		return err
	}
	f, err := s.Field()
	if err != nil {
		return err
	}

	names := []string{cfg.Integrator}
	if renderBoth {
		names = []string{"rk4", "symplectic"}
	}

	// Fail on a bad integrator name before any computation.
	for _, name := range names {
		if _, err := integrators.New(name); err != nil {
			return err
		}
	}

	fmt.Printf("rendering %s (%d attractors, %dx%d grid)...\n", s.Name, len(s.Attractors), cfg.GridSize, cfg.GridSize)

	for _, name := range names {
		m, elapsed, err := renderOne(cmd.Context(), f, name, cfg)
		if err != nil {
			return err
		}

		path := outputPath(s, name)
		if err := ppm.WriteFile(path, m.Size, m.Size, m.Pixels); err != nil {
			return err
		}

		runID, err := saveRun(cfg, s, name, m, elapsed)
		if err != nil {
			return err
		}

		printSummary(s, name, m, elapsed)
		fmt.Printf("image: %s\nrun id: %s\n\n", path, runID)

		if showPreview {
			fmt.Println(viz.Preview(m, f, 72, 24))
			fmt.Println(viz.Legend(f))
		}
	}
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := resolveScenario(cfg, args)
	if err != nil {
		return err
	}
	f, err := s.Field()
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators on %s (grid=%d, dt=%.4f)\n\n", s.Name, cfg.GridSize, cfg.Dt)

	maps := make(map[string]*basin.Map, 2)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tESCAPED\tBOUNDARY\tTIME")
	for _, name := range []string{"rk4", "symplectic"} {
		m, elapsed, err := renderOne(cmd.Context(), f, name, cfg)
		if err != nil {
			return err
		}
		maps[name] = m
		sum := analysis.Summarize(m, len(s.Attractors))
		fmt.Fprintf(w, "%s\t%.2f%%\t%.2f%%\t%v\n", name, 100*sum.Escaped, 100*sum.Boundary, elapsed.Round(time.Millisecond))
	}
	w.Flush()

	agree, err := analysis.Agreement(maps["rk4"], maps["symplectic"])
	if err != nil {
		return err
	}
	fmt.Printf("\ncell agreement: %.2f%%\n", 100*agree)
	fmt.Println("disagreement concentrates on the fractal basin boundaries")
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := resolveScenario(cfg, args)
	if err != nil {
		return err
	}
	f, err := s.Field()
	if err != nil {
		return err
	}
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return err
	}

	r := basin.NewRenderer(f, integ)
	start := time.Now()
	m, err := viz.RunLive(cmd.Context(), fmt.Sprintf("%s / %s", s.Name, cfg.Integrator), r, basinConfig(cfg))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	path := outputPath(s, cfg.Integrator)
	if err := ppm.WriteFile(path, m.Size, m.Size, m.Pixels); err != nil {
		return err
	}
	runID, err := saveRun(cfg, s, cfg.Integrator, m, elapsed)
	if err != nil {
		return err
	}

	printSummary(s, cfg.Integrator, m, elapsed)
	fmt.Printf("image: %s\nrun id: %s\n", path, runID)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewSource(seed))
	s, err := scenario.Random(rng, numAttractors)
	if err != nil {
		return err
	}
	s.Seed = seed

	if outPath != "" {
		if err := scenario.Save(outPath, s); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d attractors)\n", outPath, len(s.Attractors))
		return nil
	}

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(s)
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := resolveScenario(cfg, args)
	if err != nil {
		return err
	}
	f, err := s.Field()
	if err != nil {
		return err
	}

	p := basinConfig(cfg).Params
	tr, err := basin.Trace(f, cfg.Integrator, geom.Vec2{X: traceX, Y: traceY}, p)
	if err != nil {
		return err
	}

	fmt.Printf("trace from (%.3f, %.3f) with %s\n", traceX, traceY, cfg.Integrator)
	if tr.Outcome >= 0 {
		fmt.Printf("outcome: captured by attractor %d after %d steps\n", tr.Outcome, tr.Steps)
	} else {
		fmt.Printf("outcome: escaped after %d steps\n", tr.Steps)
	}
	fmt.Printf("energy drift: %.3e\n\n", tr.EnergyDrift())

	fmt.Println(asciigraph.Plot(tr.NearDist,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("distance to nearest attractor"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(tr.Speeds,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("speed"),
	))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tINTEG\tGRID\tATTR\tESCAPED\tELAPSED")
	for _, run := range runs {
		attr := 0
		if run.Scenario != nil {
			attr = len(run.Scenario.Attractors)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.1f%%\t%dms\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Integrator,
			run.GridSize,
			attr,
			100*run.Summary.Escaped,
			run.ElapsedMs,
		)
	}
	return w.Flush()
}
