package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/mlund/particletracking/internal/analysis"
	"github.com/mlund/particletracking/internal/config"
	"github.com/mlund/particletracking/internal/energy"
	"github.com/mlund/particletracking/internal/geometry"
	"github.com/mlund/particletracking/internal/mc"
	"github.com/mlund/particletracking/internal/move"
	"github.com/mlund/particletracking/internal/potential"
	"github.com/mlund/particletracking/internal/space"
	"github.com/mlund/particletracking/internal/storage"
	"github.com/mlund/particletracking/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	configFile  string
	statePath   string
	seed        int64
	iterations  int
	particles   int
	box         float64
	periodic    bool
	kt          float64
	step        float64
	jumpWeight  float64
	sampleEvery int
	binWidth    float64
	live        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mcsim",
		Short: "metropolis monte carlo for pairwise-interacting particles",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mcsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&statePath, "state", "", "state file to resume from and save to")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "move attempts")
	runCmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "particle count")
	runCmd.Flags().Float64Var(&box, "box", config.DefaultBox, "cubic box side length")
	runCmd.Flags().BoolVar(&periodic, "periodic", false, "periodic boundaries (minimum image)")
	runCmd.Flags().Float64Var(&kt, "kt", config.DefaultKT, "thermal energy kB*T")
	runCmd.Flags().Float64Var(&step, "step", config.DefaultStep, "translation step size")
	runCmd.Flags().Float64Var(&jumpWeight, "jump-weight", 0, "weight of the jump move (0 disables)")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "histogram sampling interval")
	runCmd.Flags().Float64Var(&binWidth, "bin-width", config.DefaultBinWidth, "histogram bin width")
	runCmd.Flags().BoolVar(&live, "live", false, "live terminal view")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the distance histogram of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print the stored pqr configuration",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override the config file.
	if cmd.Flags().Changed("iterations") {
		cfg.Iterations = iterations
	}
	if cmd.Flags().Changed("particles") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("box") {
		cfg.Box = box
	}
	if cmd.Flags().Changed("periodic") {
		cfg.Periodic = periodic
	}
	if cmd.Flags().Changed("kt") {
		cfg.KT = kt
	}
	if cmd.Flags().Changed("step") {
		cfg.Moves.TranslateStep = step
	}
	if cmd.Flags().Changed("jump-weight") {
		cfg.Moves.JumpWeight = jumpWeight
	}
	if cmd.Flags().Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if cmd.Flags().Changed("bin-width") {
		cfg.BinWidth = binWidth
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	geo, err := geometry.NewCube(cfg.Box, cfg.Periodic)
	if err != nil {
		return err
	}
	sp, err := space.New(geo, cfg.Particles, rng)
	if err != nil {
		return err
	}

	if statePath != "" {
		ok, err := sp.Load(statePath)
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("resumed from %s\n", statePath)
		} else {
			fmt.Println("no prior state, starting fresh")
		}
	}

	pot, err := potential.New(cfg.Potential.Name, potential.Params{
		Prefactor:   cfg.Potential.Prefactor,
		LJPrefactor: cfg.Potential.LJPrefactor,
		Sigma:       cfg.Potential.Sigma,
		Epsilon:     cfg.Potential.Epsilon,
	})
	if err != nil {
		return err
	}
	nb := energy.NewNonbonded(pot)

	tr, err := move.NewTranslate(cfg.Moves.TranslateStep, cfg.Moves.TranslateWeight)
	if err != nil {
		return err
	}
	moves := []move.Move{tr}
	if cfg.Moves.JumpWeight > 0 {
		jp, err := move.NewJump(cfg.Moves.JumpWeight)
		if err != nil {
			return err
		}
		moves = append(moves, jp)
	}

	prop, err := move.NewPropagator(sp, nb, moves, cfg.KT, rng)
	if err != nil {
		return err
	}

	driver, err := mc.NewDriver(sp, prop, nb, cfg.SampleEvery)
	if err != nil {
		return err
	}

	hist, err := analysis.NewHistogram(cfg.BinWidth)
	if err != nil {
		return err
	}
	driver.AddSampler(mc.NewDistanceSampler(hist))
	es := mc.NewEnergySampler(nb)
	driver.AddSampler(es)

	fmt.Printf("running %d move attempts over %d particles (seed %d)...\n",
		cfg.Iterations, cfg.Particles, cfg.Seed)
	start := time.Now()

	var res *mc.Result
	if live {
		res, err = runLive(driver, prop, nb, sp, cfg.Iterations)
	} else {
		res, err = driver.Run(context.Background(), cfg.Iterations)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, res, sp, hist, elapsed)
	if err != nil {
		return err
	}

	if statePath != "" {
		if err := sp.Save(statePath); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Println()
	fmt.Print(driver.Info())
	return nil
}

// runLive feeds driver progress into the terminal view while the
// simulation runs in a background goroutine.
func runLive(driver *mc.Driver, prop *move.Propagator, nb *energy.Nonbonded, sp *space.Space, iterations int) (*mc.Result, error) {
	progress := make(chan tui.Progress, 16)

	interval := iterations / 500
	if interval < 1 {
		interval = 1
	}

	running := nb.Total(sp)
	driver.OnIteration = func(iter int, out move.Outcome) {
		if out.Accepted {
			running += out.DeltaU
		}
		if (iter+1)%interval != 0 {
			return
		}
		select {
		case progress <- tui.Progress{
			Iteration:  iter + 1,
			Total:      iterations,
			Energy:     running,
			Acceptance: prop.AcceptanceRatios(),
		}:
		default:
		}
	}

	type runResult struct {
		res *mc.Result
		err error
	}
	done := make(chan runResult, 1)
	go func() {
		res, err := driver.Run(context.Background(), iterations)
		close(progress)
		done <- runResult{res, err}
	}()

	p := tea.NewProgram(tui.NewModel(progress))
	if _, err := p.Run(); err != nil {
		return nil, err
	}

	r := <-done
	return r.res, r.err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tN\tBOX\tPBC\tITER\tKT\tENERGY")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3g\t%v\t%d\t%.3g\t%.6g\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.Box,
			run.Periodic,
			run.Iterations,
			run.KT,
			run.FinalEnergy,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	centers, counts, err := st.LoadHistogram(args[0])
	if err != nil {
		return err
	}
	if len(centers) == 0 {
		return fmt.Errorf("no histogram data for run %s", args[0])
	}

	// Re-bin onto a dense axis so gaps render as zero counts.
	width := centers[len(centers)-1]
	if len(centers) > 1 {
		width = centers[1] - centers[0]
		for i := 2; i < len(centers); i++ {
			if d := centers[i] - centers[i-1]; d < width {
				width = d
			}
		}
	}
	first := centers[0]
	n := int((centers[len(centers)-1]-first)/width+0.5) + 1
	data := make([]float64, n)
	for i, c := range centers {
		data[int((c-first)/width+0.5)] = float64(counts[i])
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("pair distance histogram, %d bins from r=%.3g\n\n", n, first)

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("count vs distance"),
	)
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	f, err := os.Open(st.PQRPath(args[0]))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(os.Stdout, f)
	return err
}
