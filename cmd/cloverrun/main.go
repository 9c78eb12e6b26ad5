package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/cloverrun/internal/deck"
	"github.com/san-kum/cloverrun/internal/orchestrator"
	"github.com/san-kum/cloverrun/internal/report"
	"github.com/san-kum/cloverrun/internal/runner"
	"github.com/san-kum/cloverrun/internal/tui"
	"github.com/san-kum/cloverrun/internal/workspace"
)

var (
	baseDir    string
	verbose    bool
	iterations int
	cells      int
	steps      int
	visitFreq  int
	randomize  bool
	regenInput bool
	seed       int64
	configFile string
	preset     string
	live       bool
	timingPlot bool
	deckOut    string
	// RunConfig field overrides
	density1, energy1 float64
	density2, energy2 float64
	s2xmin, s2xmax    float64
	s2ymin, s2ymax    float64
	xmin, xmax        float64
	ymin, ymax        float64
	initialTimestep   float64
	timestepRise      float64
	maxTimestep       float64
	testProblem       int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cloverrun",
		Short: "automate repeated CloverLeaf simulation trials",
	}
	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "project root (default: discovered by walking up for CloverLeaf_Serial)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a sequence of simulation iterations",
		RunE:  runWorkflow,
	}
	runCmd.Flags().IntVarP(&iterations, "iterations", "n", 1, "number of iterations")
	runCmd.Flags().BoolVar(&randomize, "randomize", false, "draw randomized deck fields each iteration")
	runCmd.Flags().BoolVar(&regenInput, "regen-input", false, "rewrite the input deck before every iteration")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for deck generation")
	runCmd.Flags().BoolVar(&live, "live", false, "show live progress view")
	runCmd.Flags().BoolVar(&timingPlot, "timing-graph", false, "plot per-iteration simulation time after the run")
	addConfigFlags(runCmd)

	deckCmd := &cobra.Command{
		Use:   "deck",
		Short: "generate an input deck without running",
		RunE:  generateDeck,
	}
	deckCmd.Flags().BoolVar(&randomize, "randomize", false, "draw randomized deck fields")
	deckCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for deck generation")
	deckCmd.Flags().StringVarP(&deckOut, "out", "o", "", "output path (default: stdout)")
	addConfigFlags(deckCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list collected iterations and archives",
		RunE:  listOutputs,
	}

	cleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "remove leftover artifact files from the working directory",
		RunE:  cleanWorkingDir,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available run presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCELLS\tSTEPS\tVISIT_FREQ")
			for _, name := range deck.ListPresets() {
				p := deck.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", name, p.XCells, p.EndStep, p.VisitFrequency)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, deckCmd, listCmd, cleanCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&cells, "cells", deck.DefaultCells, "cells per axis")
	cmd.Flags().IntVar(&steps, "steps", deck.DefaultSteps, "number of timesteps")
	cmd.Flags().IntVar(&visitFreq, "visit-freq", deck.DefaultVisitFrequency, "steps between output snapshots")
	cmd.Flags().StringVar(&configFile, "config", "", "run config file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named preset")
	cmd.Flags().Float64Var(&density1, "density1", 0.2, "state 1 density")
	cmd.Flags().Float64Var(&energy1, "energy1", 1.0, "state 1 energy")
	cmd.Flags().Float64Var(&density2, "density2", 1.0, "state 2 density")
	cmd.Flags().Float64Var(&energy2, "energy2", 2.5, "state 2 energy")
	cmd.Flags().Float64Var(&s2xmin, "state2-xmin", 0.0, "state 2 region xmin")
	cmd.Flags().Float64Var(&s2xmax, "state2-xmax", 1.0, "state 2 region xmax")
	cmd.Flags().Float64Var(&s2ymin, "state2-ymin", 0.0, "state 2 region ymin")
	cmd.Flags().Float64Var(&s2ymax, "state2-ymax", 1.0, "state 2 region ymax")
	cmd.Flags().Float64Var(&xmin, "xmin", 0.0, "domain xmin")
	cmd.Flags().Float64Var(&xmax, "xmax", 5.0, "domain xmax")
	cmd.Flags().Float64Var(&ymin, "ymin", 0.0, "domain ymin")
	cmd.Flags().Float64Var(&ymax, "ymax", 5.0, "domain ymax")
	cmd.Flags().Float64Var(&initialTimestep, "initial-timestep", 0.04, "initial timestep")
	cmd.Flags().Float64Var(&timestepRise, "timestep-rise", 1.5, "timestep rise factor")
	cmd.Flags().Float64Var(&maxTimestep, "max-timestep", 0.04, "maximum timestep")
	cmd.Flags().IntVar(&testProblem, "test-problem", deck.DefaultTestProblem, "test problem selector")
}

// buildConfig assembles the RunConfig: defaults, then preset, then config
// file, then any CLI flag the user actually set.
func buildConfig(cmd *cobra.Command) (*deck.RunConfig, error) {
	cfg := deck.DefaultConfig()

	if preset != "" {
		p := deck.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)",
				preset, strings.Join(deck.ListPresets(), ", "))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := deck.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("cells") {
		cfg.XCells, cfg.YCells = cells, cells
	}
	if flags.Changed("steps") {
		cfg.EndStep = steps
	}
	if flags.Changed("visit-freq") {
		cfg.VisitFrequency = visitFreq
	}
	if flags.Changed("density1") {
		cfg.State1.Density = density1
	}
	if flags.Changed("energy1") {
		cfg.State1.Energy = energy1
	}
	if flags.Changed("density2") {
		cfg.State2.Density = density2
	}
	if flags.Changed("energy2") {
		cfg.State2.Energy = energy2
	}
	if flags.Changed("state2-xmin") {
		cfg.State2Region.Xmin = s2xmin
	}
	if flags.Changed("state2-xmax") {
		cfg.State2Region.Xmax = s2xmax
	}
	if flags.Changed("state2-ymin") {
		cfg.State2Region.Ymin = s2ymin
	}
	if flags.Changed("state2-ymax") {
		cfg.State2Region.Ymax = s2ymax
	}
	if flags.Changed("xmin") {
		cfg.Domain.Xmin = xmin
	}
	if flags.Changed("xmax") {
		cfg.Domain.Xmax = xmax
	}
	if flags.Changed("ymin") {
		cfg.Domain.Ymin = ymin
	}
	if flags.Changed("ymax") {
		cfg.Domain.Ymax = ymax
	}
	if flags.Changed("initial-timestep") {
		cfg.Timestep.Initial = initialTimestep
	}
	if flags.Changed("timestep-rise") {
		cfg.Timestep.Rise = timestepRise
	}
	if flags.Changed("max-timestep") {
		cfg.Timestep.Max = maxTimestep
	}
	if flags.Changed("test-problem") {
		cfg.TestProblem = testProblem
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	ws, err := workspace.New(baseDir)
	if err != nil {
		return err
	}
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	plan := orchestrator.Plan{
		Iterations: iterations,
		Regenerate: regenInput,
		Randomize:  randomize,
		Seed:       seed,
		Config:     *cfg,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exec := runner.NewExecutor(ws, logger)
	start := time.Now()

	var sum *orchestrator.Summary
	var runErr error
	if live {
		events := make(chan orchestrator.Event, 64)
		orch := orchestrator.New(ws, exec, logger,
			orchestrator.WithObserver(func(ev orchestrator.Event) { events <- ev }))
		done := make(chan struct{})
		go func() {
			sum, runErr = orch.Run(ctx, plan)
			close(events)
			close(done)
		}()
		if err := tui.Run(events); err != nil {
			return err
		}
		<-done
	} else {
		orch := orchestrator.New(ws, exec, logger,
			orchestrator.WithObserver(printProgress))
		sum, runErr = orch.Run(ctx, plan)
	}

	if sum != nil {
		fmt.Println()
		report.PrintSummary(os.Stdout, sum, time.Since(start))
		if timingPlot {
			report.PrintTimingGraph(os.Stdout, sum)
		}
	}
	return runErr
}

func printProgress(ev orchestrator.Event) {
	switch ev.Phase {
	case orchestrator.Preparing:
		fmt.Printf("iteration %d/%d: preparing input deck\n", ev.Iteration, ev.Total)
	case orchestrator.Executing:
		fmt.Printf("iteration %d/%d: running %s\n", ev.Iteration, ev.Total, workspace.BinaryName)
	case orchestrator.Collecting:
		fmt.Printf("iteration %d/%d: collecting artifacts\n", ev.Iteration, ev.Total)
	case orchestrator.Archiving:
		fmt.Printf("iteration %d/%d: archiving\n", ev.Iteration, ev.Total)
	}
}

func generateDeck(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if randomize {
		cfg.Randomize(rand.New(rand.NewSource(seed)))
	}
	if deckOut == "" {
		fmt.Print(cfg.Render())
		return nil
	}
	return cfg.Write(deckOut)
}

func listOutputs(cmd *cobra.Command, args []string) error {
	ws, err := workspace.New(baseDir)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(ws.OutputDir)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITERATION\tFILES\tSNAPSHOTS")
	rows := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "iteration_") {
			continue
		}
		files, err := os.ReadDir(filepath.Join(ws.OutputDir, entry.Name()))
		if err != nil {
			continue
		}
		snapshots := 0
		for _, f := range files {
			if strings.HasSuffix(f.Name(), workspace.SnapshotExt) {
				snapshots++
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\n", entry.Name(), len(files), snapshots)
		rows++
	}
	if rows == 0 {
		fmt.Println("no iterations found")
	} else if err := w.Flush(); err != nil {
		return err
	}

	archives, err := os.ReadDir(ws.ArchiveDir)
	if err != nil || len(archives) == 0 {
		return nil
	}
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ARCHIVE\tSIZE\tCREATED")
	for _, entry := range archives {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n",
			entry.Name(), info.Size(), info.ModTime().Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func cleanWorkingDir(cmd *cobra.Command, args []string) error {
	ws, err := workspace.New(baseDir)
	if err != nil {
		return err
	}
	n, err := ws.CleanResidue()
	if err != nil {
		return err
	}
	fmt.Printf("removed %d leftover artifact files\n", n)
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
