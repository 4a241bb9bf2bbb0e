package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-layout/pkg/entity"
	"github.com/dd0wney/cluso-layout/pkg/layout"
	"github.com/dd0wney/cluso-layout/pkg/logging"
	"github.com/dd0wney/cluso-layout/pkg/metrics"
	"github.com/dd0wney/cluso-layout/pkg/spatial"
	"github.com/dd0wney/cluso-layout/pkg/validation"
)

func main() {
	opts := parseFlags()
	if err := validation.ValidateConfig(&opts); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(opts.logLevel))
	logging.SetDefaultLogger(logger)

	cfg := layout.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := layout.LoadConfig(opts.configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	start := time.Now()
	reg := metrics.NewRegistry()
	if opts.metricsAddr != "" {
		go serveMetrics(opts.metricsAddr, reg, logger)
	}

	fmt.Printf("Layout Step Benchmark\n")
	fmt.Printf("=====================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Entities:    %d\n", opts.entities)
	fmt.Printf("  Degree:      %d\n", opts.degree)
	fmt.Printf("  Steps:       %d\n", opts.steps)
	fmt.Printf("  Theta:       %.2f\n", cfg.Theta)
	fmt.Printf("  CPU Cores:   %d\n", runtime.NumCPU())
	fmt.Printf("  Workers:     %d\n\n", opts.workers)

	entities, edges, err := createTestGraph(opts.entities, opts.degree, opts.seed)
	if err != nil {
		log.Fatalf("Failed to create graph: %v", err)
	}
	fmt.Printf("Created %d entities with %d edges\n\n", len(entities), len(edges))

	grid, err := spatial.NewGrid(float32(opts.cellSize), spatial.WithMetrics(reg))
	if err != nil {
		log.Fatalf("Failed to create grid: %v", err)
	}

	engine, err := layout.NewEngine(
		layout.WithLogger(logger),
		layout.WithMetrics(reg),
		layout.WithWorkers(opts.workers),
		layout.WithGrid(grid),
	)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	brute := cfg
	brute.BarnesHutThreshold = len(entities)
	bh := cfg
	bh.BarnesHutThreshold = 0

	fmt.Printf("Testing brute force...\n")
	bruteStats := benchmarkSteps(engine, clone(entities), edges, brute, opts.steps)
	printStats(bruteStats)

	fmt.Printf("Testing Barnes-Hut...\n")
	bhStats := benchmarkSteps(engine, clone(entities), edges, bh, opts.steps)
	printStats(bhStats)
	if bhStats.Err == nil && bruteStats.Err == nil {
		fmt.Printf("   Speedup:       %.2fx\n\n", bruteStats.PerStep.Seconds()/bhStats.PerStep.Seconds())
	}

	fmt.Printf("Testing neighbor queries (radius %.1f)...\n", opts.radius)
	queryStats := benchmarkNeighbors(grid, entities, float32(opts.radius))
	fmt.Printf("   Queries:       %d\n", queryStats.Queries)
	fmt.Printf("   Avg Results:   %.1f\n", queryStats.AvgResults)
	fmt.Printf("   Duration:      %s\n\n", queryStats.Duration)

	fmt.Printf("Running to convergence...\n")
	runEntities := clone(entities)
	stats, err := engine.Run(context.Background(), runEntities, edges, cfg)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}
	fmt.Printf("   Iterations:    %d\n", stats.Iterations)
	fmt.Printf("   Converged:     %v\n", stats.Converged)
	fmt.Printf("   Max Velocity:  %.6f\n", stats.MaxVelocity)
	fmt.Printf("   Duration:      %s\n", stats.Elapsed)

	bounds := layout.CalculateBounds(entity.Positions(runEntities))
	fmt.Printf("   Bounds:        center %v size %v\n", bounds.Center, bounds.Size)

	reg.UpdateSystemMetrics(start)

	if opts.metricsAddr != "" {
		fmt.Printf("\nServing metrics on %s/metrics (Ctrl+C to stop)\n", opts.metricsAddr)
		for {
			time.Sleep(5 * time.Second)
			reg.UpdateSystemMetrics(start)
		}
	}
}

type BenchmarkStats struct {
	Mode     string
	Steps    int
	Duration time.Duration
	PerStep  time.Duration
	Err      error
}

type QueryStats struct {
	Queries    int
	AvgResults float64
	Duration   time.Duration
}

func benchmarkSteps(engine *layout.Engine, entities []entity.Positioned, edges []entity.Edge, cfg layout.Config, steps int) BenchmarkStats {
	mode := metrics.ModeBruteForce
	if len(entities) > cfg.BarnesHutThreshold {
		mode = metrics.ModeBarnesHut
	}
	stats := BenchmarkStats{Mode: mode}

	start := time.Now()
	for i := 0; i < steps; i++ {
		if err := engine.Step(entities, edges, cfg); err != nil {
			stats.Err = err
			break
		}
		stats.Steps++
	}
	stats.Duration = time.Since(start)
	if stats.Steps > 0 {
		stats.PerStep = stats.Duration / time.Duration(stats.Steps)
	}
	return stats
}

func benchmarkNeighbors(grid *spatial.Grid, entities []entity.Positioned, radius float32) QueryStats {
	var stats QueryStats
	results := 0

	start := time.Now()
	for _, ent := range entities {
		ids, err := grid.Neighbors(ent.ID, radius)
		if err != nil {
			continue
		}
		results += len(ids)
		stats.Queries++
	}
	stats.Duration = time.Since(start)
	if stats.Queries > 0 {
		stats.AvgResults = float64(results) / float64(stats.Queries)
	}
	return stats
}

func printStats(s BenchmarkStats) {
	if s.Err != nil {
		fmt.Printf("   Failed after %d steps: %v\n\n", s.Steps, s.Err)
		return
	}
	fmt.Printf("   Mode:          %s\n", s.Mode)
	fmt.Printf("   Steps:         %d\n", s.Steps)
	fmt.Printf("   Duration:      %s\n", s.Duration)
	fmt.Printf("   Per Step:      %s\n\n", s.PerStep)
}

func serveMetrics(addr string, reg *metrics.Registry, logger logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.GetPrometheusRegistry(), promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("metrics server listening", logging.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", logging.Error(err))
	}
}
