package main

import (
	"flag"
	"runtime"

	"github.com/dd0wney/cluso-layout/pkg/parallel"
	"github.com/dd0wney/cluso-layout/pkg/validation"
)

type options struct {
	entities    int
	degree      int
	steps       int
	workers     int
	seed        uint64
	configPath  string
	cellSize    float64
	radius      float64
	metricsAddr string
	logLevel    string
}

func parseFlags() options {
	var o options
	flag.IntVar(&o.entities, "entities", 2000, "Number of entities")
	flag.IntVar(&o.degree, "degree", 2, "Edges per entity")
	flag.IntVar(&o.steps, "steps", 20, "Steps per mode")
	flag.IntVar(&o.workers, "workers", 0, "Force worker goroutines (0 = CPU count, 1 = sequential)")
	flag.Uint64Var(&o.seed, "seed", 1, "Random seed for the graph")
	flag.StringVar(&o.configPath, "config", "", "YAML layout config (defaults if empty)")
	flag.Float64Var(&o.cellSize, "cell", 2, "Grid cell size for the neighbor benchmark")
	flag.Float64Var(&o.radius, "radius", 3, "Neighbor query radius")
	flag.StringVar(&o.metricsAddr, "metrics-addr", "", "Serve /metrics on this address and keep running after the benchmark")
	flag.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	o.workers = validation.ClampInt(validation.DefaultOrInt(o.workers, runtime.NumCPU()), 1, parallel.MaxWorkers)
	return o
}

// Validate checks the flag values
func (o *options) Validate() error {
	return validation.NewConfigValidator("flags").
		Positive("entities", o.entities).
		NonNegative("degree", o.degree).
		Positive("steps", o.steps).
		PositiveFloat("cell", o.cellSize).
		NonNegativeFloat("radius", o.radius).
		Custom("metrics-addr", func() error {
			return validation.Var("metrics-addr", o.metricsAddr, "omitempty,hostname_port")
		}).
		Validate()
}
