package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/GoCodeAlone/evosim"
)

func main() {
	var (
		help       = flag.Bool("help", false, "Show help message")
		configPath = flag.String("config", "", "Load configuration from a YAML file")
		savePath   = flag.String("save-config", "", "Write the effective configuration to a YAML file and exit")
		seed       = flag.Int64("seed", 0, "Random seed override (0 keeps the configured seed; the current time is used if that is also 0)")
		gridWidth  = flag.Int("grid-width", 0, "Grid width override")
		gridHeight = flag.Int("grid-height", 0, "Grid height override")
		popSize    = flag.Int("pop-size", 0, "Population size override")
		maxGens    = flag.Int("generations", 0, "Max generations override")
		version    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *help {
		fmt.Println("evosim - grid-based agent survival and evolution engine")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Printf("  %s [options]\n", os.Args[0])
		fmt.Println()
		flag.PrintDefaults()
		return
	}
	if *version {
		fmt.Println("evosim v1.0")
		return
	}

	cfg := evosim.DefaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("reading config: %v", err)
		}
		cfg, err = evosim.ConfigFromYAML(data)
		if err != nil {
			log.Fatalf("parsing config: %v", err)
		}
	}

	if *seed != 0 {
		cfg.Seed = *seed
	} else if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if *gridWidth > 0 {
		cfg.World.GridWidth = *gridWidth
	}
	if *gridHeight > 0 {
		cfg.World.GridHeight = *gridHeight
	}
	if *popSize > 0 {
		cfg.Population.PopulationSize = *popSize
	}
	if *maxGens > 0 {
		cfg.Simulation.MaxGenerations = *maxGens
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if *savePath != "" {
		data, err := cfg.ToYAML()
		if err != nil {
			log.Fatalf("serializing config: %v", err)
		}
		if err := os.WriteFile(*savePath, data, 0644); err != nil {
			log.Fatalf("writing config: %v", err)
		}
		return
	}

	sink := evosim.NewFuncSink(
		func(r evosim.WeekReport) { log.Println(r.String()) },
		func(r evosim.GenerationReport) { log.Println(r.String()) },
		func(ctx string, err error) { log.Printf("fault in %s: %v", ctx, err) },
	)

	driver := evosim.NewSimulationDriver(cfg, sink)
	if err := driver.Initialize(); err != nil {
		log.Fatalf("initialize: %v", err)
	}
	if err := driver.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}

	log.Printf("simulation finished after %d generation(s)", driver.Generation()-1)
}
