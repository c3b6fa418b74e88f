package evosim

import (
	"fmt"
	"math/rand"
)

// DriverState is the tagged variant of the SimulationDriver's lifecycle
// state (spec.md §5).
type DriverState int

const (
	StateStopped DriverState = iota
	StateRunning
	StatePaused
	StateEvolving
	StateFinished
)

func (s DriverState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateEvolving:
		return "evolving"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// SimulationDriver owns the World, Population, and engines across an
// entire run, and enforces the lifecycle state machine spec.md §5
// defines: Stopped -> Running <-> Paused; Running -> Evolving ->
// Running|Finished.
// Grounded in the teacher's main loop / simulation runner (world.go's
// Update-driven tick loop and its start/stop plumbing wired from
// main.go), generalized from the teacher's always-on tick loop to the
// spec's explicit controllable state machine with illegal-transition
// errors instead of silent no-ops.
type SimulationDriver struct {
	cfg     *Config
	sink    EventSink
	streams *StreamSet

	state DriverState

	world *World
	pop   *Population

	resolver *ActionResolver
	events   *EventEngine
	evo      *EvolutionEngine

	generation int
	week       int
}

// NewSimulationDriver builds a driver configured per cfg, emitting
// structured events to sink (use NopSink{} to discard them).
func NewSimulationDriver(cfg *Config, sink EventSink) *SimulationDriver {
	if sink == nil {
		sink = NopSink{}
	}
	return &SimulationDriver{
		cfg:     cfg,
		sink:    sink,
		streams: NewStreamSet(cfg.Seed),
		state:   StateStopped,
		events:  NewEventEngine(cfg.Events),
		evo:     NewEvolutionEngine(cfg.Evolution),
	}
}

// State reports the driver's current lifecycle state.
func (d *SimulationDriver) State() DriverState { return d.state }

// Generation reports the generation currently in progress (1-indexed
// once initialized).
func (d *SimulationDriver) Generation() int { return d.generation }

// Week reports the week within the current generation most recently run.
func (d *SimulationDriver) Week() int { return d.week }

func (d *SimulationDriver) transitionError(op string) error {
	return fmt.Errorf("%s: driver is %s: %w", op, d.state, ErrInvalidState)
}

// Initialize builds generation 1's world and population from cfg and
// moves the driver from Stopped to Running. Only legal from Stopped or
// Finished (re-initializing a finished run starts a fresh one).
func (d *SimulationDriver) Initialize() error {
	if d.state != StateStopped && d.state != StateFinished {
		return d.transitionError("initialize")
	}
	terrainRng := d.streams.Stream(1, PhaseTerrain)
	d.world = NewWorld(d.cfg.World, terrainRng)
	resourceRng := d.streams.Stream(1, PhaseResource)
	d.world.Grid.PlaceResources(d.cfg.World.FoodDensity, d.cfg.World.WaterDensity, resourceRng)

	d.pop = NewPopulation()
	placeRng := d.streams.Stream(1, PhaseCleanup)
	for _, a := range buildInitialAnimals(d.cfg, placeRng) {
		d.pop.Add(a)
		d.world.PlaceAnimal(a, placeRng)
	}

	d.generation = 1
	d.week = 0
	d.resolver = NewActionResolver(d.world, d.pop, d.streams, d.cfg.Evolution.KillFitnessWeight)
	d.state = StateRunning
	return nil
}

// buildInitialAnimals constructs generation 1's population per cfg's
// population size and category ratio (spec.md §4.1, §6), with random
// traits and a freshly initialized DecisionNetwork per animal.
func buildInitialAnimals(cfg *Config, rng *rand.Rand) []*Animal {
	ratio := cfg.Population.CategoryRatio
	total := ratio.Herbivore + ratio.Carnivore + ratio.Omnivore
	if total <= 0 {
		total = 1
		ratio = CategoryRatio{Herbivore: 1}
	}
	categories := make([]Category, 0, cfg.Population.PopulationSize)
	weights := []struct {
		cat Category
		n   int
	}{{Herbivore, ratio.Herbivore}, {Carnivore, ratio.Carnivore}, {Omnivore, ratio.Omnivore}}
	for i := 0; i < cfg.Population.PopulationSize; i++ {
		slot := i % total
		acc := 0
		chosen := Herbivore
		for _, w := range weights {
			acc += w.n
			if slot < acc {
				chosen = w.cat
				break
			}
		}
		categories = append(categories, chosen)
	}

	animals := make([]*Animal, 0, len(categories))
	for _, cat := range categories {
		var traits [numTraits]int
		for i := range traits {
			traits[i] = 20 + rng.Intn(61)
		}
		a := NewAnimal(0, cat, traits, 0, 0)
		a.Policy = NewDecisionNetwork(InputLen, HiddenNodes, int(NumActions), rng)
		animals = append(animals, a)
	}
	return animals
}

// Start resumes a paused driver; from any other state, Running included,
// it changes nothing and returns ErrInvalidState.
func (d *SimulationDriver) Start() error {
	if d.state != StatePaused {
		return d.transitionError("start")
	}
	d.state = StateRunning
	return nil
}

// Pause suspends a running driver; StepWeek and Run both refuse to
// advance while paused.
func (d *SimulationDriver) Pause() error {
	if d.state != StateRunning {
		return d.transitionError("pause")
	}
	d.state = StatePaused
	return nil
}

// Resume is an alias of Start, matching spec.md §5's named verb.
func (d *SimulationDriver) Resume() error { return d.Start() }

// Stop halts the driver unconditionally from Running or Paused,
// returning to Stopped; a subsequent Initialize starts fresh.
func (d *SimulationDriver) Stop() error {
	if d.state != StateRunning && d.state != StatePaused {
		return d.transitionError("stop")
	}
	d.state = StateStopped
	return nil
}

// Reset discards all state and returns the driver to Stopped from any
// state, the one verb with no illegal source state.
func (d *SimulationDriver) Reset() {
	d.world = nil
	d.pop = nil
	d.resolver = nil
	d.generation = 0
	d.week = 0
	d.state = StateStopped
}

// StepWeek runs exactly one week (Action Resolution then Event Engine),
// detects a generation boundary (steps_per_generation reached, or the
// population died out), and triggers evolution at the boundary. Only
// legal while Running.
func (d *SimulationDriver) StepWeek() (WeekReport, error) {
	if d.state != StateRunning {
		return WeekReport{}, d.transitionError("step_week")
	}
	d.week++

	report := d.resolver.RunWeek(d.generation, d.week)

	eventRng := d.streams.WeekStream(d.generation, d.week, PhaseEvent)
	report.Events = d.events.RunWeek(d.world, d.pop, d.week, eventRng)

	d.sink.WeekCompleted(report)

	boundary := d.week >= d.cfg.Simulation.StepsPerGeneration || d.pop.LivingCount() == 0
	if boundary {
		if err := d.advanceGeneration(); err != nil {
			return report, err
		}
	}
	return report, nil
}

// advanceGeneration runs the Evolution Engine and either starts the next
// generation Running or marks the driver Finished when
// max_generations has been reached (spec.md §4.7, §5).
func (d *SimulationDriver) advanceGeneration() error {
	d.state = StateEvolving
	evoRng := d.streams.Stream(d.generation, PhaseEvolution)
	next, genReport := d.evo.NextGeneration(d.generation, d.pop, d.world, d.cfg, evoRng)
	d.sink.GenerationCompleted(genReport)

	d.pop = next
	d.week = 0
	d.generation++

	if d.generation > d.cfg.Simulation.MaxGenerations || d.pop.LivingCount() == 0 {
		d.state = StateFinished
		return nil
	}
	d.resolver = NewActionResolver(d.world, d.pop, d.streams, d.cfg.Evolution.KillFitnessWeight)
	d.state = StateRunning
	return nil
}

// Run drives the simulation to completion, calling StepWeek until the
// driver reaches Finished. Intended for non-interactive callers; an
// interactive caller should prefer StepWeek directly so it can Pause
// between calls.
func (d *SimulationDriver) Run() error {
	if d.state != StateRunning {
		return d.transitionError("run")
	}
	for d.state == StateRunning {
		if _, err := d.StepWeek(); err != nil {
			return err
		}
	}
	return nil
}
