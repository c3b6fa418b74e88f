package evosim

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// WorldConfig holds world generation configuration (spec.md §6).
type WorldConfig struct {
	GridWidth           int                 `json:"grid_width" yaml:"grid_width"`
	GridHeight          int                 `json:"grid_height" yaml:"grid_height"`
	MountainBorder      bool                `json:"mountain_border" yaml:"mountain_border"`
	TerrainDistribution map[Terrain]float64 `json:"terrain_distribution" yaml:"terrain_distribution"`
	FoodDensity         float64             `json:"food_density" yaml:"food_density"`
	WaterDensity        float64             `json:"water_density" yaml:"water_density"`
}

// CategoryRatio weights how a fresh population is split across
// categories (spec.md §6).
type CategoryRatio struct {
	Herbivore int `json:"herbivore" yaml:"herbivore"`
	Carnivore int `json:"carnivore" yaml:"carnivore"`
	Omnivore  int `json:"omnivore" yaml:"omnivore"`
}

// PopulationConfig holds population-related configuration.
type PopulationConfig struct {
	PopulationSize int           `json:"population_size" yaml:"population_size"`
	CategoryRatio  CategoryRatio `json:"category_ratio" yaml:"category_ratio"`
}

// SimulationTiming holds the generation/week bounds.
type SimulationTiming struct {
	MaxGenerations     int `json:"max_generations" yaml:"max_generations"`
	StepsPerGeneration int `json:"steps_per_generation" yaml:"steps_per_generation"`
}

// EventClassConfig holds the per-class enable flag and per-event tuning
// consumed by the Event Engine (spec.md §4.6, §6).
type EventClassConfig struct {
	Enabled         bool               `json:"enabled" yaml:"enabled"`
	Cap             int                `json:"cap" yaml:"cap"`
	Probabilities   map[string]float64 `json:"probabilities" yaml:"probabilities"`
	Cooldowns       map[string]int     `json:"cooldowns" yaml:"cooldowns"`
	MaxOccurrences  map[string]int     `json:"max_occurrences" yaml:"max_occurrences"`
}

// EventsConfig holds all three event class configurations.
type EventsConfig struct {
	Triggered EventClassConfig `json:"triggered" yaml:"triggered"`
	Random    EventClassConfig `json:"random" yaml:"random"`
	Disaster  EventClassConfig `json:"disaster" yaml:"disaster"`
}

// EvolutionConfig holds evolution-related configuration.
type EvolutionConfig struct {
	MutationRate      float64 `json:"mutation_rate" yaml:"mutation_rate"`
	MutationStrength  float64 `json:"mutation_strength" yaml:"mutation_strength"`
	CrossoverRate     float64 `json:"crossover_rate" yaml:"crossover_rate"`
	SelectionMethod   string  `json:"selection_method" yaml:"selection_method"` // tournament | roulette | rank
	TournamentSize    int     `json:"tournament_size" yaml:"tournament_size"`
	ElitePercentage   float64 `json:"elite_percentage" yaml:"elite_percentage"`
	KillFitnessWeight float64 `json:"kill_fitness_weight" yaml:"kill_fitness_weight"`
}

// Config is the engine's top-level, typed configuration record — the
// only input the engine consumes besides a logging sink (spec.md §1, §6).
// Grounded in the teacher's SimulationConfig (config.go): the same
// nested-struct-with-json-tags shape and a DefaultConfig
// constructor plus Validate, generalized from the teacher's
// biome/energy/physics sections to the spec's world/population/
// simulation/resources/events/evolution/determinism sections.
type Config struct {
	World      WorldConfig      `json:"world" yaml:"world"`
	Population PopulationConfig `json:"population" yaml:"population"`
	Simulation SimulationTiming `json:"simulation" yaml:"simulation"`
	Events     EventsConfig     `json:"events" yaml:"events"`
	Evolution  EvolutionConfig  `json:"evolution" yaml:"evolution"`
	Seed       int64            `json:"seed" yaml:"seed"`
}

// DefaultConfig returns the spec's default configuration (spec.md §6).
func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			GridWidth:      20,
			GridHeight:     20,
			MountainBorder: true,
			TerrainDistribution: map[Terrain]float64{
				Plains:    0.40,
				Forest:    0.20,
				Jungle:    0.10,
				Swamp:     0.10,
				Water:     0.15,
				Mountains: 0.05,
			},
			FoodDensity:  0.15,
			WaterDensity: 0.15,
		},
		Population: PopulationConfig{
			PopulationSize: 50,
			CategoryRatio:  CategoryRatio{Herbivore: 3, Carnivore: 1, Omnivore: 1},
		},
		Simulation: SimulationTiming{
			MaxGenerations:     10,
			StepsPerGeneration: 100,
		},
		Events: EventsConfig{
			Triggered: EventClassConfig{
				Enabled: true, Cap: 3,
				Probabilities: map[string]float64{"overpopulation": 0.5, "near_extinction": 0.8, "resource_scarcity": 0.5, "disease": 0.4},
				Cooldowns:      map[string]int{"overpopulation": 5, "near_extinction": 3, "resource_scarcity": 4, "disease": 6},
				MaxOccurrences: map[string]int{"overpopulation": 10, "near_extinction": 10, "resource_scarcity": 10, "disease": 10},
			},
			Random: EventClassConfig{
				Enabled: true, Cap: 2,
				Probabilities: map[string]float64{
					"resource_discovery": 0.08, "healing_springs": 0.05, "abundant_harvest": 0.06,
					"migration": 0.04, "weather_change": 0.07, "pest_infestation": 0.05, "territorial_dispute": 0.05,
				},
				Cooldowns:      map[string]int{},
				MaxOccurrences: map[string]int{},
			},
			Disaster: EventClassConfig{
				Enabled: true, Cap: 1,
				Probabilities: map[string]float64{
					"earthquake": 0.03, "wildfire": 0.03, "flood": 0.03, "drought": 0.03,
					"toxic_spill": 0.02, "plague": 0.02, "predator_invasion": 0.02,
				},
				Cooldowns:      map[string]int{"earthquake": 8, "wildfire": 8, "flood": 8, "drought": 10, "toxic_spill": 12, "plague": 12, "predator_invasion": 8},
				MaxOccurrences: map[string]int{},
			},
		},
		Evolution: EvolutionConfig{
			MutationRate:      0.1,
			MutationStrength:  0.1,
			CrossoverRate:     0.8,
			SelectionMethod:   "tournament",
			TournamentSize:    3,
			ElitePercentage:   0.1,
			KillFitnessWeight: 5,
		},
		Seed: 42,
	}
}

// Validate ensures the configuration's values are internally consistent,
// mirroring the teacher's SimulationConfig.Validate (config.go).
func (c *Config) Validate() error {
	if c.World.GridWidth <= 0 || c.World.GridHeight <= 0 {
		return fmt.Errorf("world dimensions must be positive")
	}
	if c.Population.PopulationSize <= 0 {
		return fmt.Errorf("population size must be positive")
	}
	if c.Simulation.MaxGenerations <= 0 {
		return fmt.Errorf("max generations must be positive")
	}
	if c.Simulation.StepsPerGeneration <= 0 {
		return fmt.Errorf("steps per generation must be positive")
	}
	total := 0.0
	for _, w := range c.World.TerrainDistribution {
		total += w
	}
	if total < 0.999 || total > 1.001 {
		return fmt.Errorf("terrain distribution must sum to 1 (±0.001), got %f", total)
	}
	switch c.Evolution.SelectionMethod {
	case "tournament", "roulette", "rank":
	default:
		return fmt.Errorf("unknown selection method %q", c.Evolution.SelectionMethod)
	}
	return nil
}

// ToYAML and ConfigFromYAML round-trip Config losslessly, the
// portable representation spec.md §6 requires ("configuration is
// serializable"). Terrain is a typed int enum, not a yaml-native scalar,
// so TerrainDistribution marshals through its string names.
type configYAML struct {
	World struct {
		GridWidth           int                `yaml:"grid_width"`
		GridHeight          int                `yaml:"grid_height"`
		MountainBorder      bool               `yaml:"mountain_border"`
		TerrainDistribution map[string]float64 `yaml:"terrain_distribution"`
		FoodDensity         float64            `yaml:"food_density"`
		WaterDensity        float64            `yaml:"water_density"`
	} `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Simulation SimulationTiming `yaml:"simulation"`
	Events     EventsConfig     `yaml:"events"`
	Evolution  EvolutionConfig  `yaml:"evolution"`
	Seed       int64            `yaml:"seed"`
}

var terrainNames = map[Terrain]string{
	Plains: "plains", Forest: "forest", Jungle: "jungle",
	Swamp: "swamp", Water: "water", Mountains: "mountains",
}

var terrainByName = func() map[string]Terrain {
	m := make(map[string]Terrain, len(terrainNames))
	for t, name := range terrainNames {
		m[name] = t
	}
	return m
}()

// ToYAML serializes the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	var out configYAML
	out.World.GridWidth = c.World.GridWidth
	out.World.GridHeight = c.World.GridHeight
	out.World.MountainBorder = c.World.MountainBorder
	out.World.FoodDensity = c.World.FoodDensity
	out.World.WaterDensity = c.World.WaterDensity
	out.World.TerrainDistribution = make(map[string]float64, len(c.World.TerrainDistribution))
	for t, w := range c.World.TerrainDistribution {
		out.World.TerrainDistribution[terrainNames[t]] = w
	}
	out.Population = c.Population
	out.Simulation = c.Simulation
	out.Events = c.Events
	out.Evolution = c.Evolution
	out.Seed = c.Seed
	return yaml.Marshal(out)
}

// ConfigFromYAML deserializes a configuration, the inverse of ToYAML.
func ConfigFromYAML(data []byte) (*Config, error) {
	var in configYAML
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c := &Config{
		Population: in.Population,
		Simulation: in.Simulation,
		Events:     in.Events,
		Evolution:  in.Evolution,
		Seed:       in.Seed,
	}
	c.World = WorldConfig{
		GridWidth:      in.World.GridWidth,
		GridHeight:     in.World.GridHeight,
		MountainBorder: in.World.MountainBorder,
		FoodDensity:    in.World.FoodDensity,
		WaterDensity:   in.World.WaterDensity,
	}
	c.World.TerrainDistribution = make(map[Terrain]float64, len(in.World.TerrainDistribution))
	for name, w := range in.World.TerrainDistribution {
		t, ok := terrainByName[name]
		if !ok {
			return nil, fmt.Errorf("unknown terrain %q in config", name)
		}
		c.World.TerrainDistribution[t] = w
	}
	return c, nil
}
