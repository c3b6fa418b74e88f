package evosim

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// EvolutionEngine advances one generation's population to the next via
// selection, crossover, mutation and elitism (spec.md §4.7). Grounded in
// the teacher's reproduction.go (tournament selection, crossover pairing)
// and macro_evolution.go (generation-boundary bookkeeping, elite carry
// over), generalized from the teacher's free-form trait maps to the
// spec's fixed trait array and DecisionNetwork policy.
type EvolutionEngine struct {
	cfg EvolutionConfig
}

// NewEvolutionEngine builds an engine configured per cfg.
func NewEvolutionEngine(cfg EvolutionConfig) *EvolutionEngine {
	return &EvolutionEngine{cfg: cfg}
}

// ComputeFitnessStats summarizes a generation's fitness distribution using
// gonum/stat, mirroring the teacher's statistical_analysis.go which
// likewise leans on a numeric stats package rather than hand-rolled
// mean/variance loops.
func ComputeFitnessStats(animals []*Animal, killWeight float64) FitnessStats {
	if len(animals) == 0 {
		return FitnessStats{}
	}
	values := make([]float64, len(animals))
	for i, a := range animals {
		values[i] = a.Fitness(killWeight)
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mean := stat.Mean(values, nil)
	std := stat.StdDev(values, nil)
	return FitnessStats{
		Avg:   mean,
		Best:  sorted[len(sorted)-1],
		Worst: sorted[0],
		StdDev: std,
	}
}

// eliteCount returns max(1, population_size*ElitePercentage), capped at
// population_size; at the default ElitePercentage of 0.1 this is
// spec.md §4.7's max(1, population_size/10).
func (e *EvolutionEngine) eliteCount(populationSize int) int {
	n := int(float64(populationSize) * e.cfg.ElitePercentage)
	if n < 1 {
		n = 1
	}
	if n > populationSize {
		n = populationSize
	}
	return n
}

// selectParent chooses one parent from ranked (descending fitness)
// candidates per the configured selection method (spec.md §4.7).
func (e *EvolutionEngine) selectParent(ranked []*Animal, fitness []float64, rng *rand.Rand) *Animal {
	switch e.cfg.SelectionMethod {
	case "roulette":
		total := 0.0
		for _, f := range fitness {
			total += f
		}
		if total <= 0 {
			return ranked[rng.Intn(len(ranked))]
		}
		pick := rng.Float64() * total
		cum := 0.0
		for i, f := range fitness {
			cum += f
			if pick <= cum {
				return ranked[i]
			}
		}
		return ranked[len(ranked)-1]

	case "rank":
		// Linear rank weighting: rank 0 (best) gets weight n, rank n-1
		// gets weight 1.
		n := len(ranked)
		total := n * (n + 1) / 2
		pick := rng.Intn(total)
		cum := 0
		for i := 0; i < n; i++ {
			cum += n - i
			if pick < cum {
				return ranked[i]
			}
		}
		return ranked[n-1]

	default: // tournament
		size := e.cfg.TournamentSize
		if size < 1 {
			size = 1
		}
		best := ranked[rng.Intn(len(ranked))]
		bestFitness := fitness[indexOf(ranked, best)]
		for i := 1; i < size; i++ {
			cand := ranked[rng.Intn(len(ranked))]
			cf := fitness[indexOf(ranked, cand)]
			if cf > bestFitness {
				best, bestFitness = cand, cf
			}
		}
		return best
	}
}

func indexOf(animals []*Animal, target *Animal) int {
	for i, a := range animals {
		if a == target {
			return i
		}
	}
	return 0
}

// breedTraits produces an offspring trait array from two parents: each
// trait independently inherited from either parent with equal
// probability, then nudged by a small mutation (spec.md §4.5, §4.7).
func breedTraits(p1, p2 *Animal, mutationRate, mutationStrength float64, rng *rand.Rand) [numTraits]int {
	var traits [numTraits]int
	for i := 0; i < numTraits; i++ {
		if rng.Float64() < 0.5 {
			traits[i] = p1.Traits[i]
		} else {
			traits[i] = p2.Traits[i]
		}
		if rng.Float64() < mutationRate {
			delta := int(rng.NormFloat64() * mutationStrength * TraitMax)
			traits[i] = clampI(traits[i]+delta, 1, TraitMax)
		}
	}
	return traits
}

// NextGeneration builds generation+1's population from the prior
// generation's animals (living and dead alike contribute fitness
// history), applying elitism, selection, crossover and mutation, then
// reseeds the world and places every new animal (spec.md §4.7).
func (e *EvolutionEngine) NextGeneration(generation int, prior *Population, world *World, cfg *Config, rng *rand.Rand) (*Population, GenerationReport) {
	all := prior.All()
	aliveCount := 0
	for _, a := range all {
		if a.Alive {
			aliveCount++
		}
	}

	ranked := append([]*Animal(nil), all...)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Fitness(e.cfg.KillFitnessWeight) > ranked[j].Fitness(e.cfg.KillFitnessWeight)
	})
	fitness := make([]float64, len(ranked))
	for i, a := range ranked {
		fitness[i] = a.Fitness(e.cfg.KillFitnessWeight)
	}

	target := cfg.Population.PopulationSize
	next := NewPopulation()
	selection := SelectionStats{Method: e.cfg.SelectionMethod}

	if len(ranked) == 0 {
		world.Reseed(cfg.World, rng)
		return next, GenerationReport{Generation: generation, AliveCount: 0, DeadCount: 0, Selection: selection}
	}

	elite := e.eliteCount(target)
	if elite > len(ranked) {
		elite = len(ranked)
	}
	for i := 0; i < elite; i++ {
		child := ranked[i].Clone(0)
		next.Add(child)
		selection.EliteCount++
	}

	for next.LivingCount() < target {
		p1 := e.selectParent(ranked, fitness, rng)
		p2 := e.selectParent(ranked, fitness, rng)
		selection.ParentsChosen += 2

		var policy *DecisionNetwork
		if rng.Float64() < e.cfg.CrossoverRate && p1.Policy != nil && p2.Policy != nil {
			policy = p1.Policy.Crossover(p2.Policy, 0.5, rng)
			selection.CrossoverCount++
		} else if p1.Policy != nil {
			policy = p1.Policy.Clone()
		}
		if policy != nil {
			policy.Mutate(e.cfg.MutationRate, e.cfg.MutationStrength, rng)
			selection.MutationCount++
		}

		traits := breedTraits(p1, p2, e.cfg.MutationRate, e.cfg.MutationStrength, rng)
		child := NewAnimal(0, p1.Category, traits, 0, 0)
		child.Policy = policy
		next.Add(child)
	}

	world.Reseed(cfg.World, rng)
	for _, a := range next.All() {
		world.PlaceAnimal(a, rng)
	}

	stats := ComputeFitnessStats(ranked, e.cfg.KillFitnessWeight)
	survival := 0.0
	if len(all) > 0 {
		survival = float64(aliveCount) / float64(len(all))
	}
	report := GenerationReport{
		Generation:     generation,
		AliveCount:     aliveCount,
		DeadCount:      len(all) - aliveCount,
		SurvivalRate:   survival,
		Fitness:        stats,
		Selection:      selection,
		OffspringBuilt: next.LivingCount(),
	}
	return next, report
}
