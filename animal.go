package evosim

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Category determines edibility rules and sensory vision radius
// (spec.md §3, §4.1, GLOSSARY).
type Category int

const (
	Herbivore Category = iota
	Carnivore
	Omnivore
)

func (c Category) String() string {
	switch c {
	case Herbivore:
		return "herbivore"
	case Carnivore:
		return "carnivore"
	case Omnivore:
		return "omnivore"
	default:
		return "unknown"
	}
}

// VisionRadius returns how far the sensory encoder walks outward along
// each sampled direction for this category (GLOSSARY: Vision radius).
func (c Category) VisionRadius() int {
	switch c {
	case Herbivore:
		return 1
	case Omnivore:
		return 2
	case Carnivore:
		return 3
	default:
		return 1
	}
}

// TraitMax bounds every integer trait (spec.md §3).
const TraitMax = 100

// Trait constants index an Animal's Traits array; kept as named indices
// rather than a map so trait access stays allocation-free on the hot
// decide/sense path, unlike the teacher's map[string]Trait (entity.go).
const (
	TraitSTR = iota
	TraitAGI
	TraitINT
	TraitEND
	TraitPER
	numTraits
)

const (
	baseHealth    = 100.0
	baseEnergy    = 100.0
	healthPerEND  = 2.0
	energyPerEND  = 1.5
)

// EffectKind is the tagged variant of an active effect's name.
type EffectKind int

const (
	WellFed EffectKind = iota
	Exhausted
	Poisoned
	Injured
)

func (k EffectKind) String() string {
	switch k {
	case WellFed:
		return "well_fed"
	case Exhausted:
		return "exhausted"
	case Poisoned:
		return "poisoned"
	case Injured:
		return "injured"
	default:
		return "unknown"
	}
}

// ActiveEffect is a named, time-bounded modifier on an animal. Duration is
// decremented exactly once per CleanupEngine pass (spec.md §3).
type ActiveEffect struct {
	Kind              EffectKind
	RemainingDuration int
}

// AnimalID is the stable, ascending, ordering-capable identity the Grid
// and ActionResolver use for deterministic tie-breaks (spec.md §4.3.3:
// "ties broken by ... lower agent id"). A separate UUID field (below)
// carries the animal's portable identity across serialization.
type AnimalID int

// DeathCause records why an animal's is_alive transitioned to false.
type DeathCause string

const (
	CauseHealth       DeathCause = "health"
	CauseStarvation   DeathCause = "starvation"
	CauseDehydration  DeathCause = "dehydration"
	CauseExhaustion   DeathCause = "exhaustion"
	CauseKilled       DeathCause = "killed"
)

// Animal is the engine's agent: vitals, traits, effects, fitness
// accounting and a decision network. Grounded in the teacher's Entity
// (entity.go) — same overall shape (id, traits, position, energy, alive
// flag, fitness, Clone/Mutate/String) — generalized from a free-form
// map[string]Trait and a single scalar fitness to spec.md §3's fixed
// trait set, vitals, and fitness accumulators.
type Animal struct {
	ID       AnimalID
	UUID     uuid.UUID
	Category Category

	Traits [numTraits]int // STR, AGI, INT, END, PER, each in [1, TraitMax]

	Health, Hunger, Thirst, Energy float64
	Instinct                       float64

	X, Y int

	Effects []ActiveEffect

	Policy *DecisionNetwork

	// Fitness accumulators (spec.md §3, §4.7)
	TimeAlive             int
	DistanceTraveled      int
	ResourceUnitsConsumed float64
	Kills                 int
	MovementCount         int

	Alive bool

	// Consecutive-week counters for sustained death conditions
	// (spec.md §4.2); reset when the condition lifts.
	starveWeeks int
	exhaustWeeks int
}

// MaxHealth returns the derived health cap (spec.md §3).
func (a *Animal) MaxHealth() float64 { return baseHealth + float64(a.Traits[TraitEND])*healthPerEND }

// MaxEnergy returns the derived energy cap (spec.md §3).
func (a *Animal) MaxEnergy() float64 { return baseEnergy + float64(a.Traits[TraitEND])*energyPerEND }

// NewAnimal constructs a living animal at (x,y) with the given traits,
// all vitals at their caps.
func NewAnimal(id AnimalID, category Category, traits [numTraits]int, x, y int) *Animal {
	a := &Animal{
		ID:       id,
		UUID:     uuid.New(),
		Category: category,
		Traits:   traits,
		X:        x,
		Y:        y,
		Alive:    true,
	}
	for i := range a.Traits {
		a.Traits[i] = clampI(a.Traits[i], 1, TraitMax)
	}
	a.Health = a.MaxHealth()
	a.Energy = a.MaxEnergy()
	a.Hunger = 100
	a.Thirst = 100
	return a
}

// HasEffect reports whether the named effect is currently active.
func (a *Animal) HasEffect(k EffectKind) bool {
	for _, e := range a.Effects {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// AddEffect appends a new active effect; callers are expected to have
// checked HasEffect first where the spec forbids duplicates (§4.3.4).
func (a *Animal) AddEffect(k EffectKind, duration int) {
	a.Effects = append(a.Effects, ActiveEffect{Kind: k, RemainingDuration: duration})
}

// TakeDamage reduces Health by n, clamped to [0, cap].
func (a *Animal) TakeDamage(n float64) { a.Health = clampF(a.Health-n, 0, a.MaxHealth()) }

// Heal increases Health by n, clamped to [0, cap].
func (a *Animal) Heal(n float64) { a.Health = clampF(a.Health+n, 0, a.MaxHealth()) }

// GainEnergy increases Energy by n, clamped to [0, cap].
func (a *Animal) GainEnergy(n float64) { a.Energy = clampF(a.Energy+n, 0, a.MaxEnergy()) }

// SpendEnergy reduces Energy by n, clamped to [0, cap].
func (a *Animal) SpendEnergy(n float64) { a.Energy = clampF(a.Energy-n, 0, a.MaxEnergy()) }

// deathCauses evaluates every death condition in spec.md §4.2 against
// the animal's current vitals and sustained-condition counters, returning
// every cause currently satisfied (a sustained starvation+dehydration can
// coincide with a lethal hit in the same week, per §4.3.2's plural
// "cause(s)"). Counters must already have been updated by the caller
// (StatusEngine) before this is consulted.
func (a *Animal) deathCauses() []DeathCause {
	var causes []DeathCause
	if a.Health <= 0 {
		causes = append(causes, CauseHealth)
	}
	if a.starveWeeks >= 3 {
		if a.Hunger == 0 {
			causes = append(causes, CauseStarvation)
		}
		if a.Thirst == 0 {
			causes = append(causes, CauseDehydration)
		}
	}
	if a.exhaustWeeks >= 5 {
		causes = append(causes, CauseExhaustion)
	}
	return causes
}

// updateSustainedCounters advances or resets the consecutive-week
// counters behind the starvation/dehydration/exhaustion death conditions.
// Spec.md §4.2: "Counters reset when the condition lifts."
func (a *Animal) updateSustainedCounters() {
	if a.Hunger == 0 && a.Thirst == 0 {
		a.starveWeeks++
	} else {
		a.starveWeeks = 0
	}
	if a.Energy == 0 {
		a.exhaustWeeks++
	} else {
		a.exhaustWeeks = 0
	}
}

// Fitness computes the non-negative fitness accumulator per spec.md §4.7:
//
//	time_alive*10 + (Hunger+Thirst)/200 + Energy/100 +
//	min(movement_count*0.1, 10) + 2*resource_units_consumed + K*kills
func (a *Animal) Fitness(killWeight float64) float64 {
	movementTerm := math.Min(float64(a.MovementCount)*0.1, 10)
	return float64(a.TimeAlive)*10 +
		(a.Hunger+a.Thirst)/200 +
		a.Energy/100 +
		movementTerm +
		2*a.ResourceUnitsConsumed +
		killWeight*float64(a.Kills)
}

// Clone produces a structurally independent copy sharing no mutable
// state with the origin — traits and a cloned policy, with vitals reset to
// their caps, position at (0,0), no effects, and fresh lifecycle/fitness
// state, matching the teacher's Clone (entity.go) which
// likewise resets transient state on copy.
func (a *Animal) Clone(newID AnimalID) *Animal {
	clone := &Animal{
		ID:       newID,
		UUID:     uuid.New(),
		Category: a.Category,
		Traits:   a.Traits,
		Alive:    true,
	}
	if a.Policy != nil {
		clone.Policy = a.Policy.Clone()
	}
	clone.Health = clone.MaxHealth()
	clone.Energy = clone.MaxEnergy()
	clone.Hunger = 100
	clone.Thirst = 100
	return clone
}

// String renders a human-readable summary, matching the teacher's
// Entity.String (entity.go).
func (a *Animal) String() string {
	return fmt.Sprintf("Animal{ID:%d Category:%s Health:%.1f Energy:%.1f Pos:(%d,%d) Alive:%t}",
		a.ID, a.Category, a.Health, a.Energy, a.X, a.Y, a.Alive)
}
