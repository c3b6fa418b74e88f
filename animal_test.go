package evosim

import (
	"math/rand"
	"testing"
)

func TestNewAnimalVitalsAtCap(t *testing.T) {
	traits := [numTraits]int{50, 50, 50, 50, 50}
	a := NewAnimal(1, Herbivore, traits, 2, 3)
	if a.Health != a.MaxHealth() || a.Energy != a.MaxEnergy() {
		t.Fatalf("expected vitals initialized at cap")
	}
	if a.Hunger != 100 || a.Thirst != 100 {
		t.Fatalf("expected hunger/thirst initialized at 100")
	}
	if !a.Alive {
		t.Fatalf("expected a new animal to be alive")
	}
}

func TestTraitsClampedOnConstruction(t *testing.T) {
	traits := [numTraits]int{-5, 200, 50, 50, 50}
	a := NewAnimal(1, Herbivore, traits, 0, 0)
	if a.Traits[TraitSTR] != 1 {
		t.Fatalf("expected STR clamped to 1, got %d", a.Traits[TraitSTR])
	}
	if a.Traits[TraitAGI] != TraitMax {
		t.Fatalf("expected AGI clamped to %d, got %d", TraitMax, a.Traits[TraitAGI])
	}
}

func TestTakeDamageAndHealClamp(t *testing.T) {
	a := NewAnimal(1, Herbivore, [numTraits]int{50, 50, 50, 50, 50}, 0, 0)
	a.TakeDamage(a.MaxHealth() + 50)
	if a.Health != 0 {
		t.Fatalf("expected health clamped to 0, got %f", a.Health)
	}
	a.Heal(9999)
	if a.Health != a.MaxHealth() {
		t.Fatalf("expected health clamped to cap, got %f", a.Health)
	}
}

func TestDeathCausesPlural(t *testing.T) {
	a := NewAnimal(1, Herbivore, [numTraits]int{50, 50, 50, 50, 50}, 0, 0)
	a.Health = 0
	a.Hunger = 0
	a.Thirst = 0
	a.starveWeeks = 3
	causes := a.deathCauses()
	has := func(c DeathCause) bool {
		for _, got := range causes {
			if got == c {
				return true
			}
		}
		return false
	}
	if !has(CauseHealth) || !has(CauseStarvation) || !has(CauseDehydration) {
		t.Fatalf("expected all three simultaneous causes, got %v", causes)
	}
}

func TestUpdateSustainedCountersResets(t *testing.T) {
	a := NewAnimal(1, Herbivore, [numTraits]int{50, 50, 50, 50, 50}, 0, 0)
	a.Hunger, a.Thirst = 0, 0
	a.updateSustainedCounters()
	a.updateSustainedCounters()
	if a.starveWeeks != 2 {
		t.Fatalf("expected starveWeeks to accumulate, got %d", a.starveWeeks)
	}
	a.Hunger = 50
	a.updateSustainedCounters()
	if a.starveWeeks != 0 {
		t.Fatalf("expected starveWeeks to reset once hunger recovers, got %d", a.starveWeeks)
	}
}

func TestFitnessNonNegativeAndMovementCap(t *testing.T) {
	a := NewAnimal(1, Herbivore, [numTraits]int{50, 50, 50, 50, 50}, 0, 0)
	a.MovementCount = 1000
	a.TimeAlive = 5
	a.Kills = 2
	f := a.Fitness(5)
	if f <= 0 {
		t.Fatalf("expected positive fitness, got %f", f)
	}
	// movement term capped at 10 regardless of how large MovementCount is.
	a.MovementCount = 500
	capped := a.Fitness(5)
	a.MovementCount = 5000
	alsoCapped := a.Fitness(5)
	if capped != alsoCapped {
		t.Fatalf("expected movement fitness term capped at 10, got %f vs %f", capped, alsoCapped)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := NewAnimal(1, Carnivore, [numTraits]int{80, 40, 20, 60, 30}, 0, 0)
	a.Policy = NewDecisionNetworkForTest()
	clone := a.Clone(2)
	if clone.ID == a.ID {
		t.Fatalf("expected clone to carry a distinct id")
	}
	if clone.Traits != a.Traits {
		t.Fatalf("expected traits copied")
	}
	clone.Traits[0] = 1
	if a.Traits[0] == 1 {
		t.Fatalf("expected clone's traits to be independent of the original")
	}
	if clone.Policy == a.Policy {
		t.Fatalf("expected clone's policy to be a distinct network instance")
	}
}

// NewDecisionNetworkForTest builds a tiny deterministic network for tests
// in this package that only need a non-nil Policy.
func NewDecisionNetworkForTest() *DecisionNetwork {
	return NewDecisionNetwork(InputLen, 4, int(NumActions), rand.New(rand.NewSource(7)))
}
