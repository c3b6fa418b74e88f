package evosim

import "testing"

// TestSenseBoundsAndLength covers Testable Property 10.
func TestSenseBoundsAndLength(t *testing.T) {
	g := NewGrid(5, 5)
	g.mustTileAt(2, 2).Resource = &Resource{Kind: Plant, UsesLeft: 3}
	a := NewAnimal(1, Omnivore, [numTraits]int{50, 50, 50, 50, 50}, 2, 2)

	out := Sense(a, g, nil)
	if len(out) != InputLen {
		t.Fatalf("expected sense() length %d, got %d", InputLen, len(out))
	}
	for i, v := range out {
		if v < 0 || v > 1 {
			t.Errorf("sense()[%d] = %f out of [0,1]", i, v)
		}
	}
}

func TestSenseOccupantFeatureDistinguishesCategory(t *testing.T) {
	g := NewGrid(3, 3)
	self := NewAnimal(1, Herbivore, [numTraits]int{50, 50, 50, 50, 50}, 1, 1)
	other := NewAnimal(2, Carnivore, [numTraits]int{50, 50, 50, 50, 50}, 1, 0)
	g.mustTileAt(1, 1).setOccupant(self.ID)
	g.mustTileAt(1, 0).setOccupant(other.ID)

	lookup := CategoryResolver(func(id AnimalID) (Category, bool) {
		switch id {
		case self.ID:
			return self.Category, true
		case other.ID:
			return other.Category, true
		default:
			return 0, false
		}
	})

	tile := g.mustTileAt(1, 0)
	features := sampleFeatures(self, tile, lookup)
	if features[3] != 1.0 {
		t.Fatalf("expected occupant feature 1.0 for a different-category occupant, got %f", features[3])
	}
}
