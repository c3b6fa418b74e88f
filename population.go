package evosim

import "sort"

// Population is the arena of all animals in a generation — alive and
// dead — keyed by stable id. Grounded in the teacher's flat entity slice
// (population.go) but keyed by id rather than index so a dead animal can
// stay addressable (for end-of-generation evolution) without shifting
// every other animal's position.
type Population struct {
	animals map[AnimalID]*Animal
	nextID  AnimalID
}

// NewPopulation returns an empty population.
func NewPopulation() *Population {
	return &Population{animals: make(map[AnimalID]*Animal)}
}

// Add registers an animal, assigning it the next stable id if it does
// not already have a positive one.
func (p *Population) Add(a *Animal) {
	if a.ID == 0 {
		p.nextID++
		a.ID = p.nextID
	} else if a.ID > p.nextID {
		p.nextID = a.ID
	}
	p.animals[a.ID] = a
}

// Get returns the animal with the given id, if present.
func (p *Population) Get(id AnimalID) (*Animal, bool) {
	a, ok := p.animals[id]
	return a, ok
}

// Living returns every living animal, ordered by ascending id (the
// "ordered-by-agent-id" requirement of spec.md §4.3.1).
func (p *Population) Living() []*Animal {
	out := make([]*Animal, 0, len(p.animals))
	for _, a := range p.animals {
		if a.Alive {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every animal — alive and dead — ordered by ascending id.
func (p *Population) All() []*Animal {
	out := make([]*Animal, 0, len(p.animals))
	for _, a := range p.animals {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LivingCount returns the number of currently living animals.
func (p *Population) LivingCount() int {
	n := 0
	for _, a := range p.animals {
		if a.Alive {
			n++
		}
	}
	return n
}

// CategoryLookup returns a CategoryResolver bound to this population,
// resolving an occupant id to its Category for Sense.
func (p *Population) CategoryLookup() func(AnimalID) (Category, bool) {
	return func(id AnimalID) (Category, bool) {
		a, ok := p.animals[id]
		if !ok {
			return 0, false
		}
		return a.Category, true
	}
}

// Reset clears the population entirely and restarts id assignment.
func (p *Population) Reset() {
	p.animals = make(map[AnimalID]*Animal)
	p.nextID = 0
}
