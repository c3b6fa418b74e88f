package evosim

import (
	"fmt"
	"math"
	"math/rand"
)

// Terrain is the tagged variant of ground kinds a Tile can carry. Modeled
// as a small int enum with a String method, the same texture the teacher
// uses for BiomeType (world.go).
type Terrain int

const (
	Plains Terrain = iota
	Forest
	Jungle
	Swamp
	Water
	Mountains
	numTerrains
)

func (t Terrain) String() string {
	switch t {
	case Plains:
		return "plains"
	case Forest:
		return "forest"
	case Jungle:
		return "jungle"
	case Swamp:
		return "swamp"
	case Water:
		return "water"
	case Mountains:
		return "mountains"
	default:
		return "unknown"
	}
}

// ResourceKind is the tagged variant of resource kinds a Tile may host.
type ResourceKind int

const (
	Plant ResourceKind = iota
	Prey
	Carcass
	WaterSource
	numResourceKinds
)

func (k ResourceKind) String() string {
	switch k {
	case Plant:
		return "plant"
	case Prey:
		return "prey"
	case Carcass:
		return "carcass"
	case WaterSource:
		return "water"
	default:
		return "unknown"
	}
}

// Resource is a consumable hosted on a tile. uses_left reaching 0 means
// the resource must be removed from its tile in the same phase that
// decremented it (spec.md §3, Testable Property 4).
type Resource struct {
	Kind      ResourceKind
	Quantity  float64
	UsesLeft  int
}

// spent decrements UsesLeft by one use, returning whether the resource is
// now exhausted and should be removed from its tile.
func (r *Resource) spent() bool {
	r.UsesLeft--
	return r.UsesLeft <= 0
}

// OccupantID identifies the animal occupying a tile, by stable id rather
// than by pointer — grid cells and the population arena cross-reference
// each other by id only, per the design notes' guidance against cyclic
// ownership (spec.md §9).
type OccupantID = AnimalID

// Tile is a single grid cell: coordinates, terrain, an optional resource,
// an optional occupant. Mirrors the teacher's GridCell (world.go) but
// trimmed to exactly the fields spec.md §3 names.
type Tile struct {
	X, Y     int
	Terrain  Terrain
	Resource *Resource
	Occupant OccupantID
	hasOcc   bool
}

// HasOccupant reports whether the tile currently carries a live occupant.
func (t *Tile) HasOccupant() bool { return t.hasOcc }

// OccupantIDOf returns the occupant id and whether one is present.
func (t *Tile) OccupantIDOf() (OccupantID, bool) { return t.Occupant, t.hasOcc }

func (t *Tile) setOccupant(id OccupantID) { t.Occupant = id; t.hasOcc = true }
func (t *Tile) clearOccupant()            { t.hasOcc = false }

// Direction is one of the four cardinal movement directions plus the
// eight-way directions used by the sensory encoder.
type Direction int

const (
	DirCenter Direction = iota
	DirN
	DirNE
	DirE
	DirSE
	DirS
	DirSW
	DirW
	DirNW
)

// CardinalDirections lists the four directions movement actions use.
var CardinalDirections = []Direction{DirN, DirE, DirS, DirW}

// AllDirections lists the nine directions (including center) the sensory
// encoder samples, in the fixed order spec.md §4.4 requires.
var AllDirections = []Direction{DirCenter, DirN, DirNE, DirE, DirSE, DirS, DirSW, DirW, DirNW}

func (d Direction) delta() (int, int) {
	switch d {
	case DirN:
		return 0, -1
	case DirNE:
		return 1, -1
	case DirE:
		return 1, 0
	case DirSE:
		return 1, 1
	case DirS:
		return 0, 1
	case DirSW:
		return -1, 1
	case DirW:
		return -1, 0
	case DirNW:
		return -1, -1
	default:
		return 0, 0
	}
}

// Grid is a W x H arena of tiles. The World owns its tiles; tiles borrow
// the world's dimensions implicitly rather than holding a back-reference
// (spec.md §9).
type Grid struct {
	Width, Height int
	tiles         []Tile
}

// NewGrid allocates a width x height grid with every tile defaulted to
// Plains, no resource, no occupant.
func NewGrid(width, height int) *Grid {
	g := &Grid{Width: width, Height: height, tiles: make([]Tile, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.tiles[g.index(x, y)] = Tile{X: x, Y: y, Terrain: Plains}
		}
	}
	return g
}

func (g *Grid) index(x, y int) int { return y*g.Width + x }

// InBounds reports whether (x,y) lies within [0,Width) x [0,Height).
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// TileAt returns a pointer to the tile at (x,y), or ErrOutOfBounds.
func (g *Grid) TileAt(x, y int) (*Tile, error) {
	if !g.InBounds(x, y) {
		return nil, fmt.Errorf("tile_at(%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return &g.tiles[g.index(x, y)], nil
}

// mustTileAt is an internal helper for call sites that have already
// bounds-checked (or constructed) the coordinates themselves.
func (g *Grid) mustTileAt(x, y int) *Tile { return &g.tiles[g.index(x, y)] }

// Adjacent returns up to eight neighboring tiles of (x,y); border tiles
// simply omit out-of-range neighbors. When cardinalOnly is true only the
// four orthogonal neighbors are considered.
func (g *Grid) Adjacent(x, y int, cardinalOnly bool) []*Tile {
	dirs := AllDirections[1:]
	if cardinalOnly {
		dirs = CardinalDirections
	}
	out := make([]*Tile, 0, len(dirs))
	for _, d := range dirs {
		dx, dy := d.delta()
		nx, ny := x+dx, y+dy
		if g.InBounds(nx, ny) {
			out = append(out, g.mustTileAt(nx, ny))
		}
	}
	return out
}

// SampleAlongDirection walks outward from (x,y) along d up to radius
// steps and returns the farthest in-bounds tile reached, or the origin
// tile itself for DirCenter, for radius <= 0, or when the first step
// already leaves the grid. Used by the sensory encoder (§4.4): a short vision radius finds
// only nearby tiles, a long one reaches further before clipping to the
// border.
func (g *Grid) SampleAlongDirection(x, y int, d Direction, radius int) *Tile {
	if d == DirCenter || radius <= 0 {
		return g.mustTileAt(x, y)
	}
	dx, dy := d.delta()
	cx, cy := x, y
	last := g.mustTileAt(x, y)
	for step := 1; step <= radius; step++ {
		nx, ny := x+dx*step, y+dy*step
		if !g.InBounds(nx, ny) {
			break
		}
		cx, cy = nx, ny
		last = g.mustTileAt(cx, cy)
	}
	return last
}

// ApplyMountainBorder forces every border tile to Mountains, clearing any
// resource or occupant (Mountains are impassable and resourceless per
// spec.md §3's invariant).
func (g *Grid) ApplyMountainBorder() {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if x == 0 || y == 0 || x == g.Width-1 || y == g.Height-1 {
				t := g.mustTileAt(x, y)
				t.Terrain = Mountains
				t.Resource = nil
			}
		}
	}
}

// terrainContinueProb gives the BFS continue probability used by
// GenerateTerrain for each clustered terrain kind (spec.md §4.1).
func terrainContinueProb(t Terrain) float64 {
	switch t {
	case Water:
		return 0.70
	case Forest:
		return 0.60
	case Jungle:
		return 0.65
	case Swamp:
		return 0.55
	default:
		return 0
	}
}

// GenerateTerrain fills the grid's interior with clustered terrain by BFS
// growth from random seed points, per-terrain target counts drawn from
// distribution (a weight per Terrain summing to ~1), then fills the
// remainder with Plains. If mountainBorder is set, border cells are
// Mountains and excluded from both target counts and interior growth.
// Deterministic given rng. Grounded in the teacher's clustered biome
// generation (world.go's generateBiome/initializeBiomes) and cellular.go's
// neighbor-based growth, adapted from per-cell probabilistic biome choice
// to explicit BFS cluster growth per spec.md §4.1.
func (g *Grid) GenerateTerrain(distribution map[Terrain]float64, mountainBorder bool, rng *rand.Rand) {
	if mountainBorder {
		g.ApplyMountainBorder()
	}
	interior := make([][2]int, 0, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if mountainBorder && (x == 0 || y == 0 || x == g.Width-1 || y == g.Height-1) {
				continue
			}
			interior = append(interior, [2]int{x, y})
		}
	}
	total := len(interior)
	if total == 0 {
		return
	}

	clustered := []Terrain{Water, Forest, Jungle, Swamp}
	remaining := make(map[[2]int]bool, total)
	for _, c := range interior {
		remaining[c] = true
	}

	for _, terrain := range clustered {
		weight := distribution[terrain]
		target := int(math.Round(weight * float64(total)))
		if target <= 0 || len(remaining) == 0 {
			continue
		}
		placed := 0
		continueProb := terrainContinueProb(terrain)
		// Keep seeding new clusters until the target count is met or the
		// grid runs out of free interior cells.
		for placed < target && len(remaining) > 0 {
			seed := randomRemaining(remaining, rng)
			queue := [][2]int{seed}
			for len(queue) > 0 && placed < target {
				cur := queue[0]
				queue = queue[1:]
				if !remaining[cur] {
					continue
				}
				tile := g.mustTileAt(cur[0], cur[1])
				tile.Terrain = terrain
				delete(remaining, cur)
				placed++

				for _, d := range CardinalDirections {
					dx, dy := d.delta()
					n := [2]int{cur[0] + dx, cur[1] + dy}
					if remaining[n] && rng.Float64() < continueProb {
						queue = append(queue, n)
					}
				}
			}
		}
	}

	for cell := range remaining {
		g.mustTileAt(cell[0], cell[1]).Terrain = Plains
	}
}

func randomRemaining(set map[[2]int]bool, rng *rand.Rand) [2]int {
	idx := rng.Intn(len(set))
	i := 0
	for k := range set {
		if i == idx {
			return k
		}
		i++
	}
	// unreachable for idx < len(set)
	for k := range set {
		return k
	}
	return [2]int{}
}

func terrainFoodMultiplier(t Terrain) float64 {
	switch t {
	case Plains:
		return 1.0
	case Forest:
		return 1.5
	case Jungle:
		return 2.0
	case Swamp:
		return 0.8
	default:
		return 0
	}
}

const plantUnits = 20.0

// PlaceResources seeds food and water resources across the grid per
// spec.md §4.1. Best-effort: a tile that already hosts a resource is
// simply skipped (resource placement failures due to a full grid are
// silent, per §4.1's failure semantics).
func (g *Grid) PlaceResources(foodDensity, waterDensity float64, rng *rand.Rand) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			tile := g.mustTileAt(x, y)
			if tile.Terrain == Water && tile.Resource == nil {
				if rng.Float64() < waterDensity {
					tile.Resource = &Resource{Kind: WaterSource, Quantity: 0, UsesLeft: 1 + rng.Intn(3)}
				}
			}
		}
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			tile := g.mustTileAt(x, y)
			if tile.Terrain == Water || tile.Terrain == Mountains || tile.Resource != nil {
				continue
			}
			adjacentWater := false
			for _, n := range g.Adjacent(x, y, true) {
				if n.Terrain == Water {
					adjacentWater = true
					break
				}
			}
			if adjacentWater && rng.Float64() < waterDensity*0.5 {
				tile.Resource = &Resource{Kind: WaterSource, Quantity: 0, UsesLeft: 1 + rng.Intn(3)}
				continue
			}

			if tile.Terrain == Mountains {
				continue
			}
			mult := terrainFoodMultiplier(tile.Terrain)
			if mult == 0 {
				continue
			}
			if rng.Float64() >= foodDensity*mult {
				continue
			}
			tile.Resource = g.rollFoodResource(tile.Terrain, rng)
		}
	}
}

func (g *Grid) rollFoodResource(t Terrain, rng *rand.Rand) *Resource {
	if t == Swamp {
		if rng.Float64() < 0.3 {
			return &Resource{Kind: Plant, Quantity: plantUnits, UsesLeft: 1 + rng.Intn(3)}
		}
		return &Resource{Kind: Carcass, Quantity: 30 + rng.Float64()*30, UsesLeft: 1 + rng.Intn(2)}
	}
	if rng.Float64() < 0.8 {
		return &Resource{Kind: Plant, Quantity: plantUnits, UsesLeft: 1 + rng.Intn(3)}
	}
	return &Resource{Kind: Prey, Quantity: 0, UsesLeft: 1}
}

// RandomUnoccupiedTile returns a random tile that is not Mountains and has
// no occupant, preferring Plains terrain when any Plains candidate exists
// (used by the Evolution Engine to re-place respawned agents, §4.7).
func (g *Grid) RandomUnoccupiedTile(rng *rand.Rand) (*Tile, bool) {
	var plains, any []*Tile
	for i := range g.tiles {
		t := &g.tiles[i]
		if t.Terrain == Mountains || t.HasOccupant() {
			continue
		}
		any = append(any, t)
		if t.Terrain == Plains {
			plains = append(plains, t)
		}
	}
	pool := plains
	if len(pool) == 0 {
		pool = any
	}
	if len(pool) == 0 {
		return nil, false
	}
	return pool[rng.Intn(len(pool))], true
}
