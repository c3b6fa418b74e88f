package evosim

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// EventClass is the tagged variant of scheduling class an event belongs
// to; all three run, in this fixed order, at the end of every week
// (spec.md §4.6).
type EventClass int

const (
	ClassTriggered EventClass = iota
	ClassRandom
	ClassDisaster
)

func (c EventClass) String() string {
	switch c {
	case ClassTriggered:
		return "triggered"
	case ClassRandom:
		return "random"
	case ClassDisaster:
		return "disaster"
	default:
		return "unknown"
	}
}

// Severity scales a disaster's damage (spec.md §4.6).
type Severity float64

const (
	SeverityMinor        Severity = 0.5
	SeverityModerate     Severity = 1.0
	SeverityMajor        Severity = 1.5
	SeverityCatastrophic Severity = 2.0
)

// TerrainChange records an AoE-driven terrain edit for the WeekReport
// observation surface (spec.md §6).
type TerrainChange struct {
	X, Y           int
	Before, After  Terrain
}

// EventResult is the structured outcome of one event's execution,
// recovered locally and never panicking (spec.md §4.6, §7).
type EventResult struct {
	ID               uuid.UUID
	Kind             string
	Class            EventClass
	Success           bool
	FaultReason      string
	AffectedAgents   []AnimalID
	Casualties       []Casualty
	EffectsApplied   []string
	ResourcesChanged []ResourceDelta
	TerrainModified  []TerrainChange
}

// eventKindNames maps the engine's internal snake_case event
// identifiers (used as config/cooldown/max-occurrence map keys) to the
// canonical capitalized kind names spec.md §4.6's catalog tables use
// for reporting (confirmed against original_source/evosim-game's event
// catalog, whose event_id stays snake_case internally while its
// display name is the capitalized form used here). A name absent from
// this map is reported unchanged.
var eventKindNames = map[string]string{
	"overpopulation":     "Overpopulation",
	"near_extinction":    "NearExtinction",
	"resource_scarcity":  "ResourceScarcity",
	"disease":            "Disease",
	"resource_discovery": "ResourceDiscovery",
	"healing_springs":    "HealingSprings",
	"abundant_harvest":   "AbundantHarvest",
	"migration":          "Migration",
	"weather_change":     "WeatherChange",
	"pest_infestation":   "PestInfestation",
	"territorial_dispute": "TerritorialDispute",
	"earthquake":         "Earthquake",
	"wildfire":           "Wildfire",
	"flood":              "Flood",
	"drought":            "Drought",
	"toxic_spill":        "ToxicSpill",
	"plague":             "Plague",
	"predator_invasion":  "PredatorInvasion",
}

// canonicalEventKind reports the display kind for an internal event
// identifier (spec.md §4.6, §8 scenario S4's `events[0].kind ==
// "Earthquake"`).
func canonicalEventKind(name string) string {
	if k, ok := eventKindNames[name]; ok {
		return k
	}
	return name
}

// eventRecord tracks an event's cooldown/cap bookkeeping across weeks.
type eventRecord struct {
	lastOccurrenceWeek int
	occurrenceCount    int
}

// EventEngine schedules and executes triggered, random, and disaster
// events (spec.md §4.6). Grounded in the teacher's per-tick event roll
// (World.updateEvents / triggerRandomEvent, world.go) and its geological
// event generators (generateSeismicChanges et al.), generalized into the
// spec's three independently-scheduled classes with explicit
// cooldown/cap/probability-modifier bookkeeping instead of the teacher's
// single flat random-roll list.
type EventEngine struct {
	cfg     EventsConfig
	records map[string]*eventRecord
}

// NewEventEngine builds an engine configured per cfg.
func NewEventEngine(cfg EventsConfig) *EventEngine {
	return &EventEngine{cfg: cfg, records: make(map[string]*eventRecord)}
}

func (e *EventEngine) recordFor(name string) *eventRecord {
	r, ok := e.records[name]
	if !ok {
		r = &eventRecord{lastOccurrenceWeek: math.MinInt32 / 2}
		e.records[name] = r
	}
	return r
}

func (e *EventEngine) eligible(class EventClass, name string, week int) bool {
	var cooldowns map[string]int
	var maxOcc map[string]int
	switch class {
	case ClassTriggered:
		cooldowns, maxOcc = e.cfg.Triggered.Cooldowns, e.cfg.Triggered.MaxOccurrences
	case ClassRandom:
		cooldowns, maxOcc = e.cfg.Random.Cooldowns, e.cfg.Random.MaxOccurrences
	case ClassDisaster:
		cooldowns, maxOcc = e.cfg.Disaster.Cooldowns, e.cfg.Disaster.MaxOccurrences
	}
	rec := e.recordFor(name)
	if cd, ok := cooldowns[name]; ok && week-rec.lastOccurrenceWeek < cd {
		return false
	}
	if maxN, ok := maxOcc[name]; ok && maxN > 0 && rec.occurrenceCount >= maxN {
		return false
	}
	return true
}

func (e *EventEngine) record(name string, week int) {
	rec := e.recordFor(name)
	rec.lastOccurrenceWeek = week
	rec.occurrenceCount++
}

// disasterProbabilityModifier returns the probability multiplier from
// spec.md §4.6: population-size bands compose with week-number bands.
func disasterProbabilityModifier(living, week int) float64 {
	mod := 1.0
	switch {
	case living <= 3:
		mod *= 0.3
	case living > 15:
		mod *= 1.5
	}
	switch {
	case week > 10:
		mod *= 1.2
	case week > 5:
		mod *= 1.1
	}
	return mod
}

// RunWeek executes the end-of-week event pass in class order
// {Triggered, Random, Disaster}, honoring per-class caps, and returns
// every EventResult produced (successes and faults alike).
func (e *EventEngine) RunWeek(world *World, pop *Population, week int, rng *rand.Rand) []EventResult {
	var results []EventResult

	if e.cfg.Triggered.Enabled {
		results = append(results, e.runTriggered(world, pop, week, rng)...)
	}
	if e.cfg.Random.Enabled {
		results = append(results, e.runRandom(world, pop, week, rng)...)
	}
	if e.cfg.Disaster.Enabled {
		results = append(results, e.runDisaster(world, pop, week, rng)...)
	}
	return results
}

func safeResult(class EventClass, name string, f func() EventResult) (result EventResult) {
	defer func() {
		if r := recover(); r != nil {
			result = EventResult{ID: uuid.New(), Kind: canonicalEventKind(name), Class: class, Success: false, FaultReason: "panic recovered"}
		}
	}()
	return f()
}
