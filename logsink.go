package evosim

// EventSink is the engine's logging collaborator: callers supply one and
// the engine emits structured events to it instead of writing to stdout
// itself (spec.md §1 Non-goals: "Logging sink; the engine emits
// structured events to a supplied sink"). Grounded in the teacher's
// CentralEventBus (event_bus.go) — a typed event struct fanned out to a
// slice of listener funcs — generalized from the teacher's ecology-event
// payload to the engine's own WeekReport/GenerationReport/fault notices.
type EventSink interface {
	WeekCompleted(report WeekReport)
	GenerationCompleted(report GenerationReport)
	Fault(context string, err error)
}

// sinkFuncs adapts three plain functions to the EventSink interface,
// mirroring the teacher's EventBusListener function-value idiom
// (event_bus.go) rather than requiring every caller to write a struct.
type sinkFuncs struct {
	onWeek       func(WeekReport)
	onGeneration func(GenerationReport)
	onFault      func(string, error)
}

func (s sinkFuncs) WeekCompleted(r WeekReport)             { if s.onWeek != nil { s.onWeek(r) } }
func (s sinkFuncs) GenerationCompleted(r GenerationReport)  { if s.onGeneration != nil { s.onGeneration(r) } }
func (s sinkFuncs) Fault(ctx string, err error)             { if s.onFault != nil { s.onFault(ctx, err) } }

// NewFuncSink builds an EventSink from individual callback functions; any
// of them may be nil.
func NewFuncSink(onWeek func(WeekReport), onGeneration func(GenerationReport), onFault func(string, error)) EventSink {
	return sinkFuncs{onWeek: onWeek, onGeneration: onGeneration, onFault: onFault}
}

// NopSink discards every event; the zero value is ready to use.
type NopSink struct{}

func (NopSink) WeekCompleted(WeekReport)             {}
func (NopSink) GenerationCompleted(GenerationReport) {}
func (NopSink) Fault(string, error)                  {}
