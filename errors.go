package evosim

import "errors"

// Sentinel error kinds per the engine's error handling design. Action-level
// failures (InsufficientResource, ConflictLost) are recorded on the action
// result instead of being returned; only control-verb misuse and internal
// invariant breaks are meant to surface to a caller.
var (
	// ErrInvalidState is returned when a control verb is called from a
	// lifecycle state that does not permit it.
	ErrInvalidState = errors.New("evosim: invalid state transition")

	// ErrOutOfBounds is returned by grid lookups outside [0,W)x[0,H).
	ErrOutOfBounds = errors.New("evosim: coordinates out of bounds")

	// ErrInvariantViolated marks an internal invariant break. It should
	// never be observed from a correct engine; treat it as fatal.
	ErrInvariantViolated = errors.New("evosim: internal invariant violated")

	// ErrInsufficientResource marks an action precondition failure
	// (energy, missing food/water, absent occupant). Recorded on the
	// action result, never returned from run_week.
	ErrInsufficientResource = errors.New("evosim: insufficient resource")

	// ErrConflictLost marks a movement-conflict loser. Recorded on the
	// action result, never returned from run_week.
	ErrConflictLost = errors.New("evosim: movement conflict lost")

	// ErrEventFault marks an event whose execution failed. The event
	// scheduler recovers these itself and records a failed EventResult.
	ErrEventFault = errors.New("evosim: event execution fault")
)
