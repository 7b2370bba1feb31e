package gpi

// CallbackKind identifies a simulator callback point. The three
// lifecycle kinds bracket a simulation run; the remaining kinds are
// simulator-emitted synchronization points passed through to the
// interpreter side.
type CallbackKind int

const (
	KindStartOfSimTime CallbackKind = iota
	KindEndOfSimTime
	KindFinalize
	KindValueChange
	KindTimeStep
	KindReadWriteSync
	KindReadOnlySync
)

func (k CallbackKind) String() string {
	switch k {
	case KindStartOfSimTime:
		return "start-of-sim-time"
	case KindEndOfSimTime:
		return "end-of-sim-time"
	case KindFinalize:
		return "finalize"
	case KindValueChange:
		return "value-change"
	case KindTimeStep:
		return "time-step"
	case KindReadWriteSync:
		return "read-write-sync"
	case KindReadOnlySync:
		return "read-only-sync"
	}
	return "unknown"
}

// Event is one simulator-delivered callback occurrence. Argv is only
// populated for start-of-sim-time; Signal only for value changes.
type Event struct {
	Kind   CallbackKind
	Time   int64
	Argv   [][]byte
	Signal string
}

// CallbackFunc is a native callback trampoline.
type CallbackFunc func(Event)

// Callback is one registered (kind, trampoline, user context) triple.
type Callback struct {
	Kind CallbackKind
	Fn   CallbackFunc
	User any
}

// Registry holds registrations for the lifetime of the simulation.
// Lifecycle callbacks are one-shot or simulation-duration-scoped, so
// there is no deregistration churn.
type Registry struct {
	cbs []Callback
}

// Register records one callback.
func (r *Registry) Register(cb Callback) { r.cbs = append(r.cbs, cb) }

// Len returns the number of registered callbacks.
func (r *Registry) Len() int { return len(r.cbs) }

// ByKind returns the registered callbacks of one kind.
func (r *Registry) ByKind(kind CallbackKind) []Callback {
	var out []Callback
	for _, cb := range r.cbs {
		if cb.Kind == kind {
			out = append(out, cb)
		}
	}
	return out
}

// Simulator is the boundary to the per-simulator glue. Implementations
// deliver registered callbacks serially on a single thread.
type Simulator interface {
	// RegisterCallback asks the simulator to deliver events of the
	// given kind to fn.
	RegisterCallback(kind CallbackKind, fn CallbackFunc) error

	// EndSimulation propagates a simulation-terminating request from
	// the interpreter side back to the simulator.
	EndSimulation(reason string)
}
