package hostsim

import "github.com/cocotb/cocotb-sub007/gpi"

// Event is one scheduled occurrence in the reference simulator. Each
// event has a timestamp in ticks and advances the simulation when
// executed.
type Event interface {
	Timestamp() int64
	Execute(*Simulator)
}

// timerEvent fires the time-step callbacks at its scheduled tick.
type timerEvent struct {
	time int64
}

func (e *timerEvent) Timestamp() int64 { return e.time }

func (e *timerEvent) Execute(sim *Simulator) {
	sim.deliver(gpi.Event{Kind: gpi.KindTimeStep, Time: e.time})
}

// valueChangeEvent fires the value-change callbacks for one signal.
type valueChangeEvent struct {
	time   int64
	signal string
}

func (e *valueChangeEvent) Timestamp() int64 { return e.time }

func (e *valueChangeEvent) Execute(sim *Simulator) {
	sim.deliver(gpi.Event{Kind: gpi.KindValueChange, Time: e.time, Signal: e.signal})
}

// syncEvent fires a read-write or read-only synchronization point.
type syncEvent struct {
	time int64
	kind gpi.CallbackKind
}

func (e *syncEvent) Timestamp() int64 { return e.time }

func (e *syncEvent) Execute(sim *Simulator) {
	sim.deliver(gpi.Event{Kind: e.kind, Time: e.time})
}
