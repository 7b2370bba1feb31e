package hostsim

import (
	"container/heap"

	"github.com/sirupsen/logrus"

	"github.com/cocotb/cocotb-sub007/gpi"
)

// EventQueue implements heap.Interface and orders events by timestamp.
type EventQueue []Event

func (eq EventQueue) Len() int           { return len(eq) }
func (eq EventQueue) Less(i, j int) bool { return eq[i].Timestamp() < eq[j].Timestamp() }
func (eq EventQueue) Swap(i, j int)      { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(Event))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator drives registered GPI callbacks in timestamp order.
type Simulator struct {
	clock     int64
	horizon   int64
	argv      [][]byte
	queue     EventQueue
	callbacks map[gpi.CallbackKind][]gpi.CallbackFunc
	ended     bool
	endReason string
}

// New returns a simulator that will run until horizon ticks. argv is
// the argument vector handed to the start-of-sim-time callbacks, the
// way a real simulator forwards its invocation arguments.
func New(horizon int64, argv ...string) *Simulator {
	av := make([][]byte, len(argv))
	for i, a := range argv {
		av[i] = []byte(a)
	}
	return &Simulator{
		horizon:   horizon,
		argv:      av,
		queue:     make(EventQueue, 0),
		callbacks: make(map[gpi.CallbackKind][]gpi.CallbackFunc),
	}
}

// RegisterCallback implements gpi.Simulator.
func (s *Simulator) RegisterCallback(kind gpi.CallbackKind, fn gpi.CallbackFunc) error {
	s.callbacks[kind] = append(s.callbacks[kind], fn)
	return nil
}

// EndSimulation implements gpi.Simulator: pending events are abandoned
// and the run proceeds straight to end of simulation time.
func (s *Simulator) EndSimulation(reason string) {
	if s.ended {
		return
	}
	s.ended = true
	s.endReason = reason
	logrus.Infof("[tick %07d] simulation end requested: %s", s.clock, reason)
}

// Clock returns the current simulation time in ticks.
func (s *Simulator) Clock() int64 { return s.clock }

// Schedule pushes an event into the queue.
func (s *Simulator) Schedule(ev Event) {
	heap.Push(&s.queue, ev)
}

// ScheduleTimer schedules a time-step callback delay ticks from now.
func (s *Simulator) ScheduleTimer(delay int64) {
	s.Schedule(&timerEvent{time: s.clock + delay})
}

// ScheduleValueChange schedules a value-change callback for signal at
// the given tick.
func (s *Simulator) ScheduleValueChange(signal string, at int64) {
	s.Schedule(&valueChangeEvent{time: at, signal: signal})
}

// ScheduleReadWriteSync schedules a read-write synchronization point at
// the given tick.
func (s *Simulator) ScheduleReadWriteSync(at int64) {
	s.Schedule(&syncEvent{time: at, kind: gpi.KindReadWriteSync})
}

func (s *Simulator) deliver(ev gpi.Event) {
	for _, fn := range s.callbacks[ev.Kind] {
		fn(ev)
	}
}

// Run executes one simulation: start-of-sim-time at tick zero, queued
// events in timestamp order until the horizon or an end request, then
// end-of-sim-time and finalize. Delivery is serialized on the calling
// goroutine.
func (s *Simulator) Run() {
	logrus.Infof("[tick %07d] simulation starting", s.clock)
	s.deliver(gpi.Event{Kind: gpi.KindStartOfSimTime, Time: s.clock, Argv: s.argv})

	for len(s.queue) > 0 && !s.ended {
		ev := heap.Pop(&s.queue).(Event)
		if ev.Timestamp() > s.horizon {
			break
		}
		s.clock = ev.Timestamp()
		logrus.Debugf("[tick %07d] executing %T", s.clock, ev)
		ev.Execute(s)
	}

	s.deliver(gpi.Event{Kind: gpi.KindEndOfSimTime, Time: s.clock})
	s.deliver(gpi.Event{Kind: gpi.KindFinalize, Time: s.clock})
	logrus.Infof("[tick %07d] simulation ended", s.clock)
}
