package hostsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocotb/cocotb-sub007/gpi"
)

type delivered struct {
	kind gpi.CallbackKind
	time int64
	sig  string
}

func record(log *[]delivered) gpi.CallbackFunc {
	return func(ev gpi.Event) {
		*log = append(*log, delivered{kind: ev.Kind, time: ev.Time, sig: ev.Signal})
	}
}

func registerAll(t *testing.T, s *Simulator, log *[]delivered) {
	t.Helper()
	for _, kind := range []gpi.CallbackKind{
		gpi.KindStartOfSimTime, gpi.KindEndOfSimTime, gpi.KindFinalize,
		gpi.KindValueChange, gpi.KindTimeStep, gpi.KindReadWriteSync,
	} {
		require.NoError(t, s.RegisterCallback(kind, record(log)))
	}
}

func TestRun_DeliversInTimestampOrder(t *testing.T) {
	s := New(100, "sim", "+plusarg")
	var log []delivered
	registerAll(t, s, &log)

	s.ScheduleTimer(10)
	s.ScheduleValueChange("clk", 5)
	s.ScheduleReadWriteSync(10)

	s.Run()

	require.Len(t, log, 6)
	assert.Equal(t, gpi.KindStartOfSimTime, log[0].kind)
	assert.Equal(t, gpi.KindValueChange, log[1].kind)
	assert.Equal(t, "clk", log[1].sig)
	assert.Equal(t, gpi.KindTimeStep, log[2].kind)
	assert.Equal(t, gpi.KindReadWriteSync, log[3].kind)
	assert.Equal(t, gpi.KindEndOfSimTime, log[4].kind)
	assert.Equal(t, gpi.KindFinalize, log[5].kind)

	for i := 1; i < len(log); i++ {
		assert.GreaterOrEqual(t, log[i].time, log[i-1].time, "time never runs backwards")
	}
}

func TestRun_StartCarriesArgv(t *testing.T) {
	s := New(10, "sim", "+define+X")
	var argv [][]byte
	require.NoError(t, s.RegisterCallback(gpi.KindStartOfSimTime, func(ev gpi.Event) {
		argv = ev.Argv
	}))

	s.Run()

	require.Len(t, argv, 2)
	assert.Equal(t, "sim", string(argv[0]))
	assert.Equal(t, "+define+X", string(argv[1]))
}

func TestRun_HorizonCutsOffLateEvents(t *testing.T) {
	s := New(50)
	var log []delivered
	registerAll(t, s, &log)

	s.ScheduleTimer(40)
	s.ScheduleTimer(60) // beyond the horizon

	s.Run()

	var steps int
	for _, d := range log {
		if d.kind == gpi.KindTimeStep {
			steps++
		}
	}
	assert.Equal(t, 1, steps)
	assert.Equal(t, int64(40), s.Clock())
}

func TestEndSimulation_AbandonsPendingEvents(t *testing.T) {
	s := New(1000)
	var log []delivered
	registerAll(t, s, &log)

	require.NoError(t, s.RegisterCallback(gpi.KindTimeStep, func(gpi.Event) {
		s.EndSimulation("test requested stop")
	}))
	s.ScheduleTimer(10)
	s.ScheduleTimer(20)

	s.Run()

	var steps int
	for _, d := range log {
		if d.kind == gpi.KindTimeStep {
			steps++
		}
	}
	assert.Equal(t, 1, steps, "events after the end request are abandoned")
	assert.Equal(t, gpi.KindFinalize, log[len(log)-1].kind, "finalize is still the last delivery")
}

func TestEventQueue_HeapOrdering(t *testing.T) {
	s := New(100)
	for _, tick := range []int64{30, 10, 20} {
		s.Schedule(&timerEvent{time: tick})
	}

	var ticks []int64
	require.NoError(t, s.RegisterCallback(gpi.KindTimeStep, func(ev gpi.Event) {
		ticks = append(ticks, ev.Time)
	}))
	s.Run()

	assert.Equal(t, []int64{10, 20, 30}, ticks)
}
