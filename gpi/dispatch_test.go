package gpi

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cocotb/cocotb-sub007/embed"
	"github.com/cocotb/cocotb-sub007/embedapi"
	"github.com/cocotb/cocotb-sub007/gpilog"
	"github.com/cocotb/cocotb-sub007/internal/embedtest"
)

type fakeSim struct {
	kinds     []CallbackKind
	endCalls  int
	endReason string
}

func (s *fakeSim) RegisterCallback(kind CallbackKind, fn CallbackFunc) error {
	s.kinds = append(s.kinds, kind)
	return nil
}

func (s *fakeSim) EndSimulation(reason string) {
	s.endCalls++
	s.endReason = reason
}

func newTestBridge(t *testing.T, hooks *embedtest.Hooks) (*Bridge, *fakeSim, *bytes.Buffer) {
	t.Helper()
	t.Setenv(EnvTrace, "0")
	t.Setenv(EnvEntryModule, "")
	t.Setenv(EnvToplevel, "")
	var buf bytes.Buffer
	core := gpilog.NewCore(&buf)
	life := embed.New(embed.Options{Opener: hooks.Opener(), Core: core})
	sim := &fakeSim{}
	return New(sim, Options{Lifecycle: life, Core: core}), sim, &buf
}

func TestOnSimulatorLoad_RegistersLifecycleCallbacks(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "interp.so")
	hooks := &embedtest.Hooks{}
	b, sim, _ := newTestBridge(t, hooks)

	b.OnSimulatorLoad()

	assert.Equal(t, []CallbackKind{KindStartOfSimTime, KindEndOfSimTime, KindFinalize}, sim.kinds)
	assert.Equal(t, 1, hooks.InitCalls)
	assert.Equal(t, []string{"gpi"}, hooks.InitArgs, "interpreter gets a synthetic program identity")
	assert.Equal(t, 3, b.Registry().Len())
}

func TestOnSimulatorLoad_SecondCallRejected(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "interp.so")
	hooks := &embedtest.Hooks{}
	b, sim, buf := newTestBridge(t, hooks)

	b.OnSimulatorLoad()
	b.OnSimulatorLoad()

	assert.Len(t, sim.kinds, 3, "double load must not register twice")
	assert.Equal(t, 1, hooks.InitCalls)
	assert.Contains(t, buf.String(), "twice")
}

func TestOnSimulatorLoad_MissingInterpreterPath(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "")
	hooks := &embedtest.Hooks{}
	b, sim, buf := newTestBridge(t, hooks)

	b.OnSimulatorLoad()
	assert.Empty(t, sim.kinds, "no callbacks without an interpreter")
	assert.Contains(t, buf.String(), embed.EnvInterpreterLib)

	// A late simulator-delivered start must stay a safe no-op that
	// reports the configuration problem.
	status := 1
	assert.NotPanics(t, func() { status = b.OnStartOfSimTime([][]byte{[]byte("sim")}) })
	assert.Equal(t, 1, status)
	assert.Zero(t, hooks.SimInitCalls)
	assert.Zero(t, hooks.SimEventCalls)
}

func TestOnStartOfSimTime_LoadsEntry(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "interp.so")
	hooks := &embedtest.Hooks{}
	b, _, _ := newTestBridge(t, hooks)
	b.OnSimulatorLoad()

	status := b.OnStartOfSimTime([][]byte{[]byte("sim"), {0xFF}})

	assert.Zero(t, status)
	require.Equal(t, 1, hooks.SimInitCalls)
	assert.Equal(t, []string{"sim", "%FF"}, hooks.SimInitArgs, "argv crosses the boundary without information loss")
	assert.Equal(t, SimRunning, b.State())
}

func TestOnStartOfSimTime_AppendsHints(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "interp.so")
	hooks := &embedtest.Hooks{}
	b, _, _ := newTestBridge(t, hooks)
	t.Setenv(EnvEntryModule, "tb_top")
	t.Setenv(EnvToplevel, "dut")
	b.OnSimulatorLoad()

	b.OnStartOfSimTime([][]byte{[]byte("sim")})

	assert.Equal(t, []string{"sim", "--entry-module=tb_top", "--toplevel=dut"}, hooks.SimInitArgs)
}

func TestOnStartOfSimTime_SecondCallRejected(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "interp.so")
	hooks := &embedtest.Hooks{}
	b, _, buf := newTestBridge(t, hooks)
	b.OnSimulatorLoad()

	assert.Zero(t, b.OnStartOfSimTime(nil))
	assert.Equal(t, 1, b.OnStartOfSimTime(nil))
	assert.Equal(t, 1, hooks.SimInitCalls)
	assert.Contains(t, buf.String(), "twice")
}

func TestOnStartOfSimTime_EntryFailureLogged(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "interp.so")
	hooks := &embedtest.Hooks{SimInitErr: errors.New("import failed")}
	b, _, buf := newTestBridge(t, hooks)
	b.OnSimulatorLoad()

	status := b.OnStartOfSimTime(nil)

	assert.Equal(t, 1, status)
	assert.Contains(t, buf.String(), "import failed")

	// The entry point was never obtained, so end of sim time is a
	// silent no-op.
	b.OnEndOfSimTime()
	assert.Zero(t, hooks.SimEventCalls)
}

func TestOnStartOfSimTime_RequestedExitSuppressed(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "interp.so")
	hooks := &embedtest.Hooks{SimInitErr: errors.Wrap(embedapi.ErrRequestedExit, "shutdown")}
	b, sim, buf := newTestBridge(t, hooks)
	b.OnSimulatorLoad()

	status := b.OnStartOfSimTime(nil)

	assert.Zero(t, status, "a requested exit is not a failure")
	assert.Equal(t, 1, sim.endCalls, "exit request propagates to the simulator")
	assert.NotContains(t, buf.String(), "shutdown", "clean exits are not logged as errors")
}

func TestOnEndOfSimTime_NotifiesInterpreter(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "interp.so")
	hooks := &embedtest.Hooks{}
	b, _, _ := newTestBridge(t, hooks)
	b.OnSimulatorLoad()
	b.OnStartOfSimTime(nil)

	b.OnEndOfSimTime()

	assert.Equal(t, 1, hooks.SimEventCalls)
	assert.Equal(t, SimEnded, b.State())
}

func TestOnEndOfSimTime_WithoutStartIsNoOp(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "interp.so")
	hooks := &embedtest.Hooks{}
	b, _, buf := newTestBridge(t, hooks)
	b.OnSimulatorLoad()

	b.OnEndOfSimTime()

	assert.Zero(t, hooks.SimEventCalls)
	assert.NotContains(t, buf.String(), "ERROR")
}

func TestOnFinalize_Idempotent(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "interp.so")
	hooks := &embedtest.Hooks{}
	b, _, _ := newTestBridge(t, hooks)
	b.OnSimulatorLoad()
	b.OnStartOfSimTime(nil)
	b.OnEndOfSimTime()

	// The simulator may reach finalize both from its callback path and
	// from library unload.
	b.OnFinalize()
	b.OnFinalize()

	assert.Equal(t, 1, hooks.CleanupCalls)
	assert.Equal(t, SimFinalized, b.State())
	assert.Equal(t, embed.StateFinalized, b.Lifecycle().State())
}

func TestOnFinalize_WithoutInterpreterIsSafe(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "")
	hooks := &embedtest.Hooks{}
	b, _, _ := newTestBridge(t, hooks)
	b.OnSimulatorLoad()

	assert.NotPanics(t, func() { b.OnFinalize(); b.OnFinalize() })
	assert.Zero(t, hooks.CleanupCalls)
}

func TestRegisterCallback_TrampolineCrossesContext(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "interp.so")
	hooks := &embedtest.Hooks{}
	b, sim, _ := newTestBridge(t, hooks)
	b.OnSimulatorLoad()

	inInterpreter := false
	err := b.RegisterCallback(KindValueChange, func(ev Event) error {
		inInterpreter = b.Lifecycle().InInterpreter()
		return nil
	}, "user-data")
	require.NoError(t, err)
	require.Len(t, sim.kinds, 4)

	cbs := b.Registry().ByKind(KindValueChange)
	require.Len(t, cbs, 1)
	assert.Equal(t, "user-data", cbs[0].User)

	cbs[0].Fn(Event{Kind: KindValueChange, Signal: "clk"})
	assert.True(t, inInterpreter, "callback body must run in the interpreter context")
	assert.False(t, b.Lifecycle().InInterpreter(), "context restored after delivery")
}

func TestRegisterCallback_ExitRequestEndsSimulation(t *testing.T) {
	t.Setenv(embed.EnvInterpreterLib, "interp.so")
	hooks := &embedtest.Hooks{}
	b, sim, _ := newTestBridge(t, hooks)
	b.OnSimulatorLoad()

	require.NoError(t, b.RegisterCallback(KindTimeStep, func(Event) error {
		return embedapi.ErrRequestedExit
	}, nil))

	b.Registry().ByKind(KindTimeStep)[0].Fn(Event{Kind: KindTimeStep})
	assert.Equal(t, 1, sim.endCalls)
}

func TestCallbackKindStrings(t *testing.T) {
	for kind, want := range map[CallbackKind]string{
		KindStartOfSimTime: "start-of-sim-time",
		KindValueChange:    "value-change",
		CallbackKind(99):   "unknown",
	} {
		assert.Equal(t, want, kind.String())
	}
	assert.True(t, strings.HasPrefix(SimNotStarted.String(), "not-started"))
}
