package gpi

import (
	"errors"
	"os"

	"github.com/cocotb/cocotb-sub007/embed"
	"github.com/cocotb/cocotb-sub007/embedapi"
	"github.com/cocotb/cocotb-sub007/gpilog"
)

// Environment variables consumed by the dispatch layer.
const (
	// EnvTrace enables verbose trace logging and context-switch
	// tracing. Any value other than an explicit "0" enables it.
	EnvTrace = "GPI_TRACE"

	// EnvEntryModule and EnvToplevel are optional per-simulator hints
	// forwarded to the interpreter entry function. Empty means unset.
	EnvEntryModule = "GPI_ENTRY_MODULE"
	EnvToplevel    = "GPI_TOPLEVEL"
)

// SimState is the dispatch layer's view of the simulation run.
type SimState int

const (
	SimNotStarted SimState = iota
	SimRunning
	SimEnded
	SimFinalized
)

func (s SimState) String() string {
	switch s {
	case SimNotStarted:
		return "not-started"
	case SimRunning:
		return "sim-running"
	case SimEnded:
		return "sim-ended"
	case SimFinalized:
		return "finalized"
	}
	return "invalid"
}

// Options configures a Bridge. The zero value builds a lifecycle on the
// platform loader and the global logging core.
type Options struct {
	Lifecycle *embed.Lifecycle
	Core      *gpilog.Core
}

// Bridge routes simulator callbacks to the embedded interpreter. It is
// the single owner of the lifecycle state threaded through the four
// host entry points.
type Bridge struct {
	sim  Simulator
	life *embed.Lifecycle
	reg  *Registry
	log  *gpilog.Logger

	loaded  bool
	started bool
	state   SimState

	// simEvent is the interpreter's end-of-sim entry point, retained
	// only once start of simulation time completed successfully.
	simEvent embedapi.SimEventFunc
}

// New returns a Bridge attached to the given simulator glue.
func New(sim Simulator, opts Options) *Bridge {
	core := opts.Core
	if core == nil {
		core = gpilog.Global()
	}
	life := opts.Lifecycle
	if life == nil {
		life = embed.New(embed.Options{Core: core})
	}
	return &Bridge{
		sim:  sim,
		life: life,
		reg:  &Registry{},
		log:  gpilog.NewWith(core, "gpi"),
	}
}

// Lifecycle returns the interpreter lifecycle this bridge drives.
func (b *Bridge) Lifecycle() *embed.Lifecycle { return b.life }

// Registry returns the callbacks registered so far.
func (b *Bridge) Registry() *Registry { return b.reg }

// State returns the simulation lifecycle state.
func (b *Bridge) State() SimState { return b.state }

// OnSimulatorLoad is the entry point the simulator calls once when the
// bridging library is loaded. Errors are logged only: the simulator
// keeps running without the bridge. A second invocation is rejected
// without side effect.
func (b *Bridge) OnSimulatorLoad() {
	if b.loaded {
		b.log.Errorf("simulator load hook invoked twice, ignoring")
		return
	}
	b.loaded = true

	if traceEnabled() {
		b.log.Core().SetLevel(gpilog.LevelTrace)
		b.life.SetTrace(true)
	}

	if err := b.life.Initialize(); err != nil {
		// Already logged by the lifecycle manager with more detail.
		// With no interpreter there is nothing to dispatch to, so no
		// callbacks are registered.
		return
	}

	b.register(KindStartOfSimTime, func(ev Event) { b.OnStartOfSimTime(ev.Argv) })
	b.register(KindEndOfSimTime, func(Event) { b.OnEndOfSimTime() })
	b.register(KindFinalize, func(Event) { b.OnFinalize() })
}

func (b *Bridge) register(kind CallbackKind, fn CallbackFunc) {
	if err := b.sim.RegisterCallback(kind, fn); err != nil {
		b.log.Errorf("registering %s callback: %v", kind, err)
		return
	}
	b.reg.Register(Callback{Kind: kind, Fn: fn})
}

// RegisterCallback registers a pass-through simulator callback whose
// function body runs on the interpreter side: the installed trampoline
// performs the context crossing around fn and applies the usual
// error-suppression discipline.
func (b *Bridge) RegisterCallback(kind CallbackKind, fn func(Event) error, user any) error {
	trampoline := func(ev Event) {
		err := b.life.Call(func() error { return fn(ev) })
		if err == nil {
			return
		}
		if errors.Is(err, embedapi.ErrRequestedExit) {
			b.sim.EndSimulation("interpreter requested exit")
			return
		}
		b.log.Errorf("%s callback failed: %v", kind, err)
	}
	if err := b.sim.RegisterCallback(kind, trampoline); err != nil {
		return err
	}
	b.reg.Register(Callback{Kind: kind, Fn: trampoline, User: user})
	return nil
}

// OnStartOfSimTime is called by the simulator when simulation time
// begins. It loads the interpreter-side entry module with the decoded
// argument vector and returns a non-zero status on initialization
// failure. It never panics into the simulator.
func (b *Bridge) OnStartOfSimTime(argv [][]byte) int {
	if b.life.State() != embed.StateRunning {
		b.log.Errorf("start of simulation time with no interpreter, configuration error during load")
		return 1
	}
	if b.started {
		b.log.Errorf("start of simulation time delivered twice, rejecting")
		return 1
	}
	b.started = true

	args := DecodeArgv(argv)
	args = appendHints(args)

	impl := b.life.Embedding()
	err := b.life.Call(func() error { return impl.SimInit(args) })
	if err != nil {
		if errors.Is(err, embedapi.ErrRequestedExit) {
			// Deliberate early termination, not a failure.
			b.sim.EndSimulation("interpreter requested exit during startup")
			return 0
		}
		b.log.Errorf("interpreter entry failed: %v", err)
		return 1
	}

	b.simEvent = impl.SimEvent
	b.state = SimRunning
	return 0
}

// OnEndOfSimTime notifies the interpreter that simulation time has
// concluded. If start of sim time never completed, the entry point was
// never obtained and this is a silent no-op.
func (b *Bridge) OnEndOfSimTime() {
	if b.simEvent == nil {
		return
	}
	err := b.life.Call(func() error { return b.simEvent() })
	if err != nil && !errors.Is(err, embedapi.ErrRequestedExit) {
		b.log.Errorf("interpreter simulation-end notification failed: %v", err)
	}
	b.state = SimEnded
}

// OnFinalize tears the bridge down. Simulators reach it from a
// finalize callback, from host-library unload, or both, so the
// already-finalized check comes first and is cheap.
func (b *Bridge) OnFinalize() {
	if b.state == SimFinalized {
		return
	}
	b.state = SimFinalized
	b.simEvent = nil
	if b.life.State() != embed.StateRunning {
		// The interpreter never came up; nothing to shut down.
		return
	}
	b.life.Finalize()
}

// appendHints forwards the optional per-simulator entry hints to the
// interpreter entry function. Empty values are treated as unset.
func appendHints(args []string) []string {
	if mod := os.Getenv(EnvEntryModule); mod != "" {
		args = append(args, "--entry-module="+mod)
	}
	if top := os.Getenv(EnvToplevel); top != "" {
		args = append(args, "--toplevel="+top)
	}
	return args
}

func traceEnabled() bool {
	v, ok := os.LookupEnv(EnvTrace)
	return ok && v != "0"
}
