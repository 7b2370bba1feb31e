package embed

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/cocotb/cocotb-sub007/dynload"
	"github.com/cocotb/cocotb-sub007/gpilog"
)

// Environment variables consumed by the lifecycle manager.
const (
	// EnvInterpreterLib locates the interpreter embedding library.
	// Required: without it the bridge cannot come up.
	EnvInterpreterLib = "GPI_INTERPRETER_LIB"

	// EnvAttach pauses initialization for the given number of seconds
	// so an external debugger can attach before control returns to the
	// simulator.
	EnvAttach = "GPI_ATTACH"
)

// programName is the synthetic program identity handed to the
// interpreter, so it never tries to parse the host's command line.
const programName = "gpi"

// sleep is a seam for the attach pause in tests.
var sleep = time.Sleep

// State tracks whether the embedded interpreter is alive. Transitions
// are one-directional.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateRunning
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateFinalized:
		return "finalized"
	}
	return "invalid"
}

// Options configures a Lifecycle. The zero value selects the platform
// loader and the global logging core.
type Options struct {
	Opener dynload.Opener
	Core   *gpilog.Core
	Trace  bool
}

// Lifecycle owns the embedded interpreter: the resolved entry-point
// table, the execution lock, the context marker and the logging-bridge
// installation. One instance per process; the simulator ABI allows no
// more.
type Lifecycle struct {
	state  State
	opener dynload.Opener
	core   *gpilog.Core
	log    *gpilog.Logger
	trace  bool

	impl             *dynload.Embedding
	printerInstalled bool

	// lock is the interpreter's global execution lock. ctx says which
	// side of the boundary is currently executing; it is only touched
	// at crossing points on the single callback thread.
	lock sync.Mutex
	ctx  executionContext
}

// New returns an uninitialized Lifecycle.
func New(opts Options) *Lifecycle {
	opener := opts.Opener
	if opener == nil {
		opener = dynload.Default()
	}
	core := opts.Core
	if core == nil {
		core = gpilog.Global()
	}
	return &Lifecycle{
		opener: opener,
		core:   core,
		log:    gpilog.NewWith(core, "gpi.embed"),
		trace:  opts.Trace,
		ctx:    contextNative,
	}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State { return l.state }

// Embedding returns the resolved entry-point table, nil unless the
// lifecycle is running.
func (l *Lifecycle) Embedding() *dynload.Embedding { return l.impl }

// SetTrace toggles context-switch tracing.
func (l *Lifecycle) SetTrace(on bool) { l.trace = on }

// Initialize discovers, loads and starts the embedded interpreter. On
// any failure the state reverts to Uninitialized so Finalize stays a
// safe no-op; the simulator keeps running without the bridge.
func (l *Lifecycle) Initialize() error {
	if l.state != StateUninitialized {
		l.log.Errorf("interpreter initialize requested twice (state %s)", l.state)
		return errors.Errorf("interpreter already %s", l.state)
	}
	l.state = StateInitializing

	path := os.Getenv(EnvInterpreterLib)
	if path == "" {
		l.state = StateUninitialized
		l.log.Errorf("%s is not set, cannot locate the interpreter embedding library", EnvInterpreterLib)
		return errors.Errorf("%s is not set", EnvInterpreterLib)
	}

	impl, err := dynload.LoadEmbedding(l.opener, path)
	if err != nil {
		l.state = StateUninitialized
		l.log.Errorf("loading interpreter embedding library: %v", err)
		return err
	}

	printer, err := impl.Init([]string{programName})
	if err != nil {
		l.state = StateUninitialized
		l.log.Errorf("starting embedded interpreter: %v", err)
		return errors.Wrap(err, "starting embedded interpreter")
	}
	if printer != nil {
		l.core.InstallPrinter(printer)
		l.printerInstalled = true
	} else {
		l.log.Warningf("interpreter provided no logging object, records stay on native output")
	}

	// The interpreter started with its execution lock held by this
	// thread and releases it here: from now on the native context is
	// the canonical one and every call back in goes through a Crossing.
	l.impl = impl
	l.ctx = contextNative

	l.attachPause()

	l.state = StateRunning
	return nil
}

// attachPause blocks for GPI_ATTACH seconds so a debugger can attach.
// A non-positive or unparsable value is a configuration error: logged,
// then treated as "do not pause".
func (l *Lifecycle) attachPause() {
	raw := os.Getenv(EnvAttach)
	if raw == "" {
		return
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		l.log.Errorf("%s=%q is not a positive integer, not pausing", EnvAttach, raw)
		return
	}
	l.log.Infof("pausing %ds for debugger attach (pid %d)", secs, os.Getpid())
	sleep(time.Duration(secs) * time.Second)
}

// Finalize tears the interpreter down: the logging bridge is removed
// first so no record crosses into a dying interpreter, then the
// embedding is cleaned up. Safe to call repeatedly and safe when
// Initialize never ran or failed partway.
func (l *Lifecycle) Finalize() {
	switch l.state {
	case StateRunning:
	case StateFinalized:
		l.log.Debugf("interpreter already finalized")
		return
	default:
		// Never fully came up; nothing to release.
		return
	}

	// Finalize will not return to running interpreter code, so no saved
	// state is restored; the crossing is still released for lock
	// hygiene once the interpreter is gone.
	cr := l.Cross()
	defer cr.Release()

	if l.printerInstalled {
		l.core.RemovePrinter()
		l.printerInstalled = false
	}
	if err := l.impl.Cleanup(); err != nil {
		l.log.Errorf("interpreter shutdown reported: %v", err)
	}
	l.impl = nil
	l.state = StateFinalized
}
