// Package embedapi is the contract between the bridge and an
// interpreter embedding library. An embedding library is a dynamically
// loaded module that exports exactly the four entry points below; the
// loader refuses partial exports because the lifecycle and dispatch
// layers assume all four exist together.
package embedapi

import (
	"github.com/pkg/errors"

	"github.com/cocotb/cocotb-sub007/gpilog"
)

// Symbol names an embedding library must export.
const (
	SymInit     = "EmbedInit"
	SymCleanup  = "EmbedCleanup"
	SymSimInit  = "EmbedSimInit"
	SymSimEvent = "EmbedSimEvent"
)

type (
	// InitFunc starts the interpreter inside the host process. argv is
	// a synthetic program identity, never the host's command line. The
	// returned printer, when non-nil, is the interpreter's logging
	// object; the bridge installs it on the native logging core.
	InitFunc func(argv []string) (gpilog.RecordPrinter, error)

	// CleanupFunc shuts the interpreter down. Called at most once,
	// strictly after InitFunc succeeded.
	CleanupFunc func() error

	// SimInitFunc loads the interpreter-side entry module and hands it
	// the decoded simulator argument vector. Called once per
	// simulation run, at start of simulation time.
	SimInitFunc func(argv []string) error

	// SimEventFunc notifies the interpreter side that simulation time
	// has concluded.
	SimEventFunc func() error
)

// ErrRequestedExit is the clean-exit signal: the interpreter side asks
// for deliberate early termination. It is not a failure and the bridge
// suppresses it from error logging. Embedding libraries return it
// (possibly wrapped) from SimInitFunc or SimEventFunc.
var ErrRequestedExit = errors.New("interpreter requested simulation exit")
