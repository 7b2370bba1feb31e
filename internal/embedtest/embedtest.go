// Package embedtest provides in-memory embedding libraries for tests:
// a fake dynamic loader and an instrumented entry-point table.
package embedtest

import (
	"github.com/pkg/errors"

	"github.com/cocotb/cocotb-sub007/dynload"
	"github.com/cocotb/cocotb-sub007/embedapi"
	"github.com/cocotb/cocotb-sub007/gpilog"
)

// Library is an in-memory dynload.Library.
type Library struct {
	Syms map[string]any
}

func (l Library) Symbol(name string) (any, error) {
	if sym, ok := l.Syms[name]; ok {
		return sym, nil
	}
	return nil, errors.Errorf("unknown symbol %q", name)
}

// Opener resolves every path to the same library, or fails with Err.
type Opener struct {
	Lib Library
	Err error
}

func (o Opener) Open(path string) (dynload.Library, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	return o.Lib, nil
}

// Hooks is an instrumented interpreter embedding. Its Library method
// exports the four entry points backed by the hook fields.
type Hooks struct {
	Printer     gpilog.RecordPrinter
	InitErr     error
	CleanupErr  error
	SimInitErr  error
	SimEventErr error

	InitCalls     int
	CleanupCalls  int
	SimInitCalls  int
	SimEventCalls int

	InitArgs    []string
	SimInitArgs []string
}

// Library exports the hooks as a complete embedding library.
func (h *Hooks) Library() Library {
	return Library{Syms: map[string]any{
		embedapi.SymInit: embedapi.InitFunc(func(argv []string) (gpilog.RecordPrinter, error) {
			h.InitCalls++
			h.InitArgs = argv
			if h.InitErr != nil {
				return nil, h.InitErr
			}
			return h.Printer, nil
		}),
		embedapi.SymCleanup: embedapi.CleanupFunc(func() error {
			h.CleanupCalls++
			return h.CleanupErr
		}),
		embedapi.SymSimInit: embedapi.SimInitFunc(func(argv []string) error {
			h.SimInitCalls++
			h.SimInitArgs = argv
			return h.SimInitErr
		}),
		embedapi.SymSimEvent: embedapi.SimEventFunc(func() error {
			h.SimEventCalls++
			return h.SimEventErr
		}),
	}}
}

// Opener wraps the hooks library in a fake loader.
func (h *Hooks) Opener() Opener {
	return Opener{Lib: h.Library()}
}
