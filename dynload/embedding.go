package dynload

import (
	"github.com/pkg/errors"

	"github.com/cocotb/cocotb-sub007/embedapi"
	"github.com/cocotb/cocotb-sub007/gpilog"
)

// Embedding is the resolved entry-point table of an interpreter
// embedding library. It is only ever constructed complete: if any of
// the four symbols is missing or has the wrong type, the whole load
// fails.
type Embedding struct {
	Init     embedapi.InitFunc
	Cleanup  embedapi.CleanupFunc
	SimInit  embedapi.SimInitFunc
	SimEvent embedapi.SimEventFunc
}

// LoadEmbedding opens the library at path and resolves all four
// embedding entry points as a unit.
//
// Plugin lookup yields the bare function value for symbols declared as
// functions and a pointer for symbols declared as package variables;
// both spellings are accepted for every entry point.
func LoadEmbedding(opener Opener, path string) (*Embedding, error) {
	lib, err := opener.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "embedding library")
	}
	var e Embedding
	if e.Init, err = resolveInit(lib); err != nil {
		return nil, err
	}
	if e.Cleanup, err = resolveCleanup(lib); err != nil {
		return nil, err
	}
	if e.SimInit, err = resolveSimInit(lib); err != nil {
		return nil, err
	}
	if e.SimEvent, err = resolveSimEvent(lib); err != nil {
		return nil, err
	}
	return &e, nil
}

func resolveInit(lib Library) (embedapi.InitFunc, error) {
	sym, err := symbol(lib, embedapi.SymInit)
	if err != nil {
		return nil, err
	}
	switch v := sym.(type) {
	case func(argv []string) (gpilog.RecordPrinter, error):
		return v, nil
	case embedapi.InitFunc:
		return v, nil
	case *embedapi.InitFunc:
		return *v, nil
	}
	return nil, badSymbol(embedapi.SymInit, sym)
}

func resolveCleanup(lib Library) (embedapi.CleanupFunc, error) {
	sym, err := symbol(lib, embedapi.SymCleanup)
	if err != nil {
		return nil, err
	}
	switch v := sym.(type) {
	case func() error:
		return v, nil
	case embedapi.CleanupFunc:
		return v, nil
	case *embedapi.CleanupFunc:
		return *v, nil
	}
	return nil, badSymbol(embedapi.SymCleanup, sym)
}

func resolveSimInit(lib Library) (embedapi.SimInitFunc, error) {
	sym, err := symbol(lib, embedapi.SymSimInit)
	if err != nil {
		return nil, err
	}
	switch v := sym.(type) {
	case func(argv []string) error:
		return v, nil
	case embedapi.SimInitFunc:
		return v, nil
	case *embedapi.SimInitFunc:
		return *v, nil
	}
	return nil, badSymbol(embedapi.SymSimInit, sym)
}

func resolveSimEvent(lib Library) (embedapi.SimEventFunc, error) {
	sym, err := symbol(lib, embedapi.SymSimEvent)
	if err != nil {
		return nil, err
	}
	switch v := sym.(type) {
	case func() error:
		return v, nil
	case embedapi.SimEventFunc:
		return v, nil
	case *embedapi.SimEventFunc:
		return *v, nil
	}
	return nil, badSymbol(embedapi.SymSimEvent, sym)
}

func symbol(lib Library, name string) (any, error) {
	sym, err := lib.Symbol(name)
	if err != nil {
		return nil, errors.Wrap(err, "incomplete embedding library")
	}
	return sym, nil
}

func badSymbol(name string, sym any) error {
	return errors.Errorf("embedding symbol %q has unexpected type %T", name, sym)
}
