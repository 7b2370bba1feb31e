//go:build linux || darwin || freebsd

package dynload

import (
	"plugin"

	"github.com/pkg/errors"
)

func platformOpener() Opener { return pluginOpener{} }

// pluginOpener loads embedding libraries through the Go plugin
// facility, the platform dlopen under the hood.
type pluginOpener struct{}

func (pluginOpener) Open(path string) (Library, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %q", path)
	}
	return pluginLibrary{p: p}, nil
}

type pluginLibrary struct {
	p *plugin.Plugin
}

func (l pluginLibrary) Symbol(name string) (any, error) {
	sym, err := l.p.Lookup(name)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %q", name)
	}
	return sym, nil
}
