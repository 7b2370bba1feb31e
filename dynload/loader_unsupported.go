//go:build !linux && !darwin && !freebsd

package dynload

import "github.com/pkg/errors"

func platformOpener() Opener { return unsupportedOpener{} }

type unsupportedOpener struct{}

func (unsupportedOpener) Open(path string) (Library, error) {
	return nil, errors.Errorf("dynamic loading of %q is not supported on this platform", path)
}
