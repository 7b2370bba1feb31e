package dynload

// Opener abstracts the platform dynamic loader. Tests substitute an
// in-memory opener; production code uses Default().
type Opener interface {
	// Open loads the library at path.
	Open(path string) (Library, error)
}

// Library is a loaded dynamic library.
type Library interface {
	// Symbol resolves an exported symbol by name.
	Symbol(name string) (any, error)
}

// Default returns the opener for the running platform.
func Default() Opener { return platformOpener() }
