// Package dynload loads the interpreter embedding library at runtime,
// so the bridge carries no link-time dependency on any particular
// interpreter build.
//
// The platform loader lives behind the Opener interface: supported
// systems use the Go plugin facility, everything else gets an opener
// that fails with a clear error. Callers never see the platform branch.
//
// LoadEmbedding resolves the four embedding entry points as a unit;
// a library missing any of them is rejected outright, since partial
// capability is not supported by the layers above.
package dynload
