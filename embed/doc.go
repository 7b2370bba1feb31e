// Package embed manages the interpreter hosted inside the simulator
// process.
//
// # Reading Guide
//
//   - lifecycle.go: the Uninitialized → Initializing → Running →
//     Finalized state machine, embedding-library discovery and the
//     attach-for-debugging pause
//   - crossing.go: the scoped guard that moves execution between the
//     native and interpreter contexts
//
// The interpreter's execution lock is a process-wide mutual-exclusion
// token, not multi-thread protection: the simulator delivers callbacks
// on a single thread and control merely alternates between native and
// interpreter code on it. Every crossing acquires the lock on
// construction and releases it on scope exit, so an error return can
// never leak a held lock.
package embed
