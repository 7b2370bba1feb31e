// Package gpi is the dispatch layer between a hardware simulator and
// the embedded interpreter.
//
// # Reading Guide
//
//   - callbacks.go: callback kinds, the registry and the Simulator
//     interface the per-simulator glue satisfies
//   - dispatch.go: the Bridge with the four entry points the simulator
//     host calls (load, start of sim time, end of sim time, finalize)
//   - argv.go: permissive decoding of the native argument vector
//
// The simulator is treated as an opaque event source that delivers a
// fixed set of callback kinds on a single thread. The Bridge owns one
// lifecycle-state value and threads it through the four entry points;
// every entry point tolerates being invoked out of order or more than
// once, because simulators differ in which teardown paths they
// actually exercise.
package gpi
