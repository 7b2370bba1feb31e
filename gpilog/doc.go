// Package gpilog is the simulator-side logging core of the bridge.
//
// # Reading Guide
//
//   - levels.go: the numeric severity scale shared with the interpreter
//     side and the level name table
//   - core.go: the Core sink (threshold filtering, the printer
//     indirection, fallback native output)
//   - formatter.go: the fixed-column native line format
//   - logger.go: the named front-end that captures caller information
//
// # Design
//
// A Core normally writes fixed-column lines to standard output through
// an embedded logrus logger. Once the embedded interpreter is up, its
// logging object is installed as a RecordPrinter and takes over record
// delivery; the native path remains as the fallback whenever the
// printer fails, so diagnosis stays possible even with broken
// interpreter-side logging. Logging must never take the simulator down:
// printer panics and errors are contained here and never propagate to a
// caller.
//
// Cores are not internally synchronized beyond what logrus provides;
// the bridge runs on the simulator's single callback thread.
package gpilog
