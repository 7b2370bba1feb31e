// Package hostsim is an in-process reference simulator. It is not a
// hardware simulator: it exists so the bridge can be driven end to end
// by the CLI and by tests without a Verilog/VHDL tool present.
//
// It implements the gpi.Simulator boundary with a heap-ordered event
// queue and delivers registered callbacks serially on the caller's
// goroutine, modeling the single-callback-thread delivery contract real
// simulators provide.
package hostsim
