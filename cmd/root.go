package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cocotb/cocotb-sub007/gpi"
	"github.com/cocotb/cocotb-sub007/hostsim"
)

var (
	// CLI flags for the bridge session
	logLevel    string   // Log verbosity level of the CLI itself
	configPath  string   // Optional session.yaml path
	interpreter string   // Interpreter embedding library path
	horizon     int64    // Total simulation horizon (in ticks)
	trace       bool     // Context-switch and trace-level logging
	attach      int      // Debugger attach pause (seconds)
	simArgs     []string // Argument vector handed to start-of-sim-time
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "gpi-bridge",
	Short: "Co-simulation bridge between hardware simulators and an embedded interpreter",
}

// runCmd drives one full bridge session against the in-process
// reference simulator: library load, start of sim time, queued events,
// end of sim time, finalize.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a bridge session against the reference simulator",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := DefaultSession()
		if configPath != "" {
			cfg, err = LoadSession(configPath)
			if err != nil {
				logrus.Fatalf("unable to read session config; %v", err)
			}
		}

		// Flags win over file values
		if interpreter != "" {
			cfg.Interpreter = interpreter
		}
		if cmd.Flags().Changed("horizon") {
			cfg.Horizon = horizon
		}
		if trace {
			cfg.Trace = true
		}
		if attach > 0 {
			cfg.Attach = attach
		}
		if len(simArgs) > 0 {
			cfg.Argv = simArgs
		}

		if cfg.Interpreter == "" {
			logrus.Fatalf("no interpreter embedding library configured (--interpreter or session config)")
		}
		if err := cfg.Export(); err != nil {
			logrus.Fatalf("exporting session environment: %v", err)
		}

		logrus.Infof("Starting bridge session with horizon=%dticks, interpreter=%s", cfg.Horizon, cfg.Interpreter)

		sim := hostsim.New(cfg.Horizon, cfg.Argv...)
		bridge := gpi.New(sim, gpi.Options{})
		bridge.OnSimulatorLoad()
		sim.Run()

		logrus.Info("Session complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to a session.yaml file")
	runCmd.Flags().StringVar(&interpreter, "interpreter", "", "Path to the interpreter embedding library")
	runCmd.Flags().Int64Var(&horizon, "horizon", 1_000_000, "Total simulation horizon (in ticks)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "Enable context-switch tracing")
	runCmd.Flags().IntVar(&attach, "attach", 0, "Seconds to pause for debugger attach before simulation")
	runCmd.Flags().StringSliceVar(&simArgs, "sim-arg", nil, "Arguments handed to the start-of-sim-time callback")

	rootCmd.AddCommand(runCmd)
}
