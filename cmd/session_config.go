package cmd

import (
	"bytes"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/cocotb/cocotb-sub007/embed"
	"github.com/cocotb/cocotb-sub007/gpi"
)

// Session describes one bridge run. The bridge proper reads its
// configuration from the environment, the same way simulator run
// scripts pass it; Export translates a session into those variables.
type Session struct {
	Interpreter string   `yaml:"interpreter"`
	Horizon     int64    `yaml:"horizon"`
	Argv        []string `yaml:"argv"`
	Trace       bool     `yaml:"trace"`
	Attach      int      `yaml:"attach"`
	EntryModule string   `yaml:"entry_module"`
	Toplevel    string   `yaml:"toplevel"`
}

// DefaultSession returns the built-in session values.
func DefaultSession() Session {
	return Session{Horizon: 1_000_000}
}

// LoadSession reads and strictly parses a session.yaml: unknown keys
// are rejected so typos fail loudly instead of being ignored.
func LoadSession(path string) (Session, error) {
	cfg := DefaultSession()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Export publishes the session to the environment variables the bridge
// consumes.
func (s Session) Export() error {
	set := func(key, value string) error {
		if value == "" {
			return os.Unsetenv(key)
		}
		return os.Setenv(key, value)
	}
	if err := set(embed.EnvInterpreterLib, s.Interpreter); err != nil {
		return err
	}
	attach := ""
	if s.Attach > 0 {
		attach = strconv.Itoa(s.Attach)
	}
	if err := set(embed.EnvAttach, attach); err != nil {
		return err
	}
	traceVal := ""
	if s.Trace {
		traceVal = "1"
	}
	if err := set(gpi.EnvTrace, traceVal); err != nil {
		return err
	}
	if err := set(gpi.EnvEntryModule, s.EntryModule); err != nil {
		return err
	}
	return set(gpi.EnvToplevel, s.Toplevel)
}
