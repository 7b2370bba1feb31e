package gpilog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_CapturesCaller(t *testing.T) {
	var buf bytes.Buffer
	core := NewCore(&buf)
	log := NewWith(core, "gpi.test")

	log.Infof("hello")

	out := buf.String()
	assert.Contains(t, out, "logger_test.go")
	assert.Contains(t, out, "TestLogger_CapturesCaller")
	assert.Contains(t, out, "gpi.test")
	assert.Contains(t, out, "hello")
}

func TestLogger_LevelMethods(t *testing.T) {
	var buf bytes.Buffer
	core := NewCore(&buf)
	core.SetLevel(LevelTrace)
	log := NewWith(core, "gpi.test")

	log.Tracef("t")
	log.Debugf("d")
	log.Warningf("w")
	log.Errorf("e")
	log.Criticalf("c")

	out := buf.String()
	for _, name := range []string{"TRACE", "DEBUG", "WARNING", "ERROR", "CRITICAL"} {
		assert.Contains(t, out, name)
	}
}

func TestTrimFuncName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"github.com/x/y/embed.(*Lifecycle).Initialize", "(*Lifecycle).Initialize"},
		{"main.main", "main"},
		{"standalone", "standalone"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, trimFuncName(tt.in), tt.in)
	}
}
