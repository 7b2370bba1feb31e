package gpilog

import (
	"runtime"
	"strings"
)

// Logger is a named front-end over a Core. It captures the caller's
// source location so records carry the same path/function/line detail
// on both the native and the interpreter-side output paths.
type Logger struct {
	core *Core
	name string
}

// New returns a Logger on the global Core.
func New(name string) *Logger { return &Logger{core: global, name: name} }

// NewWith returns a Logger on an explicit Core. Tests use this to
// capture output.
func NewWith(core *Core, name string) *Logger { return &Logger{core: core, name: name} }

// Core returns the sink this logger writes to.
func (l *Logger) Core() *Core { return l.core }

func (l *Logger) Tracef(format string, args ...any)    { l.logf(LevelTrace, format, args...) }
func (l *Logger) Debugf(format string, args ...any)    { l.logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)     { l.logf(LevelInfo, format, args...) }
func (l *Logger) Warningf(format string, args ...any)  { l.logf(LevelWarning, format, args...) }
func (l *Logger) Errorf(format string, args ...any)    { l.logf(LevelError, format, args...) }
func (l *Logger) Criticalf(format string, args ...any) { l.logf(LevelCritical, format, args...) }

func (l *Logger) logf(level int, format string, args ...any) {
	path, fn, line := caller(3)
	l.core.Log(l.name, level, path, fn, line, format, args...)
}

func caller(skip int) (path, fn string, line int) {
	pc, path, line, ok := runtime.Caller(skip)
	if !ok {
		return "???", "???", 0
	}
	fn = "???"
	if f := runtime.FuncForPC(pc); f != nil {
		fn = trimFuncName(f.Name())
	}
	return path, fn, line
}

// trimFuncName strips the import path prefix from a runtime function
// name, e.g. "github.com/x/y/embed.(*Lifecycle).Initialize" becomes
// "(*Lifecycle).Initialize".
func trimFuncName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
