package gpilog

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// recordBufferLen bounds the formatted message handed to a printer.
// Longer messages are silently truncated; a partial log line is better
// than a failed one.
const recordBufferLen = 2048

// Record is one log call crossing the native/interpreter boundary. It
// is constructed per call and passed by value exactly once.
type Record struct {
	Name    string
	Level   int
	Path    string
	Func    string
	Line    int
	Message string
}

// RecordPrinter is the interpreter-side logging object. WillLog is the
// cheap pre-formatting filter; PrintRecord consumes one record. Both
// may fail (error or panic) without consequence for the simulator: the
// core falls back to native output.
//
// The core holds the printer as a non-owning handle; the lifecycle
// manager removes it before the interpreter is torn down.
type RecordPrinter interface {
	WillLog(name string, level int) bool
	PrintRecord(name string, level int, path string, line int, msg string, fn string) error
}

// Core is the process-wide log sink. With no printer installed it
// filters on a numeric threshold and writes fixed-column lines through
// its logrus sink; with a printer installed, filtering and output are
// delegated to the interpreter side.
type Core struct {
	level   int
	printer RecordPrinter
	sink    *logrus.Logger
}

// NewCore returns a Core writing native output to out. The embedded
// logrus logger is pinned at TraceLevel: the core applies its own
// numeric threshold so arbitrary integer severities keep exact
// semantics.
func NewCore(out io.Writer) *Core {
	sink := logrus.New()
	sink.SetOutput(out)
	sink.SetFormatter(&recordFormatter{})
	sink.SetLevel(logrus.TraceLevel)
	return &Core{level: LevelInfo, sink: sink}
}

var global = NewCore(os.Stdout)

// Global returns the process-wide Core. The simulator ABI allows a
// single bridge instance per process, so one sink is enough.
func Global() *Core { return global }

// SetLevel installs a new native threshold and returns the previous
// one. It always succeeds.
func (c *Core) SetLevel(level int) int {
	prev := c.level
	c.level = level
	return prev
}

// Level returns the current native threshold.
func (c *Core) Level() int { return c.level }

// InstallPrinter routes subsequent records through the interpreter-side
// printer. Installing over an existing printer replaces it.
func (c *Core) InstallPrinter(p RecordPrinter) { c.printer = p }

// RemovePrinter reverts to native output and drops the printer
// reference. Safe to call when no printer is installed.
func (c *Core) RemovePrinter() { c.printer = nil }

// Log emits one record. Formatting cost is only paid once the record is
// known to be enabled: simulations log per time step and the disabled
// path must stay cheap.
func (c *Core) Log(name string, level int, path, fn string, line int, format string, args ...any) {
	if p := c.printer; p != nil {
		c.logPrinter(p, name, level, path, fn, line, format, args...)
		return
	}
	if level < c.level {
		return
	}
	c.emit(Record{Name: name, Level: level, Path: path, Func: fn, Line: line, Message: boundedSprintf(format, args...)})
}

func (c *Core) logPrinter(p RecordPrinter, name string, level int, path, fn string, line int, format string, args ...any) {
	enabled, err := safeWillLog(p, name, level)
	if err == nil && !enabled {
		return
	}
	rec := Record{Name: name, Level: level, Path: path, Func: fn, Line: line, Message: boundedSprintf(format, args...)}
	if err == nil {
		err = safePrintRecord(p, rec)
	}
	if err != nil {
		// Never let a broken interpreter logging pipeline swallow the
		// record or take the process down: emit it natively, then one
		// distinguishable error line. The printer stays installed so a
		// transient failure does not demote all later records.
		c.emit(rec)
		c.emit(Record{
			Name:    "gpi.logging",
			Level:   LevelError,
			Path:    rec.Path,
			Func:    rec.Func,
			Line:    rec.Line,
			Message: fmt.Sprintf("record not delivered to interpreter logging: %v", err),
		})
	}
}

func (c *Core) emit(r Record) {
	c.sink.WithFields(logrus.Fields{
		fieldName:  r.Name,
		fieldLevel: r.Level,
		fieldPath:  r.Path,
		fieldFunc:  r.Func,
		fieldLine:  r.Line,
	}).Log(sinkLevel(r.Level), r.Message)
}

func boundedSprintf(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if len(msg) > recordBufferLen {
		msg = msg[:recordBufferLen]
	}
	return msg
}

func safeWillLog(p RecordPrinter, name string, level int) (enabled bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("log filter panicked: %v", r)
		}
	}()
	return p.WillLog(name, level), nil
}

func safePrintRecord(p RecordPrinter, rec Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("log handler panicked: %v", r)
		}
	}()
	if err := p.PrintRecord(rec.Name, rec.Level, rec.Path, rec.Line, rec.Message, rec.Func); err != nil {
		return errors.Wrap(err, "log handler failed")
	}
	return nil
}

// sinkLevel maps the numeric scale onto logrus levels for the native
// sink. The core has already decided to emit, so this only affects the
// level logrus reports internally.
func sinkLevel(level int) logrus.Level {
	switch {
	case level < LevelDebug:
		return logrus.TraceLevel
	case level < LevelInfo:
		return logrus.DebugLevel
	case level < LevelWarning:
		return logrus.InfoLevel
	case level < LevelError:
		return logrus.WarnLevel
	case level < LevelCritical:
		return logrus.ErrorLevel
	default:
		return logrus.FatalLevel
	}
}
