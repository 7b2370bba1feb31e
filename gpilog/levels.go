package gpilog

// Severity levels shared across the native/interpreter boundary. The
// numeric values match the interpreter-side logging module so records
// cross the boundary without translation.
const (
	LevelTrace    = 5
	LevelDebug    = 10
	LevelInfo     = 20
	LevelWarning  = 30
	LevelError    = 40
	LevelCritical = 50
)

var levelNames = map[int]string{
	LevelTrace:    "TRACE",
	LevelDebug:    "DEBUG",
	LevelInfo:     "INFO",
	LevelWarning:  "WARNING",
	LevelError:    "ERROR",
	LevelCritical: "CRITICAL",
}

// LevelName returns the display name for a severity value. Levels
// outside the table render as a placeholder so user-defined severities
// still produce a readable line.
func LevelName(level int) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return "custom"
}
