package gpilog

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Field keys carrying record data through the logrus sink into the
// formatter.
const (
	fieldName  = "gpi.name"
	fieldLevel = "gpi.level"
	fieldPath  = "gpi.path"
	fieldFunc  = "gpi.func"
	fieldLine  = "gpi.line"
)

// The bridge has no view of simulation time at the point a record is
// emitted, so the time column is reserved rather than populated.
const timestampPlaceholder = "-.--ns"

const pathColumns = 18

// recordFormatter renders the fixed-column native log line:
// timestamp placeholder, level name, logger name, source path
// (right-justified, ellipsis-truncated), line number, function name,
// message. Columns are fixed so interleavings with simulator output
// stay readable.
type recordFormatter struct{}

func (recordFormatter) Format(e *logrus.Entry) ([]byte, error) {
	name, _ := e.Data[fieldName].(string)
	level, _ := e.Data[fieldLevel].(int)
	path, _ := e.Data[fieldPath].(string)
	fn, _ := e.Data[fieldFunc].(string)
	line, _ := e.Data[fieldLine].(int)

	var b bytes.Buffer
	fmt.Fprintf(&b, "%11s %-9.9s%-35.35s%20s:%-4d in %-31.31s %s\n",
		timestampPlaceholder, LevelName(level), name, shortenPath(path), line, fn, e.Message)
	return b.Bytes(), nil
}

// shortenPath keeps the tail of long source paths, marking the cut with
// a leading ellipsis. The tail is what disambiguates files.
func shortenPath(p string) string {
	if len(p) > pathColumns+2 {
		return ".." + p[len(p)-pathColumns:]
	}
	return p
}
