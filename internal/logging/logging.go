// Package logging wraps charmbracelet/log the way the teacher pack
// threads a *log.Logger through constructors and uses .With(...) for
// structured fields.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// New builds a logger writing structured, leveled output to stderr.
func New(debug bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		ReportCaller:    false,
	})
	if debug {
		l.SetLevel(log.DebugLevel)
	}
	return l
}
