package shared

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger returns a console logger writing to stderr at level.
func SetupLogger(level log.Level) *log.Logger {
	return NewLogger(os.Stderr, level)
}

// NewLogger returns a timestamped logger writing to w.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// LevelFor picks debug or info from a --debug flag.
func LevelFor(debug bool) log.Level {
	if debug {
		return log.DebugLevel
	}
	return log.InfoLevel
}
