package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures a console logger at the requested verbosity.
func SetupLogger(debug bool) *log.Logger {
	return SetupLoggerTo(os.Stderr, debug)
}

// SetupLoggerTo configures a logger writing to w. The play command logs
// to a file so the TUI owns the terminal.
func SetupLoggerTo(w io.Writer, debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}
