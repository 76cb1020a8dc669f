// Package debug provides opt-in diagnostic logging to stderr.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	enabled     = os.Getenv("TODO_SCAN_DEBUG") != ""
	verboseMode = false
	quietMode   = false

	logMutex sync.Mutex
	logOut   io.Writer = os.Stderr
	normOut  io.Writer = os.Stderr
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

// SetOutput redirects diagnostic and informational output, returning a
// function that restores the previous writer.
func SetOutput(w io.Writer) (restore func()) {
	logMutex.Lock()
	defer logMutex.Unlock()
	prevLog, prevNorm := logOut, normOut
	logOut, normOut = w, w
	return func() {
		logMutex.Lock()
		defer logMutex.Unlock()
		logOut, normOut = prevLog, prevNorm
	}
}

// Logf writes a diagnostic line when TODO_SCAN_DEBUG is set or --verbose
// was passed. Safe for concurrent use by scan workers.
func Logf(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	fmt.Fprintf(logOut, format, args...)
}

// PrintNormal prints informational output unless quiet mode is enabled.
// Results never go through here; they are written to stdout by the caller.
func PrintNormal(format string, args ...interface{}) {
	if quietMode {
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	fmt.Fprintf(normOut, format, args...)
}

// PrintlnNormal prints a line unless quiet mode is enabled
func PrintlnNormal(args ...interface{}) {
	if quietMode {
		return
	}
	logMutex.Lock()
	defer logMutex.Unlock()
	fmt.Fprintln(normOut, args...)
}
