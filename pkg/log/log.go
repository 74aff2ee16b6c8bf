package log

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Verbose is set by the CLI flag to enable debug logging
var Verbose bool

// LogWriter can be overwritten by tests to suppress log output
var LogWriter io.Writer = os.Stdout

const timeFormat = "2006/01/02 15:04:05"

var (
	mu      sync.Mutex
	std     *charmlog.Logger
	stdDest io.Writer
)

// logger returns the shared logger, rebuilding it whenever LogWriter has been
// swapped out since the last call.
func logger() *charmlog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if std == nil || stdDest != LogWriter {
		std = newLogger(LogWriter, "")
		stdDest = LogWriter
	}
	return std
}

func newLogger(w io.Writer, prefix string) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           charmlog.DebugLevel,
		Prefix:          prefix,
	})
}

// SetOutput is a convenience method for swapping LogWriter.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	LogWriter = w
}

func sprintln(args ...interface{}) string {
	return strings.TrimSuffix(fmt.Sprintln(args...), "\n")
}

// TailReader will follow the given reader and send its contents
// to a dedicated logger configured with the given prefix.
func TailReader(prefix string, rdr io.Reader) {
	l := newLogger(LogWriter, prefix)
	scanner := bufio.NewScanner(rdr)
	for scanner.Scan() {
		l.Info(strings.TrimSpace(scanner.Text()))
	}
}

// Info is the equivalent of a log.Println on the info logger.
func Info(args ...interface{}) {
	logger().Info(sprintln(args...))
}

// Infof is the equivalent of a log.Printf on the info logger.
func Infof(fstr string, args ...interface{}) {
	logger().Infof(strings.TrimSuffix(fstr, "\n"), args...)
}

// Warning is the equivalent of a log.Println on the warning logger.
func Warning(args ...interface{}) {
	logger().Warn(sprintln(args...))
}

// Warningf is the equivalent of a log.Printf on the warning logger.
func Warningf(fstr string, args ...interface{}) {
	logger().Warnf(strings.TrimSuffix(fstr, "\n"), args...)
}

// Error is the equivalent of a log.Println on the error logger.
func Error(args ...interface{}) {
	logger().Error(sprintln(args...))
}

// Errorf is the equivalent of a log.Printf on the error logger.
func Errorf(fstr string, args ...interface{}) {
	logger().Errorf(strings.TrimSuffix(fstr, "\n"), args...)
}

// Fatal logs to the error logger and exits the process.
func Fatal(args ...interface{}) {
	logger().Error(sprintln(args...))
	os.Exit(1)
}

// Debug is the equivalent of a log.Println on the debug logger.
func Debug(args ...interface{}) {
	if Verbose {
		logger().Debug(sprintln(args...))
	}
}

// Debugf is the equivalent of a log.Printf on the debug logger.
func Debugf(fstr string, args ...interface{}) {
	if Verbose {
		logger().Debugf(strings.TrimSuffix(fstr, "\n"), args...)
	}
}

// DebugReader is a convenience method for tailing the contents of a reader
// to the debug logger.
func DebugReader(rdr io.Reader) {
	scanner := bufio.NewScanner(rdr)
	for scanner.Scan() {
		Debug(strings.TrimSpace(scanner.Text()))
	}
}
