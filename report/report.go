// Package report is the compiler's console output: leveled, styled messages
// for the user.
package report

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

const (
	LogLevelSilent = iota
	LogLevelError
	LogLevelWarn
	LogLevelVerbose
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = pterm.FgLightBlue
	InfoStyleBG    = pterm.NewStyle(pterm.BgLightBlue, pterm.FgBlack)
)

type reporter struct {
	logLevel   int
	m          sync.Mutex
	errorCount int
	warnCount  int
	startTime  time.Time
}

// rep is the shared reporter. Its zero value is silent.
var rep = &reporter{}

// InitReporter sets the log level and restarts the compilation timer.
func InitReporter(logLevel int) {
	rep = &reporter{
		logLevel:  logLevel,
		startTime: time.Now(),
	}
}

// ParseLogLevel converts a `--loglevel` value.
func ParseLogLevel(name string) (int, error) {
	switch strings.ToLower(name) {
	case "silent":
		return LogLevelSilent, nil
	case "error":
		return LogLevelError, nil
	case "warn":
		return LogLevelWarn, nil
	case "verbose":
		return LogLevelVerbose, nil
	}
	return 0, fmt.Errorf("unknown log level '%s': expected silent, error, warn or verbose", name)
}

// Verbose reports progress information such as module resolution.
func Verbose(tag, msg string, args ...interface{}) {
	if rep.logLevel < LogLevelVerbose {
		return
	}
	rep.m.Lock()
	defer rep.m.Unlock()

	InfoStyleBG.Print(" " + tag + " ")
	InfoColorFG.Println(" " + fmt.Sprintf(msg, args...))
}

func Warn(msg string, args ...interface{}) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.warnCount++
	if rep.logLevel < LogLevelWarn {
		return
	}
	WarnStyleBG.Print(" Warning ")
	WarnColorFG.Println(" " + fmt.Sprintf(msg, args...))
}

// Error reports an error without stopping the program.
func Error(tag string, err error) {
	rep.m.Lock()
	defer rep.m.Unlock()

	rep.errorCount++
	if rep.logLevel < LogLevelError {
		return
	}
	ErrorStyleBG.Print(" " + tag + " ")
	ErrorColorFG.Println(" " + err.Error())
}

// Success prints a completion message regardless of level unless silent.
func Success(tag, msg string, args ...interface{}) {
	if rep.logLevel == LogLevelSilent {
		return
	}
	rep.m.Lock()
	defer rep.m.Unlock()

	SuccessStyleBG.Print(" " + tag + " ")
	SuccessColorFG.Println(" " + fmt.Sprintf(msg, args...))
}

// Finished reports the concluding message of a compilation.
func Finished(outputPath string) {
	if rep.logLevel < LogLevelVerbose {
		return
	}

	elapsed := time.Since(rep.startTime).Seconds()
	if rep.errorCount == 0 {
		SuccessColorFG.Printf("All done! wrote %s (%.3fs, %d warnings)\n", outputPath, elapsed, rep.warnCount)
	} else {
		ErrorColorFG.Printf("Oh no! %d errors, %d warnings\n", rep.errorCount, rep.warnCount)
	}
}
