// logging.go - structured diagnostic logging for the scheduler.
//
// spec.md §6 asks for one diagnostic line per scheduler event: creation,
// preemption, run, yield, block, unblock, termination, free, and the
// deinit summary. Format is advisory, not part of the contract, so this
// wires a real structured logger (logiface, backed by stumpy) rather than
// inventing a line format.

package sthreads

import (
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the diagnostic logger type used throughout the package. It is a
// type alias so callers can pass any *logiface.Logger[*stumpy.Event]
// constructed via stumpy.L, including ones with custom writers or levels.
type Logger = *logiface.Logger[*stumpy.Event]

var globalLogger struct {
	sync.RWMutex
	logger Logger
}

func init() {
	globalLogger.logger = stumpy.L.New(
		stumpy.L.WithStumpy(),
	)
}

// SetLogger overrides the package-level default diagnostic logger, used by
// any Runtime constructed without an explicit WithLogger option.
func SetLogger(l Logger) {
	globalLogger.Lock()
	defer globalLogger.Unlock()
	globalLogger.logger = l
}

func defaultLogger() Logger {
	globalLogger.RLock()
	defer globalLogger.RUnlock()
	return globalLogger.logger
}

// logEvent names the scheduler transitions spec.md §6 asks to be traced.
type logEvent string

const (
	eventCreate    logEvent = "create"
	eventPreempt   logEvent = "preempt"
	eventRun       logEvent = "run"
	eventYield     logEvent = "yield"
	eventBlock     logEvent = "block"
	eventUnblock   logEvent = "unblock"
	eventTerminate logEvent = "terminate"
	eventFree      logEvent = "free"
	eventDeinit    logEvent = "deinit"
)

func (r *Runtime) logTask(ev logEvent, t *task) {
	r.logger.Info().
		Str("event", string(ev)).
		Uint64("task_id", t.id).
		Log("scheduler transition")
}
