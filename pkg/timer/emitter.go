package timer

import (
	"github.com/charmbracelet/log"
)

// Phase identifies which point in a timer's lifecycle a record reports.
type Phase int

const (
	PhaseStarting Phase = iota
	PhaseExecuting
	PhaseFinished
)

// String returns the record classification for the phase, used as the log
// prefix by the logger-backed emitter.
func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "TimerStarting"
	case PhaseExecuting:
		return "TimerExecuting"
	case PhaseFinished:
		return "TimerFinished"
	default:
		return "TimerUnknown"
	}
}

// Record is one fully rendered timer event, ready for a logging backend.
type Record struct {
	Level   log.Level
	Phase   Phase
	Site    CallSite
	Message string
}

// Emitter is the boundary to the structured logging backend. Implementations
// decide independently whether a given level is enabled and how records are
// rendered or shipped.
type Emitter interface {
	// Enabled must be a cheap, side-effect-free query. It gates every timer
	// operation, and must report false for SeverityNever's level no matter
	// how the backend is configured.
	Enabled(level log.Level) bool
	Emit(record Record)
}

// LoggerEmitter emits timer records through a charm logger. The phase becomes
// the record prefix and the call site is attached as structured keyvals.
type LoggerEmitter struct {
	logger *log.Logger
}

func NewLoggerEmitter(logger *log.Logger) *LoggerEmitter {
	return &LoggerEmitter{logger: logger}
}

func (le *LoggerEmitter) Enabled(level log.Level) bool {
	return level < neverLevel && level >= le.logger.GetLevel()
}

func (le *LoggerEmitter) Emit(record Record) {
	// Timers check Enabled before building a record, but component boundaries
	// should not rely on callers doing so.
	if !le.Enabled(record.Level) {
		return
	}

	le.logger.WithPrefix(record.Phase.String()).Log(
		record.Level,
		record.Message,
		"module", record.Site.Module,
		"caller", record.Site.String(),
	)
}

// defaultEmitter routes records through whatever the process-wide default
// logger is at emission time.
type defaultEmitter struct{}

func (defaultEmitter) Enabled(level log.Level) bool {
	return level < neverLevel && level >= log.GetLevel()
}

func (defaultEmitter) Emit(record Record) {
	NewLoggerEmitter(log.Default()).Emit(record)
}

// DefaultEmitter returns the emitter used by timers that were not given a
// logger or emitter explicitly.
func DefaultEmitter() Emitter {
	return defaultEmitter{}
}
