package timer

import (
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gravitational/trace"
)

// Severity classifies every record a timer emits. It is fixed when the timer
// is constructed and decides, together with the emitter's configured level,
// whether the timer produces any output at all.
type Severity int

const (
	// SeverityTrace sits below the logger's debug level. The default text
	// formatter has no label registered for TraceLevel, so trace records
	// render without a level tag unless the caller registers styles for it.
	SeverityTrace Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
	SeverityError
	// SeverityNever disables a timer entirely. It can never be enabled, no
	// matter how the logging backend is configured.
	SeverityNever
)

// DefaultSeverity is used when a timer is constructed without an explicit
// severity.
const DefaultSeverity = SeverityDebug

// TraceLevel is the log.Level that SeverityTrace maps onto. Loggers must be
// set at or below this level for trace timers to emit anything.
const TraceLevel = log.DebugLevel - 4

// neverLevel is the sentinel that SeverityNever maps onto. Emitters must
// report it as disabled regardless of their configured threshold; a plain
// ">= threshold" comparison would report the opposite.
const neverLevel = log.Level(math.MaxInt32)

var severityNames = map[Severity]string{
	SeverityTrace: "trace",
	SeverityDebug: "debug",
	SeverityInfo:  "info",
	SeverityWarn:  "warn",
	SeverityError: "error",
	SeverityNever: "never",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

// LogLevel returns the logging backend level that records at this severity
// are emitted at. SeverityNever maps to a sentinel level that every emitter
// in this package reports as disabled.
func (s Severity) LogLevel() log.Level {
	switch s {
	case SeverityTrace:
		return TraceLevel
	case SeverityDebug:
		return log.DebugLevel
	case SeverityInfo:
		return log.InfoLevel
	case SeverityWarn:
		return log.WarnLevel
	case SeverityError:
		return log.ErrorLevel
	default:
		return neverLevel
	}
}

// ParseSeverity converts a severity name to a Severity. Matching is
// case-insensitive. Unknown names are reported as bad parameters so that
// misconfigurations fail fast rather than silently defaulting.
func ParseSeverity(name string) (Severity, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for severity, severityName := range severityNames {
		if severityName == normalized {
			return severity, nil
		}
	}

	return 0, trace.BadParameter("unknown severity %q, expected one of trace, debug, info, warn, error, never", name)
}
