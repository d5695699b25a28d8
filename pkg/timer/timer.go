package timer

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

// Timer measures the wall-clock time of one scoped region of code, usually a
// function body, and logs records at its start, progress, and finish points.
//
// A nil *Timer is a valid, fully inert timer. Constructors return nil when
// the requested severity is not enabled, so disabled call sites pay for a
// single level check and nothing else.
//
// The single finished record is guaranteed across both the explicit and the
// scope-exit completion path:
//
//	tmr := timer.Start("FIND_FILES")
//	defer tmr.Finish()
//	...
//	tmr.Progressf("found %d files so far", n)
type Timer struct {
	severity  Severity
	site      CallSite
	name      string
	extraInfo string
	start     time.Time
	finished  atomic.Bool
	emitter   Emitter
}

type timerOptions struct {
	severity    Severity
	emitter     Emitter
	callerSkip  int
	extraFormat string
	extraArgs   []interface{}
	hasExtra    bool
}

// Option configures a timer at construction.
type Option func(*timerOptions)

// WithSeverity sets the level that every record from the timer is logged at.
// Defaults to debug.
func WithSeverity(severity Severity) Option {
	return func(opts *timerOptions) {
		opts.severity = severity
	}
}

// WithExtraInfof attaches supplementary text to every record from the timer.
// The text is formatted exactly once, at construction, and only if the
// timer's severity is enabled.
func WithExtraInfof(format string, args ...interface{}) Option {
	return func(opts *timerOptions) {
		opts.extraFormat = format
		opts.extraArgs = args
		opts.hasExtra = true
	}
}

// WithEmitter routes the timer's records to a specific emitter instead of the
// process default logger.
func WithEmitter(emitter Emitter) Option {
	return func(opts *timerOptions) {
		opts.emitter = emitter
	}
}

// WithLogger routes the timer's records to a specific charm logger.
func WithLogger(logger *log.Logger) Option {
	return func(opts *timerOptions) {
		opts.emitter = NewLoggerEmitter(logger)
	}
}

// WithCallerSkip widens call-site capture by the given number of stack
// frames. Helpers that construct timers on behalf of their own callers need
// this so that records point at user code rather than the helper.
func WithCallerSkip(skip int) Option {
	return func(opts *timerOptions) {
		opts.callerSkip = skip
	}
}

// Start returns a running timer that logs a single record when it finishes.
// Use StartAnnounced instead to also get a record at construction.
func Start(name string, options ...Option) *Timer {
	return newTimer(false, name, options)
}

// StartAnnounced is Start plus one starting record, emitted synchronously
// before it returns. The start time is captured before the announcement so
// the announcement's own cost is excluded from the reported duration.
func StartAnnounced(name string, options ...Option) *Timer {
	return newTimer(true, name, options)
}

// Scope starts a silent timer and returns the function that finishes it, for
// one-line deferred scopes:
//
//	defer timer.Scope("LOAD_CONFIG")()
func Scope(name string, options ...Option) func() {
	tmr := newTimer(false, name, options)
	return func() {
		tmr.Finish()
	}
}

// newTimer must only be called from exported functions in this package that
// are themselves called directly by the instrumented code, so that the
// captured call site lands on the caller's frame.
func newTimer(announce bool, name string, options []Option) *Timer {
	// Capture the start time before anything else. Option handling, call-site
	// capture, and the announcement all take time that must not count toward
	// the reported duration.
	start := time.Now()

	opts := timerOptions{
		severity: DefaultSeverity,
		emitter:  DefaultEmitter(),
	}
	for _, option := range options {
		option(&opts)
	}

	if opts.severity == SeverityNever || !opts.emitter.Enabled(opts.severity.LogLevel()) {
		return nil
	}

	tmr := &Timer{
		severity: opts.severity,
		site:     callerSite(opts.callerSkip + 2),
		name:     name,
		start:    start,
		emitter:  opts.emitter,
	}

	if opts.hasExtra {
		tmr.extraInfo = fmt.Sprintf(opts.extraFormat, opts.extraArgs...)
	}

	if announce {
		tmr.emit(PhaseStarting, "")
	}

	return tmr
}

// Name returns the human-chosen name the timer reports under.
func (t *Timer) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Site returns the call site captured when the timer was constructed.
func (t *Timer) Site() CallSite {
	if t == nil {
		return CallSite{}
	}
	return t.site
}

// Elapsed returns how long the timer has been running. It is pure and can be
// called any number of times. Nil timers report zero.
func (t *Timer) Elapsed() time.Duration {
	if t == nil {
		return 0
	}
	return time.Since(t.start)
}

// Finished reports whether the timer has already logged its finished record.
func (t *Timer) Finished() bool {
	return t != nil && t.finished.Load()
}

// Progress logs an executing record carrying the current elapsed time. It can
// be called any number of times, and does not affect the finish state. After
// the timer has finished it logs nothing.
func (t *Timer) Progress() {
	t.progress("")
}

// Progressf is Progress with extra per-call text appended to the record.
func (t *Timer) Progressf(format string, args ...interface{}) {
	t.progress(format, args...)
}

func (t *Timer) progress(format string, args ...interface{}) {
	if t == nil || t.finished.Load() {
		return
	}
	t.emit(PhaseExecuting, format, args...)
}

// Finish logs the timer's single finished record, unless a finish has already
// happened. It is safe to call redundantly and concurrently; combined with a
// deferred call it gives scope-exit completion:
//
//	tmr := timer.Start("SYNC")
//	defer tmr.Finish()
func (t *Timer) Finish() {
	t.finish("")
}

// Finishf is Finish with extra per-call text appended to the record. If the
// timer has already finished, the text is discarded along with the record.
func (t *Timer) Finishf(format string, args ...interface{}) {
	t.finish(format, args...)
}

func (t *Timer) finish(format string, args ...interface{}) {
	if t == nil {
		return
	}

	// The check-then-set must be a single atomic operation so that an
	// explicit finish racing the deferred scope-exit finish resolves to
	// exactly one record, never zero or two.
	if !t.finished.CompareAndSwap(false, true) {
		return
	}

	t.emit(PhaseFinished, format, args...)
}

func (t *Timer) emit(phase Phase, format string, args ...interface{}) {
	// The emitter performs the same check before writing. This first gate
	// exists so that disabled severities skip message formatting entirely,
	// not just the write.
	if !t.emitter.Enabled(t.severity.LogLevel()) {
		return
	}

	extraArgs := ""
	if format != "" {
		extraArgs = fmt.Sprintf(format, args...)
	}

	t.emitter.Emit(Record{
		Level:   t.severity.LogLevel(),
		Phase:   phase,
		Site:    t.site,
		Message: t.message(phase, extraArgs),
	})
}

// message renders the record text. Field order is part of the contract: the
// name first, the elapsed time (absent for starting records, which have none
// worth reporting), then the construction-time extra info, then the per-call
// extra args. Absent segments are omitted entirely.
func (t *Timer) message(phase Phase, extraArgs string) string {
	elapsed := ""
	if phase != PhaseStarting {
		elapsed = "Elapsed=" + t.Elapsed().String()
	}

	return strings.Join(lo.Compact([]string{t.name, elapsed, t.extraInfo, extraArgs}), ", ")
}
