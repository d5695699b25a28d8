package timer

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/gravitational/trace"
)

// nameMarker is the substitution point in a FuncTimer name pattern. It is
// replaced with the wrapped function's name.
const nameMarker = "{}"

// FuncTimer wraps function values so that each call runs under its own timer,
// finished on every exit path. Build one with NewTimedFunc (silent start) or
// NewAnnouncedTimedFunc (announced start); both accept up to two
// configuration arguments:
//
//	()                     debug severity, the function name as the timer name
//	("info")               a severity name, or "never" to disable entirely
//	("Loader::{}")         a name pattern; {} is replaced by the function name
//	("info", "Load::{}")   severity followed by pattern
//
// Misconfigurations are reported when the FuncTimer is built, never when the
// wrapped function runs.
type FuncTimer struct {
	severity Severity
	pattern  string
	announce bool
}

// NewTimedFunc builds a FuncTimer whose timers log only a finished record.
func NewTimedFunc(args ...string) (*FuncTimer, error) {
	return newFuncTimer(false, args)
}

// NewAnnouncedTimedFunc builds a FuncTimer whose timers log a starting record
// on entry as well as a finished record.
func NewAnnouncedTimedFunc(args ...string) (*FuncTimer, error) {
	return newFuncTimer(true, args)
}

func newFuncTimer(announce bool, args []string) (*FuncTimer, error) {
	ft := &FuncTimer{
		severity: DefaultSeverity,
		pattern:  nameMarker,
		announce: announce,
	}

	switch len(args) {
	case 0:
	case 1:
		// A single argument is a severity if it parses as one, and a name
		// pattern otherwise.
		if severity, err := ParseSeverity(args[0]); err == nil {
			ft.severity = severity
		} else {
			ft.pattern = args[0]
		}
	case 2:
		if strings.Contains(args[0], nameMarker) {
			return nil, trace.BadParameter("first argument %q looks like a name pattern, expected a severity followed by a name pattern", args[0])
		}

		severity, err := ParseSeverity(args[0])
		if err != nil {
			return nil, trace.Wrap(err, "the first of two arguments must be a severity")
		}

		ft.severity = severity
		ft.pattern = args[1]
	default:
		return nil, trace.BadParameter("expected at most two arguments (a severity and/or a name pattern), got %d", len(args))
	}

	if strings.Count(ft.pattern, nameMarker) > 1 {
		return nil, trace.BadParameter("name pattern %q must contain at most one %q marker", ft.pattern, nameMarker)
	}

	return ft, nil
}

// Severity returns the severity that wrapped calls are timed at.
func (ft *FuncTimer) Severity() Severity {
	return ft.severity
}

// TimerName resolves the configured pattern against a function value's name.
// Patterns without a marker are used verbatim.
func (ft *FuncTimer) TimerName(fn interface{}) string {
	return strings.ReplaceAll(ft.pattern, nameMarker, funcName(fn))
}

// Wrap returns fn with each call timed. With the never severity the original
// function value is returned untouched, so the wrapped and unwrapped
// functions are indistinguishable and the wrapping costs nothing at runtime.
//
// Timer options may be supplied for routing (WithLogger, WithEmitter); a
// WithSeverity option here overrides the FuncTimer's configured severity.
func (ft *FuncTimer) Wrap(fn func(), options ...Option) func() {
	if ft.severity == SeverityNever {
		return fn
	}

	name := ft.TimerName(fn)
	options = ft.timerOptions(options)
	return func() {
		tmr := newTimer(ft.announce, name, options)
		defer tmr.Finish()
		fn()
	}
}

// WrapErr is Wrap for functions that return an error.
func (ft *FuncTimer) WrapErr(fn func() error, options ...Option) func() error {
	if ft.severity == SeverityNever {
		return fn
	}

	name := ft.TimerName(fn)
	options = ft.timerOptions(options)
	return func() error {
		tmr := newTimer(ft.announce, name, options)
		defer tmr.Finish()
		return fn()
	}
}

// WrapResult is Wrap for functions that return a value. It is a free function
// because Go methods cannot introduce their own type parameters.
func WrapResult[T any](ft *FuncTimer, fn func() T, options ...Option) func() T {
	if ft.severity == SeverityNever {
		return fn
	}

	name := ft.TimerName(fn)
	options = ft.timerOptions(options)
	return func() T {
		tmr := newTimer(ft.announce, name, options)
		defer tmr.Finish()
		return fn()
	}
}

// WrapResultErr is Wrap for functions that return a value and an error.
func WrapResultErr[T any](ft *FuncTimer, fn func() (T, error), options ...Option) func() (T, error) {
	if ft.severity == SeverityNever {
		return fn
	}

	name := ft.TimerName(fn)
	options = ft.timerOptions(options)
	return func() (T, error) {
		tmr := newTimer(ft.announce, name, options)
		defer tmr.Finish()
		return fn()
	}
}

func (ft *FuncTimer) timerOptions(options []Option) []Option {
	return append([]Option{WithSeverity(ft.severity)}, options...)
}

// funcName returns the bare name of a function value: "Load" from
// "github.com/example/pkg.Load". Method values lose their "-fm" suffix, and
// closures come out as their compiler-assigned "funcN" name; callers who care
// about closure names should pass an explicit pattern instead.
func funcName(fn interface{}) string {
	value := reflect.ValueOf(fn)
	if value.Kind() != reflect.Func || value.IsNil() {
		return "func"
	}

	rf := runtime.FuncForPC(value.Pointer())
	if rf == nil {
		return "func"
	}

	name := strings.TrimSuffix(rf.Name(), "-fm")
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
