package contexts

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// This is a global logger that can be used when an initialized logger is
// needed, but no information about it has been specified. This is a good
// default value for *log.Logger fields.
var nullLogger = log.NewWithOptions(io.Discard, log.Options{
	Level: log.FatalLevel,
})

type DeferredKeyvalInterface interface {
	Keyval() []interface{}
}

// DeferredKeyval delays computing a log value until the record it belongs to
// is actually written, so that disabled levels pay nothing for it.
type DeferredKeyval struct {
	Key   string
	Value func() interface{}
}

func NewDeferredKeyval(key string, value func() interface{}) *DeferredKeyval {
	return &DeferredKeyval{
		Key:   key,
		Value: value,
	}
}

func (dk *DeferredKeyval) Keyval() []interface{} {
	return []interface{}{dk.Key, dk.Value()}
}

type deferredErrorKeyvals struct {
	err *error
}

func (dek *deferredErrorKeyvals) Keyval() []interface{} {
	if dek.err == nil || *dek.err == nil {
		return nil
	}

	return []interface{}{"error", *dek.err}
}

// ErrorKeyvals creates a common keyval for a future error. If the error is
// nil, the keyval will be omitted entirely.
func ErrorKeyvals(err *error) DeferredKeyvalInterface {
	return &deferredErrorKeyvals{err: err}
}

// LoggerContext is a charm logger carrying a scope name for nested timed
// regions. Child scopes render as "parent::child" ahead of every message,
// which keeps the output of nested timers attributable without a span tree.
type LoggerContext struct {
	*log.Logger
	mu    *sync.RWMutex
	scope string
}

func NewLoggerContext(logger *log.Logger) *LoggerContext {
	return &LoggerContext{
		Logger: logger,
		mu:     &sync.RWMutex{},
	}
}

// Scope creates a new logger context for a region nested inside this one.
func (lc *LoggerContext) Scope(name string) *LoggerContext {
	lc.mu.RLock()
	parentScope := lc.scope
	lc.mu.RUnlock()

	child := NewLoggerContext(lc.Logger.With())
	child.scope = joinScopes(parentScope, name)
	return child
}

func (lc *LoggerContext) GetScope() string {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.scope
}

func (lc *LoggerContext) SetScope(scope string) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.scope = scope
}

// With is a simple wrapper for the underlying logger `With` that returns the
// logger context.
func (lc *LoggerContext) With(keyvals ...interface{}) *LoggerContext {
	lc.Logger = lc.Logger.With(keyvals...)
	return lc
}

func joinScopes(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "::" + child
}

// processDeferredKeyvals takes a slice of keyvals and expands any
// DeferredKeyvals, returning a new slice. Order is preserved.
func processDeferredKeyvals(keyvals []interface{}) []interface{} {
	processedKeyvals := make([]interface{}, 0, len(keyvals))
	for _, keyval := range keyvals {
		if dk, ok := keyval.(DeferredKeyvalInterface); ok {
			processedKeyvals = append(processedKeyvals, dk.Keyval()...)
		} else {
			processedKeyvals = append(processedKeyvals, keyval)
		}
	}
	return processedKeyvals
}

// processLogfCall changes logf-style parameters as needed to support the
// custom functionality of this logger: deferred keyval expansion and the
// scope prefix.
func (lc *LoggerContext) processLogfCall(msg string, args []interface{}) (string, []interface{}) {
	args = processDeferredKeyvals(args)
	scope := lc.GetScope()
	if scope != "" {
		msg = fmt.Sprintf("%s %s", scope, msg)
	}
	return msg, args
}

// processLogCall is processLogfCall for log-style calls (a message value and
// a slice of keyvals).
func (lc *LoggerContext) processLogCall(msg interface{}, keyvals []interface{}) (interface{}, []interface{}) {
	formattedMessage := ""
	if msg != nil {
		formattedMessage = fmt.Sprint(msg)
	}

	return lc.processLogfCall(formattedMessage, keyvals)
}

// These are all basically the same function, but are needed to override the
// log.Logger methods. Unfortunately, the logger library doesn't provide a
// "hook" for this, which would greatly reduce the boilerplate code here.

func (lc *LoggerContext) Log(level log.Level, msg interface{}, keyvals ...interface{}) {
	lc.Helper() // Needed so that the formatter uses the correct stack frame
	msg, keyvals = lc.processLogCall(msg, keyvals)
	lc.Logger.Log(level, msg, keyvals...)
}

func (lc *LoggerContext) Debug(msg interface{}, keyvals ...interface{}) {
	lc.Helper()
	msg, keyvals = lc.processLogCall(msg, keyvals)
	lc.Logger.Debug(msg, keyvals...)
}

func (lc *LoggerContext) Info(msg interface{}, keyvals ...interface{}) {
	lc.Helper()
	msg, keyvals = lc.processLogCall(msg, keyvals)
	lc.Logger.Info(msg, keyvals...)
}

func (lc *LoggerContext) Warn(msg interface{}, keyvals ...interface{}) {
	lc.Helper()
	msg, keyvals = lc.processLogCall(msg, keyvals)
	lc.Logger.Warn(msg, keyvals...)
}

func (lc *LoggerContext) Error(msg interface{}, keyvals ...interface{}) {
	lc.Helper()
	msg, keyvals = lc.processLogCall(msg, keyvals)
	lc.Logger.Error(msg, keyvals...)
}

func (lc *LoggerContext) Fatal(msg interface{}, keyvals ...interface{}) {
	lc.Helper()
	msg, keyvals = lc.processLogCall(msg, keyvals)
	lc.Logger.Fatal(msg, keyvals...)
}

func (lc *LoggerContext) Print(msg interface{}, keyvals ...interface{}) {
	lc.Helper()
	msg, keyvals = lc.processLogCall(msg, keyvals)
	lc.Logger.Print(msg, keyvals...)
}

func (lc *LoggerContext) Logf(level log.Level, format string, args ...interface{}) {
	lc.Helper()
	format, args = lc.processLogfCall(format, args)
	lc.Logger.Logf(level, format, args...)
}

func (lc *LoggerContext) Debugf(format string, args ...interface{}) {
	lc.Helper()
	format, args = lc.processLogfCall(format, args)
	lc.Logger.Debugf(format, args...)
}

func (lc *LoggerContext) Infof(format string, args ...interface{}) {
	lc.Helper()
	format, args = lc.processLogfCall(format, args)
	lc.Logger.Infof(format, args...)
}

func (lc *LoggerContext) Warnf(format string, args ...interface{}) {
	lc.Helper()
	format, args = lc.processLogfCall(format, args)
	lc.Logger.Warnf(format, args...)
}

func (lc *LoggerContext) Errorf(format string, args ...interface{}) {
	lc.Helper()
	format, args = lc.processLogfCall(format, args)
	lc.Logger.Errorf(format, args...)
}

func (lc *LoggerContext) Fatalf(format string, args ...interface{}) {
	lc.Helper()
	format, args = lc.processLogfCall(format, args)
	lc.Logger.Fatalf(format, args...)
}

func (lc *LoggerContext) Printf(format string, args ...interface{}) {
	lc.Helper()
	format, args = lc.processLogfCall(format, args)
	lc.Logger.Printf(format, args...)
}
