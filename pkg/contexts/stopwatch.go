package contexts

import "time"

// Stopwatch is a bare start-time capture for call sites that want a runtime
// keyval on ordinary log records rather than the phase records a timer emits.
type Stopwatch struct {
	StartTime time.Time
}

func NewStopwatch() *Stopwatch {
	return &Stopwatch{
		StartTime: time.Now(),
	}
}

func (s *Stopwatch) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// Keyval returns a deferred "runtime" keyval. The elapsed time is sampled
// when the record is written, not when the keyval is built.
func (s *Stopwatch) Keyval() *DeferredKeyval {
	return NewDeferredKeyval("runtime", func() interface{} {
		return s.Elapsed()
	})
}
