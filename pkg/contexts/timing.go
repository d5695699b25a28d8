package contexts

import (
	"github.com/solidDoWant/logging-timer/pkg/timer"
)

// StartTimer opens a silent timer named under the logger's current scope and
// wired to the context's logger. Options are passed through and may override
// the routing or severity.
func (c *Context) StartTimer(name string, options ...timer.Option) *timer.Timer {
	return timer.Start(joinScopes(c.Log.GetScope(), name), c.timerOptions(options)...)
}

// StartAnnouncedTimer is StartTimer plus a starting record.
func (c *Context) StartAnnouncedTimer(name string, options ...timer.Option) *timer.Timer {
	return timer.StartAnnounced(joinScopes(c.Log.GetScope(), name), c.timerOptions(options)...)
}

func (c *Context) timerOptions(options []timer.Option) []timer.Option {
	return append([]timer.Option{
		timer.WithLogger(c.Log.Logger),
		// Records should point at the code that called into this context, not
		// at this file.
		timer.WithCallerSkip(1),
	}, options...)
}
