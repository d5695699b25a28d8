package contexts

import (
	"context"
	"time"
)

// Context bundles a request context with the logger that timing records
// should flow to. Nearly every instrumented call site needs both, so grouping
// them reduces the number of values threaded through the codebase.
type Context struct {
	context.Context
	Log *LoggerContext
}

func NewContext(ctx context.Context) *Context {
	return &Context{
		Context: ctx,
		Log:     NewLoggerContext(nullLogger),
	}
}

// Important: this is a shallow copy, so changes to nested values will be seen
// in the original context. Changing the field values themselves will not be.
func (c *Context) ShallowCopy() *Context {
	// Go is copy by value, so passing the dereferenced value makes a shallow
	// copy of it.
	return func(c Context) *Context {
		return &c
	}(*c)
}

func (c *Context) WithLogger(logger *LoggerContext) *Context {
	c.Log = logger
	return c
}

// WithTimeout returns a copy of the context that is canceled after the given
// timeout. A timeout of zero means no deadline, only cancellation.
func (c *Context) WithTimeout(timeout time.Duration) (*Context, context.CancelFunc) {
	var ctx context.Context
	var cancel context.CancelFunc
	if timeout == 0 {
		ctx, cancel = context.WithCancel(c.Context)
	} else {
		ctx, cancel = context.WithTimeout(c.Context, timeout)
	}

	copiedCtx := c.ShallowCopy()
	copiedCtx.Context = ctx

	return copiedCtx, cancel
}
