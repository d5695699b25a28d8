package timer

import (
	"fmt"
	"runtime"
	"strings"
)

// CallSite locates the line of code where a timer was constructed. It is
// captured once, at construction, and attached to every record the timer
// emits so that output can be traced back to the instrumented code.
type CallSite struct {
	File   string
	Module string
	Line   int
}

func (cs CallSite) String() string {
	return fmt.Sprintf("%s:%d", cs.File, cs.Line)
}

// callerSite captures the call site skip frames above the function calling
// callerSite. A skip of 0 captures the direct caller.
func callerSite(skip int) CallSite {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallSite{File: "unknown"}
	}

	return CallSite{
		File:   file,
		Module: modulePath(pc),
		Line:   line,
	}
}

// modulePath extracts the import path of the package containing pc, i.e.
// "github.com/solidDoWant/logging-timer/pkg/timer" from the function name
// "github.com/solidDoWant/logging-timer/pkg/timer.Start".
func modulePath(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}

	name := fn.Name()
	// The package path ends at the first '.' after the last '/'. Everything
	// before the last '/' is immune to '.' splitting (e.g. "github.com").
	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	if dot < 0 {
		return name
	}
	return name[:slash+1+dot]
}
