package constants

import "strings"

// Despite the package name these are vars, so that they can be updated at link time.
var (
	ToolName       = "logging-timer"
	Version        = "v0.0.1-dev"
	ReleaseVersion = strings.TrimPrefix(Version, "v")
)
