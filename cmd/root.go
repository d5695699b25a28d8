package cmd

import (
	"fmt"
	"html"
	"os"

	"github.com/gravitational/trace"
	"github.com/solidDoWant/logging-timer/cmd/demo"
	"github.com/solidDoWant/logging-timer/pkg/constants"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   constants.ToolName,
	Short: "A library and demo tool for logging how long things take",
}

func Execute() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(demo.GetDemoCommand())

	if err := rootCmd.Execute(); err != nil {
		report := trace.DebugReport(err)
		// This isn't ideal but because the upstream library HTML escapes template chars,
		// they need to be "unescaped" for readability here. TODO replace this lib.
		report = html.UnescapeString(report)
		fmt.Fprintln(os.Stderr, report)
		os.Exit(1)
	}
}
