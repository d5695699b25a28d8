package demo

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gravitational/trace"
	"github.com/samber/lo"
	"github.com/solidDoWant/logging-timer/pkg/cli/features"
	"github.com/solidDoWant/logging-timer/pkg/contexts"
	"github.com/solidDoWant/logging-timer/pkg/timer"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DemoCommand exercises the timer library end to end against a real logger.
// Scenarios come from a config file when one is provided, and from a built-in
// set covering every feature otherwise.
type DemoCommand struct {
	commandContext features.ContextCommandInterface
	configFile     features.ConfigFileCommand[DemoConfig]
}

func NewDemoCommand() *DemoCommand {
	return &DemoCommand{
		commandContext: features.NewContextCommand(true),
	}
}

func (dc *DemoCommand) ConfigureFlags(cmd *cobra.Command) {
	dc.commandContext.ConfigureFlags(cmd)
	dc.configFile.ConfigureFlags(cmd)
}

func (dc *DemoCommand) GenerateConfigSchema() ([]byte, error) {
	return dc.configFile.GenerateConfigSchema()
}

func (dc *DemoCommand) Run() error {
	ctx, cancel := dc.commandContext.GetCommandContext()
	defer cancel()

	config := builtinDemo()
	if dc.configFile.Provided() {
		var err error
		config, err = dc.configFile.ReadConfigFile(ctx)
		if err != nil {
			return trace.Wrap(err, "failed to read demo configuration from file")
		}
	}

	return trace.Wrap(dc.runScenarios(ctx, config), "failed to run demo scenarios")
}

func (dc *DemoCommand) runScenarios(ctx *contexts.Context, config DemoConfig) (err error) {
	stopwatch := contexts.NewStopwatch()
	defer func() {
		ctx.Log.Info("Demo scenarios complete", stopwatch.Keyval(), contexts.ErrorKeyvals(&err))
	}()

	mainTimer := ctx.StartAnnouncedTimer("MAIN", timer.WithSeverity(timer.SeverityError))
	defer mainTimer.Finish()

	ctx.Log.Info("Running demo scenarios", "scenarios", lo.Map(config.Scenarios, func(scenario ScenarioConfig, _ int) string {
		return scenario.Name
	}))

	for _, scenario := range config.Scenarios {
		if err := ctx.Err(); err != nil {
			return trace.Wrap(err, "demo canceled")
		}

		ctx.Log.Info(displayName(scenario.Name) + " scenario")
		if err := runScenario(ctx, scenario); err != nil {
			return trace.Wrap(err, "failed to run scenario %q", scenario.Name)
		}
	}

	return trace.Wrap(runWrappedFunctions(ctx), "failed to run the wrapped function scenarios")
}

func runScenario(ctx *contexts.Context, scenario ScenarioConfig) error {
	options, err := scenarioOptions(scenario)
	if err != nil {
		return trace.Wrap(err, "failed to build timer options")
	}

	var tmr *timer.Timer
	if scenario.Announced {
		tmr = ctx.StartAnnouncedTimer(scenario.Name, options...)
	} else {
		tmr = ctx.StartTimer(scenario.Name, options...)
	}
	defer tmr.Finish()

	for step := range scenario.Steps {
		if err := pause(ctx, scenario.PauseMilliseconds); err != nil {
			return trace.Wrap(err, "failed to wait between steps")
		}
		tmr.Progressf("completed step %d of %d", step+1, scenario.Steps)
	}

	if err := pause(ctx, scenario.PauseMilliseconds); err != nil {
		return trace.Wrap(err, "failed to wait before finishing")
	}

	if scenario.FinishMessage != "" {
		tmr.Finishf("%s", scenario.FinishMessage)
	}
	// The deferred call covers the no-message case, and is a noop when
	// Finishf already ran.

	return nil
}

func scenarioOptions(scenario ScenarioConfig) ([]timer.Option, error) {
	var options []timer.Option

	if scenario.Severity != "" {
		severity, err := timer.ParseSeverity(scenario.Severity)
		if err != nil {
			return nil, trace.Wrap(err, "failed to parse scenario severity")
		}
		options = append(options, timer.WithSeverity(severity))
	}

	if scenario.ExtraInfo != "" {
		options = append(options, timer.WithExtraInfof("%s", scenario.ExtraInfo))
	}

	return options, nil
}

// runWrappedFunctions demonstrates the FuncTimer configurations: default,
// severity only, severity plus pattern, pattern only, a verbatim pattern
// without a marker, and "never" (which logs nothing at all).
func runWrappedFunctions(ctx *contexts.Context) error {
	wrapperArgs := [][]string{
		{},
		{"warn"},
		{"warn", "FirstStruct::{}"},
		{"SecondStruct::{}/blah"},
		{"NOBRACKETS"},
		{"never", "ComplexPattern::{}::Unused"},
	}

	routing := timer.WithLogger(ctx.Log.Logger)
	for _, args := range wrapperArgs {
		funcTimer, err := timer.NewAnnouncedTimedFunc(args...)
		if err != nil {
			return trace.Wrap(err, "failed to build a timed function wrapper from %v", args)
		}

		funcTimer.Wrap(frobWidgets, routing)()
	}

	return nil
}

func frobWidgets() {
	time.Sleep(time.Millisecond)
}

// displayName turns a SCREAMING_SNAKE scenario name into a readable heading.
func displayName(name string) string {
	return cases.Title(language.Und).String(strings.ToLower(strings.ReplaceAll(name, "_", " ")))
}

func pause(ctx *contexts.Context, milliseconds int) error {
	if milliseconds <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return trace.Wrap(ctx.Err(), "demo canceled")
	case <-time.After(time.Duration(milliseconds) * time.Millisecond):
		return nil
	}
}

func buildGenerateConfigSchemaCommand(dc *DemoCommand, outputWriter io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "gen-config-schema",
		Short: "Generate the demo configuration file schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := dc.GenerateConfigSchema()
			if err != nil {
				return trace.Wrap(err, "failed to generate config schema")
			}

			_, err = io.Copy(outputWriter, bytes.NewReader(schema))
			return trace.Wrap(err, "failed to write config schema to stdout")
		},
		SilenceUsage: true,
	}
}

func GetDemoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run timed demo scenarios against a real logger",
	}

	demoCommand := NewDemoCommand()
	runCommand := &cobra.Command{
		Use:   "run",
		Short: "Run the demo scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			return demoCommand.Run()
		},
		SilenceUsage: true,
	}
	demoCommand.ConfigureFlags(runCommand)

	cmd.AddCommand(runCommand)
	cmd.AddCommand(buildGenerateConfigSchemaCommand(demoCommand, os.Stdout))

	return cmd
}
