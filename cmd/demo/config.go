package demo

// ScenarioConfig describes a single timed scenario to run. Zero values mean
// "use the library default" so that a config file only needs to spell out
// what differs from a plain silent debug timer.
type ScenarioConfig struct {
	Name              string `yaml:"name" jsonschema:"required"`
	Severity          string `yaml:"severity,omitempty"`
	Announced         bool   `yaml:"announced,omitempty"`
	ExtraInfo         string `yaml:"extraInfo,omitempty"`
	Steps             int    `yaml:"steps,omitempty"`
	PauseMilliseconds int    `yaml:"pauseMilliseconds,omitempty"`
	FinishMessage     string `yaml:"finishMessage,omitempty"`
}

type DemoConfig struct {
	Scenarios []ScenarioConfig `yaml:"scenarios" jsonschema:"required"`
}

// builtinDemo covers every timer feature: silent and announced timers, per
// timer severities, extra info, progress records, and custom completion
// messages.
func builtinDemo() DemoConfig {
	return DemoConfig{
		Scenarios: []ScenarioConfig{
			{
				Name: "NAMED_TIMER",
			},
			{
				Name:      "NAMED_S_TIMER",
				Announced: true,
			},
			{
				Name:              "S_TIMER_INTER_FINAL",
				Announced:         true,
				Steps:             2,
				PauseMilliseconds: 10,
			},
			{
				Name:              "S_TIMER_INTER_NOFINAL",
				Announced:         true,
				Steps:             2,
				PauseMilliseconds: 10,
				FinishMessage:     "All done. Frobbed 5 widgets.",
			},
			{
				Name:      "TIMER_AT_INFO",
				Severity:  "info",
				ExtraInfo: "Got 5 widgets",
			},
			{
				Name:     "TIMER_AT_WARN",
				Severity: "warn",
			},
			{
				Name:      "S_TIMER_AT_ERROR",
				Severity:  "error",
				Announced: true,
				ExtraInfo: "more info",
			},
			{
				Name:              "EXEC_WITH_ARGS",
				Announced:         true,
				ExtraInfo:         "Expecting to process 20 widgets",
				Steps:             3,
				PauseMilliseconds: 5,
			},
			{
				Name:              "FINISH_WITH_ARGS",
				Announced:         true,
				ExtraInfo:         "Expecting to process 20 widgets",
				Steps:             2,
				PauseMilliseconds: 5,
				FinishMessage:     "Done. Processed 20 widgets",
			},
		},
	}
}
