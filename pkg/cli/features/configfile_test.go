package features

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testScenario struct {
	Name  string `yaml:"name" jsonschema:"required"`
	Steps int    `yaml:"steps,omitempty"`
}

type testConfig struct {
	Scenarios []testScenario `yaml:"scenarios" jsonschema:"required"`
}

func writeTestConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestConfigFileCommandConfigureFlags(t *testing.T) {
	cfc := &ConfigFileCommand[string]{} // Type does not matter here

	cmd := &cobra.Command{}
	cfc.ConfigureFlags(cmd)
	assert.True(t, cmd.Flags().HasAvailableFlags())
}

func TestConfigFileCommandProvided(t *testing.T) {
	cfc := &ConfigFileCommand[testConfig]{}
	assert.False(t, cfc.Provided())

	cfc.ConfigFilePath = "some/path.yaml"
	assert.True(t, cfc.Provided())
}

func TestReadConfigFile(t *testing.T) {
	tests := []struct {
		desc        string
		contents    string
		errExpected bool
	}{
		{
			desc: "valid config",
			contents: `scenarios:
  - name: FIND_FILES
    steps: 2
  - name: MAIN
`,
		},
		{
			desc: "missing required field",
			contents: `scenarios:
  - steps: 2
`,
			errExpected: true,
		},
		{
			desc: "unknown field rejected by strict decoding",
			contents: `scenarios: []
unknown: true
`,
			errExpected: true,
		},
		{
			desc:        "not yaml",
			contents:    `{{{`,
			errExpected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			cfc := &ConfigFileCommand[testConfig]{
				ConfigFilePath: writeTestConfigFile(t, tt.contents),
			}

			config, err := cfc.ReadConfigFile(context.Background())
			if tt.errExpected {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Len(t, config.Scenarios, 2)
			assert.Equal(t, "FIND_FILES", config.Scenarios[0].Name)
			assert.Equal(t, 2, config.Scenarios[0].Steps)
		})
	}
}

func TestTranslatedSliceFieldsGetDiveRule(t *testing.T) {
	translated, err := newTranslatedConfigStruct[testConfig]()
	require.NoError(t, err)

	scenariosField, ok := reflect.TypeOf(translated).FieldByName("Scenarios")
	require.True(t, ok)
	assert.Equal(t, "required,dive", scenariosField.Tag.Get(validationTagName))

	nameField, ok := scenariosField.Type.Elem().FieldByName("Name")
	require.True(t, ok)
	assert.Equal(t, "required", nameField.Tag.Get(validationTagName))
}

func TestReadConfigFileMissingFile(t *testing.T) {
	cfc := &ConfigFileCommand[testConfig]{
		ConfigFilePath: filepath.Join(t.TempDir(), "does-not-exist.yaml"),
	}

	_, err := cfc.ReadConfigFile(context.Background())
	require.Error(t, err)
}

func TestGenerateConfigSchema(t *testing.T) {
	cfc := &ConfigFileCommand[testConfig]{}
	generatedSchema, err := cfc.GenerateConfigSchema()
	require.NoError(t, err)

	schema := string(generatedSchema)
	assert.Contains(t, schema, `"required":["Name"]`)
	assert.Contains(t, schema, "testScenario")
	assert.Contains(t, schema, "testConfig")
}
