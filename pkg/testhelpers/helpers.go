package testhelpers

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/fatih/structtag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// This are just minor helpers to clean up the test code a bit
// No major logic should be added to this package. Typically functions should
// be just a few lines long.

func ValOrDefault[T comparable](val T, defaultVal T) T {
	var defaultValForComparison T

	if val == defaultValForComparison {
		return defaultVal
	}
	return val
}

type runnableTB interface {
	testing.TB
	Run(name string, f func(t *testing.T)) bool
}

// ConfigStructTest verifies that every exported field of a config struct
// follows the file format conventions: a camel case YAML name, or an empty
// name on inlined fields.
func ConfigStructTest[T interface{}](t runnableTB) {
	var defaultVal T
	reflectType := reflect.TypeOf(defaultVal)

	fieldCount := reflectType.NumField()
	for fieldNum := range fieldCount {
		field := reflectType.Field(fieldNum)
		if !field.IsExported() {
			continue
		}

		t.Run(
			fmt.Sprintf("Test %s field", field.Name),
			func(t *testing.T) {
				tags, err := structtag.Parse(string(field.Tag))
				require.NoError(t, err)

				// YAML name must be set using YAML convention (camel case)
				assert.Contains(t, tags.Keys(), "yaml")
				yamlTag, err := tags.Get("yaml")
				require.NoError(t, err)
				if yamlTag.HasOption("inline") {
					assert.Empty(t, yamlTag.Name)
				} else {
					assert.NotEmpty(t, yamlTag.Name)
					assert.Regexp(t, "^[a-z]+[A-Za-z]*$", yamlTag.Name)
				}
			},
		)
	}
}
