package testhelpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValOrDefault(t *testing.T) {
	testVal := "test"
	defaultTestVal := "default"

	// Test with strings
	assert.Equal(t, testVal, ValOrDefault(testVal, defaultTestVal))
	assert.Equal(t, defaultTestVal, ValOrDefault("", defaultTestVal))
	assert.Equal(t, "", ValOrDefault("", ""))

	// Test with pointers
	assert.Equal(t, &testVal, ValOrDefault(&testVal, &defaultTestVal))
	assert.Equal(t, &defaultTestVal, ValOrDefault(nil, &defaultTestVal))
	assert.Equal(t, (*string)(nil), ValOrDefault[*string](nil, nil))
}

type exampleConfig struct {
	Name     string  `yaml:"name" jsonschema:"required"`
	Severity string  `yaml:"severity,omitempty"`
	Inlined  inlined `yaml:",inline"`
}

type inlined struct {
	Steps int `yaml:"steps,omitempty"`
}

func TestConfigStructTest(t *testing.T) {
	ConfigStructTest[exampleConfig](t)
}
