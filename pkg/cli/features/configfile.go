package features

import (
	"context"
	"os"
	"reflect"
	"slices"

	"github.com/fatih/structtag"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/gravitational/trace"
	"github.com/invopop/jsonschema"
	"github.com/jinzhu/copier"
	"github.com/spf13/cobra"
)

// ConfigFileCommand gets a config file path from the command line and reads
// the config file into a struct of type T. The struct is then validated using
// the "jsonschema" and "validate" tags. The flag is optional; callers that
// need to know whether one was supplied should check Provided.
type ConfigFileCommand[T interface{}] struct {
	ConfigFilePath string
}

func (cfc *ConfigFileCommand[T]) ConfigureFlags(cmd *cobra.Command) {
	const flagName = "config-file"
	cmd.Flags().StringVarP(&cfc.ConfigFilePath, flagName, "c", "", "Path to the configuration file to use.")
	cmd.MarkFlagFilename(flagName)
}

// Provided reports whether the user passed a config file path.
func (cfc *ConfigFileCommand[T]) Provided() bool {
	return cfc.ConfigFilePath != ""
}

const (
	jsonSchemaTagName = "jsonschema"
	validationTagName = "validate"
)

// appendValidateRule adds a rule to a field's "validate" tag, creating the
// tag when the field has none.
func appendValidateRule(field reflect.StructField, rule string) (reflect.StructField, error) {
	tags, err := structtag.Parse(string(field.Tag))
	if err != nil {
		return field, trace.Wrap(err, "failed to parse struct tags for field %q", field.Name)
	}

	var validatorTag *structtag.Tag
	if slices.Contains(tags.Keys(), validationTagName) {
		validatorTag, err = tags.Get(validationTagName)
		if err != nil {
			return field, trace.Wrap(err, "failed to get %s tag for field %q", validationTagName, field.Name)
		}
	}
	if validatorTag == nil {
		validatorTag = &structtag.Tag{
			Key: validationTagName,
		}
	}

	if validatorTag.Name == "" {
		validatorTag.Name = rule
	} else {
		validatorTag.Options = append(validatorTag.Options, rule)
	}

	err = tags.Set(validatorTag)
	if err != nil {
		// This should only occur if the key isn't set, but error checking is needed in case the upstream library changes
		return field, trace.Wrap(err, "failed to set %s tag for field %q", validationTagName, field.Name)
	}

	field.Tag = reflect.StructTag(tags.String())
	return field, nil
}

// processField updates a struct field's "validate" tag if its "jsonschema"
// tag is set to "required", so that one set of tags drives both schema
// generation and load-time validation.
func processField(field reflect.StructField) (reflect.StructField, error) {
	tags, err := structtag.Parse(string(field.Tag))
	if err != nil {
		return field, trace.Wrap(err, "failed to parse struct tags for field %q", field.Name)
	}

	if !slices.Contains(tags.Keys(), jsonSchemaTagName) {
		return field, nil
	}

	jsonSchemaTag, err := tags.Get(jsonSchemaTagName)
	if err != nil {
		// This shouldn't happen due to the keys check above, but error checking is needed in case
		// the upstream library changes
		return field, trace.Wrap(err, "failed to get %s tag for field %q", jsonSchemaTagName, field.Name)
	}

	if jsonSchemaTag == nil {
		return field, nil
	}

	shouldMarkRequired := jsonSchemaTag.Name == "required" || jsonSchemaTag.HasOption("required")
	if !shouldMarkRequired {
		return field, nil
	}

	return appendValidateRule(field, "required")
}

// translateJsonSchemaTagsToValidateTags builds a new struct type from
// reflectType with "jsonschema" tags translated to "validate" tags. Nested
// struct fields are translated recursively.
func translateJsonSchemaTagsToValidateTags(reflectType reflect.Type) (reflect.Type, error) {
	if reflectType.Kind() != reflect.Struct {
		return nil, trace.BadParameter("expected a struct type, got %q", reflectType.Kind())
	}

	fieldCount := reflectType.NumField()
	if fieldCount == 0 {
		// No need to create a new type without a concrete backing type
		return reflectType, nil
	}

	fields := make([]reflect.StructField, 0, fieldCount)
	for fieldNum := range fieldCount {
		field, err := processField(reflectType.Field(fieldNum))
		if err != nil {
			return nil, trace.Wrap(err, "failed to process field %q", field.Name)
		}

		fieldType := field.Type
		if fieldType.Kind() == reflect.Slice {
			fieldType = fieldType.Elem()
		}

		if fieldType.Kind() == reflect.Struct {
			translatedType, err := translateJsonSchemaTagsToValidateTags(fieldType)
			if err != nil {
				return nil, trace.Wrap(err, "failed to translate field %q", field.Name)
			}

			if field.Type.Kind() == reflect.Slice {
				field.Type = reflect.SliceOf(translatedType)
				// The validator only checks the elements of a slice field
				// when the field carries a "dive" rule.
				field, err = appendValidateRule(field, "dive")
				if err != nil {
					return nil, trace.Wrap(err, "failed to add dive rule to field %q", field.Name)
				}
			} else {
				field.Type = translatedType
			}
		}

		fields = append(fields, field)
	}

	translatedType := reflect.StructOf(fields)
	return translatedType, nil
}

// newTranslatedConfigStruct creates an instance of a new type mirroring T,
// with the "jsonschema" tags translated to "validate" tags. All field names
// are the same.
func newTranslatedConfigStruct[T interface{}]() (interface{}, error) {
	var defaultVal T
	reflectType := reflect.TypeOf(defaultVal)

	translatedType, err := translateJsonSchemaTagsToValidateTags(reflectType)
	if err != nil {
		return defaultVal, trace.Wrap(err, "failed to translate tags")
	}

	return reflect.New(translatedType).Elem().Interface(), nil
}

// validateConfig validates a set of configuration values using the "validate"
// tags. Some JSON schema tags are also supported.
func (cfc *ConfigFileCommand[T]) validateConfig(ctx context.Context, config T) error {
	translated, err := newTranslatedConfigStruct[T]()
	if err != nil {
		return trace.Wrap(err, "failed to translate jsonschema tags to validate tags")
	}

	// Copying the values from the original config to the translated config provides the
	// ability to validate the original config with JSON schema tag support, without modifying
	// the underlying type.
	err = copier.Copy(&translated, &config)
	if err != nil {
		return trace.Wrap(err, "failed to copy values from config to translated config")
	}

	configValidator := validator.New(validator.WithRequiredStructEnabled())
	return trace.Wrap(configValidator.StructCtx(ctx, translated))
}

// ReadConfigFile reads the configuration file provided via CLI flag,
// validates it, and returns the loaded configuration.
func (cfc *ConfigFileCommand[T]) ReadConfigFile(ctx context.Context) (T, error) {
	var defaultVal T

	configFileContents, err := os.ReadFile(cfc.ConfigFilePath)
	if err != nil {
		return defaultVal, trace.Wrap(err, "failed to read config file %q", cfc.ConfigFilePath)
	}

	config := *new(T)
	err = yaml.UnmarshalContext(ctx, configFileContents, &config, yaml.Strict(), yaml.AllowDuplicateMapKey())
	if err != nil {
		return defaultVal, trace.Wrap(err, "failed to unmarshal config file %q", cfc.ConfigFilePath)
	}

	err = cfc.validateConfig(ctx, config)
	if err != nil {
		return defaultVal, trace.Wrap(err, "failed to validate config file %q", cfc.ConfigFilePath)
	}

	return config, nil
}

func (cfc *ConfigFileCommand[T]) GenerateConfigSchema() ([]byte, error) {
	configInstance := new(T)
	schemaReflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
	}
	schema, err := schemaReflector.Reflect(configInstance).MarshalJSON()
	return schema, trace.Wrap(err, "failed to marshal schema for %T", configInstance)
}
