// Package validation checks decoded job variables against a small JSON
// schema subset.
package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// JSONSchema defines the structure for input/output schemas
type JSONSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]Property `json:"properties"`
	Required             []string            `json:"required,omitempty"`
	AdditionalProperties bool                `json:"additionalProperties,omitempty"`
}

type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Nullable    bool     `json:"nullable,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
	Maximum     *float64 `json:"maximum,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Pattern     *string  `json:"pattern,omitempty"`
	MinLength   *int     `json:"minLength,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput validates input against schema. Errors come back ordered
// by field name.
func ValidateInput(input map[string]interface{}, schema JSONSchema) *ValidationResult {
	var errs []ValidationError

	for _, field := range schema.Required {
		value, exists := input[field]
		if !exists || value == nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "required field missing",
				Code:    "REQUIRED_FIELD_MISSING",
			})
		}
	}

	fields := make([]string, 0, len(input))
	for name := range input {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	for _, name := range fields {
		value := input[name]
		prop, exists := schema.Properties[name]
		if !exists {
			if !schema.AdditionalProperties {
				errs = append(errs, ValidationError{
					Field:   name,
					Message: "field not allowed in schema",
					Code:    "EXTRA_FIELD",
				})
			}
			continue
		}
		if value == nil && (prop.Nullable || !slices.Contains(schema.Required, name)) {
			continue
		}
		errs = append(errs, validateField(name, value, prop)...)
	}

	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return &ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

func validateField(name string, value interface{}, prop Property) []ValidationError {
	if err := validateType(value, prop.Type); err != nil {
		return []ValidationError{{Field: name, Message: err.Error(), Code: "INVALID_TYPE"}}
	}

	var errs []ValidationError
	add := func(code, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Field: name, Message: fmt.Sprintf(format, args...), Code: code})
	}

	switch v := value.(type) {
	case string:
		length := len([]rune(strings.TrimSpace(v)))
		if prop.MinLength != nil && length < *prop.MinLength {
			add("MIN_LENGTH_VIOLATION", "value must be at least %d characters", *prop.MinLength)
		}
		if prop.MaxLength != nil && length > *prop.MaxLength {
			add("MAX_LENGTH_VIOLATION", "value must be at most %d characters", *prop.MaxLength)
		}
		if prop.Pattern != nil {
			if matched, err := regexp.MatchString(*prop.Pattern, v); err != nil || !matched {
				add("PATTERN_MISMATCH", "value must match pattern %s", *prop.Pattern)
			}
		}
		if len(prop.Enum) > 0 && !slices.Contains(prop.Enum, v) {
			add("INVALID_ENUM_VALUE", "value must be one of %v", prop.Enum)
		}
	case float64:
		if prop.Minimum != nil && v < *prop.Minimum {
			add("MINIMUM_VIOLATION", "value must be >= %g", *prop.Minimum)
		}
		if prop.Maximum != nil && v > *prop.Maximum {
			add("MAXIMUM_VIOLATION", "value must be <= %g", *prop.Maximum)
		}
	}

	return errs
}

func validateType(value interface{}, expectedType string) error {
	ok := true
	switch expectedType {
	case "string":
		_, ok = value.(string)
	case "number":
		switch value.(type) {
		case float64, int, int32, int64:
		default:
			ok = false
		}
	case "boolean":
		_, ok = value.(bool)
	case "object":
		_, ok = value.(map[string]interface{})
	case "array":
		_, ok = value.([]interface{})
	}
	if !ok {
		return fmt.Errorf("expected %s, got %T", expectedType, value)
	}
	return nil
}

// GetSchemaFromJSON parses JSON schema from string
func GetSchemaFromJSON(schemaJSON string) (JSONSchema, error) {
	var schema JSONSchema
	err := json.Unmarshal([]byte(schemaJSON), &schema)
	return schema, err
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}
