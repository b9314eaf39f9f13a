package validation

import (
	"encoding/json"
	"strings"

	"outfit-workers/internal/common/errors"
)

func intPtr(i int) *int { return &i }

var cityProperty = Property{
	Type:        "string",
	Description: "City name to look up weather for",
	MinLength:   intPtr(1),
	MaxLength:   intPtr(100),
}

// Category values are free text: unseen values are resolved by the
// predictor's fallback tiers, so no enum is enforced here.
var categoryProperty = Property{
	Type:      "string",
	MaxLength: intPtr(50),
	Nullable:  true,
}

var (
	RecommendOutfitSchema = JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"city":      cityProperty,
			"occasion":  categoryProperty,
			"skinTone":  categoryProperty,
			"undertone": categoryProperty,
			"weather":   categoryProperty,
		},
		Required:             []string{"city"},
		AdditionalProperties: true,
	}

	FetchWeatherSchema = JSONSchema{
		Type:                 "object",
		Properties:           map[string]Property{"city": cityProperty},
		Required:             []string{"city"},
		AdditionalProperties: true,
	}

	SelectColorPaletteSchema = JSONSchema{
		Type: "object",
		Properties: map[string]Property{
			"skinTone":  categoryProperty,
			"undertone": categoryProperty,
		},
		AdditionalProperties: true,
	}
)

// ValidateJobVariables decodes raw job variables and checks them against
// schema. Zeebe hands workers every process variable in scope, so extra
// fields are normally allowed.
func ValidateJobVariables(raw string, schema JSONSchema) error {
	var vars map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &vars); err != nil {
		return errors.NewInputValidationError("variables are not a JSON object: " + err.Error())
	}

	result := ValidateInput(vars, schema)
	if !result.Valid {
		return errors.NewInputValidationError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}
