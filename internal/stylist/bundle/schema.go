package bundle

import "github.com/xeipuuv/gojsonschema"

const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["schemaVersion", "modelId", "trainedAt", "params", "classifier", "codecs"],
  "properties": {
    "schemaVersion": {"type": "integer", "minimum": 1},
    "modelId": {"type": "string", "minLength": 1},
    "trainedAt": {"type": "string", "format": "date-time"},
    "params": {
      "type": "object",
      "required": ["maxDepth"],
      "properties": {
        "maxDepth": {"type": "integer", "minimum": 1},
        "testSize": {"type": "number", "minimum": 0, "maximum": 1},
        "seed": {"type": "integer"}
      }
    },
    "evaluation": {"type": "object"},
    "classifier": {
      "type": "object",
      "required": ["maxDepth", "numFeatures", "numClasses", "root"],
      "properties": {
        "maxDepth": {"type": "integer", "minimum": 1},
        "numFeatures": {"type": "integer", "minimum": 1},
        "numClasses": {"type": "integer", "minimum": 1},
        "root": {"$ref": "#/definitions/node"}
      }
    },
    "codecs": {
      "type": "object",
      "required": ["weather", "event", "skinTone", "outfit"],
      "properties": {
        "weather": {"$ref": "#/definitions/codec"},
        "event": {"$ref": "#/definitions/codec"},
        "skinTone": {"$ref": "#/definitions/codec"},
        "outfit": {"$ref": "#/definitions/codec"}
      }
    }
  },
  "definitions": {
    "codec": {
      "type": "object",
      "required": ["classes"],
      "properties": {
        "classes": {
          "type": "array",
          "minItems": 1,
          "uniqueItems": true,
          "items": {"type": "string"}
        }
      }
    },
    "node": {
      "type": "object",
      "required": ["feature", "class"],
      "properties": {
        "feature": {"type": "integer", "minimum": -1},
        "threshold": {"type": "number"},
        "class": {"type": "integer", "minimum": 0},
        "samples": {"type": "integer", "minimum": 0},
        "left": {"$ref": "#/definitions/node"},
        "right": {"$ref": "#/definitions/node"}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)
