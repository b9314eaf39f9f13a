// Package bundle persists a trained classifier together with the four
// codecs needed to encode its inputs and decode its output.
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"outfit-workers/internal/stylist/codec"
	"outfit-workers/internal/stylist/tree"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

// SchemaVersion is bumped whenever the persisted layout changes.
const SchemaVersion = 1

// Feature column order of the classifier input.
const (
	FeatureWeather = iota
	FeatureEvent
	FeatureSkinTone
	NumFeatures
)

var FeatureNames = []string{"Weather", "Event", "Skin_Tone"}

var ErrInvalidBundle = errors.New("INVALID_BUNDLE")

type Params struct {
	MaxDepth int     `json:"maxDepth"`
	TestSize float64 `json:"testSize"`
	Seed     int64   `json:"seed"`
}

type Evaluation struct {
	Samples       int     `json:"samples"`
	TrainSize     int     `json:"trainSize"`
	EvalSize      int     `json:"evalSize"`
	TrainAccuracy float64 `json:"trainAccuracy"`
	EvalAccuracy  float64 `json:"evalAccuracy"`
	Depth         int     `json:"depth"`
	Leaves        int     `json:"leaves"`
	Classes       int     `json:"classes"`
}

type Codecs struct {
	Weather  *codec.Codec `json:"weather"`
	Event    *codec.Codec `json:"event"`
	SkinTone *codec.Codec `json:"skinTone"`
	Outfit   *codec.Codec `json:"outfit"`
}

// Bundle is immutable once built or loaded; share it freely across
// goroutines.
type Bundle struct {
	SchemaVersion int              `json:"schemaVersion"`
	ModelID       string           `json:"modelId"`
	TrainedAt     time.Time        `json:"trainedAt"`
	Params        Params           `json:"params"`
	Evaluation    Evaluation       `json:"evaluation"`
	Classifier    *tree.Classifier `json:"classifier"`
	Codecs        Codecs           `json:"codecs"`
}

// New stamps a fresh bundle with an id and the current time.
func New(classifier *tree.Classifier, codecs Codecs, params Params, eval Evaluation) *Bundle {
	return &Bundle{
		SchemaVersion: SchemaVersion,
		ModelID:       uuid.NewString(),
		TrainedAt:     time.Now().UTC(),
		Params:        params,
		Evaluation:    eval,
		Classifier:    classifier,
		Codecs:        codecs,
	}
}

// Validate checks that the classifier and codecs agree with each other.
func (b *Bundle) Validate() error {
	if b.SchemaVersion != SchemaVersion {
		return fmt.Errorf("%w: schema version %d, want %d", ErrInvalidBundle, b.SchemaVersion, SchemaVersion)
	}
	if b.Classifier == nil {
		return fmt.Errorf("%w: missing classifier", ErrInvalidBundle)
	}
	for name, c := range map[string]*codec.Codec{
		"weather":  b.Codecs.Weather,
		"event":    b.Codecs.Event,
		"skinTone": b.Codecs.SkinTone,
		"outfit":   b.Codecs.Outfit,
	} {
		if c == nil || c.Len() == 0 {
			return fmt.Errorf("%w: empty %s codec", ErrInvalidBundle, name)
		}
	}
	if b.Classifier.NumFeatures != NumFeatures {
		return fmt.Errorf("%w: classifier expects %d features, want %d", ErrInvalidBundle, b.Classifier.NumFeatures, NumFeatures)
	}
	if b.Classifier.NumClasses != b.Codecs.Outfit.Len() {
		return fmt.Errorf("%w: classifier has %d classes but outfit codec has %d", ErrInvalidBundle, b.Classifier.NumClasses, b.Codecs.Outfit.Len())
	}
	if err := b.Classifier.Verify(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	return nil
}

// Labels names the classifier's features, values and classes for rendering.
func (b *Bundle) Labels() tree.Labels {
	return tree.Labels{
		Features: FeatureNames,
		Values: [][]string{
			b.Codecs.Weather.Classes(),
			b.Codecs.Event.Classes(),
			b.Codecs.SkinTone.Classes(),
		},
		Classes: b.Codecs.Outfit.Classes(),
	}
}

func (b *Bundle) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

func Marshal(b *Bundle) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// Unmarshal validates data against the bundle JSON schema, decodes it and
// checks its internal consistency.
func Unmarshal(data []byte) (*Bundle, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: schema validation failed: %v", ErrInvalidBundle, errs)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func Decode(r io.Reader) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	return Unmarshal(data)
}
