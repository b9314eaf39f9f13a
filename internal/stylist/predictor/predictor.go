// Package predictor answers outfit questions from a loaded model bundle.
package predictor

import (
	"errors"
	"fmt"

	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/common/metrics"
	"outfit-workers/internal/stylist/bundle"
	"outfit-workers/internal/stylist/catalog"
	"outfit-workers/internal/stylist/codec"
)

// Defaults substituted for category values the model never saw.
const (
	DefaultWeather  = catalog.WeatherModerate
	DefaultOccasion = catalog.OccasionCasual
	DefaultSkinTone = catalog.SkinMedium
)

// FallbackOutfit is returned when the classifier cannot answer.
const FallbackOutfit = "Standard Smart Casual (Blue Jeans + White Shirt)"

const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

var ErrNilBundle = errors.New("predictor: nil bundle")

// Input records how one raw category value was encoded.
type Input struct {
	Value      string `json:"value"`
	Resolved   string `json:"resolved"`
	Code       int    `json:"code"`
	Resolution string `json:"resolution"`
	// Error is set when the sentinel code could not be decoded.
	Error string `json:"error,omitempty"`
}

type Prediction struct {
	Outfit string `json:"outfit"`
	Source string `json:"source"`
	// Reason is set when Source is fallback.
	Reason  string           `json:"reason,omitempty"`
	ModelID string           `json:"modelId"`
	Inputs  map[string]Input `json:"inputs"`
}

// Service is safe for concurrent use; it never mutates its bundle.
type Service struct {
	bundle *bundle.Bundle
	logger logger.Logger
}

// New validates b and wraps it.
func New(b *bundle.Bundle, log logger.Logger) (*Service, error) {
	if b == nil {
		return nil, ErrNilBundle
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		bundle: b,
		logger: log.WithFields(map[string]interface{}{"component": "predictor", "modelId": b.ModelID}),
	}, nil
}

func (s *Service) Bundle() *bundle.Bundle {
	return s.bundle
}

// Predict returns the outfit for the three category values. It never
// fails; see Recommend for how the answer was reached.
func (s *Service) Predict(weather, occasion, skinTone string) string {
	return s.Recommend(weather, occasion, skinTone).Outfit
}

// Recommend encodes each input with its default, runs the classifier and
// decodes the answer. Classifier faults, including panics, yield
// FallbackOutfit with Source set to fallback.
func (s *Service) Recommend(weather, occasion, skinTone string) (p Prediction) {
	codecs := s.bundle.Codecs
	inputs := map[string]Input{
		"weather":  s.resolve("weather", codecs.Weather, weather, DefaultWeather),
		"occasion": s.resolve("occasion", codecs.Event, occasion, DefaultOccasion),
		"skinTone": s.resolve("skinTone", codecs.SkinTone, skinTone, DefaultSkinTone),
	}

	p = Prediction{Source: SourceModel, ModelID: s.bundle.ModelID, Inputs: inputs}

	defer func() {
		if r := recover(); r != nil {
			p = s.fallback(p, fmt.Errorf("classifier panic: %v", r))
		}
	}()

	features := make([]int, bundle.NumFeatures)
	features[bundle.FeatureWeather] = inputs["weather"].Code
	features[bundle.FeatureEvent] = inputs["occasion"].Code
	features[bundle.FeatureSkinTone] = inputs["skinTone"].Code

	code, err := s.bundle.Classifier.Predict(features)
	if err != nil {
		return s.fallback(p, err)
	}
	outfit, err := codecs.Outfit.Decode(code)
	if err != nil {
		return s.fallback(p, err)
	}

	p.Outfit = outfit
	metrics.OutfitPredictions.WithLabelValues(SourceModel).Inc()
	return p
}

func (s *Service) resolve(field string, c *codec.Codec, value, def string) Input {
	code, tier := c.Resolve(value, def)
	in := Input{Value: value, Code: code, Resolution: tier.String()}

	switch tier {
	case codec.ResolvedExact:
		in.Resolved = value
	case codec.ResolvedDefault:
		in.Resolved = def
	default:
		resolved, err := c.Decode(code)
		if err != nil {
			in.Error = err.Error()
		}
		in.Resolved = resolved
	}

	if tier != codec.ResolvedExact {
		metrics.CategoryResolutions.WithLabelValues(field, tier.String()).Inc()
		fields := map[string]interface{}{
			"field":    field,
			"value":    value,
			"resolved": in.Resolved,
			"tier":     tier.String(),
		}
		if in.Error != "" {
			fields["error"] = in.Error
		}
		s.logger.Debug("category value not in vocabulary", fields)
	}
	return in
}

func (s *Service) fallback(p Prediction, cause error) Prediction {
	p.Outfit = FallbackOutfit
	p.Source = SourceFallback
	p.Reason = cause.Error()

	metrics.OutfitPredictions.WithLabelValues(SourceFallback).Inc()
	s.logger.Warn("classifier fault, returning fallback outfit", map[string]interface{}{
		"error":  cause,
		"inputs": p.Inputs,
	})
	return p
}
