package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/common/weather"
	"outfit-workers/internal/stylist/advisor"
	"outfit-workers/internal/stylist/catalog"
	"outfit-workers/internal/stylist/dataset"
	"outfit-workers/internal/stylist/predictor"
	"outfit-workers/internal/stylist/trainer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rainy struct{}

func (rainy) Lookup(_ context.Context, city string) weather.Report {
	return weather.Report{City: city, Category: "Rainy", Temperature: 14.2, WeatherCode: 61, Source: weather.SourceAPI}
}

func newAdvisor(t *testing.T) *advisor.Advisor {
	t.Helper()
	corpus, err := dataset.NewSeededGenerator(catalog.DefaultRules(), 42).Generate(1000)
	require.NoError(t, err)
	b, err := trainer.Train(corpus, trainer.DefaultOptions())
	require.NoError(t, err)
	svc, err := predictor.New(b, logger.NewNoOpLogger())
	require.NoError(t, err)
	return advisor.New(rainy{}, svc, nil, logger.NewNoOpLogger())
}

func TestRun_PrintsGuide(t *testing.T) {
	adv := newAdvisor(t)
	var out bytes.Buffer

	err := run(context.Background(), strings.NewReader("London\noffice\nlight\ncool\n"), &out, adv)
	require.NoError(t, err)

	text := out.String()
	expected := adv.Predictor().Predict("Rainy", "Office", "Light")
	assert.Contains(t, text, "Fetching weather for London")
	assert.Contains(t, text, "It is 14.2°C and 'Rainy'")
	assert.Contains(t, text, "Rainy Weather (14.2°C) | Office")
	assert.Contains(t, text, "Outfit:        "+expected)
	assert.Contains(t, text, "Summer (Soft, cool, muted pastels.)")
	assert.Contains(t, text, "Powder Blue #B0E0E6")
	assert.Contains(t, text, "Best Colors:   Navy Blue")
	assert.NotContains(t, text, "some answers use defaults")
	assert.True(t, strings.HasSuffix(text, rule+"\n\n"), "guide should end with the rule and a blank line")
}

func TestRun_RequiresCity(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), strings.NewReader("\nGym\nDark\nWarm\n"), &out, newAdvisor(t))
	assert.EqualError(t, err, "city is required")
}
