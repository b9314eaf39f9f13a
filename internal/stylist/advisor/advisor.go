// Package advisor turns a city, occasion and complexion into a complete
// style guide.
package advisor

import (
	"context"
	"time"

	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/common/observability"
	"outfit-workers/internal/common/weather"
	"outfit-workers/internal/models"
	"outfit-workers/internal/stylist/catalog"
	"outfit-workers/internal/stylist/palette"
	"outfit-workers/internal/stylist/predictor"

	"github.com/google/uuid"
)

// WeatherSource is satisfied by *weather.Client.
type WeatherSource interface {
	Lookup(ctx context.Context, city string) weather.Report
}

type Advisor struct {
	weather   WeatherSource
	predictor *predictor.Service
	obs       *observability.Observability
	logger    logger.Logger
	now       func() time.Time
}

// New wires the collaborators. obs may be nil.
func New(ws WeatherSource, svc *predictor.Service, obs *observability.Observability, log logger.Logger) *Advisor {
	return &Advisor{
		weather:   ws,
		predictor: svc,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": "advisor"}),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (a *Advisor) Predictor() *predictor.Service {
	return a.predictor
}

// Recommend never fails: weather problems fall back to the default report
// and model problems to the fallback outfit. Inputs are capitalized first.
func (a *Advisor) Recommend(ctx context.Context, req models.StyleRequest) *models.Recommendation {
	start := time.Now()

	city := req.City
	occasion := catalog.Normalize(req.Occasion)
	skin := catalog.Normalize(req.SkinTone)
	undertone := catalog.Normalize(req.Undertone)

	var report weather.Report
	if w := catalog.Normalize(req.Weather); w != "" {
		report = weather.Report{City: city, Category: w, Source: "input"}
	} else {
		report = a.weather.Lookup(ctx, city)
	}

	prediction := a.predictor.Recommend(report.Category, occasion, skin)

	rec := &models.Recommendation{
		ID:            uuid.NewString(),
		City:          report.City,
		Weather:       report.Category,
		Temperature:   report.Temperature,
		WeatherSource: report.Source,
		Occasion:      occasion,
		SkinTone:      skin,
		Undertone:     undertone,
		Outfit:        prediction.Outfit,
		OutfitSource:  prediction.Source,
		Pieces:        catalog.SplitOutfit(prediction.Outfit),
		Palette:       palette.GetColorPalette(skin, undertone),
		Colors:        palette.GetColorRecommendation(skin),
		ModelID:       prediction.ModelID,
		GeneratedAt:   a.now(),
	}

	a.obs.RecordRecommendation(ctx, time.Since(start), rec.OutfitSource, rec.WeatherSource)
	a.logger.Info("recommendation ready", map[string]interface{}{
		"recommendationId": rec.ID,
		"city":             rec.City,
		"weather":          rec.Weather,
		"weatherSource":    rec.WeatherSource,
		"outfitSource":     rec.OutfitSource,
		"season":           rec.Palette.Season,
	})
	return rec
}
