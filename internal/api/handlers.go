package api

import (
	"net/http"
	"strings"
	"time"

	apperrors "outfit-workers/internal/common/errors"
	"outfit-workers/internal/models"
	"outfit-workers/internal/stylist/bundle"
	"outfit-workers/internal/stylist/catalog"
	"outfit-workers/internal/stylist/palette"
	"outfit-workers/internal/stylist/predictor"

	"github.com/labstack/echo/v4"
)

type RecommendationRequest struct {
	City      string `json:"city" validate:"required,max=100"`
	Occasion  string `json:"occasion" validate:"required,max=50"`
	SkinTone  string `json:"skinTone" validate:"required,max=50"`
	Undertone string `json:"undertone" validate:"omitempty,max=50"`
	Weather   string `json:"weather" validate:"omitempty,max=50"`
}

type PredictionRequest struct {
	Weather  string `json:"weather" validate:"required,max=50"`
	Occasion string `json:"occasion" validate:"required,max=50"`
	SkinTone string `json:"skinTone" validate:"required,max=50"`
}

type PredictionResponse struct {
	predictor.Prediction
	Pieces [3]string `json:"pieces"`
}

type ModelResponse struct {
	ModelID       string            `json:"modelId"`
	SchemaVersion int               `json:"schemaVersion"`
	TrainedAt     time.Time         `json:"trainedAt"`
	Params        bundle.Params     `json:"params"`
	Evaluation    bundle.Evaluation `json:"evaluation"`
	Features      []string          `json:"features"`
	Outfits       []string          `json:"outfits"`
	Tree          string            `json:"tree"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"modelId": s.advisor.Predictor().Bundle().ModelID,
	})
}

func (s *Server) createRecommendation(c echo.Context) error {
	var req RecommendationRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.City = strings.TrimSpace(req.City)
	req.Occasion = strings.TrimSpace(req.Occasion)
	req.SkinTone = strings.TrimSpace(req.SkinTone)
	if err := c.Validate(req); err != nil {
		return err
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	rec := s.advisor.Recommend(ctx, models.StyleRequest{
		City:      req.City,
		Occasion:  req.Occasion,
		SkinTone:  req.SkinTone,
		Undertone: req.Undertone,
		Weather:   req.Weather,
	})
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) createPrediction(c echo.Context) error {
	var req PredictionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.Weather = catalog.Normalize(req.Weather)
	req.Occasion = catalog.Normalize(req.Occasion)
	req.SkinTone = catalog.Normalize(req.SkinTone)
	if err := c.Validate(req); err != nil {
		return err
	}

	p := s.advisor.Predictor().Recommend(req.Weather, req.Occasion, req.SkinTone)
	return c.JSON(http.StatusOK, PredictionResponse{
		Prediction: p,
		Pieces:     catalog.SplitOutfit(p.Outfit),
	})
}

// getPalettes returns every season without query parameters, otherwise the
// palette for the given complexion.
func (s *Server) getPalettes(c echo.Context) error {
	skin := catalog.Normalize(c.QueryParam("skinTone"))
	undertone := catalog.Normalize(c.QueryParam("undertone"))
	if skin == "" && undertone == "" {
		return c.JSON(http.StatusOK, map[string]interface{}{"palettes": palette.Seasons()})
	}
	return c.JSON(http.StatusOK, palette.GetColorPalette(skin, undertone))
}

func (s *Server) getColors(c echo.Context) error {
	return c.JSON(http.StatusOK, palette.GetColorRecommendation(c.Param("skinTone")))
}

func (s *Server) getWeather(c echo.Context) error {
	city := strings.TrimSpace(c.QueryParam("city"))
	if city == "" {
		return apperrors.NewInputValidationError("query parameter city is required")
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	report, err := s.weather.Fetch(ctx, city)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) getModel(c echo.Context) error {
	b := s.advisor.Predictor().Bundle()

	var rendered strings.Builder
	if err := b.Classifier.Render(&rendered, b.Labels()); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ModelResponse{
		ModelID:       b.ModelID,
		SchemaVersion: b.SchemaVersion,
		TrainedAt:     b.TrainedAt,
		Params:        b.Params,
		Evaluation:    b.Evaluation,
		Features:      bundle.FeatureNames,
		Outfits:       b.Codecs.Outfit.Classes(),
		Tree:          rendered.String(),
	})
}
