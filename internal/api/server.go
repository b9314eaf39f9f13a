// Package api exposes the stylist over HTTP with echo.
package api

import (
	"context"
	"net/http"
	"time"

	"outfit-workers/internal/common/config"
	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/common/weather"
	"outfit-workers/internal/stylist/advisor"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WeatherFetcher is satisfied by *weather.Client.
type WeatherFetcher interface {
	Fetch(ctx context.Context, city string) (weather.Report, error)
}

type Server struct {
	echo    *echo.Echo
	advisor *advisor.Advisor
	weather WeatherFetcher
	limiter *RateLimiter
	config  config.APIConfig
	logger  logger.Logger
}

func NewServer(cfg config.APIConfig, adv *advisor.Advisor, wf WeatherFetcher, log logger.Logger) *Server {
	log = log.WithFields(map[string]interface{}{"component": "api"})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	s := &Server{
		echo:    e,
		advisor: adv,
		weather: wf,
		limiter: NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
		config:  cfg,
		logger:  log,
	}
	e.HTTPErrorHandler = s.handleError

	e.Use(RequestLogger(log))
	e.Use(middleware.Recover())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1", s.limiter.Middleware())
	v1.POST("/recommendations", s.createRecommendation)
	v1.POST("/predictions", s.createPrediction)
	v1.GET("/palettes", s.getPalettes)
	v1.GET("/colors/:skinTone", s.getColors)
	v1.GET("/weather", s.getWeather)
	v1.GET("/model", s.getModel)
}

// Handler exposes the router, mostly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks until the server stops. After Shutdown it returns
// http.ErrServerClosed.
func (s *Server) Start(ctx context.Context) error {
	go s.limiter.Cleanup(ctx, time.Minute)

	s.logger.Info("api listening", map[string]interface{}{"address": s.config.Address})
	return s.echo.Start(s.config.Address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	timeout := config.GetDuration(s.config.RequestTimeout)
	if timeout <= 0 {
		return context.WithCancel(c.Request().Context())
	}
	return context.WithTimeout(c.Request().Context(), timeout)
}
