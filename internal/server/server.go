// Package server exposes the forecaster over a json http api.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Ujjwal-270/Stock-Prediction/internal/config"
	"github.com/Ujjwal-270/Stock-Prediction/source"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wraps the echo http server
type Server struct {
	echo     *echo.Echo
	cfg      config.ServerConfig
	forecast config.ForecastConfig
	src      source.PriceSource
	metrics  *Metrics
	validate *validator.Validate
}

// New creates a server that forecasts with forecastCfg defaults. src may be nil in which case
// every request must carry its own observations.
func New(cfg config.ServerConfig, forecastCfg config.ForecastConfig, src source.PriceSource) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = goccySerializer{}
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	s := &Server{
		echo:     e,
		cfg:      cfg,
		forecast: forecastCfg,
		src:      src,
		metrics:  NewMetrics(),
		validate: validator.New(),
	}

	e.Use(middleware.Recover())
	e.Use(s.metrics.Middleware())
	e.Use(requestLogging())

	e.GET("/healthz", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})))
	g := e.Group("/api")
	g.POST("/forecast", s.Forecast)
	g.POST("/components", s.Components)
	return s
}

// Handler returns the root http handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is canceled and then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.cfg.Addr)
		if err := s.echo.Start(s.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error, %w", err)
	}
	slog.Info("http server stopped")
	return nil
}

func requestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			slog.Debug("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
			)
			return err
		}
	}
}

type goccySerializer struct{}

func (goccySerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (goccySerializer) Deserialize(c echo.Context, i interface{}) error {
	err := json.NewDecoder(c.Request().Body).Decode(i)
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unmarshal type error: expected=%v, got=%v, field=%v, offset=%v", typeErr.Type, typeErr.Value, typeErr.Field, typeErr.Offset)).SetInternal(err)
	case errors.As(err, &syntaxErr):
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("syntax error: offset=%v, error=%v", syntaxErr.Offset, syntaxErr.Error())).SetInternal(err)
	}
	return err
}
