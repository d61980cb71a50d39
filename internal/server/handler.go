package server

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	forecaster "github.com/Ujjwal-270/Stock-Prediction"
	"github.com/Ujjwal-270/Stock-Prediction/forecast"
	"github.com/Ujjwal-270/Stock-Prediction/source"
	"github.com/Ujjwal-270/Stock-Prediction/timedataset"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	ErrNoSource        = errors.New("no observations given and no price source configured")
	ErrTooManyObserved = errors.New("too many observations")
	ErrHorizonTooLong  = errors.New("horizon too long")
)

// ObservationRequest is a single inline observation. A null close is a missing value.
type ObservationRequest struct {
	Date  string   `json:"date" validate:"required,datetime=2006-01-02"`
	Close *float64 `json:"close"`
}

// ForecastRequest asks for a forecast of inline observations or of a symbol fetched from the
// configured source
type ForecastRequest struct {
	Symbol       string               `json:"symbol" validate:"required_without=Observations"`
	Start        string               `json:"start" default:"2020-01-01" validate:"omitempty,datetime=2006-01-02"`
	End          string               `json:"end" validate:"omitempty,datetime=2006-01-02"`
	Observations []ObservationRequest `json:"observations" validate:"omitempty,dive"`
	HorizonDays  *int                 `json:"horizon_days"`
	Confidence   *float64             `json:"confidence" validate:"omitempty,gt=0,lt=1"`
	Tail         int                  `json:"tail" validate:"gte=0"`
}

// ModelSummary describes the fit behind a response
type ModelSummary struct {
	TrainStartTime time.Time       `json:"train_start_time"`
	TrainEndTime   time.Time       `json:"train_end_time"`
	NoiseScale     float64         `json:"noise_scale"`
	Scores         forecast.Scores `json:"scores"`
	Changepoints   []time.Time     `json:"changepoints"`
}

// ForecastResponse is returned by the forecast endpoint
type ForecastResponse struct {
	Symbol   string              `json:"symbol,omitempty"`
	Model    ModelSummary        `json:"model"`
	Forecast forecaster.Forecast `json:"forecast"`
}

// ComponentsResponse is returned by the components endpoint
type ComponentsResponse struct {
	Symbol     string                `json:"symbol,omitempty"`
	Model      ModelSummary          `json:"model"`
	Weekdays   []string              `json:"weekdays"`
	Components forecaster.Components `json:"components"`
}

// ErrorResponse is the body of every non 2xx response
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Health reports liveness
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Forecast fits the requested series and returns the point forecast with its bounds
func (s *Server) Forecast(c echo.Context) error {
	req, m, opt, err := s.fit(c)
	if err != nil {
		return s.errorResponse(c, req.Symbol, err)
	}

	fc, err := m.Predict(opt.HorizonDays)
	if err != nil {
		return s.errorResponse(c, req.Symbol, err)
	}
	if req.Tail > 0 {
		fc = fc.Tail(req.Tail)
	}
	return c.JSON(http.StatusOK, ForecastResponse{
		Symbol:   req.Symbol,
		Model:    summarize(m),
		Forecast: fc,
	})
}

// Components fits the requested series and returns its trend, weekly and yearly projections
func (s *Server) Components(c echo.Context) error {
	req, m, opt, err := s.fit(c)
	if err != nil {
		return s.errorResponse(c, req.Symbol, err)
	}

	comp, err := m.Components(opt.HorizonDays)
	if err != nil {
		return s.errorResponse(c, req.Symbol, err)
	}
	return c.JSON(http.StatusOK, ComponentsResponse{
		Symbol:     req.Symbol,
		Model:      summarize(m),
		Weekdays:   weekdays,
		Components: comp,
	})
}

type validationErrors []string

func (v validationErrors) Error() string {
	return strings.Join(v, "; ")
}

func (s *Server) fit(c echo.Context) (*ForecastRequest, *forecaster.FittedModel, *forecaster.Options, error) {
	req := &ForecastRequest{}
	if err := c.Bind(req); err != nil {
		return req, nil, nil, err
	}
	if err := defaults.Set(req); err != nil {
		return req, nil, nil, err
	}
	if err := s.validate.StructCtx(c.Request().Context(), req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make(validationErrors, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return req, nil, nil, msgs
		}
		return req, nil, nil, err
	}
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))

	opt := s.forecast.Options()
	if req.HorizonDays != nil {
		opt.HorizonDays = *req.HorizonDays
	}
	if req.Confidence != nil {
		opt.Confidence = *req.Confidence
	}
	if opt.HorizonDays > s.cfg.MaxHorizonDays {
		return req, nil, nil, fmt.Errorf("got %d days, limit is %d, %w", opt.HorizonDays, s.cfg.MaxHorizonDays, ErrHorizonTooLong)
	}
	opt, err := opt.Validate()
	if err != nil {
		return req, nil, nil, err
	}

	obs, err := s.observations(c, req)
	if err != nil {
		return req, nil, nil, err
	}
	td, err := forecaster.Validate(obs, opt)
	if err != nil {
		return req, nil, nil, err
	}

	start := time.Now()
	m, err := forecaster.Fit(td, opt)
	if err != nil {
		return req, nil, nil, err
	}
	s.metrics.recordFit(time.Since(start), td.Len())
	return req, m, opt, nil
}

func (s *Server) observations(c echo.Context, req *ForecastRequest) ([]timedataset.Observation, error) {
	if len(req.Observations) > s.cfg.MaxObservations {
		return nil, fmt.Errorf("got %d, limit is %d, %w", len(req.Observations), s.cfg.MaxObservations, ErrTooManyObserved)
	}
	if len(req.Observations) > 0 {
		obs := make([]timedataset.Observation, 0, len(req.Observations))
		for i, o := range req.Observations {
			d, err := time.Parse(time.DateOnly, o.Date)
			if err != nil {
				return nil, fmt.Errorf("observation %d, %w", i, err)
			}
			y := math.NaN()
			if o.Close != nil {
				y = *o.Close
			}
			obs = append(obs, timedataset.Observation{T: d, Y: y})
		}
		return obs, nil
	}

	if s.src == nil {
		return nil, ErrNoSource
	}
	var start, end time.Time
	var err error
	if req.Start != "" {
		if start, err = time.Parse(time.DateOnly, req.Start); err != nil {
			return nil, fmt.Errorf("start, %w", err)
		}
	}
	if req.End != "" {
		if end, err = time.Parse(time.DateOnly, req.End); err != nil {
			return nil, fmt.Errorf("end, %w", err)
		}
	}
	fetchReq, err := source.NewRequest(req.Symbol, start, end)
	if err != nil {
		return nil, err
	}
	return s.src.Fetch(c.Request().Context(), fetchReq)
}

func summarize(m *forecaster.FittedModel) ModelSummary {
	chpts := m.Changepoints()
	t := make([]time.Time, 0, len(chpts))
	for _, chpt := range chpts {
		t = append(t, chpt.T)
	}
	return ModelSummary{
		TrainStartTime: m.TrainStartTime(),
		TrainEndTime:   m.TrainEndTime(),
		NoiseScale:     m.NoiseScale(),
		Scores:         m.Scores(),
		Changepoints:   t,
	}
}

// errorResponse maps validation and data problems to 400, fit failures to 422 and everything
// else to 502 when the source failed or 500 otherwise
func (s *Server) errorResponse(c echo.Context, symbol string, err error) error {
	status, code, msg := http.StatusInternalServerError, "ERR_INTERNAL", err.Error()

	var httpErr *echo.HTTPError
	var fieldErrs validationErrors
	var parseErr *time.ParseError
	switch {
	case errors.As(err, &httpErr):
		status, code, msg = httpErr.Code, "ERR_BAD_REQUEST", fmt.Sprint(httpErr.Message)
	case errors.As(err, &fieldErrs):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "ERR_VALIDATION",
			Message: "invalid request",
			Details: fieldErrs,
		})
	case errors.Is(err, timedataset.ErrEmptySeries),
		errors.Is(err, timedataset.ErrInsufficientData),
		errors.Is(err, source.ErrNoData):
		status, code = http.StatusBadRequest, "ERR_INSUFFICIENT_DATA"
		if symbol != "" {
			msg = fmt.Sprintf("No or insufficient data found for %s, %s", symbol, err)
		}
	case errors.Is(err, forecaster.ErrInvalidHorizon), errors.Is(err, ErrHorizonTooLong):
		status, code = http.StatusBadRequest, "ERR_INVALID_HORIZON"
	case errors.Is(err, forecaster.ErrInvalidConfidence),
		errors.Is(err, forecaster.ErrInvalidMinHistory),
		errors.Is(err, source.ErrEmptySymbol),
		errors.Is(err, source.ErrInvalidRange),
		errors.Is(err, ErrNoSource),
		errors.Is(err, ErrTooManyObserved),
		errors.As(err, &parseErr):
		status, code = http.StatusBadRequest, "ERR_BAD_REQUEST"
	case errors.Is(err, forecaster.ErrFit):
		status, code = http.StatusUnprocessableEntity, "ERR_FIT"
	case errors.Is(err, source.ErrUnexpectedStatus), errors.Is(err, source.ErrYahooResponse):
		status, code = http.StatusBadGateway, "ERR_SOURCE"
	}

	s.metrics.recordError(code)
	if status >= http.StatusInternalServerError {
		slog.Warn("forecast request failed", "symbol", symbol, "status", status, "error", err)
	}
	return c.JSON(status, ErrorResponse{Code: code, Message: msg})
}
