// Package config loads the pricecast yaml configuration shared by the cli and the http server.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	forecaster "github.com/Ujjwal-270/Stock-Prediction"
	"github.com/Ujjwal-270/Stock-Prediction/forecast/options"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	SourceYahoo = "yahoo"
	SourceCSV   = "csv"

	envPrefix = "PRICECAST_"
)

var ErrInvalidConfig = errors.New("invalid config")

var validate = validator.New()

// Config is the top level configuration
type Config struct {
	LogLevel string         `yaml:"log_level" default:"info" validate:"oneof=debug info warn error"`
	Forecast ForecastConfig `yaml:"forecast"`
	Source   SourceConfig   `yaml:"source"`
	Cache    CacheConfig    `yaml:"cache"`
	Server   ServerConfig   `yaml:"server"`
}

// ForecastConfig holds every model knob
type ForecastConfig struct {
	HorizonDays     int                  `yaml:"horizon_days" default:"365" validate:"gte=0,lte=3650"`
	Confidence      float64              `yaml:"confidence" default:"0.8" validate:"gt=0,lt=1"`
	MinHistory      int                  `yaml:"min_history" default:"2" validate:"gte=2"`
	TradingDaysOnly bool                 `yaml:"trading_days_only"`
	Weekly          WeeklyConfig         `yaml:"weekly"`
	Yearly          YearlyConfig         `yaml:"yearly"`
	Changepoints    ChangepointConfig    `yaml:"changepoints"`
	Regularization  RegularizationConfig `yaml:"regularization"`
	Robust          RobustConfig         `yaml:"robust"`
}

type WeeklyConfig struct {
	Orders int `yaml:"orders" default:"3" validate:"gte=0,lte=3"`
}

type YearlyConfig struct {
	Enabled *bool `yaml:"enabled" default:"true"`
	Orders  int   `yaml:"orders" default:"10" validate:"gte=0,lte=50"`
}

type ChangepointConfig struct {
	Count int     `yaml:"count" default:"25" validate:"gte=0"`
	Range float64 `yaml:"range" default:"0.8" validate:"gt=0,lte=1"`
}

type RegularizationConfig struct {
	Changepoint float64 `yaml:"changepoint" default:"0.01" validate:"gte=0"`
	Weekly      float64 `yaml:"weekly" default:"0.01" validate:"gte=0"`
	Yearly      float64 `yaml:"yearly" default:"0.01" validate:"gte=0"`
}

type RobustConfig struct {
	Enabled       *bool   `yaml:"enabled" default:"true"`
	MaxIterations int     `yaml:"max_iterations" default:"100" validate:"gt=0"`
	Tolerance     float64 `yaml:"tolerance" default:"1e-6" validate:"gt=0"`
	Delta         float64 `yaml:"delta" default:"1.345" validate:"gt=0"`
}

// SourceConfig selects and configures the price source
type SourceConfig struct {
	Kind      string        `yaml:"kind" default:"yahoo" validate:"oneof=yahoo csv"`
	Symbols   []string      `yaml:"symbols" default:"[\"AAPL\",\"NFLX\",\"GOOGL\",\"AMZN\",\"MSFT\"]" validate:"min=1,dive,required"`
	Start     string        `yaml:"start" default:"2020-01-01" validate:"datetime=2006-01-02"`
	CSVPath   string        `yaml:"csv_path"`
	CSVDir    string        `yaml:"csv_dir"`
	YahooURL  string        `yaml:"yahoo_url" default:"https://query1.finance.yahoo.com/v8/finance/chart" validate:"url"`
	RateLimit float64       `yaml:"rate_limit" default:"2" validate:"gt=0"`
	Burst     int           `yaml:"burst" default:"1" validate:"gte=1"`
	Timeout   time.Duration `yaml:"timeout" default:"30s" validate:"gt=0"`
}

// CacheConfig configures the redis price cache
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr" default:"localhost:6379" validate:"required_if=Enabled true"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	TTL      time.Duration `yaml:"ttl" default:"6h" validate:"gt=0"`
}

// ServerConfig configures the http api
type ServerConfig struct {
	Addr            string        `yaml:"addr" default:":8080" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	MaxObservations int           `yaml:"max_observations" default:"20000" validate:"gt=0"`
	MaxHorizonDays  int           `yaml:"max_horizon_days" default:"3650" validate:"gt=0"`
}

// Default returns the configuration with every default applied
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("unable to set config defaults, %w", err)
	}
	return &c, nil
}

// Load reads the yaml file at path, fills unset fields with defaults, applies environment
// overrides and validates the result. An empty path loads only defaults and the environment.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read config, %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("unable to parse config, %w", err)
		}
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("unable to set config defaults, %w", err)
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every field constraint
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w, %w", ErrInvalidConfig, err)
	}
	if c.Source.Kind == SourceCSV && c.Source.CSVPath == "" && c.Source.CSVDir == "" {
		return fmt.Errorf("csv source needs csv_path or csv_dir, %w", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(envPrefix + "SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup(envPrefix + "SOURCE"); ok {
		c.Source.Kind = v
	}
	if v, ok := lookup(envPrefix + "SYMBOLS"); ok {
		c.Source.Symbols = strings.Split(v, ",")
	}
	if v, ok := lookup(envPrefix + "CSV_DIR"); ok {
		c.Source.CSVDir = v
	}
	if v, ok := lookup(envPrefix + "REDIS_ADDR"); ok {
		c.Cache.Enabled = true
		c.Cache.Addr = v
	}
	if v, ok := lookup(envPrefix + "REDIS_PASSWORD"); ok {
		c.Cache.Password = v
	}
	if v, ok := lookup(envPrefix + "HORIZON_DAYS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sHORIZON_DAYS, %w", envPrefix, err)
		}
		c.Forecast.HorizonDays = n
	}
	return nil
}

// SlogLevel returns the slog level matching LogLevel
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// StartDate parses the configured start of the fetch range
func (s SourceConfig) StartDate() (time.Time, error) {
	return time.Parse(time.DateOnly, s.Start)
}

// Options translates the forecast configuration into forecaster options
func (f ForecastConfig) Options() *forecaster.Options {
	seriesOpt := &options.Options{
		ChangepointOptions: options.ChangepointOptions{
			Auto:                f.Changepoints.Count > 0,
			AutoNumChangepoints: f.Changepoints.Count,
			AutoRange:           f.Changepoints.Range,
		},
		ChangepointRegularization: f.Regularization.Changepoint,
		RobustOptions: options.RobustOptions{
			Enabled:    f.Robust.Enabled == nil || *f.Robust.Enabled,
			Iterations: f.Robust.MaxIterations,
			Tolerance:  f.Robust.Tolerance,
			Delta:      f.Robust.Delta,
		},
	}

	yearlyEnabled := f.Yearly.Enabled == nil || *f.Yearly.Enabled
	if f.Weekly.Orders > 0 {
		weekly := options.NewWeeklySeasonalityConfig(f.Weekly.Orders)
		weekly.Regularization = f.Regularization.Weekly
		seriesOpt.SeasonalityOptions.SeasonalityConfigs = append(seriesOpt.SeasonalityOptions.SeasonalityConfigs,
			weekly)
	}
	if yearlyEnabled && f.Yearly.Orders > 0 {
		yearly := options.NewYearlySeasonalityConfig(f.Yearly.Orders)
		yearly.Regularization = f.Regularization.Yearly
		seriesOpt.SeasonalityOptions.SeasonalityConfigs = append(seriesOpt.SeasonalityOptions.SeasonalityConfigs, yearly)
	}

	return &forecaster.Options{
		HorizonDays:     f.HorizonDays,
		Confidence:      f.Confidence,
		MinHistory:      f.MinHistory,
		DisableYearly:   !yearlyEnabled,
		TradingDaysOnly: f.TradingDaysOnly,
		SeriesOptions:   seriesOpt,
	}
}
