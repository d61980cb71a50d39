package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Ujjwal-270/Stock-Prediction/internal/config"
	"github.com/Ujjwal-270/Stock-Prediction/source"
)

// buildSource assembles the configured price source, wrapping it with the redis cache when
// enabled. The returned close func is always safe to call.
func buildSource(ctx context.Context, cfg *config.Config) (source.PriceSource, func()) {
	var src source.PriceSource
	switch cfg.Source.Kind {
	case config.SourceCSV:
		src = source.CSV{Path: cfg.Source.CSVPath, Dir: cfg.Source.CSVDir}
	default:
		src = source.NewYahoo(
			source.WithYahooURL(cfg.Source.YahooURL),
			source.WithHTTPClient(&http.Client{Timeout: cfg.Source.Timeout}),
			source.WithRateLimit(cfg.Source.RateLimit, cfg.Source.Burst),
		)
	}

	noop := func() {}
	if !cfg.Cache.Enabled {
		return src, noop
	}
	cache, err := source.NewRedisCache(ctx, source.RedisConfig{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	if err != nil {
		slog.Warn("price cache unavailable, fetching without cache", "addr", cfg.Cache.Addr, "error", err)
		return src, noop
	}
	closer := func() {
		if err := cache.Close(); err != nil {
			slog.Warn("unable to close price cache", "error", err)
		}
	}
	return source.NewCached(src, cache, cfg.Cache.TTL), closer
}
