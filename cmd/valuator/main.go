// Package main is the entry point for the valuator data fetcher. It wires
// the configuration, cache store, Intrinio client and data provider
// together, then fetches recent prices and fundamentals for each ticker
// named on the command line.
package main

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantival/valuator/internal/cache"
	"github.com/quantival/valuator/internal/clients/intrinio"
	"github.com/quantival/valuator/internal/config"
	"github.com/quantival/valuator/internal/provider"
	"github.com/quantival/valuator/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})

	if len(os.Args) < 2 {
		log.Fatal().Msg("Usage: valuator TICKER [TICKER...]")
	}

	store, err := cache.New(cache.Config{
		Dir:          cfg.CacheDir,
		MaxSizeBytes: cfg.CacheMaxBytes,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close cache store")
		}
	}()

	client := intrinio.NewClient(cfg.IntrinioAPIKey, log)
	dataProvider := provider.New(client, store, log)

	now := time.Now()
	fiveDaysAgo := now.AddDate(0, 0, -5)
	lastFullYear := now.Year() - 1

	for _, ticker := range os.Args[1:] {
		ticker = strings.ToUpper(ticker)

		prices, err := dataProvider.DailyClosePrices(ticker, fiveDaysAgo, now)
		if err != nil {
			logTickerError(log, ticker, err)
			continue
		}

		latestDate := ""
		for date := range prices {
			if date > latestDate {
				latestDate = date
			}
		}

		revenue, err := dataProvider.HistoricalRevenue(ticker, lastFullYear-4, lastFullYear)
		if err != nil {
			logTickerError(log, ticker, err)
			continue
		}

		log.Info().
			Str("ticker", ticker).
			Str("date", latestDate).
			Float64("close", prices[latestDate]).
			Int("revenue_years", len(revenue)).
			Msg("Fetched security data")
	}
}

// logTickerError reports a per-ticker failure and lets the batch continue.
func logTickerError(log zerolog.Logger, ticker string, err error) {
	var dataErr *provider.DataError
	var validationErr *provider.ValidationError

	switch {
	case errors.As(err, &dataErr):
		log.Error().Err(err).Str("ticker", ticker).Msg("Data source error")
	case errors.As(err, &validationErr):
		log.Error().Err(err).Str("ticker", ticker).Msg("Unexpected error reading data")
	default:
		log.Error().Err(err).Str("ticker", ticker).Msg("Failed to fetch data")
	}
}
