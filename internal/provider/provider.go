// Package provider translates domain-level requests (ticker plus period,
// with an optional tag filter) into cached, normalized results. Every
// operation is a single cache-then-fetch-then-normalize round trip: the
// cache is consulted first, a miss triggers one blocking API call whose raw
// response is cached, and the response is reshaped into a flat mapping for
// downstream consumers.
package provider

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/quantival/valuator/internal/cache"
	"github.com/quantival/valuator/internal/clients/intrinio"
	"github.com/quantival/valuator/internal/fiscal"
)

// API is the subset of the Intrinio client the provider depends on.
type API interface {
	SecurityPrices(ticker, startDate, endDate string) (*intrinio.StockPricesResponse, error)
	CompanyHistoricalData(ticker, tag, frequency, startDate, endDate string) (*intrinio.HistoricalDataResponse, error)
	StandardizedFinancials(statementID string) (*intrinio.StandardizedFinancialsResponse, error)
}

// Provider fetches, caches and normalizes financial data. All dependencies
// are injected; there is no shared state between calls beyond the cache.
type Provider struct {
	api   API
	cache *cache.Store
	log   zerolog.Logger
}

// New creates a new Provider.
func New(api API, store *cache.Store, log zerolog.Logger) *Provider {
	return &Provider{
		api:   api,
		cache: store,
		log:   log.With().Str("component", "provider").Logger(),
	}
}

// DailyClosePrices returns daily closing prices for a ticker over a date
// range, as a mapping of ISO date string to close. At most one page of 100
// records is requested. Returns a *DataError when the API call fails or the
// result holds zero records, a *ValidationError on any other failure during
// the call.
func (p *Provider) DailyClosePrices(ticker string, start, end time.Time) (map[string]float64, error) {
	ticker = strings.ToUpper(ticker)
	startStr := fiscal.FormatDate(start)
	endStr := fiscal.FormatDate(end)
	span := startStr + " - " + endStr

	key := priceKey(ticker, startStr, endStr)

	var resp intrinio.StockPricesResponse
	if !p.readCached(key, &resp) {
		r, err := p.api.SecurityPrices(ticker, startStr, endStr)
		if err != nil {
			return nil, p.classify(err, ticker, span, "error reading price data from security API")
		}
		resp = *r
		p.writeCached(key, &resp)
	}

	// The raw response is cached before this check: an empty result stays
	// cached and the error is re-derived on every read.
	if len(resp.StockPrices) == 0 {
		return nil, &DataError{
			Ticker: ticker,
			Span:   span,
			Op:     "no prices returned from security API",
		}
	}

	prices := make(map[string]float64, len(resp.StockPrices))
	for _, price := range resp.StockPrices {
		prices[price.Date] = price.Close
	}

	return prices, nil
}

// HistoricalMetric returns a yearly metric series for a ticker, as a mapping
// of year to value. The year range is converted to a fiscal date range; the
// series covers [yearFrom, yearTo] inclusive and years absent from the
// provider's response are simply absent from the map.
func (p *Provider) HistoricalMetric(ticker string, yearFrom, yearTo int, tag string) (map[int]float64, error) {
	ticker = strings.ToUpper(ticker)
	span := fmt.Sprintf("%d - %d", yearFrom, yearTo)

	startDate, _ := fiscal.Period(yearFrom)
	_, endDate := fiscal.Period(yearTo)

	const frequency = "yearly"
	key := metricKey(ticker, yearFrom, yearTo, frequency, tag)

	var resp intrinio.HistoricalDataResponse
	if !p.readCached(key, &resp) {
		r, err := p.api.CompanyHistoricalData(ticker, tag, frequency, fiscal.FormatDate(startDate), fiscal.FormatDate(endDate))
		if err != nil {
			return nil, p.classify(err, ticker, span, fmt.Sprintf("error retrieving %q from company API", tag))
		}
		resp = *r
		p.writeCached(key, &resp)
	}

	if len(resp.HistoricalData) == 0 {
		return nil, &DataError{
			Ticker: ticker,
			Span:   span,
			Op:     fmt.Sprintf("no data returned for %q from company API", tag),
		}
	}

	series := make(map[int]float64, len(resp.HistoricalData))
	for _, datapoint := range resp.HistoricalData {
		year, err := fiscal.YearOf(datapoint.Date)
		if err != nil {
			return nil, &ValidationError{
				Ticker: ticker,
				Span:   span,
				Op:     fmt.Sprintf("error parsing %q from company API", tag),
				Cause:  err,
			}
		}
		series[year] = datapoint.Value
	}

	return series, nil
}

// MetricForYear returns a single metric value for one year. When the
// provider has no datapoint for that exact year the caller gets an explicit
// *DataError naming the missing year, never a silent default.
func (p *Provider) MetricForYear(ticker string, year int, tag string) (float64, error) {
	series, err := p.HistoricalMetric(ticker, year, year, tag)
	if err != nil {
		return 0, err
	}

	value, ok := series[year]
	if !ok {
		return 0, &DataError{
			Ticker: strings.ToUpper(ticker),
			Span:   fmt.Sprintf("%d", year),
			Op:     fmt.Sprintf("metric %q has no datapoint for the requested year", tag),
		}
	}

	return value, nil
}

// readCached loads a cached raw response into v. A corrupt entry is logged
// and treated as a miss.
func (p *Provider) readCached(key string, v interface{}) bool {
	raw, ok := p.cache.Read(key)
	if !ok {
		return false
	}

	if err := msgpack.Unmarshal(raw, v); err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("Failed to decode cached response, refetching")
		return false
	}

	return true
}

// writeCached stores a raw response under key. Encoding failures are logged;
// the response is still returned to the caller.
func (p *Provider) writeCached(key string, v interface{}) {
	raw, err := msgpack.Marshal(v)
	if err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("Failed to encode response for caching")
		return
	}
	p.cache.Write(key, raw)
}

// classify maps an API call failure to the domain error taxonomy: explicit
// API refusals become *DataError, everything else *ValidationError.
func (p *Provider) classify(err error, ticker, span, op string) error {
	var apiErr *intrinio.APIError
	if errors.As(err, &apiErr) {
		return &DataError{Ticker: ticker, Span: span, Op: op, Cause: err}
	}
	return &ValidationError{Ticker: ticker, Span: span, Op: op, Cause: err}
}
