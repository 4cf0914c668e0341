package provider

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantival/valuator/internal/cache"
	"github.com/quantival/valuator/internal/clients/intrinio"
)

// fakeAPI is a test double for the Intrinio API that counts invocations and
// returns canned responses.
type fakeAPI struct {
	priceCalls     int
	metricCalls    int
	statementCalls int

	lastPriceTicker  string
	lastMetricTicker string

	pricesResp   *intrinio.StockPricesResponse
	pricesErr    error
	metricResp   *intrinio.HistoricalDataResponse
	metricErr    error
	statements   map[string]*intrinio.StandardizedFinancialsResponse
	statementErr map[string]error
}

func (f *fakeAPI) SecurityPrices(ticker, startDate, endDate string) (*intrinio.StockPricesResponse, error) {
	f.priceCalls++
	f.lastPriceTicker = ticker
	if f.pricesErr != nil {
		return nil, f.pricesErr
	}
	return f.pricesResp, nil
}

func (f *fakeAPI) CompanyHistoricalData(ticker, tag, frequency, startDate, endDate string) (*intrinio.HistoricalDataResponse, error) {
	f.metricCalls++
	f.lastMetricTicker = ticker
	if f.metricErr != nil {
		return nil, f.metricErr
	}
	return f.metricResp, nil
}

func (f *fakeAPI) StandardizedFinancials(statementID string) (*intrinio.StandardizedFinancialsResponse, error) {
	f.statementCalls++
	if err, ok := f.statementErr[statementID]; ok {
		return nil, err
	}
	resp, ok := f.statements[statementID]
	if !ok {
		return nil, &intrinio.APIError{StatusCode: 404, Message: "fundamental not found"}
	}
	return resp, nil
}

func newTestProvider(t *testing.T, api API) *Provider {
	t.Helper()

	store, err := cache.New(cache.Config{Dir: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	return New(api, store, zerolog.Nop())
}

func priceRange() (time.Time, time.Time) {
	start := time.Date(2019, time.October, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2019, time.October, 4, 0, 0, 0, 0, time.UTC)
	return start, end
}

func TestDailyClosePrices(t *testing.T) {
	api := &fakeAPI{
		pricesResp: &intrinio.StockPricesResponse{
			StockPrices: []intrinio.StockPrice{
				{Date: "2019-10-01", Close: 100},
				{Date: "2019-10-02", Close: 101},
				{Date: "2019-10-03", Close: 102},
				{Date: "2019-10-04", Close: 103},
			},
		},
	}
	p := newTestProvider(t, api)

	start, end := priceRange()
	prices, err := p.DailyClosePrices("AAPL", start, end)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{
		"2019-10-01": 100,
		"2019-10-02": 101,
		"2019-10-03": 102,
		"2019-10-04": 103,
	}, prices)
}

func TestDailyClosePricesSecondCallServedFromCache(t *testing.T) {
	api := &fakeAPI{
		pricesResp: &intrinio.StockPricesResponse{
			StockPrices: []intrinio.StockPrice{{Date: "2019-10-01", Close: 100}},
		},
	}
	p := newTestProvider(t, api)

	start, end := priceRange()

	first, err := p.DailyClosePrices("AAPL", start, end)
	require.NoError(t, err)

	second, err := p.DailyClosePrices("AAPL", start, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.priceCalls, "second identical request must be served from cache")
}

func TestDailyClosePricesDifferentRangeRefetches(t *testing.T) {
	api := &fakeAPI{
		pricesResp: &intrinio.StockPricesResponse{
			StockPrices: []intrinio.StockPrice{{Date: "2019-10-01", Close: 100}},
		},
	}
	p := newTestProvider(t, api)

	start, end := priceRange()
	_, err := p.DailyClosePrices("AAPL", start, end)
	require.NoError(t, err)

	_, err = p.DailyClosePrices("AAPL", start.AddDate(0, 0, -1), end)
	require.NoError(t, err)

	assert.Equal(t, 2, api.priceCalls)
}

func TestDailyClosePricesZeroRecords(t *testing.T) {
	api := &fakeAPI{pricesResp: &intrinio.StockPricesResponse{}}
	p := newTestProvider(t, api)

	start, end := priceRange()
	_, err := p.DailyClosePrices("AAPL", start, end)
	require.Error(t, err)

	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, "AAPL", dataErr.Ticker)
	assert.Equal(t, "2019-10-01 - 2019-10-04", dataErr.Span)

	// The empty response was cached before the zero-record check, so an
	// identical request re-derives the error from the cache without a refetch.
	_, err = p.DailyClosePrices("AAPL", start, end)
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, 1, api.priceCalls, "empty response must be served from cache")
}

func TestDailyClosePricesAPIError(t *testing.T) {
	api := &fakeAPI{pricesErr: &intrinio.APIError{StatusCode: 401, Message: "invalid api key"}}
	p := newTestProvider(t, api)

	start, end := priceRange()
	_, err := p.DailyClosePrices("AAPL", start, end)

	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.ErrorContains(t, err, "invalid api key")
}

func TestDailyClosePricesTransportError(t *testing.T) {
	api := &fakeAPI{pricesErr: errors.New("connection reset")}
	p := newTestProvider(t, api)

	start, end := priceRange()
	_, err := p.DailyClosePrices("AAPL", start, end)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestDailyClosePricesUppercasesTicker(t *testing.T) {
	api := &fakeAPI{
		pricesResp: &intrinio.StockPricesResponse{
			StockPrices: []intrinio.StockPrice{{Date: "2019-10-01", Close: 100}},
		},
	}
	p := newTestProvider(t, api)

	start, end := priceRange()
	_, err := p.DailyClosePrices("aapl", start, end)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", api.lastPriceTicker)
}

func TestHistoricalMetric(t *testing.T) {
	api := &fakeAPI{
		metricResp: &intrinio.HistoricalDataResponse{
			HistoricalData: []intrinio.HistoricalDataPoint{
				{Date: "2018-12-31", Value: 1000},
				{Date: "2019-12-31", Value: 1100},
			},
		},
	}
	p := newTestProvider(t, api)

	series, err := p.HistoricalMetric("AAPL", 2017, 2019, "totalrevenue")
	require.NoError(t, err)

	// 2017 is absent from the response, so it is absent from the series.
	assert.Equal(t, map[int]float64{2018: 1000, 2019: 1100}, series)
}

func TestHistoricalMetricSecondCallServedFromCache(t *testing.T) {
	api := &fakeAPI{
		metricResp: &intrinio.HistoricalDataResponse{
			HistoricalData: []intrinio.HistoricalDataPoint{{Date: "2018-12-31", Value: 1000}},
		},
	}
	p := newTestProvider(t, api)

	_, err := p.HistoricalMetric("AAPL", 2018, 2018, "totalrevenue")
	require.NoError(t, err)

	_, err = p.HistoricalMetric("AAPL", 2018, 2018, "totalrevenue")
	require.NoError(t, err)

	assert.Equal(t, 1, api.metricCalls)
}

func TestHistoricalMetricEmptySeries(t *testing.T) {
	api := &fakeAPI{metricResp: &intrinio.HistoricalDataResponse{}}
	p := newTestProvider(t, api)

	_, err := p.HistoricalMetric("AAPL", 2018, 2019, "totalrevenue")

	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, "2018 - 2019", dataErr.Span)

	// Same invariant as for prices: the empty series is cached, and the error
	// is re-derived on every read.
	_, err = p.HistoricalMetric("AAPL", 2018, 2019, "totalrevenue")
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, 1, api.metricCalls, "empty series must be served from cache")
}

func TestHistoricalMetricAPIError(t *testing.T) {
	api := &fakeAPI{metricErr: &intrinio.APIError{StatusCode: 429, Message: "rate limited"}}
	p := newTestProvider(t, api)

	_, err := p.HistoricalMetric("AAPL", 2018, 2019, "totalrevenue")

	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
}

func TestHistoricalMetricMalformedDate(t *testing.T) {
	api := &fakeAPI{
		metricResp: &intrinio.HistoricalDataResponse{
			HistoricalData: []intrinio.HistoricalDataPoint{{Date: "garbage", Value: 1}},
		},
	}
	p := newTestProvider(t, api)

	_, err := p.HistoricalMetric("AAPL", 2018, 2018, "totalrevenue")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestMetricForYear(t *testing.T) {
	api := &fakeAPI{
		metricResp: &intrinio.HistoricalDataResponse{
			HistoricalData: []intrinio.HistoricalDataPoint{{Date: "2018-12-31", Value: 11.91}},
		},
	}
	p := newTestProvider(t, api)

	value, err := p.MetricForYear("AAPL", 2018, "adjdilutedeps")
	require.NoError(t, err)
	assert.Equal(t, 11.91, value)
}

func TestMetricForYearMissingYear(t *testing.T) {
	// The provider answers, but with a datapoint for a different year than
	// the one requested.
	api := &fakeAPI{
		metricResp: &intrinio.HistoricalDataResponse{
			HistoricalData: []intrinio.HistoricalDataPoint{{Date: "2017-12-31", Value: 9.27}},
		},
	}
	p := newTestProvider(t, api)

	_, err := p.MetricForYear("AAPL", 2018, "adjdilutedeps")
	require.Error(t, err)

	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, "2018", dataErr.Span)
}

func TestConvenienceMetricAccessors(t *testing.T) {
	tests := []struct {
		name string
		call func(p *Provider) (map[int]float64, error)
	}{
		{
			name: "HistoricalRevenue",
			call: func(p *Provider) (map[int]float64, error) { return p.HistoricalRevenue("AAPL", 2018, 2019) },
		},
		{
			name: "HistoricalFCFF",
			call: func(p *Provider) (map[int]float64, error) { return p.HistoricalFCFF("AAPL", 2018, 2019) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{
				metricResp: &intrinio.HistoricalDataResponse{
					HistoricalData: []intrinio.HistoricalDataPoint{
						{Date: "2018-12-31", Value: 1000},
						{Date: "2019-12-31", Value: 1100},
					},
				},
			}
			p := newTestProvider(t, api)

			series, err := tt.call(p)
			require.NoError(t, err)
			assert.Equal(t, map[int]float64{2018: 1000, 2019: 1100}, series)
		})
	}
}

func TestCorruptCacheEntryIsRefetched(t *testing.T) {
	api := &fakeAPI{
		pricesResp: &intrinio.StockPricesResponse{
			StockPrices: []intrinio.StockPrice{{Date: "2019-10-01", Close: 100}},
		},
	}

	store, err := cache.New(cache.Config{Dir: t.TempDir()}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	p := New(api, store, zerolog.Nop())

	start, end := priceRange()

	// Poison the cache entry for this request with undecodable bytes.
	key := priceKey("AAPL", "2019-10-01", "2019-10-04")
	store.Write(key, []byte{0xc1})

	prices, err := p.DailyClosePrices("AAPL", start, end)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"2019-10-01": 100}, prices)
	assert.Equal(t, 1, api.priceCalls, "corrupt entry must fall through to the API")
}

func TestErrorMessagesCarryContext(t *testing.T) {
	api := &fakeAPI{pricesErr: &intrinio.APIError{StatusCode: 500, Message: "server error"}}
	p := newTestProvider(t, api)

	start, end := priceRange()
	_, err := p.DailyClosePrices("AAPL", start, end)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "AAPL")
	assert.Contains(t, msg, "2019-10-01 - 2019-10-04")
	assert.Contains(t, msg, fmt.Sprintf("%d", 500))
}
