package provider

import "fmt"

// cachePrefix identifies the data source in every cache key.
const cachePrefix = "intrinio"

// Cache keys are dash-joined tokens. The grammar below is shared with
// pre-existing caches and must not change shape:
//
//	prices:    intrinio-<TICKER>-<start>-<end>-closing-prices
//	metric:    intrinio-metric-<TICKER>-<from>-<to>-<frequency>-<tag>
//	statement: intrinio-statement-<TICKER>-<kind>-FY-<year>

func priceKey(ticker, startDate, endDate string) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s", cachePrefix, ticker, startDate, endDate, "closing-prices")
}

func metricKey(ticker string, yearFrom, yearTo int, frequency, tag string) string {
	return fmt.Sprintf("%s-%s-%s-%d-%d-%s-%s", cachePrefix, "metric", ticker, yearFrom, yearTo, frequency, tag)
}

func statementKey(ticker string, kind StatementKind, year int) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s-%d", cachePrefix, "statement", ticker, kind, "FY", year)
}
