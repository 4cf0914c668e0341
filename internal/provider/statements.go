package provider

import (
	"fmt"
	"strings"

	"github.com/quantival/valuator/internal/clients/intrinio"
)

// StatementKind names a standardized financial statement.
type StatementKind string

// Statement kinds recognized by the fundamentals API.
const (
	IncomeStatement   StatementKind = "income_statement"
	BalanceSheet      StatementKind = "balance_sheet_statement"
	CashFlowStatement StatementKind = "cash_flow_statement"
)

// HistoricalStatement returns partial or complete standardized financial
// statements for each year in [yearFrom, yearTo] inclusive, as a mapping of
// year to tag/value pairs. A nil tagFilter returns every line item; a
// non-nil filter keeps only the named tags. The first API error for any year
// aborts the whole range; no partial results are returned.
func (p *Provider) HistoricalStatement(ticker string, yearFrom, yearTo int, kind StatementKind, tagFilter []string) (map[int]map[string]float64, error) {
	ticker = strings.ToUpper(ticker)
	span := fmt.Sprintf("%d - %d", yearFrom, yearTo)

	statements := make(map[int]map[string]float64)

	for year := yearFrom; year <= yearTo; year++ {
		// Composite statement identifier, e.g. "AAPL-income_statement-2018-FY".
		// The cache key is built from the bare kind, not the composite id.
		statementID := fmt.Sprintf("%s-%s-%d-%s", ticker, kind, year, "FY")
		key := statementKey(ticker, kind, year)

		var resp intrinio.StandardizedFinancialsResponse
		if !p.readCached(key, &resp) {
			r, err := p.api.StandardizedFinancials(statementID)
			if err != nil {
				return nil, p.classify(err, ticker, span, fmt.Sprintf("error retrieving %q from fundamentals API", kind))
			}
			resp = *r
			p.writeCached(key, &resp)
		}

		statements[year] = filterStatement(resp.StandardizedFinancials, tagFilter)
	}

	return statements, nil
}

// HistoricalIncomeStatement returns partial or complete income statements
// for the given ticker and year range.
func (p *Provider) HistoricalIncomeStatement(ticker string, yearFrom, yearTo int, tagFilter []string) (map[int]map[string]float64, error) {
	return p.HistoricalStatement(ticker, yearFrom, yearTo, IncomeStatement, tagFilter)
}

// HistoricalBalanceSheet returns partial or complete balance sheets for the
// given ticker and year range.
func (p *Provider) HistoricalBalanceSheet(ticker string, yearFrom, yearTo int, tagFilter []string) (map[int]map[string]float64, error) {
	return p.HistoricalStatement(ticker, yearFrom, yearTo, BalanceSheet, tagFilter)
}

// HistoricalCashFlowStatement returns partial or complete cash flow
// statements for the given ticker and year range.
func (p *Provider) HistoricalCashFlowStatement(ticker string, yearFrom, yearTo int, tagFilter []string) (map[int]map[string]float64, error) {
	return p.HistoricalStatement(ticker, yearFrom, yearTo, CashFlowStatement, tagFilter)
}

// filterStatement reshapes a raw standardized statement into a tag->value
// mapping. Tag names are opaque provider-defined strings: they are filtered,
// never validated. A nil filter keeps everything.
func filterStatement(items []intrinio.StandardizedFinancial, tagFilter []string) map[string]float64 {
	var wanted map[string]bool
	if tagFilter != nil {
		wanted = make(map[string]bool, len(tagFilter))
		for _, tag := range tagFilter {
			wanted[tag] = true
		}
	}

	result := make(map[string]float64)
	for _, item := range items {
		if wanted == nil || wanted[item.DataTag.Tag] {
			result[item.DataTag.Tag] = item.Value
		}
	}

	return result
}
