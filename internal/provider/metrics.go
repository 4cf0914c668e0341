package provider

// Provider-defined metric tags used by the convenience accessors below.
// Tag names belong to the Intrinio vocabulary and are passed through
// verbatim.
const (
	// TagTotalRevenue is total revenue for a fiscal year.
	TagTotalRevenue = "totalrevenue"
	// TagFreeCashFlow is free cash flow for the firm (nopat minus the change
	// in invested capital).
	TagFreeCashFlow = "freecashflow"
	// TagDilutedEPS is diluted EPS adjusted for stock splits.
	TagDilutedEPS = "adjdilutedeps"
	// TagBookValuePerShare is total equity over weighted average diluted
	// shares outstanding.
	TagBookValuePerShare = "bookvaluepershare"
	// TagWeightedAvgDilutedShares is the weighted average of diluted
	// outstanding shares.
	TagWeightedAvgDilutedShares = "weightedavedilutedsharesos"
)

// HistoricalRevenue returns total revenue per year for the given range.
func (p *Provider) HistoricalRevenue(ticker string, yearFrom, yearTo int) (map[int]float64, error) {
	return p.HistoricalMetric(ticker, yearFrom, yearTo, TagTotalRevenue)
}

// HistoricalFCFF returns free cash flow for the firm per year for the given
// range.
func (p *Provider) HistoricalFCFF(ticker string, yearFrom, yearTo int) (map[int]float64, error) {
	return p.HistoricalMetric(ticker, yearFrom, yearTo, TagFreeCashFlow)
}

// DilutedEPS returns the diluted earnings per share for one year.
func (p *Provider) DilutedEPS(ticker string, year int) (float64, error) {
	return p.MetricForYear(ticker, year, TagDilutedEPS)
}

// BookValuePerShare returns the book value per share for one year.
func (p *Provider) BookValuePerShare(ticker string, year int) (float64, error) {
	return p.MetricForYear(ticker, year, TagBookValuePerShare)
}

// OutstandingDilutedShares returns the weighted average of diluted
// outstanding shares for one year.
func (p *Provider) OutstandingDilutedShares(ticker string, year int) (float64, error) {
	return p.MetricForYear(ticker, year, TagWeightedAvgDilutedShares)
}
