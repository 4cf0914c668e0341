package intrinio

// StockPrice is one daily price record from the security prices endpoint.
type StockPrice struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// StockPricesResponse is the response of the security prices endpoint.
// A single page holds at most 100 records.
type StockPricesResponse struct {
	StockPrices []StockPrice `json:"stock_prices"`
	NextPage    string       `json:"next_page"`
}

// HistoricalDataPoint is one datapoint of a company metric series.
type HistoricalDataPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// HistoricalDataResponse is the response of the company historical data
// endpoint for a single metric tag.
type HistoricalDataResponse struct {
	HistoricalData []HistoricalDataPoint `json:"historical_data"`
	NextPage       string                `json:"next_page"`
}

// DataTag identifies a standardized financial line item. Tag names are
// defined by the provider and treated as opaque strings.
type DataTag struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

// StandardizedFinancial is one line item of a standardized statement.
type StandardizedFinancial struct {
	DataTag DataTag `json:"data_tag"`
	Value   float64 `json:"value"`
}

// StandardizedFinancialsResponse is the response of the fundamentals
// standardized financials endpoint for one statement identifier.
type StandardizedFinancialsResponse struct {
	StandardizedFinancials []StandardizedFinancial `json:"standardized_financials"`
}
