// Package intrinio provides an HTTP client for the Intrinio v2 financial
// data API: daily security prices, historical company metrics, and
// standardized fundamental financial statements.
package intrinio

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api-v2.intrinio.com"

// pricePageSize caps price queries at one page of 100 results.
// Multi-page aggregation is not implemented.
const pricePageSize = 100

// APIError is returned when the API answers with a non-2xx status. It marks
// an explicit refusal by the data source, as opposed to a transport or
// parsing failure.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("intrinio API returned status %d: %s", e.StatusCode, e.Message)
}

// Client is an Intrinio v2 API client
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Intrinio client. The API key is sent with every
// request and never logged.
func NewClient(apiKey string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log.With().Str("client", "intrinio").Logger(),
	}
}

// SecurityPrices fetches daily closing prices for a ticker over a date
// range. Dates are ISO yyyy-mm-dd strings. Returns at most one page of 100
// records.
func (c *Client) SecurityPrices(ticker, startDate, endDate string) (*StockPricesResponse, error) {
	params := url.Values{}
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)
	params.Set("frequency", "daily")
	params.Set("page_size", fmt.Sprintf("%d", pricePageSize))

	path := fmt.Sprintf("/securities/%s/prices", url.PathEscape(ticker))

	var result StockPricesResponse
	if err := c.get(path, params, &result); err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("ticker", ticker).
		Str("start", startDate).
		Str("end", endDate).
		Int("count", len(result.StockPrices)).
		Msg("Fetched security prices")

	return &result, nil
}

// CompanyHistoricalData fetches a historical metric series for a company.
// The tag is a provider-defined metric name (e.g. "totalrevenue").
func (c *Client) CompanyHistoricalData(ticker, tag, frequency, startDate, endDate string) (*HistoricalDataResponse, error) {
	params := url.Values{}
	params.Set("frequency", frequency)
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)

	path := fmt.Sprintf("/companies/%s/historical_data/%s", url.PathEscape(ticker), url.PathEscape(tag))

	var result HistoricalDataResponse
	if err := c.get(path, params, &result); err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("ticker", ticker).
		Str("tag", tag).
		Int("count", len(result.HistoricalData)).
		Msg("Fetched historical data")

	return &result, nil
}

// StandardizedFinancials fetches one standardized financial statement by its
// composite identifier, e.g. "AAPL-income_statement-2018-FY".
func (c *Client) StandardizedFinancials(statementID string) (*StandardizedFinancialsResponse, error) {
	path := fmt.Sprintf("/fundamentals/%s/standardized_financials", url.PathEscape(statementID))

	var result StandardizedFinancialsResponse
	if err := c.get(path, url.Values{}, &result); err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("statement_id", statementID).
		Int("count", len(result.StandardizedFinancials)).
		Msg("Fetched standardized financials")

	return &result, nil
}

// get performs a GET request against the API and decodes the JSON response.
func (c *Client) get(path string, params url.Values, out interface{}) error {
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
