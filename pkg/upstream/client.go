package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.twelvedata.com"

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs authenticated GET requests against the Twelve Data API.
// Every call is one outbound round trip; the credential travels as the
// apikey query parameter on every request.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
}

// Option is a configuration option for the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Twelve Data client. It fails fast with ErrMissingAPIKey
// when no credential is supplied, before any network I/O can happen.
func New(apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// errorEnvelope is the application-error marker Twelve Data embeds in a
// structurally successful response.
type errorEnvelope struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// get performs one GET against path, decodes the body into out, and
// classifies failures: non-2xx becomes *HTTPError, a 2xx body carrying
// "status":"error" becomes *APIError.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	query.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &HTTPError{StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Status == "error" {
		return &APIError{Code: envelope.Code, Message: envelope.Message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Price retrieves the latest price for a symbol.
func (c *Client) Price(ctx context.Context, symbol string) (*PricePayload, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	var payload PricePayload
	if err := c.get(ctx, "/price", query, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Quote retrieves the latest quote for a symbol. Interval is optional and
// omitted from the query when empty.
func (c *Client) Quote(ctx context.Context, symbol, interval string) (*QuotePayload, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	if interval != "" {
		query.Set("interval", interval)
	}

	var payload QuotePayload
	if err := c.get(ctx, "/quote", query, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// TimeSeriesRequest holds the parameters of a time-series lookup. Zero
// values are treated as absent and never sent upstream.
type TimeSeriesRequest struct {
	Symbol     string
	Interval   string
	OutputSize int
	StartDate  string
	EndDate    string
}

// TimeSeries retrieves OHLC bars for a symbol.
func (c *Client) TimeSeries(ctx context.Context, r TimeSeriesRequest) (*TimeSeriesPayload, error) {
	query := url.Values{}
	query.Set("symbol", r.Symbol)
	query.Set("interval", r.Interval)
	if r.OutputSize > 0 {
		query.Set("outputsize", strconv.Itoa(r.OutputSize))
	}
	if r.StartDate != "" {
		query.Set("start_date", r.StartDate)
	}
	if r.EndDate != "" {
		query.Set("end_date", r.EndDate)
	}

	var payload TimeSeriesPayload
	if err := c.get(ctx, "/time_series", query, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ExchangeRate retrieves the live rate for a currency pair such as "USD/EUR".
func (c *Client) ExchangeRate(ctx context.Context, symbol string) (*ExchangeRatePayload, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	var payload ExchangeRatePayload
	if err := c.get(ctx, "/exchange_rate", query, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CurrencyConversion converts an amount between the two currencies of a
// pair symbol at the live rate.
func (c *Client) CurrencyConversion(ctx context.Context, symbol string, amount float64) (*ConversionPayload, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))

	var payload ConversionPayload
	if err := c.get(ctx, "/currency_conversion", query, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Commodities lists the commodity instruments the API covers.
func (c *Client) Commodities(ctx context.Context) (*CommoditiesPayload, error) {
	var payload CommoditiesPayload
	if err := c.get(ctx, "/commodities", url.Values{}, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// IndicatorRequest holds the parameters of a technical-indicator lookup.
// Indicator doubles as the request path: Twelve Data exposes one endpoint
// per indicator (/sma, /rsi, ...).
type IndicatorRequest struct {
	Indicator  string
	Symbol     string
	Interval   string
	TimePeriod int
	OutputSize int
}

// TechnicalIndicator retrieves a computed indicator series for a symbol.
func (c *Client) TechnicalIndicator(ctx context.Context, r IndicatorRequest) (*IndicatorPayload, error) {
	query := url.Values{}
	query.Set("symbol", r.Symbol)
	query.Set("interval", r.Interval)
	if r.TimePeriod > 0 {
		query.Set("time_period", strconv.Itoa(r.TimePeriod))
	}
	if r.OutputSize > 0 {
		query.Set("outputsize", strconv.Itoa(r.OutputSize))
	}

	var payload IndicatorPayload
	if err := c.get(ctx, "/"+r.Indicator, query, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
