// Package upstream provides a client for the Twelve Data market-data REST API.
package upstream

// PricePayload is the body of GET /price.
type PricePayload struct {
	Price string `json:"price"`
}

// FiftyTwoWeek is the optional 52-week range block inside a quote.
type FiftyTwoWeek struct {
	Low  string `json:"low"`
	High string `json:"high"`
}

// QuotePayload is the body of GET /quote. Twelve Data serializes numeric
// fields as strings; fields the plan may omit are modeled as optional.
type QuotePayload struct {
	Symbol        string        `json:"symbol"`
	Name          string        `json:"name,omitempty"`
	Exchange      string        `json:"exchange,omitempty"`
	Currency      string        `json:"currency,omitempty"`
	Datetime      string        `json:"datetime,omitempty"`
	Open          string        `json:"open"`
	High          string        `json:"high"`
	Low           string        `json:"low"`
	Close         string        `json:"close"`
	Volume        string        `json:"volume,omitempty"`
	PreviousClose string        `json:"previous_close,omitempty"`
	Change        string        `json:"change"`
	PercentChange string        `json:"percent_change"`
	FiftyTwoWeek  *FiftyTwoWeek `json:"fifty_two_week,omitempty"`
}

// SeriesMeta describes the instrument a time series belongs to.
type SeriesMeta struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Currency string `json:"currency,omitempty"`
	Exchange string `json:"exchange,omitempty"`
	Type     string `json:"type,omitempty"`
}

// SeriesValue is one OHLC bar. Volume is absent for instruments that do
// not report it (e.g. forex pairs).
type SeriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume,omitempty"`
}

// TimeSeriesPayload is the body of GET /time_series. Values arrive in the
// server-provided order and are never re-sorted here.
type TimeSeriesPayload struct {
	Meta   SeriesMeta    `json:"meta"`
	Values []SeriesValue `json:"values"`
}

// ExchangeRatePayload is the body of GET /exchange_rate.
type ExchangeRatePayload struct {
	Symbol    string  `json:"symbol"`
	Rate      float64 `json:"rate"`
	Timestamp int64   `json:"timestamp"`
}

// ConversionPayload is the body of GET /currency_conversion. Amount is
// the converted amount in the quote currency, not the requested one.
type ConversionPayload struct {
	Symbol    string  `json:"symbol"`
	Rate      float64 `json:"rate"`
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"`
}

// Commodity is one entry of GET /commodities.
type Commodity struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// CommoditiesPayload is the body of GET /commodities.
type CommoditiesPayload struct {
	Data []Commodity `json:"data"`
}

// IndicatorRow is one row of a technical-indicator series. The key set
// varies per indicator (e.g. macd carries three columns), so rows stay
// as string maps and the formatter derives the columns.
type IndicatorRow map[string]string

// IndicatorPayload is the body of GET /{indicator}.
type IndicatorPayload struct {
	Meta   SeriesMeta     `json:"meta"`
	Values []IndicatorRow `json:"values"`
}
