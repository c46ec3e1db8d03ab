package upstream_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quantfeed/twelvedata-mcp/pkg/upstream"
)

func TestNew_MissingAPIKey(t *testing.T) {
	t.Parallel()

	// Act: construct a client without a credential
	client, err := upstream.New("")

	// Assert: configuration error, no client
	require.ErrorIs(t, err, upstream.ErrMissingAPIKey)
	require.Nil(t, client)
}

func TestPrice(t *testing.T) {
	t.Parallel()

	// Arrange: upstream stub asserting the outgoing request shape
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/price", r.URL.Path)
		require.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		require.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"price":"129.3210"}`))
	}))
	defer srv.Close()

	client, err := upstream.New("test-key", upstream.WithBaseURL(srv.URL))
	require.NoError(t, err)

	// Act
	payload, err := client.Price(t.Context(), "AAPL")

	// Assert
	require.NoError(t, err)
	require.Equal(t, "129.3210", payload.Price)
}

func TestPrice_TransportError(t *testing.T) {
	t.Parallel()

	// Arrange: upstream answers 500 regardless of body
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := upstream.New("test-key", upstream.WithBaseURL(srv.URL))
	require.NoError(t, err)

	// Act
	_, err = client.Price(t.Context(), "AAPL")

	// Assert: classified as a transport error carrying the status
	var httpErr *upstream.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}

func TestPrice_ApplicationError(t *testing.T) {
	t.Parallel()

	// Arrange: HTTP 200 carrying the upstream error marker
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"error","code":400,"message":"bad symbol"}`))
	}))
	defer srv.Close()

	client, err := upstream.New("test-key", upstream.WithBaseURL(srv.URL))
	require.NoError(t, err)

	// Act
	_, err = client.Price(t.Context(), "NOPE")

	// Assert: classified as an application error, not a success
	var apiErr *upstream.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 400, apiErr.Code)
	require.Equal(t, "bad symbol", apiErr.Message)
}

func TestTimeSeries_OmitsUnsetParameters(t *testing.T) {
	t.Parallel()

	// Arrange: unset optional parameters must not appear in the query at all
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/time_series", r.URL.Path)
		require.Equal(t, "EUR/USD", r.URL.Query().Get("symbol"))
		require.Equal(t, "1h", r.URL.Query().Get("interval"))
		require.False(t, r.URL.Query().Has("outputsize"))
		require.False(t, r.URL.Query().Has("start_date"))
		require.False(t, r.URL.Query().Has("end_date"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"meta":{"symbol":"EUR/USD","interval":"1h"},"values":[]}`))
	}))
	defer srv.Close()

	client, err := upstream.New("test-key", upstream.WithBaseURL(srv.URL))
	require.NoError(t, err)

	// Act
	payload, err := client.TimeSeries(t.Context(), upstream.TimeSeriesRequest{
		Symbol:   "EUR/USD",
		Interval: "1h",
	})

	// Assert
	require.NoError(t, err)
	require.Equal(t, "EUR/USD", payload.Meta.Symbol)
	require.Empty(t, payload.Values)
}

func TestTechnicalIndicator_PathPerIndicator(t *testing.T) {
	t.Parallel()

	// Arrange: the indicator name doubles as the request path
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rsi", r.URL.Path)
		require.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		require.Equal(t, "1day", r.URL.Query().Get("interval"))
		require.Equal(t, "14", r.URL.Query().Get("time_period"))
		require.Equal(t, "30", r.URL.Query().Get("outputsize"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"meta":{"symbol":"AAPL","interval":"1day"},"values":[{"datetime":"2024-01-02","rsi":"55.1"}]}`))
	}))
	defer srv.Close()

	client, err := upstream.New("test-key", upstream.WithBaseURL(srv.URL))
	require.NoError(t, err)

	// Act
	payload, err := client.TechnicalIndicator(t.Context(), upstream.IndicatorRequest{
		Indicator:  "rsi",
		Symbol:     "AAPL",
		Interval:   "1day",
		TimePeriod: 14,
		OutputSize: 30,
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, payload.Values, 1)
	require.Equal(t, "55.1", payload.Values[0]["rsi"])
}

func TestCurrencyConversion(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/currency_conversion", r.URL.Path)
		require.Equal(t, "USD/EUR", r.URL.Query().Get("symbol"))
		require.Equal(t, "1000", r.URL.Query().Get("amount"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"USD/EUR","rate":0.92,"amount":920,"timestamp":1700000000}`))
	}))
	defer srv.Close()

	client, err := upstream.New("test-key", upstream.WithBaseURL(srv.URL))
	require.NoError(t, err)

	// Act
	payload, err := client.CurrencyConversion(t.Context(), "USD/EUR", 1000)

	// Assert
	require.NoError(t, err)
	require.InEpsilon(t, 0.92, payload.Rate, 0.0001)
	require.InEpsilon(t, 920.0, payload.Amount, 0.0001)
	require.Equal(t, int64(1700000000), payload.Timestamp)
}
