// Package tools binds the Twelve Data operations to MCP tools: one input
// schema, one upstream call, and one formatter per tool, wrapped in the
// uniform success/error envelope.
package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/quantfeed/twelvedata-mcp/pkg/upstream"
)

// MarketData is the upstream surface the tools call. *upstream.Client
// implements it; tests substitute a recording fake.
type MarketData interface {
	Price(ctx context.Context, symbol string) (*upstream.PricePayload, error)
	Quote(ctx context.Context, symbol, interval string) (*upstream.QuotePayload, error)
	TimeSeries(ctx context.Context, r upstream.TimeSeriesRequest) (*upstream.TimeSeriesPayload, error)
	ExchangeRate(ctx context.Context, symbol string) (*upstream.ExchangeRatePayload, error)
	CurrencyConversion(ctx context.Context, symbol string, amount float64) (*upstream.ConversionPayload, error)
	Commodities(ctx context.Context) (*upstream.CommoditiesPayload, error)
	TechnicalIndicator(ctx context.Context, r upstream.IndicatorRequest) (*upstream.IndicatorPayload, error)
}

// ToolDependencies holds what a tool handler needs at call time.
type ToolDependencies struct {
	Client MarketData
	Logger *slog.Logger
}

// ToolConfig describes one tool: metadata, the params prototype its input
// schema is reflected from, and the handler binder.
type ToolConfig struct {
	Name        string
	Description string
	Prototype   any
	Handler     func(deps ToolDependencies, schema *argSchema) server.ToolHandlerFunc
}

// toolConfigs is the full tool table. Order here is the order tools are
// advertised in.
func toolConfigs() []ToolConfig {
	return []ToolConfig{
		{
			Name:        "get_price",
			Description: "Get the latest price for a stock, forex pair, ETF, or cryptocurrency symbol",
			Prototype:   &priceParams{},
			Handler:     createPriceHandler,
		},
		{
			Name:        "get_quote",
			Description: "Get the latest quote (OHLC, change, volume, 52-week range) for a symbol",
			Prototype:   &quoteParams{},
			Handler:     createQuoteHandler,
		},
		{
			Name:        "get_time_series",
			Description: "Get an OHLC time series for a symbol at a given interval",
			Prototype:   &timeSeriesParams{},
			Handler:     createTimeSeriesHandler,
		},
		{
			Name:        "get_exchange_rate",
			Description: "Get the live exchange rate for a currency pair such as USD/EUR",
			Prototype:   &exchangeRateParams{},
			Handler:     createExchangeRateHandler,
		},
		{
			Name:        "convert_currency",
			Description: "Convert an amount between the two currencies of a pair at the live rate",
			Prototype:   &convertParams{},
			Handler:     createConvertHandler,
		},
		{
			Name:        "list_commodities",
			Description: "List the commodity instruments available from the data provider, grouped by category",
			Prototype:   &commoditiesParams{},
			Handler:     createCommoditiesHandler,
		},
		{
			Name:        "get_technical_indicator",
			Description: "Compute a technical indicator (SMA, EMA, RSI, MACD, ...) for a symbol",
			Prototype:   &indicatorParams{},
			Handler:     createIndicatorHandler,
		},
	}
}

// Operation is one registered tool: its advertised definition plus the
// bound handler.
type Operation struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// Registry is the immutable operation table, built once at startup.
type Registry struct {
	operations []Operation
}

// NewRegistry compiles every tool's input schema and binds its handler.
// The result is read-only; concurrent calls share nothing mutable.
func NewRegistry(deps ToolDependencies) (*Registry, error) {
	configs := toolConfigs()
	operations := make([]Operation, 0, len(configs))

	for _, config := range configs {
		schema, err := newArgSchema(config.Prototype)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build schema for tool %s", config.Name)
		}
		operations = append(operations, Operation{
			Tool: mcp.Tool{
				Name:        config.Name,
				Description: config.Description,
				InputSchema: schema.inputSchema(),
				Annotations: readOnlyAnnotations(config.Name),
			},
			Handler: config.Handler(deps, schema),
		})
	}
	return &Registry{operations: operations}, nil
}

// Operations exposes the table, mostly for tests and discovery.
func (r *Registry) Operations() []Operation {
	return r.operations
}

// Apply registers every operation with the MCP server.
func (r *Registry) Apply(mcpServer *server.MCPServer) {
	for _, op := range r.operations {
		mcpServer.AddTool(op.Tool, op.Handler)
	}
}

// readOnlyAnnotations declares the side-effect profile shared by every
// tool: read-only, non-destructive, idempotent, open-world (live data).
func readOnlyAnnotations(title string) mcp.ToolAnnotation {
	yes, no := true, false
	return mcp.ToolAnnotation{
		Title:           title,
		ReadOnlyHint:    &yes,
		DestructiveHint: &no,
		IdempotentHint:  &yes,
		OpenWorldHint:   &yes,
	}
}
