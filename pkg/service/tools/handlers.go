package tools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quantfeed/twelvedata-mcp/pkg/upstream"
)

// Every handler follows the same per-call sequence: validate and decode the
// arguments, perform the single upstream call, format the payload, wrap it
// in the envelope. Validation, transport, and application failures are all
// recovered here into an IsError result; none propagate out of the call.

// toolErrorMessage renders the disjoint error kinds distinctly.
func toolErrorMessage(err error) string {
	var validationErr *ValidationError
	var httpErr *upstream.HTTPError
	var apiErr *upstream.APIError

	switch {
	case errors.As(err, &validationErr):
		return "validation error: " + validationErr.Detail
	case errors.As(err, &httpErr):
		return "upstream transport error: " + httpErr.Error()
	case errors.As(err, &apiErr):
		return "upstream application error: " + apiErr.Error()
	default:
		return err.Error()
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: toolErrorMessage(err)},
		},
	}
}

// renderResult produces exactly one of the two envelope shapes: markdown
// text only, or serialized JSON text plus the structured payload.
func renderResult(format OutputFormat, payload any, markdown string) *mcp.CallToolResult {
	if format == FormatStructured {
		serialized, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return errorResult(err)
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.TextContent{Type: "text", Text: string(serialized)},
			},
			StructuredContent: payload,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: markdown},
		},
	}
}

func callLogger(deps ToolDependencies, tool string) *slog.Logger {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("tool", tool, "call_id", uuid.NewString())
}

func createPriceHandler(deps ToolDependencies, schema *argSchema) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := priceParams{Format: FormatMarkdown}
		if err := bindArguments(req.GetArguments(), schema, &params); err != nil {
			return errorResult(err), nil
		}
		logger := callLogger(deps, "get_price")
		logger.Debug("tool call", "symbol", params.Symbol)

		payload, err := deps.Client.Price(ctx, params.Symbol)
		if err != nil {
			logger.Warn("tool call failed", "error", err)
			return errorResult(err), nil
		}
		return renderResult(params.Format, payload, formatPrice(params.Symbol, payload)), nil
	}
}

func createQuoteHandler(deps ToolDependencies, schema *argSchema) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := quoteParams{Format: FormatMarkdown}
		if err := bindArguments(req.GetArguments(), schema, &params); err != nil {
			return errorResult(err), nil
		}
		logger := callLogger(deps, "get_quote")
		logger.Debug("tool call", "symbol", params.Symbol, "interval", string(params.Interval))

		payload, err := deps.Client.Quote(ctx, params.Symbol, string(params.Interval))
		if err != nil {
			logger.Warn("tool call failed", "error", err)
			return errorResult(err), nil
		}
		return renderResult(params.Format, payload, formatQuote(payload)), nil
	}
}

func createTimeSeriesHandler(deps ToolDependencies, schema *argSchema) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := timeSeriesParams{OutputSize: 30, Format: FormatMarkdown}
		if err := bindArguments(req.GetArguments(), schema, &params); err != nil {
			return errorResult(err), nil
		}
		logger := callLogger(deps, "get_time_series")
		logger.Debug("tool call", "symbol", params.Symbol, "interval", string(params.Interval), "outputsize", params.OutputSize)

		payload, err := deps.Client.TimeSeries(ctx, upstream.TimeSeriesRequest{
			Symbol:     params.Symbol,
			Interval:   string(params.Interval),
			OutputSize: params.OutputSize,
			StartDate:  params.StartDate,
			EndDate:    params.EndDate,
		})
		if err != nil {
			logger.Warn("tool call failed", "error", err)
			return errorResult(err), nil
		}
		return renderResult(params.Format, payload, formatTimeSeries(payload)), nil
	}
}

func createExchangeRateHandler(deps ToolDependencies, schema *argSchema) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := exchangeRateParams{Format: FormatMarkdown}
		if err := bindArguments(req.GetArguments(), schema, &params); err != nil {
			return errorResult(err), nil
		}
		logger := callLogger(deps, "get_exchange_rate")
		logger.Debug("tool call", "symbol", string(params.Symbol))

		payload, err := deps.Client.ExchangeRate(ctx, string(params.Symbol))
		if err != nil {
			logger.Warn("tool call failed", "error", err)
			return errorResult(err), nil
		}
		return renderResult(params.Format, payload, formatExchangeRate(payload)), nil
	}
}

func createConvertHandler(deps ToolDependencies, schema *argSchema) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := convertParams{Format: FormatMarkdown}
		if err := bindArguments(req.GetArguments(), schema, &params); err != nil {
			return errorResult(err), nil
		}
		logger := callLogger(deps, "convert_currency")
		logger.Debug("tool call", "symbol", string(params.Symbol), "amount", params.Amount)

		payload, err := deps.Client.CurrencyConversion(ctx, string(params.Symbol), params.Amount)
		if err != nil {
			logger.Warn("tool call failed", "error", err)
			return errorResult(err), nil
		}
		return renderResult(params.Format, payload, formatConversion(payload)), nil
	}
}

func createCommoditiesHandler(deps ToolDependencies, schema *argSchema) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := commoditiesParams{Format: FormatMarkdown}
		if err := bindArguments(req.GetArguments(), schema, &params); err != nil {
			return errorResult(err), nil
		}
		logger := callLogger(deps, "list_commodities")
		logger.Debug("tool call")

		payload, err := deps.Client.Commodities(ctx)
		if err != nil {
			logger.Warn("tool call failed", "error", err)
			return errorResult(err), nil
		}
		return renderResult(params.Format, payload, formatCommodities(payload)), nil
	}
}

func createIndicatorHandler(deps ToolDependencies, schema *argSchema) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params := indicatorParams{TimePeriod: 14, OutputSize: 30, Format: FormatMarkdown}
		if err := bindArguments(req.GetArguments(), schema, &params); err != nil {
			return errorResult(err), nil
		}
		logger := callLogger(deps, "get_technical_indicator")
		logger.Debug("tool call", "symbol", params.Symbol, "indicator", string(params.Indicator), "interval", string(params.Interval))

		payload, err := deps.Client.TechnicalIndicator(ctx, upstream.IndicatorRequest{
			Indicator:  string(params.Indicator),
			Symbol:     params.Symbol,
			Interval:   string(params.Interval),
			TimePeriod: params.TimePeriod,
			OutputSize: params.OutputSize,
		})
		if err != nil {
			logger.Warn("tool call failed", "error", err)
			return errorResult(err), nil
		}
		return renderResult(params.Format, payload, formatIndicator(string(params.Indicator), payload)), nil
	}
}
