package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/xeipuuv/gojsonschema"
)

// OutputFormat selects between the human-readable markdown rendering and
// the structured pass-through of the typed payload.
type OutputFormat string

const (
	FormatMarkdown   OutputFormat = "markdown"
	FormatStructured OutputFormat = "structured"
)

func (OutputFormat) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Enum:        []any{string(FormatMarkdown), string(FormatStructured)},
		Default:     string(FormatMarkdown),
		Description: "Response format: markdown table/text or structured JSON",
	}
}

// Interval is a bar interval accepted by the upstream API.
type Interval string

func (Interval) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: []any{
			"1min", "5min", "15min", "30min", "45min",
			"1h", "2h", "4h", "8h",
			"1day", "1week", "1month",
		},
		Description: "Bar interval",
	}
}

// Indicator is one of the supported technical indicators. Each member maps
// to its own upstream endpoint.
type Indicator string

func (Indicator) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: []any{
			"sma", "ema", "wma", "rsi", "macd", "bbands", "stoch",
			"adx", "atr", "cci", "obv", "mom", "roc", "willr",
		},
		Description: "Technical indicator name",
	}
}

// CurrencyPair is a slash-separated pair of 3-5 character currency codes,
// e.g. USD/EUR or BTC/USDT.
type CurrencyPair string

func (CurrencyPair) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Pattern:     `^[A-Z]{3,5}/[A-Z]{3,5}$`,
		Description: "Currency pair in BASE/QUOTE form such as USD/EUR",
	}
}

type priceParams struct {
	Symbol string       `json:"symbol" jsonschema:"required,minLength=1,maxLength=20,description=Instrument symbol such as AAPL or EUR/USD"`
	Format OutputFormat `json:"format,omitempty"`
}

type quoteParams struct {
	Symbol   string       `json:"symbol" jsonschema:"required,minLength=1,maxLength=20,description=Instrument symbol such as AAPL or EUR/USD"`
	Interval Interval     `json:"interval,omitempty"`
	Format   OutputFormat `json:"format,omitempty"`
}

type timeSeriesParams struct {
	Symbol     string       `json:"symbol" jsonschema:"required,minLength=1,maxLength=20,description=Instrument symbol such as AAPL or EUR/USD"`
	Interval   Interval     `json:"interval" jsonschema:"required"`
	OutputSize int          `json:"outputsize,omitempty" jsonschema:"minimum=1,maximum=5000,default=30,description=Number of bars to return"`
	StartDate  string       `json:"start_date,omitempty" jsonschema:"pattern=^\\d{4}-\\d{2}-\\d{2}$,description=Series start date in YYYY-MM-DD form"`
	EndDate    string       `json:"end_date,omitempty" jsonschema:"pattern=^\\d{4}-\\d{2}-\\d{2}$,description=Series end date in YYYY-MM-DD form"`
	Format     OutputFormat `json:"format,omitempty"`
}

type exchangeRateParams struct {
	Symbol CurrencyPair `json:"symbol" jsonschema:"required"`
	Format OutputFormat `json:"format,omitempty"`
}

type convertParams struct {
	Symbol CurrencyPair `json:"symbol" jsonschema:"required"`
	Amount float64      `json:"amount" jsonschema:"required,exclusiveMinimum=0,description=Amount of the base currency to convert"`
	Format OutputFormat `json:"format,omitempty"`
}

type commoditiesParams struct {
	Format OutputFormat `json:"format,omitempty"`
}

type indicatorParams struct {
	Symbol     string       `json:"symbol" jsonschema:"required,minLength=1,maxLength=20,description=Instrument symbol such as AAPL or EUR/USD"`
	Indicator  Indicator    `json:"indicator" jsonschema:"required"`
	Interval   Interval     `json:"interval" jsonschema:"required"`
	TimePeriod int          `json:"time_period,omitempty" jsonschema:"minimum=1,maximum=200,default=14,description=Lookback period of the indicator"`
	OutputSize int          `json:"outputsize,omitempty" jsonschema:"minimum=1,maximum=500,default=30,description=Number of rows to return"`
	Format     OutputFormat `json:"format,omitempty"`
}

// ValidationError reports arguments that failed their schema before any
// upstream call was made. The message names the offending field and
// constraint.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments: %s", e.Detail)
}

// argSchema is one tool's declarative input contract: the reflected JSON
// Schema document used both for MCP tool discovery and for strict
// validation of incoming arguments.
type argSchema struct {
	doc      map[string]any
	compiled *gojsonschema.Schema
}

// newArgSchema reflects the prototype params struct into a JSON Schema and
// compiles it. Unknown fields are rejected via additionalProperties: false.
func newArgSchema(prototype any) (*argSchema, error) {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(prototype)

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}
	stripMetaSchemaFields(doc)

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &argSchema{doc: doc, compiled: compiled}, nil
}

// inputSchema converts the document into the shape mcp.Tool carries.
func (s *argSchema) inputSchema() mcp.ToolInputSchema {
	out := mcp.ToolInputSchema{Type: "object"}
	if props, ok := s.doc["properties"].(map[string]any); ok {
		out.Properties = props
	}
	if req, ok := s.doc["required"].([]any); ok {
		for _, field := range req {
			if name, ok := field.(string); ok {
				out.Required = append(out.Required, name)
			}
		}
	}
	return out
}

// validate checks args against the compiled schema. A failure is reported
// as a *ValidationError listing every violated field/constraint.
func (s *argSchema) validate(args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return &ValidationError{Detail: err.Error()}
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		details = append(details, fmt.Sprintf("%s: %s", resultErr.Field(), resultErr.Description()))
	}
	return &ValidationError{Detail: strings.Join(details, "; ")}
}

// bindArguments validates args and decodes them into out. Defaults must be
// pre-set on out by the caller; decoding only overwrites fields the caller
// actually supplied.
func bindArguments(args map[string]any, schema *argSchema, out any) error {
	if err := schema.validate(args); err != nil {
		return err
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return &ValidationError{Detail: err.Error()}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ValidationError{Detail: err.Error()}
	}
	return nil
}

// stripMetaSchemaFields removes meta-schema keywords that strict MCP
// clients reject from the reflected document.
func stripMetaSchemaFields(node map[string]any) {
	delete(node, "$schema")
	delete(node, "$id")

	for _, v := range node {
		switch child := v.(type) {
		case map[string]any:
			stripMetaSchemaFields(child)
		case []any:
			for _, elem := range child {
				if m, ok := elem.(map[string]any); ok {
					stripMetaSchemaFields(m)
				}
			}
		}
	}
}
