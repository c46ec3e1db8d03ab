package tools

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/quantfeed/twelvedata-mcp/pkg/upstream"
)

// Formatters are pure: they read only the payload they are handed and
// produce the same bytes for the same input every time.

const (
	maxSeriesRows    = 50
	maxIndicatorRows = 30
)

// decimal5 renders a numeric-looking string to 5 fraction digits and
// passes anything unparsable through untouched.
func decimal5(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'f', 5, 64)
}

// rateString renders a rate with exactly 6 fraction digits.
func rateString(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 6, 64)
}

// amountString renders a converted amount with 2 to 6 fraction digits:
// trailing zeros are trimmed but at least two decimals remain.
func amountString(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 6, 64)
	dot := strings.IndexByte(s, '.')
	for len(s) > dot+3 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}

// isoTimestamp converts Unix epoch seconds into an ISO-8601 UTC instant.
func isoTimestamp(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

// splitPair derives the base and quote codes from a pair symbol such as
// "USD/EUR". A symbol without a slash comes back as base with empty quote.
func splitPair(symbol string) (base, quote string) {
	base, quote, _ = strings.Cut(symbol, "/")
	return base, quote
}

func formatPrice(symbol string, p *upstream.PricePayload) string {
	return fmt.Sprintf("%s price: %s", symbol, decimal5(p.Price))
}

func formatQuote(q *upstream.QuotePayload) string {
	var b strings.Builder

	title := q.Symbol
	if q.Name != "" {
		title += " — " + q.Name
	}
	fmt.Fprintf(&b, "## %s\n\n", title)
	b.WriteString("| Field | Value |\n|---|---|\n")

	arrow := ""
	if change, err := strconv.ParseFloat(q.Change, 64); err == nil {
		switch {
		case change > 0:
			arrow = " ▲"
		case change < 0:
			arrow = " ▼"
		}
	}

	fmt.Fprintf(&b, "| Close | %s%s |\n", decimal5(q.Close), arrow)
	fmt.Fprintf(&b, "| Change | %s (%s%%) |\n", decimal5(q.Change), decimal5(q.PercentChange))
	fmt.Fprintf(&b, "| Open | %s |\n", decimal5(q.Open))
	fmt.Fprintf(&b, "| High | %s |\n", decimal5(q.High))
	fmt.Fprintf(&b, "| Low | %s |\n", decimal5(q.Low))
	if q.PreviousClose != "" {
		fmt.Fprintf(&b, "| Previous close | %s |\n", decimal5(q.PreviousClose))
	}
	if q.Volume != "" {
		fmt.Fprintf(&b, "| Volume | %s |\n", q.Volume)
	}
	if q.FiftyTwoWeek != nil {
		fmt.Fprintf(&b, "| 52-week range | %s – %s |\n", decimal5(q.FiftyTwoWeek.Low), decimal5(q.FiftyTwoWeek.High))
	}
	if q.Exchange != "" {
		fmt.Fprintf(&b, "| Exchange | %s |\n", q.Exchange)
	}
	if q.Currency != "" {
		fmt.Fprintf(&b, "| Currency | %s |\n", q.Currency)
	}
	if q.Datetime != "" {
		fmt.Fprintf(&b, "| As of | %s |\n", q.Datetime)
	}
	return b.String()
}

func formatTimeSeries(p *upstream.TimeSeriesPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s time series (%s)\n\n", p.Meta.Symbol, p.Meta.Interval)

	if len(p.Values) == 0 {
		b.WriteString("No data returned.\n")
		return b.String()
	}

	withVolume := p.Values[0].Volume != ""
	if withVolume {
		b.WriteString("| Datetime | Open | High | Low | Close | Volume |\n|---|---|---|---|---|---|\n")
	} else {
		b.WriteString("| Datetime | Open | High | Low | Close |\n|---|---|---|---|---|\n")
	}

	rows := p.Values
	if len(rows) > maxSeriesRows {
		rows = rows[:maxSeriesRows]
	}
	for _, v := range rows {
		if withVolume {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				v.Datetime, decimal5(v.Open), decimal5(v.High), decimal5(v.Low), decimal5(v.Close), v.Volume)
		} else {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				v.Datetime, decimal5(v.Open), decimal5(v.High), decimal5(v.Low), decimal5(v.Close))
		}
	}
	if len(p.Values) > maxSeriesRows {
		fmt.Fprintf(&b, "\nShowing %d of %d rows.\n", maxSeriesRows, len(p.Values))
	}
	return b.String()
}

func formatExchangeRate(p *upstream.ExchangeRatePayload) string {
	base, quote := splitPair(p.Symbol)
	return fmt.Sprintf("1 %s = %s %s (as of %s)", base, rateString(p.Rate), quote, isoTimestamp(p.Timestamp))
}

func formatConversion(p *upstream.ConversionPayload) string {
	// The upstream amount field is already the converted amount.
	base, quote := splitPair(p.Symbol)
	var b strings.Builder
	fmt.Fprintf(&b, "%s to %s: %s %s\n", base, quote, amountString(p.Amount), quote)
	fmt.Fprintf(&b, "Rate: %s (as of %s)\n", rateString(p.Rate), isoTimestamp(p.Timestamp))
	return b.String()
}

func formatCommodities(p *upstream.CommoditiesPayload) string {
	if len(p.Data) == 0 {
		return "No commodities returned.\n"
	}

	grouped := make(map[string][]upstream.Commodity)
	for _, c := range p.Data {
		category := c.Category
		if category == "" {
			category = "Other"
		}
		grouped[category] = append(grouped[category], c)
	}

	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("## Commodities\n")
	for _, category := range categories {
		fmt.Fprintf(&b, "\n### %s\n\n| Symbol | Name |\n|---|---|\n", category)
		for _, c := range grouped[category] {
			fmt.Fprintf(&b, "| %s | %s |\n", c.Symbol, c.Name)
		}
	}
	return b.String()
}

func formatIndicator(indicator string, p *upstream.IndicatorPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s(%s) for %s\n\n", strings.ToUpper(indicator), p.Meta.Interval, p.Meta.Symbol)

	if len(p.Values) == 0 {
		fmt.Fprintf(&b, "No data returned for %s.\n", indicator)
		return b.String()
	}

	columns := indicatorColumns(p.Values[0])
	b.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(columns)) + "\n")

	rows := p.Values
	if len(rows) > maxIndicatorRows {
		rows = rows[:maxIndicatorRows]
	}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			if col == "datetime" {
				cells[i] = row[col]
			} else {
				cells[i] = decimal5(row[col])
			}
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	if len(p.Values) > maxIndicatorRows {
		fmt.Fprintf(&b, "\nShowing %d of %d rows.\n", maxIndicatorRows, len(p.Values))
	}
	return b.String()
}

// indicatorColumns derives the table header from the first row's key set:
// datetime first, the remaining keys sorted for deterministic output.
func indicatorColumns(row upstream.IndicatorRow) []string {
	columns := make([]string, 0, len(row))
	for key := range row {
		if key != "datetime" {
			columns = append(columns, key)
		}
	}
	sort.Strings(columns)
	if _, ok := row["datetime"]; ok {
		columns = append([]string{"datetime"}, columns...)
	}
	return columns
}
