// Package importer parses broker CSV exports into journal trades.
package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"trade-journal/journal"
	"trade-journal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// tradeRow is one line of a CSV export. Decimal columns are parsed as
// strings so malformed numbers surface as row errors instead of silent
// zeroes.
type tradeRow struct {
	Symbol      string `csv:"symbol"`
	Direction   string `csv:"direction"`
	AssetClass  string `csv:"asset_class"`
	EntryDate   string `csv:"entry_date"`
	EntryPrice  string `csv:"entry_price"`
	Quantity    string `csv:"quantity"`
	StopLoss    string `csv:"stop_loss"`
	TakeProfit  string `csv:"take_profit"`
	ExitDate    string `csv:"exit_date"`
	ExitPrice   string `csv:"exit_price"`
	Commissions string `csv:"commissions"`
	SetupName   string `csv:"setup_name"`
	Notes       string `csv:"notes"`
}

// ImportedTrade is a parsed, validated row. Close is set when the row
// carried exit data, meaning the trade should be created and immediately
// closed.
type ImportedTrade struct {
	Create models.CreateTradeRequest
	Close  *models.CloseTradeRequest
}

// RowError describes why a single row was rejected. Row numbers are
// 1-based and count data rows, not the header.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseResult holds the outcome of parsing a CSV file. Valid rows and
// rejected rows are reported side by side so one bad line does not sink
// the rest of the file.
type ParseResult struct {
	Trades []ImportedTrade
	Errors []RowError
}

// acceptedTimeFormats are tried in order when parsing date columns
var acceptedTimeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse reads a CSV export and converts each row into a validated trade.
func Parse(r io.Reader) (*ParseResult, error) {
	var rows []*tradeRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	result := &ParseResult{}
	for i, row := range rows {
		trade, err := convertRow(row)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: i + 1, Message: err.Error()})
			continue
		}
		result.Trades = append(result.Trades, *trade)
	}
	return result, nil
}

func convertRow(row *tradeRow) (*ImportedTrade, error) {
	symbol := strings.ToUpper(strings.TrimSpace(row.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	direction := models.TradeDirection(strings.ToLower(strings.TrimSpace(row.Direction)))
	if err := journal.ValidateDirection(direction); err != nil {
		return nil, err
	}

	assetClass := models.AssetClass(strings.ToLower(strings.TrimSpace(row.AssetClass)))
	if row.AssetClass == "" {
		assetClass = models.AssetClassStocks
	} else if err := journal.ValidateAssetClass(assetClass); err != nil {
		return nil, err
	}

	entryDate, err := parseTime(row.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("invalid entry_date: %w", err)
	}

	entryPrice, err := parseDecimal(row.EntryPrice, "entry_price")
	if err != nil {
		return nil, err
	}
	quantity, err := parseDecimal(row.Quantity, "quantity")
	if err != nil {
		return nil, err
	}

	stopLoss, err := parseOptionalDecimal(row.StopLoss, "stop_loss")
	if err != nil {
		return nil, err
	}
	takeProfit, err := parseOptionalDecimal(row.TakeProfit, "take_profit")
	if err != nil {
		return nil, err
	}
	commissions, err := parseOptionalDecimal(row.Commissions, "commissions")
	if err != nil {
		return nil, err
	}

	if err := journal.ValidateTrade(entryPrice, quantity, stopLoss, takeProfit, direction); err != nil {
		return nil, err
	}

	create := models.CreateTradeRequest{
		Symbol:      symbol,
		Direction:   direction,
		AssetClass:  assetClass,
		EntryDate:   entryDate,
		EntryPrice:  entryPrice,
		Quantity:    quantity,
		StopLoss:    stopLoss,
		TakeProfit:  takeProfit,
		Commissions: commissions,
	}
	if setup := strings.TrimSpace(row.SetupName); setup != "" {
		create.SetupName = &setup
	}
	if notes := strings.TrimSpace(row.Notes); notes != "" {
		create.Thesis = &notes
	}

	imported := &ImportedTrade{Create: create}

	// Exit columns come as a pair; one without the other is a bad row.
	hasExitDate := strings.TrimSpace(row.ExitDate) != ""
	hasExitPrice := strings.TrimSpace(row.ExitPrice) != ""
	if hasExitDate != hasExitPrice {
		return nil, fmt.Errorf("exit_date and exit_price must both be set or both be empty")
	}
	if hasExitDate {
		exitDate, err := parseTime(row.ExitDate)
		if err != nil {
			return nil, fmt.Errorf("invalid exit_date: %w", err)
		}
		if exitDate.Before(entryDate) {
			return nil, fmt.Errorf("exit_date precedes entry_date")
		}
		exitPrice, err := parseDecimal(row.ExitPrice, "exit_price")
		if err != nil {
			return nil, err
		}
		imported.Close = &models.CloseTradeRequest{
			ExitDate:  exitDate,
			ExitPrice: exitPrice,
		}
	}

	return imported, nil
}

func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("value is required")
	}
	for _, format := range acceptedTimeFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func parseDecimal(value, field string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, fmt.Errorf("%s is required", field)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", field, value)
	}
	return d, nil
}

func parseOptionalDecimal(value, field string) (*decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", field, value)
	}
	return &d, nil
}
