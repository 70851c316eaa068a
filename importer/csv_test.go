package importer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const csvHeader = "symbol,direction,asset_class,entry_date,entry_price,quantity,stop_loss,take_profit,exit_date,exit_price,commissions,setup_name,notes\n"

func TestParse_OpenTrade(t *testing.T) {
	input := csvHeader +
		"aapl,long,stocks,2026-03-10 09:30,100,10,95,115,,,1.50,breakout,strong volume\n"

	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected row errors: %v", result.Errors)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(result.Trades))
	}

	trade := result.Trades[0]
	if trade.Create.Symbol != "AAPL" {
		t.Errorf("expected symbol normalized to AAPL, got %s", trade.Create.Symbol)
	}
	if !trade.Create.EntryPrice.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected entry price 100, got %s", trade.Create.EntryPrice)
	}
	if trade.Create.StopLoss == nil || !trade.Create.StopLoss.Equal(decimal.NewFromInt(95)) {
		t.Errorf("expected stop loss 95, got %v", trade.Create.StopLoss)
	}
	if trade.Create.Commissions == nil || !trade.Create.Commissions.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("expected commissions 1.5, got %v", trade.Create.Commissions)
	}
	if trade.Create.SetupName == nil || *trade.Create.SetupName != "breakout" {
		t.Errorf("expected setup breakout, got %v", trade.Create.SetupName)
	}
	if trade.Close != nil {
		t.Error("expected no close request for open row")
	}
}

func TestParse_ClosedTrade(t *testing.T) {
	input := csvHeader +
		"TSLA,short,stocks,2026-03-10,250,5,260,230,2026-03-12,240,,,\n"

	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d (errors: %v)", len(result.Trades), result.Errors)
	}

	trade := result.Trades[0]
	if trade.Close == nil {
		t.Fatal("expected close request for row with exit data")
	}
	if !trade.Close.ExitPrice.Equal(decimal.NewFromInt(240)) {
		t.Errorf("expected exit price 240, got %s", trade.Close.ExitPrice)
	}
}

func TestParse_BadRowsReportedIndividually(t *testing.T) {
	input := csvHeader +
		"AAPL,long,stocks,2026-03-10,100,10,95,115,,,,,\n" + // good
		"MSFT,long,stocks,2026-03-10,100,10,105,115,,,,,\n" + // stop above entry on a long
		"NVDA,sideways,stocks,2026-03-10,100,10,,,,,,,\n" + // bad direction
		",long,stocks,2026-03-10,100,10,,,,,,,\n" + // missing symbol
		"AMZN,long,stocks,not-a-date,100,10,,,,,,,\n" + // bad date
		"META,long,stocks,2026-03-10,100,10,,,2026-03-12,,,,\n" // exit date without price

	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Trades) != 1 {
		t.Errorf("expected 1 valid trade, got %d", len(result.Trades))
	}
	if len(result.Errors) != 5 {
		t.Fatalf("expected 5 row errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if result.Errors[0].Row != 2 {
		t.Errorf("expected first error on row 2, got %d", result.Errors[0].Row)
	}
	if !strings.Contains(result.Errors[0].Message, "stop loss") {
		t.Errorf("expected stop loss message, got %q", result.Errors[0].Message)
	}
}

func TestParse_ExitBeforeEntry(t *testing.T) {
	input := csvHeader +
		"AAPL,long,stocks,2026-03-10,100,10,,,2026-03-09,110,,,\n"

	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 row error, got %d", len(result.Errors))
	}
	if !strings.Contains(result.Errors[0].Message, "precedes") {
		t.Errorf("unexpected message %q", result.Errors[0].Message)
	}
}

func TestParse_DefaultAssetClass(t *testing.T) {
	input := csvHeader +
		"AAPL,long,,2026-03-10,100,10,,,,,,,\n"

	result, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d (errors: %v)", len(result.Trades), result.Errors)
	}
	if result.Trades[0].Create.AssetClass != "stocks" {
		t.Errorf("expected default asset class stocks, got %s", result.Trades[0].Create.AssetClass)
	}
}

func TestParse_MalformedCSV(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}
