package journal

import (
	"testing"
	"time"

	"trade-journal/models"

	"github.com/shopspring/decimal"
)

func d(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

func dp(value float64) *decimal.Decimal {
	v := decimal.NewFromFloat(value)
	return &v
}

func TestPnL(t *testing.T) {
	tests := []struct {
		name      string
		direction models.TradeDirection
		entry     float64
		exit      float64
		quantity  float64
		expected  float64
	}{
		{"long winner", models.TradeDirectionLong, 100, 110, 10, 100},
		{"long loser", models.TradeDirectionLong, 100, 95, 10, -50},
		{"short winner", models.TradeDirectionShort, 100, 90, 10, 100},
		{"short loser", models.TradeDirectionShort, 100, 105, 10, -50},
		{"flat exit", models.TradeDirectionLong, 100, 100, 10, 0},
		{"fractional quantity", models.TradeDirectionLong, 50000, 51000, 0.5, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PnL(tt.direction, d(tt.entry), d(tt.exit), d(tt.quantity))
			if !got.Equal(d(tt.expected)) {
				t.Errorf("expected %v, got %s", tt.expected, got)
			}
		})
	}
}

func TestPnLPercent(t *testing.T) {
	// 100 profit on a 1000 cost basis
	got := PnLPercent(d(100), d(100), d(10))
	if !got.Equal(d(10)) {
		t.Errorf("expected 10, got %s", got)
	}

	// Zero cost basis must not divide
	got = PnLPercent(d(100), decimal.Zero, d(10))
	if !got.IsZero() {
		t.Errorf("expected 0 for zero cost basis, got %s", got)
	}
}

func TestNetPnL(t *testing.T) {
	got := NetPnL(d(100), dp(5))
	if !got.Equal(d(95)) {
		t.Errorf("expected 95, got %s", got)
	}

	got = NetPnL(d(100), nil)
	if !got.Equal(d(100)) {
		t.Errorf("expected 100 with nil commissions, got %s", got)
	}

	// Commissions can push a small winner negative
	got = NetPnL(d(3), dp(5))
	if !got.Equal(d(-2)) {
		t.Errorf("expected -2, got %s", got)
	}
}

func TestRMultiple(t *testing.T) {
	got := RMultiple(d(100), dp(50))
	if got == nil || !got.Equal(d(2)) {
		t.Errorf("expected 2, got %v", got)
	}

	got = RMultiple(d(-50), dp(50))
	if got == nil || !got.Equal(d(-1)) {
		t.Errorf("expected -1, got %v", got)
	}

	if got := RMultiple(d(100), nil); got != nil {
		t.Errorf("expected nil without risk amount, got %s", got)
	}
	if got := RMultiple(d(100), dp(0)); got != nil {
		t.Errorf("expected nil for zero risk amount, got %s", got)
	}
}

func TestHoldTimeMinutes(t *testing.T) {
	entry := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		exit     time.Time
		expected int
	}{
		{"two hours", entry.Add(2 * time.Hour), 120},
		{"ninety seconds truncates", entry.Add(90 * time.Second), 1},
		{"same minute", entry.Add(30 * time.Second), 0},
		{"multi day", entry.Add(48 * time.Hour), 2880},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HoldTimeMinutes(entry, tt.exit); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestRiskFromStop(t *testing.T) {
	// Long with stop below entry: (100 - 95) * 10
	got := RiskFromStop(models.TradeDirectionLong, d(100), d(95), d(10))
	if !got.Equal(d(50)) {
		t.Errorf("expected 50, got %s", got)
	}

	// Short with stop above entry: (105 - 100) * 10
	got = RiskFromStop(models.TradeDirectionShort, d(100), d(105), d(10))
	if !got.Equal(d(50)) {
		t.Errorf("expected 50, got %s", got)
	}

	// Wrong-side stops clamp to zero
	if got := RiskFromStop(models.TradeDirectionLong, d(100), d(105), d(10)); !got.IsZero() {
		t.Errorf("expected 0 for wrong-side long stop, got %s", got)
	}
	if got := RiskFromStop(models.TradeDirectionShort, d(100), d(95), d(10)); !got.IsZero() {
		t.Errorf("expected 0 for wrong-side short stop, got %s", got)
	}
}

func TestPositionSizePct(t *testing.T) {
	got := PositionSizePct(d(2500), d(10000))
	if got == nil || !got.Equal(d(25)) {
		t.Errorf("expected 25, got %v", got)
	}

	if got := PositionSizePct(d(2500), decimal.Zero); got != nil {
		t.Errorf("expected nil for zero account, got %s", got)
	}
}

func TestComputeCloseMetrics(t *testing.T) {
	risk := d(50)
	commissions := d(5)
	trade := &models.Trade{
		Direction:   models.TradeDirectionLong,
		EntryDate:   time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		EntryPrice:  d(100),
		Quantity:    d(10),
		Commissions: &commissions,
		RiskAmount:  &risk,
	}
	req := &models.CloseTradeRequest{
		ExitDate:  trade.EntryDate.Add(90 * time.Minute),
		ExitPrice: d(110),
	}

	metrics := ComputeCloseMetrics(trade, req)

	if !metrics.PnL.Equal(d(100)) {
		t.Errorf("expected pnl 100, got %s", metrics.PnL)
	}
	if !metrics.PnLPercent.Equal(d(10)) {
		t.Errorf("expected pnl percent 10, got %s", metrics.PnLPercent)
	}
	if !metrics.NetPnL.Equal(d(95)) {
		t.Errorf("expected net pnl 95, got %s", metrics.NetPnL)
	}
	if metrics.RMultiple == nil || !metrics.RMultiple.Equal(d(2)) {
		t.Errorf("expected r multiple 2, got %v", metrics.RMultiple)
	}
	if metrics.HoldTimeMinutes != 90 {
		t.Errorf("expected hold time 90, got %d", metrics.HoldTimeMinutes)
	}
}

func TestComputeCloseMetrics_ActualFillWins(t *testing.T) {
	trade := &models.Trade{
		Direction:  models.TradeDirectionLong,
		EntryDate:  time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
		EntryPrice: d(100),
		Quantity:   d(10),
	}
	actual := d(109.5)
	req := &models.CloseTradeRequest{
		ExitDate:        trade.EntryDate.Add(time.Hour),
		ExitPrice:       d(110),
		ActualExitPrice: &actual,
	}

	metrics := ComputeCloseMetrics(trade, req)
	if !metrics.PnL.Equal(d(95)) {
		t.Errorf("expected pnl from actual fill 95, got %s", metrics.PnL)
	}
}
