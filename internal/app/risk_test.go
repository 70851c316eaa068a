package app

import (
	"context"
	"testing"

	"trade-journal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestApp_PositionSize(t *testing.T) {
	a, _ := newTestApp()
	target := decimal.NewFromInt(106)
	commissions := decimal.NewFromInt(5)

	resp, err := a.PositionSize(&models.PositionSizeRequest{
		AccountSize: decimal.NewFromInt(10000),
		EntryPrice:  decimal.NewFromInt(100),
		StopLoss:    decimal.NewFromInt(98),
		TakeProfit:  &target,
		Commissions: &commissions,
	})
	if err != nil {
		t.Fatalf("PositionSize failed: %v", err)
	}

	// Default risk percent is 1: risk 100 over 2 per unit is 50 units.
	if !resp.PositionSize.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected position size 50, got %s", resp.PositionSize)
	}
	if !resp.RiskAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected risk amount 100, got %s", resp.RiskAmount)
	}
	if resp.RiskRewardRatio == nil || !resp.RiskRewardRatio.Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected risk reward 3, got %v", resp.RiskRewardRatio)
	}
	if resp.BreakevenPrice == nil || !resp.BreakevenPrice.Equal(decimal.NewFromFloat(100.1)) {
		t.Errorf("expected breakeven 100.1, got %v", resp.BreakevenPrice)
	}
}

func TestApp_PositionSize_Invalid(t *testing.T) {
	a, _ := newTestApp()

	tests := []struct {
		name string
		req  models.PositionSizeRequest
	}{
		{"zero account", models.PositionSizeRequest{
			AccountSize: decimal.Zero,
			EntryPrice:  decimal.NewFromInt(100),
			StopLoss:    decimal.NewFromInt(98),
		}},
		{"zero entry", models.PositionSizeRequest{
			AccountSize: decimal.NewFromInt(10000),
			EntryPrice:  decimal.Zero,
			StopLoss:    decimal.NewFromInt(98),
		}},
		{"stop equals entry", models.PositionSizeRequest{
			AccountSize: decimal.NewFromInt(10000),
			EntryPrice:  decimal.NewFromInt(100),
			StopLoss:    decimal.NewFromInt(100),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.PositionSize(&tt.req); !models.IsValidationError(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestApp_Kelly(t *testing.T) {
	a, _ := newTestApp()

	resp, err := a.Kelly(&models.KellyRequest{
		WinRate: decimal.NewFromFloat(0.6),
		AvgWin:  decimal.NewFromInt(200),
		AvgLoss: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("Kelly failed: %v", err)
	}
	if !resp.KellyFraction.Equal(decimal.NewFromFloat(0.4)) {
		t.Errorf("expected kelly 0.4, got %s", resp.KellyFraction)
	}

	if _, err := a.Kelly(&models.KellyRequest{WinRate: decimal.NewFromInt(2)}); !models.IsValidationError(err) {
		t.Errorf("expected validation error for win rate above 1, got %v", err)
	}
}

func TestApp_PortfolioHeat(t *testing.T) {
	a, _ := newTestApp()
	userID := uuid.New()
	ctx := context.Background()

	// Three open trades with stop-implied risks of 50 each.
	for i := 0; i < 3; i++ {
		if _, err := a.CreateTrade(ctx, userID, createRequest()); err != nil {
			t.Fatalf("CreateTrade failed: %v", err)
		}
	}

	account := decimal.NewFromInt(10000)
	resp, err := a.PortfolioHeat(ctx, userID, &account)
	if err != nil {
		t.Fatalf("PortfolioHeat failed: %v", err)
	}

	if resp.OpenTrades != 3 {
		t.Errorf("expected 3 open trades, got %d", resp.OpenTrades)
	}
	if !resp.TotalRisk.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected total risk 150, got %s", resp.TotalRisk)
	}
	if !resp.HeatPercent.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("expected heat 1.5, got %s", resp.HeatPercent)
	}
	if resp.OverMaxHeat {
		t.Error("expected heat under the cap")
	}

	small := decimal.NewFromInt(1000)
	resp, err = a.PortfolioHeat(ctx, userID, &small)
	if err != nil {
		t.Fatalf("PortfolioHeat failed: %v", err)
	}
	if !resp.OverMaxHeat {
		t.Errorf("expected heat %s over the cap", resp.HeatPercent)
	}
}
