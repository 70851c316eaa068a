package api

import (
	"net/http"
	"testing"

	"trade-journal/models"

	"github.com/shopspring/decimal"
)

func TestRiskPositionSizeEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/risk/position-size", "test-token", map[string]any{
		"account_size": "10000",
		"entry_price":  "100",
		"stop_loss":    "98",
		"take_profit":  "106",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	sizing := decodeBody[models.PositionSizeResponse](t, resp)
	if !sizing.PositionSize.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected position size 50, got %s", sizing.PositionSize)
	}
	if sizing.RiskRewardRatio == nil || !sizing.RiskRewardRatio.Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected risk reward 3, got %v", sizing.RiskRewardRatio)
	}
}

func TestRiskPositionSizeEndpoint_Invalid(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/risk/position-size", "test-token", map[string]any{
		"account_size": "0",
		"entry_price":  "100",
		"stop_loss":    "98",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestRiskKellyEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/risk/kelly", "test-token", map[string]any{
		"win_rate": "0.6",
		"avg_win":  "200",
		"avg_loss": "100",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	kelly := decodeBody[models.KellyResponse](t, resp)
	if !kelly.KellyFraction.Equal(decimal.NewFromFloat(0.4)) {
		t.Errorf("expected kelly 0.4, got %s", kelly.KellyFraction)
	}
}

func TestRiskPortfolioHeatEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doRequest(t, http.MethodPost, server.URL+"/api/trades", "test-token", createBody())
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating trade, got %d", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodGet, server.URL+"/api/risk/portfolio-heat?account_size=10000", "test-token", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	heat := decodeBody[models.PortfolioHeatResponse](t, resp)
	if heat.OpenTrades != 1 {
		t.Errorf("expected 1 open trade, got %d", heat.OpenTrades)
	}
	// Entry 100 with stop 95 and quantity 10 implies 50 at risk.
	if !heat.TotalRisk.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected total risk 50, got %s", heat.TotalRisk)
	}
	if !heat.HeatPercent.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("expected heat 0.5, got %s", heat.HeatPercent)
	}
	if heat.OverMaxHeat {
		t.Error("expected heat under the cap")
	}
}
