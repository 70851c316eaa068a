package risk

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestPositionSize(t *testing.T) {
	tests := []struct {
		name        string
		accountSize float64
		riskPercent float64
		entry       float64
		stop        float64
		expected    float64
	}{
		{"one percent long", 10000, 1, 100, 98, 50},
		{"one percent short", 10000, 1, 98, 100, 50},
		{"half percent", 20000, 0.5, 50, 49, 100},
		{"zero stop distance", 10000, 1, 100, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PositionSize(d(tt.accountSize), d(tt.riskPercent), d(tt.entry), d(tt.stop))
			if !got.Equal(d(tt.expected)) {
				t.Errorf("expected %v, got %s", tt.expected, got)
			}
		})
	}
}

func TestRiskRewardRatio(t *testing.T) {
	ratio := RiskRewardRatio(d(100), d(98), d(106))
	if ratio == nil || !ratio.Equal(d(3)) {
		t.Errorf("expected ratio 3, got %v", ratio)
	}

	ratio = RiskRewardRatio(d(100), d(105), d(90))
	if ratio == nil || !ratio.Equal(d(2)) {
		t.Errorf("expected short ratio 2, got %v", ratio)
	}

	if ratio := RiskRewardRatio(d(100), d(100), d(110)); ratio != nil {
		t.Errorf("expected nil ratio for zero risk distance, got %s", ratio)
	}
}

func TestKellyCriterion(t *testing.T) {
	// 60% win rate with 2:1 win/loss ratio: 0.6 - 0.4/2 = 0.4.
	kelly := KellyCriterion(d(0.6), d(200), d(100))
	if !kelly.Equal(d(0.4)) {
		t.Errorf("expected 0.4, got %s", kelly)
	}

	// Negative edge clamps to zero.
	kelly = KellyCriterion(d(0.3), d(100), d(100))
	if !kelly.IsZero() {
		t.Errorf("expected zero for negative edge, got %s", kelly)
	}

	// Zero average loss yields zero instead of dividing.
	kelly = KellyCriterion(d(0.6), d(100), d(0))
	if !kelly.IsZero() {
		t.Errorf("expected zero for zero avg loss, got %s", kelly)
	}

	// Result never exceeds 100.
	kelly = KellyCriterion(d(10000), d(10000), d(1))
	if !kelly.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected clamp to 100, got %s", kelly)
	}
}

func TestMaxPositionSize(t *testing.T) {
	got := MaxPositionSize(d(10000), d(25))
	if !got.Equal(d(2500)) {
		t.Errorf("expected 2500, got %s", got)
	}
}

func TestBreakevenPrice(t *testing.T) {
	got := BreakevenPrice(d(100), d(10), d(5))
	if !got.Equal(d(100.5)) {
		t.Errorf("expected 100.5, got %s", got)
	}

	got = BreakevenPrice(d(100), d(0), d(5))
	if !got.Equal(d(100)) {
		t.Errorf("expected entry price back with zero quantity, got %s", got)
	}
}

func TestPortfolioHeat(t *testing.T) {
	risks := []decimal.Decimal{d(100), d(150), d(200)}
	got := PortfolioHeat(risks, d(10000))
	if !got.Equal(d(4.5)) {
		t.Errorf("expected heat 4.5, got %s", got)
	}

	if got := PortfolioHeat(risks, d(0)); !got.IsZero() {
		t.Errorf("expected zero heat for zero account, got %s", got)
	}

	if got := PortfolioHeat(nil, d(10000)); !got.IsZero() {
		t.Errorf("expected zero heat with no positions, got %s", got)
	}
}
